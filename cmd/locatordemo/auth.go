package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/validation"
)

const (
	roleAdmin  = "admin"
	roleMember = "member"
	roleGuest  = "guest"

	tokenTTL = time.Hour
)

var tenantPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// TenantClaims are the claims of a tenant token.
type TenantClaims struct {
	gojwt.RegisteredClaims
	Tenant string `json:"tenant"`
	Role   string `json:"role"`
}

// tokenService issues and verifies HS256 tenant tokens.
type tokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func newTokenService(secret, issuer string) *tokenService {
	return &tokenService{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Issue signs a token selecting tenant with role.
func (s *tokenService) Issue(tenant, role string) (string, error) {
	if err := validateTenant(tenant, role); err != nil {
		return "", err
	}
	now := s.now()
	claims := &TenantClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   tenant,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Tenant: tenant,
		Role:   role,
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the tenant it selects.
func (s *tokenService) Parse(token string) (Tenant, error) {
	claims := &TenantClaims{}
	_, err := gojwt.ParseWithClaims(token, claims, func(t *gojwt.Token) (any, error) {
		return s.secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(s.issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Tenant{}, apperrors.Unauthorized("invalid token").WithCause(err)
	}
	if err := validateTenant(claims.Tenant, claims.Role); err != nil {
		return Tenant{}, apperrors.Unauthorized("invalid token claims").WithCause(err)
	}
	return Tenant{ID: claims.Tenant, Role: claims.Role}, nil
}

// bearer extracts the token of an Authorization header.
func bearer(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", apperrors.Unauthorized("")
	}
	return token, nil
}

func validateTenant(tenant, role string) error {
	return validation.New().
		Required("tenant", tenant).
		MaxLength("tenant", tenant, 64).
		Pattern("tenant", tenant, tenantPattern).
		Required("role", role).
		OneOf("role", role, roleAdmin, roleMember, roleGuest).
		Validate()
}
