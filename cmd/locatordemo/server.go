package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/locator/di"
	apperrors "github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/observability"
	"github.com/kbukum/locator/session"
	"github.com/kbukum/locator/version"
)

const requestIDKey = "request_id"

type dataResponse struct {
	Data any `json:"data"`
}

type tokenRequest struct {
	Tenant string `json:"tenant"`
	Role   string `json:"role"`
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), a.observe())

	r.GET("/healthz", a.handleHealth)
	r.GET("/version", handleVersion)
	r.POST("/tokens", a.handleIssueToken)
	r.GET("/session", a.handleCurrentSession)
	r.POST("/session", a.handleSwitchSession)
	r.GET("/catalog", a.handleCatalog)
	r.GET("/reports/:month", a.handleReport)
	r.GET("/stats", a.handleStats)
	r.GET("/scratch", a.handleScratch)
	r.GET("/uptime", a.handleUptime)
	r.GET("/registrations", a.handleRegistrations)
	r.POST("/services/clear", a.handleClear)
	return r
}

// requestID reuses a valid X-Request-Id header or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// observe records request metrics and logs each request by status.
func (a *app) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		a.metrics.Start(ctx)
		c.Next()

		status := c.Writer.Status()
		d := time.Since(start)
		a.metrics.End(ctx, c.FullPath(), c.Request.Method, status, d)

		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			logger.FieldDuration, d.Milliseconds(),
			logger.FieldRequestID, c.GetString(requestIDKey),
		)
		switch {
		case status >= 500:
			a.log.Error("request completed", fields)
		case status >= 400:
			a.log.Warn("request completed", fields)
		default:
			a.log.Debug("request completed", fields)
		}
	}
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dataResponse{Data: data})
}

func respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.JSON(apperrors.Status(err), appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}

func (a *app) handleHealth(c *gin.Context) {
	h := observability.NewServiceHealth(a.cfg.Name, a.cfg.Version)
	for _, check := range a.checks {
		h.AddComponent(check.run(), check.critical)
	}
	status := http.StatusOK
	if h.Status == observability.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, h)
}

func handleVersion(c *gin.Context) {
	respondOK(c, version.Get())
}

func (a *app) handleIssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body").WithCause(err))
		return
	}
	token, err := a.tokens.Issue(req.Tenant, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dataResponse{Data: gin.H{"token": token, "expires_in": int(tokenTTL.Seconds())}})
}

func (a *app) handleCurrentSession(c *gin.Context) {
	t, ok := a.tenants.Current()
	if !ok {
		respondError(c, apperrors.NoSessionAvailable("tenant"))
		return
	}
	respondOK(c, gin.H{"tenant": t.ID, "role": t.Role})
}

// handleSwitchSession makes the bearer token's tenant current. The remake
// query parameter selects the policy.
func (a *app) handleSwitchSession(c *gin.Context) {
	token, err := bearer(c.GetHeader("Authorization"))
	if err != nil {
		respondError(c, err)
		return
	}
	t, err := a.tokens.Parse(token)
	if err != nil {
		respondError(c, err)
		return
	}
	policy, err := session.ParseRemakePolicy(c.Query("remake"))
	if err != nil {
		respondError(c, err)
		return
	}

	_, span := observability.StartSpan(c.Request.Context(), observability.SpanSessionUpdate,
		trace.WithAttributes(
			attribute.String(observability.AttrSession, t.ID),
			attribute.String(observability.AttrRequestID, c.GetString(requestIDKey)),
		))
	err = a.switchTenant(t, policy)
	span.End()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"tenant": t.ID, "role": t.Role, "remake": policy.String()})
}

func (a *app) handleCatalog(c *gin.Context) {
	cat, err := di.Resolve[*Catalog](a.loc)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, cat)
}

func (a *app) handleReport(c *gin.Context) {
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		respondError(c, apperrors.Validation("month must be a number"))
		return
	}
	r, err := di.ResolveWithParams[*Report](a.loc, ReportQuery{Month: month})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, r)
}

func (a *app) handleStats(c *gin.Context) {
	s, err := di.Resolve[*Stats](a.loc)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": s.ID, "resolves": s.Hit()})
}

func (a *app) handleScratch(c *gin.Context) {
	s, err := di.Resolve[*Scratch](a.loc)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": s.ID, "size": len(s.buf)})
}

func (a *app) handleUptime(c *gin.Context) {
	clock := di.MustResolve[*Clock](a.loc)
	respondOK(c, gin.H{"started": clock.Started, "uptime": clock.Uptime().String()})
}

func (a *app) handleRegistrations(c *gin.Context) {
	respondOK(c, a.loc.Registrations())
}

func (a *app) handleClear(c *gin.Context) {
	a.clearServices()
	respondOK(c, gin.H{"cleared": true})
}
