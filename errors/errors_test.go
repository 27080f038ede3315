package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeServiceNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeServiceNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeServiceNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("SERVICE_NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeInternal, "boom", http.StatusInternalServerError)
	if !err.Retryable {
		t.Error("INTERNAL_ERROR should be retryable")
	}
}

func TestServiceNotFound_Details(t *testing.T) {
	err := ServiceNotFound("*app.Mailer", "")
	if err.Details["service"] != "*app.Mailer" {
		t.Errorf("expected service detail, got %v", err.Details["service"])
	}
	if _, ok := err.Details["name"]; ok {
		t.Error("expected no 'name' key in details when name is empty")
	}

	named := ServiceNotFound("*app.Mailer", "smtp")
	if named.Details["name"] != "smtp" {
		t.Errorf("expected name=smtp, got %v", named.Details["name"])
	}
	if !strings.Contains(named.Message, `"smtp"`) {
		t.Errorf("expected message to mention name, got %q", named.Message)
	}
}

func TestWrongParams_Details(t *testing.T) {
	err := WrongParams("int", "string")
	if err.Details["expected"] != "int" || err.Details["got"] != "string" {
		t.Errorf("unexpected details %v", err.Details)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.HTTPStatus)
	}
}

func TestAppError_Is_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", NoSessionAvailable("*app.Cart"))
	if !stderrors.Is(err, ErrNoSessionAvailable) {
		t.Error("expected errors.Is to match by code")
	}
	if stderrors.Is(err, ErrWrongSession) {
		t.Error("expected different codes not to match")
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := InvalidFactory("bad").WithCause(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("wrap: %w", WrongSession("bad key"))); got != ErrCodeWrongSession {
		t.Errorf("expected WRONG_SESSION, got %q", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("expected empty code, got %q", got)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ServiceNotFound("x", ""), http.StatusNotFound},
		{"wrong params", WrongParams("a", "b"), http.StatusBadRequest},
		{"no session", NoSessionAvailable("x"), http.StatusUnauthorized},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Status(tc.err); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestIsFrameworkCode(t *testing.T) {
	for _, code := range []ErrorCode{
		ErrCodeServiceNotFound, ErrCodeWrongParams, ErrCodeInvalidFactory,
		ErrCodeNoSessionAvailable, ErrCodeWrongSession,
	} {
		if !IsFrameworkCode(code) {
			t.Errorf("expected %s to be a framework code", code)
		}
	}
	if IsFrameworkCode(ErrCodeInternal) {
		t.Error("INTERNAL_ERROR is not a framework code")
	}
}

func TestToResponse(t *testing.T) {
	resp := Unauthorized("").ToResponse()
	if resp.Error.Code != ErrCodeUnauthorized {
		t.Errorf("expected UNAUTHORIZED, got %s", resp.Error.Code)
	}
	if resp.Error.Message != "Authentication required." {
		t.Errorf("expected default message, got %q", resp.Error.Message)
	}
}
