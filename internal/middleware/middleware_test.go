package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kataras/golog"
	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-api/internal/config"
)

func TestLoggingMiddleware(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := golog.New()
	logger.SetOutput(buf)
	logger.SetLevel("info")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-123")
	c.Set(ContextKeyUserID, "user-9")

	err := Logging(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "request_id=rid-123 user=user-9") {
		t.Fatalf("expected log output to contain request and user id, got %s", buf.String())
	}

	// errors are propagated and logged
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-456")
	expected := errors.New("boom")
	err = Logging(logger)(func(c echo.Context) error {
		return expected
	})(c)
	if !strings.Contains(buf.String(), "rid-456") || !strings.Contains(buf.String(), "status=500") {
		t.Fatalf("expected second log entry with new request id, got %s", buf.String())
	}
	if !errors.Is(err, expected) {
		t.Fatalf("expected error to bubble up")
	}
}

func TestRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Requests: 1, Interval: time.Minute}
	mw := RateLimiter(cfg)

	e := echo.New()
	nextCalls := 0
	next := func(c echo.Context) error {
		nextCalls++
		return c.NoContent(http.StatusOK)
	}

	serve := func(mw echo.MiddlewareFunc, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		_ = mw(next)(e.NewContext(req, rec))
		return rec
	}

	if rec := serve(mw, "/contacts/recruiters"); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	rec := serve(mw, "/emails/batch")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request on a sibling route rejected, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected retry-after 60, got %q", rec.Header().Get("Retry-After"))
	}

	// zero config is a passthrough
	passthrough := RateLimiter(config.RateLimitConfig{})
	for i := 0; i < 3; i++ {
		if rec := serve(passthrough, "/emails/batch"); rec.Code != http.StatusOK {
			t.Fatalf("expected passthrough when limiter disabled")
		}
	}
	if nextCalls != 4 {
		t.Fatalf("expected next handler invoked 4 times, got %d", nextCalls)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	handler := RequestID()

	t.Run("reuse incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "incoming")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) != "incoming" {
				t.Fatalf("expected request id to be stored")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") != "incoming" {
			t.Fatalf("expected response header to propagate request id")
		}
	})

	t.Run("replace oversized header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("x", maxRequestIDLen+1))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = handler(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
		if got := rec.Header().Get("X-Request-ID"); len(got) != 36 {
			t.Fatalf("expected generated uuid, got %q", got)
		}
	})

	t.Run("generate when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) == "" {
				t.Fatalf("expected generated request id")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("expected response header set")
		}
	})
}
