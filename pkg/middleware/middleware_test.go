package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diagnosis/sindhu-tours/pkg/logger"
)

func TestHealthShortCircuits(t *testing.T) {
	called := false
	h := Health(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
	if called {
		t.Fatalf("next handler should not run for /healthz")
	}
}

func TestRequestIDPropagates(t *testing.T) {
	var seen any
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context().Value(logger.RequestIDKey)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if seen != "abc" || rr.Header().Get("X-Request-ID") != "abc" {
		t.Fatalf("request id not propagated: ctx=%v header=%q", seen, rr.Header().Get("X-Request-ID"))
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestLoggingRecoversPanic(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") }))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("want 500 got %d", rr.Code)
	}
}

func TestRealIP(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { seen = r.RemoteAddr })

	for _, tc := range []struct {
		trust bool
		want  string
	}{
		{trust: false, want: "192.0.2.1:1234"},
		{trust: true, want: "203.0.113.9"},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		RealIP(tc.trust)(next).ServeHTTP(httptest.NewRecorder(), req)
		if seen != tc.want {
			t.Errorf("RealIP(%v): RemoteAddr = %q, want %q", tc.trust, seen, tc.want)
		}
	}
}
