package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireAdminToken(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("accepts matching token", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/undo", nil)
		req.Header.Set("X-Admin-Token", "secret")

		RequireAdminToken("secret", next).ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected request to pass, got status %d", rec.Code)
		}
	})

	t.Run("rejects missing token", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/undo", nil)

		RequireAdminToken("secret", next).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/undo", nil)
		req.Header.Set("X-Admin-Token", "guess")

		RequireAdminToken("secret", next).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("unconfigured token disables mutations", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/undo", nil)
		req.Header.Set("X-Admin-Token", "anything")

		RequireAdminToken("", next).ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("wildcard origin", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil)
		req.Header.Set("Origin", "https://league.example.com")

		CORS([]string{"*"}, next).ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("unexpected allow origin: %q", got)
		}
	})

	t.Run("allowed origin echoed", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil)
		req.Header.Set("Origin", "https://league.example.com")

		CORS([]string{"https://league.example.com"}, next).ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://league.example.com" {
			t.Fatalf("unexpected allow origin: %q", got)
		}
		if got := rec.Header().Get("Vary"); got != "Origin" {
			t.Fatalf("expected Vary: Origin, got %q", got)
		}
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil)
		req.Header.Set("Origin", "https://evil.example.com")

		CORS([]string{"https://league.example.com"}, next).ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("expected no allow origin header, got %q", got)
		}
	})

	t.Run("preflight short circuits", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/v1/placements", nil)
		req.Header.Set("Origin", "https://league.example.com")

		CORS([]string{"*"}, next).ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204 for preflight, got %d", rec.Code)
		}
	})
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	if shouldTraceRequest("/healthz") {
		t.Fatal("expected health probes to be excluded from tracing")
	}
	if !shouldTraceRequest("/v1/leaderboard") {
		t.Fatal("expected api routes to be traced")
	}
}
