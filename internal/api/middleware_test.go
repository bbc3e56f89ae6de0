package api

import (
	"net/http"
	"testing"
)

func TestAuthRequiredRejectsMissingAndInvalidTokens(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	paths := []string{
		"/api/sleep-logs",
		"/api/sleep-logs/weekly",
		"/api/goals",
		"/api/dashboard",
		"/api/profile",
	}
	for _, path := range paths {
		response := doRequest(t, app, http.MethodGet, path, "", nil)
		assertErrorMessage(t, response, http.StatusUnauthorized, "authorization token missing")

		response = doRequest(t, app, http.MethodGet, path, "not-a-jwt", nil)
		assertErrorMessage(t, response, http.StatusUnauthorized, "invalid or expired token")
	}
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	response := doRequest(t, app, http.MethodGet, "/healthz", "", nil)
	if response.header.Get("X-Request-ID") == "" {
		t.Fatal("expected generated X-Request-ID header")
	}
}

func TestUnknownRouteUsesJSONError(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	response := doRequest(t, app, http.MethodGet, "/api/unknown", "", nil)
	if response.status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", response.status)
	}
	var payload map[string]string
	response.decode(t, &payload)
	if payload["error"] == "" {
		t.Fatalf("expected error message, got %s", string(response.body))
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	app, handler := newTestApp(t)

	for _, path := range []string{"/health", "/healthz"} {
		response := doRequest(t, app, http.MethodGet, path, "", nil)
		if response.status != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, response.status)
		}
		var payload map[string]string
		response.decode(t, &payload)
		if payload["status"] != "ok" || payload["timestamp"] == "" {
			t.Fatalf("%s: unexpected payload %v", path, payload)
		}
	}

	sqlDB, err := handler.db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	_ = sqlDB.Close()

	response := doRequest(t, app, http.MethodGet, "/health", "", nil)
	if response.status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with closed database, got %d", response.status)
	}
}
