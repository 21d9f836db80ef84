package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRouter_Authentication(t *testing.T) {
	server := setupTestServer(t)
	router := NewRouter(server)

	tests := []struct {
		name           string
		path           string
		apiKey         string
		expectedStatus int
	}{
		{
			name:           "protected route without key",
			path:           "/api/v1/health",
			apiKey:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "protected route with wrong key",
			path:           "/api/v1/health",
			apiKey:         "wrong-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "protected route with right key",
			path:           "/api/v1/health",
			apiKey:         "test-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "metrics are open for scraping",
			path:           "/metrics",
			apiKey:         "",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestRouter_VariableLifecycle(t *testing.T) {
	server := setupTestServer(t)
	router := NewRouter(server)

	path := "/api/v1/vars/" + testGUID.String() + "/BootMode"

	do := func(method, target string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("X-API-Key", "test-key")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// Create
	w := do("PUT", path, mustJSON(t, VariableRequest{Attributes: 7, Data: []byte{0x02}}))
	if w.Code != http.StatusOK {
		t.Fatalf("PUT: expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// Read back
	w = do("GET", path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET: expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "BootMode") {
		t.Errorf("GET: expected body to name the variable, got %s", w.Body.String())
	}

	// Listed
	w = do("GET", "/api/v1/vars", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("LIST: expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"count":1`) {
		t.Errorf("LIST: expected one variable, got %s", w.Body.String())
	}

	// Delete
	w = do("DELETE", path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE: expected status 200, got %d", w.Code)
	}

	// Gone
	w = do("GET", path, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("GET after DELETE: expected status 404, got %d", w.Code)
	}
}

func TestRouter_MetricsExposition(t *testing.T) {
	server := setupTestServer(t)
	router := NewRouter(server)

	// Generate some traffic first
	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("X-API-Key", "test-key")
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, metric := range []string{
		"confknob_http_requests_total",
		"confknob_health_checks_total",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("Expected metrics output to contain %s", metric)
		}
	}
}
