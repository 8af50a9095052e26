package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name            string
		allowedHosts    []string
		method          string
		path            string
		origin          string
		wantStatus      int
		wantOrigin      string
		wantCredentials string
		wantNext        bool
	}{
		{
			name:       "open API without configured hosts",
			method:     http.MethodGet,
			path:       "/api/records",
			origin:     "http://dashboard.local:5173",
			wantStatus: http.StatusOK,
			wantOrigin: "*",
			wantNext:   true,
		},
		{
			name:            "listed host gets credentials",
			allowedHosts:    []string{"alphadash.app"},
			method:          http.MethodPost,
			path:            "/api/import/commit",
			origin:          "https://alphadash.app",
			wantStatus:      http.StatusOK,
			wantOrigin:      "https://alphadash.app",
			wantCredentials: "true",
			wantNext:        true,
		},
		{
			name:            "listed host on another port",
			allowedHosts:    []string{"localhost"},
			method:          http.MethodGet,
			path:            "/api/export",
			origin:          "http://localhost:5173",
			wantStatus:      http.StatusOK,
			wantOrigin:      "http://localhost:5173",
			wantCredentials: "true",
			wantNext:        true,
		},
		{
			name:         "unlisted origin refused",
			allowedHosts: []string{"alphadash.app"},
			method:       http.MethodGet,
			path:         "/api/records",
			origin:       "https://records.alphadash.app",
			wantStatus:   http.StatusForbidden,
		},
		{
			name:         "malformed origin refused",
			allowedHosts: []string{"alphadash.app"},
			method:       http.MethodGet,
			path:         "/api/stats/month",
			origin:       "://alphadash.app",
			wantStatus:   http.StatusForbidden,
		},
		{
			name:         "same-origin request without Origin",
			allowedHosts: []string{"alphadash.app"},
			method:       http.MethodGet,
			path:         "/api/poster",
			wantStatus:   http.StatusOK,
			wantNext:     true,
		},
		{
			name:         "oauth callback reachable from any origin",
			allowedHosts: []string{"alphadash.app"},
			method:       http.MethodGet,
			path:         "/api/auth/oauth/callback",
			origin:       "https://accounts.google.com",
			wantStatus:   http.StatusOK,
			wantOrigin:   "*",
			wantNext:     true,
		},
		{
			name:            "preflight from listed host",
			allowedHosts:    []string{"alphadash.app"},
			method:          http.MethodOptions,
			path:            "/api/records",
			origin:          "https://alphadash.app",
			wantStatus:      http.StatusNoContent,
			wantOrigin:      "https://alphadash.app",
			wantCredentials: "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			CORS(tt.allowedHosts)(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if called != tt.wantNext {
				t.Errorf("next called = %v, want %v", called, tt.wantNext)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Errorf("Allow-Credentials = %q, want %q", got, tt.wantCredentials)
			}
		})
	}
}

func TestCORS_ExposesDownloadHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/export?format=csv", nil)
	req.Header.Set("Origin", "https://alphadash.app")
	rr := httptest.NewRecorder()
	CORS([]string{"alphadash.app"})(next).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Expose-Headers"); got != "Content-Disposition, X-Request-ID" {
		t.Errorf("Expose-Headers = %q", got)
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary = %q, want Origin", got)
	}
}
