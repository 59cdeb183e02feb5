// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testCSRFKey() []byte {
	return []byte("12345678901234567890123456789012")
}

func TestDefaultCSRFConfig_TrustedOrigins(t *testing.T) {
	corsOrigins := []string{"http://localhost:5173", "https://jellymag.example.com"}

	cfg := DefaultCSRFConfig(testCSRFKey(), corsOrigins, true)
	if len(cfg.AuthKey) != 32 {
		t.Errorf("AuthKey length = %d, want 32", len(cfg.AuthKey))
	}

	// The csrf library wants host:port values, never full URLs.
	want := map[string]bool{
		"localhost:5173":       true,
		"jellymag.example.com": true,
		"localhost:8080":       true,
		"127.0.0.1:8080":       true,
	}
	if len(cfg.TrustedOrigins) != len(want) {
		t.Fatalf("TrustedOrigins = %v, want %d entries", cfg.TrustedOrigins, len(want))
	}
	for _, origin := range cfg.TrustedOrigins {
		if !want[origin] {
			t.Errorf("unexpected trusted origin %q", origin)
		}
		if strings.HasPrefix(origin, "http") {
			t.Errorf("trusted origin %q must be host-only, not a URL", origin)
		}
	}
}

func TestDefaultCSRFConfig_ProductionSkipsLocalhost(t *testing.T) {
	cfg := DefaultCSRFConfig(testCSRFKey(), []string{"https://jellymag.example.com"}, false)

	if len(cfg.TrustedOrigins) != 1 || cfg.TrustedOrigins[0] != "jellymag.example.com" {
		t.Errorf("TrustedOrigins = %v, want only the CORS host", cfg.TrustedOrigins)
	}
}

func newCSRFTestHandler(cfg CSRFConfig) http.Handler {
	return CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRF_RejectsCrossSiteWrites(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{AuthKey: testCSRFKey()})

	req := httptest.NewRequest(http.MethodPost, "/api/articles", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "http://evil.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	var resp APIError
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if resp.Error.Code != "forbidden" {
		t.Errorf("error code = %q, want forbidden", resp.Error.Code)
	}
}

func TestCSRF_AllowsTrustedOrigin(t *testing.T) {
	cfg := DefaultCSRFConfig(testCSRFKey(), []string{"http://localhost:5173"}, false)
	handler := newCSRFTestHandler(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/articles", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestCSRF_AllowsSameOriginWrites(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{AuthKey: testCSRFKey()})

	req := httptest.NewRequest(http.MethodPost, "/api/articles", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestCSRF_AllowsReads(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{AuthKey: testCSRFKey()})

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestCSRF_AllowsNonBrowserClients(t *testing.T) {
	// Requests without Fetch metadata or an Origin header come from curl,
	// tests, and server-to-server callers.
	handler := newCSRFTestHandler(CSRFConfig{AuthKey: testCSRFKey()})

	req := httptest.NewRequest(http.MethodPost, "/api/articles", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
