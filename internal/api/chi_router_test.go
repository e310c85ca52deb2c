// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	_ "github.com/tomtom215/moviematch/docs"
)

func TestSwaggerUI(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		path        string
		contentType string
	}{
		{"/swagger/index.html", "text/html"},
		{"/swagger/doc.json", "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("Content-Type = %q, want %s", ct, tt.contentType)
			}
		})
	}
}

// TestSwaggerDocCoversRoutes fails when a route is added without annotations.
func TestSwaggerDocCoversRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode doc.json: %v", err)
	}

	routes, ok := env.server.(chi.Routes)
	if !ok {
		t.Fatalf("server is %T, want chi.Routes", env.server)
	}
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if route == "/metrics" || strings.HasPrefix(route, "/swagger/") || strings.HasPrefix(route, "/socket.io/") {
			return nil
		}
		path := strings.TrimSuffix(route, "/")
		if _, documented := doc.Paths[path][strings.ToLower(method)]; !documented {
			t.Errorf("%s %s is not documented", method, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("chi.Walk() error = %v", err)
	}
}
