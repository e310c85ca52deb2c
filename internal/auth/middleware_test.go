// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/moviematch/internal/logging"
)

//nolint:gochecknoinits
func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

// echoUser writes the resolved user, or "-" for anonymous requests.
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == "" {
		user = "-"
	}
	_, _ = io.WriteString(w, user)
})

func TestMiddleware_Authenticate(t *testing.T) {
	m := newTestManager(t)
	token, _, err := m.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name        string
		requireAuth bool
		setup       func(r *http.Request)
		wantStatus  int
		wantBody    string
	}{
		{
			name:       "bearer header",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "lowercase scheme",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "bearer "+token) },
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "cookie",
			setup:      func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: token}) },
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "invalid token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "basic scheme",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Basic YWxpY2U6cHc=") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "anonymous when required",
			requireAuth: true,
			setup:       func(*http.Request) {},
			wantStatus:  http.StatusOK,
			wantBody:    "-",
		},
		{
			name:        "user header ignored when required",
			requireAuth: true,
			setup:       func(r *http.Request) { r.Header.Set(UserHeader, "mallory") },
			wantStatus:  http.StatusOK,
			wantBody:    "-",
		},
		{
			name:       "user header when optional",
			setup:      func(r *http.Request) { r.Header.Set(UserHeader, " bob ") },
			wantStatus: http.StatusOK,
			wantBody:   "bob",
		},
		{
			name: "token wins over user header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+token)
				r.Header.Set(UserHeader, "bob")
			},
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMiddleware(m, tt.requireAuth).Authenticate(echoUser)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestMiddleware_TokenWithoutManager(t *testing.T) {
	h := NewMiddleware(nil, false).Authenticate(echoUser)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMiddleware_RequireUser(t *testing.T) {
	mw := NewMiddleware(nil, false)
	h := mw.Authenticate(mw.RequireUser(echoUser))

	anon := httptest.NewRecorder()
	h.ServeHTTP(anon, httptest.NewRequest(http.MethodGet, "/", nil))
	if anon.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", anon.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserHeader, "carol")
	named := httptest.NewRecorder()
	h.ServeHTTP(named, req)
	if named.Code != http.StatusOK || named.Body.String() != "carol" {
		t.Errorf("named = %d %q, want 200 carol", named.Code, named.Body.String())
	}
}

func TestMiddleware_WithErrorWriter(t *testing.T) {
	var gotStatus int
	var gotMessage string
	base := NewMiddleware(nil, false)
	mw := base.WithErrorWriter(func(w http.ResponseWriter, _ *http.Request, status int, message string) {
		gotStatus, gotMessage = status, message
		w.WriteHeader(status)
	})
	h := mw.Authenticate(mw.RequireUser(echoUser))

	tests := []struct {
		name        string
		auth        string
		wantMessage string
	}{
		{"anonymous", "", "authentication required"},
		{"malformed header", "Basic abc", "invalid authorization header"},
		{"token without manager", "Bearer abc.def.ghi", "tokens are not accepted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStatus, gotMessage = 0, ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized || gotStatus != http.StatusUnauthorized {
				t.Errorf("status = %d (writer %d), want 401", rec.Code, gotStatus)
			}
			if gotMessage != tt.wantMessage {
				t.Errorf("message = %q, want %q", gotMessage, tt.wantMessage)
			}
		})
	}

	// The original middleware keeps its plain-text writer.
	rec := httptest.NewRecorder()
	base.RequireUser(echoUser).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Body.String() != "Unauthorized: authentication required\n" {
		t.Errorf("base body = %q", rec.Body.String())
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"BEARER abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BearerToken(%q) = %q, %v, want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}
