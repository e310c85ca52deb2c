// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const body = `{"status":"success","data":{"ids":["tt0111161","tt0068646"]}}`

var jsonHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
})

func TestCompression(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		wantGzip bool
	}{
		{"gzip accepted", map[string]string{"Accept-Encoding": "gzip, deflate"}, true},
		{"no accept encoding", nil, false},
		{"websocket upgrade", map[string]string{"Accept-Encoding": "gzip", "Upgrade": "websocket"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			Compression(jsonHandler).ServeHTTP(rec, req)

			gotGzip := rec.Header().Get("Content-Encoding") == "gzip"
			if gotGzip != tt.wantGzip {
				t.Fatalf("gzip = %v, want %v", gotGzip, tt.wantGzip)
			}

			var got string
			if gotGzip {
				zr, err := gzip.NewReader(rec.Body)
				if err != nil {
					t.Fatalf("gzip.NewReader() error = %v", err)
				}
				b, err := io.ReadAll(zr)
				if err != nil {
					t.Fatalf("read gzip body: %v", err)
				}
				got = string(b)
			} else {
				got = rec.Body.String()
			}
			if got != body {
				t.Errorf("body = %q, want %q", got, body)
			}
		})
	}
}

func TestCompression_PreservesStatus(t *testing.T) {
	h := Compression(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, strings.Repeat("x", 64))
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
