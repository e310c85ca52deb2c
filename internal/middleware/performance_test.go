// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestPerformanceMonitor_GetStats(t *testing.T) {
	pm := NewPerformanceMonitor(100)
	for i := int64(1); i <= 10; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/api/v1/recommendations", Method: http.MethodGet, DurationMS: i * 10, StatusCode: http.StatusOK})
	}
	pm.RecordRequest(&RequestMetrics{Route: "/api/v1/rooms", Method: http.MethodPost, DurationMS: 5, StatusCode: http.StatusInternalServerError})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2", len(stats))
	}

	rec := stats[0]
	if rec.Endpoint != "GET /api/v1/recommendations" {
		t.Errorf("stats[0].Endpoint = %q, want busiest endpoint first", rec.Endpoint)
	}
	if rec.RequestCount != 10 {
		t.Errorf("RequestCount = %d, want 10", rec.RequestCount)
	}
	if rec.MinDuration != 10 || rec.MaxDuration != 100 {
		t.Errorf("min/max = %d/%d, want 10/100", rec.MinDuration, rec.MaxDuration)
	}
	if rec.AvgDuration != 55 {
		t.Errorf("AvgDuration = %v, want 55", rec.AvgDuration)
	}
	if rec.P50Duration != 50 {
		t.Errorf("P50Duration = %d, want 50", rec.P50Duration)
	}
	if stats[1].ErrorCount != 1 {
		t.Errorf("stats[1].ErrorCount = %d, want 1", stats[1].ErrorCount)
	}
}

func TestPerformanceMonitor_SlidingWindow(t *testing.T) {
	pm := NewPerformanceMonitor(3)
	for i := int64(1); i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/r", Method: http.MethodGet, DurationMS: i})
	}

	recent := pm.GetRecentMetrics(10)
	if len(recent) != 3 {
		t.Fatalf("len(recent) = %d, want 3", len(recent))
	}
	for i, want := range []int64{3, 4, 5} {
		if recent[i].DurationMS != want {
			t.Errorf("recent[%d].DurationMS = %d, want %d", i, recent[i].DurationMS, want)
		}
	}
	if got := pm.GetRecentMetrics(1); len(got) != 1 || got[0].DurationMS != 5 {
		t.Errorf("GetRecentMetrics(1) = %+v, want the newest request", got)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	pm := NewPerformanceMonitor(10)
	pm.slowThreshold = time.Nanosecond

	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/api/v1/media/{itemID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/media/tt0111161", nil))

	recent := pm.GetRecentMetrics(1)
	if len(recent) != 1 {
		t.Fatalf("len(recent) = %d, want 1", len(recent))
	}
	if recent[0].Route != "/api/v1/media/{itemID}" {
		t.Errorf("Route = %q, want the route pattern", recent[0].Route)
	}
	if recent[0].StatusCode != http.StatusTeapot {
		t.Errorf("StatusCode = %d, want 418", recent[0].StatusCode)
	}
}
