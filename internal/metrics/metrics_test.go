// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/rooms/{roomID}", "200"))
	RecordAPIRequest("GET", "/api/v1/rooms/{roomID}", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/rooms/{roomID}", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		err    error
		result string
	}{
		{"personalized success", "personalized", nil, "success"},
		{"cold start success", "cold_start", nil, "success"},
		{"room failure", "room", errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := RecommendRequests.WithLabelValues(tt.mode, tt.result)
			before := testutil.ToFloat64(c)
			RecordRecommendation(tt.mode, time.Millisecond, tt.err)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("recommend_requests_total{%s,%s} delta = %v, want 1", tt.mode, tt.result, got)
			}
		})
	}
}

func TestRecordFeatureRefresh(t *testing.T) {
	RecordFeatureRefresh("catalog", 1234, 27, 2*time.Second)

	if got := testutil.ToFloat64(FeatureSetItems); got != 1234 {
		t.Errorf("recommend_feature_set_items = %v, want 1234", got)
	}
	if got := testutil.ToFloat64(FeatureSetDimensions); got != 27 {
		t.Errorf("recommend_feature_set_dimensions = %v, want 27", got)
	}
}

func TestRoomLifecycle(t *testing.T) {
	active := testutil.ToFloat64(RoomsActive)
	created := testutil.ToFloat64(RoomEvents.WithLabelValues("created"))

	RecordRoomCreated()
	RecordRoomCreated()
	RecordRoomStarted()
	RecordRoomExpired()
	RecordRoomDeleted()

	if got := testutil.ToFloat64(RoomsActive); got != active {
		t.Errorf("rooms_active = %v, want %v", got, active)
	}
	if got := testutil.ToFloat64(RoomEvents.WithLabelValues("created")) - created; got != 2 {
		t.Errorf("rooms_events_total{created} delta = %v, want 2", got)
	}
}

func TestConnectionGauge(t *testing.T) {
	set := ConnectionGauge("websocket")
	set(3)
	if got := testutil.ToFloat64(RealtimeConnections.WithLabelValues("websocket")); got != 3 {
		t.Errorf("realtime_connections{websocket} = %v, want 3", got)
	}
	set(0)
	if got := testutil.ToFloat64(RealtimeConnections.WithLabelValues("websocket")); got != 0 {
		t.Errorf("realtime_connections{websocket} = %v, want 0", got)
	}
}

func TestBroadcastDropCounter(t *testing.T) {
	before := testutil.ToFloat64(RealtimeBroadcastsDropped.WithLabelValues("websocket", "item-consensus"))
	drop := BroadcastDropCounter("websocket")
	drop("item-consensus")
	drop("item-consensus")
	got := testutil.ToFloat64(RealtimeBroadcastsDropped.WithLabelValues("websocket", "item-consensus"))
	if got-before != 2 {
		t.Errorf("realtime_broadcasts_dropped_total delta = %v, want 2", got-before)
	}
}

func TestRecordEventPublish(t *testing.T) {
	ok := testutil.ToFloat64(EventsPublished.WithLabelValues("success"))
	failed := testutil.ToFloat64(EventsPublished.WithLabelValues("failure"))

	RecordEventPublish(nil)
	RecordEventPublish(errors.New("nats down"))

	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("success")) - ok; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("failure")) - failed; got != 1 {
		t.Errorf("failure delta = %v, want 1", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("item"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("item"))

	RecordCacheLookup("item", true)
	RecordCacheLookup("item", false)
	RecordCacheLookup("item", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("item")) - hits; got != 1 {
		t.Errorf("cache_hits_total delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("item")) - misses; got != 2 {
		t.Errorf("cache_misses_total delta = %v, want 2", got)
	}
}
