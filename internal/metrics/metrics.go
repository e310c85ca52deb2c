// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"mode", "result"}, // mode: "personalized", "cold_start", "room"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	RecommendStaleIndex = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_stale_index_total",
			Help: "Total number of requests that detected an inconsistent index",
		},
	)

	FeatureRebuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_feature_rebuild_duration_seconds",
			Help:    "Duration of feature set rebuilds and index training in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"source"}, // source: "catalog", "artifact"
	)

	FeatureSetItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_feature_set_items",
			Help: "Number of items in the published feature set",
		},
	)

	FeatureSetDimensions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_feature_set_dimensions",
			Help: "Number of categories in the published feature set",
		},
	)

	// Room Metrics
	RoomEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooms_events_total",
			Help: "Total number of room lifecycle events",
		},
		[]string{"event"}, // event: "created", "started", "expired", "deleted"
	)

	RoomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rooms_active",
			Help: "Number of rooms currently held by the registry",
		},
	)

	ConsensusTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rooms_consensus_total",
			Help: "Total number of items that reached consensus",
		},
	)

	// Gateway Metrics
	GatewayEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_events_total",
			Help: "Total number of dispatched room events",
		},
		[]string{"event", "result"},
	)

	GatewayEventDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_event_duration_seconds",
			Help:    "Duration of room event handling in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"event"},
	)

	// Connection Metrics
	RealtimeConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "realtime_connections",
			Help: "Number of active real-time connections",
		},
		[]string{"transport"}, // transport: "websocket", "socketio"
	)

	RealtimeBroadcastsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_broadcasts_dropped_total",
			Help: "Total number of room broadcasts dropped because the transport queue stayed full",
		},
		[]string{"transport", "event"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of room events published to the event bus",
		},
		[]string{"result"}, // result: "success", "failure"
	)

	EventsDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_delivered_total",
			Help: "Total number of bus events delivered to local connections",
		},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Total number of bus events that could not be delivered",
		},
		[]string{"reason"}, // reason: "decode", "self"
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one recommendation request. Its signature
// matches recommend.Hooks.OnRecommend.
func RecordRecommendation(mode string, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	RecommendRequests.WithLabelValues(mode, result).Inc()
	RecommendDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// RecordFeatureRefresh records a published feature set. Its signature
// matches recommend.Hooks.OnRefresh.
func RecordFeatureRefresh(source string, items, dims int, d time.Duration) {
	FeatureRebuildDuration.WithLabelValues(source).Observe(d.Seconds())
	FeatureSetItems.Set(float64(items))
	FeatureSetDimensions.Set(float64(dims))
}

// RecordStaleIndex records a request that hit an inconsistent index.
func RecordStaleIndex() {
	RecommendStaleIndex.Inc()
}

// RecordRoomCreated records a new room.
func RecordRoomCreated() {
	RoomEvents.WithLabelValues("created").Inc()
	RoomsActive.Inc()
}

// RecordRoomStarted records a room activation.
func RecordRoomStarted() {
	RoomEvents.WithLabelValues("started").Inc()
}

// RecordRoomExpired records a room removed by its TTL timer.
func RecordRoomExpired() {
	RoomEvents.WithLabelValues("expired").Inc()
	RoomsActive.Dec()
}

// RecordRoomDeleted records an explicit room deletion.
func RecordRoomDeleted() {
	RoomEvents.WithLabelValues("deleted").Inc()
	RoomsActive.Dec()
}

// RecordConsensus records an item reaching consensus.
func RecordConsensus() {
	ConsensusTotal.Inc()
}

// RecordGatewayEvent records one dispatched room event. Its signature
// matches gateway.Hooks.OnEvent.
func RecordGatewayEvent(event, result string, d time.Duration) {
	GatewayEvents.WithLabelValues(event, result).Inc()
	GatewayEventDuration.WithLabelValues(event).Observe(d.Seconds())
}

// ConnectionGauge returns a callback that reports the connection count for
// transport.
func ConnectionGauge(transport string) func(n int) {
	g := RealtimeConnections.WithLabelValues(transport)
	return func(n int) {
		g.Set(float64(n))
	}
}

// BroadcastDropCounter returns a callback that counts dropped room
// broadcasts for transport by event name.
func BroadcastDropCounter(transport string) func(event string) {
	return func(event string) {
		RealtimeBroadcastsDropped.WithLabelValues(transport, event).Inc()
	}
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordEventPublish records a publish to the event bus.
func RecordEventPublish(err error) {
	if err != nil {
		EventsPublished.WithLabelValues("failure").Inc()
		return
	}
	EventsPublished.WithLabelValues("success").Inc()
}
