// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package metrics provides Prometheus metrics collection and export for observability.

Every collector is registered with the default registry through promauto and
exposed at /metrics by promhttp.

# Available Metrics

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Recommendations:
  - recommend_requests_total{mode, result}
  - recommend_request_duration_seconds{mode}
  - recommend_stale_index_total
  - recommend_feature_rebuild_duration_seconds{source}
  - recommend_feature_set_items, recommend_feature_set_dimensions

Rooms and gateway:
  - rooms_events_total{event}, rooms_active, rooms_consensus_total
  - gateway_events_total{event, result}, gateway_event_duration_seconds{event}
  - realtime_connections{transport}

Resilience and plumbing:
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name, result}
  - circuit_breaker_consecutive_failures{name}, circuit_breaker_state_transitions_total{name, from, to}
  - cache_hits_total{cache_type}, cache_misses_total{cache_type}
  - events_published_total{result}, events_delivered_total, events_dropped_total{reason}

# Wiring

The Record* helpers match the hook signatures of the packages they observe,
so wiring is a struct literal:

	engine.SetHooks(recommend.Hooks{
		OnRecommend: metrics.RecordRecommendation,
		OnRefresh:   metrics.RecordFeatureRefresh,
		OnStale:     metrics.RecordStaleIndex,
	})
*/
package metrics
