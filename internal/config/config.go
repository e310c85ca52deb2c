// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package config loads MovieMatch configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Artifact  ArtifactConfig  `koanf:"artifact"`
	Rooms     RoomsConfig     `koanf:"rooms"`
	WebSocket WebSocketConfig `koanf:"websocket"`
	Events    EventsConfig    `koanf:"events"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	SocketIOEnabled bool          `koanf:"socketio_enabled"`
}

// DatabaseConfig holds DuckDB settings for the catalog and preference store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()

	// SeedDemoData loads a small demo catalog when the media table is empty.
	SeedDemoData bool `koanf:"seed_demo_data"`

	// ImportBasics and ImportRatings are IMDb TSV dumps loaded at startup.
	ImportBasics     string   `koanf:"import_basics"`
	ImportRatings    string   `koanf:"import_ratings"`
	ImportTitleTypes []string `koanf:"import_title_types"`
}

// RecommendConfig holds feature store and neighbor search settings.
type RecommendConfig struct {
	PageSize        int           `koanf:"page_size"`
	Workers         int           `koanf:"workers"` // 0 = runtime.NumCPU()
	Alpha           float64       `koanf:"alpha"`
	Beta            float64       `koanf:"beta"`
	DedupSlack      int           `koanf:"dedup_slack"`
	DefaultK        int           `koanf:"default_k"`
	MaxK            int           `koanf:"max_k"`
	RefreshInterval time.Duration `koanf:"refresh_interval"` // 0 disables periodic refresh
	BuildOnStartup  bool          `koanf:"build_on_startup"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
	ItemCacheSize   int           `koanf:"item_cache_size"`
	ItemCacheTTL    time.Duration `koanf:"item_cache_ttl"`
}

// ArtifactConfig selects where the serialized feature set is persisted.
type ArtifactConfig struct {
	Backend   string `koanf:"backend"` // badger, s3, none
	BadgerDir string `koanf:"badger_dir"`
	Key       string `koanf:"key"`
	S3Bucket  string `koanf:"s3_bucket"`
	S3Region  string `koanf:"s3_region"`
	S3Prefix  string `koanf:"s3_prefix"`
	// S3Endpoint overrides the AWS endpoint (MinIO, LocalStack).
	S3Endpoint string `koanf:"s3_endpoint"`
}

// RoomsConfig holds room lifecycle settings.
type RoomsConfig struct {
	TTL        time.Duration `koanf:"ttl"`
	CodeLength int           `koanf:"code_length"`
	CandidateK int           `koanf:"candidate_k"`
}

// WebSocketConfig holds per-connection limits.
type WebSocketConfig struct {
	MessagesPerSecond float64 `koanf:"messages_per_second"`
	Burst             int     `koanf:"burst"`
	SendBuffer        int     `koanf:"send_buffer"`

	// BroadcastTimeout bounds how long a room broadcast waits for space in
	// the hub queue before it is dropped.
	BroadcastTimeout time.Duration `koanf:"broadcast_timeout"`
}

// EventsConfig selects the event bus used to fan room events out to connected clients.
type EventsConfig struct {
	Backend        string        `koanf:"backend"` // memory, nats
	NATSURL        string        `koanf:"nats_url"`
	EmbeddedServer bool          `koanf:"embedded_server"`
	EmbeddedHost   string        `koanf:"embedded_host"`
	EmbeddedPort   int           `koanf:"embedded_port"`
	Topic          string        `koanf:"topic"`
	MaxReconnects  int           `koanf:"max_reconnects"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`
}

// SecurityConfig holds token and HTTP hardening settings.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	RequireAuth       bool          `koanf:"require_auth"`
	DevTokens         bool          `koanf:"dev_tokens"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// AdminUsers may call /api/v1/admin. AuthzPolicyPath replaces the built-in Casbin policy.
	AdminUsers      []string `koanf:"admin_users"`
	AuthzPolicyPath string   `koanf:"authz_policy_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from all sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
