// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moviematch/config.yaml",
	"/etc/moviematch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			SocketIOEnabled: true,
		},
		Database: DatabaseConfig{
			Path:      "/data/moviematch.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Recommend: RecommendConfig{
			PageSize:        5000,
			Workers:         0,
			Alpha:           0.2,
			Beta:            0.1,
			DedupSlack:      10,
			DefaultK:        10,
			MaxK:            100,
			RefreshInterval: 6 * time.Hour,
			BuildOnStartup:  true,
			BreakerTimeout:  30 * time.Second,
			ItemCacheSize:   10000,
			ItemCacheTTL:    10 * time.Minute,
		},
		Artifact: ArtifactConfig{
			Backend:   "badger",
			BadgerDir: "/data/artifacts",
			Key:       "features/current",
			S3Region:  "us-east-1",
			S3Prefix:  "moviematch/",
		},
		Rooms: RoomsConfig{
			TTL:        24 * time.Hour,
			CodeLength: 8,
			CandidateK: 10,
		},
		WebSocket: WebSocketConfig{
			MessagesPerSecond: 10,
			Burst:             20,
			SendBuffer:        256,
			BroadcastTimeout:  time.Second,
		},
		Events: EventsConfig{
			Backend:        "memory",
			NATSURL:        "nats://127.0.0.1:4222",
			EmbeddedServer: false,
			EmbeddedHost:   "127.0.0.1",
			EmbeddedPort:   4222,
			Topic:          "rooms.events",
			MaxReconnects:  -1,
			ReconnectWait:  2 * time.Second,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			JWTIssuer:         "moviematch",
			TokenTTL:          24 * time.Hour,
			RequireAuth:       true,
			DevTokens:         false,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when they come from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"database.import_title_types",
	"security.admin_users",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so the process environment cannot pollute config.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"socketio_enabled": "server.socketio_enabled",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",
	"imdb_basics":       "database.import_basics",
	"imdb_ratings":      "database.import_ratings",
	"imdb_title_types":  "database.import_title_types",

	"recommend_page_size":        "recommend.page_size",
	"recommend_workers":          "recommend.workers",
	"recommend_alpha":            "recommend.alpha",
	"recommend_beta":             "recommend.beta",
	"recommend_dedup_slack":      "recommend.dedup_slack",
	"recommend_default_k":        "recommend.default_k",
	"recommend_max_k":            "recommend.max_k",
	"recommend_refresh_interval": "recommend.refresh_interval",
	"recommend_build_on_startup": "recommend.build_on_startup",
	"recommend_breaker_timeout":  "recommend.breaker_timeout",
	"recommend_item_cache_size":  "recommend.item_cache_size",
	"recommend_item_cache_ttl":   "recommend.item_cache_ttl",

	"artifact_backend":     "artifact.backend",
	"artifact_badger_dir":  "artifact.badger_dir",
	"artifact_key":         "artifact.key",
	"artifact_s3_bucket":   "artifact.s3_bucket",
	"aws_region":           "artifact.s3_region",
	"artifact_s3_prefix":   "artifact.s3_prefix",
	"artifact_s3_endpoint": "artifact.s3_endpoint",

	"room_ttl":         "rooms.ttl",
	"room_code_length": "rooms.code_length",
	"room_candidate_k": "rooms.candidate_k",

	"ws_messages_per_second": "websocket.messages_per_second",
	"ws_burst":               "websocket.burst",
	"ws_send_buffer":         "websocket.send_buffer",
	"ws_broadcast_timeout":   "websocket.broadcast_timeout",

	"events_backend":     "events.backend",
	"nats_url":           "events.nats_url",
	"nats_embedded":      "events.embedded_server",
	"nats_embedded_host": "events.embedded_host",
	"nats_embedded_port": "events.embedded_port",
	"events_topic":       "events.topic",

	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"token_ttl":           "security.token_ttl",
	"require_auth":        "security.require_auth",
	"dev_tokens":          "security.dev_tokens",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"admin_users":         "security.admin_users",
	"authz_policy_path":   "security.authz_policy_path",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Returning an empty string skips the variable.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
