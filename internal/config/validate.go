// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateArtifact(); err != nil {
		return err
	}
	if err := c.validateRooms(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required (use :memory: for an ephemeral catalog)")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.PageSize < 1 {
		return fmt.Errorf("recommend.page_size must be at least 1, got %d", r.PageSize)
	}
	if r.Workers < 0 {
		return fmt.Errorf("recommend.workers must not be negative")
	}
	if r.Alpha < 0 || r.Beta < 0 {
		return fmt.Errorf("recommend.alpha and recommend.beta must not be negative")
	}
	if r.DedupSlack < 0 {
		return fmt.Errorf("recommend.dedup_slack must not be negative")
	}
	if r.DefaultK < 1 || r.MaxK < r.DefaultK {
		return fmt.Errorf("recommend.default_k must be at least 1 and not exceed recommend.max_k")
	}
	if r.RefreshInterval < 0 {
		return fmt.Errorf("recommend.refresh_interval must not be negative")
	}
	return nil
}

func (c *Config) validateArtifact() error {
	switch c.Artifact.Backend {
	case "none":
		return nil
	case "badger":
		if c.Artifact.BadgerDir == "" {
			return fmt.Errorf("artifact.badger_dir is required for the badger backend")
		}
	case "s3":
		if c.Artifact.S3Bucket == "" {
			return fmt.Errorf("artifact.s3_bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("artifact.backend must be one of badger, s3, none, got %q", c.Artifact.Backend)
	}
	if c.Artifact.Key == "" {
		return fmt.Errorf("artifact.key is required")
	}
	return nil
}

func (c *Config) validateRooms() error {
	if c.Rooms.TTL <= 0 {
		return fmt.Errorf("rooms.ttl must be positive")
	}
	if c.Rooms.CodeLength < 4 || c.Rooms.CodeLength > 32 {
		return fmt.Errorf("rooms.code_length must be between 4 and 32, got %d", c.Rooms.CodeLength)
	}
	if c.Rooms.CandidateK < 1 {
		return fmt.Errorf("rooms.candidate_k must be at least 1")
	}
	if c.WebSocket.MessagesPerSecond <= 0 || c.WebSocket.Burst < 1 {
		return fmt.Errorf("websocket.messages_per_second and websocket.burst must be positive")
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case "memory":
	case "nats":
		if c.Events.NATSURL == "" && !c.Events.EmbeddedServer {
			return fmt.Errorf("events.nats_url is required unless events.embedded_server is set")
		}
	default:
		return fmt.Errorf("events.backend must be memory or nats, got %q", c.Events.Backend)
	}
	if c.Events.Topic == "" {
		return fmt.Errorf("events.topic is required")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.RequireAuth && len(s.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters when require_auth is enabled")
	}
	if s.TokenTTL <= 0 {
		return fmt.Errorf("security.token_ttl must be positive")
	}
	if !s.RateLimitDisabled && (s.RateLimitReqs < 1 || s.RateLimitWindow <= 0) {
		return fmt.Errorf("security.rate_limit_reqs and security.rate_limit_window must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
