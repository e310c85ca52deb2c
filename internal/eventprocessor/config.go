// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/moviematch/internal/config"
)

// Supported backends.
const (
	BackendMemory = "memory"
	BackendNATS   = "nats"
)

// Config holds event bus settings.
type Config struct {
	Backend string

	// URL is the NATS server URL for the nats backend.
	URL string

	// Topic carries every room event.
	Topic string

	// InstanceID identifies this process. Events it published itself are
	// not redelivered to its local transports.
	InstanceID string

	MaxReconnects int
	ReconnectWait time.Duration

	Breaker CircuitBreakerConfig
}

// CircuitBreakerConfig holds circuit breaker settings for publishing.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultConfig returns production defaults with a fresh instance ID.
func DefaultConfig() Config {
	return Config{
		Backend:       BackendMemory,
		URL:           "nats://127.0.0.1:4222",
		Topic:         "moviematch.rooms",
		InstanceID:    uuid.NewString(),
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		Breaker: CircuitBreakerConfig{
			Name:             "event-publisher",
			MaxRequests:      3,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// FromConfig builds bus settings from the application configuration.
func FromConfig(cfg *config.EventsConfig) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if cfg.Backend != "" {
		c.Backend = cfg.Backend
	}
	if cfg.NATSURL != "" {
		c.URL = cfg.NATSURL
	}
	if cfg.Topic != "" {
		c.Topic = cfg.Topic
	}
	if cfg.MaxReconnects != 0 {
		c.MaxReconnects = cfg.MaxReconnects
	}
	if cfg.ReconnectWait > 0 {
		c.ReconnectWait = cfg.ReconnectWait
	}
	return c
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendNATS:
		if c.URL == "" {
			return fmt.Errorf("nats backend requires a url")
		}
	default:
		return fmt.Errorf("unknown event backend %q", c.Backend)
	}
	if c.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if c.InstanceID == "" {
		return fmt.Errorf("instance id is required")
	}
	if c.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("breaker failure threshold must be at least 1")
	}
	return nil
}

// ServerConfig holds embedded NATS server settings.
type ServerConfig struct {
	Host string

	// Port is the client port. -1 picks a random free port.
	Port int
}

// ServerConfigFrom builds embedded server settings from the application configuration.
func ServerConfigFrom(cfg *config.EventsConfig) ServerConfig {
	return ServerConfig{Host: cfg.EmbeddedHost, Port: cfg.EmbeddedPort}
}
