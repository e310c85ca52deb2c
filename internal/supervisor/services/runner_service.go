// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package services

import "context"

// ContextRunner blocks until ctx is canceled. *websocket.Hub satisfies it.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService supervises a ContextRunner under a fixed name.
type RunnerService struct {
	runner ContextRunner
	name   string
}

// NewRunnerService wraps runner.
func NewRunnerService(name string, runner ContextRunner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.runner.RunWithContext(ctx)
}

// String implements fmt.Stringer.
func (s *RunnerService) String() string {
	return s.name
}
