// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package rooms

import (
	"fmt"
	"sort"
)

// ConsensusTracker holds per-item vote sets for one room and detects when the
// votes for an item cover the whole baseline roster. It is not safe for
// concurrent use; the registry serializes access under the room lock.
type ConsensusTracker struct {
	baseline map[string]struct{}
	votes    map[string]map[string]struct{}
	reached  map[string]struct{}
	order    []string
}

// NewConsensusTracker creates a tracker for the frozen roster.
func NewConsensusTracker(roster []string) *ConsensusTracker {
	baseline := make(map[string]struct{}, len(roster))
	for _, u := range roster {
		baseline[u] = struct{}{}
	}
	return &ConsensusTracker{
		baseline: baseline,
		votes:    make(map[string]map[string]struct{}),
		reached:  make(map[string]struct{}),
	}
}

// Vote records user's like of item. It reports true exactly once per item:
// on the vote that makes the item's vote set equal the baseline roster.
// Repeated votes are idempotent.
func (c *ConsensusTracker) Vote(item, user string) (bool, error) {
	if _, ok := c.baseline[user]; !ok {
		return false, fmt.Errorf("%w: %s is not in the room roster", ErrInvalidState, user)
	}
	if item == "" {
		return false, fmt.Errorf("%w: empty item id", ErrInvalidState)
	}

	voters, ok := c.votes[item]
	if !ok {
		voters = make(map[string]struct{}, len(c.baseline))
		c.votes[item] = voters
	}
	voters[user] = struct{}{}

	if _, done := c.reached[item]; done {
		return false, nil
	}
	if len(voters) < len(c.baseline) {
		return false, nil
	}
	c.reached[item] = struct{}{}
	c.order = append(c.order, item)
	return true, nil
}

// Votes returns the sorted voters for item.
func (c *ConsensusTracker) Votes(item string) []string {
	voters := make([]string, 0, len(c.votes[item]))
	for u := range c.votes[item] {
		voters = append(voters, u)
	}
	sort.Strings(voters)
	return voters
}

// Likes returns a copy of every item's voters.
func (c *ConsensusTracker) Likes() map[string][]string {
	out := make(map[string][]string, len(c.votes))
	for item := range c.votes {
		out[item] = c.Votes(item)
	}
	return out
}

// Reached returns the items that reached consensus, in the order they did.
func (c *ConsensusTracker) Reached() []string {
	return append([]string(nil), c.order...)
}
