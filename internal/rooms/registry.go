// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package rooms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/recommend"
)

// maxCodeAttempts bounds collision retries when generating a room code.
const maxCodeAttempts = 16

// CandidateSource produces the shared candidate list when a room starts.
// *recommend.Engine satisfies it.
type CandidateSource interface {
	RecommendForRoom(ctx context.Context, members []string, k int) (*recommend.Result, error)
}

// Config controls room lifetime and candidate list size.
type Config struct {
	// TTL is how long a room lives after creation.
	TTL time.Duration

	// CodeLength is the number of [A-Z0-9] characters in a room code.
	CodeLength int

	// CandidateK is the size of the candidate list computed on start.
	CandidateK int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		TTL:        24 * time.Hour,
		CodeLength: 8,
		CandidateK: 10,
	}
}

// Hooks receive registry events. Every field is optional.
type Hooks struct {
	OnCreated   func()
	OnStarted   func()
	OnExpired   func()
	OnDeleted   func()
	OnConsensus func()
}

// Snapshot is a copy of a room's state. Mutating it does not affect the room.
type Snapshot struct {
	ID          string              `json:"id"`
	Creator     string              `json:"creator"`
	Members     []string            `json:"members"`
	Active      bool                `json:"active"`
	Recommended []string            `json:"recommended"`
	ColdStart   bool                `json:"cold_start"`
	Likes       map[string][]string `json:"likes"`
	Consensus   []string            `json:"consensus"`
	CreatedAt   time.Time           `json:"created_at"`
	ExpiresAt   time.Time           `json:"expires_at"`
}

// room is owned by the Registry. mu guards every field below it.
type room struct {
	mu sync.Mutex

	id        string
	creator   string
	members   []string
	memberSet map[string]struct{}
	createdAt time.Time
	expiresAt time.Time
	timer     Timer

	starting    bool
	active      bool
	removed     bool
	recommended []string
	candidates  map[string]struct{}
	coldStart   bool
	tracker     *ConsensusTracker
}

// idle reports whether the room still accepts members. r.mu must be held.
func (r *room) idle() bool {
	return !r.active && !r.starting
}

func (r *room) snapshot() *Snapshot {
	s := &Snapshot{
		ID:          r.id,
		Creator:     r.creator,
		Members:     append([]string(nil), r.members...),
		Active:      r.active,
		Recommended: append([]string(nil), r.recommended...),
		ColdStart:   r.coldStart,
		Likes:       map[string][]string{},
		Consensus:   []string{},
		CreatedAt:   r.createdAt,
		ExpiresAt:   r.expiresAt,
	}
	if r.tracker != nil {
		s.Likes = r.tracker.Likes()
		s.Consensus = r.tracker.Reached()
	}
	return s
}

// Registry is the table of live rooms.
//
// Lock order is registry then room. Operations on one room only hold that
// room's lock, so rooms never contend with each other.
type Registry struct {
	config     Config
	clock      Clock
	candidates CandidateSource
	logger     zerolog.Logger
	hooks      Hooks

	mu    sync.RWMutex
	rooms map[string]*room
}

// NewRegistry creates a registry. clock may be nil to use the wall clock.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRegistry(cfg Config, candidates CandidateSource, clock Clock, logger zerolog.Logger) (*Registry, error) {
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("room ttl must be positive, got %v", cfg.TTL)
	}
	if cfg.CodeLength < 4 {
		return nil, fmt.Errorf("room code length must be at least 4, got %d", cfg.CodeLength)
	}
	if cfg.CandidateK < 1 {
		return nil, fmt.Errorf("candidate k must be at least 1, got %d", cfg.CandidateK)
	}
	if candidates == nil {
		return nil, fmt.Errorf("candidate source is required")
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Registry{
		config:     cfg,
		clock:      clock,
		candidates: candidates,
		logger:     logger.With().Str("component", "rooms").Logger(),
		rooms:      make(map[string]*room),
	}, nil
}

// SetHooks installs event hooks. Call before serving traffic.
func (reg *Registry) SetHooks(h Hooks) {
	reg.hooks = h
}

// CodeLength returns the configured room code length.
func (reg *Registry) CodeLength() int {
	return reg.config.CodeLength
}

// Create opens a new room with creator as its first member and schedules its expiry.
func (reg *Registry) Create(creator string) (*Snapshot, error) {
	if creator == "" {
		return nil, fmt.Errorf("%w: creator is required", ErrInvalidState)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	var id string
	for attempt := 0; ; attempt++ {
		if attempt == maxCodeAttempts {
			return nil, fmt.Errorf("no free room code after %d attempts", maxCodeAttempts)
		}
		code, err := generateCode(reg.config.CodeLength)
		if err != nil {
			return nil, err
		}
		if _, taken := reg.rooms[code]; !taken {
			id = code
			break
		}
	}

	now := reg.clock.Now()
	r := &room{
		id:        id,
		creator:   creator,
		members:   []string{creator},
		memberSet: map[string]struct{}{creator: {}},
		createdAt: now,
		expiresAt: now.Add(reg.config.TTL),
	}
	r.timer = reg.clock.AfterFunc(reg.config.TTL, func() { reg.Expire(id) })
	reg.rooms[id] = r

	reg.logger.Info().Str("room_id", id).Str("creator", creator).Msg("Room created")
	if reg.hooks.OnCreated != nil {
		reg.hooks.OnCreated()
	}
	return r.snapshot(), nil
}

// lookup returns the room for id without locking it.
func (reg *Registry) lookup(id string) (*room, error) {
	reg.mu.RLock()
	r, ok := reg.rooms[id]
	reg.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("room %s: %w", id, ErrNotFound)
	}
	return r, nil
}

// lock returns id's room locked. The caller must unlock it.
func (reg *Registry) lock(id string) (*room, error) {
	r, err := reg.lookup(id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	if r.removed {
		r.mu.Unlock()
		return nil, fmt.Errorf("room %s: %w", id, ErrNotFound)
	}
	return r, nil
}

// Get returns a snapshot of the room.
func (reg *Registry) Get(id string) (*Snapshot, error) {
	r, err := reg.lock(id)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	return r.snapshot(), nil
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Join appends user to the room's members. Joining an active or starting room
// is rejected so the consensus roster never changes after start.
func (reg *Registry) Join(id, user string) (*Snapshot, error) {
	if user == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidState)
	}
	r, err := reg.lock(id)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	if _, ok := r.memberSet[user]; ok && r.idle() {
		return nil, fmt.Errorf("%w: %s is already a member of room %s", ErrInvalidState, user, id)
	}
	if err := reg.addMemberLocked(r, user); err != nil {
		return nil, err
	}
	return r.snapshot(), nil
}

// Attach is Join for connections: a user who is already a member is
// accepted in any room state and joined is false. Membership is checked and
// changed under one room lock, so concurrent attaches by the same user add
// them once.
func (reg *Registry) Attach(id, user string) (snap *Snapshot, joined bool, err error) {
	if user == "" {
		return nil, false, fmt.Errorf("%w: user is required", ErrInvalidState)
	}
	r, err := reg.lock(id)
	if err != nil {
		return nil, false, err
	}
	defer r.mu.Unlock()

	if _, ok := r.memberSet[user]; ok {
		return r.snapshot(), false, nil
	}
	if err := reg.addMemberLocked(r, user); err != nil {
		return nil, false, err
	}
	return r.snapshot(), true, nil
}

// addMemberLocked appends user to an idle room. r.mu must be held.
func (reg *Registry) addMemberLocked(r *room, user string) error {
	if !r.idle() {
		return fmt.Errorf("%w: room %s has already started", ErrInvalidState, r.id)
	}
	r.members = append(r.members, user)
	r.memberSet[user] = struct{}{}

	reg.logger.Debug().Str("room_id", r.id).Str("user_id", user).Int("members", len(r.members)).Msg("Member joined")
	return nil
}

// Start activates the room. Only the creator may start it, and only with at
// least two members. The candidate list is computed without holding the room
// lock; joins are rejected while it runs and the preconditions are checked
// again before the activation commits.
func (reg *Registry) Start(ctx context.Context, id, user string) (*Snapshot, error) {
	r, err := reg.lock(id)
	if err != nil {
		return nil, err
	}
	if err := startAllowed(r, user); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.starting = true
	roster := append([]string(nil), r.members...)
	r.mu.Unlock()

	res, recErr := reg.candidates.RecommendForRoom(ctx, roster, reg.config.CandidateK)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.starting = false

	if r.removed {
		return nil, fmt.Errorf("room %s: %w", id, ErrNotFound)
	}
	if recErr != nil {
		reg.logger.Warn().Err(recErr).Str("room_id", id).Msg("Room start failed to compute candidates")
		return nil, fmt.Errorf("room %s candidates: %w", id, recErr)
	}

	r.active = true
	r.recommended = append([]string(nil), res.IDs...)
	r.coldStart = res.ColdStart
	r.candidates = make(map[string]struct{}, len(res.IDs))
	for _, item := range res.IDs {
		r.candidates[item] = struct{}{}
	}
	r.tracker = NewConsensusTracker(roster)

	reg.logger.Info().
		Str("room_id", id).
		Int("members", len(roster)).
		Int("candidates", len(r.recommended)).
		Bool("cold_start", r.coldStart).
		Msg("Room started")
	if reg.hooks.OnStarted != nil {
		reg.hooks.OnStarted()
	}
	return r.snapshot(), nil
}

// startAllowed checks the start preconditions. r.mu must be held.
func startAllowed(r *room, user string) error {
	switch {
	case r.active || r.starting:
		return fmt.Errorf("%w: room %s has already started", ErrInvalidState, r.id)
	case user != r.creator:
		return fmt.Errorf("%w: only the creator can start room %s", ErrInvalidState, r.id)
	case len(r.members) < 2:
		return fmt.Errorf("%w: room %s needs at least 2 members, has %d", ErrInvalidState, r.id, len(r.members))
	}
	return nil
}

// Like records user's vote for item and reports whether this vote brought
// the item to consensus. Consensus is reported once per item.
func (reg *Registry) Like(id, user, item string) (bool, error) {
	r, err := reg.lock(id)
	if err != nil {
		return false, err
	}
	defer r.mu.Unlock()

	if !r.active {
		return false, fmt.Errorf("%w: room %s has not started", ErrInvalidState, id)
	}
	if _, ok := r.candidates[item]; !ok {
		return false, fmt.Errorf("item %s in room %s: %w", item, id, ErrNotFound)
	}
	consensus, err := r.tracker.Vote(item, user)
	if err != nil {
		return false, err
	}
	if consensus {
		reg.logger.Info().Str("room_id", id).Str("item_id", item).Msg("Room reached consensus")
		if reg.hooks.OnConsensus != nil {
			reg.hooks.OnConsensus()
		}
	}
	return consensus, nil
}

// Leave validates that user belongs to the room. Membership and votes are
// kept; leaving only detaches the user's connection from broadcasts.
func (reg *Registry) Leave(id, user string) error {
	r, err := reg.lock(id)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	if _, ok := r.memberSet[user]; !ok {
		return fmt.Errorf("%w: %s is not a member of room %s", ErrInvalidState, user, id)
	}
	return nil
}

// IsMember reports whether user belongs to the room.
func (reg *Registry) IsMember(id, user string) (bool, error) {
	r, err := reg.lock(id)
	if err != nil {
		return false, err
	}
	defer r.mu.Unlock()
	_, ok := r.memberSet[user]
	return ok, nil
}

// Delete removes the room on behalf of its creator and cancels its expiry.
func (reg *Registry) Delete(id, user string) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[id]
	if !ok {
		return fmt.Errorf("room %s: %w", id, ErrNotFound)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.creator != user {
		return fmt.Errorf("%w: only the creator can delete room %s", ErrInvalidState, id)
	}
	reg.removeLocked(r)

	reg.logger.Info().Str("room_id", id).Msg("Room deleted")
	if reg.hooks.OnDeleted != nil {
		reg.hooks.OnDeleted()
	}
	return nil
}

// Expire removes the room if it is still registered. It is the expiry timer
// callback and is a no-op for unknown ids.
func (reg *Registry) Expire(id string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[id]
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	reg.removeLocked(r)

	reg.logger.Info().Str("room_id", id).Time("created_at", r.createdAt).Msg("Room expired")
	if reg.hooks.OnExpired != nil {
		reg.hooks.OnExpired()
	}
	return true
}

// removeLocked unregisters r. Both reg.mu and r.mu must be held.
func (reg *Registry) removeLocked(r *room) {
	delete(reg.rooms, r.id)
	r.removed = true
	if r.timer != nil {
		r.timer.Stop()
	}
}

// Close cancels every expiry timer and drops all rooms.
func (reg *Registry) Close() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, r := range reg.rooms {
		r.mu.Lock()
		reg.removeLocked(r)
		r.mu.Unlock()
	}
}
