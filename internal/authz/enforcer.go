// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package authz

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/moviematch/internal/cache"
	"github.com/tomtom215/moviematch/internal/metrics"
)

// RoleAdmin may call every operator endpoint.
const RoleAdmin = "admin"

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

// defaultPolicy is loaded when no policy file is configured.
var defaultPolicy = [][]string{
	{RoleAdmin, "/api/v1/admin/*", "*"},
}

// Config holds enforcer settings.
type Config struct {
	// PolicyPath is a Casbin CSV policy file. Empty uses the built-in policy.
	PolicyPath string

	// Admins are assigned RoleAdmin.
	Admins []string

	// CacheSize and CacheTTL bound the decision cache. CacheSize 0 disables it.
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		CacheSize: 1024,
		CacheTTL:  time.Minute,
	}
}

// Enforcer wraps a Casbin enforcer with a decision cache.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	cache    *cache.LRU[bool]
}

// NewEnforcer builds an enforcer from cfg.
func NewEnforcer(cfg Config) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" {
		if _, statErr := os.Stat(cfg.PolicyPath); statErr != nil {
			return nil, fmt.Errorf("policy file: %w", statErr)
		}
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			_, err = enforcer.AddPolicies(defaultPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	e := &Enforcer{enforcer: enforcer}
	if cfg.CacheSize > 0 {
		e.cache = cache.NewLRU[bool](cfg.CacheSize, cfg.CacheTTL)
	}

	for _, user := range cfg.Admins {
		if err := e.AssignRole(user, RoleAdmin); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Enforce reports whether subject may perform action on object.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	key := subject + "\x00" + object + "\x00" + action
	if e.cache != nil {
		if allowed, ok := e.cache.Get(key); ok {
			metrics.RecordCacheLookup("authz", true)
			return allowed, nil
		}
		metrics.RecordCacheLookup("authz", false)
	}

	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}

	if e.cache != nil {
		e.cache.Add(key, allowed)
	}
	return allowed, nil
}

// AssignRole gives user role and clears cached decisions.
func (e *Enforcer) AssignRole(user, role string) error {
	user = strings.TrimSpace(user)
	if user == "" {
		return fmt.Errorf("user is required")
	}
	if _, err := e.enforcer.AddRoleForUser(user, role); err != nil {
		return fmt.Errorf("assign role %s to %s: %w", role, user, err)
	}
	e.invalidate()
	return nil
}

// RevokeRole removes role from user and clears cached decisions.
func (e *Enforcer) RevokeRole(user, role string) error {
	if _, err := e.enforcer.DeleteRoleForUser(user, role); err != nil {
		return fmt.Errorf("revoke role %s from %s: %w", role, user, err)
	}
	e.invalidate()
	return nil
}

// Roles returns the roles assigned to user.
func (e *Enforcer) Roles(user string) ([]string, error) {
	return e.enforcer.GetRolesForUser(user)
}

func (e *Enforcer) invalidate() {
	if e.cache != nil {
		e.cache.Clear()
	}
}
