// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package main

import (
	"testing"

	"github.com/tomtom215/moviematch/internal/config"
)

func TestRecommendConfig(t *testing.T) {
	rc := recommendConfig(&config.RecommendConfig{
		PageSize:   100,
		Workers:    3,
		Alpha:      0.5,
		Beta:       0.25,
		DedupSlack: 4,
		DefaultK:   7,
		MaxK:       50,
	})

	if rc.PageSize != 100 || rc.Workers != 3 || rc.DedupSlack != 4 {
		t.Errorf("sizes = %d/%d/%d, want 100/3/4", rc.PageSize, rc.Workers, rc.DedupSlack)
	}
	if rc.Alpha != 0.5 || rc.Beta != 0.25 {
		t.Errorf("weights = %v/%v, want 0.5/0.25", rc.Alpha, rc.Beta)
	}
	if rc.DefaultK != 7 || rc.MaxK != 50 {
		t.Errorf("k = %d/%d, want 7/50", rc.DefaultK, rc.MaxK)
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestInitTokens(t *testing.T) {
	tokens, err := initTokens(&config.SecurityConfig{RequireAuth: false})
	if err != nil || tokens != nil {
		t.Errorf("optional auth without secret = %v, %v; want nil, nil", tokens, err)
	}

	if _, err := initTokens(&config.SecurityConfig{RequireAuth: true}); err == nil {
		t.Error("required auth without secret: error = nil")
	}

	tokens, err = initTokens(&config.SecurityConfig{
		JWTSecret: "0123456789abcdef0123456789abcdef",
		JWTIssuer: "moviematch",
	})
	if err != nil || tokens == nil {
		t.Fatalf("initTokens() = %v, %v", tokens, err)
	}
}

func TestInitAdmins(t *testing.T) {
	admins, err := initAdmins(&config.SecurityConfig{})
	if err != nil || admins != nil {
		t.Errorf("no admins configured = %v, %v; want nil, nil", admins, err)
	}

	admins, err = initAdmins(&config.SecurityConfig{AdminUsers: []string{"ops"}})
	if err != nil || admins == nil {
		t.Fatalf("initAdmins() = %v, %v", admins, err)
	}
	ok, err := admins.Enforce("ops", "/api/v1/admin/stats", "read")
	if err != nil || !ok {
		t.Errorf("Enforce(ops) = %v, %v; want true", ok, err)
	}
	ok, err = admins.Enforce("bob", "/api/v1/admin/stats", "read")
	if err != nil || ok {
		t.Errorf("Enforce(bob) = %v, %v; want false", ok, err)
	}

	if _, err := initAdmins(&config.SecurityConfig{AuthzPolicyPath: "/nonexistent/policy.csv"}); err == nil {
		t.Error("missing policy file: error = nil")
	}
}
