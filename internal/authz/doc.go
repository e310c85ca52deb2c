// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package authz authorizes operator endpoints with Casbin RBAC.

Users are identified by the id established by package auth. The built-in
policy grants the admin role every action under /api/v1/admin/. Users listed
in security.admin_users are assigned the admin role at startup. A policy file
(Casbin CSV) can replace the built-in policy.

Model:

	r = sub, obj, act
	p = sub, obj, act
	g = _, _
	m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (p.act == "*" || r.act == p.act)

Actions are derived from the HTTP method: read (GET, HEAD, OPTIONS), write
(POST, PUT, PATCH) and delete (DELETE).

Decisions are cached in an LRU for a short TTL. Role changes clear the cache.
*/
package authz
