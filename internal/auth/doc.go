// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package auth issues and verifies the bearer tokens that identify users.

Tokens are HS256 JWTs (golang-jwt/jwt/v5) whose subject is the user id. The
same TokenManager serves three callers:

  - the HTTP middleware, which reads the Authorization header or the "token"
    cookie and stores the user in the request context
  - the realtime transports, which verify the token sent at connect time
  - the gateway, which verifies tokens carried inside event payloads

Password storage is out of scope. Tokens are minted by an external identity
service sharing the secret, or by the dev token endpoint when
security.dev_tokens is enabled.

When security.require_auth is false, requests without a token may name
themselves with the X-User-ID header. A token that is present but invalid is
always rejected.
*/
package auth
