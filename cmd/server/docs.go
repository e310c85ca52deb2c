// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package main provides the MovieMatch HTTP server
//
// @title MovieMatch API
// @version 1.0
// @description Personal and group movie recommendations over an IMDb-derived catalog.
// @description
// @description ## Error Responses
// @description
// @description All error responses use the envelope below:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message"
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-01T12:00:00Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/moviematch/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token. Also accepted from the token cookie.
//
// @tag.name Core
// @tag.description Liveness and readiness checks
//
// @tag.name Auth
// @tag.description Development token issuance
//
// @tag.name Media
// @tag.description Catalog browsing and search
//
// @tag.name Preferences
// @tag.description Per-user ratings
//
// @tag.name Recommendations
// @tag.description Personal recommendations
//
// @tag.name Rooms
// @tag.description Group rooms and their frozen candidate lists
//
// @tag.name Realtime
// @tag.description WebSocket room events
//
// @tag.name Admin
// @tag.description Index rebuilds and service statistics
package main
