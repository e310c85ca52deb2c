// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate it with `swag init -g cmd/server/docs.go -o docs` after
// changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/moviematch/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/admin/features/rebuild": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Rebuild features and index",
                "responses": {
                    "200": {"description": "Engine counters after the rebuild", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "403": {"description": "Admin role required", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/admin/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Service statistics",
                "responses": {
                    "200": {"description": "Statistics", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "403": {"description": "Admin role required", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/auth/token": {
            "post": {
                "description": "Mints a bearer token for any user id. Only mounted when security.dev_tokens is enabled.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Issue a development token",
                "parameters": [
                    {"description": "User to issue a token for", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.TokenResponse"}}}]}},
                    "400": {"description": "Invalid user id", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Development tokens are disabled", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "Process is alive", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/health/ready": {
            "get": {
                "description": "Returns 200 once the database answers and a recommendation index is published, 503 otherwise.",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Service is ready", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.ReadyStatus"}}}]}},
                    "503": {"description": "Service is not ready", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.ReadyStatus"}}}]}}
                }
            }
        },
        "/api/v1/media": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Pages through the catalog. Repeated categories must all match.",
                "produces": ["application/json"],
                "tags": ["Media"],
                "summary": "List catalog ids",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "1-based page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 50, "description": "Items per page (1-100)", "name": "page_size", "in": "query"},
                    {"enum": ["primaryTitle", "averageRating"], "type": "string", "default": "primaryTitle", "description": "Sort key", "name": "sort_by", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "default": "asc", "description": "Sort direction", "name": "sort_dir", "in": "query"},
                    {"type": "number", "description": "Minimum average rating (0-10)", "name": "min_rating", "in": "query"},
                    {"type": "string", "description": "Title substring", "name": "search", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Required categories", "name": "categories", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "One page of ids", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/database.MediaPage"}}}]}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/media/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Media"],
                "summary": "List categories",
                "responses": {
                    "200": {"description": "Distinct categories, sorted", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"type": "string"}}}}]}}
                }
            }
        },
        "/api/v1/media/popular": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Media"],
                "summary": "Most popular titles",
                "parameters": [
                    {"type": "integer", "default": 20, "description": "Maximum items (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Items, most voted first", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/recommend.Item"}}}}]}},
                    "400": {"description": "Invalid limit", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/media/search": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Media"],
                "summary": "Search titles",
                "parameters": [
                    {"type": "string", "description": "Title substring", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "default": 20, "description": "Maximum items (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Matching items", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/recommend.Item"}}}}]}},
                    "400": {"description": "Missing or invalid query", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/media/{itemID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Media"],
                "summary": "Get a catalog item",
                "parameters": [
                    {"type": "string", "description": "Item id (tt1234567)", "name": "itemID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Item", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/recommend.Item"}}}]}},
                    "404": {"description": "Unknown item", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/preferences": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "List the caller's ratings",
                "responses": {
                    "200": {"description": "Ratings, most recent first", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/database.Preference"}}}}]}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Rate an item",
                "parameters": [
                    {"description": "Item and rating (1-10)", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.RateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rating stored", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/database.Preference"}}}]}},
                    "400": {"description": "Invalid rating", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Unknown item", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/preferences/{itemID}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Preferences"],
                "summary": "Remove a rating",
                "parameters": [
                    {"type": "string", "description": "Item id", "name": "itemID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Rating removed"},
                    "404": {"description": "No rating for this item", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/recommendations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Personal recommendations",
                "parameters": [
                    {"type": "integer", "description": "Number of recommendations (0 uses the engine default)", "name": "k", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Recommendations", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Index not ready", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/rooms": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "Create a room",
                "responses": {
                    "201": {"description": "Room created", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/rooms.Snapshot"}}}]}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/rooms/{roomID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "Get a room",
                "parameters": [
                    {"type": "string", "description": "Room id", "name": "roomID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Room snapshot", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/rooms.Snapshot"}}}]}},
                    "404": {"description": "Unknown room", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Rooms"],
                "summary": "Delete a room",
                "parameters": [
                    {"type": "string", "description": "Room id", "name": "roomID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Room deleted"},
                    "404": {"description": "Unknown room", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "409": {"description": "Only the creator may delete", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/rooms/{roomID}/join": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "Join a room",
                "parameters": [
                    {"type": "string", "description": "Room id", "name": "roomID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Room snapshot", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/rooms.Snapshot"}}}]}},
                    "404": {"description": "Unknown room", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "409": {"description": "Room already started or full", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/rooms/{roomID}/recommendations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "Room candidates",
                "parameters": [
                    {"type": "string", "description": "Room id", "name": "roomID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Frozen candidate list", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Unknown room", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "409": {"description": "Room not started", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Upgrades to a WebSocket carrying room events. Browsers pass the token as ?token=.",
                "tags": ["Realtime"],
                "summary": "Realtime room connection",
                "parameters": [
                    {"type": "string", "description": "Bearer token", "name": "token", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching protocols"},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true},
                "message": {"type": "string"}
            }
        },
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/api.APIError"},
                "metadata": {"$ref": "#/definitions/api.Metadata"},
                "status": {"type": "string"}
            }
        },
        "api.Metadata": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "api.RateRequest": {
            "type": "object",
            "properties": {
                "item_id": {"type": "string"},
                "rating": {"type": "integer", "maximum": 10, "minimum": 1}
            }
        },
        "api.ReadyStatus": {
            "type": "object",
            "properties": {
                "active_rooms": {"type": "integer"},
                "database_connected": {"type": "boolean"},
                "index_ready": {"type": "boolean"},
                "ready": {"type": "boolean"}
            }
        },
        "api.TokenRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string", "maxLength": 64}
            }
        },
        "api.TokenResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string"},
                "token": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "database.MediaPage": {
            "type": "object",
            "properties": {
                "has_more": {"type": "boolean"},
                "ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "database.Preference": {
            "type": "object",
            "properties": {
                "item_id": {"type": "string"},
                "rating": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "recommend.Item": {
            "type": "object",
            "properties": {
                "average_rating": {"type": "number"},
                "categories": {"type": "array", "items": {"type": "string"}},
                "end_year": {"type": "integer"},
                "id": {"type": "string"},
                "is_adult": {"type": "boolean"},
                "original_title": {"type": "string"},
                "popularity": {"type": "integer"},
                "primary_title": {"type": "string"},
                "runtime_minutes": {"type": "integer"},
                "start_year": {"type": "integer"},
                "title_type": {"type": "string"}
            }
        },
        "rooms.Snapshot": {
            "type": "object",
            "properties": {
                "active": {"type": "boolean"},
                "cold_start": {"type": "boolean"},
                "consensus": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string"},
                "creator": {"type": "string"},
                "expires_at": {"type": "string"},
                "id": {"type": "string"},
                "likes": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
                "members": {"type": "array", "items": {"type": "string"}},
                "recommended": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token. Also accepted from the token cookie.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "MovieMatch API",
	Description:      "Personal and group movie recommendations over an IMDb-derived catalog.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
