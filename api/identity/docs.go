// Package identity registers the OpenAPI document served at /swagger/.
// Regenerate with: swag init -g internal/identity/http/router.go -o api/identity
package identity

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/identity"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register an account",
                "parameters": [
                    {"description": "New account", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identitysdk.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Token envelope", "schema": {"$ref": "#/definitions/identitysdk.AuthResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "409": {"description": "Username or email taken", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identitysdk.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token envelope", "schema": {"$ref": "#/definitions/identitysdk.AuthResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/auth/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "parameters": [
                    {"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identitysdk.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token envelope", "schema": {"$ref": "#/definitions/identitysdk.AuthResponse"}},
                    "400": {"description": "Missing refresh token", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "Invalid or expired refresh token", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign out",
                "parameters": [
                    {"description": "Refresh token", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/identitysdk.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "Logged out", "schema": {"$ref": "#/definitions/identitysdk.MessageResponse"}}
                }
            }
        },
        "/api/auth/logout-all": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign out everywhere",
                "responses": {
                    "200": {"description": "Logged out of all sessions", "schema": {"$ref": "#/definitions/identitysdk.MessageResponse"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/auth/change-password": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Change password",
                "parameters": [
                    {"description": "Current and new password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identitysdk.ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "Password changed", "schema": {"$ref": "#/definitions/identitysdk.MessageResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Current account",
                "responses": {
                    "200": {"description": "Account summary", "schema": {"$ref": "#/definitions/identitysdk.UserResponse"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/auth/check-username": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Username availability",
                "parameters": [
                    {"type": "string", "description": "Username to check", "name": "username", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "available", "schema": {"$ref": "#/definitions/identitysdk.AvailabilityResponse"}},
                    "400": {"description": "Missing username", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/auth/check-email": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Email availability",
                "parameters": [
                    {"type": "string", "description": "Email to check", "name": "email", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "available", "schema": {"$ref": "#/definitions/identitysdk.AvailabilityResponse"}},
                    "400": {"description": "Missing email", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/auth/sessions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Active sessions",
                "responses": {
                    "200": {"description": "sessions", "schema": {"$ref": "#/definitions/identitysdk.SessionListResponse"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/auth/sessions/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Revoke a session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Session revoked", "schema": {"$ref": "#/definitions/identitysdk.MessageResponse"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "404": {"description": "No such session", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/admin/accounts/{publicId}/status": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Set account status",
                "parameters": [
                    {"type": "string", "description": "Account UUID", "name": "publicId", "in": "path", "required": true},
                    {"description": "Flags to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identitysdk.SetStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated account", "schema": {"$ref": "#/definitions/identitysdk.AdminAccountResponse"}},
                    "400": {"description": "Protected account or invalid ban reason", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "403": {"description": "Access denied", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "404": {"description": "No such account", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/admin/accounts/{publicId}/role": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Set account role",
                "parameters": [
                    {"type": "string", "description": "Account UUID", "name": "publicId", "in": "path", "required": true},
                    {"description": "Role to grant", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identitysdk.SetRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated account", "schema": {"$ref": "#/definitions/identitysdk.AdminAccountResponse"}},
                    "400": {"description": "Unknown role or own account", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "403": {"description": "Access denied", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "404": {"description": "No such account", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/identitysdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/identitysdk.HealthResponse"}},
                    "503": {"description": "service not ready", "schema": {"$ref": "#/definitions/identitysdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "httpx.ErrorBody": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "status": {"type": "integer"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "errorCode": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "identitysdk.RegisterRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"}
            }
        },
        "identitysdk.LoginRequest": {
            "type": "object",
            "properties": {
                "usernameOrEmail": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "identitysdk.RefreshRequest": {
            "type": "object",
            "properties": {
                "refreshToken": {"type": "string"}
            }
        },
        "identitysdk.ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "currentPassword": {"type": "string"},
                "newPassword": {"type": "string"}
            }
        },
        "identitysdk.SetStatusRequest": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "locked": {"type": "boolean"},
                "banned": {"type": "boolean"},
                "banReason": {"type": "string"}
            }
        },
        "identitysdk.SetRoleRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["ROLE_USER", "ROLE_MODERATOR", "ROLE_ADMIN"]}
            }
        },
        "identitysdk.AdminAccountResponse": {
            "type": "object",
            "properties": {
                "uuid": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "fullName": {"type": "string"},
                "emailVerified": {"type": "boolean"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "createdAt": {"type": "string"},
                "lastLoginAt": {"type": "string"},
                "status": {"type": "string"},
                "enabled": {"type": "boolean"},
                "locked": {"type": "boolean"},
                "banned": {"type": "boolean"},
                "banReason": {"type": "string"}
            }
        },
        "identitysdk.AuthResponse": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"},
                "tokenType": {"type": "string"},
                "expiresIn": {"type": "integer"},
                "user": {"$ref": "#/definitions/identitysdk.UserResponse"}
            }
        },
        "identitysdk.UserResponse": {
            "type": "object",
            "properties": {
                "uuid": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "fullName": {"type": "string"},
                "emailVerified": {"type": "boolean"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "createdAt": {"type": "string"},
                "lastLoginAt": {"type": "string"}
            }
        },
        "identitysdk.AvailabilityResponse": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean"}
            }
        },
        "identitysdk.SessionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "deviceInfo": {"type": "string"},
                "ipAddress": {"type": "string"},
                "createdAt": {"type": "string"},
                "lastActivityAt": {"type": "string"},
                "expiresAt": {"type": "string"},
                "current": {"type": "boolean"}
            }
        },
        "identitysdk.SessionListResponse": {
            "type": "object",
            "properties": {
                "sessions": {"type": "array", "items": {"$ref": "#/definitions/identitysdk.SessionResponse"}}
            }
        },
        "identitysdk.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "identitysdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"}
            }
        },
        "identitysdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/identitysdk.HealthChecks"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Identity Service API",
	Description:      "Account registration, sign-in and session management.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
