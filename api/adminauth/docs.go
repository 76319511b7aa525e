// Package adminauth holds the generated Swagger specification for the admin
// authentication service. Regenerate with:
//
//	swag init -g internal/adminauth/http/router.go -o api/adminauth
package adminauth

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "BastionLabs Team",
            "url": "https://github.com/bastionlabs/adminauth"
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
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {"$ref": "#/definitions/http.HealthResponse"}
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {"$ref": "#/definitions/http.HealthResponse"}
                    },
                    "503": {
                        "description": "service not ready",
                        "schema": {"$ref": "#/definitions/http.HealthResponse"}
                    }
                }
            }
        },
        "/v1/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Login"],
                "summary": "Admin login",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Session token or challenge id", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "423": {"description": "Account locked", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "429": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        },
        "/v1/login/mfa": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Login"],
                "summary": "Complete second factor login",
                "parameters": [
                    {
                        "description": "Challenge id and code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.mfaRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Session token", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "401": {"description": "Invalid or expired challenge", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        },
        "/v1/2fa/send": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["SecondFactor"],
                "summary": "Send a verification code",
                "parameters": [
                    {
                        "description": "Target address",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.twofaSendRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Challenge id", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "400": {"description": "Malformed request", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        },
        "/v1/2fa/verify": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["SecondFactor"],
                "summary": "Verify a code",
                "parameters": [
                    {
                        "description": "Challenge id and code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.twofaVerifyRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Code accepted", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "401": {"description": "Invalid or expired challenge", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        },
        "/v1/confirm": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Confirm"],
                "summary": "Send an email confirmation link",
                "parameters": [
                    {
                        "description": "Target address",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.confirmRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Link sent", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "400": {"description": "Invalid address", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        },
        "/v1/confirm/{token}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Confirm"],
                "summary": "Confirm an email address",
                "parameters": [
                    {"type": "string", "description": "Confirmation token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Address confirmed", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        },
        "/v1/reset": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Reset"],
                "summary": "Request a password reset link",
                "parameters": [
                    {
                        "description": "Target address",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.resetRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Link sent if registered", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        },
        "/v1/reset/{token}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Reset"],
                "summary": "Validate a reset token",
                "parameters": [
                    {"type": "string", "description": "Reset token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Token valid", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Reset"],
                "summary": "Submit a new password",
                "parameters": [
                    {"type": "string", "description": "Reset token", "name": "token", "in": "path", "required": true},
                    {
                        "description": "New password",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.resetSubmitRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Password updated", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "400": {"description": "Password too short", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        },
        "/v1/unlock": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Unlock"],
                "summary": "Request an unlock link",
                "parameters": [
                    {
                        "description": "Target address",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.unlockRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Link sent if applicable", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        },
        "/v1/unlock/{token}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Unlock"],
                "summary": "Validate an unlock token",
                "parameters": [
                    {"type": "string", "description": "Unlock token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Token valid", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["Unlock"],
                "summary": "Unlock the account",
                "parameters": [
                    {"type": "string", "description": "Unlock token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Account unlocked", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        },
        "/v1/session": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Verify the session token",
                "responses": {
                    "200": {"description": "Session valid", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "401": {"description": "Invalid or expired session", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "Session revoked", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "401": {"description": "Invalid session", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        },
        "/v1/maintenance": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Maintenance"],
                "summary": "Run maintenance now",
                "parameters": [
                    {"name": "request", "in": "body", "required": false, "schema": {"$ref": "#/definitions/http.maintenanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "Jobs completed", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "400": {"description": "Unknown task", "schema": {"$ref": "#/definitions/httpx.Result"}},
                    "401": {"description": "Invalid or expired session", "schema": {"$ref": "#/definitions/httpx.Result"}}
                }
            }
        }
    },
    "definitions": {
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {
                    "type": "object",
                    "properties": {
                        "database": {"type": "string"},
                        "cache": {"type": "string"}
                    }
                }
            }
        },
        "http.loginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "http.maintenanceRequest": {
            "type": "object",
            "properties": {
                "task": {"type": "string", "enum": ["clean_cache", "refresh_filings"]}
            }
        },
        "http.mfaRequest": {
            "type": "object",
            "properties": {
                "challenge_id": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "http.twofaSendRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            }
        },
        "http.twofaVerifyRequest": {
            "type": "object",
            "properties": {
                "challenge_id": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "http.confirmRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            }
        },
        "http.resetRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            }
        },
        "http.resetSubmitRequest": {
            "type": "object",
            "properties": {
                "new_password": {"type": "string"}
            }
        },
        "http.unlockRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            }
        },
        "httpx.Result": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "email": {"type": "string"},
                "token": {"type": "string"},
                "challenge_id": {"type": "string"},
                "mfa_required": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Session token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Admin Authentication Service API",
	Description:      "Account security backend for the admin surface.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
