// Package docs registra en swag la descripción OpenAPI del bot de precios
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BotToken": {
            "type": "apiKey",
            "name": "X-Bot-Token",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "description": "Liveness probe, always 200 while the process serves requests",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/HealthResponse"}}
                }
            }
        },
        "/ready": {
            "get": {
                "description": "Readiness probe with catalog counts; 503 while every API key is out of quota",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/HealthResponse"}},
                    "503": {"description": "Quota exhausted", "schema": {"$ref": "#/definitions/HealthResponse"}}
                }
            }
        },
        "/api/v1/query": {
            "post": {
                "security": [{"BotToken": []}],
                "description": "Free-text price query as typed in the chat (e.g. \"btc eur\")",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bot"],
                "summary": "Answer a chat price query",
                "parameters": [
                    {"description": "Chat message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QueryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Reply"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "503": {"description": "Quota exhausted", "schema": {"$ref": "#/definitions/Reply"}}
                }
            }
        },
        "/api/v1/price/{symbol}": {
            "get": {
                "security": [{"BotToken": []}],
                "produces": ["application/json"],
                "tags": ["bot"],
                "summary": "Formatted quote for one asset",
                "parameters": [
                    {"type": "string", "description": "Asset symbol (BTC, ETH...)", "name": "symbol", "in": "path", "required": true},
                    {"type": "string", "description": "Quote currency, defaults to USD", "name": "currency", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/QuoteResult"}},
                    "502": {"description": "Upstream error", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "503": {"description": "Quota exhausted", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/assets": {
            "get": {
                "security": [{"BotToken": []}],
                "produces": ["application/json"],
                "tags": ["bot"],
                "summary": "Supported crypto tokens",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Reply"}},
                    "503": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/Reply"}}
                }
            }
        },
        "/api/v1/currencies": {
            "get": {
                "security": [{"BotToken": []}],
                "produces": ["application/json"],
                "tags": ["bot"],
                "summary": "Supported fiat currencies",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Reply"}},
                    "503": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/Reply"}}
                }
            }
        },
        "/api/v1/usage": {
            "get": {
                "security": [{"BotToken": []}],
                "produces": ["application/json"],
                "tags": ["quota"],
                "summary": "Credit usage of the active API key",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UsageResponse"}},
                    "502": {"description": "Upstream error", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "503": {"description": "Quota exhausted", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/status": {
            "get": {
                "security": [{"BotToken": []}],
                "produces": ["application/json"],
                "tags": ["quota"],
                "summary": "Quota state, catalog sizes and backup baseline",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StatusResponse"}}
                }
            }
        }
    },
    "definitions": {
        "QueryRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "chat_id": {"type": "string", "example": "123456"},
                "text": {"type": "string", "example": "btc eur"}
            }
        },
        "Reply": {
            "type": "object",
            "properties": {
                "messages": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"},
                "ok": {"type": "boolean"}
            }
        },
        "QuoteResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "UsageResponse": {
            "type": "object",
            "properties": {
                "report": {"type": "string"},
                "key_index": {"type": "integer"},
                "exhausted": {"type": "boolean"}
            }
        },
        "StatusResponse": {
            "type": "object",
            "properties": {
                "exhausted": {"type": "boolean"},
                "active_key": {"type": "integer"},
                "key_count": {"type": "integer"},
                "assets": {"type": "integer"},
                "currencies": {"type": "integer"},
                "metadata_entries": {"type": "integer"},
                "backup_baseline": {"type": "integer"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "healthy"},
                "timestamp": {"type": "string", "format": "date-time"},
                "services": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "code": {"type": "string", "example": "INVALID_BODY"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Crypto Price Bot API",
	Description:      "Chat-facing API that answers crypto price queries backed by CoinMarketCap, with per-key quota tracking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
