// Package docs registers the OpenAPI description served at /api/docs/swagger.json.
// Keep it in sync with the swag annotations on the REST handlers.
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
    "paths": {
        "/api/{kind}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "List stored records",
                "parameters": [
                    {"type": "string", "description": "Metric kind", "name": "kind", "in": "path", "required": true, "enum": ["sleep", "exercise", "glucose"]},
                    {"type": "string", "description": "Start (date or RFC3339)", "name": "from", "in": "query"},
                    {"type": "string", "description": "End (date or RFC3339), inclusive", "name": "to", "in": "query"},
                    {"type": "integer", "description": "Only the last N days", "name": "days", "in": "query"},
                    {"type": "integer", "description": "Page size (max 1000)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Page offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/resources.RecordList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/errors.APIError"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ingest"],
                "summary": "Ingest an Auto Export payload",
                "parameters": [
                    {"type": "string", "description": "Metric kind", "name": "kind", "in": "path", "required": true, "enum": ["sleep", "exercise", "glucose"]},
                    {"description": "Auto Export JSON", "name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.IngestResult"}},
                    "413": {"description": "Payload Too Large", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.IngestResult"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.IngestResult"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Last ingestion outcome per kind",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.IngestStatus"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.APIError"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/test": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Connectivity test",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/resources.Health"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/resources.Health"}}
                }
            }
        }
    },
    "definitions": {
        "errors.APIError": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "message": {"type": "string"},
                "code": {"type": "integer"},
                "request_id": {"type": "string"},
                "details": {}
            }
        },
        "models.IngestResult": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "status": {"type": "string", "enum": ["success", "warning", "error"]},
                "processed": {"type": "integer"},
                "message": {"type": "string"},
                "timestamp": {"type": "string"},
                "extracted": {"type": "integer"},
                "skipped": {"type": "integer"}
            }
        },
        "models.IngestStatus": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "last": {"$ref": "#/definitions/models.IngestResult"},
                "calls": {"type": "integer"},
                "total_processed": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "resources.RecordList": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "total": {"type": "integer"},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "records": {"type": "array", "items": {"type": "object"}}
            }
        },
        "resources.Health": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "version": {"type": "string"},
                "database": {"type": "string"},
                "redis": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "healthhub API",
	Description:      "Ingests Auto Export sleep, exercise and blood glucose payloads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
