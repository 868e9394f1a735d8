package apidocs

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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/apidocs.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/apidocs.HealthResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "parameters": [
                    {"type": "integer", "description": "Page size (default 50, max 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Items to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/apidocs.UserResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apidocs.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a user",
                "parameters": [
                    {"description": "New user", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/apidocs.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/apidocs.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apidocs.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apidocs.ErrorResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/apidocs.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apidocs.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a user",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/apidocs.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/apidocs.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apidocs.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apidocs.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apidocs.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["users"],
                "summary": "Delete a user",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apidocs.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "apidocs.CreateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "test@example.com"},
                "name": {"type": "string", "example": "Test User"}
            }
        },
        "apidocs.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "new@example.com"},
                "name": {"type": "string", "example": "Updated Name"}
            }
        },
        "apidocs.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "3f0b8f3e-8a4e-4b43-9d0a-6f1c2f7d9a10"},
                "email": {"type": "string", "example": "test@example.com"},
                "name": {"type": "string", "example": "Test User"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "apidocs.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "User not found"}
            }
        },
        "apidocs.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "db": {"type": "string", "example": "ok"},
                "redis": {"type": "string", "example": "ok"},
                "traceId": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Users API",
	Description:      "User management REST API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
