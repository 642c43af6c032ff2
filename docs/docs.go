// Package docs registers the OpenAPI documents served under /swagger.
// Regenerate the console document with `swag init -g api/main.go`.
package docs

import "github.com/swaggo/swag"

const consoleTemplate = `{
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
        "/login": {
            "get": {"tags": ["auth"], "summary": "Login screen model", "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["auth"],
                "summary": "Log in against the user collection",
                "consumes": ["application/json"],
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/handlers.UserLogin"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ValidationErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/logout": {"post": {"tags": ["auth"], "summary": "Log out and drop the screen state of the session", "responses": {"303": {"description": "See Other"}}}},
        "/api/shell": {"get": {"tags": ["shell"], "summary": "Header state: login flag, current user and navigation links", "responses": {"200": {"description": "OK"}}}},
        "/api/notifications": {"get": {"tags": ["shell"], "summary": "Drain the pending notifications of the session", "responses": {"200": {"description": "OK"}}}},
        "/api/{screen}": {
            "get": {
                "tags": ["screens"],
                "summary": "Current page of a list screen",
                "parameters": [
                    {"type": "string", "name": "screen", "in": "path", "required": true},
                    {"type": "string", "name": "filter", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query"},
                    {"type": "string", "name": "dir", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}
            },
            "post": {
                "tags": ["screens"],
                "summary": "Create a record through the add dialog",
                "parameters": [{"type": "string", "name": "screen", "in": "path", "required": true}, {"in": "body", "name": "values", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ValidationErrorResponse"}}}
            }
        },
        "/api/{screen}/{id}": {
            "put": {
                "tags": ["screens"],
                "summary": "Update a record through the edit dialog",
                "parameters": [{"type": "string", "name": "screen", "in": "path", "required": true}, {"type": "integer", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "values", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ValidationErrorResponse"}}}
            },
            "delete": {
                "tags": ["screens"],
                "summary": "Delete a record once confirmed",
                "parameters": [{"type": "string", "name": "screen", "in": "path", "required": true}, {"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "boolean", "name": "confirm", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}, "428": {"description": "Precondition Required", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {"type": "object", "properties": {"detail": {"type": "string"}}},
        "handlers.ValidationErrorResponse": {"type": "object", "properties": {"detail": {"type": "string"}, "fields": {"type": "object", "additionalProperties": {"type": "string"}}}},
        "handlers.UserLogin": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}}
    }
}`

const recordStoreTemplate = `{
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
        "/{collection}": {
            "get": {"tags": ["records"], "summary": "List a collection", "parameters": [{"type": "string", "name": "collection", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["records"], "summary": "Create a record with the next numeric id", "parameters": [{"type": "string", "name": "collection", "in": "path", "required": true}, {"in": "body", "name": "record", "required": true, "schema": {"type": "object"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/{collection}/{id}": {
            "get": {"tags": ["records"], "summary": "Get a record by id", "parameters": [{"type": "string", "name": "collection", "in": "path", "required": true}, {"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["records"], "summary": "Replace a record", "parameters": [{"type": "string", "name": "collection", "in": "path", "required": true}, {"type": "integer", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "record", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["records"], "summary": "Merge fields into a record", "parameters": [{"type": "string", "name": "collection", "in": "path", "required": true}, {"type": "integer", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "fields", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["records"], "summary": "Delete a record", "parameters": [{"type": "string", "name": "collection", "in": "path", "required": true}, {"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Admin Console API",
	Description:      "Session, navigation and screen endpoints of the admin console.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  consoleTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// RecordStoreInfo documents the REST backend.
var RecordStoreInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Record Store API",
	Description:      "Schemaless JSON collections with numeric ids.",
	InfoInstanceName: "recordstore",
	SwaggerTemplate:  recordStoreTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
	swag.Register(RecordStoreInfo.InstanceName(), RecordStoreInfo)
}
