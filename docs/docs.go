// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g cmd/ticketdesk/main.go -o docs
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
        "/tickets/": {
            "get": {
                "description": "Returns tickets in id order as an array. Filters and paging are optional.",
                "produces": ["application/json"],
                "tags": ["Ticket Management"],
                "summary": "List tickets",
                "operationId": "listTickets",
                "parameters": [
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"},
                    {"type": "string", "description": "Exact status match", "name": "status", "in": "query"},
                    {"type": "string", "description": "Exact group match", "name": "ticket_group", "in": "query"},
                    {"minimum": 1, "type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Ticket"}},
                        "headers": {"ETag": {"type": "string"}, "X-Total-Count": {"type": "integer"}}},
                    "304": {"description": "Not Modified"},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Stores a ticket. closing_time is 24h after created_date.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ticket Management"],
                "summary": "Create a ticket",
                "operationId": "createTicket",
                "parameters": [
                    {"type": "string", "description": "Client key for safe retries", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Ticket payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.TicketIn"}}
                ],
                "responses": {
                    "200": {"description": "Replay, or legacy mode", "schema": {"$ref": "#/definitions/domain.Ticket"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Ticket"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tickets/{id}": {
            "put": {
                "description": "Overwrites status and remark; other fields are ignored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ticket Management"],
                "summary": "Update ticket status and remark",
                "operationId": "updateTicket",
                "parameters": [
                    {"minimum": 1, "type": "integer", "description": "Ticket ID", "name": "id", "in": "path", "required": true},
                    {"description": "Status and remark", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.TicketUpdateIn"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Ticket"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Ticket not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tickets/{id}/assign/{agent_id}": {
            "get": {
                "description": "Copies the agent's name into toassign when both exist and share a group.",
                "produces": ["application/json"],
                "tags": ["Ticket Management"],
                "summary": "Assign an agent to a ticket",
                "operationId": "assignAgent",
                "parameters": [
                    {"minimum": 1, "type": "integer", "description": "Ticket ID", "name": "id", "in": "path", "required": true},
                    {"minimum": 1, "type": "integer", "description": "Agent ID", "name": "agent_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.AssignResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Ticket or agent not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Group mismatch", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/agents/": {
            "get": {
                "description": "Returns agents in agent_id order, optionally filtered by agent_group.",
                "produces": ["application/json"],
                "tags": ["Agent Management"],
                "summary": "List agents",
                "operationId": "listAgents",
                "parameters": [
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"},
                    {"type": "string", "description": "Exact group match", "name": "agent_group", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Agent"}}},
                    "304": {"description": "Not Modified"},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Stores an agent. Names are unique.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Agent Management"],
                "summary": "Register an agent",
                "operationId": "createAgent",
                "parameters": [
                    {"type": "string", "description": "Client key for safe retries", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Agent payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AgentIn"}}
                ],
                "responses": {
                    "200": {"description": "Replay, or legacy mode", "schema": {"$ref": "#/definitions/domain.Agent"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Agent"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Agent name exists", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Ticket": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "description": {"type": "string"},
                "toassign": {"type": "string"},
                "status": {"type": "string"},
                "ticket_priority": {"type": "string"},
                "ticket_group": {"type": "string"},
                "remark": {"type": "string"},
                "created_date": {"type": "string"},
                "closing_time": {"type": "string"}
            }
        },
        "domain.Agent": {
            "type": "object",
            "properties": {
                "agent_id": {"type": "integer"},
                "agent_name": {"type": "string"},
                "agent_group": {"type": "string"}
            }
        },
        "handlers.TicketIn": {
            "type": "object",
            "required": ["description", "email", "remark", "status", "ticket_group", "ticket_priority", "toassign"],
            "properties": {
                "email": {"type": "string", "example": "jo@example.com"},
                "description": {"type": "string", "example": "VPN drops every hour"},
                "toassign": {"type": "string", "example": ""},
                "status": {"type": "string", "example": "open"},
                "ticket_priority": {"type": "string", "example": "high"},
                "ticket_group": {"type": "string", "example": "IT"},
                "remark": {"type": "string", "example": ""}
            }
        },
        "handlers.TicketUpdateIn": {
            "type": "object",
            "required": ["remark", "status"],
            "properties": {
                "email": {"type": "string"},
                "description": {"type": "string"},
                "toassign": {"type": "string"},
                "status": {"type": "string", "example": "closed"},
                "ticket_priority": {"type": "string"},
                "ticket_group": {"type": "string"},
                "remark": {"type": "string", "example": "router replaced"}
            }
        },
        "handlers.AgentIn": {
            "type": "object",
            "required": ["agent_name"],
            "properties": {
                "agent_name": {"type": "string", "example": "Alice"},
                "agent_group": {"type": "string", "example": "IT"}
            }
        },
        "handlers.AssignResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Agent assigned to ticket successfully"},
                "ticket": {"$ref": "#/definitions/domain.Ticket"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Ticket Desk API",
	Description:      "Support tickets and agents with group-scoped assignment.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
