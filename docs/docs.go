// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/leads": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Leads"],
                "summary": "List the caller's leads",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Lead"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Leads"],
                "summary": "Create a lead",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.CreateLeadRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Lead"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/leads/tl": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Leads"],
                "summary": "List every active lead",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Lead"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/leads/unassigned": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Leads"],
                "summary": "List unassigned leads and the caller's own",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Lead"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/leads/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Leads"],
                "summary": "Get a lead",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Lead"}},
                    "404": {"description": "No such lead", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Leads"],
                "summary": "Edit, assign or disposition a lead",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.UpdateLeadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Lead"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "No such lead", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Lead was modified by another request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Leads"],
                "summary": "Delete a lead",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "The deleted lead", "schema": {"$ref": "#/definitions/models.Lead"}},
                    "404": {"description": "No such lead", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/leads/{id}/assignments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Leads"],
                "summary": "Assignment history of a lead",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Assignment"}}}
                }
            }
        },
        "/userLG/login": {
            "post": {
                "tags": ["Users"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LoginResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Incorrect email or password", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/userLG/signup": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Create a staff account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.SignupRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/userLG/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Revoke the current token",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}}}
            }
        },
        "/userLG": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "List users",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.User"}}}}
            }
        },
        "/userLG/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Current user",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}}}
            }
        },
        "/userLG/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Get a user",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Update a user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.UpdateUserRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}}}
            }
        },
        "/emails": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Emails"],
                "summary": "List sent emails",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Email"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Emails"],
                "summary": "Send an email",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.SendEmailRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Email"}},
                    "500": {"description": "Email could not be sent", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/inventories/inventory": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Dashboard inventory",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Inventory"}}}
            }
        },
        "/bookings/recent-bookings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Recent bookings",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Booking"}}}}
            }
        },
        "/services/booked-units-performance": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Booked units per telemarketer",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.BookedUnits"}}}}
            }
        },
        "/reports/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Download the dashboard report",
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"type": "string", "default": "csv", "name": "format", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/jobs/daily-digest": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Jobs"],
                "summary": "Send the daily digest now",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/jobs.DigestResult"}}}
            }
        },
        "/jobs/warm-cache": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Jobs"],
                "summary": "Recompute the dashboard cache",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}}}
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "emptyFields": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "models.Lead": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string"},
                "phonenumber": {"type": "string"},
                "phoneE164": {"type": "string"},
                "emailaddress": {"type": "string"},
                "streetaddress": {"type": "string"},
                "city": {"type": "string"},
                "postcode": {"type": "string"},
                "remarks": {"type": "string"},
                "createdBy": {"type": "string"},
                "assignedTo": {"type": "string"},
                "Distributed": {"type": "string"},
                "callDisposition": {"type": "string"},
                "__v": {"type": "integer"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.CreateLeadRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "phonenumber": {"type": "string"},
                "emailaddress": {"type": "string"},
                "streetaddress": {"type": "string"},
                "city": {"type": "string"},
                "postcode": {"type": "string"},
                "remarks": {"type": "string"}
            }
        },
        "models.UpdateLeadRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "phonenumber": {"type": "string"},
                "emailaddress": {"type": "string"},
                "streetaddress": {"type": "string"},
                "city": {"type": "string"},
                "postcode": {"type": "string"},
                "remarks": {"type": "string"},
                "assignedTo": {"type": "string"},
                "callDisposition": {"type": "string"},
                "__v": {"type": "integer"}
            }
        },
        "models.Assignment": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "leadId": {"type": "string"},
                "fromUserId": {"type": "string"},
                "toUserId": {"type": "string"},
                "assignedBy": {"type": "string"},
                "assignmentType": {"type": "string"},
                "assignedAt": {"type": "string"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "team": {"type": "string"},
                "status": {"type": "string"},
                "number": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.SignupRequest": {
            "type": "object",
            "required": ["name", "email", "password", "role"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string"},
                "team": {"type": "string"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.LoginResponse": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "team": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "models.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string"},
                "team": {"type": "string"},
                "status": {"type": "string"},
                "number": {"type": "string"},
                "homeaddress": {"type": "string"},
                "gender": {"type": "string"},
                "profileImage": {"type": "string"}
            }
        },
        "models.Email": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "subject": {"type": "string"},
                "text": {"type": "string"},
                "leadId": {"type": "string"},
                "sentBy": {"type": "string"},
                "provider": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "models.SendEmailRequest": {
            "type": "object",
            "properties": {
                "from": {"type": "string"},
                "to": {"type": "string"},
                "subject": {"type": "string"},
                "text": {"type": "string"},
                "leadId": {"type": "string"}
            }
        },
        "models.Inventory": {
            "type": "object",
            "properties": {
                "numberOfLeads": {"type": "integer"},
                "numberOfUsers": {"type": "integer"},
                "numberOfAssignedLeads": {"type": "integer"},
                "numberOfUnassignedLeads": {"type": "integer"},
                "numberOfEmails": {"type": "integer"},
                "callDispositionCounts": {"type": "object", "additionalProperties": {"type": "integer"}},
                "typeCounts": {"type": "object", "additionalProperties": {"type": "integer"}},
                "updatedAt": {"type": "string"}
            }
        },
        "models.Booking": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "telemarketerId": {"type": "string"},
                "telemarketerName": {"type": "string"},
                "leadName": {"type": "string"},
                "callDisposition": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "models.BookedUnits": {
            "type": "object",
            "properties": {
                "telemarketerId": {"type": "string"},
                "telemarketerName": {"type": "string"},
                "bookedUnits": {"type": "integer"}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "services": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "jobs.DigestResult": {
            "type": "object",
            "properties": {
                "file": {"type": "string"},
                "recipients": {"type": "integer"},
                "delivered": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:4000",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "LeadCRM API",
	Description:      "Lead capture, assignment and call tracking for telemarketing teams.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
