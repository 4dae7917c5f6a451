package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Makeup Request API",
        "description": "Exam makeup request submission and review",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "CronToken": {"type": "apiKey", "name": "X-Cron-Token", "in": "header"}
    },
    "security": [{"Bearer": []}],
    "tags": [
        {"name": "Requests", "description": "Makeup request intake and review"},
        {"name": "Extensions", "description": "Temporary submission window extensions"},
        {"name": "Account", "description": "Caller account and mailing list preferences"},
        {"name": "Courses", "description": "Course code listings"}
    ],
    "paths": {
        "/account": {
            "get": {
                "tags": ["Account"],
                "summary": "Resolve the caller's account type",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/account/mailing-list": {
            "get": {
                "tags": ["Account"],
                "summary": "Mailing list opt-out status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/account/mailing-list/opt-out": {
            "post": {
                "tags": ["Account"],
                "summary": "Stop receiving status emails",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/account/mailing-list/opt-in": {
            "post": {
                "tags": ["Account"],
                "summary": "Resume receiving status emails",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/courses/codes": {
            "get": {
                "tags": ["Courses"],
                "summary": "List course codes, optionally only those open for application",
                "parameters": [
                    {"name": "examType", "in": "query", "type": "string", "enum": ["compre", "midsem"]},
                    {"name": "open", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/requests": {
            "get": {
                "tags": ["Requests"],
                "summary": "List requests visible to the caller",
                "parameters": [
                    {"name": "status", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "courseCode", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Requests"],
                "summary": "Submit a makeup request",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "name", "in": "formData", "type": "string"},
                    {"name": "idNumber", "in": "formData", "type": "string", "required": true},
                    {"name": "courseCode", "in": "formData", "type": "string", "required": true},
                    {"name": "evalComponent", "in": "formData", "type": "string", "required": true},
                    {"name": "reason", "in": "formData", "type": "string", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing field or unknown course", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Deadline passed or exam date missing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/export": {
            "get": {
                "tags": ["Requests"],
                "summary": "Export visible requests",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/requests/{id}/attachments": {
            "get": {
                "tags": ["Requests"],
                "summary": "Retrieve a request's attachments",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/requests/{id}/faculty-decision": {
            "post": {
                "tags": ["Requests"],
                "summary": "Faculty decision on a request",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the course's faculty"},
                    "409": {"description": "Already finalized"}
                }
            }
        },
        "/requests/{id}/admin-decision": {
            "post": {
                "tags": ["Requests"],
                "summary": "Timetable division decision on a comprehensive exam request",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/extensions": {
            "get": {
                "tags": ["Extensions"],
                "summary": "List active extensions",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Extensions"],
                "summary": "Grant a ten minute extension",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExtensionRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/extensions/close": {
            "post": {
                "tags": ["Extensions"],
                "summary": "Close an extension early",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExtensionRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/extensions/status": {
            "get": {
                "tags": ["Extensions"],
                "summary": "Extension status for a course and exam type",
                "parameters": [
                    {"name": "courseCode", "in": "query", "type": "string", "required": true},
                    {"name": "examType", "in": "query", "type": "string", "required": true, "enum": ["compre", "midsem"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/extensions/cleanup": {
            "post": {
                "tags": ["Extensions"],
                "summary": "Deactivate expired extensions",
                "security": [{"Bearer": []}, {"CronToken": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "DecisionRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["Accepted", "Denied"]},
                "remarks": {"type": "string"}
            },
            "required": ["status"]
        },
        "ExtensionRequest": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "examType": {"type": "string", "enum": ["compre", "midsem"]}
            },
            "required": ["courseCode", "examType"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
