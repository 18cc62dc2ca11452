package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SIS Schedule Console API",
        "description": "Reconciles SIS schedules with HRMS teacher assignments",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Merged SIS/HRMS schedule list"},
        {"name": "Drafts", "description": "Teacher assignment modals"},
        {"name": "Sync", "description": "Bulk SIS to HRMS sync actions"},
        {"name": "Audit", "description": "Recorded console mutations"}
    ],
    "parameters": {
        "Session": {"name": "X-Console-Session", "in": "header", "type": "string", "description": "Console session id"}
    },
    "paths": {
        "/console/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedules with derived row actions",
                "parameters": [
                    {"$ref": "#/parameters/Session"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["synced", "hrms-only", "sis-only", "unassigned"]},
                    {"name": "action", "in": "query", "type": "string", "enum": ["assign", "edit", "assign-substitute", "restore-original"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/schedules/refresh": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Fetch schedules and faculty from HRMS",
                "parameters": [{"$ref": "#/parameters/Session"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Load already running", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/schedules/export": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Export the filtered schedule list",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"$ref": "#/parameters/Session"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "action", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/faculty": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List faculty with tallied teaching load",
                "parameters": [{"$ref": "#/parameters/Session"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "List recorded console mutations",
                "parameters": [
                    {"name": "action", "in": "query", "type": "string", "enum": ["SCHEDULE_ASSIGN", "SCHEDULE_EDIT", "SCHEDULE_SUBSTITUTE", "SCHEDULE_RESTORE", "DRAFT_SUBMIT", "SYNC_SUBJECTS_SECTIONS", "SYNC_EXISTING_ASSIGNMENTS"]},
                    {"name": "session", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/sync/subjects-sections": {
            "post": {
                "tags": ["Sync"],
                "summary": "Import subjects and sections from SIS",
                "parameters": [
                    {"$ref": "#/parameters/Session"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/SyncSubjectsSectionsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Sync already running", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "HRMS unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/sync/existing-assignments": {
            "post": {
                "tags": ["Sync"],
                "summary": "Replay existing SIS assignments into HRMS",
                "parameters": [{"$ref": "#/parameters/Session"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Sync already running", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/drafts": {
            "post": {
                "tags": ["Drafts"],
                "summary": "Open the action modal for a row",
                "parameters": [
                    {"$ref": "#/parameters/Session"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenDraftRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Row not in the last fetch", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Row action disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/drafts/{id}": {
            "get": {
                "tags": ["Drafts"],
                "summary": "Get a draft and its submit gate",
                "parameters": [
                    {"$ref": "#/parameters/Session"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Drafts"],
                "summary": "Close a draft",
                "parameters": [
                    {"$ref": "#/parameters/Session"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/console/drafts/{id}/faculty": {
            "put": {
                "tags": ["Drafts"],
                "summary": "Select a faculty and check conflicts",
                "parameters": [
                    {"$ref": "#/parameters/Session"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectFacultyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Conflict check failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/drafts/{id}/available-teachers": {
            "get": {
                "tags": ["Drafts"],
                "summary": "List substitutes free in the row's slot",
                "parameters": [
                    {"$ref": "#/parameters/Session"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/console/drafts/{id}/submit": {
            "post": {
                "tags": ["Drafts"],
                "summary": "Submit the draft to HRMS",
                "parameters": [
                    {"$ref": "#/parameters/Session"},
                    {"name": "X-Actor", "in": "header", "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Submit blocked or busy", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "OpenDraftRequest": {
            "type": "object",
            "required": ["sisId"],
            "properties": {
                "sisId": {"type": "string"},
                "action": {"type": "string", "enum": ["assign", "edit", "assign-substitute", "restore-original"]}
            }
        },
        "SelectFacultyRequest": {
            "type": "object",
            "required": ["facultyId"],
            "properties": {
                "facultyId": {"type": "integer"}
            }
        },
        "SyncSubjectsSectionsRequest": {
            "type": "object",
            "properties": {
                "clearExisting": {"type": "boolean"}
            }
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
                "status": {"type": "integer"}
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
