package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Study Planner API",
        "description": "Study schedule availability and allocation engine",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Availability", "description": "Per-day study availability for a period"},
        {"name": "Plans", "description": "Slot allocation and overlap handling"},
        {"name": "Metrics", "description": "Operational endpoints"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Planner and runtime counters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/availability/calculate": {
            "post": {
                "tags": ["Availability"],
                "summary": "Calculate study availability for a period",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CalculateAvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/availability/export": {
            "post": {
                "tags": ["Availability"],
                "summary": "Export study availability as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CalculateAvailabilityRequest"}}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        },
        "/api/v1/students/{id}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Calculate availability from a student's stored configuration",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "end", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/students/{id}/availability/export": {
            "get": {
                "tags": ["Availability"],
                "summary": "Export a student's availability as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "end", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        },
        "/api/v1/students/{id}/availability/cache": {
            "delete": {
                "tags": ["Availability"],
                "summary": "Drop cached availability of a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/v1/plans/allocate": {
            "post": {
                "tags": ["Plans"],
                "summary": "Place study items into slots best-fit",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AllocateRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/plans/overlaps/validate": {
            "post": {
                "tags": ["Plans"],
                "summary": "Detect overlapping plan items",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OverlapRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/plans/overlaps/adjust": {
            "post": {
                "tags": ["Plans"],
                "summary": "Shift new plan items past existing ones",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OverlapRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "TimeWindow": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "example": "09:00"},
                "end": {"type": "string", "example": "12:00"}
            }
        },
        "WeeklyBlock": {
            "type": "object",
            "properties": {
                "dayOfWeek": {"type": "integer", "minimum": 0, "maximum": 6},
                "start": {"type": "string"},
                "end": {"type": "string"}
            }
        },
        "Exclusion": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "kind": {"type": "string", "enum": ["VACATION", "PERSONAL_DAY", "DESIGNATED_HOLIDAY", "OTHER"]},
                "reason": {"type": "string"}
            }
        },
        "Academy": {
            "type": "object",
            "properties": {
                "dayOfWeek": {"type": "integer", "minimum": 0, "maximum": 6},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "name": {"type": "string"},
                "subject": {"type": "string"},
                "travelMinutes": {"type": "integer"}
            }
        },
        "CalculateAvailabilityRequest": {
            "type": "object",
            "properties": {
                "periodStart": {"type": "string", "format": "date"},
                "periodEnd": {"type": "string", "format": "date"},
                "schedulerMode": {"type": "string", "enum": ["CYCLIC", "EXCLUSIONS_ONLY"]},
                "studyDays": {"type": "integer"},
                "reviewDays": {"type": "integer"},
                "weeklyBlocks": {"type": "array", "items": {"$ref": "#/definitions/WeeklyBlock"}},
                "exclusions": {"type": "array", "items": {"$ref": "#/definitions/Exclusion"}},
                "academies": {"type": "array", "items": {"$ref": "#/definitions/Academy"}},
                "options": {
                    "type": "object",
                    "properties": {
                        "campStudyHours": {"$ref": "#/definitions/TimeWindow"},
                        "campSelfStudyHours": {"$ref": "#/definitions/TimeWindow"},
                        "lunchTime": {"$ref": "#/definitions/TimeWindow"},
                        "disableLunch": {"type": "boolean"},
                        "disableSelfStudy": {"type": "boolean"},
                        "designatedHolidayHours": {"$ref": "#/definitions/TimeWindow"},
                        "selfStudyOnHolidays": {"type": "boolean"},
                        "selfStudyWithBlocks": {"type": "boolean"},
                        "crossCheckToleranceMinutes": {"type": "integer"}
                    }
                }
            }
        },
        "AllocateRequest": {
            "type": "object",
            "properties": {
                "slots": {
                    "type": "array",
                    "items": {"type": "object", "properties": {"index": {"type": "integer"}, "capacityMinutes": {"type": "integer"}}}
                },
                "items": {
                    "type": "array",
                    "items": {"type": "object", "properties": {"id": {"type": "string"}, "durationMinutes": {"type": "integer"}}}
                }
            }
        },
        "PlanEntry": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "ref": {"type": "string"}
            }
        },
        "OverlapRequest": {
            "type": "object",
            "properties": {
                "newItems": {"type": "array", "items": {"$ref": "#/definitions/PlanEntry"}},
                "existing": {"type": "array", "items": {"$ref": "#/definitions/PlanEntry"}},
                "maxEndTime": {"type": "string", "example": "23:59"},
                "sortCandidates": {"type": "boolean"}
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
