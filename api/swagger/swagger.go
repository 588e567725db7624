package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Scheduler API",
        "description": "Hybrid CSP/GA section timetable generator",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    }
                }
            }
        },
        "/api/v1/sections/{id}/generate": {
            "post": {
                "summary": "Generate a section's timetable",
                "description": "Runs the hybrid CSP/GA scheduler for the section and streams newline-delimited progress events",
                "tags": ["Scheduler"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer", "description": "Section ID"}
                ],
                "responses": {
                    "200": {
                        "description": "application/x-ndjson stream of Progress events"
                    }
                }
            }
        },
        "/api/v1/sections/{id}/schedule": {
            "get": {
                "summary": "Get a section's committed schedule",
                "tags": ["Scheduler"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer", "description": "Section ID"}
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sections/{id}/generations": {
            "get": {
                "summary": "List a section's generation history",
                "tags": ["Scheduler"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer", "description": "Section ID"}
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/faculty/{id}/schedule": {
            "get": {
                "summary": "Get a faculty member's committed schedule across all sections",
                "tags": ["Scheduler"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer", "description": "Faculty ID"}
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sections/batch-generate": {
            "post": {
                "summary": "Queue a multi-section schedule generation run",
                "tags": ["Scheduler"],
                "responses": {
                    "202": {
                        "description": "Accepted"
                    }
                }
            }
        },
        "/api/v1/sections/batch-generate/{id}": {
            "get": {
                "summary": "Get a batch generation run's progress and results",
                "tags": ["Scheduler"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Batch job ID"}
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
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
