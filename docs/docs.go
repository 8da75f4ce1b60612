// Package docs holds the OpenAPI document served at /openapi.json.
//
// It is maintained by hand in swag's layout. When handler annotations change,
// update it here or regenerate with `swag init` from the module root.
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
        "/api/analyze-incident": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "analysis"
                ],
                "summary": "Analysis API health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.HealthResponse"
                        }
                    }
                }
            },
            "post": {
                "description": "Extracts entities, categorizes the report and asks the AI service for a summary. Upstream failures return 503 with locally computed fallback data.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "analysis"
                ],
                "summary": "Analyze an incident report",
                "parameters": [
                    {
                        "description": "Incident report",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.AnalyzeIncidentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.AnalyzeSuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.AnalyzeErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/model.AnalyzeErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/model.AnalyzeErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/reports/export": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Export filtered reports as a JSON file",
                "parameters": [
                    {
                        "description": "Reports and filter",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.ReportsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.ReportExport"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/reports/metrics": {
            "post": {
                "description": "Stateless: the caller sends its locally stored reports and an optional filter.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Aggregate report metrics",
                "parameters": [
                    {
                        "description": "Reports and filter",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.ReportsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.ReportMetrics"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/ping": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.PingResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "model.AnalysisResult": {
            "type": "object",
            "properties": {
                "category": {
                    "type": "string"
                },
                "categorization": {
                    "$ref": "#/definitions/model.Categorization"
                },
                "entities": {
                    "$ref": "#/definitions/model.ExtractedEntities"
                },
                "riskLevel": {
                    "type": "string"
                },
                "severity": {
                    "type": "string"
                },
                "suggestedActions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "summary": {
                    "type": "string"
                },
                "tags": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "urgency": {
                    "type": "string"
                }
            }
        },
        "model.AnalyzeErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "errorType": {
                    "type": "string"
                },
                "fallback": {
                    "$ref": "#/definitions/model.AnalysisResult"
                },
                "missingFields": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "success": {
                    "type": "boolean"
                }
            }
        },
        "model.AnalyzeIncidentRequest": {
            "type": "object",
            "properties": {
                "category": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "incidentDate": {
                    "type": "string"
                },
                "incidentTime": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "priority": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                }
            }
        },
        "model.AnalyzeSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "$ref": "#/definitions/model.AnalysisResult"
                },
                "success": {
                    "type": "boolean"
                }
            }
        },
        "model.CategoryCount": {
            "type": "object",
            "properties": {
                "category": {
                    "type": "string"
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "model.Categorization": {
            "type": "object",
            "properties": {
                "categoryConfidence": {
                    "type": "string"
                },
                "primaryCategory": {
                    "type": "string"
                },
                "relatedCategories": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "subCategory": {
                    "type": "string"
                }
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                }
            }
        },
        "model.ExtractedEntities": {
            "type": "object",
            "properties": {
                "locations": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "organizations": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "other": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "people": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "times": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "model.HealthResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "model.LocationCount": {
            "type": "object",
            "properties": {
                "count": {
                    "type": "integer"
                },
                "location": {
                    "type": "string"
                }
            }
        },
        "model.MonthCount": {
            "type": "object",
            "properties": {
                "count": {
                    "type": "integer"
                },
                "month": {
                    "type": "string"
                }
            }
        },
        "model.PingResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                }
            }
        },
        "model.Report": {
            "type": "object",
            "properties": {
                "analysis": {
                    "$ref": "#/definitions/model.AnalysisResult"
                },
                "category": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "incidentDate": {
                    "type": "string"
                },
                "incidentTime": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "priority": {
                    "type": "string"
                },
                "reporterEmail": {
                    "type": "string"
                },
                "reporterName": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                }
            }
        },
        "model.ReportExport": {
            "type": "object",
            "properties": {
                "exportDate": {
                    "type": "string"
                },
                "reports": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.Report"
                    }
                },
                "totalReports": {
                    "type": "integer"
                }
            }
        },
        "model.ReportFilter": {
            "type": "object",
            "properties": {
                "category": {
                    "type": "string"
                },
                "dateFrom": {
                    "type": "string"
                },
                "dateTo": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "severity": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                }
            }
        },
        "model.ReportMetrics": {
            "type": "object",
            "properties": {
                "averagePerDay": {
                    "type": "number"
                },
                "filteredCount": {
                    "type": "integer"
                },
                "mostCommonCategories": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.CategoryCount"
                    }
                },
                "mostCommonLocations": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.LocationCount"
                    }
                },
                "priorityDistribution": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "recentReportsCount": {
                    "type": "integer"
                },
                "statusDistribution": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "totalIncidents": {
                    "type": "integer"
                },
                "trends": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.MonthCount"
                    }
                }
            }
        },
        "model.ReportsRequest": {
            "type": "object",
            "properties": {
                "filter": {
                    "$ref": "#/definitions/model.ReportFilter"
                },
                "reports": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.Report"
                    }
                }
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
	Title:            "Community Incident Analysis API",
	Description:      "Analyzes community incident reports with heuristic extraction and an AI service, with local fallback data.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
