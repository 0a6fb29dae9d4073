// Package swagger registers the OpenAPI document served at /swagger.
// The document is built from the handler annotations: swag init -g cmd/api/main.go -o api/swagger
package swagger

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
        "/api/attendance": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "attendance"
                ],
                "summary": "List attendance",
                "parameters": [
                    {
                        "description": "YYYY-MM-DD",
                        "name": "date",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Employee object id or employee code",
                        "name": "employeeId",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/attendance/all": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "attendance"
                ],
                "summary": "All attendance rows flattened with their date",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/service.FlatAttendanceRecord"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/attendance/auto": {
            "post": {
                "description": "First call records IN, second records OUT, later calls report COMPLETED without changes",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "attendance"
                ],
                "summary": "Auto attendance",
                "parameters": [
                    {
                        "description": "Employee",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.MarkAttendanceRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.AutoAttendanceResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/attendance/bulk-delete": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "attendance"
                ],
                "summary": "Bulk delete attendance",
                "parameters": [
                    {
                        "description": "Records to delete",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.BulkDeleteRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.BulkDeleteResult"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/attendance/mark": {
            "post": {
                "description": "Explicit IN marking. A second call on the same day is rejected with 409.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "attendance"
                ],
                "summary": "Mark attendance",
                "parameters": [
                    {
                        "description": "Employee",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.MarkAttendanceRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.MarkAttendanceResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/attendance/stats": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "attendance"
                ],
                "summary": "Attendance statistics",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.AttendanceStats"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/attendance/today": {
            "get": {
                "description": "Returns an empty day when nothing has been recorded yet",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "attendance"
                ],
                "summary": "Today's attendance",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.AttendanceDayResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/attendance/{date}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "attendance"
                ],
                "summary": "Attendance of one date",
                "parameters": [
                    {
                        "description": "YYYY-MM-DD",
                        "name": "date",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.AttendanceDayResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "inTime/outTime set to null clear the timestamp; working hours and counters are recomputed",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "attendance"
                ],
                "summary": "Correct attendance",
                "parameters": [
                    {
                        "description": "YYYY-MM-DD",
                        "name": "date",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Correction",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.UpdateAttendanceRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/model.EmployeeAttendance"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/attendance/{date}/{employeeObjectId}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "The day itself is removed with its last entry",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "attendance"
                ],
                "summary": "Delete attendance entry",
                "parameters": [
                    {
                        "description": "YYYY-MM-DD",
                        "name": "date",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Employee object id",
                        "name": "employeeObjectId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.DeleteAttendanceResult"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/audit-logs": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Lists who changed categories, billings, attendance, taxes and purchase orders",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "audit"
                ],
                "summary": "Get audit logs",
                "parameters": [
                    {
                        "description": "Filter by action, e.g. CREATE_BILLING",
                        "name": "action",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Filter by entity id",
                        "name": "entityId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Page number (default 1)",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Number of items per page (default 20)",
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/service.AuditLogResponse"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.LoginUserRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.TokenResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/billing": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "billing"
                ],
                "summary": "List billings",
                "parameters": [
                    {
                        "description": "Filter by company",
                        "name": "companyId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Filter by financial year",
                        "name": "financialYear",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Page number (default 1)",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Items per page (default 20)",
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/service.BillingResponse"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "description": "Allocates the next document number of the named BILLING category in the same transaction as the insert",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "billing"
                ],
                "summary": "Create billing",
                "parameters": [
                    {
                        "description": "Billing payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.CreateBillingRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.CreateBillingResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/billing/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "billing"
                ],
                "summary": "Get billing",
                "parameters": [
                    {
                        "description": "Billing ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.BillingResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "billing"
                ],
                "summary": "Update billing",
                "parameters": [
                    {
                        "description": "Billing ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Fields to change",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.UpdateBillingRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.BillingResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/billingcategory": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "List categories",
                "parameters": [
                    {
                        "description": "Filter by company",
                        "name": "companyId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Filter by financial year",
                        "name": "financialYear",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/service.CategoryResponse"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Reserves [rangeStart, rangeEnd] for documents of this kind.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Create category",
                "parameters": [
                    {
                        "description": "Category payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.CreateCategoryRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.CategoryResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/billingcategory/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Get category",
                "parameters": [
                    {
                        "description": "Category ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.CategoryResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "rangeStart is frozen and rangeEnd cannot drop below the last issued number once numbers were issued",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Update category",
                "parameters": [
                    {
                        "description": "Category ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Fields to change",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.UpdateCategoryRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.CategoryResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/employees": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "employees"
                ],
                "summary": "List employees",
                "parameters": [
                    {
                        "description": "Search by name or employee code",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Page number (default 1)",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Items per page (default 20)",
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/service.EmployeeResponse"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "employees"
                ],
                "summary": "Create employee",
                "parameters": [
                    {
                        "description": "Employee payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.CreateEmployeeRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.EmployeeResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/employees/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "employees"
                ],
                "summary": "Get employee",
                "parameters": [
                    {
                        "description": "Employee object id",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.EmployeeResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "employees"
                ],
                "summary": "Update employee profile",
                "parameters": [
                    {
                        "description": "Employee object id",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Fields to change",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.UpdateEmployeeRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.EmployeeResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/invoicecategory": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "List categories",
                "parameters": [
                    {
                        "description": "Filter by company",
                        "name": "companyId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Filter by financial year",
                        "name": "financialYear",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/service.CategoryResponse"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Reserves [rangeStart, rangeEnd] for documents of this kind.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Create category",
                "parameters": [
                    {
                        "description": "Category payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.CreateCategoryRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.CategoryResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/invoicecategory/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Get category",
                "parameters": [
                    {
                        "description": "Category ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.CategoryResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "rangeStart is frozen and rangeEnd cannot drop below the last issued number once numbers were issued",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Update category",
                "parameters": [
                    {
                        "description": "Category ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Fields to change",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.UpdateCategoryRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.CategoryResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/pocategory": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "List categories",
                "parameters": [
                    {
                        "description": "Filter by company",
                        "name": "companyId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Filter by financial year",
                        "name": "financialYear",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/service.CategoryResponse"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Reserves [rangeStart, rangeEnd] for documents of this kind.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Create category",
                "parameters": [
                    {
                        "description": "Category payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.CreateCategoryRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.CategoryResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/pocategory/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Get category",
                "parameters": [
                    {
                        "description": "Category ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.CategoryResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "rangeStart is frozen and rangeEnd cannot drop below the last issued number once numbers were issued",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Update category",
                "parameters": [
                    {
                        "description": "Category ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Fields to change",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.UpdateCategoryRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.CategoryResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/purchase-orders": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "List purchase orders",
                "parameters": [
                    {
                        "description": "Filter by company",
                        "name": "companyId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Filter by financial year",
                        "name": "financialYear",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "draft, pending, approved or rejected",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Page number (default 1)",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Items per page (default 20)",
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/model.PurchaseOrder"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "description": "When category is given the PO number is allocated from that PURCHASE_ORDER category",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Create purchase order",
                "parameters": [
                    {
                        "description": "Purchase order payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.PurchaseOrderRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/model.PurchaseOrder"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/purchase-orders/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Get purchase order",
                "parameters": [
                    {
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/model.PurchaseOrder"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Update purchase order",
                "parameters": [
                    {
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Purchase order payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.PurchaseOrderRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/model.PurchaseOrder"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/purchase-orders/{id}/status": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Change purchase order status",
                "parameters": [
                    {
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "New status",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.ChangePOStatusRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/model.PurchaseOrder"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/taxes": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "taxes"
                ],
                "summary": "List taxes",
                "parameters": [
                    {
                        "description": "Filter by company",
                        "name": "companyId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Filter by financial year",
                        "name": "financialYear",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/service.TaxResponse"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "taxes"
                ],
                "summary": "Create tax",
                "parameters": [
                    {
                        "description": "Tax payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.TaxRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.TaxResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/taxes/{id}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "taxes"
                ],
                "summary": "Delete tax",
                "parameters": [
                    {
                        "description": "Tax ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "taxes"
                ],
                "summary": "Get tax",
                "parameters": [
                    {
                        "description": "Tax ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.TaxResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "taxes"
                ],
                "summary": "Update tax",
                "parameters": [
                    {
                        "description": "Tax ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Tax payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.TaxRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.TaxResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/vendor-price-lists": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "vendor-price-lists"
                ],
                "summary": "List vendor price lists",
                "parameters": [
                    {
                        "description": "Filter by company",
                        "name": "companyId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Filter by vendor",
                        "name": "vendorId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Filter by financial year",
                        "name": "financialYear",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Page number (default 1)",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Items per page (default 20)",
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/service.VendorPriceListResponse"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "vendor-price-lists"
                ],
                "summary": "Create vendor price list",
                "parameters": [
                    {
                        "description": "Price list payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.VendorPriceListRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.VendorPriceListResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/api/vendor-price-lists/{id}": {
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "vendor-price-lists"
                ],
                "summary": "Delete vendor price list",
                "parameters": [
                    {
                        "description": "Price list ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "vendor-price-lists"
                ],
                "summary": "Get vendor price list",
                "parameters": [
                    {
                        "description": "Price list ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.VendorPriceListResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "vendor-price-lists"
                ],
                "summary": "Update vendor price list",
                "parameters": [
                    {
                        "description": "Price list ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Price list payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.VendorPriceListRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.VendorPriceListResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "model.EmployeeAttendance": {
            "type": "object",
            "properties": {
                "employeeId": {
                    "type": "string"
                },
                "employeeObjectId": {
                    "type": "string"
                },
                "firstName": {
                    "type": "string"
                },
                "inTime": {
                    "type": "string"
                },
                "lastName": {
                    "type": "string"
                },
                "outTime": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "workingHours": {
                    "type": "number"
                }
            }
        },
        "model.PurchaseOrder": {
            "type": "object",
            "properties": {
                "approvalComments": {
                    "type": "string"
                },
                "approvalDate": {
                    "type": "string"
                },
                "approvedby": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "categoryId": {
                    "type": "string"
                },
                "cgst": {
                    "type": "number"
                },
                "companyId": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "deliveryAddress": {
                    "type": "string"
                },
                "deliveryLocation": {
                    "type": "string"
                },
                "finalTotal": {
                    "type": "number"
                },
                "financialYear": {
                    "type": "string"
                },
                "generalConditions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "id": {
                    "type": "string"
                },
                "igst": {
                    "type": "number"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.PurchaseOrderItem"
                    }
                },
                "notes": {
                    "type": "string"
                },
                "poNumber": {
                    "type": "string"
                },
                "preparedby": {
                    "type": "string"
                },
                "processes": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "quotationId": {
                    "type": "string"
                },
                "quotationNumber": {
                    "type": "string"
                },
                "remarks": {
                    "type": "string"
                },
                "sgst": {
                    "type": "number"
                },
                "status": {
                    "type": "string"
                },
                "taxDiscount": {
                    "type": "number"
                },
                "taxName": {
                    "type": "string"
                },
                "total": {
                    "type": "number"
                },
                "updatedAt": {
                    "type": "string"
                },
                "vendor": {
                    "type": "string"
                }
            }
        },
        "model.PurchaseOrderItem": {
            "type": "object",
            "properties": {
                "baseUnit": {
                    "type": "string"
                },
                "buyerGroup": {
                    "type": "string"
                },
                "cgst": {
                    "type": "number"
                },
                "cgstAmount": {
                    "type": "number"
                },
                "deliveryDate": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "discount": {
                    "type": "number"
                },
                "id": {
                    "type": "string"
                },
                "igst": {
                    "type": "number"
                },
                "igstAmount": {
                    "type": "number"
                },
                "itemSubtotal": {
                    "type": "number"
                },
                "itemTotalWithTax": {
                    "type": "number"
                },
                "materialId": {
                    "type": "string"
                },
                "materialgroup": {
                    "type": "string"
                },
                "orderUnit": {
                    "type": "string"
                },
                "price": {
                    "type": "number"
                },
                "priceUnit": {
                    "type": "string"
                },
                "quantity": {
                    "type": "number"
                },
                "sgst": {
                    "type": "number"
                },
                "sgstAmount": {
                    "type": "number"
                },
                "unit": {
                    "type": "string"
                }
            }
        },
        "response.Pagination": {
            "type": "object",
            "properties": {
                "limit": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "pagination": {
                    "$ref": "#/definitions/response.Pagination"
                },
                "status": {
                    "type": "string"
                },
                "status_code": {
                    "type": "integer"
                }
            }
        },
        "service.AttendanceDayResponse": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "dateObject": {
                    "type": "string"
                },
                "employees": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.EmployeeAttendance"
                    }
                },
                "message": {
                    "type": "string"
                },
                "totalEmployeesCompleted": {
                    "type": "integer"
                },
                "totalEmployeesPresent": {
                    "type": "integer"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "service.AttendanceStats": {
            "type": "object",
            "properties": {
                "attendance": {
                    "type": "object",
                    "properties": {
                        "todayCompleted": {
                            "type": "integer"
                        },
                        "todayPresent": {
                            "type": "integer"
                        },
                        "totalDays": {
                            "type": "integer"
                        }
                    }
                },
                "database": {
                    "type": "object",
                    "properties": {
                        "name": {
                            "type": "string"
                        },
                        "status": {
                            "type": "string"
                        }
                    }
                },
                "employees": {
                    "type": "object",
                    "properties": {
                        "invalid": {
                            "type": "integer"
                        },
                        "total": {
                            "type": "integer"
                        },
                        "valid": {
                            "type": "integer"
                        }
                    }
                }
            }
        },
        "service.AuditLogResponse": {
            "type": "object",
            "properties": {
                "action": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "details": {
                    "type": "string"
                },
                "entityId": {
                    "type": "string"
                },
                "entityName": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "userId": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "service.AutoAttendanceResponse": {
            "type": "object",
            "properties": {
                "attendance": {
                    "$ref": "#/definitions/model.EmployeeAttendance"
                },
                "employee": {
                    "$ref": "#/definitions/service.EmployeeSummary"
                },
                "message": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "workingSummary": {
                    "type": "string"
                }
            }
        },
        "service.BillingItemPayload": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "price": {
                    "type": "number"
                },
                "quantity": {
                    "type": "number"
                }
            }
        },
        "service.BillingItemResponse": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "price": {
                    "type": "string"
                },
                "quantity": {
                    "type": "string"
                }
            }
        },
        "service.BillingResponse": {
            "type": "object",
            "properties": {
                "billingDate": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "categoryId": {
                    "type": "string"
                },
                "cgst": {
                    "type": "string"
                },
                "cgstAmt": {
                    "type": "string"
                },
                "companyId": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "customerName": {
                    "type": "string"
                },
                "discount": {
                    "type": "string"
                },
                "docnumber": {
                    "type": "string"
                },
                "finalTotal": {
                    "type": "string"
                },
                "financialYear": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "igst": {
                    "type": "string"
                },
                "igstAmt": {
                    "type": "string"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/service.BillingItemResponse"
                    }
                },
                "netAmount": {
                    "type": "string"
                },
                "remarks": {
                    "type": "string"
                },
                "salesOrderId": {
                    "type": "string"
                },
                "sgst": {
                    "type": "string"
                },
                "sgstAmt": {
                    "type": "string"
                },
                "totalAmount": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "service.BulkDeleteItem": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string"
                },
                "employeeObjectId": {
                    "type": "string"
                }
            }
        },
        "service.BulkDeleteRequest": {
            "type": "object",
            "properties": {
                "recordsToDelete": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/service.BulkDeleteItem"
                    }
                }
            }
        },
        "service.BulkDeleteResult": {
            "type": "object",
            "properties": {
                "deletedRecords": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/service.DeletedAttendanceRecord"
                    }
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "service.CategoryResponse": {
            "type": "object",
            "properties": {
                "categoryName": {
                    "type": "string"
                },
                "companyId": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "exhausted": {
                    "type": "boolean"
                },
                "financialYear": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "issuedCount": {
                    "type": "integer"
                },
                "kind": {
                    "type": "string"
                },
                "nextNumber": {
                    "type": "integer"
                },
                "prefix": {
                    "type": "string"
                },
                "rangeEnd": {
                    "type": "integer"
                },
                "rangeStart": {
                    "type": "integer"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "service.ChangePOStatusRequest": {
            "type": "object",
            "required": [
                "status"
            ],
            "properties": {
                "comments": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                }
            }
        },
        "service.CreateBillingRequest": {
            "type": "object",
            "required": [
                "category"
            ],
            "properties": {
                "billingDate": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "cgst": {
                    "type": "number"
                },
                "companyId": {
                    "type": "string"
                },
                "customerName": {
                    "type": "string"
                },
                "discount": {
                    "type": "number"
                },
                "financialYear": {
                    "type": "string"
                },
                "igst": {
                    "type": "number"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/service.BillingItemPayload"
                    }
                },
                "remarks": {
                    "type": "string"
                },
                "salesOrderId": {
                    "type": "string"
                },
                "sgst": {
                    "type": "number"
                }
            }
        },
        "service.CreateBillingResponse": {
            "type": "object",
            "properties": {
                "billing": {
                    "$ref": "#/definitions/service.BillingResponse"
                },
                "docnumber": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "service.CreateCategoryRequest": {
            "type": "object",
            "required": [
                "categoryName",
                "companyId",
                "rangeEnd",
                "rangeStart"
            ],
            "properties": {
                "categoryName": {
                    "type": "string"
                },
                "companyId": {
                    "type": "string"
                },
                "financialYear": {
                    "type": "string"
                },
                "prefix": {
                    "type": "string"
                },
                "rangeEnd": {
                    "type": "integer"
                },
                "rangeStart": {
                    "type": "integer"
                }
            }
        },
        "service.CreateEmployeeRequest": {
            "type": "object",
            "required": [
                "employeeId",
                "firstName"
            ],
            "properties": {
                "department": {
                    "type": "string"
                },
                "descriptor": {
                    "type": "array",
                    "items": {
                        "type": "number"
                    }
                },
                "email": {
                    "type": "string"
                },
                "employeeId": {
                    "type": "string"
                },
                "firstName": {
                    "type": "string"
                },
                "lastName": {
                    "type": "string"
                }
            }
        },
        "service.DeleteAttendanceResult": {
            "type": "object",
            "properties": {
                "dateRecordRemoved": {
                    "type": "boolean"
                },
                "deletedRecord": {
                    "$ref": "#/definitions/model.EmployeeAttendance"
                }
            }
        },
        "service.DeletedAttendanceRecord": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string"
                },
                "employeeRecord": {
                    "$ref": "#/definitions/model.EmployeeAttendance"
                }
            }
        },
        "service.EmployeeResponse": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "department": {
                    "type": "string"
                },
                "descriptorLength": {
                    "type": "integer"
                },
                "email": {
                    "type": "string"
                },
                "employeeId": {
                    "type": "string"
                },
                "firstName": {
                    "type": "string"
                },
                "fullName": {
                    "type": "string"
                },
                "hasValidDescriptor": {
                    "type": "boolean"
                },
                "inTime": {
                    "type": "string"
                },
                "lastName": {
                    "type": "string"
                },
                "outTime": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                },
                "workingHours": {
                    "type": "number"
                }
            }
        },
        "service.EmployeeSummary": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string"
                },
                "employeeId": {
                    "type": "string"
                },
                "firstName": {
                    "type": "string"
                },
                "fullName": {
                    "type": "string"
                },
                "lastName": {
                    "type": "string"
                }
            }
        },
        "service.FlatAttendanceRecord": {
            "type": "object",
            "properties": {
                "attendanceDocId": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "dateObject": {
                    "type": "string"
                },
                "employeeId": {
                    "type": "string"
                },
                "employeeObjectId": {
                    "type": "string"
                },
                "firstName": {
                    "type": "string"
                },
                "inTime": {
                    "type": "string"
                },
                "lastName": {
                    "type": "string"
                },
                "outTime": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "workingHours": {
                    "type": "number"
                }
            }
        },
        "service.LoginUserRequest": {
            "type": "object",
            "required": [
                "password",
                "username"
            ],
            "properties": {
                "password": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "service.MarkAttendanceRequest": {
            "type": "object",
            "properties": {
                "employeeId": {
                    "type": "string"
                }
            }
        },
        "service.MarkAttendanceResponse": {
            "type": "object",
            "properties": {
                "attendance": {
                    "$ref": "#/definitions/model.EmployeeAttendance"
                },
                "employee": {
                    "$ref": "#/definitions/service.EmployeeSummary"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "service.OptionalTime": {
            "type": "object",
            "properties": {
                "Set": {
                    "type": "boolean"
                },
                "Value": {
                    "type": "string"
                }
            }
        },
        "service.PurchaseOrderItemPayload": {
            "type": "object",
            "properties": {
                "baseUnit": {
                    "type": "string"
                },
                "buyerGroup": {
                    "type": "string"
                },
                "cgst": {
                    "type": "number"
                },
                "deliveryDate": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "discount": {
                    "type": "number"
                },
                "igst": {
                    "type": "number"
                },
                "materialId": {
                    "type": "string"
                },
                "materialgroup": {
                    "type": "string"
                },
                "orderUnit": {
                    "type": "string"
                },
                "price": {
                    "type": "number"
                },
                "priceUnit": {
                    "type": "string"
                },
                "quantity": {
                    "type": "number"
                },
                "sgst": {
                    "type": "number"
                },
                "unit": {
                    "type": "string"
                }
            }
        },
        "service.PurchaseOrderRequest": {
            "type": "object",
            "required": [
                "items",
                "vendor"
            ],
            "properties": {
                "approvedby": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "cgst": {
                    "type": "number"
                },
                "companyId": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "deliveryAddress": {
                    "type": "string"
                },
                "deliveryLocation": {
                    "type": "string"
                },
                "financialYear": {
                    "type": "string"
                },
                "generalConditions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "igst": {
                    "type": "number"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/service.PurchaseOrderItemPayload"
                    }
                },
                "notes": {
                    "type": "string"
                },
                "poNumber": {
                    "type": "string"
                },
                "preparedby": {
                    "type": "string"
                },
                "processes": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "quotationId": {
                    "type": "string"
                },
                "quotationNumber": {
                    "type": "string"
                },
                "remarks": {
                    "type": "string"
                },
                "sgst": {
                    "type": "number"
                },
                "taxDiscount": {
                    "type": "number"
                },
                "taxName": {
                    "type": "string"
                },
                "vendor": {
                    "type": "string"
                }
            }
        },
        "service.TaxRequest": {
            "type": "object",
            "required": [
                "companyId",
                "financialYear",
                "taxCode",
                "taxName"
            ],
            "properties": {
                "cgst": {
                    "type": "string"
                },
                "companyId": {
                    "type": "string"
                },
                "financialYear": {
                    "type": "string"
                },
                "igst": {
                    "type": "string"
                },
                "sgst": {
                    "type": "string"
                },
                "taxCode": {
                    "type": "string"
                },
                "taxName": {
                    "type": "string"
                }
            }
        },
        "service.TaxResponse": {
            "type": "object",
            "properties": {
                "cgst": {
                    "type": "string"
                },
                "companyId": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "financialYear": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "igst": {
                    "type": "string"
                },
                "sgst": {
                    "type": "string"
                },
                "taxCode": {
                    "type": "string"
                },
                "taxName": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "service.TokenResponse": {
            "type": "object",
            "properties": {
                "expiresAt": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "token": {
                    "type": "string"
                }
            }
        },
        "service.UpdateAttendanceRequest": {
            "type": "object",
            "required": [
                "employeeObjectId"
            ],
            "properties": {
                "employeeObjectId": {
                    "type": "string"
                },
                "firstName": {
                    "type": "string"
                },
                "inTime": {
                    "$ref": "#/definitions/service.OptionalTime"
                },
                "lastName": {
                    "type": "string"
                },
                "outTime": {
                    "$ref": "#/definitions/service.OptionalTime"
                },
                "status": {
                    "type": "string"
                }
            }
        },
        "service.UpdateBillingRequest": {
            "type": "object",
            "properties": {
                "billingDate": {
                    "type": "string"
                },
                "cgst": {
                    "type": "number"
                },
                "customerName": {
                    "type": "string"
                },
                "discount": {
                    "type": "number"
                },
                "igst": {
                    "type": "number"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/service.BillingItemPayload"
                    }
                },
                "remarks": {
                    "type": "string"
                },
                "salesOrderId": {
                    "type": "string"
                },
                "sgst": {
                    "type": "number"
                }
            }
        },
        "service.UpdateCategoryRequest": {
            "type": "object",
            "properties": {
                "categoryName": {
                    "type": "string"
                },
                "prefix": {
                    "type": "string"
                },
                "rangeEnd": {
                    "type": "integer"
                },
                "rangeStart": {
                    "type": "integer"
                }
            }
        },
        "service.UpdateEmployeeRequest": {
            "type": "object",
            "properties": {
                "department": {
                    "type": "string"
                },
                "descriptor": {
                    "type": "array",
                    "items": {
                        "type": "number"
                    }
                },
                "email": {
                    "type": "string"
                },
                "employeeId": {
                    "type": "string"
                },
                "firstName": {
                    "type": "string"
                },
                "lastName": {
                    "type": "string"
                }
            }
        },
        "service.VendorPriceListRequest": {
            "type": "object",
            "required": [
                "categoryId",
                "materialId",
                "unit",
                "vendorId"
            ],
            "properties": {
                "bum": {
                    "type": "number"
                },
                "buyer": {
                    "type": "string"
                },
                "categoryId": {
                    "type": "string"
                },
                "companyId": {
                    "type": "string"
                },
                "financialYear": {
                    "type": "string"
                },
                "materialId": {
                    "type": "string"
                },
                "orderUnit": {
                    "type": "number"
                },
                "price": {
                    "type": "number"
                },
                "taxId": {
                    "type": "string"
                },
                "unit": {
                    "type": "string"
                },
                "vendorId": {
                    "type": "string"
                }
            }
        },
        "service.VendorPriceListResponse": {
            "type": "object",
            "properties": {
                "bum": {
                    "type": "number"
                },
                "buyer": {
                    "type": "string"
                },
                "categoryId": {
                    "type": "string"
                },
                "companyId": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "financialYear": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "materialId": {
                    "type": "string"
                },
                "orderUnit": {
                    "type": "number"
                },
                "price": {
                    "type": "string"
                },
                "tax": {
                    "$ref": "#/definitions/service.TaxResponse"
                },
                "taxId": {
                    "type": "string"
                },
                "unit": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                },
                "vendorId": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ERP API",
	Description:      "Billing documents, numbering categories, purchasing and attendance.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
