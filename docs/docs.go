// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "email": "support@vendorhr.id"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/account/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.LoginResult"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.Error"}}
                }
            }
        },
        "/account/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Refresh Token",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.LoginResult"}}
                }
            }
        },
        "/account/verify": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Verify admin token",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/accountuser/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Company user login",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.UserLoginResult"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.Error"}}
                }
            }
        },
        "/accountuser/verify": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Verify company user token",
                "parameters": [{"type": "string", "name": "path", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/{tenant}/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Employees"],
                "summary": "List employees",
                "description": "Active employees of a vendor company, ordered by contract urgency",
                "parameters": [
                    {"type": "string", "name": "tenant", "in": "path", "required": true},
                    {"type": "string", "name": "bucket", "in": "query", "enum": ["expired", "due", "call2", "call1", "future", "unknown"]},
                    {"type": "string", "name": "search_term", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown tenant"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Employees"],
                "summary": "Create employee",
                "parameters": [
                    {"type": "string", "name": "tenant", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/services.EmployeeInput"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/{tenant}/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Employees"],
                "summary": "Get employee",
                "parameters": [
                    {"type": "string", "name": "tenant", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Employees"],
                "summary": "Update employee",
                "parameters": [
                    {"type": "string", "name": "tenant", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/services.EmployeeInput"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Employees"],
                "summary": "Delete employee",
                "parameters": [
                    {"type": "string", "name": "tenant", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/{tenant}/users/{id}/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Employees"],
                "summary": "Employee history",
                "parameters": [
                    {"type": "string", "name": "tenant", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "domain", "in": "query", "enum": ["contract", "hse"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/{tenant}/users/{id}/hse": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["HSE"],
                "summary": "Get HSE data",
                "parameters": [
                    {"type": "string", "name": "tenant", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["HSE"],
                "summary": "Update HSE data",
                "parameters": [
                    {"type": "string", "name": "tenant", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/services.HSEInput"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/{tenant}/contracts/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Employees"],
                "summary": "Contract summary",
                "parameters": [{"type": "string", "name": "tenant", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/contractstatus.Summary"}}}
            }
        },
        "/{tenant}/hse/expiring": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["HSE"],
                "summary": "Expiring HSE certificates",
                "parameters": [{"type": "string", "name": "tenant", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/{tenant}/upload-bulk": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Import"],
                "summary": "Bulk import employees",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "tenant", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/{tenant}/users/{id}/files": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Attachments"],
                "summary": "Upload employee document",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "tenant", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "name": "category", "in": "formData", "enum": ["documents", "certificates"]}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/{tenant}/users/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Reports"],
                "summary": "Export employees",
                "parameters": [
                    {"type": "string", "name": "tenant", "in": "path", "required": true},
                    {"type": "string", "name": "format", "in": "query", "enum": ["xlsx", "csv", "pdf"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/jobs/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Jobs"],
                "summary": "Get background job status",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/audits": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Audit"],
                "summary": "List audit logs",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/files/{category}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Attachments"],
                "summary": "List stored files of a category",
                "parameters": [{"type": "string", "name": "category", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.Error"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.Error": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "field": {"type": "string"}}
        },
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "handlers.RefreshRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {"refresh_token": {"type": "string"}}
        },
        "services.LoginResult": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "expires_at": {"type": "string"},
                "account": {"type": "object"}
            }
        },
        "services.UserLoginResult": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"},
                "access_pages": {"type": "array", "items": {"type": "string"}},
                "user": {"type": "object"}
            }
        },
        "services.EmployeeInput": {
            "type": "object",
            "properties": {
                "nama_karyawan": {"type": "string"},
                "nomor_induk": {"type": "string"},
                "jabatan": {"type": "string"},
                "lokasi_kerja": {"type": "string"},
                "kontrak_awal": {"type": "string", "example": "01/01/2025"},
                "kontrak_akhir": {"type": "string", "example": "2025-12-31"},
                "catatan": {"type": "string"},
                "alasan": {"type": "string"}
            }
        },
        "services.HSEInput": {
            "type": "object",
            "properties": {
                "mcu_tanggal": {"type": "string"},
                "mcu_hasil": {"type": "string"},
                "mcu_berlaku": {"type": "string"},
                "passport_nomor": {"type": "string"},
                "passport_berlaku": {"type": "string"},
                "sim_nomor": {"type": "string"},
                "sim_jenis": {"type": "string"},
                "sim_berlaku": {"type": "string"},
                "alasan": {"type": "string"}
            }
        },
        "contractstatus.Summary": {
            "type": "object",
            "properties": {
                "expired": {"type": "integer"},
                "due": {"type": "integer"},
                "call2": {"type": "integer"},
                "call1": {"type": "integer"},
                "future": {"type": "integer"},
                "unknown": {"type": "integer"},
                "total": {"type": "integer"}
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
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "VendorHR API",
	Description:      "Contract, HSE and document records of vendor-company employees",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
