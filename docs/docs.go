// Package docs registra en swag el documento OpenAPI de la API, mantenido a mano junto a las anotaciones de los handlers.
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
        "/breeds": {
            "get": {
                "produces": ["application/json"],
                "tags": ["breeds"],
                "summary": "Listar razas",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/breeds.Breed"}}},
                    "500": {"description": "error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["breeds"],
                "summary": "Crear raza",
                "parameters": [{"description": "breedId y breedName", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/breeds.Breed"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/records.MessageResponse"}},
                    "400": {"description": "invalid json / All fields are required.", "schema": {"$ref": "#/definitions/records.MessageResponse"}},
                    "409": {"description": "Duplicate breedId not allowed", "schema": {"$ref": "#/definitions/records.MessageResponse"}},
                    "500": {"description": "texto del error de inserción", "schema": {"$ref": "#/definitions/records.MessageResponse"}}
                }
            }
        },
        "/breeds/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["breeds"],
                "summary": "Actualizar raza",
                "parameters": [
                    {"type": "string", "description": "Identificador de almacenamiento", "name": "id", "in": "path", "required": true},
                    {"description": "breedId y breedName", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/breeds.Breed"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.MessageResponse"}},
                    "409": {"description": "Duplicate breedId not allowed", "schema": {"$ref": "#/definitions/records.MessageResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/records.MessageResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["breeds"],
                "summary": "Eliminar raza",
                "parameters": [{"type": "string", "description": "Identificador de almacenamiento", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.MessageResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/records.MessageResponse"}}
                }
            }
        },
        "/medicines": {
            "get": {
                "produces": ["application/json"],
                "tags": ["medicines"],
                "summary": "Listar medicamentos",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/medicines.Medicine"}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["medicines"],
                "summary": "Crear medicamento",
                "parameters": [{"description": "medicineId, medicineName, availability", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/medicines.Medicine"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/records.MessageResponse"}},
                    "400": {"description": "All fields are required. / Medicine ID already exists.", "schema": {"$ref": "#/definitions/records.MessageResponse"}}
                }
            }
        },
        "/medicines/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["medicines"],
                "summary": "Actualizar medicamento",
                "parameters": [
                    {"type": "string", "description": "Identificador de almacenamiento", "name": "id", "in": "path", "required": true},
                    {"description": "medicineId, medicineName, availability", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/medicines.Medicine"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/records.MessageResponse"}}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["medicines"],
                "summary": "Eliminar medicamento",
                "parameters": [{"type": "string", "description": "Identificador de almacenamiento", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/records.MessageResponse"}}}
            }
        },
        "/vendors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["vendors"],
                "summary": "Listar proveedores",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/vendors.Vendor"}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vendors"],
                "summary": "Crear proveedor",
                "parameters": [{"description": "Todos los campos son requeridos", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/vendors.Vendor"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/records.MessageResponse"}},
                    "400": {"description": "All fields are required. / Vendor ID already exists.", "schema": {"$ref": "#/definitions/records.MessageResponse"}}
                }
            }
        },
        "/vendors/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vendors"],
                "summary": "Actualizar proveedor",
                "parameters": [
                    {"type": "string", "description": "Identificador de almacenamiento", "name": "id", "in": "path", "required": true},
                    {"description": "Todos los campos son requeridos", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/vendors.Vendor"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/records.MessageResponse"}}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["vendors"],
                "summary": "Eliminar proveedor",
                "parameters": [{"type": "string", "description": "Identificador de almacenamiento", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/records.MessageResponse"}}}
            }
        },
        "/tags": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tags"],
                "summary": "Listar caravanas",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/tags.Tag"}}}}
            },
            "post": {
                "description": "El alta ignora status y guarda \"available\".",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tags"],
                "summary": "Crear caravana",
                "parameters": [{"description": "tagId, tagColor, dateOfAcquiring (YYYY-MM-DD)", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tags.Tag"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/records.MessageResponse"}},
                    "400": {"description": "All fields are required. / Tag ID already exists.", "schema": {"$ref": "#/definitions/records.MessageResponse"}}
                }
            }
        },
        "/tags/{id}": {
            "put": {
                "description": "status es opcional; si no se envía se conserva el actual.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tags"],
                "summary": "Actualizar caravana",
                "parameters": [
                    {"type": "string", "description": "Identificador de almacenamiento", "name": "id", "in": "path", "required": true},
                    {"description": "tagId, tagColor, dateOfAcquiring, status", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tags.Tag"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/records.MessageResponse"}}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["tags"],
                "summary": "Eliminar caravana",
                "parameters": [{"type": "string", "description": "Identificador de almacenamiento", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/records.MessageResponse"}}}
            }
        },
        "/users/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Registrar usuario",
                "parameters": [{"description": "email, password, role", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.RegisterInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/users.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/users.ValidationError"}}
                }
            }
        },
        "/users/signin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Iniciar sesión",
                "parameters": [{"description": "email, password", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.SignInInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.SignInResponse"}},
                    "400": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/users.CredentialsError"}}
                }
            }
        },
        "/counters/{name}/next": {
            "post": {
                "produces": ["application/json"],
                "tags": ["counters"],
                "summary": "Siguiente valor de una secuencia",
                "parameters": [{"type": "string", "description": "Nombre de la secuencia", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/counters.NextResponse"}}}
            }
        }
    },
    "definitions": {
        "records.MessageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "breeds.Breed": {"type": "object", "properties": {"_id": {"type": "string"}, "breedId": {"type": "string"}, "breedName": {"type": "string"}}},
        "medicines.Medicine": {"type": "object", "properties": {"_id": {"type": "string"}, "medicineId": {"type": "string"}, "medicineName": {"type": "string"}, "availability": {"type": "string", "enum": ["Yes", "No"]}}},
        "vendors.Vendor": {"type": "object", "properties": {"_id": {"type": "string"}, "vendorId": {"type": "string"}, "vendorName": {"type": "string"}, "vendorAddress": {"type": "string"}, "contactName": {"type": "string"}, "contactNumber": {"type": "string"}, "rating": {"type": "string"}}},
        "tags.Tag": {"type": "object", "properties": {"_id": {"type": "string"}, "tagId": {"type": "string"}, "tagColor": {"type": "string"}, "dateOfAcquiring": {"type": "string"}, "status": {"type": "string", "enum": ["available", "Available", "Used"]}}},
        "users.RegisterInput": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "role": {"type": "string", "enum": ["Admin", "Manager", "User"]}}},
        "users.SignInInput": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "users.User": {"type": "object", "properties": {"_id": {"type": "string"}, "email": {"type": "string"}, "role": {"type": "string"}}},
        "users.SignInResponse": {"type": "object", "properties": {"message": {"type": "string"}, "user": {"$ref": "#/definitions/users.User"}}},
        "users.CredentialsError": {"type": "object", "properties": {"msg": {"type": "string"}}},
        "users.FieldError": {"type": "object", "properties": {"type": {"type": "string"}, "value": {}, "msg": {"type": "string"}, "path": {"type": "string"}, "location": {"type": "string"}}},
        "users.ValidationError": {"type": "object", "properties": {"errors": {"type": "array", "items": {"$ref": "#/definitions/users.FieldError"}}}},
        "counters.NextResponse": {"type": "object", "properties": {"name": {"type": "string"}, "sequence_value": {"type": "integer"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Livestock Records API",
	Description:      "Registros de razas, medicamentos, proveedores y caravanas de un rebaño caprino, más alta e inicio de sesión de usuarios.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
