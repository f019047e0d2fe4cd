// Package docs holds the Swagger document served at /swagger. It is kept in
// the layout swag registers and mirrors the handler annotations by hand.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "INVALID_CREDENTIALS"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create a client account",
                "parameters": [
                    {"description": "Account", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "VALIDATION_ERROR"},
                    "409": {"description": "EMAIL_EXISTS"}
                }
            }
        },
        "/auth/register-with-vehicle": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create a client account with its first vehicle",
                "parameters": [
                    {"description": "Account and vehicle", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.RegisterWithVehicleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "VALIDATION_ERROR"},
                    "409": {"description": "EMAIL_EXISTS, PLATE_EXISTS"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current account",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "INVALID_TOKEN"}
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current profile",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update name, phone or city",
                "parameters": [
                    {"description": "Profile fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "VALIDATION_ERROR"}
                }
            }
        },
        "/users/me/password": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Change the account password",
                "parameters": [
                    {"description": "Passwords", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "VALIDATION_ERROR, INVALID_PASSWORD"}
                }
            }
        },
        "/users/seed-admin": {
            "post": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create the admin account once",
                "parameters": [
                    {"type": "string", "description": "Seed key", "name": "key", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Admin already exists"},
                    "201": {"description": "Created"},
                    "403": {"description": "INVALID_SEED_KEY"}
                }
            }
        },
        "/users/seed-shop-user": {
            "post": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create or link the demo shop account",
                "parameters": [
                    {"type": "string", "description": "Seed key", "name": "key", "in": "query", "required": true},
                    {"type": "string", "description": "Shop to link, defaults to the oldest shop", "name": "shopId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Shop user already exists"},
                    "201": {"description": "Created"},
                    "403": {"description": "INVALID_SEED_KEY"},
                    "404": {"description": "SHOP_NOT_FOUND"}
                }
            }
        },
        "/vehicles": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "Register a vehicle",
                "parameters": [
                    {"description": "Vehicle", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.VehicleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "VALIDATION_ERROR, INVALID_PLATE"},
                    "409": {"description": "PLATE_EXISTS"}
                }
            }
        },
        "/vehicles/my": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "List the caller's vehicles",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/vehicles/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "Update a vehicle",
                "parameters": [
                    {"type": "string", "description": "Vehicle ID", "name": "id", "in": "path", "required": true},
                    {"description": "Vehicle fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateVehicleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "VALIDATION_ERROR"},
                    "404": {"description": "VEHICLE_NOT_FOUND"},
                    "409": {"description": "PLATE_EXISTS"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "Delete a vehicle",
                "parameters": [
                    {"type": "string", "description": "Vehicle ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "VEHICLE_NOT_FOUND"}
                }
            }
        },
        "/shops": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shops"],
                "summary": "Search shops",
                "parameters": [
                    {"type": "string", "description": "Name contains", "name": "q", "in": "query"},
                    {"type": "string", "description": "City", "name": "city", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/shops/seed": {
            "post": {
                "produces": ["application/json"],
                "tags": ["shops"],
                "summary": "Create the demo shops",
                "parameters": [
                    {"type": "string", "description": "Seed key", "name": "key", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "INVALID_SEED_KEY"}
                }
            }
        },
        "/shops/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["shops"],
                "summary": "The caller's shop",
                "parameters": [
                    {"type": "string", "description": "Shop ID (admin)", "name": "id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "NO_SHOP_ASSIGNED"},
                    "403": {"description": "FORBIDDEN"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shops"],
                "summary": "Update the caller's shop",
                "parameters": [
                    {"type": "string", "description": "Shop ID (admin)", "name": "id", "in": "query"},
                    {"description": "Shop fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateShopRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "VALIDATION_ERROR, NO_SHOP_ASSIGNED"},
                    "403": {"description": "FORBIDDEN"}
                }
            }
        },
        "/shops/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shops"],
                "summary": "Shop detail",
                "parameters": [
                    {"type": "string", "description": "Shop ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "SHOP_NOT_FOUND"}
                }
            }
        },
        "/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List every order (admin)",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "FORBIDDEN"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Request a quote from a shop (client)",
                "parameters": [
                    {"description": "Order request", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/controllers.CreateOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "SHOP_REQUIRED, INVALID_ESTIMATE, TOO_MANY_FILES, FILE_TOO_LARGE, UNSUPPORTED_FILE_TYPE"},
                    "403": {"description": "FORBIDDEN"},
                    "404": {"description": "SHOP_NOT_FOUND, VEHICLE_NOT_FOUND"}
                }
            }
        },
        "/orders/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List the caller's orders (client)",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/orders/shop/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Shop dashboard listing",
                "parameters": [
                    {"type": "string", "description": "Single status filter", "name": "status", "in": "query"},
                    {"enum": ["quotes", "active", "done"], "type": "string", "description": "Status bucket; wins over status", "name": "bucket", "in": "query"},
                    {"type": "string", "description": "1 to group by bucket", "name": "group", "in": "query"},
                    {"type": "string", "description": "Shop id (admin only)", "name": "shopId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "INVALID_STATUS, INVALID_BUCKET, NO_SHOP_ASSIGNED"}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "FORBIDDEN"},
                    "404": {"description": "ORDER_NOT_FOUND"}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Update status, note, estimate, ETA or add a photo reference (shop, admin)",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true},
                    {"description": "Change set", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateOrderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "INVALID_STATUS, INVALID_ESTIMATE, INVALID_ETA, UNSUPPORTED_FILE_TYPE, FILE_TOO_LARGE"},
                    "403": {"description": "FORBIDDEN"},
                    "404": {"description": "ORDER_NOT_FOUND"},
                    "409": {"description": "ORDER_FINALIZED"}
                }
            }
        },
        "/orders/{id}/photos": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Upload up to five photos (shop, admin)",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true},
                    {"type": "file", "description": "Photos", "name": "photos", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "TOO_MANY_FILES, FILE_TOO_LARGE, UNSUPPORTED_FILE_TYPE"},
                    "409": {"description": "ORDER_FINALIZED"}
                }
            }
        },
        "/orders/{id}/message": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Send a message to the shop (client)",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true},
                    {"description": "Message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ClientMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "EMPTY_MESSAGE"},
                    "409": {"description": "ORDER_FINALIZED"}
                }
            }
        },
        "/orders/{id}/rating": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Rate a finalized order once (client)",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true},
                    {"description": "Rating 1..5", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.RateOrderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "INVALID_RATING, ORDER_NOT_FINALIZED"},
                    "409": {"description": "ALREADY_RATED"}
                }
            }
        }
    },
    "definitions": {
        "controllers.RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "controllers.VehicleRequest": {
            "type": "object",
            "required": ["plate", "brand", "model", "year", "city"],
            "properties": {
                "plate": {"type": "string"},
                "brand": {"type": "string"},
                "model": {"type": "string"},
                "year": {"type": "integer", "minimum": 1900, "maximum": 2100},
                "city": {"type": "string"},
                "mileage": {"type": "integer", "minimum": 0},
                "color": {"type": "string"}
            }
        },
        "controllers.RegisterWithVehicleRequest": {
            "type": "object",
            "required": ["name", "email", "password", "vehicle"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "vehicle": {"$ref": "#/definitions/controllers.VehicleRequest"}
            }
        },
        "controllers.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "city": {"type": "string"}
            }
        },
        "controllers.ChangePasswordRequest": {
            "type": "object",
            "required": ["current_password", "new_password"],
            "properties": {
                "current_password": {"type": "string"},
                "new_password": {"type": "string", "minLength": 6}
            }
        },
        "controllers.UpdateVehicleRequest": {
            "type": "object",
            "properties": {
                "plate": {"type": "string"},
                "brand": {"type": "string"},
                "model": {"type": "string"},
                "year": {"type": "integer", "minimum": 1900, "maximum": 2100},
                "city": {"type": "string"},
                "mileage": {"type": "integer", "minimum": 0},
                "color": {"type": "string"}
            }
        },
        "models.ShopService": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "base_price": {"type": "number", "minimum": 0}
            }
        },
        "controllers.UpdateShopRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "city": {"type": "string"},
                "address": {"type": "string"},
                "phone": {"type": "string"},
                "services": {"type": "array", "items": {"$ref": "#/definitions/models.ShopService"}}
            }
        },
        "controllers.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "controllers.CreateOrderRequest": {
            "type": "object",
            "properties": {
                "shop_id": {"type": "string"},
                "vehicle_id": {"type": "string"},
                "title": {"type": "string"},
                "service_name": {"type": "string"},
                "description": {"type": "string"},
                "notes": {"type": "string"},
                "message": {"type": "string"},
                "contact_phone": {"type": "string"},
                "price_estimate": {"type": "number"}
            }
        },
        "controllers.EstimateRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "breakdown": {"type": "string"},
                "currency": {"type": "string"}
            }
        },
        "controllers.AddPhotoRequest": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "original_name": {"type": "string"},
                "size": {"type": "integer"},
                "mime_type": {"type": "string"}
            }
        },
        "controllers.UpdateOrderRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["REQUESTED", "CONTACTED", "CHECKED_IN", "IN_PROGRESS", "READY", "DELIVERED", "CANCELED"]},
                "note": {"type": "string"},
                "estimate": {"$ref": "#/definitions/controllers.EstimateRequest"},
                "eta_hours": {"type": "number"},
                "add_photo": {"$ref": "#/definitions/controllers.AddPhotoRequest"}
            }
        },
        "controllers.ClientMessageRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "controllers.RateOrderRequest": {
            "type": "object",
            "properties": {
                "rating": {"type": "integer"},
                "review": {"type": "string"}
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
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Repair Shop Marketplace API",
	Description:      "Clients request quotes from repair shops and follow their vehicle through the repair.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
