// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/main.go
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
        "/products": {
            "get": {
                "tags": ["shop"],
                "summary": "List products",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.Product"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "tags": ["shop"],
                "summary": "Get product",
                "parameters": [{"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Product"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ValidationErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/orders": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["shop"],
                "summary": "Place order",
                "parameters": [{"description": "Order", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateOrderRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ValidationErrorResponse"}},
                    "404": {"description": "Product not found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "409": {"description": "Product out of stock", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}/status": {
            "get": {
                "tags": ["shop"],
                "summary": "Order status",
                "parameters": [{"type": "integer", "description": "Order ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.OrderStatus"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ValidationErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/requests/nuc": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["requests"],
                "summary": "Reserve nucs",
                "parameters": [{"description": "Nuc request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.NucRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Created"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ValidationErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/requests/pollination": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["requests"],
                "summary": "Request pollination",
                "parameters": [{"description": "Pollination request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.PollinationRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Created"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ValidationErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/requests/removal": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["requests"],
                "summary": "Request bee removal",
                "parameters": [{"description": "Removal request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.BeeRemovalRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Created"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ValidationErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/requests/callback": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["requests"],
                "summary": "Request callback",
                "parameters": [{"description": "Callback request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CallbackRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Created"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ValidationErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/checkout/{order_id}/review": {
            "get": {
                "tags": ["checkout"],
                "summary": "Review order before payment",
                "parameters": [{"type": "integer", "description": "Order ID", "name": "order_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Order"}},
                    "303": {"description": "Order already processed"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ValidationErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/checkout/{order_id}/process": {
            "post": {
                "description": "Redirects to the hosted payment page when one is available, otherwise reports how payment will be collected.",
                "tags": ["checkout"],
                "summary": "Process checkout",
                "parameters": [{"type": "integer", "description": "Order ID", "name": "order_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.CheckoutResponse"}},
                    "303": {"description": "Payment page or order status"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ValidationErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/integrations/quickbooks/connect": {
            "get": {
                "security": [{"BasicAuth": []}],
                "tags": ["integrations"],
                "summary": "Connect invoicing",
                "responses": {
                    "302": {"description": "Provider consent page"},
                    "401": {"description": "Staff credentials required"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/integrations/quickbooks/callback": {
            "get": {
                "security": [{"BasicAuth": []}],
                "tags": ["integrations"],
                "summary": "Invoicing OAuth callback",
                "parameters": [
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query"},
                    {"type": "string", "description": "CSRF state", "name": "state", "in": "query"},
                    {"type": "string", "description": "Company ID", "name": "realmId", "in": "query"},
                    {"type": "string", "description": "Provider error", "name": "error", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Home page with a notice"},
                    "401": {"description": "Staff credentials required"}
                }
            }
        },
        "/integrations/quickbooks/disconnect": {
            "post": {
                "security": [{"BasicAuth": []}],
                "tags": ["integrations"],
                "summary": "Disconnect invoicing",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Staff credentials required"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.Product": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "string", "example": "12.00"},
                "size": {"type": "string"},
                "in_stock": {"type": "boolean"}
            }
        },
        "handler.Customer": {
            "type": "object",
            "required": ["first_name", "last_name", "email", "phone", "address", "city", "state", "zip_code"],
            "properties": {
                "first_name": {"type": "string", "maxLength": 100},
                "last_name": {"type": "string", "maxLength": 100},
                "email": {"type": "string", "maxLength": 254},
                "phone": {"type": "string", "maxLength": 20},
                "address": {"type": "string"},
                "city": {"type": "string", "maxLength": 100},
                "state": {"type": "string", "maxLength": 50},
                "zip_code": {"type": "string", "maxLength": 10},
                "prefer_callback": {"type": "boolean"}
            }
        },
        "handler.CreateOrderRequest": {
            "type": "object",
            "required": ["first_name", "last_name", "email", "phone", "address", "city", "state", "zip_code", "product_id", "quantity"],
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "zip_code": {"type": "string"},
                "prefer_callback": {"type": "boolean"},
                "product_id": {"type": "integer"},
                "quantity": {"type": "integer", "minimum": 1, "maximum": 1000},
                "notes": {"type": "string", "maxLength": 2000}
            }
        },
        "handler.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "customer": {"$ref": "#/definitions/handler.Customer"},
                "product": {"$ref": "#/definitions/handler.Product"},
                "quantity": {"type": "integer"},
                "total": {"type": "string", "example": "36.00"},
                "status": {"type": "string"},
                "payment_status": {"type": "string"},
                "payment_url": {"type": "string"},
                "notes": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "handler.OrderStatus": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "status": {"type": "string"},
                "payment_status": {"type": "string"},
                "total": {"type": "string"},
                "paid_at": {"type": "string"}
            }
        },
        "handler.NucRequest": {
            "type": "object",
            "required": ["quantity"],
            "properties": {
                "quantity": {"type": "integer", "minimum": 1},
                "experience_level": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]},
                "preferred_pickup_date": {"type": "string", "example": "2026-04-15"},
                "notes": {"type": "string"}
            }
        },
        "handler.PollinationRequest": {
            "type": "object",
            "required": ["crop_type", "acreage", "preferred_start_date", "duration_weeks"],
            "properties": {
                "crop_type": {"type": "string", "maxLength": 100},
                "acreage": {"type": "string", "example": "12.5"},
                "num_hives_requested": {"type": "integer", "minimum": 1},
                "preferred_start_date": {"type": "string", "example": "2026-02-01"},
                "duration_weeks": {"type": "integer", "minimum": 1},
                "notes": {"type": "string"}
            }
        },
        "handler.BeeRemovalRequest": {
            "type": "object",
            "required": ["property_type", "bee_location", "how_long_present"],
            "properties": {
                "urgency": {"type": "string", "enum": ["low", "medium", "high", "emergency"]},
                "property_type": {"type": "string"},
                "bee_location": {"type": "string"},
                "how_long_present": {"type": "string"},
                "estimated_size": {"type": "string"},
                "height_from_ground": {"type": "string"},
                "has_been_sprayed": {"type": "boolean"},
                "can_send_photo": {"type": "boolean"},
                "notes": {"type": "string"}
            }
        },
        "handler.CallbackRequest": {
            "type": "object",
            "required": ["name", "phone", "interest"],
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "interest": {"type": "string", "enum": ["honey", "nucs", "pollination", "removal", "other"]},
                "best_time": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.Created": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "handler.CheckoutResponse": {
            "type": "object",
            "properties": {
                "outcome": {"type": "string"},
                "message": {"type": "string"},
                "order": {"$ref": "#/definitions/handler.Order"}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "utils.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "fields": {"type": "object", "additionalProperties": {"type": "string"}},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BasicAuth": {"type": "basic"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Honey Shop API",
	Description:      "Orders, service requests and checkout for the honey shop.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
