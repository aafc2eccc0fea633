// Package docs holds the OpenAPI description served under /swagger/.
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
        "/api/shipping/validate-address": {
            "post": {
                "description": "Checks an address with the carrier API using the credential selected for the request.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shipping"],
                "summary": "Validate a shipping address",
                "parameters": [
                    {
                        "description": "Address, bare or wrapped as {address}",
                        "name": "address",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/carrier.Address"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.validateAddressResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.validateAddressFailure"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.validateAddressFailure"}}
                }
            }
        },
        "/api/admin/shipping/transactions/{transactionId}": {
            "get": {
                "description": "Fetches a purchased-label transaction, falling back to the other credential when the first attempt fails.",
                "produces": ["application/json"],
                "tags": ["shipping"],
                "summary": "Look up a label transaction",
                "parameters": [
                    {"type": "string", "description": "Carrier transaction id", "name": "transactionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.transactionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/server.transactionResponse"}}
                }
            }
        },
        "/api/shipping/carriers": {
            "get": {
                "description": "Lists active carrier accounts. Disabled in production.",
                "produces": ["application/json"],
                "tags": ["shipping"],
                "summary": "List carrier account ids",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.carriersResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.errorResponse"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/server.errorResponse"}}
                }
            }
        },
        "/api/shipping/packages": {
            "get": {
                "description": "Returns all packages, defaults first then by name.",
                "produces": ["application/json"],
                "tags": ["shipping"],
                "summary": "List shipping packages",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/store.ShippingPackage"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.errorResponse"}}
                }
            }
        },
        "/api/admin/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "The 12 newest orders with their customer.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List recent orders",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.ordersResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/server.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.errorResponse"}}
                }
            }
        },
        "/api/admin/orders/{orderId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get an order",
                "parameters": [
                    {"type": "string", "description": "Order id (UUID)", "name": "orderId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.orderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/server.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.errorResponse"}}
                }
            }
        },
        "/api/admin/orders/{orderId}/shipments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List an order's shipments",
                "parameters": [
                    {"type": "string", "description": "Order id (UUID)", "name": "orderId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.shipmentsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/server.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "carrier.Address": {
            "type": "object",
            "required": ["address1", "city", "state", "postal_code"],
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address1": {"type": "string"},
                "address2": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "postal_code": {"type": "string"},
                "country": {"type": "string", "default": "US"}
            }
        },
        "carrier.Attempt": {
            "type": "object",
            "properties": {
                "credential": {"type": "string"},
                "environment": {"type": "string", "enum": ["production", "test"]},
                "status": {"type": "integer"},
                "ok": {"type": "boolean"},
                "keys": {"type": "array", "items": {"type": "string"}},
                "body": {"type": "object"},
                "error": {"type": "string"}
            }
        },
        "server.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "server.validateAddressResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "valid": {"type": "boolean"},
                "normalizedAddress": {"$ref": "#/definitions/carrier.Address"},
                "messages": {"type": "array", "items": {"type": "string"}}
            }
        },
        "server.validateAddressFailure": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "messages": {"type": "array", "items": {"type": "string"}}
            }
        },
        "server.transactionResponse": {
            "type": "object",
            "properties": {
                "primary": {"$ref": "#/definitions/carrier.Attempt"},
                "secondary": {"$ref": "#/definitions/carrier.Attempt"},
                "attempts": {"type": "array", "items": {"$ref": "#/definitions/carrier.Attempt"}},
                "out": {"type": "object"}
            }
        },
        "server.carriersResponse": {
            "type": "object",
            "properties": {"carrierIds": {"type": "array", "items": {"type": "string"}}}
        },
        "server.orderResponse": {
            "type": "object",
            "properties": {"order": {"$ref": "#/definitions/store.Order"}}
        },
        "server.shipmentsResponse": {
            "type": "object",
            "properties": {"shipments": {"type": "array", "items": {"$ref": "#/definitions/store.Shipment"}}}
        },
        "server.ordersResponse": {
            "type": "object",
            "properties": {"orders": {"type": "array", "items": {"$ref": "#/definitions/store.OrderSummary"}}}
        },
        "store.ShippingPackage": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "length": {"type": "number"},
                "width": {"type": "number"},
                "height": {"type": "number"},
                "distanceUnit": {"type": "string"},
                "weight": {"type": "number"},
                "massUnit": {"type": "string"},
                "isDefault": {"type": "boolean"}
            }
        },
        "store.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "customerId": {"type": "string"},
                "totalCents": {"type": "integer"},
                "isTraining": {"type": "boolean"},
                "orderStatus": {"type": "string"},
                "paymentStatus": {"type": "string"},
                "shippingStatus": {"type": "string"},
                "shippingAddress": {"type": "object"}
            }
        },
        "store.Shipment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "orderId": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "carrier": {"type": "string"},
                "serviceLevel": {"type": "string"},
                "trackingNumber": {"type": "string"},
                "trackingUrl": {"type": "string"},
                "labelUrl": {"type": "string"},
                "transactionId": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "store.CustomerName": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "store.OrderSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "totalCents": {"type": "integer"},
                "isTraining": {"type": "boolean"},
                "orderStatus": {"type": "string"},
                "paymentStatus": {"type": "string"},
                "shippingStatus": {"type": "string"},
                "customer": {"$ref": "#/definitions/store.CustomerName"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fulfillment Gateway API",
	Description:      "Address validation, label transaction lookup, carrier and package catalogs, and admin order views.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
