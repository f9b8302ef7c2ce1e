package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness Check",
                "description": "Check that the document store can be read",
                "responses": {
                    "200": {
                        "description": "Store is reachable"
                    },
                    "503": {
                        "description": "Store is not reachable"
                    }
                }
            }
        },
        "/api/v1/reports/{company}": {
            "get": {
                "tags": ["Recycling"],
                "summary": "Company Report",
                "description": "Quantity and recycled flag of every submission by a company",
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "path",
                        "name": "company",
                        "type": "string",
                        "required": true,
                        "description": "Company name, matched exactly"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Report",
                        "schema": {
                            "$ref": "#/definitions/CompanyReport"
                        }
                    }
                }
            }
        },
        "/api/v1/plastics": {
            "post": {
                "tags": ["Recycling"],
                "summary": "Record Plastic",
                "description": "Record a recycling submission",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "plastic",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "company": {
                                    "type": "string",
                                    "example": "Acme"
                                },
                                "quantity": {
                                    "type": "number",
                                    "example": 12.5
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Submission recorded",
                        "schema": {
                            "$ref": "#/definitions/Plastic"
                        }
                    },
                    "400": {
                        "description": "Validation failed"
                    }
                }
            }
        },
        "/api/v1/transactions": {
            "post": {
                "tags": ["Payments"],
                "summary": "Create Transaction",
                "description": "Charge the payment provider and record the transaction",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "transaction",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "amount": {
                                    "type": "number",
                                    "example": 10.5
                                },
                                "token": {
                                    "type": "string",
                                    "example": "tok_visa"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Transaction recorded",
                        "schema": {
                            "$ref": "#/definitions/Transaction"
                        }
                    },
                    "400": {
                        "description": "Validation failed"
                    },
                    "500": {
                        "description": "Payment failed"
                    }
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Operator Login",
                "description": "Exchange the operator password for a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "credentials",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "password": {
                                    "type": "string"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Login successful"
                    },
                    "401": {
                        "description": "Invalid credentials"
                    }
                }
            }
        },
        "/api/v1/admin/document": {
            "get": {
                "tags": ["Admin"],
                "summary": "Stored Document",
                "description": "The whole stored document",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {
                        "description": "Document"
                    },
                    "401": {
                        "description": "Missing or invalid token"
                    }
                }
            }
        },
        "/api/v1/admin/transactions": {
            "get": {
                "tags": ["Admin"],
                "summary": "List Transactions",
                "description": "Every recorded transaction in insertion order",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {
                        "description": "Transactions"
                    },
                    "401": {
                        "description": "Missing or invalid token"
                    }
                }
            }
        }
    },
    "definitions": {
        "Plastic": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "company": {"type": "string"},
                "quantity": {"type": "number"},
                "recycled": {"type": "boolean"}
            }
        },
        "Transaction": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "amount": {"type": "number"},
                "status": {"type": "string"},
                "date": {"type": "string", "example": "2024-05-01T12:00:00.000Z"}
            }
        },
        "CompanyReport": {
            "type": "object",
            "properties": {
                "company": {"type": "string"},
                "report": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "quantity": {"type": "number"},
                            "recycled": {"type": "boolean"}
                        }
                    }
                },
                "total_quantity": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "EcoLoop API",
	Description:      "EcoLoop recycling and payment API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
