package docs

import (
	"github.com/swaggo/swag"
)

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {"tags": ["system"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Database unavailable"}}}
        },
        "/api/auth/token/login/": {
            "post": {
                "tags": ["auth"], "summary": "Obtain an auth token",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TokenResponse"}}, "400": {"description": "Bad credentials", "schema": {"$ref": "#/definitions/ProblemDetails"}}}
            }
        },
        "/api/auth/token/logout/": {
            "post": {"tags": ["auth"], "summary": "Revoke the current token", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/users/": {
            "get": {
                "tags": ["users"], "summary": "List users",
                "parameters": [{"in": "query", "name": "page", "type": "integer"}, {"in": "query", "name": "limit", "type": "integer"}],
                "responses": {"200": {"description": "Page of users"}}
            },
            "post": {
                "tags": ["users"], "summary": "Register a new user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/User"}}, "400": {"description": "Invalid", "schema": {"$ref": "#/definitions/ProblemDetails"}}}
            }
        },
        "/api/users/me/": {
            "get": {"tags": ["users"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}, "401": {"description": "Unauthorized"}}}
        },
        "/api/users/set_password/": {
            "post": {"tags": ["users"], "summary": "Change password", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "400": {"description": "Invalid"}}}
        },
        "/api/users/subscriptions/": {
            "get": {
                "tags": ["subscriptions"], "summary": "Followed authors", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "page", "type": "integer"}, {"in": "query", "name": "limit", "type": "integer"}, {"in": "query", "name": "recipes_limit", "type": "integer"}],
                "responses": {"200": {"description": "Page of authors"}}
            }
        },
        "/api/users/{id}/": {
            "get": {"tags": ["users"], "summary": "Get a user", "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}, "404": {"description": "Not Found"}}}
        },
        "/api/users/{id}/subscribe/": {
            "post": {"tags": ["subscriptions"], "summary": "Follow an author", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}, {"in": "query", "name": "recipes_limit", "type": "integer"}], "responses": {"201": {"description": "Created"}, "400": {"description": "Self or duplicate subscription"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["subscriptions"], "summary": "Unfollow an author", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}], "responses": {"204": {"description": "No Content"}, "400": {"description": "Not subscribed"}, "404": {"description": "Not Found"}}}
        },
        "/api/tags/": {
            "get": {"tags": ["tags"], "summary": "List tags", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Tag"}}}}}
        },
        "/api/tags/{id}/": {
            "get": {"tags": ["tags"], "summary": "Get a tag", "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Tag"}}, "404": {"description": "Not Found"}}}
        },
        "/api/ingredients/": {
            "get": {"tags": ["ingredients"], "summary": "List ingredients", "parameters": [{"in": "query", "name": "name", "type": "string", "description": "Case-insensitive name prefix"}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Ingredient"}}}}}
        },
        "/api/ingredients/{id}/": {
            "get": {"tags": ["ingredients"], "summary": "Get an ingredient", "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Ingredient"}}, "404": {"description": "Not Found"}}}
        },
        "/api/recipes/": {
            "get": {
                "tags": ["recipes"], "summary": "List recipes",
                "parameters": [
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "author", "type": "integer"},
                    {"in": "query", "name": "tags", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"in": "query", "name": "is_favorited", "type": "integer", "enum": [0, 1]},
                    {"in": "query", "name": "is_in_shopping_cart", "type": "integer", "enum": [0, 1]}
                ],
                "responses": {"200": {"description": "Page of recipes"}}
            },
            "post": {
                "tags": ["recipes"], "summary": "Create a recipe", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RecipeRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Recipe"}}, "400": {"description": "Invalid"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/recipes/download_shopping_cart/": {
            "get": {"tags": ["recipes"], "summary": "Download the shopping list", "security": [{"BearerAuth": []}], "produces": ["text/plain", "text/csv"], "parameters": [{"in": "query", "name": "format", "type": "string", "enum": ["txt", "csv"]}], "responses": {"200": {"description": "Attachment"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/recipes/{id}/": {
            "get": {"tags": ["recipes"], "summary": "Get a recipe", "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Recipe"}}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["recipes"], "summary": "Update a recipe", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RecipeRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Recipe"}}, "400": {"description": "Invalid"}, "403": {"description": "Not the author"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["recipes"], "summary": "Delete a recipe", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Not the author"}, "404": {"description": "Not Found"}}}
        },
        "/api/recipes/{id}/favorite/": {
            "post": {"tags": ["recipes"], "summary": "Add to favorites", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/RecipeShort"}}, "400": {"description": "Missing recipe or already added"}}},
            "delete": {"tags": ["recipes"], "summary": "Remove from favorites", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}], "responses": {"204": {"description": "No Content"}, "400": {"description": "Not in favorites"}, "404": {"description": "Not Found"}}}
        },
        "/api/recipes/{id}/shopping_cart/": {
            "post": {"tags": ["recipes"], "summary": "Add to shopping cart", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/RecipeShort"}}, "400": {"description": "Missing recipe or already added"}}},
            "delete": {"tags": ["recipes"], "summary": "Remove from shopping cart", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}], "responses": {"204": {"description": "No Content"}, "400": {"description": "Not in shopping cart"}, "404": {"description": "Not Found"}}}
        }
    },
    "definitions": {
        "LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "TokenResponse": {"type": "object", "properties": {"auth_token": {"type": "string"}}},
        "RegisterRequest": {"type": "object", "required": ["email", "username", "first_name", "last_name", "password"], "properties": {"email": {"type": "string"}, "username": {"type": "string"}, "first_name": {"type": "string"}, "last_name": {"type": "string"}, "password": {"type": "string"}}},
        "User": {"type": "object", "properties": {"id": {"type": "integer"}, "email": {"type": "string"}, "username": {"type": "string"}, "first_name": {"type": "string"}, "last_name": {"type": "string"}, "is_subscribed": {"type": "boolean"}}},
        "Tag": {"type": "object", "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "color": {"type": "string"}, "slug": {"type": "string"}}},
        "Ingredient": {"type": "object", "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "measurement_unit": {"type": "string"}}},
        "RecipeRequest": {"type": "object", "properties": {
            "ingredients": {"type": "array", "items": {"type": "object", "properties": {"id": {"type": "integer"}, "amount": {"type": "number"}}}},
            "tags": {"type": "array", "items": {"type": "integer"}},
            "image": {"type": "string"}, "name": {"type": "string"}, "text": {"type": "string"}, "cooking_time": {"type": "integer"}
        }},
        "Recipe": {"type": "object", "properties": {
            "id": {"type": "integer"},
            "tags": {"type": "array", "items": {"$ref": "#/definitions/Tag"}},
            "author": {"$ref": "#/definitions/User"},
            "ingredients": {"type": "array", "items": {"type": "object", "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "measurement_unit": {"type": "string"}, "amount": {"type": "number"}}}},
            "is_favorited": {"type": "boolean"}, "is_in_shopping_cart": {"type": "boolean"},
            "name": {"type": "string"}, "image": {"type": "string"}, "text": {"type": "string"}, "cooking_time": {"type": "integer"}
        }},
        "RecipeShort": {"type": "object", "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "image": {"type": "string"}, "cooking_time": {"type": "integer"}}},
        "ProblemDetails": {"type": "object", "properties": {"type": {"type": "string"}, "title": {"type": "string"}, "status": {"type": "integer"}, "detail": {"type": "string"}, "instance": {"type": "string"}, "trace_id": {"type": "string"}, "errors": {"type": "array", "items": {"type": "object", "properties": {"field": {"type": "string"}, "message": {"type": "string"}, "code": {"type": "string"}}}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Foodgram API",
	Description:      "Recipe sharing API: recipes, tags, ingredients, favorites, shopping cart and subscriptions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
