// Package docs provides OpenAPI documentation for the Foodgram API
//
// The documentation is registered with swaggo/swag and served via Swagger UI at /swagger/index.html.
//
// @title           Foodgram API
// @version         1.0.0
// @description     Recipe sharing API: recipes, tags, ingredients, favorites, shopping cart and subscriptions.
// @description
// @description     ## Authentication
// @description
// @description     Obtain a token from /api/auth/token/login/ and send it as `Authorization: Token <token>`.
// @description     The `Bearer` scheme is accepted as well.
// @description
// @description     ## Error Handling
// @description
// @description     All errors follow RFC 7807 Problem Details standard
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Token obtained from the login endpoint. Format: "Token {token}"
//
// @tag.name system
// @tag.description Health checks
//
// @tag.name auth
// @tag.description Token login and logout
//
// @tag.name users
// @tag.description Registration and profiles
//
// @tag.name subscriptions
// @tag.description Followed authors
//
// @tag.name recipes
// @tag.description Recipes, favorites and the shopping cart
//
// @tag.name tags
// @tag.description Recipe tags
//
// @tag.name ingredients
// @tag.description Ingredient catalog
package docs
