package api

import (
	"github.com/Aidin1998/foodgram/api/responses"
	"github.com/Aidin1998/foodgram/common/apiutil"
	"github.com/Aidin1998/foodgram/internal/recipes"
	"github.com/Aidin1998/foodgram/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} models.Tag
// @Router /api/tags/ [get]
func (s *Server) listTags(c *gin.Context) {
	tags, err := s.recipes.ListTags(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, tags)
}

// @Summary Get a tag
// @Tags tags
// @Produce json
// @Param id path int true "Tag id"
// @Success 200 {object} models.Tag
// @Failure 404 {object} errors.ProblemDetails
// @Router /api/tags/{id}/ [get]
func (s *Server) getTag(c *gin.Context) {
	id, err := apiutil.IDParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	tag, err := s.recipes.GetTag(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, tag)
}

// @Summary List ingredients
// @Description Unpaginated; name filters by case-insensitive prefix
// @Tags ingredients
// @Produce json
// @Param name query string false "Name prefix"
// @Success 200 {array} models.Ingredient
// @Router /api/ingredients/ [get]
func (s *Server) listIngredients(c *gin.Context) {
	ingredients, err := s.recipes.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, ingredients)
}

// @Summary Get an ingredient
// @Tags ingredients
// @Produce json
// @Param id path int true "Ingredient id"
// @Success 200 {object} models.Ingredient
// @Failure 404 {object} errors.ProblemDetails
// @Router /api/ingredients/{id}/ [get]
func (s *Server) getIngredient(c *gin.Context) {
	id, err := apiutil.IDParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	ingredient, err := s.recipes.GetIngredient(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, ingredient)
}

// listRecipes handles the filtered recipe feed
// @Summary List recipes
// @Tags recipes
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param author query int false "Author id"
// @Param tags query []string false "Tag slugs, any of" collectionFormat(multi)
// @Param is_favorited query int false "1 for favorites only, 0 to exclude them"
// @Param is_in_shopping_cart query int false "1 for cart only, 0 to exclude it"
// @Success 200 {object} responses.Page[models.RecipeResponse]
// @Router /api/recipes/ [get]
func (s *Server) listRecipes(c *gin.Context) {
	var filter models.RecipeFilter
	if err := apiutil.BindQuery(c, &filter); err != nil {
		s.writeError(c, err)
		return
	}
	filter.Page, filter.Limit = s.pagination(filter.Page, filter.Limit)

	items, total, err := s.recipes.ListRecipes(c.Request.Context(), viewerID(c), &filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.Paginated(c, items, total, filter.Page, filter.Limit)
}

// @Summary Get a recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe id"
// @Success 200 {object} models.RecipeResponse
// @Failure 404 {object} errors.ProblemDetails
// @Router /api/recipes/{id}/ [get]
func (s *Server) getRecipe(c *gin.Context) {
	id, err := apiutil.IDParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	recipe, err := s.recipes.GetRecipe(c.Request.Context(), viewerID(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, recipe)
}

// createRecipe stores a recipe authored by the caller
// @Summary Create a recipe
// @Tags recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.RecipeRequest true "Recipe"
// @Success 201 {object} models.RecipeResponse
// @Failure 400 {object} errors.ProblemDetails
// @Failure 401 {object} errors.ProblemDetails
// @Router /api/recipes/ [post]
func (s *Server) createRecipe(c *gin.Context) {
	var req models.RecipeRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	recipe, err := s.recipes.CreateRecipe(c.Request.Context(), viewerID(c), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.Created(c, recipe)
}

// updateRecipe checks authorship before looking at the body
// @Summary Update a recipe
// @Tags recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Recipe id"
// @Param request body models.RecipeRequest true "Fields to change"
// @Success 200 {object} models.RecipeResponse
// @Failure 400 {object} errors.ProblemDetails
// @Failure 403 {object} errors.ProblemDetails
// @Failure 404 {object} errors.ProblemDetails
// @Router /api/recipes/{id}/ [patch]
func (s *Server) updateRecipe(c *gin.Context) {
	id, err := apiutil.IDParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.recipes.CheckAuthor(c.Request.Context(), viewerID(c), id); err != nil {
		s.writeError(c, err)
		return
	}

	var req models.RecipeRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	recipe, err := s.recipes.UpdateRecipe(c.Request.Context(), viewerID(c), id, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, recipe)
}

// @Summary Delete a recipe
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe id"
// @Success 204
// @Failure 403 {object} errors.ProblemDetails
// @Failure 404 {object} errors.ProblemDetails
// @Router /api/recipes/{id}/ [delete]
func (s *Server) deleteRecipe(c *gin.Context) {
	id, err := apiutil.IDParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.recipes.DeleteRecipe(c.Request.Context(), viewerID(c), id); err != nil {
		s.writeError(c, err)
		return
	}
	responses.NoContent(c)
}

// addRelation handles POST /favorite/ and /shopping_cart/
// @Summary Add a recipe to favorites or the shopping cart
// @Tags recipes
// @Security BearerAuth
// @Produce json
// @Param id path int true "Recipe id"
// @Success 201 {object} models.RecipeShort
// @Failure 400 {object} errors.ProblemDetails
// @Router /api/recipes/{id}/favorite/ [post]
// @Router /api/recipes/{id}/shopping_cart/ [post]
func (s *Server) addRelation(rel recipes.Relation) gin.HandlerFunc {
	return func(c *gin.Context) {
		// a malformed id is reported like any other missing recipe
		id, _ := apiutil.IDParam(c, "id")
		short, err := s.recipes.AddRelation(c.Request.Context(), rel, viewerID(c), id)
		if err != nil {
			s.writeError(c, err)
			return
		}
		responses.Created(c, short)
	}
}

// removeRelation handles DELETE /favorite/ and /shopping_cart/
// @Summary Remove a recipe from favorites or the shopping cart
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe id"
// @Success 204
// @Failure 400 {object} errors.ProblemDetails
// @Failure 404 {object} errors.ProblemDetails
// @Router /api/recipes/{id}/favorite/ [delete]
// @Router /api/recipes/{id}/shopping_cart/ [delete]
func (s *Server) removeRelation(rel recipes.Relation) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutil.IDParam(c, "id")
		if err != nil {
			s.writeError(c, err)
			return
		}
		if err := s.recipes.RemoveRelation(c.Request.Context(), rel, viewerID(c), id); err != nil {
			s.writeError(c, err)
			return
		}
		responses.NoContent(c)
	}
}

// downloadShoppingCart renders the aggregated ingredients of the caller's cart
// @Summary Download the shopping list
// @Tags recipes
// @Security BearerAuth
// @Produce plain
// @Produce text/csv
// @Param format query string false "txt (default) or csv"
// @Success 200 {file} file
// @Failure 401 {object} errors.ProblemDetails
// @Router /api/recipes/download_shopping_cart/ [get]
func (s *Server) downloadShoppingCart(c *gin.Context) {
	format, err := recipes.ParseShoppingListFormat(c.Query("format"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	lines, err := s.recipes.ShoppingList(c.Request.Context(), viewerID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	filename, contentType, body, err := recipes.RenderShoppingList(lines, format)
	if err != nil {
		s.writeError(c, err)
		return
	}

	apiutil.RequestLogger(c, s.logger).Debug("shopping list rendered",
		zap.Int("lines", len(lines)), zap.String("format", string(format)))
	responses.Attachment(c, filename, contentType, body)
}
