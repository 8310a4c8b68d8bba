package api

import (
	"github.com/Aidin1998/foodgram/api/responses"
	"github.com/Aidin1998/foodgram/common/apiutil"
	"github.com/Aidin1998/foodgram/common/auth"
	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/Aidin1998/foodgram/pkg/models"
	"github.com/gin-gonic/gin"
)

// login exchanges credentials for an auth token
// @Summary Obtain an auth token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} errors.ProblemDetails
// @Router /api/auth/token/login/ [post]
func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	resp, err := s.identities.Login(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, resp)
}

// logout revokes the presented token
// @Summary Revoke the current token
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errors.ProblemDetails
// @Router /api/auth/token/logout/ [post]
func (s *Server) logout(c *gin.Context) {
	claims, ok := auth.CurrentClaims(c)
	if !ok {
		s.writeError(c, errors.Unauthorized.Explain("authentication credentials were not provided"))
		return
	}
	if err := s.identities.Logout(c.Request.Context(), claims); err != nil {
		s.writeError(c, err)
		return
	}
	responses.NoContent(c)
}

// register creates a user
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "New user"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} errors.ProblemDetails
// @Router /api/users/ [post]
func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	user, err := s.identities.Register(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.Created(c, models.NewUserResponse(user, false))
}

// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} responses.Page[models.UserResponse]
// @Router /api/users/ [get]
func (s *Server) listUsers(c *gin.Context) {
	var query models.PageQuery
	if err := apiutil.BindQuery(c, &query); err != nil {
		s.writeError(c, err)
		return
	}
	page, limit := s.pagination(query.Page, query.Limit)

	users, total, err := s.identities.ListUsers(c.Request.Context(), viewerID(c), page, limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.Paginated(c, users, total, page, limit)
}

// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} errors.ProblemDetails
// @Router /api/users/{id}/ [get]
func (s *Server) getUser(c *gin.Context) {
	id, err := apiutil.IDParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	user, err := s.identities.GetUser(c.Request.Context(), viewerID(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, user)
}

// @Summary Current user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} errors.ProblemDetails
// @Router /api/users/me/ [get]
func (s *Server) me(c *gin.Context) {
	id := viewerID(c)
	user, err := s.identities.GetUser(c.Request.Context(), id, id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, user)
}

// @Summary Change password
// @Tags users
// @Security BearerAuth
// @Accept json
// @Param request body models.SetPasswordRequest true "Passwords"
// @Success 204
// @Failure 400 {object} errors.ProblemDetails
// @Router /api/users/set_password/ [post]
func (s *Server) setPassword(c *gin.Context) {
	var req models.SetPasswordRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.identities.SetPassword(c.Request.Context(), viewerID(c), &req); err != nil {
		s.writeError(c, err)
		return
	}
	responses.NoContent(c)
}

// @Summary Followed authors
// @Tags subscriptions
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes shown per author"
// @Success 200 {object} responses.Page[models.AuthorResponse]
// @Router /api/users/subscriptions/ [get]
func (s *Server) listSubscriptions(c *gin.Context) {
	var query models.PageQuery
	if err := apiutil.BindQuery(c, &query); err != nil {
		s.writeError(c, err)
		return
	}
	page, limit := s.pagination(query.Page, query.Limit)

	authors, total, err := s.identities.ListSubscriptions(c.Request.Context(), viewerID(c), page, limit, query.RecipesLimit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.Paginated(c, authors, total, page, limit)
}

// @Summary Follow an author
// @Tags subscriptions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Author id"
// @Param recipes_limit query int false "Recipes shown"
// @Success 201 {object} models.AuthorResponse
// @Failure 400 {object} errors.ProblemDetails
// @Failure 404 {object} errors.ProblemDetails
// @Router /api/users/{id}/subscribe/ [post]
func (s *Server) subscribe(c *gin.Context) {
	authorID, err := apiutil.IDParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var query models.PageQuery
	if err := apiutil.BindQuery(c, &query); err != nil {
		s.writeError(c, err)
		return
	}

	author, err := s.identities.Subscribe(c.Request.Context(), viewerID(c), authorID, query.RecipesLimit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.Created(c, author)
}

// @Summary Unfollow an author
// @Tags subscriptions
// @Security BearerAuth
// @Param id path int true "Author id"
// @Success 204
// @Failure 400 {object} errors.ProblemDetails
// @Failure 404 {object} errors.ProblemDetails
// @Router /api/users/{id}/subscribe/ [delete]
func (s *Server) unsubscribe(c *gin.Context) {
	authorID, err := apiutil.IDParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.identities.Unsubscribe(c.Request.Context(), viewerID(c), authorID); err != nil {
		s.writeError(c, err)
		return
	}
	responses.NoContent(c)
}
