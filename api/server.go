package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Aidin1998/foodgram/common/apiutil"
	"github.com/Aidin1998/foodgram/common/auth"
	_ "github.com/Aidin1998/foodgram/docs"
	"github.com/Aidin1998/foodgram/internal/config"
	"github.com/Aidin1998/foodgram/internal/identities"
	"github.com/Aidin1998/foodgram/internal/recipes"
	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/Aidin1998/foodgram/pkg/validation"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Pinger reports database reachability for the health check
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server represents the API server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	cfg        *config.Config
	tokens     *auth.TokenManager
	identities identities.IdentityService
	recipes    recipes.RecipeService
	db         Pinger
}

// NewServer creates a new API server with injected services
func NewServer(
	logger *zap.Logger,
	cfg *config.Config,
	tokens *auth.TokenManager,
	identitySvc identities.IdentityService,
	recipeSvc recipes.RecipeService,
	db Pinger,
) *Server {
	server := &Server{
		logger:     logger,
		cfg:        cfg,
		tokens:     tokens,
		identities: identitySvc,
		recipes:    recipeSvc,
		db:         db,
	}

	binding.Validator = validation.NewValidator(logger)

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(apiutil.TraceMiddleware())
	router.Use(apiutil.MetricsMiddleware())
	router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	router.Use(cors.New(corsConfig(cfg.CORS)))
	router.Use(apiutil.RFC7807ErrorMiddleware(logger))

	server.router = router
	server.registerRoutes()

	server.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return server
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", apiutil.TraceHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", apiutil.TraceHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.AllowedOrigins
	c.AllowCredentials = true
	return c
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the internal Gin engine for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.router.Group("/api")
	api.Use(auth.Authenticate(s.logger, s.tokens))

	token := api.Group("/auth/token")
	{
		token.POST("/login/", s.login)
		token.POST("/logout/", auth.RequireUser(), s.logout)
	}

	users := api.Group("/users")
	{
		users.GET("/", s.listUsers)
		users.POST("/", s.register)
		users.GET("/me/", auth.RequireUser(), s.me)
		users.POST("/set_password/", auth.RequireUser(), s.setPassword)
		users.GET("/subscriptions/", auth.RequireUser(), s.listSubscriptions)
		users.GET("/:id/", s.getUser)
		users.POST("/:id/subscribe/", auth.RequireUser(), s.subscribe)
		users.DELETE("/:id/subscribe/", auth.RequireUser(), s.unsubscribe)
	}

	tags := api.Group("/tags")
	{
		tags.GET("/", s.listTags)
		tags.GET("/:id/", s.getTag)
	}

	ingredients := api.Group("/ingredients")
	{
		ingredients.GET("/", s.listIngredients)
		ingredients.GET("/:id/", s.getIngredient)
	}

	recipeRoutes := api.Group("/recipes")
	recipeRoutes.Use(auth.ReadOnlyOrUser())
	{
		recipeRoutes.GET("/", s.listRecipes)
		recipeRoutes.POST("/", s.createRecipe)
		recipeRoutes.GET("/download_shopping_cart/", auth.RequireUser(), s.downloadShoppingCart)
		recipeRoutes.GET("/:id/", s.getRecipe)
		recipeRoutes.PATCH("/:id/", s.updateRecipe)
		recipeRoutes.DELETE("/:id/", s.deleteRecipe)
		recipeRoutes.POST("/:id/favorite/", s.addRelation(recipes.Favorites))
		recipeRoutes.DELETE("/:id/favorite/", s.removeRelation(recipes.Favorites))
		recipeRoutes.POST("/:id/shopping_cart/", s.addRelation(recipes.ShoppingCart))
		recipeRoutes.DELETE("/:id/shopping_cart/", s.removeRelation(recipes.ShoppingCart))
	}
}

// healthCheck handles the health check endpoint
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} errors.ProblemDetails
// @Router /health [get]
func (s *Server) healthCheck(c *gin.Context) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.writeError(c, errors.Unavailable.Explain("database unavailable").Wrap(err))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.cfg.Version,
		"time":    time.Now(),
	})
}

// writeError renders err as a problem response
func (s *Server) writeError(c *gin.Context, err error) {
	apiutil.WriteError(c, s.logger, err)
}

// pagination normalises page and limit against the configured bounds
func (s *Server) pagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.cfg.Pagination.DefaultLimit
	}
	if limit > s.cfg.Pagination.MaxLimit {
		limit = s.cfg.Pagination.MaxLimit
	}
	return page, limit
}

// viewerID returns the caller's user id, or 0 for anonymous requests
func viewerID(c *gin.Context) uint {
	id, _ := auth.UserID(c)
	return id
}
