package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-companion/backend/internal/cuisine"
	"github.com/pageza/recipe-companion/backend/internal/metrics"
	"github.com/pageza/recipe-companion/backend/internal/middleware"
	"github.com/pageza/recipe-companion/backend/internal/service"
	"github.com/pageza/recipe-companion/backend/internal/session"
	"github.com/pageza/recipe-companion/backend/internal/types"
)

// Dependencies is everything the handlers need
type Dependencies struct {
	Recipes service.RecipeGenerator
	Store   session.Store
	Issuer  *session.TokenIssuer
	// Limiter guards recipe generation; nil disables rate limiting
	Limiter         middleware.Limiter
	Menu            *cuisine.Menu
	Metrics         *metrics.Metrics
	Logger          *zap.Logger
	TypewriterDelay time.Duration
	SecureCookies   bool
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Recipe Companion API is running",
		"version": "v1.0.0",
	})
}

// RegisterRoutes registers all routes. The page and the API share the session middleware.
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	// Health check and metrics need no session
	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	app := router.Group("")
	app.Use(middleware.Session(deps.Issuer, deps.Store, middleware.SessionOptions{Secure: deps.SecureCookies}, deps.Logger))

	NewPageHandler(deps.Menu).RegisterRoutes(app)

	var recipeHandler *RecipeHandler
	if deps.Limiter != nil {
		recipeHandler = NewRecipeHandlerWithRateLimit(deps.Recipes, deps.Store, deps.Limiter, deps.Metrics, deps.Logger, deps.TypewriterDelay)
	} else {
		recipeHandler = NewRecipeHandler(deps.Recipes, deps.Store, deps.Metrics, deps.Logger, deps.TypewriterDelay)
	}

	v1 := app.Group("/api/v1")
	NewCalorieHandler(deps.Metrics, deps.Logger).RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	NewCuisineHandler(deps.Menu, deps.Metrics, deps.Logger).RegisterRoutes(v1)
	v1.GET("/session", SessionState)
}

// wantsHTML reports whether the caller is a browser form post rather than an API client
func wantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

// respond sends body as JSON, or sends a browser back to the page, which renders
// the updated session state.
func respond(c *gin.Context, status int, body any) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, code, message string) {
	respond(c, status, types.ErrorResponse{Error: code, Message: message})
}
