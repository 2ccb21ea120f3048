package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-companion/backend/internal/metrics"
	"github.com/pageza/recipe-companion/backend/internal/middleware"
	"github.com/pageza/recipe-companion/backend/internal/service"
	"github.com/pageza/recipe-companion/backend/internal/session"
	"github.com/pageza/recipe-companion/backend/internal/types"
	"github.com/pageza/recipe-companion/backend/internal/typewriter"
)

type RecipeHandler struct {
	recipes service.RecipeGenerator
	store   session.Store
	limiter middleware.Limiter
	metrics *metrics.Metrics
	logger  *zap.Logger
	delay   time.Duration
}

func NewRecipeHandler(recipes service.RecipeGenerator, store session.Store, m *metrics.Metrics, logger *zap.Logger, delay time.Duration) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		store:   store,
		metrics: m,
		logger:  logger,
		delay:   delay,
	}
}

// NewRecipeHandlerWithRateLimit creates a handler whose generation routes are limited per client
func NewRecipeHandlerWithRateLimit(recipes service.RecipeGenerator, store session.Store, limiter middleware.Limiter, m *metrics.Metrics, logger *zap.Logger, delay time.Duration) *RecipeHandler {
	h := NewRecipeHandler(recipes, store, m, logger, delay)
	h.limiter = limiter
	return h
}

// instructionsKey holds the trimmed instructions between requireInstructions and the handler
const instructionsKey = "recipe_instructions"

// RegisterRoutes checks for instructions before the rate limit so blank
// submissions do not use up a client's budget.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")

	create := []gin.HandlerFunc{h.requireInstructions(false)}
	stream := []gin.HandlerFunc{h.requireInstructions(true)}
	if h.limiter != nil {
		limit := middleware.RateLimit(h.limiter, h.logger)
		create = append(create, limit)
		stream = append(stream, limit)
	}
	recipes.POST("", append(create, h.CreateRecipe)...)
	recipes.GET("/stream", append(stream, h.StreamRecipe)...)
}

// requireInstructions rejects requests without instructions. The page posts a
// form, JSON clients send a body and the stream reads the query string.
func (h *RecipeHandler) requireInstructions(fromQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw string
		if fromQuery {
			raw = c.Query("instructions")
		} else {
			var req types.GenerateRecipeRequest
			if err := c.ShouldBind(&req); err != nil {
				respondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
				c.Abort()
				return
			}
			raw = req.Value()
		}

		instructions := strings.TrimSpace(raw)
		if instructions == "" {
			middleware.PageState(c).Alert = service.EmptyInstructionsMessage
			body := types.ErrorResponse{Error: "empty_instructions", Message: service.EmptyInstructionsMessage}
			if fromQuery {
				c.AbortWithStatusJSON(http.StatusBadRequest, body)
			} else {
				respond(c, http.StatusBadRequest, body)
				c.Abort()
			}
			return
		}

		c.Set(instructionsKey, instructions)
		c.Next()
	}
}

// CreateRecipe generates a recipe for the submitted instructions
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	recipe, err := h.generate(c, c.GetString(instructionsKey))
	if err != nil {
		status, body := h.errorResponse(c, err)
		respond(c, status, body)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"topic": recipe.Instructions,
		"html":  recipe.HTML,
		"text":  recipe.Text,
	})
}

// StreamRecipe generates a recipe and reveals it as server-sent events: one
// loading event, a frame per revealed chunk, then done.
func (h *RecipeHandler) StreamRecipe(c *gin.Context) {
	instructions := c.GetString(instructionsKey)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event string, data any) {
		c.SSEvent(event, data)
		c.Writer.Flush()
	}

	send("loading", service.LoadingMessage(instructions))

	recipe, err := h.generate(c, instructions)
	if err != nil {
		_, body := h.errorResponse(c, err)
		send("error", body)
		return
	}

	err = typewriter.Reveal(c.Request.Context(), recipe.HTML, h.delay, func(chunk string) error {
		send("frame", chunk)
		return nil
	})
	if err != nil {
		h.logger.Debug("recipe stream stopped", zap.Error(err), zap.String("request_id", middleware.RequestID(c)))
		return
	}

	send("done", gin.H{"topic": recipe.Instructions})
}

// generate runs one recipe request for the session. The submit control and the
// in-flight marker are restored however the request ends. The outbound call is
// cut off before the marker can expire.
func (h *RecipeHandler) generate(c *gin.Context, instructions string) (*service.Recipe, error) {
	ctx := c.Request.Context()
	id := middleware.SessionID(c)
	state := middleware.PageState(c)

	token, err := h.store.BeginGeneration(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := h.store.EndGeneration(context.WithoutCancel(ctx), id, token); err != nil {
			h.logger.Error("failed to clear in-flight marker", zap.String("session_id", id), zap.Error(err))
		}
		state.EndGenerating()
	}()

	state.BeginGenerating(instructions, service.LoadingMessage(instructions))
	// Other tabs of the same session see the disabled control while we wait
	if err := h.store.Save(ctx, id, state); err != nil {
		h.logger.Warn("failed to save generating state", zap.String("session_id", id), zap.Error(err))
	}

	genCtx, cancel := context.WithTimeout(ctx, session.MaxGenerationTime)
	defer cancel()

	start := time.Now()
	recipe, err := h.recipes.GenerateRecipe(genCtx, instructions)
	if err != nil {
		h.metrics.RecipeRequest("error", time.Since(start))
		state.RecipeHTML = ""
		state.RecipeMessage = service.ApologyMessage
		return nil, err
	}

	h.metrics.RecipeRequest("ok", time.Since(start))
	state.RecipeHTML = recipe.HTML
	state.RecipeMessage = ""
	return recipe, nil
}

func (h *RecipeHandler) errorResponse(c *gin.Context, err error) (int, types.ErrorResponse) {
	switch {
	case errors.Is(err, session.ErrGenerationInFlight):
		return http.StatusConflict, types.ErrorResponse{Error: "generation_in_flight", Message: err.Error()}
	case errors.Is(err, service.ErrEmptyInstructions):
		return http.StatusBadRequest, types.ErrorResponse{Error: "empty_instructions", Message: service.EmptyInstructionsMessage}
	case errors.Is(err, service.ErrRequestFailed):
		h.logger.Warn("recipe generation failed",
			zap.Error(err),
			zap.String("session_id", middleware.SessionID(c)),
			zap.String("request_id", middleware.RequestID(c)))
		return http.StatusBadGateway, types.ErrorResponse{Error: "recipe_request_failed", Message: service.ApologyMessage}
	default:
		h.logger.Error("session store failed", zap.Error(err), zap.String("session_id", middleware.SessionID(c)))
		return http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "session_unavailable",
			Message: "Session storage is unavailable. Please try again later.",
		}
	}
}
