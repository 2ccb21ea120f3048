package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-companion/backend/internal/cuisine"
	"github.com/pageza/recipe-companion/backend/internal/metrics"
	"github.com/pageza/recipe-companion/backend/internal/middleware"
	"github.com/pageza/recipe-companion/backend/internal/types"
)

type CuisineHandler struct {
	menu    *cuisine.Menu
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewCuisineHandler(menu *cuisine.Menu, m *metrics.Metrics, logger *zap.Logger) *CuisineHandler {
	return &CuisineHandler{menu: menu, metrics: m, logger: logger}
}

func (h *CuisineHandler) RegisterRoutes(router *gin.RouterGroup) {
	cuisines := router.Group("/cuisines")
	{
		cuisines.GET("", h.ListCuisines)
		cuisines.POST("/close", h.CloseAll)
		cuisines.POST("/:cuisine/toggle", h.Toggle)
		cuisines.POST("/:cuisine/select", h.Select)
	}
}

func (h *CuisineHandler) menuBody(state *types.PageState) gin.H {
	return gin.H{
		"open_card": state.OpenCard,
		"topic":     state.Topic,
		"cards":     h.menu.View(cuisine.State{OpenCard: state.OpenCard}),
	}
}

// ListCuisines returns every card as the session currently sees it
func (h *CuisineHandler) ListCuisines(c *gin.Context) {
	c.JSON(http.StatusOK, h.menuBody(middleware.PageState(c)))
}

// Toggle opens or closes a card, closing any other open card
func (h *CuisineHandler) Toggle(c *gin.Context) {
	state := middleware.PageState(c)
	menuState := cuisine.State{OpenCard: state.OpenCard}

	if err := h.menu.Toggle(&menuState, c.Param("cuisine")); err != nil {
		h.fail(c, err)
		return
	}

	h.metrics.MenuEvent("toggle")
	state.OpenCard = menuState.OpenCard
	respond(c, http.StatusOK, h.menuBody(state))
}

// Select makes a suggested dish the recipe topic and closes the menu
func (h *CuisineHandler) Select(c *gin.Context) {
	state := middleware.PageState(c)

	var req types.SelectDishRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "A dish is required")
		return
	}

	menuState := cuisine.State{OpenCard: state.OpenCard}
	topic, err := h.menu.Select(&menuState, c.Param("cuisine"), req.Dish)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.metrics.MenuEvent("select")
	state.OpenCard = menuState.OpenCard
	state.Topic = topic
	respond(c, http.StatusOK, h.menuBody(state))
}

// CloseAll handles a click outside the menu
func (h *CuisineHandler) CloseAll(c *gin.Context) {
	state := middleware.PageState(c)
	menuState := cuisine.State{OpenCard: state.OpenCard}

	h.menu.CloseAll(&menuState)

	h.metrics.MenuEvent("close")
	state.OpenCard = menuState.OpenCard
	respond(c, http.StatusOK, h.menuBody(state))
}

func (h *CuisineHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cuisine.ErrUnknownCard):
		respondError(c, http.StatusNotFound, "unknown_cuisine", err.Error())
	case errors.Is(err, cuisine.ErrUnknownDish):
		respondError(c, http.StatusUnprocessableEntity, "unknown_dish", err.Error())
	case errors.Is(err, cuisine.ErrCardClosed):
		respondError(c, http.StatusUnprocessableEntity, "cuisine_closed", err.Error())
	default:
		h.logger.Error("cuisine menu failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "Internal Server Error")
	}
}
