package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-companion/backend/internal/calorie"
	"github.com/pageza/recipe-companion/backend/internal/cuisine"
	"github.com/pageza/recipe-companion/backend/internal/middleware"
	"github.com/pageza/recipe-companion/backend/internal/types"
)

// PageTemplate is the name the page is registered under with the router
const PageTemplate = "index.html"

type PageHandler struct {
	menu *cuisine.Menu
}

func NewPageHandler(menu *cuisine.Menu) *PageHandler {
	return &PageHandler{menu: menu}
}

func (h *PageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", h.Index)
}

type pageView struct {
	State          types.PageState
	Cards          []cuisine.Card
	ActivityLevels []calorie.ActivityLevel
	// Recipe was sanitized when it was generated
	Recipe template.HTML
}

// Index renders the page from the session state
func (h *PageHandler) Index(c *gin.Context) {
	state := middleware.PageState(c)
	view := pageView{
		State:          *state,
		Cards:          h.menu.View(cuisine.State{OpenCard: state.OpenCard}),
		ActivityLevels: calorie.ActivityLevels,
		Recipe:         template.HTML(state.RecipeHTML),
	}
	state.Alert = ""

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, PageTemplate, view)
}
