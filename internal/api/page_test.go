package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	app := newTestApp(t, nil)
	w := app.get("/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.NotNil(t, app.cookie, "first visit starts a session")

	page := w.Body.String()
	assert.Contains(t, page, "Generate Recipe")
	assert.Equal(t, 8, strings.Count(page, "▼"))
	assert.Contains(t, page, "Moderately active (3-5 days/week)")
	assert.NotContains(t, page, "disabled>")
}

func TestIndex_AlertShownOnce(t *testing.T) {
	app := newTestApp(t, nil)
	app.postJSON("/api/v1/recipes", map[string]string{"instructions": ""})

	first := app.get("/").Body.String()
	assert.Contains(t, first, "Please enter what you&#39;d like a recipe for!")

	second := app.get("/").Body.String()
	assert.NotContains(t, second, "role=\"alert\"")
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t, nil)
	w := app.get("/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Nil(t, app.cookie, "health checks do not create sessions")
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, nil)
	app.postJSON("/api/v1/cuisines/Italian/toggle", nil)

	w := app.get("/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `recipe_companion_cuisine_menu_events_total{action="toggle"} 1`)
}
