package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.CalorieCalculation("ok")
	m.CalorieCalculation("ok")
	m.CalorieCalculation("age_out_of_range")
	m.RecipeRequest("ok", 250*time.Millisecond)
	m.MenuEvent("toggle")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calorieCalculations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calorieCalculations.WithLabelValues("age_out_of_range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recipeRequests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.menuEvents.WithLabelValues("toggle")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.MenuEvent("select")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `recipe_companion_cuisine_menu_events_total{action="select"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNewIsolatedRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
