package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/pageza/recipe-companion/backend/internal/calorie"
	"github.com/pageza/recipe-companion/backend/internal/metrics"
	"github.com/pageza/recipe-companion/backend/internal/middleware"
)

type CalorieHandler struct {
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewCalorieHandler(m *metrics.Metrics, logger *zap.Logger) *CalorieHandler {
	return &CalorieHandler{metrics: m, logger: logger}
}

func (h *CalorieHandler) RegisterRoutes(router *gin.RouterGroup) {
	calories := router.Group("/calories")
	{
		calories.POST("", h.Calculate)
		calories.GET("/activity-levels", h.ActivityLevels)
	}
}

// fieldValue accepts a JSON string or a bare JSON number for a form field
type fieldValue string

func (f *fieldValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = fieldValue(s)
		return nil
	}
	*f = fieldValue(b)
	return nil
}

type calorieJSON struct {
	Age      fieldValue `json:"age"`
	Gender   string     `json:"gender"`
	Height   fieldValue `json:"height"`
	Weight   fieldValue `json:"weight"`
	Activity fieldValue `json:"activity"`
}

func bindCalorieForm(c *gin.Context) (calorie.Form, error) {
	if c.ContentType() == binding.MIMEJSON {
		var req calorieJSON
		if err := c.ShouldBindJSON(&req); err != nil {
			return calorie.Form{}, err
		}
		return calorie.Form{
			Age:      string(req.Age),
			Gender:   req.Gender,
			Height:   string(req.Height),
			Weight:   string(req.Weight),
			Activity: string(req.Activity),
		}, nil
	}
	var form calorie.Form
	err := c.ShouldBind(&form)
	return form, err
}

// Calculate runs the calorie form and stores the message on the page
func (h *CalorieHandler) Calculate(c *gin.Context) {
	state := middleware.PageState(c)

	form, err := bindCalorieForm(c)
	if err != nil {
		h.logger.Debug("invalid calorie request body", zap.Error(err))
		form = calorie.Form{}
	}

	result, err := calorie.Evaluate(form)
	if err != nil {
		verr, ok := calorie.AsValidationError(err)
		if !ok {
			h.logger.Error("calorie calculation failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "internal_error", "Internal Server Error")
			return
		}
		h.metrics.CalorieCalculation(verr.Code)
		state.CalorieMessage = verr.Message
		respondError(c, http.StatusUnprocessableEntity, verr.Code, verr.Message)
		return
	}

	h.metrics.CalorieCalculation("ok")
	state.CalorieMessage = result.Message()
	respond(c, http.StatusOK, gin.H{
		"daily_calories": result.DailyCalories,
		"message":        result.Message(),
	})
}

// ActivityLevels lists the multipliers offered by the form
func (h *CalorieHandler) ActivityLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"activity_levels": calorie.ActivityLevels})
}
