package types

import (
	"time"
)

const (
	// DefaultSubmitLabel is the recipe button text when idle
	DefaultSubmitLabel = "Generate Recipe"
	// GeneratingSubmitLabel is the recipe button text while a request is in flight
	GeneratingSubmitLabel = "Generating..."
)

// SubmitControl is the recipe form's submit button
type SubmitControl struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// PageState is everything the page shows for one browser session. Alert is
// shown once on the next page render, then cleared.
type PageState struct {
	OpenCard       string        `json:"open_card"`
	Topic          string        `json:"topic"`
	Submit         SubmitControl `json:"submit"`
	CalorieMessage string        `json:"calorie_message"`
	RecipeHTML     string        `json:"recipe_html"`
	RecipeMessage  string        `json:"recipe_message"`
	Alert          string        `json:"alert,omitempty"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewPageState returns the state of a freshly loaded page
func NewPageState() *PageState {
	return &PageState{
		Submit: SubmitControl{Label: DefaultSubmitLabel},
	}
}

// BeginGenerating disables the submit control and shows the loading message
func (p *PageState) BeginGenerating(topic, loading string) {
	p.Topic = topic
	p.Submit = SubmitControl{Label: GeneratingSubmitLabel, Disabled: true}
	p.RecipeHTML = ""
	p.RecipeMessage = loading
}

// EndGenerating restores the submit control whatever the outcome
func (p *PageState) EndGenerating() {
	p.Submit = SubmitControl{Label: DefaultSubmitLabel}
}
