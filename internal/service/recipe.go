package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// RecipeContext is the fixed instruction sent with every prompt
	RecipeContext = "You are an expert at recipes. Your mission is to generate a short and easy recipe in basic HTML. " +
		"Make sure to follow user instructions. Sign the recipe at the end with '<strong>Thank You</strong>' in bold"

	// ApologyMessage is shown when a recipe could not be generated
	ApologyMessage = "Sorry, we couldn't generate a recipe right now. Please try again later."

	// EmptyInstructionsMessage is shown when the topic field is blank
	EmptyInstructionsMessage = "Please enter what you'd like a recipe for!"
)

var (
	// ErrRequestFailed wraps every network or upstream failure
	ErrRequestFailed = errors.New("recipe request failed")
	// ErrEmptyInstructions is returned before any outbound call is made
	ErrEmptyInstructions = errors.New("recipe instructions are empty")
)

// RecipeResponse is the decoded upstream body
type RecipeResponse struct {
	Question string `json:"question"`
	Context  string `json:"context"`
	Answer   string `json:"answer"`
}

// Recipe is a generated recipe ready for display
type Recipe struct {
	Instructions string `json:"instructions"`
	HTML         string `json:"html"`
	Text         string `json:"text"`
}

// RecipeService calls the external recipe generation API
type RecipeService struct {
	apiKey string
	apiURL string
	client *http.Client
	logger *zap.Logger
}

// NewRecipeService creates a RecipeService. A zero timeout leaves requests
// bounded only by their context.
func NewRecipeService(apiURL, apiKey string, timeout time.Duration, logger *zap.Logger) (*RecipeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("recipe API key must be set")
	}
	if _, err := url.ParseRequestURI(apiURL); err != nil {
		return nil, fmt.Errorf("invalid recipe API URL: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

// BuildPrompt wraps the user's instructions in the prompt sentence
func BuildPrompt(instructions string) string {
	return fmt.Sprintf("User instructions are: Generate a recipe for %s", instructions)
}

// LoadingMessage is shown while a recipe is being generated
func LoadingMessage(instructions string) string {
	return fmt.Sprintf("Generating recipe for %s...", instructions)
}

// requestURL encodes prompt, context and key as query parameters
func (s *RecipeService) requestURL(instructions string) (string, error) {
	u, err := url.Parse(s.apiURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("prompt", BuildPrompt(instructions))
	q.Set("context", RecipeContext)
	q.Set("key", s.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// GenerateRecipe asks the API for a recipe. The answer is sanitised before it
// is returned. Failures are wrapped in ErrRequestFailed.
func (s *RecipeService) GenerateRecipe(ctx context.Context, instructions string) (*Recipe, error) {
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return nil, ErrEmptyInstructions
	}

	reqURL, err := s.requestURL(instructions)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request URL: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Info("Generating recipe", zap.String("instructions", instructions))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn("Recipe API returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, 512)))
		return nil, fmt.Errorf("%w: API request failed with status %d", ErrRequestFailed, resp.StatusCode)
	}

	var result RecipeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrRequestFailed, err)
	}
	if strings.TrimSpace(result.Answer) == "" {
		return nil, fmt.Errorf("%w: no answer in API response", ErrRequestFailed)
	}

	html, text, err := SanitizeFragment(result.Answer)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to sanitize answer: %w", ErrRequestFailed, err)
	}

	s.logger.Info("Recipe generated", zap.Int("html_bytes", len(html)))
	return &Recipe{Instructions: instructions, HTML: html, Text: text}, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
