package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *RecipeService {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	svc, err := NewRecipeService(ts.URL+"/ai/v1/generate", "test-key", 0, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestNewRecipeService(t *testing.T) {
	t.Run("should fail without API key", func(t *testing.T) {
		svc, err := NewRecipeService("https://example.test/generate", "", 0, nil)
		assert.Error(t, err)
		assert.Nil(t, svc)
		assert.Contains(t, err.Error(), "recipe API key must be set")
	})

	t.Run("should fail with a relative URL", func(t *testing.T) {
		_, err := NewRecipeService("generate", "k", 0, nil)
		assert.Error(t, err)
	})

	t.Run("should create service", func(t *testing.T) {
		svc, err := NewRecipeService("https://example.test/generate", "k", 5*time.Second, nil)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, svc.client.Timeout)
		assert.NotNil(t, svc.logger)
	})
}

func TestGenerateRecipe_SendsQuery(t *testing.T) {
	var gotQuery map[string]string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/ai/v1/generate", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"prompt":  q.Get("prompt"),
			"context": q.Get("context"),
			"key":     q.Get("key"),
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"question":"q","context":"c","answer":"<h1>Pasta &amp; peas</h1><p>Boil.</p><strong>Thank You</strong>"}`)
	})

	recipe, err := svc.GenerateRecipe(context.Background(), "  pasta with peas ")
	require.NoError(t, err)

	assert.Equal(t, "User instructions are: Generate a recipe for pasta with peas", gotQuery["prompt"])
	assert.Equal(t, RecipeContext, gotQuery["context"])
	assert.Equal(t, "test-key", gotQuery["key"])

	assert.Equal(t, "pasta with peas", recipe.Instructions)
	assert.Contains(t, recipe.HTML, "<strong>Thank You</strong>")
	assert.Contains(t, recipe.HTML, "&amp;")
	assert.Equal(t, "Pasta & peasBoil.Thank You", recipe.Text)
}

func TestGenerateRecipe_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `not json`)
			},
		},
		{
			name: "missing answer",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"question":"q"}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.handler)
			recipe, err := svc.GenerateRecipe(context.Background(), "tacos")
			assert.Nil(t, recipe)
			assert.True(t, errors.Is(err, ErrRequestFailed), "got %v", err)
		})
	}

	t.Run("transport error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		ts.Close()
		svc, err := NewRecipeService(ts.URL, "k", 0, nil)
		require.NoError(t, err)

		_, err = svc.GenerateRecipe(context.Background(), "tacos")
		assert.ErrorIs(t, err, ErrRequestFailed)
	})
}

func TestGenerateRecipe_EmptyInstructions(t *testing.T) {
	called := false
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := svc.GenerateRecipe(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyInstructions)
	assert.False(t, called)
}

func TestGenerateRecipe_ContextCancelled(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.GenerateRecipe(ctx, "ramen")
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSanitizeFragment(t *testing.T) {
	in := `<h2 onclick="steal()">Soup</h2><script>alert(1)</script>` +
		`<a href="javascript:alert(1)">x</a><img src="pic.png" onerror="bad()"><style>p{}</style><p>Stir</p>`

	html, text, err := SanitizeFragment(in)
	require.NoError(t, err)

	assert.NotContains(t, html, "script")
	assert.NotContains(t, html, "onclick")
	assert.NotContains(t, html, "onerror")
	assert.NotContains(t, html, "javascript:")
	assert.NotContains(t, html, "<style>")
	assert.Contains(t, html, `<h2>Soup</h2>`)
	assert.Contains(t, html, `<img src="pic.png"/>`)
	assert.Contains(t, html, "<p>Stir</p>")
	assert.Equal(t, "SoupxStir", text)
}

func TestSanitizeFragment_URLSchemes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		keep bool
	}{
		{"plain javascript", `<a href="javascript:alert(1)">x</a>`, false},
		{"tab inside scheme", `<a href="java&#9;script:alert(1)">x</a>`, false},
		{"newline inside scheme", `<a href="java&#10;script:alert(1)">x</a>`, false},
		{"leading control character", `<a href="&#1;javascript:alert(1)">x</a>`, false},
		{"mixed case and spaces", `<a href="  JaVa ScRiPt:alert(1)">x</a>`, false},
		{"encoded colon", `<a href="javascript&colon;alert(1)">x</a>`, false},
		{"vbscript", `<a href="vbscript:msgbox(1)">x</a>`, false},
		{"data url", `<img src="data:text/html;base64,PHNjcmlwdD4=">`, false},
		{"https", `<a href="https://example.com/pasta">x</a>`, true},
		{"mailto", `<a href="mailto:chef@example.com">x</a>`, true},
		{"relative path", `<a href="/recipes/pasta">x</a>`, true},
		{"colon after path", `<a href="notes/time:10">x</a>`, true},
		{"fragment", `<a href="#step-2">x</a>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, _, err := SanitizeFragment(tt.in)
			require.NoError(t, err)

			hasURL := strings.Contains(html, "href=") || strings.Contains(html, "src=")
			assert.Equal(t, tt.keep, hasURL, html)
		})
	}
}

func TestBuildPromptAndLoadingMessage(t *testing.T) {
	assert.Equal(t, "User instructions are: Generate a recipe for sushi", BuildPrompt("sushi"))
	assert.Equal(t, "Generating recipe for sushi...", LoadingMessage("sushi"))
}
