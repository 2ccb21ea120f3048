package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipe-companion/backend/config"
	"github.com/pageza/recipe-companion/backend/internal/api"
	"github.com/pageza/recipe-companion/backend/internal/cuisine"
	"github.com/pageza/recipe-companion/backend/internal/metrics"
	"github.com/pageza/recipe-companion/backend/internal/middleware"
	"github.com/pageza/recipe-companion/backend/internal/service"
	"github.com/pageza/recipe-companion/backend/internal/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWith(t, &config.Config{
		ServerHost:     "127.0.0.1",
		ServerPort:     "0",
		AllowedOrigins: []string{"http://localhost:5173"},
	}, nil)
}

func newTestServerWith(t *testing.T, cfg *config.Config, limiter middleware.Limiter) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := session.NewTokenIssuer("server-test-secret", time.Hour)
	require.NoError(t, err)
	recipes, err := service.NewRecipeService("http://127.0.0.1:1/generate", "test-key", time.Second, zap.NewNop())
	require.NoError(t, err)

	srv, err := New(cfg, api.Dependencies{
		Recipes: recipes,
		Store:   session.NewMemoryStore(time.Hour),
		Issuer:  issuer,
		Limiter: limiter,
		Menu:    cuisine.NewMenu(cuisine.DefaultCatalog),
		Metrics: metrics.New(),
		Logger:  zap.NewNop(),
	})
	require.NoError(t, err)
	return srv
}

func TestNew(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestNew_PageRenders(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Body.String(), "Recipe Companion")
}

func TestNew_UpstreamDownReturnsApology(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/stream?instructions=pasta", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "event:error")
	assert.Contains(t, w.Body.String(), service.ApologyMessage)
}

func TestNew_ForwardedForIgnoredFromUntrustedPeers(t *testing.T) {
	limiter := middleware.NewLocalLimiter(middleware.RecipeGenerationLimit(1))
	srv := newTestServerWith(t, &config.Config{ServerPort: "0"}, limiter)

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/stream?instructions=pasta", nil)
		req.RemoteAddr = "192.0.2.10:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestNew_ForwardedForHonoredFromTrustedProxy(t *testing.T) {
	limiter := middleware.NewLocalLimiter(middleware.RecipeGenerationLimit(1))
	srv := newTestServerWith(t, &config.Config{ServerPort: "0", TrustedProxies: []string{"192.0.2.0/24"}}, limiter)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/stream?instructions=pasta", nil)
		req.RemoteAddr = "192.0.2.10:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestNew_InvalidTrustedProxy(t *testing.T) {
	_, err := New(&config.Config{TrustedProxies: []string{"not-an-ip"}}, api.Dependencies{Logger: zap.NewNop(), Metrics: metrics.New()})
	assert.Error(t, err)
}

func TestStartShutdown(t *testing.T) {
	srv := newTestServer(t)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start() }()

	// Give ListenAndServe a moment to bind
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
