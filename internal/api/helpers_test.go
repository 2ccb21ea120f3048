package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipe-companion/backend/internal/cuisine"
	"github.com/pageza/recipe-companion/backend/internal/metrics"
	"github.com/pageza/recipe-companion/backend/internal/middleware"
	"github.com/pageza/recipe-companion/backend/internal/mocks"
	"github.com/pageza/recipe-companion/backend/internal/session"
	"github.com/pageza/recipe-companion/backend/internal/types"
	"github.com/pageza/recipe-companion/backend/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	t       *testing.T
	router  *gin.Engine
	store   *session.MemoryStore
	recipes *mocks.MockRecipeGenerator
	cookie  *http.Cookie
}

func newTestApp(t *testing.T, limiter middleware.Limiter) *testApp {
	return newTestAppWithStore(t, limiter, session.NewMemoryStore(time.Hour))
}

// newTestAppWithStore builds the app over store. app.store is only set for the memory store.
func newTestAppWithStore(t *testing.T, limiter middleware.Limiter, store session.Store) *testApp {
	t.Helper()
	issuer, err := session.NewTokenIssuer("api-test-session-secret", time.Hour)
	require.NoError(t, err)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	app := &testApp{
		t:       t,
		router:  gin.New(),
		recipes: &mocks.MockRecipeGenerator{},
	}
	if mem, ok := store.(*session.MemoryStore); ok {
		app.store = mem
	}
	app.router.SetHTMLTemplate(tmpl)
	RegisterRoutes(app.router, Dependencies{
		Recipes: app.recipes,
		Store:   store,
		Issuer:  issuer,
		Limiter: limiter,
		Menu:    cuisine.NewMenu(cuisine.DefaultCatalog),
		Metrics: metrics.New(),
		Logger:  zap.NewNop(),
	})
	return app
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	a.t.Helper()
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			a.cookie = ck
		}
	}
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postJSON(path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	data, err := json.Marshal(body)
	require.NoError(a.t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return a.do(req)
}

// postForm submits like a browser: urlencoded body, HTML preferred
func (a *testApp) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	return a.do(req)
}

type sessionBody struct {
	SessionID string          `json:"session_id"`
	State     types.PageState `json:"state"`
}

func (a *testApp) session() sessionBody {
	a.t.Helper()
	w := a.get("/api/v1/session")
	require.Equal(a.t, http.StatusOK, w.Code)
	var body sessionBody
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	return v
}
