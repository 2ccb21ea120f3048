package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-companion/backend/internal/session"
	"github.com/pageza/recipe-companion/backend/internal/types"
)

const (
	// SessionCookie holds the signed session token
	SessionCookie = "rc_session"

	sessionIDKey = "session_id"
	pageStateKey = "page_state"
)

// SessionOptions configures the session cookie
type SessionOptions struct {
	Secure bool
}

// Session resolves the browser session from its cookie, minting a new one when
// the cookie is missing or invalid. The page state is loaded before the handler
// runs and saved after it returns.
func Session(issuer *session.TokenIssuer, store session.Store, opts SessionOptions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
			if sid, err := issuer.Verify(token); err == nil {
				id = sid
			} else {
				logger.Debug("discarding session cookie", zap.Error(err))
			}
		}

		if id == "" {
			sid, token, err := issuer.Issue()
			if err != nil {
				logger.Error("failed to issue session", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{
					Error:   "session_error",
					Message: "Could not start a session.",
				})
				return
			}
			id = sid
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, token, int(issuer.TTL().Seconds()), "/", "", opts.Secure, true)
		}

		state, err := store.Load(c.Request.Context(), id)
		if err != nil {
			logger.Error("failed to load session state", zap.String("session_id", id), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, types.ErrorResponse{
				Error:   "session_unavailable",
				Message: "Session storage is unavailable. Please try again later.",
			})
			return
		}

		c.Set(sessionIDKey, id)
		c.Set(pageStateKey, state)
		c.Next()

		// The client may already be gone; the state still has to be written
		ctx := context.WithoutCancel(c.Request.Context())
		if err := store.Save(ctx, id, state); err != nil {
			logger.Error("failed to save session state", zap.String("session_id", id), zap.Error(err))
		}
	}
}

// SessionID returns the id resolved by Session
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// PageState returns the state loaded by Session. Handlers mutate it in place.
func PageState(c *gin.Context) *types.PageState {
	if v, ok := c.Get(pageStateKey); ok {
		if state, ok := v.(*types.PageState); ok {
			return state
		}
	}
	return types.NewPageState()
}
