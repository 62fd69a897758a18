package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/repos"
	"github.com/casalabia/realtor-backend/internal/services"
	"github.com/casalabia/realtor-backend/internal/types"
)

// Gin context keys set by RequireAuth.
const (
	ContextUserID    = "auth_user_id"
	ContextSessionID = "auth_session_id"
)

type AuthMiddleware struct {
	log      *logger.Logger
	sessions services.SessionService
	users    repos.UserRepo
	cfg      config.SessionConfig
}

func NewAuthMiddleware(sessions services.SessionService, users repos.UserRepo, cfg config.SessionConfig, log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		log:      log.With("middleware", "AuthMiddleware"),
		sessions: sessions,
		users:    users,
		cfg:      cfg,
	}
}

// RequireAuth resolves the session cookie. Validation renews the sliding
// idle window as a side effect, so authenticated traffic keeps the session
// alive without an explicit refresh endpoint.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(am.cfg.CookieName)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			return
		}
		sessionID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		session, err := am.sessions.Validate(c.Request.Context(), sessionID)
		if err != nil {
			am.log.Error("Session validation failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		// A user blocked mid-session loses access immediately, not at
		// session expiry.
		user, err := am.users.GetByID(c.Request.Context(), nil, session.UserID)
		if err != nil {
			am.log.Error("User lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		if user.Status == types.UserStatusBlocked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account blocked"})
			return
		}
		c.Set(ContextUserID, session.UserID)
		c.Set(ContextSessionID, session.ID)
		c.Next()
	}
}

// UserID reads the authenticated user set by RequireAuth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}

// SessionID reads the authenticated session set by RequireAuth.
func SessionID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(ContextSessionID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}
