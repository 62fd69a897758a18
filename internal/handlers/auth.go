package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/middleware"
	"github.com/casalabia/realtor-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	sessionCfg  config.SessionConfig
}

func NewAuthHandler(authService services.AuthService, sessionCfg config.SessionConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		log:         log.With("handler", "AuthHandler"),
		authService: authService,
		sessionCfg:  sessionCfg,
	}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := ah.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, session, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	ah.setSessionCookie(c, session.ID.String(), int(ah.sessionCfg.IdleTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	sessionID, ok := middleware.SessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}
	if err := ah.authService.Logout(c.Request.Context(), sessionID); err != nil {
		respondError(c, ah.log, err)
		return
	}
	ah.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ah *AuthHandler) LogoutAll(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}
	if err := ah.authService.LogoutAll(c.Request.Context(), userID); err != nil {
		respondError(c, ah.log, err)
		return
	}
	ah.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ah *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}
	user, err := ah.authService.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// setSessionCookie writes the opaque session cookie. HttpOnly always;
// Secure only outside development so local HTTP still works.
func (ah *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ah.sessionCfg.CookieName, value, maxAge, "/", "", ah.sessionCfg.SecureCookie, true)
}
