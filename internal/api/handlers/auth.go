package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalogsync/internal/auth"
)

const sessionCookie = "catalogsync_session"

type AuthHandler struct {
	auth *auth.Authenticator
}

func NewAuthHandler(a *auth.Authenticator) *AuthHandler {
	return &AuthHandler{auth: a}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	session, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.SetCookie(sessionCookie, session.Token, int(sessionTTLSeconds), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": session.Token, "expires_at": session.ExpiresAt})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := sessionToken(c)
	if token != "" {
		_ = h.auth.Logout(token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) Check(c *gin.Context) {
	token := sessionToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	session, err := h.auth.Check(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "expires_at": session.ExpiresAt})
}

const sessionTTLSeconds = 24 * 60 * 60

func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		return token
	}
	return c.GetHeader("Authorization")
}
