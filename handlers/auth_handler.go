package handlers

import (
	"net/http"
	"time"

	"photoquiz/middleware"
	"photoquiz/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GoogleLogin redirects the browser to the Google consent screen. The
// state nonce is pinned in a short-lived cookie and checked on callback.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()

	authURL, err := h.authService.GoogleAuthURL(state)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(oauthStateCookie, state, int(10*time.Minute/time.Second), "/", "", false, true)
	c.Redirect(http.StatusFound, authURL)
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	_, token, err := h.authService.GoogleSignIn(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)
	setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/quizzes")
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookie, token, int(7*24*time.Hour/time.Second), "/", "", false, true)
}
