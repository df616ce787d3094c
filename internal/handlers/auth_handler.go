package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/payways/internal/models"
	"github.com/akylbek/payment-system/payways/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	sessions   *service.SessionController
	sessionTTL time.Duration
}

func NewAuthHandler(sessions *service.SessionController, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{sessions: sessions, sessionTTL: sessionTTL}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s, err := h.sessions.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setCookie(c, s.Token, int(h.sessionTTL.Seconds()))
	c.JSON(http.StatusCreated, sessionView(s))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setCookie(c, s.Token, int(h.sessionTTL.Seconds()))
	c.JSON(http.StatusOK, sessionView(s))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	s := currentSession(c)
	if err := h.sessions.Logout(c.Request.Context(), s.Token); err != nil {
		respondError(c, err)
		return
	}
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"screen": models.ScreenUnauthenticated})
}

func (h *AuthHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, sessionView(currentSession(c)))
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, value, maxAge, "/", "", false, true)
}

func sessionView(s *service.Session) gin.H {
	account := s.Account()
	return gin.H{
		"account": gin.H{
			"id":      account.ID,
			"email":   account.Email,
			"isAdmin": account.IsAdmin,
		},
		"screen": s.Screen(),
	}
}
