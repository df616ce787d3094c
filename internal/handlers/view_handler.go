package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/payways/internal/models"
	"github.com/akylbek/payment-system/payways/internal/service"
)

type ViewHandler struct {
	sessions *service.SessionController
}

func NewViewHandler(sessions *service.SessionController) *ViewHandler {
	return &ViewHandler{sessions: sessions}
}

func (h *ViewHandler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"screen": currentSession(c).Screen()})
}

func (h *ViewHandler) SetView(c *gin.Context) {
	var req struct {
		Screen models.Screen `json:"screen"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s := currentSession(c)
	if err := h.sessions.SetScreen(s, req.Screen); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"screen": s.Screen()})
}
