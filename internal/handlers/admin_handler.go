package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/payways/internal/service"
)

type AdminHandler struct {
	state *service.AppState
}

func NewAdminHandler(state *service.AppState) *AdminHandler {
	return &AdminHandler{state: state}
}

// Summary totals amounts across currencies without conversion.
func (h *AdminHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	summary := h.state.Ledger.Summary(ctx)
	c.JSON(http.StatusOK, gin.H{
		"totalTransactions": summary.TotalTransactions,
		"totalVolume":       summary.TotalVolume.StringFixed(2),
		"volumeCurrency":    "mixed",
		"countries":         len(h.state.Catalog.List(ctx)),
		"accounts":          h.state.Credentials.Count(),
	})
}
