package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payways/internal/models"
	"github.com/akylbek/payment-system/payways/internal/service"
	"github.com/akylbek/payment-system/payways/internal/telemetry"
)

// amountInput accepts both "12.50" and 12.50 and keeps the literal text so
// the decimal parser sees exactly what the client sent.
type amountInput string

func (a *amountInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		// true, {} or [] reach validation as text that is not a number
		*a = amountInput(b)
		return nil
	}
	*a = amountInput(n.String())
	return nil
}

type submitPaymentRequest struct {
	Country       string      `json:"country"`
	PaymentMethod string      `json:"paymentMethod"`
	Amount        amountInput `json:"amount"`
}

// transactionView renders amounts with two decimals, as the history screen
// shows them.
type transactionView struct {
	ID            string               `json:"id"`
	AccountID     string               `json:"userId,omitempty"`
	Country       string               `json:"country"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Amount        string               `json:"amount"`
	CreatedAt     time.Time            `json:"date"`
}

func newTransactionViews(txs []models.Transaction) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionView{
			ID:            tx.ID,
			AccountID:     tx.AccountID,
			Country:       tx.Country,
			PaymentMethod: tx.PaymentMethod,
			Amount:        tx.Amount.StringFixed(2),
			CreatedAt:     tx.CreatedAt,
		})
	}
	return out
}

type PaymentHandler struct {
	sessions *service.SessionController
}

func NewPaymentHandler(sessions *service.SessionController) *PaymentHandler {
	return &PaymentHandler{sessions: sessions}
}

func (h *PaymentHandler) Submit(c *gin.Context) {
	var req submitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		telemetry.Logger.Error("Error decoding payment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s := currentSession(c)
	out, err := h.sessions.Submit(c.Request.Context(), s, models.SubmitRequest{
		CountryCode:   req.Country,
		PaymentMethod: req.PaymentMethod,
		Amount:        string(req.Amount),
	})

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"outcome": out, "screen": s.Screen()})
		return
	case err != nil:
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": out, "screen": s.Screen()})
}

func (h *PaymentHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"outcome": currentSession(c).Flow.Snapshot()})
}

func (h *PaymentHandler) Acknowledge(c *gin.Context) {
	s := currentSession(c)
	if err := s.Flow.Acknowledge(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": s.Flow.Snapshot()})
}

func (h *PaymentHandler) Edit(c *gin.Context) {
	s := currentSession(c)
	if err := s.Flow.Edit(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": s.Flow.Snapshot()})
}

func (h *PaymentHandler) Cancel(c *gin.Context) {
	s := currentSession(c)
	if err := s.Flow.Cancel(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": s.Flow.Snapshot()})
}

func (h *PaymentHandler) History(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"transactions": newTransactionViews(h.sessions.VisibleTransactions(c.Request.Context(), s)),
	})
}
