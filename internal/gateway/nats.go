package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/akylbek/payment-system/payways/internal/models"
)

type fraudCheckRequest struct {
	Country        string  `json:"country"`
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"paymentMethod"`
	CurrencyCode   string  `json:"currencyCode"`
	CurrencySymbol string  `json:"currencySymbol"`
}

// NATSProvider sends a request on the fraud check subject and expects the
// verdict JSON as the reply.
type NATSProvider struct {
	conn    *nats.Conn
	subject string
	timeout time.Duration
}

func NewNATSProvider(conn *nats.Conn, subject string, timeout time.Duration) *NATSProvider {
	return &NATSProvider{conn: conn, subject: subject, timeout: timeout}
}

func (p *NATSProvider) Name() string { return "nats" }

func (p *NATSProvider) Analyze(ctx context.Context, req models.RiskRequest) ([]byte, error) {
	payload, err := json.Marshal(fraudCheckRequest{
		Country:        req.Country,
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod.String(),
		CurrencyCode:   req.CurrencyCode,
		CurrencySymbol: req.CurrencySymbol,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg, err := p.conn.RequestWithContext(ctx, p.subject, payload)
	if err != nil {
		return nil, fmt.Errorf("fraud check on %s: %w", p.subject, err)
	}
	return msg.Data, nil
}
