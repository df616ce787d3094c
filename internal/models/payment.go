package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmissionState string

const (
	StateIdle       SubmissionState = "IDLE"
	StateValidating SubmissionState = "VALIDATING"
	StateAssessing  SubmissionState = "ASSESSING"
	StateSettled    SubmissionState = "SETTLED"
	StateDenied     SubmissionState = "DENIED"
	StateRejected   SubmissionState = "REJECTED"
)

// Transaction is a settled payment. Country is a copy of the display name at
// submission time, not a reference into the catalog.
type Transaction struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"userId,omitempty"`
	Country       string          `json:"country"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"date"`
}

type SubmitRequest struct {
	CountryCode   string `json:"countryCode"`
	PaymentMethod string `json:"paymentMethod"`
	Amount        string `json:"amount"`
}

// StateChangedEvent is published for every submission flow transition.
type StateChangedEvent struct {
	SessionID     string          `json:"session_id"`
	AccountID     string          `json:"account_id"`
	State         SubmissionState `json:"state"`
	PreviousState SubmissionState `json:"previous_state"`
	TransactionID string          `json:"transaction_id,omitempty"`
	RiskLevel     RiskLevel       `json:"risk_level,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// LedgerSummary totals the ledger without currency conversion.
type LedgerSummary struct {
	TotalTransactions int             `json:"totalTransactions"`
	TotalVolume       decimal.Decimal `json:"totalVolume"`
}
