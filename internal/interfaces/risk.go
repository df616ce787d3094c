package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/payways/internal/models"
)

// RiskAssessor produces a verdict for a pending payment. Implementations do
// not fail; an unavailable provider yields a default verdict.
type RiskAssessor interface {
	Assess(ctx context.Context, req models.RiskRequest) models.RiskVerdict
}

// EventPublisher publishes submission flow events keyed by key.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}
