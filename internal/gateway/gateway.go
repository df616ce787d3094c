package gateway

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payways/internal/models"
	"github.com/akylbek/payment-system/payways/internal/telemetry"
)

const (
	unconfiguredReason  = "API key not configured. Defaulting to low risk."
	providerErrorReason = "Could not perform risk analysis due to an API error."
)

// Provider returns the raw JSON verdict for a payment.
type Provider interface {
	Name() string
	Analyze(ctx context.Context, req models.RiskRequest) ([]byte, error)
}

// Gateway assesses payments through a Provider and fails open: a missing
// provider, a transport failure or a malformed reply all yield a low-risk
// verdict, so an outage approves payments instead of blocking them.
type Gateway struct {
	provider Provider
}

// New returns a Gateway. A nil provider means no credential is configured.
func New(provider Provider) *Gateway {
	return &Gateway{provider: provider}
}

func UnconfiguredVerdict() models.RiskVerdict {
	return models.RiskVerdict{Level: models.RiskLow, Reason: unconfiguredReason, Indicators: []string{}}
}

func ProviderErrorVerdict() models.RiskVerdict {
	return models.RiskVerdict{Level: models.RiskLow, Reason: providerErrorReason, Indicators: []string{}}
}

func (g *Gateway) Assess(ctx context.Context, req models.RiskRequest) models.RiskVerdict {
	ctx, span := telemetry.Tracer.Start(ctx, "risk.assess")
	defer span.End()
	span.SetAttributes(
		attribute.String("payment.country", req.Country),
		attribute.String("payment.method", req.PaymentMethod.String()),
		attribute.Float64("payment.amount", req.Amount),
	)

	if g.provider == nil {
		telemetry.Logger.Warn("Risk provider not configured, defaulting to low risk")
		telemetry.RiskVerdicts.WithLabelValues(string(models.RiskLow), "unconfigured").Inc()
		span.SetAttributes(attribute.String("risk.source", "unconfigured"))
		return UnconfiguredVerdict()
	}

	raw, err := g.provider.Analyze(ctx, req)
	var verdict models.RiskVerdict
	if err == nil {
		verdict, err = ParseVerdict(raw)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "risk provider failed")
		span.SetAttributes(attribute.String("risk.source", "fallback"))
		telemetry.Logger.Warn("Risk analysis failed, defaulting to low risk",
			zap.String("provider", g.provider.Name()),
			zap.Error(err),
		)
		telemetry.RiskVerdicts.WithLabelValues(string(models.RiskLow), "fallback").Inc()
		return ProviderErrorVerdict()
	}

	span.SetAttributes(
		attribute.String("risk.source", g.provider.Name()),
		attribute.String("risk.level", string(verdict.Level)),
	)
	telemetry.RiskVerdicts.WithLabelValues(string(verdict.Level), g.provider.Name()).Inc()
	telemetry.Logger.Info("Risk verdict",
		zap.String("provider", g.provider.Name()),
		zap.String("risk_level", string(verdict.Level)),
		zap.Int("indicators", len(verdict.Indicators)),
	)
	return verdict
}
