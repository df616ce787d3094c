package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akylbek/payment-system/payways/internal/models"
)

// SchemaError reports a provider response that does not match
// {riskLevel, reason, indicators}.
type SchemaError struct {
	Field   string
	Problem string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid risk verdict: %s %s", e.Field, e.Problem)
}

type rawVerdict struct {
	RiskLevel  *string   `json:"riskLevel"`
	Reason     *string   `json:"reason"`
	Indicators *[]string `json:"indicators"`
}

// ParseVerdict turns a provider's JSON reply into a typed verdict. Every
// field is required; indicators may be an empty array but not null.
func ParseVerdict(raw []byte) (models.RiskVerdict, error) {
	var rv rawVerdict
	if err := json.Unmarshal(raw, &rv); err != nil {
		return models.RiskVerdict{}, &SchemaError{Field: "body", Problem: "is not a JSON object: " + err.Error()}
	}

	if rv.RiskLevel == nil {
		return models.RiskVerdict{}, &SchemaError{Field: "riskLevel", Problem: "is missing"}
	}
	level := models.RiskLevel(*rv.RiskLevel)
	if !level.Valid() {
		return models.RiskVerdict{}, &SchemaError{Field: "riskLevel", Problem: fmt.Sprintf("has unknown value %q", *rv.RiskLevel)}
	}
	if rv.Reason == nil || strings.TrimSpace(*rv.Reason) == "" {
		return models.RiskVerdict{}, &SchemaError{Field: "reason", Problem: "is missing or empty"}
	}
	if rv.Indicators == nil {
		return models.RiskVerdict{}, &SchemaError{Field: "indicators", Problem: "is missing"}
	}

	indicators := append([]string{}, (*rv.Indicators)...)
	return models.RiskVerdict{
		Level:      level,
		Reason:     *rv.Reason,
		Indicators: indicators,
	}, nil
}
