package models

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Rank orders risk levels low < medium < high. Unknown levels rank 0.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	}
	return 0
}

func (l RiskLevel) Valid() bool {
	return l.Rank() > 0
}

type RiskVerdict struct {
	Level      RiskLevel `json:"riskLevel"`
	Reason     string    `json:"reason"`
	Indicators []string  `json:"indicators"`
}

// Denies reports whether the verdict blocks settlement. Only high does.
func (v RiskVerdict) Denies() bool {
	return v.Level == RiskHigh
}

type RiskRequest struct {
	Country        string
	Amount         float64
	PaymentMethod  PaymentMethod
	CurrencyCode   string
	CurrencySymbol string
}
