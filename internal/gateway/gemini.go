package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/akylbek/payment-system/payways/internal/models"
)

const riskPrompt = `Analyze the following payment transaction for potential fraud risk and return a JSON object.
Transaction details:
- Country: %s
- Amount: %s%s (%s)
- Payment Method: %s

Consider typical transaction amounts for the country, high-risk countries for certain payment types, unusually large sums, and common fraud patterns associated with the payment method.

Provide:
1. A 'riskLevel' (low, medium, high).
2. A brief 'reason' summarizing the main factor for the risk level.
3. An array of strings called 'indicators' listing specific factors that contributed to the assessment (e.g. "Large transaction for this country", "Payment method mismatch", "High-risk region"). If no specific indicators are found, return an empty array.`

type geminiSchema struct {
	Type        string                  `json:"type"`
	Description string                  `json:"description,omitempty"`
	Properties  map[string]geminiSchema `json:"properties,omitempty"`
	Items       *geminiSchema           `json:"items,omitempty"`
	Required    []string                `json:"required,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateContentRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string       `json:"responseMimeType"`
		ResponseSchema   geminiSchema `json:"responseSchema"`
	} `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

var verdictSchema = geminiSchema{
	Type: "OBJECT",
	Properties: map[string]geminiSchema{
		"riskLevel": {
			Type:        "STRING",
			Description: `The calculated risk level, either "low", "medium", or "high".`,
		},
		"reason": {
			Type:        "STRING",
			Description: "A brief explanation for the assigned risk level.",
		},
		"indicators": {
			Type:        "ARRAY",
			Description: "A list of specific risk indicators found in the transaction.",
			Items:       &geminiSchema{Type: "STRING"},
		},
	},
	Required: []string{"riskLevel", "reason", "indicators"},
}

// GeminiProvider asks a hosted Gemini model for a structured verdict through
// the generateContent REST endpoint.
type GeminiProvider struct {
	client *resty.Client
	model  string
}

func NewGeminiProvider(apiKey, baseURL, model string, timeout time.Duration) *GeminiProvider {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", apiKey)
	return &GeminiProvider{client: client, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Analyze(ctx context.Context, req models.RiskRequest) ([]byte, error) {
	var body generateContentRequest
	body.Contents = []geminiContent{{
		Role:  "user",
		Parts: []geminiPart{{Text: buildPrompt(req)}},
	}}
	body.GenerationConfig.ResponseMimeType = "application/json"
	body.GenerationConfig.ResponseSchema = verdictSchema

	var out generateContentResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", p.model))
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gemini returned %s", resp.Status())
	}

	for _, c := range out.Candidates {
		var text strings.Builder
		for _, part := range c.Content.Parts {
			text.WriteString(part.Text)
		}
		if s := strings.TrimSpace(text.String()); s != "" {
			return []byte(s), nil
		}
	}
	return nil, fmt.Errorf("gemini returned no content")
}

func buildPrompt(req models.RiskRequest) string {
	amount := fmt.Sprintf("%.2f", req.Amount)
	return fmt.Sprintf(riskPrompt, req.Country, req.CurrencySymbol, amount, req.CurrencyCode, req.PaymentMethod)
}
