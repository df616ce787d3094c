package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethod_Presentation(t *testing.T) {
	methods := AllPaymentMethods()
	require.Len(t, methods, 5)

	for _, m := range methods {
		p := m.Presentation()
		assert.NotEmpty(t, p.Label, "method %d", int(m))
		assert.NotEmpty(t, p.Icon, "method %d", int(m))

		parsed, err := ParsePaymentMethod(p.Label)
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
}

func TestPaymentMethod_Invalid(t *testing.T) {
	assert.False(t, PaymentMethod(0).Valid())
	assert.False(t, paymentMethodEnd.Valid())
	assert.Equal(t, MethodPresentation{}, PaymentMethod(99).Presentation())

	_, err := ParsePaymentMethod("Cheque")
	assert.Error(t, err)
	_, err = ParsePaymentMethod("credit card")
	assert.Error(t, err)
}

func TestCountryProfile_JSON(t *testing.T) {
	profile := CountryProfile{
		Code:           "GH",
		Name:           "Ghana",
		Currency:       Currency{Code: "GHS", Symbol: "₵"},
		PaymentMethods: []PaymentMethod{MethodCreditCard, MethodMobileMoney},
	}

	bs, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"code": "GH",
		"name": "Ghana",
		"currency": {"code": "GHS", "symbol": "₵"},
		"paymentMethods": ["Credit Card", "Mobile Money"]
	}`, string(bs))

	var bad CountryProfile
	assert.Error(t, json.Unmarshal([]byte(`{"paymentMethods":["Cheque"]}`), &bad))
}

func TestCountryProfile_Accepts(t *testing.T) {
	profile := CountryProfile{PaymentMethods: []PaymentMethod{MethodCrypto}}

	assert.True(t, profile.Accepts(MethodCrypto))
	assert.False(t, profile.Accepts(MethodPayPal))
}

func TestRiskVerdict_Denies(t *testing.T) {
	assert.False(t, RiskVerdict{Level: RiskLow}.Denies())
	assert.False(t, RiskVerdict{Level: RiskMedium}.Denies())
	assert.True(t, RiskVerdict{Level: RiskHigh}.Denies())
	assert.Less(t, RiskLow.Rank(), RiskMedium.Rank())
	assert.Less(t, RiskMedium.Rank(), RiskHigh.Rank())
	assert.False(t, RiskLevel("unknown").Valid())
}
