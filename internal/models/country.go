package models

import (
	"fmt"
)

type PaymentMethod int

const (
	MethodCreditCard PaymentMethod = iota + 1
	MethodPayPal
	MethodBankTransfer
	MethodCrypto
	MethodMobileMoney

	paymentMethodEnd
)

// MethodPresentation is what a client needs to render a payment method.
type MethodPresentation struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// methodPresentations must have exactly one entry per method. The array
// length check below stops the build when a method is added without one.
var methodPresentations = [...]MethodPresentation{
	MethodCreditCard:   {Label: "Credit Card", Icon: "credit-card"},
	MethodPayPal:       {Label: "PayPal", Icon: "paypal"},
	MethodBankTransfer: {Label: "Bank Transfer", Icon: "bank"},
	MethodCrypto:       {Label: "Crypto", Icon: "crypto"},
	MethodMobileMoney:  {Label: "Mobile Money", Icon: "mobile-money"},
}

var _ = [1]struct{}{}[len(methodPresentations)-int(paymentMethodEnd)]

// AllPaymentMethods lists every method in declaration order.
func AllPaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, 0, int(paymentMethodEnd)-1)
	for m := MethodCreditCard; m < paymentMethodEnd; m++ {
		out = append(out, m)
	}
	return out
}

func (m PaymentMethod) Valid() bool {
	return m >= MethodCreditCard && m < paymentMethodEnd
}

func (m PaymentMethod) Presentation() MethodPresentation {
	if !m.Valid() {
		return MethodPresentation{}
	}
	return methodPresentations[m]
}

func (m PaymentMethod) String() string {
	if !m.Valid() {
		return fmt.Sprintf("PaymentMethod(%d)", int(m))
	}
	return methodPresentations[m].Label
}

// ParsePaymentMethod resolves a display tag such as "Bank Transfer".
func ParsePaymentMethod(tag string) (PaymentMethod, error) {
	for m := MethodCreditCard; m < paymentMethodEnd; m++ {
		if methodPresentations[m].Label == tag {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown payment method %q", tag)
}

func (m PaymentMethod) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid payment method %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *PaymentMethod) UnmarshalText(b []byte) error {
	parsed, err := ParsePaymentMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

type CountryProfile struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Currency       Currency        `json:"currency"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
}

// Accepts reports whether m is one of the profile's payment methods.
func (c CountryProfile) Accepts(m PaymentMethod) bool {
	for _, pm := range c.PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}
