package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/akylbek/payment-system/payways/internal/models"
	"github.com/akylbek/payment-system/payways/internal/repository"
	"github.com/akylbek/payment-system/payways/internal/telemetry"
)

// InitialCountries seeds an empty catalog.
var InitialCountries = []models.CountryProfile{
	{Code: "US", Name: "United States", Currency: models.Currency{Code: "USD", Symbol: "$"}, PaymentMethods: []models.PaymentMethod{models.MethodCreditCard, models.MethodPayPal, models.MethodBankTransfer}},
	{Code: "CA", Name: "Canada", Currency: models.Currency{Code: "CAD", Symbol: "$"}, PaymentMethods: []models.PaymentMethod{models.MethodCreditCard, models.MethodPayPal}},
	{Code: "GB", Name: "United Kingdom", Currency: models.Currency{Code: "GBP", Symbol: "£"}, PaymentMethods: []models.PaymentMethod{models.MethodCreditCard, models.MethodPayPal, models.MethodBankTransfer}},
	{Code: "AU", Name: "Australia", Currency: models.Currency{Code: "AUD", Symbol: "$"}, PaymentMethods: []models.PaymentMethod{models.MethodCreditCard, models.MethodPayPal}},
	{Code: "DE", Name: "Germany", Currency: models.Currency{Code: "EUR", Symbol: "€"}, PaymentMethods: []models.PaymentMethod{models.MethodCreditCard, models.MethodBankTransfer}},
	{Code: "NG", Name: "Nigeria", Currency: models.Currency{Code: "NGN", Symbol: "₦"}, PaymentMethods: []models.PaymentMethod{models.MethodCreditCard, models.MethodBankTransfer, models.MethodMobileMoney}},
	{Code: "GH", Name: "Ghana", Currency: models.Currency{Code: "GHS", Symbol: "₵"}, PaymentMethods: []models.PaymentMethod{models.MethodCreditCard, models.MethodMobileMoney}},
	{Code: "KE", Name: "Kenya", Currency: models.Currency{Code: "KES", Symbol: "KSh"}, PaymentMethods: []models.PaymentMethod{models.MethodCreditCard, models.MethodMobileMoney}},
	{Code: "ZA", Name: "South Africa", Currency: models.Currency{Code: "ZAR", Symbol: "R"}, PaymentMethods: []models.PaymentMethod{models.MethodCreditCard, models.MethodBankTransfer}},
	{Code: "JP", Name: "Japan", Currency: models.Currency{Code: "JPY", Symbol: "¥"}, PaymentMethods: []models.PaymentMethod{models.MethodCreditCard, models.MethodBankTransfer}},
	{Code: "AE", Name: "United Arab Emirates", Currency: models.Currency{Code: "AED", Symbol: "د.إ"}, PaymentMethods: []models.PaymentMethod{models.MethodCreditCard, models.MethodCrypto}},
}

// CatalogStore holds the supported countries ordered by display name.
type CatalogStore struct {
	mu          sync.RWMutex
	countries   []models.CountryProfile
	collator    *collate.Collator
	collections *repository.Collections
}

func NewCatalogStore(ctx context.Context, collections *repository.Collections) *CatalogStore {
	s := &CatalogStore{
		collator:    collate.New(language.English),
		collections: collections,
	}
	if !collections.Load(ctx, repository.CountriesCollection, &s.countries) {
		s.countries = make([]models.CountryProfile, 0, len(InitialCountries))
		for _, c := range InitialCountries {
			s.countries = append(s.countries, cloneProfile(c))
		}
		s.sortLocked()
		collections.Save(ctx, repository.CountriesCollection, s.countries)
		telemetry.Logger.Info("Seeded country catalog", zap.Int("countries", len(s.countries)))
		return s
	}
	s.sortLocked()
	return s
}

func (s *CatalogStore) List(_ context.Context) []models.CountryProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CountryProfile, 0, len(s.countries))
	for _, c := range s.countries {
		out = append(out, cloneProfile(c))
	}
	return out
}

func (s *CatalogStore) Get(_ context.Context, code string) (models.CountryProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.countries {
		if c.Code == code {
			return cloneProfile(c), true
		}
	}
	return models.CountryProfile{}, false
}

func (s *CatalogStore) Add(ctx context.Context, profile models.CountryProfile) (models.CountryProfile, error) {
	profile, err := normalizeProfile(profile)
	if err != nil {
		return models.CountryProfile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.countries {
		if strings.EqualFold(c.Code, profile.Code) {
			return models.CountryProfile{}, ErrDuplicateCode
		}
	}
	s.countries = append(s.countries, profile)
	s.sortLocked()
	s.collections.Save(ctx, repository.CountriesCollection, s.countries)

	telemetry.Logger.Info("Country added", zap.String("code", profile.Code))
	return cloneProfile(profile), nil
}

// Update replaces the profile with the same code. The code itself never changes.
func (s *CatalogStore) Update(ctx context.Context, profile models.CountryProfile) (models.CountryProfile, error) {
	profile, err := normalizeProfile(profile)
	if err != nil {
		return models.CountryProfile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.countries {
		if s.countries[i].Code == profile.Code {
			s.countries[i] = profile
			s.sortLocked()
			s.collections.Save(ctx, repository.CountriesCollection, s.countries)
			telemetry.Logger.Info("Country updated", zap.String("code", profile.Code))
			return cloneProfile(profile), nil
		}
	}
	return models.CountryProfile{}, ErrCountryNotFound
}

// Remove deletes a country. Ledger entries keep their copied country name.
func (s *CatalogStore) Remove(ctx context.Context, code string) {
	code = strings.ToUpper(strings.TrimSpace(code))

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.countries[:0]
	removed := false
	for _, c := range s.countries {
		if c.Code == code {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	s.countries = kept
	if !removed {
		return
	}
	s.collections.Save(ctx, repository.CountriesCollection, s.countries)
	telemetry.Logger.Info("Country removed", zap.String("code", code))
}

func (s *CatalogStore) sortLocked() {
	sort.SliceStable(s.countries, func(i, j int) bool {
		return s.collator.CompareString(s.countries[i].Name, s.countries[j].Name) < 0
	})
}

func normalizeProfile(p models.CountryProfile) (models.CountryProfile, error) {
	verr := newValidationError("Invalid country.")

	p.Name = strings.TrimSpace(p.Name)
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.Currency.Code = strings.ToUpper(strings.TrimSpace(p.Currency.Code))
	p.Currency.Symbol = strings.TrimSpace(p.Currency.Symbol)

	if p.Name == "" {
		verr.add("name", "required")
	}
	if !isLetters(p.Code, 2) {
		verr.add("code", "must be two letters")
	}
	if !isLetters(p.Currency.Code, 3) {
		verr.add("currency.code", "must be three letters")
	}
	if n := utf8.RuneCountInString(p.Currency.Symbol); n == 0 || n > 3 {
		verr.add("currency.symbol", "must be one to three characters")
	}

	methods := make([]models.PaymentMethod, 0, len(p.PaymentMethods))
	seen := map[models.PaymentMethod]bool{}
	for _, m := range p.PaymentMethods {
		if !m.Valid() {
			verr.add("paymentMethods", "unknown payment method")
			continue
		}
		if !seen[m] {
			seen[m] = true
			methods = append(methods, m)
		}
	}
	p.PaymentMethods = methods

	if !verr.empty() {
		return models.CountryProfile{}, verr
	}
	return p, nil
}

func isLetters(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func cloneProfile(p models.CountryProfile) models.CountryProfile {
	p.PaymentMethods = append([]models.PaymentMethod(nil), p.PaymentMethods...)
	return p
}
