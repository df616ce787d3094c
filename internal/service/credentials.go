package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payways/internal/models"
	"github.com/akylbek/payment-system/payways/internal/repository"
	"github.com/akylbek/payment-system/payways/internal/telemetry"
)

// CredentialStore keeps registered accounts. Emails are unique and compared
// exactly as stored.
type CredentialStore struct {
	mu          sync.RWMutex
	accounts    []models.Account
	collections *repository.Collections
	adminEmail  string
}

func NewCredentialStore(ctx context.Context, collections *repository.Collections, adminEmail string) *CredentialStore {
	s := &CredentialStore{
		collections: collections,
		adminEmail:  adminEmail,
	}
	collections.Load(ctx, repository.UsersCollection, &s.accounts)
	return s
}

func (s *CredentialStore) Register(ctx context.Context, email, secret string) (*models.Account, error) {
	if err := checkCredentialInput(email, secret); err != nil {
		telemetry.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfLocked(email) >= 0 {
		telemetry.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
		return nil, ErrDuplicateEmail
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: simulatedHash(secret),
		IsAdmin:      strings.EqualFold(email, s.adminEmail),
		CreatedAt:    time.Now().UTC(),
	}
	s.accounts = append(s.accounts, account)
	s.collections.Save(ctx, repository.UsersCollection, s.accounts)

	telemetry.AuthAttempts.WithLabelValues("register", "success").Inc()
	telemetry.Logger.Info("Account registered",
		zap.String("account_id", account.ID),
		zap.Bool("admin", account.IsAdmin),
	)
	return &account, nil
}

// Authenticate returns the account when email and secret both match. Unknown
// emails and wrong secrets produce the same error.
func (s *CredentialStore) Authenticate(ctx context.Context, email, secret string) (*models.Account, error) {
	if err := checkCredentialInput(email, secret); err != nil {
		telemetry.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOfLocked(email)
	if i < 0 || s.accounts[i].PasswordHash != simulatedHash(secret) {
		telemetry.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, ErrInvalidCredentials
	}
	telemetry.AuthAttempts.WithLabelValues("login", "success").Inc()
	account := s.accounts[i]
	return &account, nil
}

func (s *CredentialStore) LookupByEmail(_ context.Context, email string) (*models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOfLocked(email)
	if i < 0 {
		return nil, false
	}
	account := s.accounts[i]
	return &account, true
}

func (s *CredentialStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

func (s *CredentialStore) indexOfLocked(email string) int {
	for i := range s.accounts {
		if s.accounts[i].Email == email {
			return i
		}
	}
	return -1
}

func checkCredentialInput(email, secret string) error {
	verr := newValidationError("Email and password are required.")
	if strings.TrimSpace(email) == "" {
		verr.add("email", "required")
	}
	if strings.TrimSpace(secret) == "" {
		verr.add("password", "required")
	}
	if verr.empty() {
		return nil
	}
	return verr
}
