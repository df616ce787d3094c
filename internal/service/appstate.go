package service

import (
	"context"
	"time"

	"github.com/akylbek/payment-system/payways/internal/interfaces"
	"github.com/akylbek/payment-system/payways/internal/repository"
)

// AppState groups the stores and controllers built at startup. Handlers get
// it injected instead of reaching for package-level state.
type AppState struct {
	Credentials *CredentialStore
	Catalog     *CatalogStore
	Ledger      *Ledger
	Sessions    *SessionController
}

type AppStateOptions struct {
	Store        interfaces.KeyValueStore
	SessionStore interfaces.SessionStore
	Assessor     interfaces.RiskAssessor
	Publisher    interfaces.EventPublisher
	AdminEmail   string
	DisplayDelay time.Duration
	SessionTTL   time.Duration
}

// NewAppState loads every collection from opts.Store and wires the services.
func NewAppState(ctx context.Context, opts AppStateOptions) *AppState {
	collections := repository.NewCollections(opts.Store)

	credentials := NewCredentialStore(ctx, collections, opts.AdminEmail)
	catalog := NewCatalogStore(ctx, collections)
	ledger := NewLedger(ctx, collections)

	flowDeps := &FlowDeps{
		Catalog:      catalog,
		Ledger:       ledger,
		Assessor:     opts.Assessor,
		Publisher:    opts.Publisher,
		DisplayDelay: opts.DisplayDelay,
	}

	return &AppState{
		Credentials: credentials,
		Catalog:     catalog,
		Ledger:      ledger,
		Sessions:    NewSessionController(credentials, ledger, opts.SessionStore, flowDeps, opts.SessionTTL),
	}
}
