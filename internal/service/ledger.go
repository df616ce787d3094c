package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/payways/internal/models"
	"github.com/akylbek/payment-system/payways/internal/repository"
)

// Ledger is the append-only record of settled payments, newest first.
type Ledger struct {
	mu           sync.RWMutex
	transactions []models.Transaction
	collections  *repository.Collections
}

func NewLedger(ctx context.Context, collections *repository.Collections) *Ledger {
	l := &Ledger{collections: collections}
	collections.Load(ctx, repository.PaymentsCollection, &l.transactions)
	return l
}

func (l *Ledger) Append(ctx context.Context, tx models.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.transactions = append([]models.Transaction{tx}, l.transactions...)
	l.collections.Save(ctx, repository.PaymentsCollection, l.transactions)
}

func (l *Ledger) All(_ context.Context) []models.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Transaction(nil), l.transactions...)
}

// ForAccount returns the entries owned by accountID, newest first.
func (l *Ledger) ForAccount(_ context.Context, accountID string) []models.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []models.Transaction{}
	for _, tx := range l.transactions {
		if accountID != "" && tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out
}

// Summary adds amounts across all currencies without conversion.
func (l *Ledger) Summary(_ context.Context) models.LedgerSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := decimal.Zero
	for _, tx := range l.transactions {
		total = total.Add(tx.Amount)
	}
	return models.LedgerSummary{
		TotalTransactions: len(l.transactions),
		TotalVolume:       total,
	}
}
