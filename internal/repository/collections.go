package repository

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payways/internal/interfaces"
	"github.com/akylbek/payment-system/payways/internal/telemetry"
)

// Collection names in the key/value store.
const (
	UsersCollection     = "users"
	PaymentsCollection  = "paymentHistory"
	CountriesCollection = "countries"
)

// Collections mirrors in-memory collections to a key/value store as JSON.
// Saves are write-through; a failed save is logged and otherwise ignored so
// the in-memory copy stays authoritative for the rest of the process.
type Collections struct {
	store interfaces.KeyValueStore
}

func NewCollections(store interfaces.KeyValueStore) *Collections {
	return &Collections{store: store}
}

// Load decodes the named collection into dst. It reports false when the
// collection has never been written. A collection that cannot be read or
// decoded is logged and treated as absent.
func (c *Collections) Load(ctx context.Context, name string, dst any) bool {
	raw, err := c.store.Get(ctx, name)
	if errors.Is(err, interfaces.ErrNotFound) {
		return false
	}
	if err != nil {
		telemetry.Logger.Error("Error reading collection", zap.String("collection", name), zap.Error(err))
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		telemetry.Logger.Error("Error decoding collection", zap.String("collection", name), zap.Error(err))
		return false
	}
	return true
}

func (c *Collections) Save(ctx context.Context, name string, v any) {
	bs, err := json.Marshal(v)
	if err == nil {
		err = c.store.Set(ctx, name, string(bs))
	}
	if err != nil {
		telemetry.PersistenceFailures.WithLabelValues(name).Inc()
		telemetry.Logger.Error("Error writing collection", zap.String("collection", name), zap.Error(err))
	}
}
