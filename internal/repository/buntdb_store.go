package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/akylbek/payment-system/payways/internal/interfaces"
)

// BuntStore implements interfaces.KeyValueStore and interfaces.SessionStore
// on an embedded BuntDB file. The path ":memory:" keeps everything in process.
type BuntStore struct {
	db *buntdb.DB
}

func OpenBuntStore(path string) (*BuntStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("problem opening buntdb %s: %w", path, err)
	}
	return &BuntStore{db: db}, nil
}

func (s *BuntStore) Close() error {
	return s.db.Close()
}

func (s *BuntStore) Get(_ context.Context, key string) (string, error) {
	var value string
	err := s.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return "", interfaces.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("problem reading %s: %w", key, err)
	}
	return value, nil
}

func (s *BuntStore) Set(_ context.Context, key, value string) error {
	return s.set(key, value, nil)
}

func (s *BuntStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		return err
	})
	if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
		return fmt.Errorf("problem deleting %s: %w", key, err)
	}
	return nil
}

func (s *BuntStore) set(key, value string, opts *buntdb.SetOptions) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, value, opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("problem updating %s: %w", key, err)
	}
	return nil
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *BuntStore) Put(_ context.Context, token, email string, ttl time.Duration) error {
	opts := &buntdb.SetOptions{
		Expires: ttl > 0,
		TTL:     ttl,
	}
	return s.set(sessionKey(token), email, opts)
}

func (s *BuntStore) Lookup(ctx context.Context, token string) (string, error) {
	return s.Get(ctx, sessionKey(token))
}

func (s *BuntStore) Remove(ctx context.Context, token string) error {
	return s.Delete(ctx, sessionKey(token))
}
