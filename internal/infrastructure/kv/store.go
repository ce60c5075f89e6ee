// Package kv holds the flat key-value store contract the ledger is built on
// and the adapters that reach concrete backends.
//
// A Store offers get/set by key and nothing else: no transactions, no list
// type, no locking and no ordering guarantee between calls made by different
// clients.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrStore marks a network or availability failure of the backend.
// A failed Set must be treated as an unknown outcome.
var ErrStore = errors.New("store unavailable")

// Store is the leaf adapter over an externally owned key-value service.
type Store interface {
	// Get returns the value stored under key, or nil with a nil error when
	// the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// Pinger is implemented by adapters that can check backend availability
// without touching data.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping reports whether s is reachable. Stores without a Ping method are
// assumed available.
func Ping(ctx context.Context, s Store) error {
	p, ok := s.(Pinger)
	if !ok {
		return nil
	}
	return p.Ping(ctx)
}

func storeErr(op, key string, err error) error {
	return fmt.Errorf("%s %q: %w: %w", op, key, ErrStore, err)
}
