package record

import "context"

// Store is the flat key-value backend the ledger persists to. An absent key
// reads as nil with a nil error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
