package record

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"adledger/internal/infrastructure/kv"
)

var errUnreachable = errors.New("dial tcp: connection refused")

// faultStore wraps an in-memory store with per-key failures and write counts.
type faultStore struct {
	*kv.MemoryStore

	mu       sync.Mutex
	getErr   map[string]error
	setErr   map[string]error
	sets     map[string]int
	afterSet func(key string)
}

func newFaultStore() *faultStore {
	return &faultStore{
		MemoryStore: kv.NewMemoryStore(),
		getErr:      make(map[string]error),
		setErr:      make(map[string]error),
		sets:        make(map[string]int),
	}
}

func (f *faultStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	err := f.getErr[key]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *faultStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	err := f.setErr[key]
	f.sets[key]++
	hook := f.afterSet
	f.mu.Unlock()
	if err != nil {
		return err
	}
	if err := f.MemoryStore.Set(ctx, key, value); err != nil {
		return err
	}
	if hook != nil {
		hook(key)
	}
	return nil
}

func (f *faultStore) setCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[key]
}

// barrierStore holds the first n index reads until all n have happened, so
// every reader sees the same prior list before anyone writes.
type barrierStore struct {
	Store
	n     int32
	seen  atomic.Int32
	ready sync.WaitGroup
}

func newBarrierStore(inner Store, n int) *barrierStore {
	b := &barrierStore{Store: inner, n: int32(n)}
	b.ready.Add(n)
	return b
}

func (b *barrierStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.Store.Get(ctx, key)
	if key == IndexKey && b.seen.Add(1) <= b.n {
		b.ready.Done()
		b.ready.Wait()
	}
	return v, err
}
