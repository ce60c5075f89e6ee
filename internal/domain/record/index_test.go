package record

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestIndex_ListIDs(t *testing.T) {
	tests := []struct {
		name   string
		stored []byte
		getErr error
		want   []string
	}{
		{name: "missing index", want: []string{}},
		{name: "empty array", stored: []byte(`[]`), want: []string{}},
		{name: "ids in order", stored: []byte(`["b","a","c"]`), want: []string{"b", "a", "c"}},
		{name: "duplicates dropped", stored: []byte(`["a","b","a"]`), want: []string{"a", "b"}},
		{name: "malformed blob", stored: []byte(`{"ids":["a"]}`), want: []string{}},
		{name: "wrong element type", stored: []byte(`[1,2]`), want: []string{}},
		{name: "store unreachable", getErr: errUnreachable, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newFaultStore()
			if tt.stored != nil {
				require.NoError(t, store.MemoryStore.Set(ctx, IndexKey, tt.stored))
			}
			if tt.getErr != nil {
				store.getErr[IndexKey] = tt.getErr
			}
			idx := NewIndex(store, slog.Default())

			got := idx.ListIDs(ctx)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndex_AppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	idx := NewIndex(store, slog.Default())

	require.NoError(t, idx.Append(ctx, "a"))
	require.NoError(t, idx.Append(ctx, "b"))
	require.NoError(t, idx.Append(ctx, "a"))

	assert.Equal(t, []string{"a", "b"}, idx.ListIDs(ctx))
	assert.Equal(t, 2, store.setCount(IndexKey), "re-appending an existing id must not write")
}

func TestIndex_AppendReadFailure(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	store.getErr[IndexKey] = errUnreachable
	idx := NewIndex(store, slog.Default())

	err := idx.Append(ctx, "a")

	assert.ErrorIs(t, err, errUnreachable)
	assert.Zero(t, store.setCount(IndexKey))
}

func TestIndex_AppendWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	store.setErr[IndexKey] = errUnreachable
	idx := NewIndex(store, slog.Default())

	err := idx.Append(ctx, "a")

	assert.ErrorIs(t, err, errUnreachable)
}

func TestIndex_AppendOverwritesMalformedIndex(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	require.NoError(t, store.MemoryStore.Set(ctx, IndexKey, []byte("not json")))
	idx := NewIndex(store, slog.Default())

	require.NoError(t, idx.Append(ctx, "a"))

	assert.Equal(t, []string{"a"}, idx.ListIDs(ctx))
}

// Two clients append from the same empty index. Both read [] before either
// writes, so the second write replaces the first and one id is lost.
func TestIndex_ConcurrentAppendLosesUpdate(t *testing.T) {
	ctx := context.Background()
	base := newFaultStore()
	store := newBarrierStore(base, 2)
	clientA := NewIndex(store, slog.Default())
	clientB := NewIndex(store, slog.Default())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = clientA.Append(ctx, "id-A")
	}()
	go func() {
		defer wg.Done()
		errs[1] = clientB.Append(ctx, "id-B")
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	final := NewIndex(base, slog.Default()).ListIDs(ctx)
	require.Len(t, final, 1, "both appends succeeded yet only one id survives")
	assert.Contains(t, []string{"id-A", "id-B"}, final[0])
	assert.Equal(t, 2, base.setCount(IndexKey))
}

func TestIndex_VerifiedAppendReappliesLostID(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	idx := NewIndex(store, slog.Default(), WithVerifiedAppend(2))

	// A foreign client overwrites the index right after our first write,
	// built from the list it read before we wrote.
	overwritten := false
	store.afterSet = func(key string) {
		if key != IndexKey || overwritten {
			return
		}
		overwritten = true
		require.NoError(t, store.MemoryStore.Set(ctx, IndexKey, []byte(`["foreign"]`)))
	}

	require.NoError(t, idx.Append(ctx, "mine"))

	assert.Equal(t, []string{"foreign", "mine"}, idx.ListIDs(ctx))
	assert.Equal(t, 2, store.setCount(IndexKey))
}

func TestIndex_WithoutVerificationLosesID(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	idx := NewIndex(store, slog.Default())

	overwritten := false
	store.afterSet = func(key string) {
		if key != IndexKey || overwritten {
			return
		}
		overwritten = true
		require.NoError(t, store.MemoryStore.Set(ctx, IndexKey, []byte(`["foreign"]`)))
	}

	require.NoError(t, idx.Append(ctx, "mine"))

	assert.Equal(t, []string{"foreign"}, idx.ListIDs(ctx))
}
