package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/exp/slog"
)

// Index maintains the list of record ids stored under IndexKey.
//
// Append is a read-modify-write over a single key with no locking. Two
// clients appending at the same time can both read the same list and each
// write back only their own addition, so one id is silently lost. Treat the
// index as eventually complete, never as strongly consistent.
type Index struct {
	store         Store
	log           *slog.Logger
	verifyRetries int
}

type IndexOption func(*Index)

// WithVerifiedAppend makes Append re-read the index after writing and
// re-apply the id up to retries times when a concurrent writer dropped it.
// The store has no compare-and-swap, so this narrows the lost-update window
// without closing it. Off by default.
func WithVerifiedAppend(retries int) IndexOption {
	return func(i *Index) {
		if retries > 0 {
			i.verifyRetries = retries
		}
	}
}

func NewIndex(store Store, log *slog.Logger, opts ...IndexOption) *Index {
	i := &Index{
		store: store,
		log:   log.With("component", "record_index"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ListIDs returns the indexed ids in insertion order. A missing, unreadable
// or malformed index yields an empty list.
func (i *Index) ListIDs(ctx context.Context) []string {
	ids, err := i.read(ctx)
	if err != nil {
		i.log.Warn("index unreadable, treating as empty", "error", err)
		return []string{}
	}
	return ids
}

// Append adds id unless it is already present.
func (i *Index) Append(ctx context.Context, id string) error {
	ids, err := i.readForWrite(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}

	if err := i.write(ctx, append(ids, id)); err != nil {
		return err
	}

	for attempt := 1; attempt <= i.verifyRetries; attempt++ {
		current, err := i.readForWrite(ctx)
		if err != nil {
			return err
		}
		if slices.Contains(current, id) {
			return nil
		}

		i.log.Warn("index entry lost to a concurrent writer, re-applying",
			"record_id", id, "attempt", attempt)
		if err := i.write(ctx, append(current, id)); err != nil {
			return err
		}
	}

	return nil
}

// readForWrite reads the current list for a modification. A malformed blob
// is replaced rather than blocking every future append.
func (i *Index) readForWrite(ctx context.Context) ([]string, error) {
	ids, err := i.read(ctx)
	if errors.Is(err, ErrDecode) {
		i.log.Warn("malformed index will be overwritten", "error", err)
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return ids, nil
}

func (i *Index) read(ctx context.Context) ([]string, error) {
	data, err := i.store.Get(ctx, IndexKey)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []string{}, nil
	}
	return decodeIndex(data)
}

func (i *Index) write(ctx context.Context, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := i.store.Set(ctx, IndexKey, data); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func decodeIndex(data []byte) ([]string, error) {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrDecode, err)
	}

	ids := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, id := range raw {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
