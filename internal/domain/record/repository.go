package record

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

// Repository stores individual records under Key(id) and keeps the index in
// step on create. Status updates are read-modify-write with last writer
// wins; a concurrent change on the same id is overwritten, not merged.
type Repository struct {
	store           Store
	index           *Index
	log             *slog.Logger
	checkCollisions bool
}

type RepositoryOption func(*Repository)

// WithCollisionCheck makes Create refuse an id whose key is already
// occupied. The check and the write are separate calls, so two creators
// racing on the same id can still both pass.
func WithCollisionCheck() RepositoryOption {
	return func(r *Repository) {
		r.checkCollisions = true
	}
}

func NewRepository(store Store, index *Index, log *slog.Logger, opts ...RepositoryOption) *Repository {
	r := &Repository{
		store: store,
		index: index,
		log:   log.With("component", "record_repository"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create writes rec and then appends its id to the index. If the second
// step fails the record exists under its key but stays invisible to sync;
// the returned error wraps ErrIndexAppend in that case.
func (r *Repository) Create(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("create record: %w: empty id", ErrInvalidData)
	}

	if r.checkCollisions {
		existing, err := r.store.Get(ctx, Key(rec.ID))
		if err != nil {
			return fmt.Errorf("check record id: %w", err)
		}
		if len(existing) > 0 {
			return fmt.Errorf("create record %s: %w", rec.ID, ErrAlreadyExists)
		}
	}

	data, err := Encode(rec)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}

	if err := r.store.Set(ctx, Key(rec.ID), data); err != nil {
		r.log.Error("failed to store record", "record_id", rec.ID, "error", err)
		return fmt.Errorf("create record: %w", err)
	}

	if err := r.index.Append(ctx, rec.ID); err != nil {
		r.log.Error("record stored but index append failed", "record_id", rec.ID, "error", err)
		return fmt.Errorf("create record %s: %w: %w", rec.ID, ErrIndexAppend, err)
	}

	r.log.Info("record created", "record_id", rec.ID, "owner", rec.Owner)
	return nil
}

// Fetch reads a single record. It returns ErrNotFound for an absent key and
// an ErrDecode-wrapped error for bytes that do not parse.
func (r *Repository) Fetch(ctx context.Context, id string) (*Record, error) {
	rec, _, err := r.load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch record %s: %w", id, err)
	}
	return &rec, nil
}

func (r *Repository) load(ctx context.Context, id string) (Record, []byte, error) {
	data, err := r.store.Get(ctx, Key(id))
	if err != nil {
		return Record{}, nil, err
	}
	if len(data) == 0 {
		return Record{}, nil, ErrNotFound
	}

	rec, err := Decode(data)
	if err != nil {
		return Record{}, nil, err
	}
	rec.ID = id

	return rec, data, nil
}

// UpdateStatus moves the record to target on behalf of requester. Only the
// stored status field is rewritten; other fields are written back as read.
func (r *Repository) UpdateStatus(ctx context.Context, id string, target Status, requester string) (*Record, error) {
	current, raw, err := r.load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update record %s: %w", id, err)
	}

	updated, err := Transition(current, target, requester)
	if err != nil {
		r.log.Warn("status change refused",
			"record_id", id, "from", current.Status, "to", target, "requester", requester, "error", err)
		return nil, fmt.Errorf("update record %s: %w", id, err)
	}

	data, err := PatchStatus(raw, updated.Status)
	if err != nil {
		return nil, fmt.Errorf("update record %s: %w", id, err)
	}
	if err := r.store.Set(ctx, Key(id), data); err != nil {
		r.log.Error("failed to store status", "record_id", id, "error", err)
		return nil, fmt.Errorf("update record %s: %w", id, err)
	}

	r.log.Info("record status updated", "record_id", id, "status", updated.Status)
	return &updated, nil
}
