// Package sync rebuilds the in-memory view of the ledger from the store.
//
// A reload is eventually consistent: right after a lost index update the
// affected record is absent, and it reappears only once some later append
// writes its id back.
package sync

import (
	"context"
	"errors"
	"sort"
	"time"

	"adledger/internal/domain/record"

	"golang.org/x/exp/slog"
)

type IDLister interface {
	ListIDs(ctx context.Context) []string
}

type Fetcher interface {
	Fetch(ctx context.Context, id string) (*record.Record, error)
}

// Service drives full reloads.
type Service struct {
	index   IDLister
	records Fetcher
	log     *slog.Logger
	now     func() time.Time
}

func NewService(index IDLister, records Fetcher, log *slog.Logger) *Service {
	return &Service{
		index:   index,
		records: records,
		log:     log.With("component", "sync_service"),
		now:     time.Now,
	}
}

// Reload fetches every indexed record. Ids whose entry is missing,
// malformed or unreachable are skipped and reported, never fatal.
func (s *Service) Reload(ctx context.Context) Snapshot {
	ids := s.index.ListIDs(ctx)

	snap := Snapshot{
		Records:  make([]record.Record, 0, len(ids)),
		LoadedAt: s.now(),
	}

	for _, id := range ids {
		rec, err := s.records.Fetch(ctx, id)
		if err != nil {
			reason := skipReason(err)
			s.log.Warn("skipping record", "record_id", id, "reason", reason, "error", err)
			snap.Skipped = append(snap.Skipped, Skip{ID: id, Reason: reason})
			continue
		}
		snap.Records = append(snap.Records, *rec)
	}

	sort.SliceStable(snap.Records, func(i, j int) bool {
		return snap.Records[i].CreatedAt > snap.Records[j].CreatedAt
	})

	s.log.Debug("reload finished",
		"indexed", len(ids), "loaded", len(snap.Records), "skipped", len(snap.Skipped))
	return snap
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, record.ErrNotFound):
		return ReasonMissing
	case errors.Is(err, record.ErrDecode):
		return ReasonMalformed
	default:
		return ReasonUnavailable
	}
}
