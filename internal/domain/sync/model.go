package sync

import (
	"time"

	"adledger/internal/domain/record"
)

// Skip explains why an indexed id is missing from a snapshot.
type Skip struct {
	ID     string `json:"id" yaml:"id"`
	Reason string `json:"reason" yaml:"reason"`
}

const (
	ReasonMissing     = "missing"
	ReasonMalformed   = "malformed"
	ReasonUnavailable = "unavailable"
)

// Snapshot is the result of one reload, newest records first.
type Snapshot struct {
	Records  []record.Record `json:"records" yaml:"records"`
	Skipped  []Skip          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	LoadedAt time.Time       `json:"loaded_at" yaml:"loaded_at"`
}

// Stats counts records by status.
type Stats struct {
	Total    int `json:"total" yaml:"total"`
	Verified int `json:"verified" yaml:"verified"`
	Pending  int `json:"pending" yaml:"pending"`
	Rejected int `json:"rejected" yaml:"rejected"`
}

func (s Snapshot) Stats() Stats {
	st := Stats{Total: len(s.Records)}
	for _, r := range s.Records {
		switch r.Status {
		case record.StatusVerified:
			st.Verified++
		case record.StatusPending:
			st.Pending++
		case record.StatusRejected:
			st.Rejected++
		}
	}
	return st
}

// Find looks a record up by id.
func (s Snapshot) Find(id string) (record.Record, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return record.Record{}, false
}

// Filter returns the records with the given status.
func (s Snapshot) Filter(status record.Status) []record.Record {
	out := make([]record.Record, 0, len(s.Records))
	for _, r := range s.Records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}
