package client

import (
	"errors"
	"fmt"
	gosync "sync"

	"adledger/internal/domain/record"
	"adledger/internal/domain/sync"
)

// DraftData is the campaign form. Sealed as JSON it becomes the record
// payload.
type DraftData struct {
	Category    string  `json:"category"`
	CampaignID  string  `json:"campaignId"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Spend       float64 `json:"spend"`
}

func (d DraftData) Validate() error {
	if d.Category == "" {
		return errors.New("category is required")
	}
	if d.CampaignID == "" {
		return errors.New("campaign id is required")
	}
	if d.Impressions < 0 || d.Clicks < 0 || d.Conversions < 0 || d.Spend < 0 {
		return fmt.Errorf("metrics must not be negative")
	}
	return nil
}

func (d DraftData) Metrics() record.Metrics {
	return record.Metrics{
		Impressions: d.Impressions,
		Clicks:      d.Clicks,
		Conversions: d.Conversions,
		Spend:       d.Spend,
	}
}

// Draft holds the form being filled in; it is cleared after a successful
// submit.
type Draft struct {
	mu   gosync.Mutex
	data DraftData
}

func (d *Draft) Set(data DraftData) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data = data
}

func (d *Draft) Get() DraftData {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.data
}

func (d *Draft) Reset() {
	d.Set(DraftData{})
}

// SnapshotState holds the last reload result.
type SnapshotState struct {
	mu   gosync.RWMutex
	snap sync.Snapshot
}

func (s *SnapshotState) Replace(snap sync.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

func (s *SnapshotState) Get() sync.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
