package record

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// payload is the "data" field. It is written as standard base64. A string
// that is not valid base64, such as the "FHE-<base64>" envelope written by
// the web client, is kept verbatim as its UTF-8 bytes.
type payload []byte

func (p payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString(p))
}

func (p *payload) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*p = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("record data: %w", err)
	}
	if s == "" {
		*p = nil
		return nil
	}

	if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
		*p = raw
		return nil
	}
	*p = payload(s)
	return nil
}

// wireRecord is the stored layout. Field names follow the format already
// present in deployed stores, so "data" carries the payload and
// "timestamp" the creation time.
type wireRecord struct {
	ID          string  `json:"id,omitempty"`
	Data        payload `json:"data"`
	Timestamp   int64   `json:"timestamp"`
	Owner       string  `json:"owner"`
	Category    string  `json:"category"`
	Status      Status  `json:"status,omitempty"`
	CampaignID  string  `json:"campaignId"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Spend       float64 `json:"spend"`
}

// Encode serializes r into its stored form.
func Encode(r Record) ([]byte, error) {
	if err := r.Status.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	b, err := json.Marshal(wireRecord{
		ID:          r.ID,
		Data:        r.Payload,
		Timestamp:   r.CreatedAt,
		Owner:       r.Owner,
		Category:    r.Category,
		Status:      r.Status,
		CampaignID:  r.CampaignID,
		Impressions: r.Metrics.Impressions,
		Clicks:      r.Metrics.Clicks,
		Conversions: r.Metrics.Conversions,
		Spend:       r.Metrics.Spend,
	})
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return b, nil
}

// Decode parses stored bytes. Anything that is not a JSON object with the
// expected field types, or that names an unknown status, fails with
// ErrDecode. A missing status reads as pending.
func Decode(data []byte) (Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, fmt.Errorf("%w: not a json object", ErrDecode)
	}

	var w wireRecord
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if w.Status == "" {
		w.Status = StatusPending
	}
	if err := w.Status.Validate(); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return Record{
		ID:         w.ID,
		Payload:    []byte(w.Data),
		CreatedAt:  w.Timestamp,
		Owner:      w.Owner,
		Category:   w.Category,
		CampaignID: w.CampaignID,
		Metrics: Metrics{
			Impressions: w.Impressions,
			Clicks:      w.Clicks,
			Conversions: w.Conversions,
			Spend:       w.Spend,
		},
		Status: w.Status,
	}, nil
}

// PatchStatus rewrites only the status field of a stored record and keeps
// every other field, including ones this client does not know about.
func PatchStatus(data []byte, status Status) ([]byte, error) {
	if err := status.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: not a json object", ErrDecode)
	}

	encoded, err := json.Marshal(status)
	if err != nil {
		return nil, fmt.Errorf("encode status: %w", err)
	}
	fields["status"] = encoded

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return out, nil
}
