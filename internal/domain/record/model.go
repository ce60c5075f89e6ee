package record

// Metrics are the campaign performance figures captured at creation.
type Metrics struct {
	Impressions int64   `json:"impressions" yaml:"impressions"`
	Clicks      int64   `json:"clicks" yaml:"clicks"`
	Conversions int64   `json:"conversions" yaml:"conversions"`
	Spend       float64 `json:"spend" yaml:"spend"`
}

// Record is one campaign-performance entry. Everything except Status is
// fixed at creation.
type Record struct {
	ID         string  `json:"id" yaml:"id"`
	Payload    []byte  `json:"payload" yaml:"payload"`
	CreatedAt  int64   `json:"created_at" yaml:"created_at"`
	Owner      string  `json:"owner" yaml:"owner"`
	Category   string  `json:"category" yaml:"category"`
	CampaignID string  `json:"campaign_id" yaml:"campaign_id"`
	Metrics    Metrics `json:"metrics" yaml:"metrics"`
	Status     Status  `json:"status" yaml:"status"`
}

// New builds a pending record.
func New(id, owner, category, campaignID string, payload []byte, metrics Metrics, createdAt int64) Record {
	return Record{
		ID:         id,
		Payload:    payload,
		CreatedAt:  createdAt,
		Owner:      owner,
		Category:   category,
		CampaignID: campaignID,
		Metrics:    metrics,
		Status:     StatusPending,
	}
}
