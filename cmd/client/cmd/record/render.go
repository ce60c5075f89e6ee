package record

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"adledger/internal/domain/record"
)

const (
	formatSimple = "simple"
	formatTable  = "table"
	formatJSON   = "json"
	formatYAML   = "yaml"
)

const dateLayout = "2006-01-02 15:04"

func printSimple(w io.Writer, records []record.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records found")
		return err
	}

	fmt.Fprintf(w, "Records: %d\n\n", len(records))
	for i, rec := range records {
		fmt.Fprintf(w, "%d. [%s] %s / %s\n", i+1, rec.Status.DisplayName(), rec.Category, rec.CampaignID)
		fmt.Fprintf(w, "   ID: %s | Owner: %s | Created: %s\n", rec.ID, rec.Owner, formatTime(rec.CreatedAt))
		fmt.Fprintf(w, "   Impressions: %d | Clicks: %d | Conversions: %d | Spend: %s\n\n",
			rec.Metrics.Impressions, rec.Metrics.Clicks, rec.Metrics.Conversions, formatSpend(rec.Metrics.Spend))
	}
	return nil
}

func printTable(w io.Writer, records []record.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tOWNER\tCATEGORY\tCAMPAIGN\tIMPR\tCLICKS\tCONV\tSPEND\tCREATED")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			rec.ID,
			rec.Status,
			truncate(rec.Owner, 14),
			rec.Category,
			rec.CampaignID,
			rec.Metrics.Impressions,
			rec.Metrics.Clicks,
			rec.Metrics.Conversions,
			formatSpend(rec.Metrics.Spend),
			formatTime(rec.CreatedAt),
		)
	}
	return tw.Flush()
}

func printDetail(w io.Writer, rec record.Record) {
	fmt.Fprintf(w, "ID:          %s\n", rec.ID)
	fmt.Fprintf(w, "Status:      %s\n", rec.Status.DisplayName())
	fmt.Fprintf(w, "Owner:       %s\n", rec.Owner)
	fmt.Fprintf(w, "Category:    %s\n", rec.Category)
	fmt.Fprintf(w, "Campaign:    %s\n", rec.CampaignID)
	fmt.Fprintf(w, "Created:     %s\n", formatTime(rec.CreatedAt))
	fmt.Fprintf(w, "Impressions: %d\n", rec.Metrics.Impressions)
	fmt.Fprintf(w, "Clicks:      %d\n", rec.Metrics.Clicks)
	fmt.Fprintf(w, "Conversions: %d\n", rec.Metrics.Conversions)
	fmt.Fprintf(w, "Spend:       %s\n", formatSpend(rec.Metrics.Spend))
	fmt.Fprintf(w, "Payload:     %d bytes sealed\n", len(rec.Payload))
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(dateLayout)
}

func formatSpend(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
