package service

import (
	"time"

	"github.com/jjenkins/regmonitor/internal/model"
)

// DatasetMetrics summarizes a loaded batch of procedure records
type DatasetMetrics struct {
	TotalRecords     int
	WithDocuments    int
	WithProposal     int
	WithProposalLink int
	TotalDocuments   int
	LatestUpdate     time.Time
	HasData          bool
}

// CalculateMetrics computes batch metrics. A record counts as having a
// proposal when the locator finds a document of category, and as having a
// proposal link when the locator returns a URL.
func CalculateMetrics(records []model.ProcedureRecord, category string) DatasetMetrics {
	metrics := DatasetMetrics{
		TotalRecords: len(records),
		HasData:      len(records) > 0,
	}

	for i := range records {
		rec := &records[i]
		metrics.TotalDocuments += len(rec.Docs)
		if len(rec.Docs) > 0 {
			metrics.WithDocuments++
		}

		_, err := LocateLatestDocument(rec, category)
		switch err {
		case nil:
			metrics.WithProposal++
			metrics.WithProposalLink++
		case ErrNoDocumentLink:
			metrics.WithProposal++
		}

		if rec.Meta != nil {
			if updated, ok := ParseTimestamp(rec.Meta.Updated); ok && updated.After(metrics.LatestUpdate) {
				metrics.LatestUpdate = updated
			}
		}
	}

	return metrics
}
