package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jjenkins/regmonitor/internal/model"
)

// ImportStats tracks import statistics
type ImportStats struct {
	BatchID   string
	Total     int
	Imported  int
	Changed   int
	Unchanged int
	Skipped   int
	Failed    int
}

// ProcedureWriter persists procedure records
type ProcedureWriter interface {
	Upsert(ctx context.Context, rec *model.ProcedureRecord, batchID string) (bool, error)
}

// RecordReader yields procedure records of a type, all when empty
type RecordReader interface {
	Load(ctx context.Context, procedureType string) ([]model.ProcedureRecord, error)
}

// Importer copies records from a source into the procedure store
type Importer struct {
	source RecordReader
	writer ProcedureWriter
	logger *slog.Logger
}

// NewImporter creates a new Importer. source is typically a store.FileSource.
func NewImporter(source RecordReader, writer ProcedureWriter) *Importer {
	return &Importer{
		source: source,
		writer: writer,
		logger: slog.Default(),
	}
}

// Import loads every record of procedureType (all when empty) and upserts
// it. Records without a reference are skipped; write failures are counted
// and the import continues.
func (i *Importer) Import(ctx context.Context, procedureType string) (*ImportStats, error) {
	stats := &ImportStats{BatchID: uuid.NewString()}

	i.logger.Info("Reading records", "procedure_type", procedureType)
	records, err := i.source.Load(ctx, procedureType)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	stats.Total = len(records)
	i.logger.Info("Found records to process", "count", stats.Total, "batch_id", stats.BatchID)

	for idx := range records {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		rec := &records[idx]
		ref := rec.Reference()
		if ref == "" {
			i.logger.Warn("Skipping record without reference", "position", idx)
			stats.Skipped++
			continue
		}

		changed, err := i.writer.Upsert(ctx, rec, stats.BatchID)
		if err != nil {
			i.logger.Error("Failed to import record", "reference", ref, "error", err)
			stats.Failed++
			continue
		}

		stats.Imported++
		if changed {
			stats.Changed++
		} else {
			stats.Unchanged++
		}
	}

	return stats, nil
}

// PrintSummary logs the import statistics
func (i *Importer) PrintSummary(stats *ImportStats) {
	successRate := 0.0
	if attempted := stats.Total - stats.Skipped; attempted > 0 {
		successRate = float64(stats.Imported) / float64(attempted) * 100
	}

	i.logger.Info("Import summary",
		"batch_id", stats.BatchID,
		"total", stats.Total,
		"imported", stats.Imported,
		"changed", stats.Changed,
		"unchanged", stats.Unchanged,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"success_rate", fmt.Sprintf("%.1f%%", successRate),
	)
}
