package store

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/jjenkins/regmonitor/internal/model"
)

// DefaultProcedureType is the ordinary legislative procedure
const DefaultProcedureType = "COD - Ordinary legislative procedure (ex-codecision procedure)"

// DefaultSampleSize caps how many records a load returns
const DefaultSampleSize = 100

// RecordSource yields procedure records. An empty procedureType returns
// every record.
type RecordSource interface {
	Load(ctx context.Context, procedureType string) ([]model.ProcedureRecord, error)
}

// DataLoadError reports one malformed record that was skipped
type DataLoadError struct {
	Position int
	Err      error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Position, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// RecordSet is a loaded batch of records keyed by procedure reference
type RecordSet struct {
	records []model.ProcedureRecord
	byRef   map[string]int
}

// NewRecordSet indexes records by reference. Records without a reference
// and later duplicates of a reference are dropped.
func NewRecordSet(records []model.ProcedureRecord) *RecordSet {
	s := &RecordSet{
		records: make([]model.ProcedureRecord, 0, len(records)),
		byRef:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		ref := r.Reference()
		if ref == "" {
			slog.Warn("Skipping record without reference", "title", r.Title())
			continue
		}
		if _, exists := s.byRef[ref]; exists {
			slog.Warn("Skipping duplicate record", "reference", ref)
			continue
		}
		s.byRef[ref] = len(s.records)
		s.records = append(s.records, r)
	}
	return s
}

// All returns the records in load order
func (s *RecordSet) All() []model.ProcedureRecord {
	return s.records
}

// Len returns the number of records
func (s *RecordSet) Len() int {
	return len(s.records)
}

// Get returns the record with the given reference
func (s *RecordSet) Get(reference string) (*model.ProcedureRecord, bool) {
	idx, ok := s.byRef[reference]
	if !ok {
		return nil, false
	}
	return &s.records[idx], true
}

// RecordSummary is the list view of a record
type RecordSummary struct {
	Reference string
	Title     string
	Stage     string
}

// Summaries returns one summary per record in load order
func (s *RecordSet) Summaries() []RecordSummary {
	out := make([]RecordSummary, 0, len(s.records))
	for i := range s.records {
		r := &s.records[i]
		stage := ""
		if r.Procedure != nil && r.Procedure.StageReached != nil {
			stage = *r.Procedure.StageReached
		}
		out = append(out, RecordSummary{
			Reference: r.Reference(),
			Title:     r.Title(),
			Stage:     stage,
		})
	}
	return out
}

// Loader loads, filters and samples records from a source
type Loader struct {
	source        RecordSource
	procedureType string
	sampleSize    int
	shuffle       func(n int, swap func(i, j int))
}

// NewLoader creates a Loader. sampleSize <= 0 disables sampling.
func NewLoader(source RecordSource, procedureType string, sampleSize int) *Loader {
	return &Loader{
		source:        source,
		procedureType: procedureType,
		sampleSize:    sampleSize,
		shuffle:       rand.Shuffle,
	}
}

// Load returns the records of the configured procedure type. When more
// than sampleSize match, a random sample of sampleSize is returned; the
// sample is unseeded and differs between loads.
func (l *Loader) Load(ctx context.Context) (*RecordSet, error) {
	slog.Info("Loading list of laws", "procedure_type", l.procedureType)

	records, err := l.source.Load(ctx, l.procedureType)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	set := NewRecordSet(records)
	if l.sampleSize > 0 && set.Len() > l.sampleSize {
		sampled := append([]model.ProcedureRecord(nil), set.All()...)
		l.shuffle(len(sampled), func(i, j int) {
			sampled[i], sampled[j] = sampled[j], sampled[i]
		})
		set = NewRecordSet(sampled[:l.sampleSize])
	}

	slog.Info("Retrieved laws", "count", set.Len(), "procedure_type", l.procedureType)
	return set, nil
}

// filterByType keeps records whose procedure type equals procedureType
func filterByType(records []model.ProcedureRecord, procedureType string) []model.ProcedureRecord {
	if procedureType == "" {
		return records
	}
	out := records[:0]
	for _, r := range records {
		if r.Type() == procedureType {
			out = append(out, r)
		}
	}
	return out
}
