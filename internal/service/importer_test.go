package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/regmonitor/internal/model"
)

type fakeReader struct {
	records []model.ProcedureRecord
	err     error
	gotType string
}

func (f *fakeReader) Load(ctx context.Context, procedureType string) ([]model.ProcedureRecord, error) {
	f.gotType = procedureType
	return f.records, f.err
}

type fakeWriter struct {
	changed map[string]bool
	fail    map[string]bool
	batches []string
}

func (f *fakeWriter) Upsert(ctx context.Context, rec *model.ProcedureRecord, batchID string) (bool, error) {
	f.batches = append(f.batches, batchID)
	if f.fail[rec.Reference()] {
		return false, errors.New("constraint violation")
	}
	return f.changed[rec.Reference()], nil
}

func recordRef(ref string) model.ProcedureRecord {
	if ref == "" {
		return model.ProcedureRecord{Procedure: &model.Procedure{}}
	}
	return model.ProcedureRecord{Procedure: &model.Procedure{Reference: strPtr(ref)}}
}

func TestImport(t *testing.T) {
	reader := &fakeReader{records: []model.ProcedureRecord{
		recordRef("a"), recordRef("b"), recordRef(""), recordRef("c"),
	}}
	writer := &fakeWriter{
		changed: map[string]bool{"a": true},
		fail:    map[string]bool{"c": true},
	}

	importer := NewImporter(reader, writer)
	stats, err := importer.Import(context.Background(), "COD")
	require.NoError(t, err)

	assert.Equal(t, "COD", reader.gotType)
	assert.NotEmpty(t, stats.BatchID)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 1, stats.Changed)
	assert.Equal(t, 1, stats.Unchanged)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)

	for _, id := range writer.batches {
		assert.Equal(t, stats.BatchID, id)
	}

	importer.PrintSummary(stats)
}

func TestImportReadFailure(t *testing.T) {
	importer := NewImporter(&fakeReader{err: errors.New("no such file")}, &fakeWriter{})

	_, err := importer.Import(context.Background(), "")
	assert.ErrorContains(t, err, "failed to read records")
}

func TestImportCancelled(t *testing.T) {
	reader := &fakeReader{records: []model.ProcedureRecord{recordRef("a")}}
	writer := &fakeWriter{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := NewImporter(reader, writer).Import(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, stats)
	assert.Zero(t, stats.Imported)
	assert.Empty(t, writer.batches)
}
