package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/regmonitor/internal/model"
)

type staticSource struct {
	records []model.ProcedureRecord
	err     error
}

func (s staticSource) Load(ctx context.Context, procedureType string) ([]model.ProcedureRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return filterByType(append([]model.ProcedureRecord(nil), s.records...), procedureType), nil
}

func strPtr(s string) *string { return &s }

func record(ref, title string) model.ProcedureRecord {
	p := &model.Procedure{Title: strPtr(title), Type: strPtr(DefaultProcedureType)}
	if ref != "" {
		p.Reference = strPtr(ref)
	}
	return model.ProcedureRecord{Procedure: p}
}

func TestNewRecordSetDeduplicates(t *testing.T) {
	set := NewRecordSet([]model.ProcedureRecord{
		record("a", "first"),
		record("", "no reference"),
		record("a", "second"),
		record("b", "other"),
	})

	assert.Equal(t, 2, set.Len())
	rec, ok := set.Get("a")
	require.True(t, ok)
	assert.Equal(t, "first", rec.Title())

	_, ok = set.Get("missing")
	assert.False(t, ok)

	summaries := set.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, RecordSummary{Reference: "b", Title: "other"}, summaries[1])
}

func TestLoaderSamples(t *testing.T) {
	var records []model.ProcedureRecord
	for i := 0; i < 10; i++ {
		records = append(records, record(fmt.Sprintf("ref-%d", i), "t"))
	}

	loader := NewLoader(staticSource{records: records}, DefaultProcedureType, 3)
	loader.shuffle = func(n int, swap func(i, j int)) {
		// reverse
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}

	set, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())
	assert.Equal(t, "ref-9", set.All()[0].Reference())
	assert.Equal(t, "ref-7", set.All()[2].Reference())
}

func TestLoaderUnsampledWhenSmall(t *testing.T) {
	loader := NewLoader(staticSource{records: []model.ProcedureRecord{record("a", "t"), record("b", "t")}}, DefaultProcedureType, DefaultSampleSize)
	loader.shuffle = func(n int, swap func(i, j int)) {
		t.Fatal("shuffle should not run")
	}

	set, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, "a", set.All()[0].Reference())
}

func TestLoaderRandomSampleIsSubset(t *testing.T) {
	var records []model.ProcedureRecord
	for i := 0; i < 50; i++ {
		records = append(records, record(fmt.Sprintf("ref-%d", i), "t"))
	}
	source := NewRecordSet(records)

	set, err := NewLoader(staticSource{records: records}, DefaultProcedureType, 10).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10, set.Len())
	for _, r := range set.All() {
		_, ok := source.Get(r.Reference())
		assert.True(t, ok)
	}
}

func TestLoaderFiltersType(t *testing.T) {
	other := record("x", "consultation")
	other.Procedure.Type = strPtr("CNS - Consultation procedure")

	set, err := NewLoader(staticSource{records: []model.ProcedureRecord{record("a", "t"), other}}, DefaultProcedureType, 0).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}

func TestLoaderSourceError(t *testing.T) {
	_, err := NewLoader(staticSource{err: errors.New("disk")}, DefaultProcedureType, 10).Load(context.Background())
	assert.ErrorContains(t, err, "failed to load records")
}

func TestDataLoadError(t *testing.T) {
	cause := errors.New("unexpected end")
	err := &DataLoadError{Position: 3, Err: cause}
	assert.Equal(t, "record 3: unexpected end", err.Error())
	assert.ErrorIs(t, err, cause)
}
