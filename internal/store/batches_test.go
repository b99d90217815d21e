package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/regmonitor/internal/model"
)

func TestBatchesPutGet(t *testing.T) {
	b := NewBatches(0)
	set := NewRecordSet([]model.ProcedureRecord{record("a", "t")})

	id := b.Put(set)
	require.NotEmpty(t, id)

	got, ok := b.Get(id)
	require.True(t, ok)
	assert.Same(t, set, got)

	_, ok = b.Get("unknown")
	assert.False(t, ok)
}

func TestBatchesEvictsOldest(t *testing.T) {
	b := NewBatches(2)

	first := b.Put(NewRecordSet(nil))
	second := b.Put(NewRecordSet(nil))
	third := b.Put(NewRecordSet(nil))

	_, ok := b.Get(first)
	assert.False(t, ok)
	_, ok = b.Get(second)
	assert.True(t, ok)
	_, ok = b.Get(third)
	assert.True(t, ok)
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Checksum(nil))
	assert.NotEqual(t, Checksum([]byte(`{"a":1}`)), Checksum([]byte(`{"a":2}`)))
}
