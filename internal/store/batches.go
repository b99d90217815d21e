package store

import (
	"sync"

	"github.com/google/uuid"
)

const defaultMaxBatches = 32

// Batches keeps the record sets loaded by dashboard sessions so a session
// can refer to its batch by ID. The oldest batch is dropped once the limit
// is reached.
type Batches struct {
	mu    sync.Mutex
	max   int
	order []string
	sets  map[string]*RecordSet
}

// NewBatches creates a registry holding at most max batches
func NewBatches(max int) *Batches {
	if max <= 0 {
		max = defaultMaxBatches
	}
	return &Batches{
		max:  max,
		sets: make(map[string]*RecordSet),
	}
}

// Put registers set and returns its batch ID
func (b *Batches) Put(set *RecordSet) string {
	id := uuid.NewString()

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.order) >= b.max {
		oldest := b.order[0]
		b.order = b.order[1:]
		delete(b.sets, oldest)
	}
	b.order = append(b.order, id)
	b.sets[id] = set
	return id
}

// Get returns the batch with the given ID
func (b *Batches) Get(id string) (*RecordSet, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.sets[id]
	return set, ok
}
