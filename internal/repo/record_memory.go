package repo

import (
	"context"
	"maps"
	"sync"
)

// InMemoryRecordRepository keeps every collection in memory.
type InMemoryRecordRepository struct {
	mu          sync.RWMutex
	collections map[string][]Record
}

// NewInMemoryRecordRepository creates an empty repository.
func NewInMemoryRecordRepository() *InMemoryRecordRepository {
	r := &InMemoryRecordRepository{collections: map[string][]Record{}}
	for _, c := range Collections {
		r.collections[c] = []Record{}
	}
	return r
}

func (r *InMemoryRecordRepository) List(_ context.Context, collection string, filter map[string]string) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs, ok := r.collections[collection]
	if !ok {
		return nil, ErrUnknownCollection
	}
	out := []Record{}
	for _, rec := range recs {
		if matchesRecord(rec, filter) {
			out = append(out, maps.Clone(rec))
		}
	}
	return out, nil
}

func (r *InMemoryRecordRepository) GetByID(_ context.Context, collection string, id int) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, err := r.index(collection, id)
	if err != nil {
		return nil, err
	}
	return maps.Clone(r.collections[collection][i]), nil
}

func (r *InMemoryRecordRepository) Create(_ context.Context, collection string, rec Record) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, ok := r.collections[collection]
	if !ok {
		return nil, ErrUnknownCollection
	}
	next := 1
	for _, existing := range recs {
		if id, ok := recordID(existing); ok && id >= next {
			next = id + 1
		}
	}

	created := withID(rec, next)
	r.collections[collection] = append(recs, created)
	return maps.Clone(created), nil
}

func (r *InMemoryRecordRepository) Replace(_ context.Context, collection string, id int, rec Record) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.index(collection, id)
	if err != nil {
		return nil, err
	}
	replaced := withID(rec, id)
	r.collections[collection][i] = replaced
	return maps.Clone(replaced), nil
}

func (r *InMemoryRecordRepository) Merge(_ context.Context, collection string, id int, fields Record) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.index(collection, id)
	if err != nil {
		return nil, err
	}
	merged := maps.Clone(r.collections[collection][i])
	for k, v := range fields {
		merged[k] = v
	}
	merged["id"] = id
	r.collections[collection][i] = merged
	return maps.Clone(merged), nil
}

func (r *InMemoryRecordRepository) Delete(_ context.Context, collection string, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.index(collection, id)
	if err != nil {
		return err
	}
	recs := r.collections[collection]
	r.collections[collection] = append(recs[:i:i], recs[i+1:]...)
	return nil
}

func (r *InMemoryRecordRepository) Import(_ context.Context, collection string, recs []Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collections[collection]; !ok {
		return ErrUnknownCollection
	}
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		id, ok := recordID(rec)
		if !ok {
			return ErrInvalidRecordValue
		}
		out = append(out, withID(rec, id))
	}
	sortByID(out)
	r.collections[collection] = out
	return nil
}

// Clear empties every collection.
func (r *InMemoryRecordRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.collections {
		r.collections[c] = []Record{}
	}
}

func (r *InMemoryRecordRepository) index(collection string, id int) (int, error) {
	recs, ok := r.collections[collection]
	if !ok {
		return 0, ErrUnknownCollection
	}
	for i, rec := range recs {
		if rid, ok := recordID(rec); ok && rid == id {
			return i, nil
		}
	}
	return 0, ErrRecordNotFound
}
