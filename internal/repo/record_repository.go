package repo

import (
	"context"
	"errors"
	"maps"
	"sort"

	"github.com/spf13/cast"
)

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrUnknownCollection  = errors.New("unknown collection")
	ErrInvalidRecordValue = errors.New("record is not a JSON object")
	ErrIDConflict         = errors.New("record id already taken")
)

// Collections served by the record store.
var Collections = []string{
	"persons",
	"products",
	"categories",
	"usuarios",
	"paises",
	"departamentos",
	"provincias",
	"distritos",
}

// Record is a schemaless JSON object. Its "id" is numeric.
type Record = map[string]any

// RecordRepository stores the records of every collection.
type RecordRepository interface {
	// List returns the records whose top-level fields equal every filter
	// value, compared by their string rendering.
	List(ctx context.Context, collection string, filter map[string]string) ([]Record, error)
	GetByID(ctx context.Context, collection string, id int) (Record, error)
	// Create assigns the next numeric id.
	Create(ctx context.Context, collection string, rec Record) (Record, error)
	// Replace swaps the whole record; Merge overwrites the given top-level
	// fields only.
	Replace(ctx context.Context, collection string, id int, rec Record) (Record, error)
	Merge(ctx context.Context, collection string, id int, fields Record) (Record, error)
	Delete(ctx context.Context, collection string, id int) error
	// Import replaces the content of a collection, keeping the given ids.
	Import(ctx context.Context, collection string, recs []Record) error
}

func knownCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// recordID reads the numeric id of rec.
func recordID(rec Record) (int, bool) {
	raw, ok := rec["id"]
	if !ok || raw == nil {
		return 0, false
	}
	id, err := cast.ToIntE(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

func matchesRecord(rec Record, filter map[string]string) bool {
	for k, want := range filter {
		v, ok := rec[k]
		if !ok || cast.ToString(v) != want {
			return false
		}
	}
	return true
}

// withID copies rec and stamps id, dropping any other id it carried.
func withID(rec Record, id int) Record {
	out := maps.Clone(rec)
	if out == nil {
		out = Record{}
	}
	out["id"] = id
	return out
}

func sortByID(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, _ := recordID(recs[i])
		b, _ := recordID(recs[j])
		return a < b
	})
}
