package repo

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

//go:embed seed.json
var defaultSeed []byte

// ReadSeed parses a seed document shaped {"collection": [records...]}. An
// empty path yields the built-in data set.
func ReadSeed(path string) (map[string][]Record, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading seed file: %w", err)
		}
		raw = b
	}

	var data map[string][]Record
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}
	return data, nil
}

// Seed imports every known collection present in data. Unknown collections
// are rejected before anything is written.
func Seed(ctx context.Context, r RecordRepository, data map[string][]Record) error {
	names := make([]string, 0, len(data))
	for name := range data {
		if !knownCollection(name) {
			return fmt.Errorf("%w: %s", ErrUnknownCollection, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.Import(ctx, name, data[name]); err != nil {
			return fmt.Errorf("seeding %s: %w", name, err)
		}
	}
	return nil
}
