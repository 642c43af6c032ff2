package models

import (
	"bytes"
	"fmt"
	"strconv"
)

// ID is a record identifier. Backends may serialize it as a number or as a
// numeric string; both decode to the same value. It always encodes as a number.
type ID int

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	if raw == "" || raw == "null" {
		*id = 0
		return nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", raw, err)
	}
	*id = ID(n)
	return nil
}

// ParseID converts a path parameter into an ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return ID(n), nil
}
