// Package listview holds the working collection of one list screen and the
// client-side filtering, sorting and pagination applied to it.
package listview

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/facette/natsort"
)

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultPageSize and PageSizes match the paginator of the screens.
const DefaultPageSize = 10

var PageSizes = []int{5, 10, 25, 100}

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidPage     = errors.New("invalid page index")
)

// Column is a visible column. Text renders the cell; Number, when set, makes
// the column sort numerically instead of by natural string order.
type Column[T any] struct {
	Key    string
	Label  string
	Text   func(T) string
	Number func(T) float64
}

// Page is the displayed slice of the table.
type Page[T any] struct {
	Rows      []T       `json:"rows"`
	Total     int       `json:"total"`
	PageIndex int       `json:"pageIndex"`
	PageSize  int       `json:"pageSize"`
	PageCount int       `json:"pageCount"`
	Filter    string    `json:"filter"`
	SortKey   string    `json:"sort,omitempty"`
	SortDir   Direction `json:"dir,omitempty"`
}

// Table is an in-memory table. Filtering and sorting only change what is
// displayed; the fetched data is never mutated.
type Table[T any] struct {
	columns []Column[T]

	mu        sync.RWMutex
	data      []T
	filter    string
	sortKey   string
	sortDir   Direction
	pageIndex int
	pageSize  int
}

func NewTable[T any](columns ...Column[T]) *Table[T] {
	return &Table[T]{
		columns:  columns,
		data:     []T{},
		pageSize: DefaultPageSize,
	}
}

// Columns returns the visible columns in display order.
func (t *Table[T]) Columns() []Column[T] {
	return t.columns
}

// SetData replaces the working collection.
func (t *Table[T]) SetData(data []T) {
	cp := make([]T, len(data))
	copy(cp, data)

	t.mu.Lock()
	t.data = cp
	t.mu.Unlock()
}

// Data returns a copy of the unfiltered collection.
func (t *Table[T]) Data() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.data)
}

// SetFilter trims and lowercases text and goes back to the first page.
func (t *Table[T]) SetFilter(text string) {
	t.mu.Lock()
	t.filter = strings.ToLower(strings.TrimSpace(text))
	t.pageIndex = 0
	t.mu.Unlock()
}

// SetSort orders by the column key. An empty key clears the sort.
func (t *Table[T]) SetSort(key string, dir Direction) error {
	if key != "" {
		if _, ok := t.column(key); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, key)
		}
	}
	if dir != Desc {
		dir = Asc
	}

	t.mu.Lock()
	t.sortKey = key
	t.sortDir = dir
	t.mu.Unlock()
	return nil
}

// SetPage selects a page. A size of zero keeps the current one.
func (t *Table[T]) SetPage(index, size int) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, index)
	}
	if size != 0 && !slices.Contains(PageSizes, size) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}

	t.mu.Lock()
	t.pageIndex = index
	if size != 0 {
		t.pageSize = size
	}
	t.mu.Unlock()
	return nil
}

// Matches reports whether some visible column of row contains filter
// (already lowercased).
func (t *Table[T]) Matches(row T, filter string) bool {
	if filter == "" {
		return true
	}
	for _, c := range t.columns {
		if strings.Contains(strings.ToLower(c.Text(row)), filter) {
			return true
		}
	}
	return false
}

// View applies filter, sort and pagination to a copy of the data.
func (t *Table[T]) View() Page[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rows := make([]T, 0, len(t.data))
	for _, row := range t.data {
		if t.Matches(row, t.filter) {
			rows = append(rows, row)
		}
	}

	if col, ok := t.column(t.sortKey); ok {
		sortRows(rows, col, t.sortDir)
	}

	total := len(rows)
	pageCount := (total + t.pageSize - 1) / t.pageSize
	index := t.pageIndex
	if pageCount > 0 && index >= pageCount {
		index = pageCount - 1
	}

	start := min(index*t.pageSize, total)
	end := min(start+t.pageSize, total)

	return Page[T]{
		Rows:      rows[start:end],
		Total:     total,
		PageIndex: index,
		PageSize:  t.pageSize,
		PageCount: pageCount,
		Filter:    t.filter,
		SortKey:   t.sortKey,
		SortDir:   t.sortDir,
	}
}

func (t *Table[T]) column(key string) (Column[T], bool) {
	for _, c := range t.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

func sortRows[T any](rows []T, col Column[T], dir Direction) {
	less := func(a, b T) bool {
		if col.Number != nil {
			return col.Number(a) < col.Number(b)
		}
		return natsort.Compare(strings.ToLower(col.Text(a)), strings.ToLower(col.Text(b)))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if dir == Desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
