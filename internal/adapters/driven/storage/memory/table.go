package memory

import (
	"slices"
	"sync"
)

// table is a lock-guarded map of rows keyed by ID.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) put(id string, row T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = row
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
}

// selectRows returns the rows accepted by keep, sorted with order. keep
// may be nil to select everything.
func (t *table[T]) selectRows(keep func(T) bool, order func(a, b T) int) []T {
	t.mu.RLock()
	result := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			result = append(result, row)
		}
	}
	t.mu.RUnlock()

	slices.SortFunc(result, order)
	return result
}
