package engine

// Memo is a bounded map. It has no eviction policy: once a Put would take it
// past its capacity the whole table is dropped and refilling starts over.
type Memo[K comparable, V any] struct {
	entries  map[K]V
	capacity int
	hits     uint64
	misses   uint64
}

func NewMemo[K comparable, V any](capacity int) *Memo[K, V] {
	return &Memo[K, V]{
		entries:  make(map[K]V),
		capacity: Max(capacity, 1),
	}
}

func (m *Memo[K, V]) Get(key K) (V, bool) {
	v, ok := m.entries[key]
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	return v, ok
}

func (m *Memo[K, V]) Put(key K, value V) {
	if _, ok := m.entries[key]; !ok && len(m.entries) >= m.capacity {
		m.Clear()
	}
	m.entries[key] = value
}

func (m *Memo[K, V]) Len() int       { return len(m.entries) }
func (m *Memo[K, V]) Capacity() int  { return m.capacity }
func (m *Memo[K, V]) Hits() uint64   { return m.hits }
func (m *Memo[K, V]) Misses() uint64 { return m.misses }

// Clear drops every entry. Hit and miss counters survive.
func (m *Memo[K, V]) Clear() {
	m.entries = make(map[K]V)
}

// Resize changes the capacity. A table already above the new limit is
// cleared on the next maintenance pass, not here.
func (m *Memo[K, V]) Resize(capacity int) {
	m.capacity = Max(capacity, 1)
}

// Maintain clears the table if it holds more than its capacity and reports
// whether it did.
func (m *Memo[K, V]) Maintain() bool {
	if len(m.entries) > m.capacity {
		m.Clear()
		return true
	}
	return false
}
