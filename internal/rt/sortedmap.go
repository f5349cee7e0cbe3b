package rt

import "golang.org/x/exp/constraints"

type sortedEntry[K constraints.Ordered] struct {
	key   K
	value Elem
}

// SortedMap is the binary-search sorted entries array of spec.md
// §3/§4.5: O(log n) lookup/floor/ceiling, O(n) insert/remove via shift.
// Generic over any ordered key, grounded on golang.org/x/exp/constraints
// the way the pack's other generic containers are (see DESIGN.md).
type SortedMap[K constraints.Ordered] struct {
	Header
	entries []sortedEntry[K]
	owns    bool
}

func NewSortedMap[K constraints.Ordered](owns bool) *SortedMap[K] {
	m := &SortedMap[K]{owns: owns}
	m.Header = NewHeader(ClassSortedMap, func(h *Header) { m.finalize() })
	return m
}

func (m *SortedMap[K]) Hdr() *Header { return &m.Header }

func (m *SortedMap[K]) finalize() {
	for _, e := range m.entries {
		releaseElem(m.owns, e.value)
	}
	m.entries = nil
}

func (m *SortedMap[K]) Len() int { return len(m.entries) }

// search returns the index of key if present, else the insertion point.
func (m *SortedMap[K]) search(key K) (int, bool) {
	lo, hi := 0, len(m.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case m.entries[mid].key == key:
			return mid, true
		case m.entries[mid].key < key:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

func (m *SortedMap[K]) Put(key K, value Elem) {
	idx, found := m.search(key)
	if found {
		releaseElem(m.owns, m.entries[idx].value)
		retainElem(m.owns, value)
		m.entries[idx].value = value
		return
	}
	retainElem(m.owns, value)
	m.entries = append(m.entries, sortedEntry[K]{})
	copy(m.entries[idx+1:], m.entries[idx:])
	m.entries[idx] = sortedEntry[K]{key: key, value: value}
}

func (m *SortedMap[K]) Get(key K) (Elem, bool) {
	idx, found := m.search(key)
	if !found {
		return nil, false
	}
	return m.entries[idx].value, true
}

func (m *SortedMap[K]) Remove(key K) bool {
	idx, found := m.search(key)
	if !found {
		return false
	}
	releaseElem(m.owns, m.entries[idx].value)
	copy(m.entries[idx:], m.entries[idx+1:])
	m.entries = m.entries[:len(m.entries)-1]
	return true
}

// Floor returns the largest key <= k.
func (m *SortedMap[K]) Floor(k K) (K, Elem, bool) {
	idx, found := m.search(k)
	if found {
		return m.entries[idx].key, m.entries[idx].value, true
	}
	if idx == 0 {
		var zero K
		return zero, nil, false
	}
	e := m.entries[idx-1]
	return e.key, e.value, true
}

// Ceil returns the smallest key >= k.
func (m *SortedMap[K]) Ceil(k K) (K, Elem, bool) {
	idx, found := m.search(k)
	if found {
		return m.entries[idx].key, m.entries[idx].value, true
	}
	if idx >= len(m.entries) {
		var zero K
		return zero, nil, false
	}
	e := m.entries[idx]
	return e.key, e.value, true
}

func (m *SortedMap[K]) First() (K, Elem, bool) {
	if len(m.entries) == 0 {
		var zero K
		return zero, nil, false
	}
	e := m.entries[0]
	return e.key, e.value, true
}

func (m *SortedMap[K]) Last() (K, Elem, bool) {
	if len(m.entries) == 0 {
		var zero K
		return zero, nil, false
	}
	e := m.entries[len(m.entries)-1]
	return e.key, e.value, true
}
