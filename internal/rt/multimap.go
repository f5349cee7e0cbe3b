package rt

type multiEntry struct {
	key    string
	values *Sequence
	next   *multiEntry
}

// MultiMap is the hash chain of spec.md §3/§4.5 whose bucket values are
// sequences: tracks distinct-key count and total-value count
// independently.
type MultiMap struct {
	Header
	buckets     []*multiEntry
	distinctKeys int
	totalValues  int
	owns         bool
}

func NewMultiMap(owns bool) *MultiMap {
	m := &MultiMap{buckets: make([]*multiEntry, hashMapInitialBuckets), owns: owns}
	m.Header = NewHeader(ClassMultiMap, func(h *Header) { m.finalize() })
	return m
}

func (m *MultiMap) Hdr() *Header { return &m.Header }

func (m *MultiMap) finalize() {
	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			Release(&e.values.Header)
		}
	}
	m.buckets = nil
}

func (m *MultiMap) DistinctKeys() int { return m.distinctKeys }
func (m *MultiMap) TotalValues() int  { return m.totalValues }

func (m *MultiMap) bucketFor(key string) int {
	return int(fnv1a(key) % uint64(len(m.buckets)))
}

func (m *MultiMap) find(key string) *multiEntry {
	idx := m.bucketFor(key)
	for e := m.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			return e
		}
	}
	return nil
}

// Put appends to the existing key's sequence or creates one.
func (m *MultiMap) Put(key string, value Elem) {
	if e := m.find(key); e != nil {
		e.values.Push(value)
		m.totalValues++
		return
	}
	seq := NewSequence(m.owns)
	seq.Push(value)
	idx := m.bucketFor(key)
	m.buckets[idx] = &multiEntry{key: key, values: seq, next: m.buckets[idx]}
	m.distinctKeys++
	m.totalValues++
	m.maybeResize()
}

// Get returns a fresh copy of the value sequence, never nil.
func (m *MultiMap) Get(key string) *Sequence {
	if e := m.find(key); e != nil {
		return e.values.Clone()
	}
	return NewSequence(m.owns)
}

// GetFirst returns only the head element, or nil if the key is absent
// or has no values.
func (m *MultiMap) GetFirst(key string) (Elem, bool) {
	e := m.find(key)
	if e == nil {
		return nil, false
	}
	return e.values.Get(0)
}

// RemoveAll drops the key and all its values; per-value removal is
// intentionally unspecified (spec.md §4.5).
func (m *MultiMap) RemoveAll(key string) bool {
	idx := m.bucketFor(key)
	var prev *multiEntry
	for e := m.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			if prev == nil {
				m.buckets[idx] = e.next
			} else {
				prev.next = e.next
			}
			m.totalValues -= e.values.Len()
			Release(&e.values.Header)
			m.distinctKeys--
			return true
		}
		prev = e
	}
	return false
}

func (m *MultiMap) maybeResize() {
	if m.distinctKeys*4 <= len(m.buckets)*3 {
		return
	}
	old := m.buckets
	m.buckets = make([]*multiEntry, len(old)*2)
	for _, head := range old {
		for e := head; e != nil; {
			next := e.next
			idx := m.bucketFor(e.key)
			e.next = m.buckets[idx]
			m.buckets[idx] = e
			e = next
		}
	}
}
