package rt

type orderedEntry struct {
	key        string
	value      Elem
	bucketNext *orderedEntry
	prev, next *orderedEntry // insertion-order list
}

// OrderedMap overlays the same hash-chain structure as HashMap on a
// doubly-linked insertion-order list, per spec.md §3/§4.5.
type OrderedMap struct {
	Header
	buckets    []*orderedEntry
	count      int
	owns       bool
	head, tail *orderedEntry
}

func NewOrderedMap(owns bool) *OrderedMap {
	m := &OrderedMap{buckets: make([]*orderedEntry, hashMapInitialBuckets), owns: owns}
	m.Header = NewHeader(ClassOrderedMap, func(h *Header) { m.finalize() })
	return m
}

func (m *OrderedMap) Hdr() *Header { return &m.Header }

func (m *OrderedMap) finalize() {
	for e := m.head; e != nil; e = e.next {
		releaseElem(m.owns, e.value)
	}
	m.buckets, m.head, m.tail = nil, nil, nil
}

func (m *OrderedMap) Len() int { return m.count }

func (m *OrderedMap) bucketFor(key string) int {
	return int(fnv1a(key) % uint64(len(m.buckets)))
}

func (m *OrderedMap) find(key string) *orderedEntry {
	idx := m.bucketFor(key)
	for e := m.buckets[idx]; e != nil; e = e.bucketNext {
		if e.key == key {
			return e
		}
	}
	return nil
}

func (m *OrderedMap) Put(key string, value Elem) {
	if e := m.find(key); e != nil {
		releaseElem(m.owns, e.value)
		retainElem(m.owns, value)
		e.value = value
		return
	}
	retainElem(m.owns, value)
	idx := m.bucketFor(key)
	e := &orderedEntry{key: key, value: value, bucketNext: m.buckets[idx]}
	m.buckets[idx] = e
	if m.tail == nil {
		m.head, m.tail = e, e
	} else {
		e.prev = m.tail
		m.tail.next = e
		m.tail = e
	}
	m.count++
	m.maybeResize()
}

func (m *OrderedMap) Get(key string) (Elem, bool) {
	if e := m.find(key); e != nil {
		return e.value, true
	}
	return nil, false
}

func (m *OrderedMap) Delete(key string) bool {
	idx := m.bucketFor(key)
	var prev *orderedEntry
	for e := m.buckets[idx]; e != nil; e = e.bucketNext {
		if e.key == key {
			if prev == nil {
				m.buckets[idx] = e.bucketNext
			} else {
				prev.bucketNext = e.bucketNext
			}
			m.unlink(e)
			releaseElem(m.owns, e.value)
			m.count--
			return true
		}
		prev = e
	}
	return false
}

func (m *OrderedMap) unlink(e *orderedEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		m.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		m.tail = e.prev
	}
}

func (m *OrderedMap) maybeResize() {
	if m.count*4 <= len(m.buckets)*3 {
		return
	}
	m.buckets = make([]*orderedEntry, len(m.buckets)*2)
	for e := m.head; e != nil; e = e.next {
		idx := m.bucketFor(e.key)
		e.bucketNext = m.buckets[idx]
		m.buckets[idx] = e
	}
}

// Keys iterates in insertion order.
func (m *OrderedMap) Keys() []string {
	out := make([]string, 0, m.count)
	for e := m.head; e != nil; e = e.next {
		out = append(out, e.key)
	}
	return out
}

// Values iterates in insertion order.
func (m *OrderedMap) Values() []Elem {
	out := make([]Elem, 0, m.count)
	for e := m.head; e != nil; e = e.next {
		out = append(out, e.value)
	}
	return out
}

// KeyAt walks the insertion list in O(i), per spec.md.
func (m *OrderedMap) KeyAt(i int) (string, bool) {
	if i < 0 {
		return "", false
	}
	e := m.head
	for ; e != nil && i > 0; i-- {
		e = e.next
	}
	if e == nil {
		return "", false
	}
	return e.key, true
}
