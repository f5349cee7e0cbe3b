package rt

import (
	"fmt"
	"reflect"
)

// pointerHash hashes a non-box element by pointer identity when its
// dynamic type is a pointer, falling back to a content hash of its Go
// representation for the rare non-pointer, non-box element (spec.md
// only requires equal/hash to agree, not that the fallback be fast).
func pointerHash(v Elem) uint64 {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		return mix64(uint64(rv.Pointer()))
	}
	return fnv1a(fmt.Sprintf("%#v", v))
}

type setEntry struct {
	value Elem
	next  *setEntry
}

// Set is the hash chain of spec.md §3/§4.5 keyed by boxed elements:
// content-aware equality/hash for *Box values, pointer identity
// otherwise.
type Set struct {
	Header
	buckets []*setEntry
	count   int
	owns    bool
}

func NewSet(owns bool) *Set {
	s := &Set{buckets: make([]*setEntry, hashMapInitialBuckets), owns: owns}
	s.Header = NewHeader(ClassSet, func(h *Header) { s.finalize() })
	return s
}

func (s *Set) Hdr() *Header { return &s.Header }

func (s *Set) finalize() {
	for _, head := range s.buckets {
		for e := head; e != nil; e = e.next {
			releaseElem(s.owns, e.value)
		}
	}
	s.buckets = nil
}

func (s *Set) Len() int { return s.count }

// hashOf dispatches on box tag, per spec.md's Set.hash: int/float/bool
// boxes hash by content; anything else goes to pointerHash.
func hashOf(v Elem) uint64 {
	if b, ok := v.(*Box); ok {
		return b.Hash()
	}
	return pointerHash(v)
}

// equalOf dispatches the same way as hashOf: content equality only
// when both sides are boxes of matching kind.
func equalOf(a, b Elem) bool {
	ba, aok := a.(*Box)
	bb, bok := b.(*Box)
	if aok && bok {
		return ba.Equal(bb)
	}
	if aok != bok {
		return false
	}
	return a == b
}

func (s *Set) bucketFor(v Elem) int {
	return int(hashOf(v) % uint64(len(s.buckets)))
}

func (s *Set) contains(v Elem) *setEntry {
	idx := s.bucketFor(v)
	for e := s.buckets[idx]; e != nil; e = e.next {
		if equalOf(e.value, v) {
			return e
		}
	}
	return nil
}

func (s *Set) Has(v Elem) bool { return s.contains(v) != nil }

// Put returns true if v was newly added.
func (s *Set) Put(v Elem) bool {
	if s.contains(v) != nil {
		return false
	}
	retainElem(s.owns, v)
	idx := s.bucketFor(v)
	s.buckets[idx] = &setEntry{value: v, next: s.buckets[idx]}
	s.count++
	s.maybeResize()
	return true
}

func (s *Set) Remove(v Elem) bool {
	idx := s.bucketFor(v)
	var prev *setEntry
	for e := s.buckets[idx]; e != nil; e = e.next {
		if equalOf(e.value, v) {
			if prev == nil {
				s.buckets[idx] = e.next
			} else {
				prev.next = e.next
			}
			releaseElem(s.owns, e.value)
			s.count--
			return true
		}
		prev = e
	}
	return false
}

func (s *Set) maybeResize() {
	if s.count*4 <= len(s.buckets)*3 {
		return
	}
	old := s.buckets
	s.buckets = make([]*setEntry, len(old)*2)
	for _, head := range old {
		for e := head; e != nil; {
			next := e.next
			idx := s.bucketFor(e.value)
			e.next = s.buckets[idx]
			s.buckets[idx] = e
			e = next
		}
	}
}

func (s *Set) Each(fn func(Elem)) {
	for _, head := range s.buckets {
		for e := head; e != nil; e = e.next {
			fn(e.value)
		}
	}
}

func Union(a, b *Set) *Set {
	out := NewSet(a.owns)
	a.Each(func(v Elem) { out.Put(v) })
	b.Each(func(v Elem) { out.Put(v) })
	return out
}

func Intersect(a, b *Set) *Set {
	out := NewSet(a.owns)
	a.Each(func(v Elem) {
		if b.Has(v) {
			out.Put(v)
		}
	})
	return out
}

func Diff(a, b *Set) *Set {
	out := NewSet(a.owns)
	a.Each(func(v Elem) {
		if !b.Has(v) {
			out.Put(v)
		}
	})
	return out
}

func IsSubset(a, b *Set) bool {
	ok := true
	a.Each(func(v Elem) {
		if !b.Has(v) {
			ok = false
		}
	})
	return ok
}

func IsSuperset(a, b *Set) bool { return IsSubset(b, a) }

func IsDisjoint(a, b *Set) bool {
	disjoint := true
	a.Each(func(v Elem) {
		if b.Has(v) {
			disjoint = false
		}
	})
	return disjoint
}
