// Package rt implements the collection runtime of spec.md §4.5: a
// refcounted object header shared by every heap-managed collection,
// plus Sequence/HashMap/OrderedMap/SortedMap/FrozenMap/IntMap/MultiMap/
// Set/Box built on top of it.
//
// Grounded on the teacher's internal/vmregister/value.go Object header
// (Type/Marked/Next embedded in every heap object), adapted from its
// mark-sweep GC fields to refcounting since spec.md §3 "Runtime object
// header" specifies retain/release transitions, not a collector.
package rt

// ClassID tags the concrete shape of a Header's owner, the refcounted
// analogue of vmregister's ObjectType.
type ClassID uint8

const (
	ClassBox ClassID = iota
	ClassSequence
	ClassHashMap
	ClassOrderedMap
	ClassSortedMap
	ClassFrozenMap
	ClassIntMap
	ClassMultiMap
	ClassSet
)

// Finalizer releases whatever a Header's owner retained, invoked once
// the refcount drops to zero.
type Finalizer func(h *Header)

// Header is embedded in every heap-managed runtime object, per spec.md
// §3 "Runtime object header": class id, reference count, optional
// finalizer. Retain/Release transitions: allocate -> 1, retain -> +1,
// release when 0 -> invoke finalizer then free.
type Header struct {
	Class     ClassID
	refs      int32
	finalizer Finalizer
}

// NewHeader allocates a header with refcount 1, per "allocate -> 1".
func NewHeader(class ClassID, fin Finalizer) Header {
	return Header{Class: class, refs: 1, finalizer: fin}
}

// Retain increments the refcount. Safe on nil, matching spec.md's
// null-safety requirement for retain/release.
func Retain(h *Header) {
	if h == nil {
		return
	}
	h.refs++
}

// Release decrements the refcount, invoking the finalizer and
// signalling free (returns true) when it reaches zero. Safe on nil.
func Release(h *Header) bool {
	if h == nil {
		return false
	}
	h.refs--
	if h.refs > 0 {
		return false
	}
	if h.finalizer != nil {
		h.finalizer(h)
	}
	return true
}

// RefCount reports the current count; exposed for tests, never used by
// normal runtime logic to make decisions beyond retain/release.
func (h *Header) RefCount() int32 {
	if h == nil {
		return 0
	}
	return h.refs
}
