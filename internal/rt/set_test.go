package rt

import "testing"

func TestSetContentAwareEquality(t *testing.T) {
	s := NewSet(false)
	if !s.Put(NewBoxInt(1)) {
		t.Fatal("first insert should report newly added")
	}
	if s.Put(NewBoxInt(1)) {
		t.Fatal("inserting an equal-valued box should not be newly added")
	}
	if s.Len() != 1 {
		t.Fatalf("want len 1, got %d", s.Len())
	}
	if !s.Has(NewBoxInt(1)) {
		t.Fatal("distinct box instance with same value should be Has")
	}
	if s.Has(NewBoxInt(2)) {
		t.Fatal("different value should not be Has")
	}

	s.Put(NewBoxFloat(1.5))
	s.Put(NewBoxBool(true))
	if s.Len() != 3 {
		t.Fatalf("want len 3 across kinds, got %d", s.Len())
	}
}

func TestSetPointerIdentityForNonBox(t *testing.T) {
	type thing struct{ n int }
	a := &thing{n: 1}
	b := &thing{n: 1}
	s := NewSet(false)
	s.Put(a)
	if s.Has(b) {
		t.Fatal("distinct pointers with equal contents must not be Has under pointer identity")
	}
	if !s.Has(a) {
		t.Fatal("same pointer must be Has")
	}
}

func TestSetRemove(t *testing.T) {
	s := NewSet(false)
	s.Put(NewBoxInt(7))
	if !s.Remove(NewBoxInt(7)) {
		t.Fatal("remove of an equal-valued box should succeed")
	}
	if s.Len() != 0 {
		t.Fatal("want empty after remove")
	}
	if s.Remove(NewBoxInt(7)) {
		t.Fatal("second remove should report false")
	}
}

func setOf(vs ...int64) *Set {
	s := NewSet(false)
	for _, v := range vs {
		s.Put(NewBoxInt(v))
	}
	return s
}

func TestSetAlgebra(t *testing.T) {
	a := setOf(1, 2, 3)
	b := setOf(2, 3, 4)

	u := Union(a, b)
	if u.Len() != 4 {
		t.Fatalf("want union len 4, got %d", u.Len())
	}
	u2 := Union(b, a)
	if u2.Len() != u.Len() {
		t.Fatal("union should be commutative in size")
	}

	i := Intersect(a, b)
	if i.Len() != 2 || !i.Has(NewBoxInt(2)) || !i.Has(NewBoxInt(3)) {
		t.Fatalf("want intersect {2,3}, got len %d", i.Len())
	}
	i2 := Intersect(b, a)
	if i2.Len() != i.Len() {
		t.Fatal("intersect should be commutative in size")
	}

	d := Diff(a, a)
	if d.Len() != 0 {
		t.Fatalf("diff of a set with itself should be empty, got len %d", d.Len())
	}

	dab := Diff(a, b)
	if dab.Len() != 1 || !dab.Has(NewBoxInt(1)) {
		t.Fatalf("want diff(a,b) = {1}, got len %d", dab.Len())
	}

	if !IsSubset(i, a) || !IsSubset(i, b) {
		t.Fatal("intersection must be a subset of both operands")
	}
	if IsSubset(a, i) {
		t.Fatal("a is not a subset of its own intersection with b")
	}
	if !IsSuperset(a, i) {
		t.Fatal("a should be a superset of the intersection")
	}

	c := setOf(10, 20)
	if !IsDisjoint(a, c) {
		t.Fatal("a and c share no elements, should be disjoint")
	}
	if IsDisjoint(a, b) {
		t.Fatal("a and b share elements, should not be disjoint")
	}

	same1 := setOf(1, 2)
	same2 := setOf(2, 1)
	if !IsSubset(same1, same2) || !IsSubset(same2, same1) {
		t.Fatal("equal sets must be mutual subsets regardless of insertion order")
	}
}

func TestSetResizeThreshold(t *testing.T) {
	s := NewSet(false)
	for i := int64(0); i < 50; i++ {
		s.Put(NewBoxInt(i))
	}
	if s.count*4 > len(s.buckets)*3 {
		t.Fatalf("load factor exceeds 3/4: count=%d buckets=%d", s.count, len(s.buckets))
	}
	for i := int64(0); i < 50; i++ {
		if !s.Has(NewBoxInt(i)) {
			t.Fatalf("lost element %d after resize", i)
		}
	}
}
