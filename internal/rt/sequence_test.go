package rt

import "testing"

func intLess(a, b Elem) bool { return a.(int) < b.(int) }

func TestSequencePushPopGrowth(t *testing.T) {
	s := NewSequence(false)
	if s.Cap() != 0 {
		t.Fatalf("want zero cap before first push, got %d", s.Cap())
	}
	for i := 0; i < 17; i++ {
		s.Push(i)
	}
	if s.Len() != 17 {
		t.Fatalf("want len 17, got %d", s.Len())
	}
	if s.Cap() < 17 {
		t.Fatalf("cap %d smaller than len", s.Cap())
	}
	if s.Cap() != seqInitialCap*2 {
		t.Fatalf("want cap to double past 16 to 32, got %d", s.Cap())
	}
	for i := 16; i >= 0; i-- {
		v, ok := s.Pop()
		if !ok || v.(int) != i {
			t.Fatalf("pop order wrong at %d: got %v, %v", i, v, ok)
		}
	}
	if s.Len() != 0 {
		t.Fatal("want empty after popping everything")
	}
}

func TestSequencePushAllSelfAppend(t *testing.T) {
	s := NewSequence(false)
	s.Push(1)
	s.Push(2)
	s.Push(3)
	s.PushAll(s)
	if s.Len() != 6 {
		t.Fatalf("want len 6 after self-append, got %d", s.Len())
	}
	want := []int{1, 2, 3, 1, 2, 3}
	for i, w := range want {
		v, _ := s.Get(i)
		if v.(int) != w {
			t.Fatalf("index %d: want %d, got %v", i, w, v)
		}
	}
}

func TestSequenceSliceCloneReverse(t *testing.T) {
	s := NewSequence(false)
	for i := 0; i < 5; i++ {
		s.Push(i)
	}
	mid := s.Slice(1, 4)
	if mid.Len() != 3 {
		t.Fatalf("want len 3, got %d", mid.Len())
	}
	v, _ := mid.Get(0)
	if v.(int) != 1 {
		t.Fatalf("want first elem 1, got %v", v)
	}

	clone := s.Clone()
	clone.Reverse()
	clone.Reverse()
	for i := 0; i < s.Len(); i++ {
		a, _ := s.Get(i)
		b, _ := clone.Get(i)
		if a != b {
			t.Fatalf("double reverse should be identity at %d: %v != %v", i, a, b)
		}
	}
}

func TestSequenceSortStableAndIdempotent(t *testing.T) {
	s := NewSequence(false)
	for _, v := range []int{5, 3, 1, 4, 1, 5, 9, 2, 6} {
		s.Push(v)
	}
	s.Sort(intLess)
	prev := -1 << 62
	for i := 0; i < s.Len(); i++ {
		v, _ := s.Get(i)
		if v.(int) < prev {
			t.Fatalf("not sorted at %d: %v after %v", i, v, prev)
		}
		prev = v.(int)
	}
	snapshot := s.Clone()
	s.Sort(intLess)
	for i := 0; i < s.Len(); i++ {
		a, _ := s.Get(i)
		b, _ := snapshot.Get(i)
		if a != b {
			t.Fatalf("re-sorting an already-sorted sequence changed it at %d", i)
		}
	}
}

func TestSequenceSortDesc(t *testing.T) {
	s := NewSequence(false)
	for _, v := range []int{1, 2, 3} {
		s.Push(v)
	}
	s.SortDesc(intLess)
	want := []int{3, 2, 1}
	for i, w := range want {
		v, _ := s.Get(i)
		if v.(int) != w {
			t.Fatalf("index %d: want %d, got %v", i, w, v)
		}
	}
}

func TestSequenceShuffleDeterministicWithSeed(t *testing.T) {
	a := NewSequence(false)
	b := NewSequence(false)
	for i := 0; i < 10; i++ {
		a.Push(i)
		b.Push(i)
	}
	a.SetSeed(42)
	b.SetSeed(42)
	a.Shuffle()
	b.Shuffle()
	for i := 0; i < a.Len(); i++ {
		av, _ := a.Get(i)
		bv, _ := b.Get(i)
		if av != bv {
			t.Fatalf("same seed should produce same permutation, differs at %d", i)
		}
	}
}

func TestSequenceFunctionalHelpers(t *testing.T) {
	s := NewSequence(false)
	for i := 1; i <= 6; i++ {
		s.Push(i)
	}
	even := func(v Elem) bool { return v.(int)%2 == 0 }

	kept := s.Keep(even)
	if kept.Len() != 3 {
		t.Fatalf("want 3 even numbers, got %d", kept.Len())
	}
	rejected := s.Reject(even)
	if rejected.Len() != 3 {
		t.Fatalf("want 3 odd numbers, got %d", rejected.Len())
	}
	if !s.Any(even) || s.All(even) || s.None(even) {
		t.Fatal("any/all/none disagree with expected mixed parity")
	}
	if s.CountWhere(even) != 3 {
		t.Fatalf("want count 3, got %d", s.CountWhere(even))
	}
	if v, ok := s.FindWhere(even); !ok || v.(int) != 2 {
		t.Fatalf("want first even 2, got %v, %v", v, ok)
	}
	sum := s.Fold(0, func(acc, v Elem) Elem { return acc.(int) + v.(int) })
	if sum.(int) != 21 {
		t.Fatalf("want sum 21, got %v", sum)
	}
	if s.Take(2).Len() != 2 || s.Drop(4).Len() != 2 {
		t.Fatal("take/drop length mismatch")
	}
	lt4 := func(v Elem) bool { return v.(int) < 4 }
	if s.TakeWhile(lt4).Len() != 3 {
		t.Fatalf("want takeWhile length 3, got %d", s.TakeWhile(lt4).Len())
	}
	if s.DropWhile(lt4).Len() != 3 {
		t.Fatalf("want dropWhile length 3, got %d", s.DropWhile(lt4).Len())
	}
}

func TestSequenceApply(t *testing.T) {
	s := NewSequence(false)
	s.Push(1)
	s.Push(2)
	s.Apply(func(v Elem) Elem { return v.(int) * 10 })
	v0, _ := s.Get(0)
	v1, _ := s.Get(1)
	if v0.(int) != 10 || v1.(int) != 20 {
		t.Fatalf("apply did not transform in place: %v, %v", v0, v1)
	}
}
