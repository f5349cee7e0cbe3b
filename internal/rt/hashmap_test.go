package rt

import "testing"

func TestHashMapPutGetDelete(t *testing.T) {
	m := NewHashMap(false)
	m.Put("a", 1)
	m.Put("b", 2)
	if v, ok := m.Get("a"); !ok || v.(int) != 1 {
		t.Fatalf("want a=1, got %v, %v", v, ok)
	}
	m.Put("a", 10)
	if v, _ := m.Get("a"); v.(int) != 10 {
		t.Fatalf("want overwritten a=10, got %v", v)
	}
	if m.Len() != 2 {
		t.Fatalf("want len 2, got %d", m.Len())
	}
	if !m.Delete("b") {
		t.Fatal("delete of present key should succeed")
	}
	if _, ok := m.Get("b"); ok {
		t.Fatal("b should be gone after delete")
	}
	if m.Delete("missing") {
		t.Fatal("delete of absent key should fail")
	}
}

func TestHashMapResizeThreshold(t *testing.T) {
	m := NewHashMap(false)
	for i := 0; i < 100; i++ {
		m.Put(string(rune('a'+i%26))+string(rune('A'+i/26)), i)
	}
	if len(m.buckets) <= hashMapInitialBuckets {
		t.Fatalf("expected bucket growth past initial %d, got %d", hashMapInitialBuckets, len(m.buckets))
	}
	if m.count*4 > len(m.buckets)*3 {
		t.Fatalf("load factor exceeds 3/4 after resize: count=%d buckets=%d", m.count, len(m.buckets))
	}
	for i := 0; i < 100; i++ {
		key := string(rune('a'+i%26)) + string(rune('A'+i/26))
		if v, ok := m.Get(key); !ok || v.(int) != i {
			t.Fatalf("lost entry %s after resize: %v, %v", key, v, ok)
		}
	}
}

func TestIntMapPutGetDelete(t *testing.T) {
	m := NewIntMap(false)
	m.Put(1, "one")
	m.Put(2, "two")
	m.Put(1, "uno")
	if v, _ := m.Get(1); v.(string) != "uno" {
		t.Fatalf("want overwritten value, got %v", v)
	}
	if m.Len() != 2 {
		t.Fatalf("want len 2, got %d", m.Len())
	}
	if !m.Delete(2) || m.Len() != 1 {
		t.Fatal("delete should remove key 2")
	}
}

func TestOrderedMapInsertionOrder(t *testing.T) {
	m := NewOrderedMap(false)
	m.Put("z", 1)
	m.Put("a", 2)
	m.Put("m", 3)
	keys := m.Keys()
	want := []string{"z", "a", "m"}
	for i, w := range want {
		if keys[i] != w {
			t.Fatalf("keys[%d]: want %s, got %s", i, w, keys[i])
		}
	}
	values := m.Values()
	wantV := []int{1, 2, 3}
	for i, w := range wantV {
		if values[i].(int) != w {
			t.Fatalf("values[%d]: want %d, got %v", i, w, values[i])
		}
	}
	if k, ok := m.KeyAt(1); !ok || k != "a" {
		t.Fatalf("KeyAt(1): want a, got %s, %v", k, ok)
	}

	m.Put("z", 100)
	keys = m.Keys()
	if keys[0] != "z" {
		t.Fatal("overwriting a key must not move its insertion position")
	}

	m.Delete("a")
	keys = m.Keys()
	if len(keys) != 2 || keys[0] != "z" || keys[1] != "m" {
		t.Fatalf("delete should unlink from order, got %v", keys)
	}
}

func TestSortedMapFloorCeilFirstLast(t *testing.T) {
	m := NewSortedMap[int](false)
	for _, k := range []int{5, 1, 9, 3, 7} {
		m.Put(k, k*10)
	}
	if k, v, ok := m.First(); !ok || k != 1 || v.(int) != 10 {
		t.Fatalf("First: want 1/10, got %d/%v/%v", k, v, ok)
	}
	if k, v, ok := m.Last(); !ok || k != 9 || v.(int) != 90 {
		t.Fatalf("Last: want 9/90, got %d/%v/%v", k, v, ok)
	}
	if k, _, ok := m.Floor(4); !ok || k != 3 {
		t.Fatalf("Floor(4): want 3, got %d, %v", k, ok)
	}
	if k, _, ok := m.Ceil(4); !ok || k != 5 {
		t.Fatalf("Ceil(4): want 5, got %d, %v", k, ok)
	}
	if k, _, ok := m.Floor(0); ok {
		t.Fatalf("Floor below minimum should fail, got %d", k)
	}
	if k, _, ok := m.Ceil(100); ok {
		t.Fatalf("Ceil above maximum should fail, got %d", k)
	}
	if !m.Remove(5) {
		t.Fatal("remove of present key should succeed")
	}
	if _, ok := m.Get(5); ok {
		t.Fatal("5 should be gone after remove")
	}
	if m.Len() != 4 {
		t.Fatalf("want len 4 after remove, got %d", m.Len())
	}
}

func TestFrozenMapBuildAndEquals(t *testing.T) {
	keys := []string{"a", "b", "c"}
	values := []Elem{1, 2, 3}
	m := NewFrozenMap(keys, values, false)
	for i, k := range keys {
		v, ok := m.Get(k)
		if !ok || v.(int) != values[i].(int) {
			t.Fatalf("Get(%s): want %v, got %v, %v", k, values[i], v, ok)
		}
	}
	if _, ok := m.Get("missing"); ok {
		t.Fatal("missing key should not be found")
	}
	if m.Len() != 3 {
		t.Fatalf("want len 3, got %d", m.Len())
	}

	other := NewFrozenMap([]string{"c", "a", "b"}, []Elem{3, 1, 2}, false)
	eq := func(a, b Elem) bool { return a.(int) == b.(int) }
	if !m.Equals(other, eq) {
		t.Fatal("maps with the same logical entries in different order should be equal")
	}

	diff := NewFrozenMap([]string{"a", "b"}, []Elem{1, 2}, false)
	if m.Equals(diff, eq) {
		t.Fatal("maps with different entry counts must not be equal")
	}
}

func TestFrozenMapTruncatesMismatchedLengths(t *testing.T) {
	m := NewFrozenMap([]string{"a", "b", "c"}, []Elem{1, 2}, false)
	if m.Len() != 2 {
		t.Fatalf("want truncation to shorter slice, len 2, got %d", m.Len())
	}
	if _, ok := m.Get("c"); ok {
		t.Fatal("c has no paired value and should be absent")
	}
}

func TestMultiMapCountsAndGet(t *testing.T) {
	m := NewMultiMap(false)
	m.Put("x", 1)
	m.Put("x", 2)
	m.Put("y", 3)
	if m.DistinctKeys() != 2 {
		t.Fatalf("want 2 distinct keys, got %d", m.DistinctKeys())
	}
	if m.TotalValues() != 3 {
		t.Fatalf("want 3 total values, got %d", m.TotalValues())
	}
	got := m.Get("x")
	if got.Len() != 2 {
		t.Fatalf("want 2 values for x, got %d", got.Len())
	}
	got.Push(99)
	if m.Get("x").Len() != 2 {
		t.Fatal("Get must return a fresh copy, mutation should not leak back")
	}
	if v, ok := m.GetFirst("x"); !ok || v.(int) != 1 {
		t.Fatalf("GetFirst(x): want 1, got %v, %v", v, ok)
	}
	if _, ok := m.GetFirst("missing"); ok {
		t.Fatal("GetFirst on absent key should fail")
	}
	if !m.RemoveAll("x") {
		t.Fatal("RemoveAll on present key should succeed")
	}
	if m.DistinctKeys() != 1 || m.TotalValues() != 1 {
		t.Fatalf("after RemoveAll(x): want 1 distinct/1 total, got %d/%d", m.DistinctKeys(), m.TotalValues())
	}
}
