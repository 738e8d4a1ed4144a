// internal/cache/lru_test.go
//
// Unit-tests for the generic LRU.
//
// Run: go test ./internal/cache -v

package cache

import "testing"

func TestLRU_EvictsOldest(t *testing.T) {
	var gone []string
	c := New[string, int](2)
	c.OnEvict(func(k string, _ int) { gone = append(gone, k) })

	c.Add("a", 1)
	c.Add("b", 2)
	if _, ok := c.Get("a"); !ok { // a becomes MRU
		t.Fatal("a missing")
	}
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if len(gone) != 1 || gone[0] != "b" {
		t.Fatalf("evicted = %v, want [b]", gone)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}

func TestLRU_AddUpdatesInPlace(t *testing.T) {
	c := New[string, int](2)
	c.Add("a", 1)
	c.Add("a", 5)

	v, ok := c.Get("a")
	if !ok || v != 5 {
		t.Fatalf("Get(a) = %d, %v; want 5, true", v, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
}

func TestLRU_RemoveAndPurge(t *testing.T) {
	var gone []string
	c := New[string, int](4)
	c.OnEvict(func(k string, _ int) { gone = append(gone, k) })
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	if !c.Remove("b") {
		t.Fatal("Remove(b) = false")
	}
	if c.Remove("zzz") {
		t.Fatal("Remove(zzz) = true")
	}
	c.Purge()

	want := []string{"b", "a", "c"}
	if len(gone) != len(want) {
		t.Fatalf("evicted = %v, want %v", gone, want)
	}
	for i := range want {
		if gone[i] != want[i] {
			t.Fatalf("evicted = %v, want %v", gone, want)
		}
	}
	if c.Len() != 0 {
		t.Fatalf("len = %d after purge", c.Len())
	}
}

func TestLRU_PanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New[int, int](0)
}
