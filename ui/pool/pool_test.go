package pool

import (
	"slices"
	"testing"
)

func TestInsertAndGet(t *testing.T) {
	c := New[string, int](4)

	c.Insert("a", 1)
	c.Insert("b", 2)

	v, ok := c.Get("a")
	if !ok || *v != 1 {
		t.Fatalf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("expected missing key to be absent")
	}
	if !c.Exists("b") {
		t.Error("expected b to exist")
	}
}

func TestChunkAllocation(t *testing.T) {
	c := New[int, int](4)
	for i := 0; i < 9; i++ {
		c.Insert(i, i*10)
	}

	if c.Chunks() != 3 {
		t.Errorf("expected 3 chunks, got %d", c.Chunks())
	}
	idx, _ := c.IndexOf(5)
	if idx.Chunk != 1 || idx.Slot != 1 {
		t.Errorf("expected index {1 1}, got %+v", idx)
	}
}

func TestPointersStableAcrossInserts(t *testing.T) {
	c := New[int, int](2)
	c.Insert(0, 100)
	p, _ := c.Get(0)

	for i := 1; i < 50; i++ {
		c.Insert(i, i)
	}

	*p = 7
	v, _ := c.Get(0)
	if *v != 7 {
		t.Errorf("pointer was invalidated by insert: got %d", *v)
	}
	if got := c.GetByIndex(Index{0, 0}); got != p {
		t.Error("GetByIndex returned a different slot")
	}
}

func TestInsertExistingReplacesInPlace(t *testing.T) {
	c := New[string, int](0)
	first := c.Insert("k", 1)
	second := c.Insert("k", 2)

	if first != second {
		t.Errorf("index changed on replace: %+v -> %+v", first, second)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
	v, _ := c.Get("k")
	if *v != 2 {
		t.Errorf("expected 2, got %d", *v)
	}
}

func TestKeysInsertionOrder(t *testing.T) {
	c := New[string, bool](2)
	want := []string{"z", "a", "m", "b", "y"}
	for _, k := range want {
		c.Insert(k, true)
	}

	got := slices.Collect(c.Keys())
	if !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestGetByIndexOutOfRange(t *testing.T) {
	c := New[int, int](2)
	c.Insert(1, 1)

	tests := []Index{{-1, 0}, {0, 5}, {3, 0}}
	for _, idx := range tests {
		if c.GetByIndex(idx) != nil {
			t.Errorf("GetByIndex(%+v) should be nil", idx)
		}
	}
}
