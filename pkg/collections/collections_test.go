package collections

import "testing"

func TestBitsetSetTestClear(t *testing.T) {
	b := NewBitset(100)
	if b.Test(5) {
		t.Error("fresh bitset has bit 5 set")
	}
	b.Set(5)
	b.Set(99)
	if !b.Test(5) || !b.Test(99) {
		t.Error("set bits not visible")
	}
	if b.Count() != 2 {
		t.Errorf("Count() = %d, want 2", b.Count())
	}
	b.Clear(5)
	if b.Test(5) {
		t.Error("cleared bit still set")
	}
}

func TestBitsetGrowsOnSet(t *testing.T) {
	b := NewBitset(10)
	b.Set(1000)
	if !b.Test(1000) {
		t.Error("bit beyond initial size lost")
	}
	if b.Size() != 1001 {
		t.Errorf("Size() = %d, want 1001", b.Size())
	}
}

func TestBitsetClearAllKeepsCapacity(t *testing.T) {
	b := NewBitset(64)
	for i := 0; i < 64; i += 3 {
		b.Set(i)
	}
	b.ClearAll()
	if b.Count() != 0 {
		t.Errorf("Count() after ClearAll = %d", b.Count())
	}
}

func TestBitsetIgnoresNegativeIndexes(t *testing.T) {
	b := NewBitset(8)
	b.Set(-1)
	b.Clear(-1)
	if b.Test(-1) {
		t.Error("negative index reported set")
	}
}

func TestStackLIFO(t *testing.T) {
	s := NewStack[int](4)
	if !s.IsEmpty() {
		t.Error("fresh stack not empty")
	}
	s.Push(1)
	s.Push(2)
	s.Push(3)
	if s.Len() != 3 {
		t.Errorf("Len() = %d", s.Len())
	}
	if top, ok := s.Peek(); !ok || top != 3 {
		t.Errorf("Peek() = %d, %v", top, ok)
	}
	for want := 3; want >= 1; want-- {
		got, ok := s.Pop()
		if !ok || got != want {
			t.Errorf("Pop() = %d, %v, want %d", got, ok, want)
		}
	}
	if _, ok := s.Pop(); ok {
		t.Error("Pop on empty stack reported ok")
	}
}

func TestStackClear(t *testing.T) {
	s := NewStack[string](2)
	s.Push("a")
	s.Push("b")
	s.Clear()
	if !s.IsEmpty() {
		t.Error("Clear left elements behind")
	}
}
