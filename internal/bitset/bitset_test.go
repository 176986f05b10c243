package bitset

import "testing"

func TestNewAllOff(t *testing.T) {
	s := New(130, false)
	if !s.IsEmpty() {
		t.Fatalf("expected empty set")
	}
	if s.PopCount() != 0 {
		t.Fatalf("PopCount() = %d, want 0", s.PopCount())
	}
}

func TestNewAllOn(t *testing.T) {
	s := New(130, true)
	if s.PopCount() != 130 {
		t.Fatalf("PopCount() = %d, want 130", s.PopCount())
	}
	for i := 0; i < 130; i++ {
		if !s.Test(i) {
			t.Fatalf("bit %d not set", i)
		}
	}
}

func TestSetTestClear(t *testing.T) {
	s := New(512, false)
	s.Set(0, true)
	s.Set(63, true)
	s.Set(64, true)
	s.Set(511, true)
	for _, i := range []int{0, 63, 64, 511} {
		if !s.Test(i) {
			t.Errorf("bit %d should be set", i)
		}
	}
	if s.PopCount() != 4 {
		t.Fatalf("PopCount() = %d, want 4", s.PopCount())
	}
	s.Set(64, false)
	if s.Test(64) {
		t.Fatalf("bit 64 should be cleared")
	}
	if s.PopCount() != 3 {
		t.Fatalf("PopCount() = %d, want 3", s.PopCount())
	}
}

func TestFirstAndNextSet(t *testing.T) {
	s := New(200, false)
	if _, ok := s.FirstSet(); ok {
		t.Fatalf("expected no set bit")
	}
	s.Set(5, true)
	s.Set(70, true)
	s.Set(199, true)

	first, ok := s.FirstSet()
	if !ok || first != 5 {
		t.Fatalf("FirstSet() = (%d, %v), want (5, true)", first, ok)
	}

	next, ok := s.NextSet(6)
	if !ok || next != 70 {
		t.Fatalf("NextSet(6) = (%d, %v), want (70, true)", next, ok)
	}

	next, ok = s.NextSet(71)
	if !ok || next != 199 {
		t.Fatalf("NextSet(71) = (%d, %v), want (199, true)", next, ok)
	}

	if _, ok = s.NextSet(200); ok {
		t.Fatalf("NextSet(200) should fail, out of range")
	}
}

func TestAllAndSeq(t *testing.T) {
	s := New(64, false)
	want := []int{1, 2, 30, 63}
	for _, i := range want {
		s.Set(i, true)
	}

	got := s.All(nil)
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("All()[%d] = %d, want %d", i, got[i], v)
		}
	}

	var seqGot []int
	for i := range s.Seq() {
		seqGot = append(seqGot, i)
	}
	if len(seqGot) != len(want) {
		t.Fatalf("Seq() = %v, want %v", seqGot, want)
	}
}

func TestSetAllClearAll(t *testing.T) {
	s := New(70, false)
	s.SetAll()
	if s.PopCount() != 70 {
		t.Fatalf("PopCount() = %d, want 70 after SetAll", s.PopCount())
	}
	s.ClearAll()
	if !s.IsEmpty() {
		t.Fatalf("expected empty after ClearAll")
	}
}

func TestPopCountBeforeIsRank(t *testing.T) {
	s := New(200, false)
	for _, i := range []int{0, 5, 63, 64, 65, 130} {
		s.Set(i, true)
	}

	cases := []struct {
		i    int
		want int
	}{
		{0, 0},
		{5, 1},
		{6, 2},
		{64, 3},
		{65, 4},
		{130, 5},
		{131, 6},
		{200, 6},
	}
	for _, c := range cases {
		if got := s.PopCountBefore(c.i); got != c.want {
			t.Errorf("PopCountBefore(%d) = %d, want %d", c.i, got, c.want)
		}
	}
}
