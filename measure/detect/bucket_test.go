package detect

import "testing"

func TestBucketsDefaultRange(t *testing.T) {
	b := Buckets(1, 200, 45)

	if len(b) != 50 {
		t.Fatalf("len = %d, want 50", len(b))
	}
	if b[0] != (Bucket{Lo: 1, Mid: 3, Hi: 4}) {
		t.Fatalf("first = %+v", b[0])
	}
	if b[49] != (Bucket{Lo: 197, Mid: 199, Hi: 200}) {
		t.Fatalf("last = %+v", b[49])
	}
}

func TestBucketsPartition(t *testing.T) {
	tests := []struct {
		lo, hi, n int
	}{
		{1, 200, 45},
		{1, 10, 3},
		{5, 20, 100},
		{20, 80, 7},
		{1, 1, 4},
		{30, 10, 2},
	}

	for _, tt := range tests {
		b := Buckets(tt.lo, tt.hi, tt.n)
		lo, hi := min(tt.lo, tt.hi), max(tt.lo, tt.hi)

		next := lo
		for i, bk := range b {
			if bk.Lo != next {
				t.Fatalf("%+v: bucket %d starts at %d, want %d", tt, i, bk.Lo, next)
			}
			if bk.Hi < bk.Lo || bk.Mid < bk.Lo || bk.Mid > bk.Hi {
				t.Fatalf("%+v: malformed bucket %+v", tt, bk)
			}
			next = bk.Hi + 1
		}
		if next != hi+1 {
			t.Fatalf("%+v: buckets end at %d, want %d", tt, next-1, hi)
		}
	}
}

func TestBucketsRemainder(t *testing.T) {
	b := Buckets(1, 10, 3)
	want := []Bucket{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {10, 10, 10}}

	if len(b) != len(want) {
		t.Fatalf("got %v, want %v", b, want)
	}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("bucket %d = %+v, want %+v", i, b[i], want[i])
		}
	}
}
