package combin

import (
	"fmt"
	"slices"
	"testing"
)

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, k, want int
	}{
		{0, 0, 1},
		{4, 2, 6},
		{5, 0, 1},
		{5, 5, 1},
		{6, 3, 20},
		{10, 4, 210},
		{3, 4, 0},
		{3, -1, 0},
		{20, 10, 184756},
	}
	for _, tt := range tests {
		if got := Binomial(tt.n, tt.k); got != tt.want {
			t.Errorf("Binomial(%d, %d) = %d, want %d", tt.n, tt.k, got, tt.want)
		}
	}
}

func TestAllFourChooseTwo(t *testing.T) {
	want := [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	var got [][]int
	for c := range All(4, 2) {
		got = append(got, c)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d subsets, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("subset %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAllCountsAndOrder(t *testing.T) {
	for n := 0; n <= 8; n++ {
		for k := 0; k <= n+1; k++ {
			t.Run(fmt.Sprintf("n=%d/k=%d", n, k), func(t *testing.T) {
				seen := make(map[string]bool)
				var prev []int
				count := 0
				for c := range All(n, k) {
					count++
					if len(c) != k {
						t.Fatalf("subset %v has length %d, want %d", c, len(c), k)
					}
					for i := 1; i < len(c); i++ {
						if c[i] <= c[i-1] {
							t.Fatalf("subset %v not strictly increasing", c)
						}
					}
					if len(c) > 0 && (c[0] < 0 || c[len(c)-1] >= n) {
						t.Fatalf("subset %v out of range [0, %d)", c, n)
					}
					key := fmt.Sprint(c)
					if seen[key] {
						t.Fatalf("subset %v produced twice", c)
					}
					seen[key] = true
					if prev != nil && slices.Compare(prev, c) >= 0 {
						t.Fatalf("subset %v does not follow %v lexicographically", c, prev)
					}
					prev = c
				}
				if want := Binomial(n, k); count != want {
					t.Errorf("count = %d, want %d", count, want)
				}
			})
		}
	}
}

func TestIteratorReset(t *testing.T) {
	it := New(5, 3)
	var first []string
	for it.Next() {
		first = append(first, fmt.Sprint(it.Indices()))
	}
	if it.Next() {
		t.Fatal("Next() after exhaustion should be false")
	}

	it.Reset()
	var second []string
	for it.Next() {
		second = append(second, fmt.Sprint(it.Indices()))
	}
	if !slices.Equal(first, second) {
		t.Errorf("after Reset got %v, want %v", second, first)
	}
}

func TestIteratorTooFewElements(t *testing.T) {
	it := New(2, 3)
	if it.Next() {
		t.Errorf("New(2, 3).Next() = true, want false")
	}
}

func TestAllEarlyStop(t *testing.T) {
	count := 0
	for range All(10, 3) {
		count++
		if count == 4 {
			break
		}
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
}

func ExampleAll() {
	for c := range All(4, 2) {
		fmt.Println(c)
	}
	// Output:
	// [0 1]
	// [0 2]
	// [0 3]
	// [1 2]
	// [1 3]
	// [2 3]
}
