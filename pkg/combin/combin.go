// Package combin enumerates fixed-size subsets of an index range.
//
// Subsets are produced as strictly increasing index slices in lexicographic
// order. [Iterator] is lazy and restartable; [All] adapts it to a range-over-func
// sequence.
//
//	for c := range combin.All(4, 2) {
//	    fmt.Println(c) // [0 1] [0 2] [0 3] [1 2] [1 3] [2 3]
//	}
package combin

import "iter"

// Binomial returns C(n, k), the number of k-element subsets of n elements.
// It returns 0 when k < 0 or k > n.
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

// Iterator walks every k-subset of [0, n) in lexicographic order.
//
// Each position i is bounded by n-k+i: once fewer elements remain than
// positions left to fill, the branch is never extended.
type Iterator struct {
	n, k    int
	idx     []int
	started bool
	done    bool
}

// New returns an iterator over the k-subsets of [0, n). When k > n or k < 0
// the iterator yields nothing; k == 0 yields the empty subset once.
func New(n, k int) *Iterator {
	it := &Iterator{n: n, k: k}
	it.Reset()
	return it
}

// Reset rewinds the iterator to the first subset.
func (it *Iterator) Reset() {
	it.started = false
	it.done = it.k < 0 || it.k > it.n
	if it.done {
		it.idx = nil
		return
	}
	it.idx = make([]int, it.k)
	for i := range it.idx {
		it.idx[i] = i
	}
}

// Next advances to the next subset and reports whether one exists.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		return true
	}
	// rightmost position that can still move up
	i := it.k - 1
	for i >= 0 && it.idx[i] == it.n-it.k+i {
		i--
	}
	if i < 0 {
		it.done = true
		return false
	}
	it.idx[i]++
	for j := i + 1; j < it.k; j++ {
		it.idx[j] = it.idx[j-1] + 1
	}
	return true
}

// Indices returns the current subset. The slice is reused by Next; callers
// that keep it must copy it.
func (it *Iterator) Indices() []int {
	return it.idx
}

// All returns a sequence over the k-subsets of [0, n). Each yielded slice is
// a separate allocation, safe to keep. The sequence can be ranged over any
// number of times.
func All(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		it := New(n, k)
		for it.Next() {
			c := make([]int, len(it.idx))
			copy(c, it.idx)
			if !yield(c) {
				return
			}
		}
	}
}
