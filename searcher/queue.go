// Package searcher provides the top-k selection structure that consumes
// the codec's AnnCandidate output. It keeps the k best (smallest-distance)
// candidates seen so far in a bounded max-heap, so a full heap rejects or
// replaces in O(log k) with zero allocations in the steady state.
package searcher

import (
	"sort"

	"github.com/TamimEhsan/khorgosh/model"
)

// TopK is a bounded selector of the k closest candidates.
// Value-based storage, no pointer indirection. Not safe for concurrent use.
type TopK struct {
	k     int
	items []model.AnnCandidate // max-heap: worst kept candidate at the root
}

// NewTopK creates a selector for the k best candidates. k must be positive.
func NewTopK(k int) *TopK {
	if k <= 0 {
		k = 1
	}
	return &TopK{
		k:     k,
		items: make([]model.AnnCandidate, 0, k),
	}
}

// Len returns the number of candidates currently held.
func (t *TopK) Len() int {
	return len(t.items)
}

// Worst returns the current worst kept candidate: the one a new candidate
// must beat once the selector is full. Reports false while not full.
func (t *TopK) Worst() (model.AnnCandidate, bool) {
	if len(t.items) < t.k {
		return model.NewAnnCandidate(), false
	}
	return t.items[0], true
}

// Push offers a candidate. While below capacity it is always kept; at
// capacity it replaces the worst kept candidate only if it ranks better.
// Returns true if the candidate was kept.
func (t *TopK) Push(c model.AnnCandidate) bool {
	if len(t.items) < t.k {
		t.items = append(t.items, c)
		t.siftUp(len(t.items) - 1)
		return true
	}
	if !c.Less(t.items[0]) {
		return false
	}
	t.items[0] = c
	t.siftDown(0)
	return true
}

// Results drains the selector and returns candidates sorted by distance
// ascending. The selector is empty afterwards.
func (t *TopK) Results() []model.AnnCandidate {
	out := t.items
	t.items = make([]model.AnnCandidate, 0, t.k)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Reset clears the selector, retaining capacity.
func (t *TopK) Reset() {
	t.items = t.items[:0]
}

// less orders the internal max-heap: i sorts above j when i ranks worse.
func (t *TopK) less(i, j int) bool {
	return t.items[j].Less(t.items[i])
}

func (t *TopK) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !t.less(i, parent) {
			break
		}
		t.items[i], t.items[parent] = t.items[parent], t.items[i]
		i = parent
	}
}

func (t *TopK) siftDown(i int) {
	n := len(t.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && t.less(right, left) {
			child = right
		}
		if !t.less(child, i) {
			break
		}
		t.items[i], t.items[child] = t.items[child], t.items[i]
		i = child
	}
}
