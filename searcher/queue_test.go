package searcher

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/TamimEhsan/khorgosh/model"
)

func TestTopK_KeepsBest(t *testing.T) {
	rnd := rand.New(rand.NewSource(13))

	n := 1000
	k := 10
	sel := NewTopK(k)

	dists := make([]float32, n)
	for i := range dists {
		dists[i] = rnd.Float32() * 100
		sel.Push(model.AnnCandidate{ID: uint64(i), Distance: dists[i]})
	}

	got := sel.Results()
	if len(got) != k {
		t.Fatalf("got %d results, want %d", len(got), k)
	}

	sorted := append([]float32(nil), dists...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, c := range got {
		if c.Distance != sorted[i] {
			t.Errorf("rank %d: distance %f, want %f", i, c.Distance, sorted[i])
		}
		if i > 0 && c.Distance < got[i-1].Distance {
			t.Errorf("results not ascending at %d", i)
		}
	}
}

func TestTopK_FewerThanK(t *testing.T) {
	sel := NewTopK(10)
	sel.Push(model.AnnCandidate{ID: 1, Distance: 2})
	sel.Push(model.AnnCandidate{ID: 2, Distance: 1})

	got := sel.Results()
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("wrong order: %v", got)
	}
}

func TestTopK_Worst(t *testing.T) {
	sel := NewTopK(2)

	if _, full := sel.Worst(); full {
		t.Error("empty selector reported full")
	}

	sel.Push(model.AnnCandidate{ID: 1, Distance: 5})
	sel.Push(model.AnnCandidate{ID: 2, Distance: 3})

	worst, full := sel.Worst()
	if !full {
		t.Fatal("full selector not reported full")
	}
	if worst.ID != 1 {
		t.Errorf("worst = %v, want ID 1", worst)
	}

	// better candidate evicts the worst
	if kept := sel.Push(model.AnnCandidate{ID: 3, Distance: 1}); !kept {
		t.Error("better candidate rejected")
	}
	if kept := sel.Push(model.AnnCandidate{ID: 4, Distance: 9}); kept {
		t.Error("worse candidate kept")
	}

	got := sel.Results()
	if got[0].ID != 3 || got[1].ID != 2 {
		t.Errorf("wrong survivors: %v", got)
	}
}

func TestTopK_TieBreaksOnID(t *testing.T) {
	sel := NewTopK(3)
	for _, id := range []uint64{5, 1, 3} {
		sel.Push(model.AnnCandidate{ID: id, Distance: 7})
	}
	got := sel.Results()
	for i, want := range []uint64{1, 3, 5} {
		if got[i].ID != want {
			t.Errorf("rank %d: ID %d, want %d", i, got[i].ID, want)
		}
	}
}

func TestNewAnnCandidateSentinel(t *testing.T) {
	c := model.NewAnnCandidate()
	if !math.IsInf(float64(c.Distance), 1) {
		t.Errorf("sentinel distance = %f, want +Inf", c.Distance)
	}
	real := model.AnnCandidate{ID: 1, Distance: 1e30}
	if !real.Less(c) {
		t.Error("real candidate must rank better than the sentinel")
	}
}
