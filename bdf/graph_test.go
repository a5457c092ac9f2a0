package bdf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// rodDeck is a minimal resolvable model: two grids, a rod, its
// property and material, plus an unreferenced grid 99.
func rodDeck(t *testing.T) *Deck {
	t.Helper()
	d := NewDeck()
	d.Add(NewGrid(1, [3]float64{0, 0, 0}))
	d.Add(NewGrid(2, [3]float64{1, 0, 0}))
	d.Add(NewGrid(99, [3]float64{9, 9, 9}))
	d.Add(NewMat1(5, 2.1e11, 0.3))
	d.Add(NewPRod(7, 5, 3e-4))
	rod, _ := NewCRod(1, 7, []int{1, 2})
	d.Add(rod)
	return d
}

func TestDependents(t *testing.T) {
	d := rodDeck(t)
	got, err := d.Dependents(SpaceNode, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []EntityKey{{SpaceElement, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dependents of node 1 (-want +got):\n%s", diff)
	}

	got, err = d.Dependents(SpaceMaterial, 5)
	if err != nil {
		t.Fatal(err)
	}
	want = []EntityKey{{SpaceProperty, 7}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dependents of material 5 (-want +got):\n%s", diff)
	}

	// nothing references the stray grid
	got, err = d.Dependents(SpaceNode, 99)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("dependents of node 99 = %v", got)
	}
}

func TestOrphans(t *testing.T) {
	d := rodDeck(t)
	got, err := d.Orphans()
	if err != nil {
		t.Fatal(err)
	}
	want := []EntityKey{{SpaceNode, 99}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("orphans (-want +got):\n%s", diff)
	}
}

func TestRemoveUnused(t *testing.T) {
	d := rodDeck(t)
	// a frame chain hanging off nothing goes too, in one sweep
	a := NewCord2R(11, [3]float64{0, 0, 0}, [3]float64{0, 0, 1}, [3]float64{1, 0, 0})
	b := NewCord2R(12, [3]float64{0, 0, 0}, [3]float64{0, 0, 1}, [3]float64{1, 0, 0})
	b.RID = 11
	d.Add(a)
	d.Add(b)

	before := d.Len()
	removed, err := d.RemoveUnused()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("removed %d cards, want 3", removed)
	}
	if d.Len() != before-3 {
		t.Errorf("Len = %d, want %d", d.Len(), before-3)
	}
	if _, ok := d.Grid(99); ok {
		t.Error("stray grid survived")
	}
	if _, ok := d.Coord(11); ok {
		t.Error("unreferenced frame chain survived")
	}
	// everything the rod needs stays
	for _, id := range []int{1, 2} {
		if _, ok := d.Grid(id); !ok {
			t.Errorf("grid %d removed", id)
		}
	}
	if _, ok := d.Material(5); !ok {
		t.Error("material removed")
	}

	// a second sweep finds nothing
	removed, err = d.RemoveUnused()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("second sweep removed %d", removed)
	}
}

func TestRemoveUnusedKeepsLoadTargets(t *testing.T) {
	d := rodDeck(t)
	d.Add(NewForce(20, 99, 100, [3]float64{0, 0, 1}))

	removed, err := d.RemoveUnused()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("removed %d cards, want 0", removed)
	}
	if _, ok := d.Grid(99); !ok {
		t.Error("loaded grid removed")
	}
}
