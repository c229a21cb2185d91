package motorengine

import "testing"

func TestAtomSetRefreshCompleteSelection(t *testing.T) {
	a := NewAtomSet([]uint32{3, 1, 2})
	ids := []uint32{1, 2, 3}
	positions := []float64{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
	}
	if !a.Refresh(1, ids, positions) {
		t.Fatal("expected complete refresh")
	}
	if a.SelectedCount() != 3 {
		t.Fatalf("expected 3 selected atoms, got %d", a.SelectedCount())
	}
	cx, cy, cz := a.Centroid()
	if cx != (0.0+1.0+0.0)/3 || cy != (0.0+0.0+1.0)/3 || cz != 0 {
		t.Errorf("unexpected centroid: %v %v %v", cx, cy, cz)
	}
}

func TestAtomSetTransientMiss(t *testing.T) {
	// I2/§4.2: a selected id missing from this cycle's frame is a
	// transient miss, signaled by a false return, never a panic.
	a := NewAtomSet([]uint32{1, 5})
	ids := []uint32{1, 2, 3}
	positions := make([]float64, 9)
	if a.Refresh(1, ids, positions) {
		t.Fatal("expected incomplete refresh when a selected id is absent")
	}
	if a.SelectedCount() != 1 {
		t.Fatalf("expected 1 of 2 selected atoms found, got %d", a.SelectedCount())
	}
}

func TestAtomSetSelectionIsSortedAndCopied(t *testing.T) {
	orig := []uint32{9, 3, 6}
	a := NewAtomSet(orig)
	orig[0] = 100 // mutate caller's slice
	got := a.Selection()
	want := []uint32{3, 6, 9}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("Selection()[%d] = %d, want %d", i, got[i], v)
		}
	}
}

func TestAtomSetEmptyCentroid(t *testing.T) {
	a := NewAtomSet(nil)
	a.Refresh(1, []uint32{1}, []float64{1, 2, 3})
	x, y, z := a.Centroid()
	if x != 0 || y != 0 || z != 0 {
		t.Errorf("expected zero centroid for empty selection, got %v %v %v", x, y, z)
	}
}
