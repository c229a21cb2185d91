package motorengine

import (
	"sort"

	"github.com/gonum/floats"
)

// AtomSet owns a fixed selection of global atom identifiers and the two
// working buffers recomputed from it every cycle (§3, §4.2). It is
// grounded on station.go's Station: fixed identity at construction,
// working buffers refreshed against whatever frame arrives.
type AtomSet struct {
	selection      []uint32 // sorted, fixed at construction
	selectedIDs    []uint32
	selectedPos    []float64 // interleaved x,y,z, length 3*len(selectedIDs)
}

// NewAtomSet builds an AtomSet over the given selection. The selection is
// copied and sorted so iteration order is deterministic.
func NewAtomSet(selection []uint32) *AtomSet {
	sel := make([]uint32, len(selection))
	copy(sel, selection)
	sort.Slice(sel, func(i, j int) bool { return sel[i] < sel[j] })
	return &AtomSet{selection: sel}
}

// Selection returns a copy of the fixed set of global ids this AtomSet
// acts on, in ascending order (sorted at construction).
func (a *AtomSet) Selection() []uint32 {
	out := make([]uint32, len(a.selection))
	copy(out, a.selection)
	return out
}

// Refresh copies, for every id in the selection, its position triple out
// of the frame's already-sorted positions slice (§3: slot i holds atom
// id i+1). It returns true iff every selected id was found; a false
// return is a transient miss (e.g. an MPI-ordering effect, §4.2) and
// should leave the calling motor RUNNING rather than FAILED.
func (a *AtomSet) Refresh(simIt uint64, ids []uint32, positions []float64) bool {
	n := uint32(len(ids))
	a.selectedIDs = a.selectedIDs[:0]
	a.selectedPos = a.selectedPos[:0]
	for _, id := range a.selection {
		if id == 0 || id > n {
			continue
		}
		// Positional lookup per §4.2: the frame is delivered sorted so
		// that slot i holds atom id i+1. A verifying check keeps this
		// honest without paying for a full hashed lookup.
		idx := id - 1
		if ids[idx] != id {
			continue
		}
		off := 3 * idx
		a.selectedIDs = append(a.selectedIDs, id)
		a.selectedPos = append(a.selectedPos, positions[off], positions[off+1], positions[off+2])
	}
	return len(a.selectedIDs) == len(a.selection)
}

// SelectedCount returns how many of the selection's atoms were found on
// the last Refresh. Invariant (§3): SelectedCount() <= len(selection).
func (a *AtomSet) SelectedCount() int { return len(a.selectedIDs) }

// Centroid returns the arithmetic mean of the selected positions, or the
// zero vector when the selection is empty (§4.2).
func (a *AtomSet) Centroid() (x, y, z float64) {
	n := len(a.selectedIDs)
	if n == 0 {
		return 0, 0, 0
	}
	sx, sy, sz := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		sx[i] = a.selectedPos[3*i]
		sy[i] = a.selectedPos[3*i+1]
		sz[i] = a.selectedPos[3*i+2]
	}
	return floats.Sum(sx) / float64(n), floats.Sum(sy) / float64(n), floats.Sum(sz) / float64(n)
}

// Position returns the position of the i-th selected atom (in selection
// iteration order), used by Torque/Rotate to find a tracker atom.
func (a *AtomSet) Position(i int) (x, y, z float64) {
	return a.selectedPos[3*i], a.selectedPos[3*i+1], a.selectedPos[3*i+2]
}

