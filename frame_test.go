package motorengine

import "testing"

func TestMergeFramesPermutationInvariant(t *testing.T) {
	// I1: after merging, IDs[i] == i+1 for every i.
	chunks := []RankFrame{
		{SimIt: 10, IDs: []uint32{3, 1}, Positions: []float64{9, 9, 9, 1, 1, 1}, Phase: Production, Units: SystemA},
		{SimIt: 10, IDs: []uint32{2}, Positions: []float64{2, 2, 2}, Phase: Production, Units: SystemA},
	}
	f, err := MergeFrames(chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, id := range f.IDs {
		if id != uint32(i+1) {
			t.Fatalf("IDs[%d] = %d, want %d", i, id, i+1)
		}
	}
	// Atom 1's position should have followed it to slot 0.
	if f.Positions[0] != 1 || f.Positions[1] != 1 || f.Positions[2] != 1 {
		t.Errorf("atom 1 position misplaced after merge: %v", f.Positions[0:3])
	}
}

func TestMergeFramesEmptyIsFrameError(t *testing.T) {
	_, err := MergeFrames(nil)
	if _, ok := err.(*FrameError); !ok {
		t.Fatalf("expected *FrameError for empty chunks, got %T (%v)", err, err)
	}
}

func TestMergeFramesDisagreeingSimItIsFrameError(t *testing.T) {
	chunks := []RankFrame{
		{SimIt: 1, IDs: []uint32{1}, Positions: []float64{0, 0, 0}},
		{SimIt: 2, IDs: []uint32{2}, Positions: []float64{0, 0, 0}},
	}
	_, err := MergeFrames(chunks)
	if _, ok := err.(*FrameError); !ok {
		t.Fatalf("expected *FrameError for disagreeing sim_it, got %T (%v)", err, err)
	}
}

func TestMergeFramesNonPermutationIsFrameError(t *testing.T) {
	// A gap in the id set (1, 3 but not 2) violates the dense-permutation
	// assumption this module carries unchanged from §4.2/§9.
	chunks := []RankFrame{
		{SimIt: 1, IDs: []uint32{1, 3}, Positions: []float64{0, 0, 0, 0, 0, 0}},
	}
	_, err := MergeFrames(chunks)
	if _, ok := err.(*FrameError); !ok {
		t.Fatalf("expected *FrameError for non-dense id set, got %T (%v)", err, err)
	}
}

func TestMergeFramesOptionalFieldDisagreementIsFrameError(t *testing.T) {
	chunks := []RankFrame{
		{SimIt: 1, IDs: []uint32{1}, Positions: []float64{0, 0, 0}, Forces: []float64{0, 0, 0}},
		{SimIt: 1, IDs: []uint32{2}, Positions: []float64{0, 0, 0}},
	}
	_, err := MergeFrames(chunks)
	if _, ok := err.(*FrameError); !ok {
		t.Fatalf("expected *FrameError for disagreeing optional fields, got %T (%v)", err, err)
	}
}
