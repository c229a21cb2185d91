package motorengine

import "testing"

func TestBuildScriptDoUndoSymmetry(t *testing.T) {
	// I5: every group/fix installed in Do has a matching teardown in Undo,
	// and the synthetic groups are torn down first.
	commands := []Command{
		{Kind: CmdMove, Origin: "mv", Selection: []uint32{1, 2}, Vx: 1, VUnit: SystemA},
		{Kind: CmdForce, Origin: "fc", Selection: []uint32{3}, Fx: 2, FUnit: SystemA},
		{Kind: CmdWait, Origin: "wt"},
	}
	s := BuildScript(commands, []uint32{9})

	if len(s.AppliedGroups) != 4 { // mv, fc, nonintegrateGRP, integrateGRP
		t.Fatalf("expected 4 applied groups, got %d: %v", len(s.AppliedGroups), s.AppliedGroups)
	}
	if len(s.AppliedFixes) != 3 { // mv, fc, integrate_fix
		t.Fatalf("expected 3 applied fixes, got %d: %v", len(s.AppliedFixes), s.AppliedFixes)
	}

	if s.Undo[0] != "unfix "+integrateFixName {
		t.Errorf("undo must tear down the integration fix first, got %q", s.Undo[0])
	}
	if s.Undo[1] != "group "+integrateGroupName+" delete" || s.Undo[2] != "group "+nonintegrateGroupName+" delete" {
		t.Errorf("undo must tear down synthetic groups before per-motor ones: %v", s.Undo[:3])
	}

	// Every applied group must have a matching undo "delete" line.
	for _, g := range s.AppliedGroups {
		found := false
		for _, line := range s.Undo {
			if line == "group "+g+" delete" {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("group %q installed but never torn down in undo script", g)
		}
	}
	for _, f := range s.AppliedFixes {
		found := false
		for _, line := range s.Undo {
			if line == "unfix "+f {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("fix %q installed but never torn down in undo script", f)
		}
	}
}

func TestBuildScriptEmptyBatchIsNeutral(t *testing.T) {
	// R2-adjacent: an all-WAIT (or empty) batch still yields a symmetric,
	// well-formed do/undo pair with no per-motor groups.
	s := BuildScript(nil, nil)
	if len(s.AppliedGroups) != 2 || len(s.AppliedFixes) != 1 {
		t.Fatalf("expected only the synthetic group/fix pair, got groups=%v fixes=%v", s.AppliedGroups, s.AppliedFixes)
	}
	if len(s.Do) == 0 || len(s.Undo) == 0 {
		t.Fatal("expected non-empty do/undo scripts even for an empty batch")
	}
}

func TestCommandNeedsIntegration(t *testing.T) {
	cases := []struct {
		kind CommandKind
		want bool
	}{
		{CmdMove, false},
		{CmdRotate, false},
		{CmdForce, true},
		{CmdTorque, true},
	}
	for _, c := range cases {
		cmd := Command{Kind: c.kind}
		if got := cmd.NeedsIntegration(); got != c.want {
			t.Errorf("%v.NeedsIntegration() = %v, want %v", c.kind, got, c.want)
		}
	}
}

func TestCommandDirectiveRendersWireUnits(t *testing.T) {
	cmd := Command{Kind: CmdMove, Origin: "mv", Vx: 1.5, Vy: 0, Vz: 0, VUnit: SystemB}
	got := cmd.directive()
	want := "move grp_mv linear 1.5 0 0 (B)"
	if got != want {
		t.Errorf("directive() = %q, want %q", got, want)
	}
}

func TestWaitCommandIsPassive(t *testing.T) {
	cmd := Command{Kind: CmdWait, Origin: "w"}
	if !cmd.isPassive() {
		t.Error("WAIT command should be passive")
	}
	if cmd.directive() != "" {
		t.Errorf("WAIT command should render no directive, got %q", cmd.directive())
	}
}
