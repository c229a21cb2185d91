package motorengine

import "testing"

func TestStatusMonotonicity(t *testing.T) {
	// I4: WAIT -> RUNNING -> terminal, never backward.
	b := newBaseMotor("m1", nil)
	if b.MotorStatus() != Wait {
		t.Fatalf("new motor should start WAIT, got %v", b.MotorStatus())
	}
	if !b.StartMotor() {
		t.Fatal("StartMotor should succeed from WAIT")
	}
	if b.MotorStatus() != Running {
		t.Fatalf("expected RUNNING after StartMotor, got %v", b.MotorStatus())
	}
	if b.StartMotor() {
		t.Fatal("StartMotor should be a no-op once RUNNING")
	}
	b.succeed()
	if !b.MotorStatus().Terminal() {
		t.Fatal("expected terminal status after succeed()")
	}
	if b.StartMotor() {
		t.Fatal("StartMotor should refuse a terminal motor")
	}
}

func TestCanStartRequiresAllDependenciesSuccess(t *testing.T) {
	resolve := func(name string) Status {
		if name == "a" {
			return Success
		}
		return Running
	}
	b := newBaseMotor("m", []string{"a", "b"})
	if b.CanStart(resolve) {
		t.Fatal("should not start while dependency b is not SUCCESS")
	}
	resolve2 := func(name string) Status { return Success }
	if !b.CanStart(resolve2) {
		t.Fatal("should start once all dependencies are SUCCESS")
	}
}

func TestBlankMotorCompletesAfterNSteps(t *testing.T) {
	m := NewBlankMotor("wait1", nil, 5)
	m.StartMotor()
	node := TelemetryNode{}
	m.UpdateState(100, nil, nil, node)
	if m.MotorStatus() != Running {
		t.Fatalf("expected RUNNING after first cycle, got %v", m.MotorStatus())
	}
	for step := uint64(101); step < 105; step++ {
		node = TelemetryNode{}
		m.UpdateState(step, nil, nil, node)
		if m.MotorStatus().Terminal() {
			t.Fatalf("motor completed early at step %d", step)
		}
	}
	node = TelemetryNode{}
	m.UpdateState(105, nil, nil, node)
	if m.MotorStatus() != Success {
		t.Fatalf("expected SUCCESS at step 105, got %v", m.MotorStatus())
	}
	if node["progress"] != 100.0 {
		t.Errorf("expected 100%% progress on completion, got %v", node["progress"])
	}
}

func TestBlankMotorUpdateStateNoOpWhenNotRunning(t *testing.T) {
	m := NewBlankMotor("wait1", nil, 5)
	node := TelemetryNode{}
	if m.UpdateState(1, nil, nil, node) {
		t.Fatal("UpdateState should return false for a WAIT motor")
	}
	if len(node) != 0 {
		t.Errorf("expected no telemetry written for a non-RUNNING motor")
	}
}

func TestMoveMotorCompletesAlongPositiveX(t *testing.T) {
	m := NewMoveMotor("mv1", nil, []uint32{1},
		Velocity(1, SystemA), Velocity(0, SystemA), Velocity(0, SystemA),
		true, false, false,
		Distance(5, SystemA), Distance(0, SystemA), Distance(0, SystemA))
	m.StartMotor()

	ids := []uint32{1}
	node := TelemetryNode{}
	m.UpdateState(0, ids, []float64{0, 0, 0}, node) // capture c0
	if m.MotorStatus() != Running {
		t.Fatalf("expected RUNNING after capture cycle, got %v", m.MotorStatus())
	}

	node = TelemetryNode{}
	m.UpdateState(1, ids, []float64{3, 0, 0}, node)
	if m.MotorStatus().Terminal() {
		t.Fatal("should not complete before reaching target displacement")
	}
	if node["progress_x"] != 60.0 {
		t.Errorf("expected 60%% progress at 3/5, got %v", node["progress_x"])
	}

	node = TelemetryNode{}
	m.UpdateState(2, ids, []float64{5, 0, 0}, node)
	if m.MotorStatus() != Success {
		t.Fatalf("expected SUCCESS at target displacement, got %v", m.MotorStatus())
	}
}

func TestMoveMotorTransientMissLeavesStateUnchanged(t *testing.T) {
	m := NewMoveMotor("mv1", nil, []uint32{1, 2},
		Velocity(1, SystemA), Velocity(0, SystemA), Velocity(0, SystemA),
		true, false, false,
		Distance(5, SystemA), Distance(0, SystemA), Distance(0, SystemA))
	m.StartMotor()
	m.UpdateState(0, []uint32{1, 2}, []float64{0, 0, 0, 1, 1, 1}, TelemetryNode{})

	// Cycle 1 delivers only atom 1: a transient miss (§4.2, §7).
	ok := m.UpdateState(1, []uint32{1}, []float64{2, 0, 0}, TelemetryNode{})
	if !ok {
		t.Fatal("UpdateState should still return true on a transient miss")
	}
	if m.MotorStatus() != Running {
		t.Fatalf("motor should remain RUNNING on a transient miss, got %v", m.MotorStatus())
	}
}

func TestForceMotorRejectsWithNegativeTargetOnWrongSide(t *testing.T) {
	m := NewForceMotor("f1", nil, []uint32{1},
		Force(-1, SystemA), Force(0, SystemA), Force(0, SystemA),
		true, false, false,
		Distance(-5, SystemA), Distance(0, SystemA), Distance(0, SystemA))
	m.StartMotor()
	ids := []uint32{1}
	m.UpdateState(0, ids, []float64{0, 0, 0}, TelemetryNode{})
	// Moved the wrong way (+2 instead of toward -5): must not satisfy completion.
	node := TelemetryNode{}
	m.UpdateState(1, ids, []float64{2, 0, 0}, node)
	if m.MotorStatus().Terminal() {
		t.Fatal("motor should not complete when displacement is on the wrong side of a negative target")
	}
}
