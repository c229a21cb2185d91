package motorengine

// BlankMotor waits a fixed number of steps and then succeeds (§4.3.1).
// It is the closest analogue in this domain to the teacher's Loiter
// waypoint: "wait until a given time" becomes "wait until a given step".
type BlankMotor struct {
	baseMotor
	NSteps uint64

	startStep uint64
	lastStep  uint64
}

// NewBlankMotor constructs a Blank motor. nSteps must be >= 1 (enforced
// by the config loader at load time, §4.7).
func NewBlankMotor(name string, dependencies []string, nSteps uint64) *BlankMotor {
	return &BlankMotor{baseMotor: newBaseMotor(name, dependencies), NSteps: nSteps}
}

// UpdateState implements §4.3.1.
func (m *BlankMotor) UpdateState(simIt uint64, ids []uint32, positions []float64, node TelemetryNode) bool {
	if !m.beginUpdate() {
		return false
	}
	if !m.captured {
		m.captured = true
		m.startStep = simIt
		m.lastStep = m.startStep + m.NSteps
		m.emit(simIt, node)
		return true
	}
	m.emit(simIt, node)
	if simIt >= m.lastStep {
		m.succeed()
	}
	return true
}

func (m *BlankMotor) emit(simIt uint64, node TelemetryNode) {
	done := int64(simIt) - int64(m.startStep)
	if done < 0 {
		done = 0
	}
	left := int64(m.NSteps) - done
	if left < 0 {
		left = 0
	}
	node["steps_done"] = done
	node["steps_left"] = left
	node["progress"] = clampProgress(100 * float64(done) / float64(m.NSteps))
}

// Command implements §4.3.1: Blank never biases ("no biasing fix").
func (m *BlankMotor) Command() Command {
	return Command{Kind: CmdWait, Origin: m.name}
}

// ConvertSettingsTo is a no-op: Blank carries no physical quantities.
func (m *BlankMotor) ConvertSettingsTo(u UnitSystem, logger Logger) {}
