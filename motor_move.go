package motorengine

// MoveMotor pulls a selection at a constant velocity until its centroid
// has displaced by the requested amount on every checked axis (§4.3.2).
type MoveMotor struct {
	baseMotor
	Atoms             *AtomSet
	Vx, Vy, Vz        Quantity // velocity, kind=velocity
	CheckX, CheckY, CheckZ bool
	Dx, Dy, Dz        Quantity // target displacement, kind=distance

	c0x, c0y, c0z float64 // initial centroid
}

// NewMoveMotor constructs a Move motor over the given selection.
func NewMoveMotor(name string, dependencies []string, selection []uint32,
	vx, vy, vz Quantity, checkX, checkY, checkZ bool, dx, dy, dz Quantity) *MoveMotor {
	return &MoveMotor{
		baseMotor: newBaseMotor(name, dependencies),
		Atoms:     NewAtomSet(selection),
		Vx:        vx, Vy: vy, Vz: vz,
		CheckX: checkX, CheckY: checkY, CheckZ: checkZ,
		Dx: dx, Dy: dy, Dz: dz,
	}
}

// UpdateState implements §4.3.2.
func (m *MoveMotor) UpdateState(simIt uint64, ids []uint32, positions []float64, node TelemetryNode) bool {
	if !m.beginUpdate() {
		return false
	}
	if !m.Atoms.Refresh(simIt, ids, positions) {
		// TransientMiss (§7): remain RUNNING, no telemetry this cycle.
		return true
	}
	cx, cy, cz := m.Atoms.Centroid()
	if !m.captured {
		m.captured = true
		m.c0x, m.c0y, m.c0z = cx, cy, cz
		m.emit(0, 0, 0, node)
		return true
	}
	dx, dy, dz := cx-m.c0x, cy-m.c0y, cz-m.c0z
	m.emit(dx, dy, dz, node)
	if m.completed(dx, dy, dz) {
		m.succeed()
	}
	return true
}

func (m *MoveMotor) completed(dx, dy, dz float64) bool {
	return axisSatisfied(axisTarget{m.CheckX, m.Dx.Value}, dx) &&
		axisSatisfied(axisTarget{m.CheckY, m.Dy.Value}, dy) &&
		axisSatisfied(axisTarget{m.CheckZ, m.Dz.Value}, dz)
}

func (m *MoveMotor) emit(dx, dy, dz float64, node TelemetryNode) {
	px := axisProgressPct(axisTarget{m.CheckX, m.Dx.Value}, dx)
	py := axisProgressPct(axisTarget{m.CheckY, m.Dy.Value}, dy)
	pz := axisProgressPct(axisTarget{m.CheckZ, m.Dz.Value}, dz)
	node["distance_x"] = dx
	node["distance_y"] = dy
	node["distance_z"] = dz
	node["progress_x"] = px
	node["progress_y"] = py
	node["progress_z"] = pz
	node["progress"] = minProgress(px, py, pz)
}

// Command implements §4.3.2: install a linear-motion directive.
func (m *MoveMotor) Command() Command {
	return Command{
		Kind:      CmdMove,
		Origin:    m.name,
		Selection: m.Atoms.Selection(),
		Vx:        m.Vx.Value, Vy: m.Vy.Value, Vz: m.Vz.Value,
		VUnit: m.Vx.Unit,
	}
}

// ConvertSettingsTo implements §4.1's contract, delegated per-motor
// (§4.5): every quantity, including an already-captured initial
// reference, is re-homed to u. The captured centroid shares the
// distance unit of Dx/Dy/Dz, so it is rescaled by the same factor before
// Dx/Dy/Dz themselves are mutated.
func (m *MoveMotor) ConvertSettingsTo(u UnitSystem, logger Logger) {
	if m.captured {
		rescaleCentroid(&m.c0x, &m.c0y, &m.c0z, m.Dx.Unit, u, logger)
	}
	Convert(&m.Vx, u, logger)
	Convert(&m.Vy, u, logger)
	Convert(&m.Vz, u, logger)
	Convert(&m.Dx, u, logger)
	Convert(&m.Dy, u, logger)
	Convert(&m.Dz, u, logger)
}
