package motorengine

// ForceMotor applies a constant force to a selection until its centroid
// has displaced by the requested amount on every checked axis (§4.3.3).
// The completion rule is identical to Move's; only the installed
// directive and the kind-specific quantity differ.
type ForceMotor struct {
	baseMotor
	Atoms                  *AtomSet
	Fx, Fy, Fz             Quantity // force, kind=force
	CheckX, CheckY, CheckZ bool
	Dx, Dy, Dz             Quantity // target displacement, kind=distance

	c0x, c0y, c0z float64
}

// NewForceMotor constructs a Force motor over the given selection.
func NewForceMotor(name string, dependencies []string, selection []uint32,
	fx, fy, fz Quantity, checkX, checkY, checkZ bool, dx, dy, dz Quantity) *ForceMotor {
	return &ForceMotor{
		baseMotor: newBaseMotor(name, dependencies),
		Atoms:     NewAtomSet(selection),
		Fx:        fx, Fy: fy, Fz: fz,
		CheckX: checkX, CheckY: checkY, CheckZ: checkZ,
		Dx: dx, Dy: dy, Dz: dz,
	}
}

// UpdateState implements §4.3.3.
func (m *ForceMotor) UpdateState(simIt uint64, ids []uint32, positions []float64, node TelemetryNode) bool {
	if !m.beginUpdate() {
		return false
	}
	if !m.Atoms.Refresh(simIt, ids, positions) {
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

func (m *ForceMotor) completed(dx, dy, dz float64) bool {
	return axisSatisfied(axisTarget{m.CheckX, m.Dx.Value}, dx) &&
		axisSatisfied(axisTarget{m.CheckY, m.Dy.Value}, dy) &&
		axisSatisfied(axisTarget{m.CheckZ, m.Dz.Value}, dz)
}

func (m *ForceMotor) emit(dx, dy, dz float64, node TelemetryNode) {
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

// Command implements §4.3.3: install an add-force directive.
func (m *ForceMotor) Command() Command {
	return Command{
		Kind:      CmdForce,
		Origin:    m.name,
		Selection: m.Atoms.Selection(),
		Fx:        m.Fx.Value, Fy: m.Fy.Value, Fz: m.Fz.Value,
		FUnit: m.Fx.Unit,
	}
}

// ConvertSettingsTo re-homes this motor's quantities, including an
// already-captured centroid reference, to u (§4.1, §4.5).
func (m *ForceMotor) ConvertSettingsTo(u UnitSystem, logger Logger) {
	if m.captured {
		rescaleCentroid(&m.c0x, &m.c0y, &m.c0z, m.Dx.Unit, u, logger)
	}
	Convert(&m.Fx, u, logger)
	Convert(&m.Fy, u, logger)
	Convert(&m.Fz, u, logger)
	Convert(&m.Dx, u, logger)
	Convert(&m.Dy, u, logger)
	Convert(&m.Dz, u, logger)
}
