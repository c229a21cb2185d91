package motorengine

// TorqueMotor applies a constant torque to a selection, rotating it about
// the torque vector's own direction, until the accumulated signed angle
// reaches the requested angle (§4.3.4). The pivot is recomputed every
// cycle as the selection's current centroid, a known approximation
// carried from spec.md §9 (stable for rigid bodies only).
type TorqueMotor struct {
	baseMotor
	Atoms            *AtomSet
	Tx, Ty, Tz       Quantity // torque, kind=torque
	RequestedAngle   float64  // degrees

	tracker    axisAngleTracker
	trackerIdx int // index into Atoms' selection order
}

// NewTorqueMotor constructs a Torque motor. requestedAngle must be > 0
// (enforced by the config loader, §4.7).
func NewTorqueMotor(name string, dependencies []string, selection []uint32,
	tx, ty, tz Quantity, requestedAngle float64) *TorqueMotor {
	return &TorqueMotor{
		baseMotor:      newBaseMotor(name, dependencies),
		Atoms:          NewAtomSet(selection),
		Tx: tx, Ty: ty, Tz: tz,
		RequestedAngle: requestedAngle,
	}
}

// UpdateState implements §4.3.4.
func (m *TorqueMotor) UpdateState(simIt uint64, ids []uint32, positions []float64, node TelemetryNode) bool {
	if !m.beginUpdate() {
		return false
	}
	if !m.Atoms.Refresh(simIt, ids, positions) {
		return true
	}
	axis := [3]float64{m.Tx.Value, m.Ty.Value, m.Tz.Value}
	ax, ay, az := normalizeAxis(axis[0], axis[1], axis[2])
	cx, cy, cz := m.Atoms.Centroid()

	if !m.captured {
		m.tracker.axis = [3]float64{ax, ay, az}
		idx, ok := findTrackerAtom(m.Atoms, m.tracker.axis, cx, cy, cz)
		if !ok {
			m.fail()
			return true
		}
		m.trackerIdx = idx
		tx, ty, tz := m.Atoms.Position(idx)
		m.tracker.capture(tx-cx, ty-cy, tz-cz)
		m.captured = true
		node["current_total_angle_deg"] = 0.0
		node["wraps"] = 0
		return true
	}

	tx, ty, tz := m.Atoms.Position(m.trackerIdx)
	total := m.tracker.update(tx-cx, ty-cy, tz-cz)
	node["current_total_angle_deg"] = total
	node["wraps"] = m.tracker.wrapCount
	if total >= m.RequestedAngle {
		m.succeed()
	}
	return true
}

// Command implements §4.3.4: install an add-torque directive.
func (m *TorqueMotor) Command() Command {
	return Command{
		Kind:      CmdTorque,
		Origin:    m.name,
		Selection: m.Atoms.Selection(),
		Tx:        m.Tx.Value, Ty: m.Ty.Value, Tz: m.Tz.Value,
		TUnit: m.Tx.Unit,
	}
}

// ConvertSettingsTo re-homes torque to u. The tracker's stored offsets
// are taken from the frame's positions, which are already in the frame's
// unit system (the engine does not convert positions), so no rescale is
// done here beyond the torque quantity itself.
func (m *TorqueMotor) ConvertSettingsTo(u UnitSystem, logger Logger) {
	Convert(&m.Tx, u, logger)
	Convert(&m.Ty, u, logger)
	Convert(&m.Tz, u, logger)
}

// findTrackerAtom returns the index (into the AtomSet's selection order)
// of the first selected atom whose distance to the axis (through the
// given pivot) exceeds trackerEpsilon (§4.3.4).
func findTrackerAtom(atoms *AtomSet, axis [3]float64, px, py, pz float64) (int, bool) {
	for i := 0; i < atoms.SelectedCount(); i++ {
		x, y, z := atoms.Position(i)
		if distanceToAxis(axis, x-px, y-py, z-pz) > trackerEpsilon {
			return i, true
		}
	}
	return 0, false
}
