package motorengine

// RotateMotor prescribes a kinematic rotation of a selection about a
// fixed external pivot and axis at a constant period, until the
// accumulated signed angle reaches the requested angle (§4.3.5). It
// shares tracker-atom selection, angle integration, and completion with
// Torque; it differs only in using a fixed pivot and in emitting a
// kinematic (not force) directive.
type RotateMotor struct {
	baseMotor
	Atoms          *AtomSet
	Px, Py, Pz     Quantity // fixed pivot, kind=distance
	Ax, Ay, Az     float64  // axis, need not be normalized; engine normalizes
	Period         Quantity // kind=time, > 0
	RequestedAngle float64  // degrees, > 0

	tracker    axisAngleTracker
	trackerIdx int
}

// NewRotateMotor constructs a Rotate motor. period and requestedAngle
// must both be > 0 (enforced by the config loader, §4.7).
func NewRotateMotor(name string, dependencies []string, selection []uint32,
	px, py, pz Quantity, ax, ay, az float64, period Quantity, requestedAngle float64) *RotateMotor {
	return &RotateMotor{
		baseMotor: newBaseMotor(name, dependencies),
		Atoms:     NewAtomSet(selection),
		Px: px, Py: py, Pz: pz,
		Ax: ax, Ay: ay, Az: az,
		Period:         period,
		RequestedAngle: requestedAngle,
	}
}

// UpdateState implements §4.3.5.
func (m *RotateMotor) UpdateState(simIt uint64, ids []uint32, positions []float64, node TelemetryNode) bool {
	if !m.beginUpdate() {
		return false
	}
	if !m.Atoms.Refresh(simIt, ids, positions) {
		return true
	}
	ax, ay, az := normalizeAxis(m.Ax, m.Ay, m.Az)

	if !m.captured {
		m.tracker.axis = [3]float64{ax, ay, az}
		idx, ok := findTrackerAtom(m.Atoms, m.tracker.axis, m.Px.Value, m.Py.Value, m.Pz.Value)
		if !ok {
			m.fail()
			return true
		}
		m.trackerIdx = idx
		tx, ty, tz := m.Atoms.Position(idx)
		m.tracker.capture(tx-m.Px.Value, ty-m.Py.Value, tz-m.Pz.Value)
		m.captured = true
		node["current_total_angle_deg"] = 0.0
		node["wraps"] = 0
		return true
	}

	tx, ty, tz := m.Atoms.Position(m.trackerIdx)
	total := m.tracker.update(tx-m.Px.Value, ty-m.Py.Value, tz-m.Pz.Value)
	node["current_total_angle_deg"] = total
	node["wraps"] = m.tracker.wrapCount
	if total >= m.RequestedAngle {
		m.succeed()
	}
	return true
}

// Command implements §4.3.5: install a prescribed-rotation directive.
func (m *RotateMotor) Command() Command {
	ax, ay, az := normalizeAxis(m.Ax, m.Ay, m.Az)
	return Command{
		Kind:      CmdRotate,
		Origin:    m.name,
		Selection: m.Atoms.Selection(),
		Px:        m.Px.Value, Py: m.Py.Value, Pz: m.Pz.Value,
		PUnit:  m.Px.Unit,
		Ax:     ax, Ay: ay, Az: az,
		Period: m.Period.Value, PeriodUnit: m.Period.Unit,
	}
}

// ConvertSettingsTo re-homes the pivot and period to u (§4.1, §4.5).
func (m *RotateMotor) ConvertSettingsTo(u UnitSystem, logger Logger) {
	Convert(&m.Px, u, logger)
	Convert(&m.Py, u, logger)
	Convert(&m.Pz, u, logger)
	Convert(&m.Period, u, logger)
}
