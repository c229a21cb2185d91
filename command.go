package motorengine

import "fmt"

// CommandKind is the closed tagged-union discriminant for wire commands
// (§4.4, §6). Dispatch on it is the only "switch on type" in the encoder,
// per §9 ("no RTTI / switch-on-type" beyond the closed union itself).
type CommandKind uint8

const (
	// CmdWait is a progress-only placeholder: no group, no fix (§4.4).
	CmdWait CommandKind = iota + 1
	// CmdMove installs a linear-motion (kinematic) directive.
	CmdMove
	// CmdForce installs a constant add-force directive.
	CmdForce
	// CmdTorque installs a constant add-torque directive.
	CmdTorque
	// CmdRotate installs a prescribed-rotation (kinematic) directive.
	CmdRotate
)

func (k CommandKind) String() string {
	switch k {
	case CmdWait:
		return "WAIT"
	case CmdMove:
		return "MOVE"
	case CmdForce:
		return "FORCE"
	case CmdTorque:
		return "TORQUE"
	case CmdRotate:
		return "ROTATE"
	default:
		return "UNKNOWN"
	}
}

// Command is a wire record (§6 lmpcmds): an origin tag, kind-specific
// parameters carried in wire units alongside their unit tag, and the
// selection the directive applies to. Zero values of the fields not used
// by Kind are simply ignored by the encoder.
type Command struct {
	Kind      CommandKind
	Origin    string // motor name; used to derive group/fix identifiers
	Selection []uint32

	// MOVE
	Vx, Vy, Vz float64
	VUnit      UnitSystem

	// FORCE
	Fx, Fy, Fz float64
	FUnit      UnitSystem

	// TORQUE
	Tx, Ty, Tz float64
	TUnit      UnitSystem

	// ROTATE
	Px, Py, Pz     float64
	PUnit          UnitSystem
	Ax, Ay, Az     float64
	Period         float64
	PeriodUnit     UnitSystem
}

// NeedsIntegration reports whether the simulator's time integrator must
// still evolve the atoms this command acts on. Move and Rotate impose
// deterministic kinematics and are excluded from integration; Force and
// Torque perturb dynamics that the integrator must still carry forward;
// Wait touches no atoms at all (§4.4).
func (c Command) NeedsIntegration() bool {
	switch c.Kind {
	case CmdMove, CmdRotate:
		return false
	case CmdForce, CmdTorque:
		return true
	default:
		return true
	}
}

// isPassive reports whether this command contributes to neither synthetic
// group (only ever true for WAIT, §4.4).
func (c Command) isPassive() bool { return c.Kind == CmdWait }

func (c Command) groupName() string { return fmt.Sprintf("grp_%s", c.Origin) }
func (c Command) fixName() string   { return fmt.Sprintf("fix_%s", c.Origin) }

// directive renders the kind-specific fix line in wire units. This is the
// single point of kind dispatch in the encoder.
func (c Command) directive() string {
	switch c.Kind {
	case CmdWait:
		return ""
	case CmdMove:
		return fmt.Sprintf("move %s linear %g %g %g (%s)", c.groupName(), c.Vx, c.Vy, c.Vz, c.VUnit)
	case CmdForce:
		return fmt.Sprintf("addforce %s %g %g %g (%s)", c.groupName(), c.Fx, c.Fy, c.Fz, c.FUnit)
	case CmdTorque:
		return fmt.Sprintf("addtorque %s %g %g %g (%s)", c.groupName(), c.Tx, c.Ty, c.Tz, c.TUnit)
	case CmdRotate:
		return fmt.Sprintf("move %s rotate %g %g %g (%s) %g %g %g %g (%s)",
			c.groupName(), c.Px, c.Py, c.Pz, c.PUnit, c.Ax, c.Ay, c.Az, c.Period, c.PeriodUnit)
	default:
		return ""
	}
}

// CommandBatch is the per-cycle outbound payload (§6 lmpcmds).
type CommandBatch struct {
	SimIt    uint64
	Commands []Command
}

// Script is the ordered pair of directive lines the simulator installs
// (do) and tears down (undo) for one interval (§4.4). Do and Undo are
// plain strings so a transport can ship them verbatim; AppliedGroups and
// AppliedFixes are exposed separately so tests can assert the do/undo
// symmetry invariant (I5) without parsing the script text back out.
type Script struct {
	Do             []string
	Undo           []string
	AppliedGroups  []string
	AppliedFixes   []string
}

const integrateFixName = "integrate_fix"
const nonintegrateGroupName = "nonintegrateGRP"
const integrateGroupName = "integrateGRP"

// BuildScript assembles the do-script / undo-script for one cycle from
// the ordered list of active motors' commands, plus the permanent anchor
// selection (possibly empty) (§4.4, §6 SUPPLEMENT anchor passthrough).
// Only whether the anchor selection is empty is used: when it is not,
// integrateGRP also subtracts the simulator-side group anchorGRP, which
// this script neither creates nor deletes. Anchor atoms that also belong
// to a Move or Rotate selection are not removed from nonintegrateGRP.
//
// Do-scripts are emitted in command (motor-enumeration) order, followed
// by the two synthetic groups and the single time-integration fix.
// Undo-scripts run in the reverse order, deleting the synthetic groups
// first (§4.4, §5 ordering guarantees).
func BuildScript(commands []Command, anchor []uint32) Script {
	var s Script
	anchorSet := make(map[uint32]bool, len(anchor))
	for _, id := range anchor {
		anchorSet[id] = true
	}

	nonintegrate := make(map[uint32]bool)

	for _, c := range commands {
		if c.isPassive() {
			// WAIT: progress-only, no group/fix either direction.
			continue
		}
		s.Do = append(s.Do, fmt.Sprintf("group %s id %v", c.groupName(), c.Selection))
		s.Do = append(s.Do, fmt.Sprintf("fix %s %s %s", c.fixName(), c.groupName(), c.directive()))
		s.AppliedGroups = append(s.AppliedGroups, c.groupName())
		s.AppliedFixes = append(s.AppliedFixes, c.fixName())
		if !c.NeedsIntegration() {
			for _, id := range c.Selection {
				nonintegrate[id] = true
			}
		}
	}

	s.Do = append(s.Do, fmt.Sprintf("group %s union %s", nonintegrateGroupName, groupUnionArg(commands)))
	s.Do = append(s.Do, fmt.Sprintf("group %s subtract all %s %s", integrateGroupName, nonintegrateGroupName, anchorGroupArg(len(anchor) > 0)))
	s.Do = append(s.Do, fmt.Sprintf("fix %s %s nve", integrateFixName, integrateGroupName))
	s.AppliedGroups = append(s.AppliedGroups, nonintegrateGroupName, integrateGroupName)
	s.AppliedFixes = append(s.AppliedFixes, integrateFixName)

	// Undo-script runs in reverse, synthetic groups torn down first (§4.4).
	s.Undo = append(s.Undo, fmt.Sprintf("unfix %s", integrateFixName))
	s.Undo = append(s.Undo, fmt.Sprintf("group %s delete", integrateGroupName))
	s.Undo = append(s.Undo, fmt.Sprintf("group %s delete", nonintegrateGroupName))
	for i := len(commands) - 1; i >= 0; i-- {
		c := commands[i]
		if c.isPassive() {
			continue
		}
		s.Undo = append(s.Undo, fmt.Sprintf("unfix %s", c.fixName()))
		s.Undo = append(s.Undo, fmt.Sprintf("group %s delete", c.groupName()))
	}

	return s
}

func groupUnionArg(commands []Command) string {
	out := ""
	for _, c := range commands {
		if c.isPassive() || c.NeedsIntegration() {
			continue
		}
		if out != "" {
			out += " "
		}
		out += c.groupName()
	}
	if out == "" {
		return "empty"
	}
	return out
}

func anchorGroupArg(hasAnchor bool) string {
	if !hasAnchor {
		return ""
	}
	return "anchorGRP"
}
