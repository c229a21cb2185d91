package motorengine

// Status is a motor's lifecycle stage (§3, §4.3). Transitions are
// monotonic: WAIT -> RUNNING -> {SUCCESS, FAILED}; never backward (I4).
type Status uint8

const (
	// Wait is the initial status: present in the graph, not yet eligible.
	Wait Status = iota + 1
	// Running is active: updateState runs on it every cycle.
	Running
	// Success is terminal: completion predicate satisfied.
	Success
	// Failed is terminal: the motor could not proceed (§7 MotorFailure).
	Failed
)

func (s Status) String() string {
	switch s {
	case Wait:
		return "WAIT"
	case Running:
		return "RUNNING"
	case Success:
		return "SUCCESS"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether status is SUCCESS or FAILED.
func (s Status) Terminal() bool { return s == Success || s == Failed }

// TelemetryNode is the per-motor, per-cycle key-value bag a motor writes
// its progress fields into (§3 "telemetry frame", §4.3 "kvs_node").
type TelemetryNode map[string]interface{}

// Motor is the small common interface every variant implements (§9): a
// closed tagged union over five variants, not an open class hierarchy.
// Kind-specific command rendering is a switch on the CommandKind the motor
// emits, confined to the Command Encoder (command.go).
type Motor interface {
	Name() string
	MotorStatus() Status
	Dependencies() []string
	// CanStart reports whether this motor may transition WAIT->RUNNING,
	// given a callback to resolve a dependency name's current status.
	CanStart(resolve func(name string) Status) bool
	// StartMotor transitions WAIT->RUNNING. Idempotent: a call on a
	// non-WAIT motor is a no-op returning false (§4.3).
	StartMotor() bool
	// UpdateState advances the motor by one cycle. It returns false
	// without mutation if the motor is not RUNNING. On success it writes
	// this cycle's progress into node and may transition the motor to
	// SUCCESS or FAILED.
	UpdateState(simIt uint64, ids []uint32, positions []float64, node TelemetryNode) bool
	// Command returns this motor's current command (§4.4). Always
	// well-defined once RUNNING, including on and after the cycle the
	// motor reaches SUCCESS (§4.3 tie-break).
	Command() Command
	// ConvertSettingsTo re-homes every quantity owned by this motor
	// (including an already-captured initial reference) to unit system u
	// (§4.1 contract, §4.5 "delegated to each motor's convertSettingsTo").
	ConvertSettingsTo(u UnitSystem, logger Logger)
}

// baseMotor carries the fields and lifecycle logic shared by every
// variant (§3 "Motor. Common fields"). Each variant embeds it and adds
// its own kind-specific fields and UpdateState/Command/ConvertSettingsTo.
type baseMotor struct {
	name         string
	status       Status
	dependencies []string
	captured     bool // whether the first-RUNNING-cycle reference has been taken
}

func newBaseMotor(name string, dependencies []string) baseMotor {
	return baseMotor{name: name, status: Wait, dependencies: dependencies}
}

func (b *baseMotor) Name() string             { return b.name }
func (b *baseMotor) MotorStatus() Status      { return b.status }
func (b *baseMotor) Dependencies() []string   { return b.dependencies }

// CanStart implements §4.3: true iff WAIT and every dependency is SUCCESS.
func (b *baseMotor) CanStart(resolve func(name string) Status) bool {
	if b.status != Wait {
		return false
	}
	for _, dep := range b.dependencies {
		if resolve(dep) != Success {
			return false
		}
	}
	return true
}

// StartMotor implements §4.3's idempotency contract.
func (b *baseMotor) StartMotor() bool {
	if b.status != Wait {
		return false
	}
	b.status = Running
	return true
}

// beginUpdate is the shared guard every variant's UpdateState calls
// first: "if status != RUNNING, return false without mutation" (§4.3).
func (b *baseMotor) beginUpdate() bool {
	return b.status == Running
}

func (b *baseMotor) succeed() { b.status = Success }

func (b *baseMotor) fail() { b.status = Failed }

// clampProgress keeps a percentage in [0, 100], the fix for the overflow
// defect noted in spec.md §9's open question on Move's aggregate progress.
func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
