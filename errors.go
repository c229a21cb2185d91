package motorengine

import "fmt"

// ConfigError reports a malformed document, an unknown motor kind, an
// unknown dependency, a non-positive period/angle, or a schema version
// mismatch (§7). Fatal at load time; callers should exit 1.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config: " + e.Reason }

// GraphError reports a dependency cycle or an un-startable motor once all
// dependencies have resolved (§7). A cycle is detected when the graph is
// built at load time, and main then exits 1 as for any load failure; an
// un-startable motor found during promotion is fatal at runtime and main
// exits -1.
type GraphError struct {
	Reason string
}

func (e *GraphError) Error() string { return "graph: " + e.Reason }

// FrameError reports disagreeing per-rank sim_it values, an id set that is
// not a dense permutation of {1..N}, or a missing required simdata field
// (§7). Fatal at runtime; callers should exit -1.
type FrameError struct {
	Reason string
}

func (e *FrameError) Error() string { return "frame: " + e.Reason }

// MotorFailure reports a motor that set its own status to FAILED (§7),
// currently only reachable when Torque/Rotate cannot find a tracker atom
// off the rotation axis. Fatal to the run; callers should exit -1.
type MotorFailure struct {
	Motor  string
	Reason string
}

func (e *MotorFailure) Error() string {
	return fmt.Sprintf("motor %q failed: %s", e.Motor, e.Reason)
}

// IOError wraps a telemetry write failure. Logged at error; the run
// continues, since telemetry is explicitly best-effort (§7).
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("io: %s: %v", e.Op, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }
