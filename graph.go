package motorengine

import "fmt"

// MotorGraph owns every motor in the run and the pending/active
// partition over them (§3 "Motor graph", §9 "the engine owns all
// motors, and dependency references are weak"). Dependencies are
// resolved by name, never by a motor holding a reference to another.
type MotorGraph struct {
	motors map[string]Motor
	order  []string // enumeration order from config; active-list order (§5)
	active []string
}

// NewMotorGraph validates the dependency set (unknown names, cycles) and
// returns a graph with every motor in WAIT, none yet active. Validation
// failures are ConfigError/GraphError per §7.
func NewMotorGraph(motors []Motor) (*MotorGraph, error) {
	g := &MotorGraph{motors: make(map[string]Motor, len(motors))}
	for _, m := range motors {
		if _, dup := g.motors[m.Name()]; dup {
			return nil, &ConfigError{Reason: fmt.Sprintf("duplicate motor name %q", m.Name())}
		}
		g.motors[m.Name()] = m
		g.order = append(g.order, m.Name())
	}
	for _, m := range motors {
		for _, dep := range m.Dependencies() {
			if _, ok := g.motors[dep]; !ok {
				return nil, &ConfigError{Reason: fmt.Sprintf("motor %q depends on unknown motor %q", m.Name(), dep)}
			}
		}
	}
	if err := detectCycle(g.motors); err != nil {
		return nil, err
	}
	return g, nil
}

// detectCycle runs a standard three-color DFS over the dependency edges.
func detectCycle(motors map[string]Motor) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(motors))
	var visit func(name string) error
	visit = func(name string) error {
		color[name] = gray
		for _, dep := range motors[name].Dependencies() {
			switch color[dep] {
			case gray:
				return &GraphError{Reason: fmt.Sprintf("dependency cycle detected at %q -> %q", name, dep)}
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		color[name] = black
		return nil
	}
	for name := range motors {
		if color[name] == white {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Motor looks up a motor by its weak handle (name).
func (g *MotorGraph) Motor(name string) (Motor, bool) {
	m, ok := g.motors[name]
	return m, ok
}

// resolve implements the callback CanStart needs to check a dependency's
// current status.
func (g *MotorGraph) resolve(name string) Status {
	if m, ok := g.motors[name]; ok {
		return m.MotorStatus()
	}
	return Wait
}

// Active returns the current active motors, in deterministic
// config-declared enumeration order (§5 ordering guarantees).
func (g *MotorGraph) Active() []Motor {
	inActive := make(map[string]bool, len(g.active))
	for _, name := range g.active {
		inActive[name] = true
	}
	out := make([]Motor, 0, len(g.active))
	for _, name := range g.order {
		if inActive[name] {
			out = append(out, g.motors[name])
		}
	}
	return out
}

// AllTerminal reports whether every motor in the graph has reached
// SUCCESS or FAILED.
func (g *MotorGraph) AllTerminal() bool {
	for _, name := range g.order {
		if !g.motors[name].MotorStatus().Terminal() {
			return false
		}
	}
	return true
}

// AnyFailed reports whether any motor has reached FAILED, and returns it.
func (g *MotorGraph) AnyFailed() (Motor, bool) {
	for _, name := range g.order {
		if g.motors[name].MotorStatus() == Failed {
			return g.motors[name], true
		}
	}
	return nil, false
}

// Promote implements updateMotorLists (§4.5): drop SUCCESS motors from
// active, then move every WAIT motor whose dependencies are all SUCCESS
// into active and start it. If, after promotion, active is empty while
// at least one non-terminal motor remains, the graph is unsatisfiable —
// a GraphError (dependency cycle would have been caught at load time, so
// this is reachable only via a genuinely stuck dependency set, e.g. one
// resolved externally to FAILED outside the normal flow).
func (g *MotorGraph) Promote() error {
	kept := g.active[:0]
	for _, name := range g.active {
		if g.motors[name].MotorStatus() != Success {
			kept = append(kept, name)
		}
	}
	g.active = kept

	activeSet := make(map[string]bool, len(g.active))
	for _, name := range g.active {
		activeSet[name] = true
	}

	anyNonTerminal := false
	for _, name := range g.order {
		m := g.motors[name]
		if !m.MotorStatus().Terminal() {
			anyNonTerminal = true
		}
		if m.CanStart(g.resolve) {
			m.StartMotor()
			if !activeSet[name] {
				g.active = append(g.active, name)
				activeSet[name] = true
			}
		}
	}

	if len(g.active) == 0 && anyNonTerminal {
		return &GraphError{Reason: "no active motor but non-terminal motors remain: unsatisfiable dependency set"}
	}
	return nil
}
