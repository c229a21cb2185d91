package motorengine

import (
	"context"
	"errors"
	"sync"
)

// ErrTerminate is returned by a FrameSource's Recv to signal a clean
// TERMINATE signal from the transport layer (§5, §6): the engine drains
// telemetry to disk and exits with no error.
var ErrTerminate = errors.New("motorengine: terminate signal received")

// FrameSource delivers the per-rank frame chunks for one cycle. Recv
// returns ErrTerminate on a clean shutdown request, or any other error
// on a transport ERROR signal (§5), which the engine treats as fatal.
type FrameSource interface {
	Recv(ctx context.Context) ([]RankFrame, error)
}

// CommandSink accepts the outbound command batch for one cycle (§6).
type CommandSink interface {
	Send(ctx context.Context, batch CommandBatch) error
}

// TelemetrySink accepts one cycle's telemetry frame (§6). The engine's
// own CSV writers are driven independently of this interface; a
// TelemetrySink is for additional consumers (e.g. the websocket
// broadcaster, telemetry/broadcast.go).
type TelemetrySink interface {
	Send(ctx context.Context, frame TelemetryFrame) error
}

// PositionSink accepts the sorted atom positions for one cycle (§6).
type PositionSink interface {
	Send(ctx context.Context, frame PositionFrame) error
}

// TelemetryFrame is one cycle's telemetry tree: one child per motor that
// updated this cycle, plus the global thermodynamics child (§3, §6).
type TelemetryFrame struct {
	SimIt  uint64
	Global TelemetryNode
	Motors map[string]TelemetryNode
}

// PositionFrame is the outbound position channel payload (§6).
type PositionFrame struct {
	SimIt     uint64
	Positions []float64
}

// AnchorConfig and ThermostatConfig are the opaque-to-the-core config
// blocks the engine merely threads through to the command encoder (§6
// SUPPLEMENT): anchors fold into the permanent non-mobile group that
// BuildScript subtracts out of integrateGRP, and thermostats are
// otherwise a simulator-side concern the engine exposes read-only.
type AnchorConfig struct {
	Selection []uint32
}

type ThermostatConfig struct {
	Type      string
	Selection []uint32
	Name      string
	StartTemp float64
	EndTemp   float64
	Damp      float64
	Seed      int64
}

// Engine is the Motor Engine scheduler (C5): it owns the motor graph,
// merges per-rank frames, drives motors in dependency order, produces
// the outgoing command batch, and records and flushes telemetry.
// Grounded on mission.go's Mission: a stopChan/histChan-driven cycle loop
// generalized from "one vehicle along N sequential waypoints" to "N
// independent motors in a dependency DAG".
type Engine struct {
	Name          string
	graph         *MotorGraph
	anchors       []AnchorConfig
	thermostats   []ThermostatConfig
	logger        Logger
	forceMaxSteps bool

	unitsReconciled bool
	primed          bool

	globalWriter *StaticWriter
	motorWriters map[string]*DynamicWriter

	extraTelemetry []TelemetrySink

	wg sync.WaitGroup
}

// NewEngine constructs an engine over the given (validated) motor graph.
func NewEngine(name string, graph *MotorGraph, anchors []AnchorConfig, thermostats []ThermostatConfig,
	forceMaxSteps bool, outputDir, separator string, logger Logger) *Engine {
	if logger == nil {
		logger = NopLogger()
	}
	e := &Engine{
		Name:          name,
		graph:         graph,
		anchors:       anchors,
		thermostats:   thermostats,
		logger:        logger,
		forceMaxSteps: forceMaxSteps,
		motorWriters:  make(map[string]*DynamicWriter),
	}
	e.globalWriter = NewStaticWriter(outputDir, "global", separator,
		[]string{"temp", "tot", "pot", "kin", "dt", "sim_t"}, logger)
	for _, name := range graph.order {
		e.motorWriters[name] = NewDynamicWriter(outputDir, name, separator, logger)
	}
	return e
}

// Thermostats returns the loaded thermostat configuration, read-only.
func (e *Engine) Thermostats() []ThermostatConfig { return e.thermostats }

// Anchors returns the loaded anchor configuration, read-only.
func (e *Engine) Anchors() []AnchorConfig { return e.anchors }

// AddTelemetrySink registers an additional telemetry consumer (e.g. a
// websocket broadcaster) that receives every committed frame alongside
// the engine's own CSV writers.
func (e *Engine) AddTelemetrySink(sink TelemetrySink) {
	e.extraTelemetry = append(e.extraTelemetry, sink)
}

func (e *Engine) anchorIDs() []uint32 {
	var out []uint32
	for _, a := range e.anchors {
		out = append(out, a.Selection...)
	}
	return out
}

// cycleResult is the per-cycle outcome of RunCycle.
type cycleResult struct {
	Commands  CommandBatch
	Script    Script
	Telemetry TelemetryFrame
	Positions PositionFrame
	Done      bool // all motors terminal and !forceMaxSteps
}

// RunCycle implements the per-cycle state machine of §4.5.
func (e *Engine) RunCycle(chunks []RankFrame) (*cycleResult, error) {
	frame, err := MergeFrames(chunks)
	if err != nil {
		e.logger.Log("level", "crit", "message", "frame merge failed", "err", err)
		e.flushTelemetryBestEffort()
		return nil, err
	}

	if !e.primed {
		// Before the very first cycle, seed active with every motor whose
		// dependencies are already satisfied (typically: none declared).
		if err := e.graph.Promote(); err != nil {
			e.logger.Log("level", "crit", "message", "initial promotion failed", "err", err)
			e.flushTelemetryBestEffort()
			return nil, err
		}
		e.primed = true
	}

	if !e.unitsReconciled {
		for _, name := range e.graph.order {
			if m, ok := e.graph.Motor(name); ok {
				m.ConvertSettingsTo(frame.Units, e.logger)
			}
		}
		e.unitsReconciled = true
	}

	if frame.Phase != Production {
		res := &cycleResult{
			Commands:  CommandBatch{SimIt: frame.SimIt},
			Telemetry: TelemetryFrame{SimIt: frame.SimIt, Global: thermoNode(frame)},
			Positions: PositionFrame{SimIt: frame.SimIt, Positions: frame.Positions},
		}
		res.Script = BuildScript(nil, e.anchorIDs())
		if err := e.commitTelemetry(res.Telemetry); err != nil {
			e.logger.Log("level", "error", "message", "telemetry commit failed", "err", err)
		}
		return res, nil
	}

	motorTelemetry := make(map[string]TelemetryNode)
	for _, m := range e.graph.Active() {
		node := TelemetryNode{}
		mLogger := withMotor(withCycle(e.logger, frame.SimIt), m.Name())
		updated := m.UpdateState(frame.SimIt, frame.IDs, frame.Positions, node)
		if updated {
			motorTelemetry[m.Name()] = node
		}
		mLogger.Log("level", "debug", "status", m.MotorStatus(), "updated", updated)
	}

	if failed, ok := e.graph.AnyFailed(); ok {
		err := &MotorFailure{Motor: failed.Name(), Reason: "completion predicate unreachable"}
		e.logger.Log("level", "crit", "message", "motor failed, aborting run", "motor", failed.Name(), "sim_it", frame.SimIt)
		e.flushTelemetryBestEffort()
		return nil, err
	}

	allTerminal := e.graph.AllTerminal()
	if allTerminal && !e.forceMaxSteps {
		res := &cycleResult{
			Commands:  CommandBatch{SimIt: frame.SimIt},
			Telemetry: TelemetryFrame{SimIt: frame.SimIt, Global: thermoNode(frame), Motors: motorTelemetry},
			Positions: PositionFrame{SimIt: frame.SimIt, Positions: frame.Positions},
			Done:      true,
		}
		if err := e.commitTelemetry(res.Telemetry); err != nil {
			e.logger.Log("level", "error", "message", "telemetry commit failed", "err", err)
		}
		return res, nil
	}

	var commands []Command
	if allTerminal && e.forceMaxSteps {
		commands = []Command{{Kind: CmdWait, Origin: e.Name}}
	} else {
		for _, m := range e.graph.Active() {
			commands = append(commands, m.Command())
		}
	}

	batch := CommandBatch{SimIt: frame.SimIt, Commands: commands}
	script := BuildScript(commands, e.anchorIDs())

	telemetry := TelemetryFrame{SimIt: frame.SimIt, Global: thermoNode(frame), Motors: motorTelemetry}
	if err := e.commitTelemetry(telemetry); err != nil {
		e.logger.Log("level", "error", "message", "telemetry commit failed", "err", err)
	}

	if err := e.graph.Promote(); err != nil {
		e.logger.Log("level", "crit", "message", "promotion failed", "err", err)
		e.flushTelemetryBestEffort()
		return nil, err
	}

	return &cycleResult{
		Commands:  batch,
		Script:    script,
		Telemetry: telemetry,
		Positions: PositionFrame{SimIt: frame.SimIt, Positions: frame.Positions},
	}, nil
}

func thermoNode(frame *AtomFrame) TelemetryNode {
	node := TelemetryNode{
		"temp": frame.Thermo.Temp,
		"tot":  frame.Thermo.Etotal,
		"pot":  frame.Thermo.Pe,
		"kin":  frame.Thermo.Ke,
		"dt":   frame.Thermo.Dt,
		"sim_t": frame.Thermo.Time,
	}
	for k, v := range frame.Thermo.Extra {
		node[k] = v
	}
	return node
}

func (e *Engine) commitTelemetry(frame TelemetryFrame) error {
	if err := e.globalWriter.Append(frame.SimIt, frame.Global); err != nil {
		return err
	}
	for name, node := range frame.Motors {
		w, ok := e.motorWriters[name]
		if !ok {
			continue
		}
		if err := w.Append(frame.SimIt, node); err != nil {
			e.logger.Log("level", "error", "message", "motor telemetry commit failed", "motor", name, "err", err)
		}
	}
	for _, sink := range e.extraTelemetry {
		if err := sink.Send(context.Background(), frame); err != nil {
			e.logger.Log("level", "warn", "message", "telemetry sink send failed", "err", err)
		}
	}
	return nil
}

// Flush writes every telemetry CSV to disk (§4.6, §5 "no partial CSV
// allowed on TERMINATE"). Best-effort per motor: one failing writer does
// not prevent the others from flushing.
func (e *Engine) Flush() error {
	var firstErr error
	if err := e.globalWriter.Flush(); err != nil {
		e.logger.Log("level", "error", "message", "global telemetry flush failed", "err", err)
		firstErr = err
	}
	for name, w := range e.motorWriters {
		if err := w.Flush(); err != nil {
			e.logger.Log("level", "error", "message", "motor telemetry flush failed", "motor", name, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (e *Engine) flushTelemetryBestEffort() {
	if err := e.Flush(); err != nil {
		e.logger.Log("level", "error", "message", "best-effort flush encountered errors", "err", err)
	}
}

// Run drives the full cycle loop against a transport until the source
// signals TERMINATE, a fatal error occurs, or every motor reaches a
// terminal state without --forcemaxsteps (§5, §6).
func (e *Engine) Run(ctx context.Context, source FrameSource, commands CommandSink, telemetry TelemetrySink, positions PositionSink) error {
	defer e.wg.Wait()
	for {
		chunks, err := source.Recv(ctx)
		if err != nil {
			if errors.Is(err, ErrTerminate) {
				e.flushTelemetryBestEffort()
				return nil
			}
			e.logger.Log("level", "crit", "message", "transport error", "err", err)
			e.flushTelemetryBestEffort()
			return err
		}

		result, err := e.RunCycle(chunks)
		if err != nil {
			return err
		}

		if commands != nil {
			if err := commands.Send(ctx, result.Commands); err != nil {
				e.logger.Log("level", "error", "message", "command send failed", "err", err)
			}
		}
		if telemetry != nil {
			if err := telemetry.Send(ctx, result.Telemetry); err != nil {
				e.logger.Log("level", "warn", "message", "telemetry send failed", "err", err)
			}
		}
		if positions != nil {
			if err := positions.Send(ctx, result.Positions); err != nil {
				e.logger.Log("level", "warn", "message", "position send failed", "err", err)
			}
		}

		if result.Done {
			e.flushTelemetryBestEffort()
			return nil
		}
	}
}
