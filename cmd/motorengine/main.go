package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/motorengine/motorengine"
	"github.com/motorengine/motorengine/telemetry"
	"github.com/motorengine/motorengine/transport"
)

func main() {
	log.SetFlags(0)

	name := flag.String("name", "motorengine", "run name, bound to every log line")
	configPath := flag.String("config", "", "path to the motor document (§4.7)")
	simAddr := flag.String("motors", "", "host:port of the external simulator's RPC endpoint")
	testMotors := flag.Bool("testmotors", false, "drive the engine against a synthetic in-process simulator instead of a real one")
	forceMaxSteps := flag.Bool("forcemaxsteps", false, "keep driving sim cycles after every motor terminates, issuing WAIT")
	outputDir := flag.String("output", ".", "directory telemetry CSVs are written to")
	separator := flag.String("sep", ",", "CSV field separator")
	wsAddr := flag.String("ws", "", "optional host:port to serve a live telemetry websocket dashboard on")
	flag.Parse()

	logger := motorengine.NewLogger(*name)

	if (*simAddr == "") == !*testMotors {
		logger.Log("level", "crit", "message", "exactly one of -motors or -testmotors must be given")
		os.Exit(1)
	}
	if *configPath == "" {
		logger.Log("level", "crit", "message", "-config is required")
		os.Exit(1)
	}

	graph, anchors, thermostats, _, err := motorengine.LoadConfig(*configPath, logger)
	if err != nil {
		logger.Log("level", "crit", "message", "config load failed", "err", err)
		os.Exit(1)
	}

	eng := motorengine.NewEngine(*name, graph, anchors, thermostats, *forceMaxSteps, *outputDir, *separator, logger)

	if *wsAddr != "" {
		broadcaster := telemetry.NewBroadcaster(logger)
		eng.AddTelemetrySink(broadcaster)
		mux := http.NewServeMux()
		mux.Handle("/ws", broadcaster)
		go func() {
			if err := http.ListenAndServe(*wsAddr, mux); err != nil {
				logger.Log("level", "error", "message", "websocket dashboard server stopped", "err", err)
			}
		}()
	}

	var frameSource motorengine.FrameSource
	var commandSink motorengine.CommandSink
	var telemetrySink motorengine.TelemetrySink
	var positionSink motorengine.PositionSink

	if *testMotors {
		bridge := runSyntheticSimulator(graph, thermostats)
		frameSource, commandSink, telemetrySink, positionSink = bridge, bridge.CommandSink(), bridge.TelemetrySink(), bridge.PositionSink()
	} else {
		rt, err := transport.DialRPC(*simAddr)
		if err != nil {
			logger.Log("level", "crit", "message", "cannot dial simulator", "addr", *simAddr, "err", err)
			os.Exit(1)
		}
		defer rt.Close()
		frameSource, commandSink, telemetrySink, positionSink = rt, rt.CommandSink(), rt.TelemetrySink(), rt.PositionSink()
	}

	if err := eng.Run(context.Background(), frameSource, commandSink, telemetrySink, positionSink); err != nil {
		logger.Log("level", "crit", "message", "run terminated with error", "err", err)
		switch err.(type) {
		case *motorengine.ConfigError:
			os.Exit(1)
		default:
			os.Exit(-1)
		}
	}
}

// runSyntheticSimulator drives a minimal in-process stand-in simulator
// for --testmotors: atoms sit still at the origin and the run is always
// in PRODUCTION, enough to exercise the full motor/engine/telemetry path
// without an external MD process.
func runSyntheticSimulator(graph interface {
	Motor(name string) (motorengine.Motor, bool)
}, thermostats []motorengine.ThermostatConfig) *transport.ChannelBridge {
	bridge := transport.NewChannelBridge(4)
	go func() {
		var simIt uint64
		for {
			bridge.Push([]motorengine.RankFrame{{
				SimIt:     simIt,
				IDs:       []uint32{1},
				Positions: []float64{0, 0, 0},
				Phase:     motorengine.Production,
				Units:     motorengine.SystemA,
			}})
			select {
			case <-bridge.Commands():
			case <-bridge.Telemetry():
			}
			simIt++
		}
	}()
	return bridge
}
