package transport

import (
	"context"
	"net/rpc"

	"github.com/motorengine/motorengine"
)

// FrameReply is the wire envelope an external simulator's Sim.NextFrame
// RPC method returns: either the next cycle's rank frame chunks, or a
// clean Terminate signal (§5, §6).
type FrameReply struct {
	Chunks    []motorengine.RankFrame
	Terminate bool
}

// RPCTransport dials an external simulator process over net/rpc,
// grounded on cloudlus/client.go's Dial/Call pattern: every call is a
// single synchronous request/reply round trip, no custom framing.
type RPCTransport struct {
	client *rpc.Client
}

// DialRPC connects to a simulator listening at addr (host:port), serving
// the RPC methods Sim.NextFrame, Sim.ApplyCommands, Sim.PushTelemetry,
// and Sim.PushPositions over HTTP-wrapped net/rpc.
func DialRPC(addr string) (*RPCTransport, error) {
	client, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &RPCTransport{client: client}, nil
}

// Recv implements motorengine.FrameSource.
func (t *RPCTransport) Recv(ctx context.Context) ([]motorengine.RankFrame, error) {
	type result struct {
		reply FrameReply
		err   error
	}
	done := make(chan result, 1)
	go func() {
		var r result
		r.err = t.client.Call("Sim.NextFrame", struct{}{}, &r.reply)
		done <- r
	}()
	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if r.reply.Terminate {
			return nil, motorengine.ErrTerminate
		}
		return r.reply.Chunks, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// sendCommands forwards one cycle's command batch to the simulator.
func (t *RPCTransport) sendCommands(batch motorengine.CommandBatch) error {
	var unused int
	return t.client.Call("Sim.ApplyCommands", batch, &unused)
}

// sendTelemetry forwards one cycle's telemetry frame, e.g. to a
// simulator-side dashboard mirror.
func (t *RPCTransport) sendTelemetry(frame motorengine.TelemetryFrame) error {
	var unused int
	return t.client.Call("Sim.PushTelemetry", frame, &unused)
}

// sendPositions forwards one cycle's position frame.
func (t *RPCTransport) sendPositions(frame motorengine.PositionFrame) error {
	var unused int
	return t.client.Call("Sim.PushPositions", frame, &unused)
}

// CommandSink returns the motorengine.CommandSink view of this transport.
func (t *RPCTransport) CommandSink() motorengine.CommandSink { return rpcCommandSink{t} }

// TelemetrySink returns the motorengine.TelemetrySink view of this transport.
func (t *RPCTransport) TelemetrySink() motorengine.TelemetrySink { return rpcTelemetrySink{t} }

// PositionSink returns the motorengine.PositionSink view of this transport.
func (t *RPCTransport) PositionSink() motorengine.PositionSink { return rpcPositionSink{t} }

// Close closes the underlying RPC connection.
func (t *RPCTransport) Close() error { return t.client.Close() }

type rpcCommandSink struct{ t *RPCTransport }

func (s rpcCommandSink) Send(ctx context.Context, batch motorengine.CommandBatch) error {
	return s.t.sendCommands(batch)
}

type rpcTelemetrySink struct{ t *RPCTransport }

func (s rpcTelemetrySink) Send(ctx context.Context, frame motorengine.TelemetryFrame) error {
	return s.t.sendTelemetry(frame)
}

type rpcPositionSink struct{ t *RPCTransport }

func (s rpcPositionSink) Send(ctx context.Context, frame motorengine.PositionFrame) error {
	return s.t.sendPositions(frame)
}
