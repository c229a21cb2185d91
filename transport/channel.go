// Package transport provides the engine-side wire adapters for §4.13: a
// net/rpc client dialing the external simulator process, and an
// in-process channel bridge used by tests and the --testmotors dry run.
// Grounded on cloudlus/server.go's dispatcher loop: requests and
// responses cross goroutine boundaries over plain channels rather than
// a mutex-guarded shared structure.
package transport

import (
	"context"

	"github.com/motorengine/motorengine"
)

// ChannelBridge is an in-process FrameSource/CommandSink/TelemetrySink/
// PositionSink implementation. A test or the --testmotors harness feeds
// frames in via Push and drains the resulting commands/telemetry/
// positions from the exported channels.
type ChannelBridge struct {
	frames      chan []motorengine.RankFrame
	terminate   chan struct{}
	commands    chan motorengine.CommandBatch
	telemetry   chan motorengine.TelemetryFrame
	positions   chan motorengine.PositionFrame
}

// NewChannelBridge constructs a bridge with the given channel depth.
func NewChannelBridge(depth int) *ChannelBridge {
	return &ChannelBridge{
		frames:    make(chan []motorengine.RankFrame, depth),
		terminate: make(chan struct{}),
		commands:  make(chan motorengine.CommandBatch, depth),
		telemetry: make(chan motorengine.TelemetryFrame, depth),
		positions: make(chan motorengine.PositionFrame, depth),
	}
}

// Push delivers one cycle's rank frame chunks to the engine side.
func (b *ChannelBridge) Push(chunks []motorengine.RankFrame) {
	b.frames <- chunks
}

// Terminate signals a clean shutdown to the engine's Recv loop (§5, §6).
func (b *ChannelBridge) Terminate() {
	close(b.terminate)
}

// Commands drains the engine's outbound command batches.
func (b *ChannelBridge) Commands() <-chan motorengine.CommandBatch { return b.commands }

// Telemetry drains the engine's committed telemetry frames.
func (b *ChannelBridge) Telemetry() <-chan motorengine.TelemetryFrame { return b.telemetry }

// Positions drains the engine's outbound position frames.
func (b *ChannelBridge) Positions() <-chan motorengine.PositionFrame { return b.positions }

// Recv implements motorengine.FrameSource.
func (b *ChannelBridge) Recv(ctx context.Context) ([]motorengine.RankFrame, error) {
	select {
	case chunks := <-b.frames:
		return chunks, nil
	case <-b.terminate:
		return nil, motorengine.ErrTerminate
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CommandSink returns the motorengine.CommandSink view of this bridge.
func (b *ChannelBridge) CommandSink() motorengine.CommandSink { return channelCommandSink{b} }

// TelemetrySink returns the motorengine.TelemetrySink view of this bridge.
func (b *ChannelBridge) TelemetrySink() motorengine.TelemetrySink { return channelTelemetrySink{b} }

// PositionSink returns the motorengine.PositionSink view of this bridge.
func (b *ChannelBridge) PositionSink() motorengine.PositionSink { return channelPositionSink{b} }

type channelCommandSink struct{ b *ChannelBridge }

func (s channelCommandSink) Send(ctx context.Context, batch motorengine.CommandBatch) error {
	select {
	case s.b.commands <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type channelTelemetrySink struct{ b *ChannelBridge }

func (s channelTelemetrySink) Send(ctx context.Context, frame motorengine.TelemetryFrame) error {
	select {
	case s.b.telemetry <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type channelPositionSink struct{ b *ChannelBridge }

func (s channelPositionSink) Send(ctx context.Context, frame motorengine.PositionFrame) error {
	select {
	case s.b.positions <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
