package transport

import (
	"context"
	"testing"

	"github.com/motorengine/motorengine"
)

func TestChannelBridgeRoundTrip(t *testing.T) {
	b := NewChannelBridge(1)
	chunks := []motorengine.RankFrame{{SimIt: 1, IDs: []uint32{1}, Positions: []float64{0, 0, 0}}}
	b.Push(chunks)

	got, err := b.Recv(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].SimIt != 1 {
		t.Fatalf("unexpected frames: %+v", got)
	}

	sink := b.CommandSink()
	batch := motorengine.CommandBatch{SimIt: 1}
	if err := sink.Send(context.Background(), batch); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	select {
	case out := <-b.Commands():
		if out.SimIt != 1 {
			t.Errorf("unexpected batch: %+v", out)
		}
	default:
		t.Fatal("expected a queued command batch")
	}
}

func TestChannelBridgeTerminate(t *testing.T) {
	b := NewChannelBridge(1)
	b.Terminate()
	_, err := b.Recv(context.Background())
	if err != motorengine.ErrTerminate {
		t.Fatalf("expected ErrTerminate, got %v", err)
	}
}
