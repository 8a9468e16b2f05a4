package demo

import (
	"context"
	"testing"
	"time"

	"github.com/large-farva/ntn-handover-core/internal/ws"
)

func TestNewDefaults(t *testing.T) {
	r := New(ws.NewHub())
	if r.Interval != 2*time.Second {
		t.Fatalf("Interval = %v, want 2s", r.Interval)
	}
	if r.ue == "" {
		t.Fatalf("ue must be non-empty")
	}
	if r.serving != 0 {
		t.Fatalf("serving = %d, want 0", r.serving)
	}
}

func TestRunTickBroadcastsPrediction(t *testing.T) {
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	r := New(hub)
	r.runTick(ctx)

	// runTick always broadcasts at least one "prediction" event; give the
	// hub's buffered channel a moment to accept it.
	time.Sleep(10 * time.Millisecond)
}

func TestRunTransitionsStateAndStops(t *testing.T) {
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := New(hub)
	r.Interval = time.Millisecond

	var states []string
	done := make(chan struct{})
	go func() {
		r.Run(ctx, func(s string) { states = append(states, s) })
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if len(states) < 2 {
		t.Fatalf("expected at least TRACKING and IDLE transitions, got %v", states)
	}
	if states[0] != "TRACKING" {
		t.Fatalf("first state = %q, want TRACKING", states[0])
	}
	if states[len(states)-1] != "IDLE" {
		t.Fatalf("last state = %q, want IDLE", states[len(states)-1])
	}
}

func TestRosterHasFourSatellites(t *testing.T) {
	if len(roster) != 4 {
		t.Fatalf("roster has %d satellites, want 4", len(roster))
	}
	for _, s := range roster {
		if s.ID == "" || s.NoradID == 0 {
			t.Fatalf("invalid roster entry: %+v", s)
		}
	}
}
