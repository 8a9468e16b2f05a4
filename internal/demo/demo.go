// Package demo simulates the UE handover decision lifecycle so the
// daemon, CLI, and web dashboard can be exercised end-to-end without a
// live TLE feed or a UE roster file. The simulated ticks cycle through a
// small built-in satellite roster with plausible elevation, RSRP, and
// range values so the event stream looks realistic.
package demo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/large-farva/ntn-handover-core/internal/ws"
)

// satellite is a built-in stand-in for a tracked propagator.State, used
// only to generate plausible demo telemetry.
type satellite struct {
	ID      string
	NoradID int
}

var roster = []satellite{
	{ID: "DEMO-SAT-1", NoradID: 44713},
	{ID: "DEMO-SAT-2", NoradID: 44714},
	{ID: "DEMO-SAT-3", NoradID: 44715},
	{ID: "DEMO-SAT-4", NoradID: 44716},
}

// Runner broadcasts simulated UE tick events on a configurable interval.
type Runner struct {
	Hub      *ws.Hub
	Interval time.Duration // time between simulated ticks

	ue      string
	serving int // index into roster of the current serving satellite
}

// New creates a demo runner with a sensible default tick interval.
func New(hub *ws.Hub) *Runner {
	return &Runner{
		Hub:      hub,
		Interval: 2 * time.Second,
		ue:       "demo-ue-1",
		serving:  0,
	}
}

// Run kicks off the demo loop. It fires one simulated tick immediately,
// then repeats on the configured interval until ctx is cancelled.
func (r *Runner) Run(ctx context.Context, setState func(string)) {
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": "demo mode active — simulating UE handover decisions, no TLE feed loaded",
	})
	setState("TRACKING")

	t := time.NewTicker(r.Interval)
	defer t.Stop()

	r.runTick(ctx)
	for {
		select {
		case <-ctx.Done():
			setState("IDLE")
			return
		case <-t.C:
			r.runTick(ctx)
		}
	}
}

// runTick simulates one UE decision tick: a plausible link-budget
// measurement for the serving and next-best candidate, an occasional
// fired measurement event, and an occasional handover.
func (r *Runner) runTick(ctx context.Context) {
	now := time.Now().UTC()
	servingSat := roster[r.serving]
	candidateIdx := (r.serving + 1) % len(roster)
	candidateSat := roster[candidateIdx]

	servingRSRP := -80 - rand.Float64()*40   // -80..-120 dBm
	servingRange := 600 + rand.Float64()*900 // km
	candidateRSRP := -80 - rand.Float64()*40
	candidateRange := 600 + rand.Float64()*900

	measID := fmt.Sprintf("%s:%d", r.ue, now.UnixNano())

	// Roughly one in six ticks fires a measurement event.
	fired := rand.IntN(6) == 0
	eventType := ""
	willChange := false
	if fired {
		eventType = []string{"A3", "A4", "A5", "D2"}[rand.IntN(4)]
		willChange = candidateRSRP > servingRSRP
		r.broadcast(map[string]any{
			"type":        "measurement_event",
			"ue":          r.ue,
			"candidateId": candidateSat.ID,
			"eventType":   eventType,
		})
	}

	decision := "retain"
	if fired && willChange {
		decision = "handover"
		r.serving = candidateIdx
		servingSat = candidateSat
	}

	r.broadcast(map[string]any{
		"type":                "prediction",
		"ue":                  r.ue,
		"measId":              measID,
		"servingSatelliteId":  servingSat.ID,
		"rsrpResult":          servingRSRP,
		"rsrqResult":          -10 - rand.Float64()*5,
		"distanceServingCell": servingRange,
		"distanceCandidate":   candidateRange,
		"decision":            decision,
		"willChange":          willChange,
		"confidenceScore":     0.85 + rand.Float64()*0.1,
		"lowConfidence":       false,
	})

	if decision == "handover" {
		r.broadcast(map[string]any{
			"type":    "log",
			"level":   "info",
			"message": fmt.Sprintf("%s handed over to %s (norad %d)", r.ue, servingSat.ID, servingSat.NoradID),
		})
	}
}

func (r *Runner) broadcast(v map[string]any) {
	v["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	v["component"] = "demo"
	r.Hub.BroadcastJSON(v)
}
