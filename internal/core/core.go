// Package core composes the TLE, propagator, geometry, signal,
// visibility, event, access, predictor, accuracy, and orchestrator
// packages into one process-wide decision engine, the same ownership
// role the teacher's internal/app.App plays over its scheduler and
// capture pipeline.
package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/large-farva/ntn-handover-core/internal/access"
	"github.com/large-farva/ntn-handover-core/internal/accuracy"
	"github.com/large-farva/ntn-handover-core/internal/events"
	"github.com/large-farva/ntn-handover-core/internal/orchestrator"
	"github.com/large-farva/ntn-handover-core/internal/predictor"
	"github.com/large-farva/ntn-handover-core/internal/propagator"
	"github.com/large-farva/ntn-handover-core/internal/signal"
	"github.com/large-farva/ntn-handover-core/internal/snapshot"
	"github.com/large-farva/ntn-handover-core/internal/tle"
)

// TLESource is the §6 collaborator the Core pulls TLE refreshes from.
type TLESource = tle.Source

// AtmosphericLossProvider is the §6 collaborator the Core consults for
// link-budget attenuation.
type AtmosphericLossProvider = signal.AtmosphericLossProvider

// DecisionSink is the §6 collaborator that receives published Prediction
// and Event Records.
type DecisionSink = orchestrator.Sink

// Config bundles the Core's static, rarely-changed parameters.
type Config struct {
	ConstellationTag string
	LinkParams       signal.LinkParameters
	EventConfig      events.Config
	Weights          access.Weights
	TickInterval     time.Duration
	PredictionDelta  time.Duration
	MinElevationDeg  float64
}

// Core owns the process-wide tracked-satellite state and runs one
// orchestrator.Runner per registered UE.
type Core struct {
	cfg  Config
	loss AtmosphericLossProvider

	store atomic.Pointer[propagator.Store]

	mu       sync.RWMutex
	ues      map[string]UE
	runners  map[string]*orchestrator.Runner
	eventTrk map[string]*events.Tracker
	accTrk   map[string]*accuracy.Tracker
	builder  snapshot.Builder
}

// NewCore builds a Core from static configuration. ReloadTLE must be
// called at least once before any UE is registered.
func NewCore(cfg Config, builder snapshot.Builder, loss AtmosphericLossProvider) *Core {
	if loss == nil {
		loss = signal.ZeroLossProvider{}
	}
	return &Core{
		cfg:      cfg,
		loss:     loss,
		builder:  builder,
		ues:      make(map[string]UE),
		runners:  make(map[string]*orchestrator.Runner),
		eventTrk: make(map[string]*events.Tracker),
		accTrk:   make(map[string]*accuracy.Tracker),
	}
}

// ReloadTLE atomically swaps the tracked-satellite propagator store for
// a freshly parsed batch, so in-flight ticks never observe a half-updated
// catalog (spec.md §5's copy-on-write discipline).
func (c *Core) ReloadTLE(batch tle.Batch) {
	c.store.Store(propagator.NewStore(batch))
}

// TrackedSatellites returns every currently tracked propagator.State.
func (c *Core) TrackedSatellites() []*propagator.State {
	store := c.store.Load()
	if store == nil {
		return nil
	}
	return store.All()
}

// RegisterUE builds (but does not start) an orchestrator.Runner for ue, wiring its
// TickFunc to this Core's snapshot/event/access/predictor pipeline. The
// caller owns running r.Run(ctx) and stopping it via r.Shutdown().
func (c *Core) RegisterUE(ue UE, sink DecisionSink) *orchestrator.Runner {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ues[ue.ID] = ue
	c.eventTrk[ue.ID] = events.NewTracker(c.cfg.EventConfig)
	c.accTrk[ue.ID] = accuracy.NewTracker()

	runner := orchestrator.NewRunner(ue.ID, c.cfg.TickInterval, c.tickFor(ue.ID), sink)
	c.runners[ue.ID] = runner
	return runner
}

// Runner returns the orchestrator.Runner for a registered UE, if any.
func (c *Core) Runner(ueID string) (*orchestrator.Runner, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.runners[ueID]
	return r, ok
}

// AccuracyTracker returns the accuracy.Tracker for a registered UE, if any.
func (c *Core) AccuracyTracker(ueID string) (*accuracy.Tracker, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.accTrk[ueID]
	return t, ok
}

// setServing updates the UE roster's recorded serving satellite after a
// handover completes.
func (c *Core) setServing(ueID, satelliteID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ue := c.ues[ueID]
	ue.ServingSatelliteID = satelliteID
	c.ues[ueID] = ue
}

func (c *Core) ue(ueID string) (UE, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ue, ok := c.ues[ueID]
	return ue, ok
}

func (c *Core) eventTracker(ueID string) *events.Tracker {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.eventTrk[ueID]
}

func (c *Core) accuracyTracker(ueID string) *accuracy.Tracker {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accTrk[ueID]
}

// requireStore reports an error if no TLE batch has been loaded yet,
// rather than letting downstream ticks silently see zero candidates.
func (c *Core) requireStore() (*propagator.Store, error) {
	store := c.store.Load()
	if store == nil || store.Len() == 0 {
		return nil, fmt.Errorf("core: no TLE data loaded")
	}
	return store, nil
}

// evaluatorFor builds a predictor.Evaluator that re-runs access selection
// at an arbitrary instant, used by TwoPointPredict to probe the serving
// decision at the prediction horizon and by BinarySearchRefine to
// localize the crossing instant.
func (c *Core) evaluatorFor(ue UE) predictor.Evaluator {
	return func(ctx context.Context, t time.Time) (predictor.Observation, error) {
		store, err := c.requireStore()
		if err != nil {
			return predictor.Observation{}, err
		}
		candidates, _, err := c.buildCandidates(ctx, store, ue, t)
		if err != nil {
			return predictor.Observation{}, err
		}
		if len(candidates) == 0 {
			return predictor.Observation{}, fmt.Errorf("core: no candidates visible at %s", t)
		}
		plan, ok := access.Select(access.DecisionRetain, ue.ServiceClass, candidates, c.cfg.Weights)
		if !ok {
			return predictor.Observation{}, fmt.Errorf("core: no eligible candidate at %s", t)
		}
		winner := plan.Winner.Candidate
		return predictor.Observation{
			CandidateID:  winner.SatelliteID,
			ElevationDeg: winner.ElevationDeg,
			RSRPDBm:      winner.RSRPDBm,
			RangeKM:      winner.RangeKM,
		}, nil
	}
}
