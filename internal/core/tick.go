package core

import (
	"context"
	"fmt"
	"time"

	"github.com/large-farva/ntn-handover-core/internal/access"
	"github.com/large-farva/ntn-handover-core/internal/events"
	"github.com/large-farva/ntn-handover-core/internal/orchestrator"
	"github.com/large-farva/ntn-handover-core/internal/predictor"
	"github.com/large-farva/ntn-handover-core/internal/propagator"
	"github.com/large-farva/ntn-handover-core/internal/snapshot"
)

// PredictionRecord is the per-tick decision output published to a
// DecisionSink, carrying the 3GPP measurement IE names the spec names
// explicitly (measId, rsrpResult, rsrqResult, distanceServingCell,
// distanceCandidate) alongside the access and prediction outcome.
type PredictionRecord struct {
	UE                  string
	At                  time.Time
	ServingSatelliteID  string
	MeasID              string
	RSRPResult          float64
	RSRQResult          float64
	DistanceServingCell float64
	DistanceCandidate   float64
	Plan                access.Plan
	Prediction          predictor.Prediction
	FiredEvents         []events.Record
}

// EventRecord is published whenever a measurement event fires during a
// tick.
type EventRecord struct {
	UE    string
	Event events.Record
}

// tickFor returns the TickFunc that drives one UE's orchestrator.Runner,
// closing over the UE's identity so Core.RegisterUE can hand it straight
// to orchestrator.NewRunner.
func (c *Core) tickFor(ueID string) orchestrator.TickFunc {
	return func(ctx context.Context, now time.Time) (any, error) {
		ue, ok := c.ue(ueID)
		if !ok {
			return nil, fmt.Errorf("core: unknown ue %s", ueID)
		}

		store, err := c.requireStore()
		if err != nil {
			return nil, err
		}

		candidates, servingPoint, err := c.buildCandidates(ctx, store, ue, now)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, nil
		}

		evTracker := c.eventTracker(ueID)
		var fired []events.Record
		for _, cand := range candidates {
			if cand.SatelliteID == ue.ServingSatelliteID {
				continue
			}
			m := events.Measurement{
				Time:                now,
				ServingRSRPDBm:      servingPoint.Link.RSRPDBm,
				ServingRSRQDB:       servingPoint.Link.RSRQDB,
				CandidateRSRPDBm:    cand.RSRPDBm,
				CandidateRSRQDB:     cand.RSRQDB,
				DistanceServingKM:   servingPoint.Look.RangeKM,
				DistanceCandidateKM: cand.RangeKM,
				Available:           true,
			}
			fired = append(fired, evTracker.Evaluate(ueID, cand.SatelliteID, m)...)
		}

		plan, ok := access.Select(decisionType(ue, fired), ue.ServiceClass, candidates, c.cfg.Weights)
		if !ok {
			return nil, fmt.Errorf("core: no eligible access candidate for ue %s", ueID)
		}

		eval := c.evaluatorFor(ue)
		prediction, err := predictor.TwoPointPredict(ctx, eval, now, c.cfg.PredictionDelta)
		if err != nil {
			return nil, fmt.Errorf("core: predict ue %s: %w", ueID, err)
		}

		accTrk := c.accuracyTracker(ueID)
		accTrk.Record(ue.ServingSatelliteID, plan.Winner.Candidate.SatelliteID, now)

		if plan.Winner.Candidate.SatelliteID != ue.ServingSatelliteID {
			c.setServing(ueID, plan.Winner.Candidate.SatelliteID)
		}

		measID := fmt.Sprintf("%s:%d", ueID, now.UnixNano())
		record := PredictionRecord{
			UE:                  ueID,
			At:                  now,
			ServingSatelliteID:  plan.Winner.Candidate.SatelliteID,
			MeasID:              measID,
			RSRPResult:          plan.Winner.Candidate.RSRPDBm,
			RSRQResult:          plan.Winner.Candidate.RSRQDB,
			DistanceServingCell: servingPoint.Look.RangeKM,
			DistanceCandidate:   plan.Winner.Candidate.RangeKM,
			Plan:                plan,
			Prediction:          prediction,
			FiredEvents:         fired,
		}

		return record, nil
	}
}

// buildCandidates samples every tracked satellite above the configured
// minimum elevation at instant t and converts each into an
// access.Candidate, also returning the serving satellite's own snapshot
// point (used as the measurement baseline even if it has since dropped
// below the elevation floor).
func (c *Core) buildCandidates(ctx context.Context, store *propagator.Store, ue UE, t time.Time) ([]access.Candidate, snapshot.Point, error) {
	var candidates []access.Candidate
	var servingPoint snapshot.Point

	for _, st := range store.All() {
		point, err := c.builder.Sample(ctx, st, t)
		if err != nil {
			continue
		}

		if st.SatelliteID == ue.ServingSatelliteID {
			servingPoint = point
		}

		if point.Look.ElevationDeg < c.cfg.MinElevationDeg {
			continue
		}

		doppler, _ := c.builder.DopplerHz(st, t)
		candidates = append(candidates, access.Candidate{
			SatelliteID:         st.SatelliteID,
			RSRPDBm:             point.Link.RSRPDBm,
			RSRQDB:              point.Link.RSRQDB,
			ElevationDeg:        point.Look.ElevationDeg,
			RangeKM:             point.Look.RangeKM,
			PathLossDB:          point.Link.PathLossDB + point.Link.AtmosphericDB,
			DopplerHz:           doppler,
			CapacityUtilization: 0, // no capacity feed wired in this deployment; treated as idle
			LatencyMS:           bentPipeLatencyMS(point.Look.RangeKM),
			CostWeight:          0,
			Compatible:          true,
		})
	}

	return candidates, servingPoint, nil
}

func decisionType(ue UE, fired []events.Record) access.DecisionType {
	if ue.ServingSatelliteID == "" {
		return access.DecisionInitial
	}
	if len(fired) > 0 {
		return access.DecisionHandover
	}
	return access.DecisionRetain
}

// bentPipeLatencyMS approximates one-way bent-pipe latency from slant
// range, used only as the fPerf input when no ground-segment latency
// feed is configured.
func bentPipeLatencyMS(rangeKM float64) float64 {
	const speedOfLightKMPerMS = 299.792458
	return 2 * rangeKM / speedOfLightKMPerMS // up + down leg
}
