package predictor

import (
	"context"
	"errors"
	"testing"
	"time"
)

// switchAt returns an Evaluator that reports "from" before switchTime and
// "to" at or after it, both with a fixed elevation/RSRP/range so tests
// that don't care about the confidence bonuses get a stable baseline.
func switchAt(switchTime time.Time, from, to string) Evaluator {
	return func(_ context.Context, t time.Time) (Observation, error) {
		if t.Before(switchTime) {
			return Observation{CandidateID: from, ElevationDeg: 45, RSRPDBm: -90, RangeKM: 1000}, nil
		}
		return Observation{CandidateID: to, ElevationDeg: 45, RSRPDBm: -90, RangeKM: 1000}, nil
	}
}

func fixedObservation(candidateID string, elevationDeg, rsrpDBm, rangeKM float64) Evaluator {
	return func(_ context.Context, _ time.Time) (Observation, error) {
		return Observation{CandidateID: candidateID, ElevationDeg: elevationDeg, RSRPDBm: rsrpDBm, RangeKM: rangeKM}, nil
	}
}

func TestTwoPointPredictDetectsNoChange(t *testing.T) {
	eval := fixedObservation("sat-1", 45, -90, 1000)
	now := time.Now()
	pred, err := TwoPointPredict(context.Background(), eval, now, 10*time.Second)
	if err != nil {
		t.Fatalf("TwoPointPredict: %v", err)
	}
	if pred.WillChange {
		t.Error("expected no change predicted")
	}
	if pred.Refinement != nil {
		t.Error("expected no refinement when no change predicted")
	}
}

func TestTwoPointPredictDetectsChangeAndRefines(t *testing.T) {
	now := time.Now()
	switchTime := now.Add(6 * time.Second)
	eval := switchAt(switchTime, "sat-1", "sat-2")

	pred, err := TwoPointPredict(context.Background(), eval, now, 10*time.Second)
	if err != nil {
		t.Fatalf("TwoPointPredict: %v", err)
	}
	if !pred.WillChange {
		t.Fatal("expected change predicted")
	}
	if pred.Refinement == nil {
		t.Fatal("expected refinement to run")
	}
	diff := pred.Refinement.CrossingAt.Sub(switchTime)
	if diff < -RefinementEpsilon || diff > RefinementEpsilon {
		t.Errorf("crossing estimate off by %v, want within %v", diff, RefinementEpsilon)
	}
}

func TestConfidenceCappedAtMax(t *testing.T) {
	eval := fixedObservation("sat-1", 45, -90, 1000)
	pred, err := TwoPointPredict(context.Background(), eval, time.Now(), 10*time.Second)
	if err != nil {
		t.Fatalf("TwoPointPredict: %v", err)
	}
	if pred.ConfidenceScore > maxConfidence {
		t.Errorf("confidence = %v, want <= %v", pred.ConfidenceScore, maxConfidence)
	}
}

func TestConfidenceBaselineWithNoBonuses(t *testing.T) {
	now := time.Now()
	n := 0
	eval := func(_ context.Context, t time.Time) (Observation, error) {
		n++
		if n == 1 {
			// low elevation, far RSRP, far range: no bonus qualifies
			return Observation{CandidateID: "sat-1", ElevationDeg: 10, RSRPDBm: -130, RangeKM: 500}, nil
		}
		return Observation{CandidateID: "sat-1", ElevationDeg: 10, RSRPDBm: -80, RangeKM: 2000}, nil
	}
	pred, err := TwoPointPredict(context.Background(), eval, now, 10*time.Second)
	if err != nil {
		t.Fatalf("TwoPointPredict: %v", err)
	}
	if pred.ConfidenceScore != baseConfidence {
		t.Errorf("confidence = %v, want exactly baseline %v", pred.ConfidenceScore, baseConfidence)
	}
}

func TestConfidenceHighElevationBonusIsBinaryNotScaled(t *testing.T) {
	now := time.Now()
	n := 0
	eval := func(_ context.Context, _ time.Time) (Observation, error) {
		n++
		// Both above 30 deg but otherwise far apart on RSRP/range so only
		// the elevation bonus applies.
		if n == 1 {
			return Observation{CandidateID: "sat-1", ElevationDeg: 31, RSRPDBm: -130, RangeKM: 500}, nil
		}
		return Observation{CandidateID: "sat-1", ElevationDeg: 89, RSRPDBm: -80, RangeKM: 5000}, nil
	}
	pred, err := TwoPointPredict(context.Background(), eval, now, 10*time.Second)
	if err != nil {
		t.Fatalf("TwoPointPredict: %v", err)
	}
	want := baseConfidence + highElevationBonus
	if pred.ConfidenceScore != want {
		t.Errorf("confidence = %v, want %v (binary +0.10 elevation bonus only)", pred.ConfidenceScore, want)
	}
}

func TestConfidenceCloseRSRPBonus(t *testing.T) {
	eval := fixedObservation("sat-1", 10, -92, 1000) // elevation low, RSRP identical, range identical
	pred, err := TwoPointPredict(context.Background(), eval, time.Now(), 10*time.Second)
	if err != nil {
		t.Fatalf("TwoPointPredict: %v", err)
	}
	want := baseConfidence + closeRSRPBonus + closeRangeBonus
	if pred.ConfidenceScore != want {
		t.Errorf("confidence = %v, want %v (+0.05 RSRP, +0.03 range)", pred.ConfidenceScore, want)
	}
}

func TestConfidenceAllThreeBonusesStack(t *testing.T) {
	eval := fixedObservation("sat-1", 45, -90, 1000)
	pred, err := TwoPointPredict(context.Background(), eval, time.Now(), 10*time.Second)
	if err != nil {
		t.Fatalf("TwoPointPredict: %v", err)
	}
	// 0.85 + 0.10 + 0.05 + 0.03 = 1.03, which the cap brings down to 0.99.
	want := maxConfidence
	if pred.ConfidenceScore != want {
		t.Errorf("confidence = %v, want %v (all three bonuses, capped)", pred.ConfidenceScore, want)
	}
}

func TestBinarySearchRefineLowConfidenceOnEvaluatorError(t *testing.T) {
	now := time.Now()
	hi := now.Add(10 * time.Second)
	eval := func(_ context.Context, _ time.Time) (Observation, error) {
		return Observation{}, errors.New("boom")
	}
	refinement, err := BinarySearchRefine(context.Background(), eval, now, hi, "sat-1")
	if err != nil {
		t.Fatalf("BinarySearchRefine: %v", err)
	}
	if !refinement.LowConfidence {
		t.Error("expected LowConfidence when evaluator errors")
	}
}

func TestBinarySearchRefineRespectsMaxIterations(t *testing.T) {
	now := time.Now()
	hi := now.Add(10 * time.Hour) // large span forces many iterations before epsilon convergence
	eval := switchAt(now.Add(5*time.Hour), "sat-1", "sat-2")
	refinement, err := BinarySearchRefine(context.Background(), eval, now, hi, "sat-1")
	if err != nil {
		t.Fatalf("BinarySearchRefine: %v", err)
	}
	if refinement.Iterations > MaxIterations {
		t.Errorf("Iterations = %d, want <= %d", refinement.Iterations, MaxIterations)
	}
}
