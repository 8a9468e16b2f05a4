package access

import (
	"math"
	"testing"
)

func baseCandidate(id string, rsrp float64) Candidate {
	return Candidate{
		SatelliteID:         id,
		RSRPDBm:             rsrp,
		ElevationDeg:        40,
		RangeKM:             1000,
		CapacityUtilization: 0.3,
		LatencyMS:           30,
		CostWeight:          0.2,
		Compatible:          true,
	}
}

func TestSelectPicksHighestScoringCandidate(t *testing.T) {
	candidates := []Candidate{
		baseCandidate("sat-weak", -120),
		baseCandidate("sat-strong", -70),
	}
	plan, ok := Select(DecisionInitial, ServiceClassStandard, candidates, DefaultWeights())
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.Winner.Candidate.SatelliteID != "sat-strong" {
		t.Errorf("winner = %s, want sat-strong", plan.Winner.Candidate.SatelliteID)
	}
	if plan.RunnerUp == nil || plan.RunnerUp.Candidate.SatelliteID != "sat-weak" {
		t.Error("expected sat-weak as runner-up")
	}
}

func TestSelectExcludesIncompatibleCandidates(t *testing.T) {
	strong := baseCandidate("sat-strong", -70)
	strong.Compatible = false
	candidates := []Candidate{strong, baseCandidate("sat-weak", -120)}

	plan, ok := Select(DecisionInitial, ServiceClassStandard, candidates, DefaultWeights())
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.Winner.Candidate.SatelliteID != "sat-weak" {
		t.Errorf("expected incompatible candidate excluded, winner = %s", plan.Winner.Candidate.SatelliteID)
	}
}

func TestSelectExcludesOverloadedUnlessEmergency(t *testing.T) {
	overloaded := baseCandidate("sat-strong", -70)
	overloaded.IsOverloaded = true
	candidates := []Candidate{overloaded, baseCandidate("sat-weak", -120)}

	plan, ok := Select(DecisionInitial, ServiceClassStandard, candidates, DefaultWeights())
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.Winner.Candidate.SatelliteID != "sat-weak" {
		t.Errorf("expected overloaded candidate excluded for standard class, winner = %s", plan.Winner.Candidate.SatelliteID)
	}

	plan, ok = Select(DecisionInitial, ServiceClassEmergency, candidates, DefaultWeights())
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.Winner.Candidate.SatelliteID != "sat-strong" {
		t.Errorf("expected overload exemption for emergency class, winner = %s", plan.Winner.Candidate.SatelliteID)
	}
}

func TestSelectReturnsFalseWhenNoneEligible(t *testing.T) {
	c := baseCandidate("sat-1", -70)
	c.Compatible = false
	_, ok := Select(DecisionInitial, ServiceClassStandard, []Candidate{c}, DefaultWeights())
	if ok {
		t.Fatal("expected no plan when no candidates are eligible")
	}
}

func TestTieBreakPrefersHigherElevationThenLowerRange(t *testing.T) {
	a := baseCandidate("sat-a", -90)
	a.ElevationDeg = 60
	a.RangeKM = 900
	b := baseCandidate("sat-b", -90)
	b.ElevationDeg = 60
	b.RangeKM = 500

	plan, ok := Select(DecisionInitial, ServiceClassStandard, []Candidate{a, b}, DefaultWeights())
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.Winner.Candidate.SatelliteID != "sat-b" {
		t.Errorf("expected lower-range tie-break winner sat-b, got %s", plan.Winner.Candidate.SatelliteID)
	}
}

func TestSelectorOrderingLoadBalancingDominatesEqualSignalTie(t *testing.T) {
	// spec.md §8 scenario S5: equal RSRP, but the lower-elevation/
	// lower-load candidate should still win because the load-balancing
	// term (capacity + balance sub-scores) outweighs the elevation gap.
	highElevHeavyLoad := Candidate{
		SatelliteID:         "sat-a",
		RSRPDBm:             -85,
		ElevationDeg:        60,
		CapacityUtilization: 0.80,
		Compatible:          true,
	}
	lowElevLightLoad := Candidate{
		SatelliteID:         "sat-b",
		RSRPDBm:             -85,
		ElevationDeg:        30,
		CapacityUtilization: 0.20,
		Compatible:          true,
	}

	plan, ok := Select(DecisionInitial, ServiceClassStandard, []Candidate{highElevHeavyLoad, lowElevLightLoad}, DefaultWeights())
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.Winner.Candidate.SatelliteID != "sat-b" {
		t.Errorf("winner = %s, want sat-b (lighter load)", plan.Winner.Candidate.SatelliteID)
	}
}

func TestFSignalBlendsRSRPElevationAndPathLoss(t *testing.T) {
	weakSignal := Candidate{RSRPDBm: -130, ElevationDeg: 80, PathLossDB: 10}
	strongSignal := Candidate{RSRPDBm: -95, ElevationDeg: 80, PathLossDB: 10}
	if fSignal(strongSignal) <= fSignal(weakSignal) {
		t.Errorf("expected stronger RSRP to score higher: weak=%v strong=%v", fSignal(weakSignal), fSignal(strongSignal))
	}

	lowElev := Candidate{RSRPDBm: -95, ElevationDeg: 15, PathLossDB: 10}
	highElev := Candidate{RSRPDBm: -95, ElevationDeg: 85, PathLossDB: 10}
	if fSignal(highElev) <= fSignal(lowElev) {
		t.Errorf("expected higher elevation to score higher: low=%v high=%v", fSignal(lowElev), fSignal(highElev))
	}
}

func TestFCapacityPenalizesInsufficientAvailableBandwidth(t *testing.T) {
	short := Candidate{CapacityUtilization: 0.1, AvailableBW: 5, RequiredBW: 20}
	sufficient := Candidate{CapacityUtilization: 0.1, AvailableBW: 25, RequiredBW: 20}
	if fCapacity(short) >= fCapacity(sufficient) {
		t.Errorf("expected bandwidth shortfall to be penalized: short=%v sufficient=%v", fCapacity(short), fCapacity(sufficient))
	}
}

func TestFCompatEmergencyOverridesLatency(t *testing.T) {
	c := Candidate{Compatible: true, LatencyMS: 900, RequiredLatencyMS: 100}
	if got := fCompat(c, ServiceClassEmergency); got != 1 {
		t.Errorf("fCompat(emergency) = %v, want 1 (latency override)", got)
	}
}

func TestFCompatVoiceEnforcesJitterCap(t *testing.T) {
	withinCap := Candidate{Compatible: true, JitterMS: 10, RequiredJitterMS: 20}
	overCap := Candidate{Compatible: true, JitterMS: 30, RequiredJitterMS: 20}
	if got := fCompat(withinCap, ServiceClassVoice); got != 1 {
		t.Errorf("fCompat(voice, within cap) = %v, want 1", got)
	}
	if got := fCompat(overCap, ServiceClassVoice); got != 0 {
		t.Errorf("fCompat(voice, over cap) = %v, want 0", got)
	}
}

func TestFCompatDataPrioritizesThroughput(t *testing.T) {
	short := Candidate{Compatible: true, ThroughputMbps: 10, RequiredThroughputMbps: 20}
	if got := fCompat(short, ServiceClassData); got != 0.5 {
		t.Errorf("fCompat(data, shortfall) = %v, want 0.5", got)
	}
}

func TestFBalanceWeightsCurrentAndHistoricalLoad(t *testing.T) {
	c := Candidate{CapacityUtilization: 0.2, HistoricalLoad: 0.8}
	want := 0.7*(1-0.2) + 0.3*(1-0.8)
	if got := fBalance(c); math.Abs(got-want) > 1e-9 {
		t.Errorf("fBalance = %v, want %v", got, want)
	}
}

func TestBalanceScorePenalizesNearSaturation(t *testing.T) {
	light := baseCandidate("sat-light", -90)
	light.CapacityUtilization = 0.1
	heavy := baseCandidate("sat-heavy", -90)
	heavy.CapacityUtilization = 0.95

	if fBalance(heavy) >= fBalance(light) {
		t.Errorf("expected near-saturated beam to score lower on balance: heavy=%v light=%v", fBalance(heavy), fBalance(light))
	}
}
