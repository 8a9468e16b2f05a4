// Package access scores candidate satellites for one UE using a
// multi-factor constrained model and selects the winning Access Plan,
// including its runner-up (spec.md §4.7).
package access

import (
	"math"
	"sort"
)

// ServiceClass governs which pre-score filters apply to a UE's
// candidates, notably the overload exemption for emergency traffic.
type ServiceClass string

const (
	ServiceClassEmergency  ServiceClass = "emergency"
	ServiceClassPremium    ServiceClass = "premium"
	ServiceClassStandard   ServiceClass = "standard"
	ServiceClassBestEffort ServiceClass = "best_effort"
	ServiceClassVoice      ServiceClass = "voice"
	ServiceClassData       ServiceClass = "data"
)

// DecisionType classifies why an Access Plan was produced.
type DecisionType string

const (
	DecisionInitial  DecisionType = "initial_access"
	DecisionHandover DecisionType = "handover"
	DecisionRetain   DecisionType = "retain"
)

// Weights holds the per-factor weights of the composite score. They are
// expected to sum to 1.0; DefaultWeights does.
type Weights struct {
	Signal   float64
	Capacity float64
	Perf     float64
	Cost     float64
	Compat   float64
	Balance  float64
}

// DefaultWeights are the spec's canonical weights (spec.md §4.7): 0.25
// signal, 0.20 capacity, 0.20 perf, 0.15 cost, 0.10 compat, 0.10 balance.
func DefaultWeights() Weights {
	return Weights{Signal: 0.25, Capacity: 0.20, Perf: 0.20, Cost: 0.15, Compat: 0.10, Balance: 0.10}
}

// Candidate is one satellite's eligibility inputs for one UE at one
// instant.
type Candidate struct {
	SatelliteID         string
	BeamID              string
	RSRPDBm             float64
	RSRQDB              float64
	ElevationDeg        float64
	RangeKM             float64
	PathLossDB          float64 // free-space + atmospheric loss, for f_signal's path-loss term
	DopplerHz           float64
	CapacityUtilization float64 // load, 0..1, fraction of beam capacity in use
	HistoricalLoad      float64 // 0..1, trailing load average for f_balance
	AvailableBW         float64 // Mbps currently unreserved on the beam
	RequiredBW          float64 // Mbps the UE's request needs; 0 means unconstrained
	LatencyMS           float64 // predicted one-way latency
	RequiredLatencyMS   float64 // requirement; 0 means unconstrained
	ThroughputMbps      float64 // predicted achievable throughput
	RequiredThroughputMbps float64
	ReliabilityScore    float64 // predicted 1 - packet-loss-rate, 0..1
	RequiredReliability float64 // 0..1; 0 means unconstrained
	JitterMS            float64 // predicted jitter, for voice-class f_compat
	RequiredJitterMS    float64 // jitter cap; 0 means unconstrained
	CostWeight          float64 // 0..1, lower is cheaper
	Compatible          bool
	IsOverloaded        bool
}

// Scored pairs a Candidate with its computed composite score and
// sub-scores.
type Scored struct {
	Candidate Candidate
	Score     float64
	SubScores SubScores
}

// SubScores exposes each normalized factor score before weighting, for
// diagnostics and the Prediction Record's explainability fields.
type SubScores struct {
	Signal   float64
	Capacity float64
	Perf     float64
	Cost     float64
	Compat   float64
	Balance  float64
}

// Plan is the outcome of one access selection: the winning candidate, its
// score, and the runner-up (if any) for fast fallback.
type Plan struct {
	Decision DecisionType
	Winner   Scored
	RunnerUp *Scored
}

// Select scores every eligible candidate and returns the winning Plan.
// Candidates failing the pre-score filter (incompatible, or overloaded
// without an emergency-class exemption) are excluded entirely. Select
// returns ok=false if no candidate survives filtering.
func Select(decision DecisionType, class ServiceClass, candidates []Candidate, w Weights) (Plan, bool) {
	eligible := filter(class, candidates)
	if len(eligible) == 0 {
		return Plan{}, false
	}

	scored := make([]Scored, len(eligible))
	for i, c := range eligible {
		scored[i] = score(c, w, class)
	}

	sort.Slice(scored, func(i, j int) bool {
		return greater(scored[i], scored[j])
	})

	plan := Plan{Decision: decision, Winner: scored[0]}
	if len(scored) > 1 {
		runnerUp := scored[1]
		plan.RunnerUp = &runnerUp
	}
	return plan, true
}

// filter drops candidates that are incompatible, or overloaded unless
// the UE's service class is emergency (spec.md §4.7's overload
// exemption).
func filter(class ServiceClass, candidates []Candidate) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if !c.Compatible {
			continue
		}
		if c.IsOverloaded && class != ServiceClassEmergency {
			continue
		}
		out = append(out, c)
	}
	return out
}

// greater reports whether a should rank ahead of b: higher composite
// score wins; ties break on higher elevation, then lower range (spec.md
// §4.7).
func greater(a, b Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Candidate.ElevationDeg != b.Candidate.ElevationDeg {
		return a.Candidate.ElevationDeg > b.Candidate.ElevationDeg
	}
	return a.Candidate.RangeKM < b.Candidate.RangeKM
}

func score(c Candidate, w Weights, class ServiceClass) Scored {
	sub := SubScores{
		Signal:   fSignal(c),
		Capacity: fCapacity(c),
		Perf:     fPerf(c),
		Cost:     fCost(c),
		Compat:   fCompat(c, class),
		Balance:  fBalance(c),
	}
	total := w.Signal*sub.Signal + w.Capacity*sub.Capacity + w.Perf*sub.Perf +
		w.Cost*sub.Cost + w.Compat*sub.Compat + w.Balance*sub.Balance
	return Scored{Candidate: c, Score: total, SubScores: sub}
}

// norm linearly maps v from [lo,hi] to [0,1], clamping outside the range.
func norm(v, lo, hi float64) float64 {
	return clamp01((v - lo) / (hi - lo))
}

// fSignal blends RSRP, elevation, and path-loss normalizations (spec.md
// §4.7), grounded in fast_access_decision.py's _evaluate_signal_quality
// (-120..-90 dBm RSRP norm, 10..90 degree elevation norm, path-loss norm
// with a 200 dB ceiling).
func fSignal(c Candidate) float64 {
	rsrpScore := norm(c.RSRPDBm, -120, -90)
	elevScore := norm(c.ElevationDeg, 10, 90)
	pathLossScore := norm(200-c.PathLossDB, 0, 50)
	return 0.4*rsrpScore + 0.3*elevScore + 0.3*pathLossScore
}

// fCapacity rewards headroom and penalizes a beam whose available
// bandwidth falls short of the UE's requirement (spec.md §4.7).
func fCapacity(c Candidate) float64 {
	score := clamp01(1 - c.CapacityUtilization)
	if c.RequiredBW > 0 && c.AvailableBW < c.RequiredBW {
		score *= clamp01(c.AvailableBW / c.RequiredBW)
	}
	return score
}

// decayToRequirement scores 1 when predicted is at least as good as the
// requirement, then decays linearly to 0 as predicted reaches twice the
// requirement's distance from ideal. A zero requirement means
// unconstrained and always scores 1.
func decayToRequirement(predicted, requirement float64, higherIsBetter bool) float64 {
	if requirement <= 0 {
		return 1
	}
	if higherIsBetter {
		if predicted >= requirement {
			return 1
		}
		return clamp01(predicted / requirement)
	}
	if predicted <= requirement {
		return 1
	}
	return clamp01(1 - (predicted-requirement)/requirement)
}

// fPerf averages independent latency/throughput/reliability decay terms
// against each candidate's predicted performance and the UE's
// requirements (spec.md §4.7).
func fPerf(c Candidate) float64 {
	latency := decayToRequirement(c.LatencyMS, c.RequiredLatencyMS, false)
	throughput := decayToRequirement(c.ThroughputMbps, c.RequiredThroughputMbps, true)
	reliability := decayToRequirement(c.ReliabilityScore, c.RequiredReliability, true)
	return (latency + throughput + reliability) / 3
}

// fCost rewards lower CostWeight (already normalized 0..1, lower=cheaper).
func fCost(c Candidate) float64 {
	return clamp01(1 - c.CostWeight)
}

// fCompat applies the service class's hard requirement on top of the
// pre-score compatibility filter (spec.md §4.7): emergency traffic
// overrides latency fit, voice traffic enforces a jitter cap, data
// traffic is scored down proportionally to any throughput shortfall.
func fCompat(c Candidate, class ServiceClass) float64 {
	if !c.Compatible {
		return 0
	}
	switch class {
	case ServiceClassEmergency:
		return 1
	case ServiceClassVoice:
		if c.RequiredJitterMS > 0 && c.JitterMS > c.RequiredJitterMS {
			return 0
		}
		return 1
	case ServiceClassData:
		if c.RequiredThroughputMbps > 0 && c.ThroughputMbps < c.RequiredThroughputMbps {
			return clamp01(c.ThroughputMbps / c.RequiredThroughputMbps)
		}
		return 1
	default:
		return 1
	}
}

// fBalance blends current load against the trailing historical load so a
// beam that is momentarily idle but chronically hot doesn't look better
// than it is (spec.md §4.7).
func fBalance(c Candidate) float64 {
	return clamp01(0.7*(1-c.CapacityUtilization) + 0.3*(1-c.HistoricalLoad))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
