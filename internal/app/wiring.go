package app

import (
	"time"

	"github.com/large-farva/ntn-handover-core/internal/access"
	"github.com/large-farva/ntn-handover-core/internal/config"
	"github.com/large-farva/ntn-handover-core/internal/core"
	"github.com/large-farva/ntn-handover-core/internal/events"
)

func durationMS(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

// eventConfigFrom translates the TOML event thresholds into the
// millisecond-typed events.Config the tracker state machine expects.
func eventConfigFrom(cfg config.Config) events.Config {
	d := events.DefaultConfig()
	e := cfg.Events
	d.HysteresisDB = e.HysteresisDB
	d.TimeToTrigger = durationMS(e.TimeToTriggerMS)
	d.A3OffsetDB = e.A3OffsetDB
	d.A4ThresholdDBm = e.A4ThresholdDBm
	d.A5Threshold1 = e.A5Threshold1
	d.A5Threshold2 = e.A5Threshold2
	d.D2Threshold1KM = e.D2Threshold1KM
	d.D2Threshold2KM = e.D2Threshold2KM
	d.HysteresisKM = e.HysteresisKM
	return d
}

func accessWeightsFrom(cfg config.Config) access.Weights {
	a := cfg.Access
	return access.Weights{
		Signal:   a.WeightSignal,
		Capacity: a.WeightCapacity,
		Perf:     a.WeightPerf,
		Cost:     a.WeightCost,
		Compat:   a.WeightCompat,
		Balance:  a.WeightBalance,
	}
}

// loadUEsOrDefault reads the UE roster file if a path was given, falling
// back to a single standard-class UE so the live core always has
// something to register.
func loadUEsOrDefault(path string) ([]core.UE, error) {
	if path == "" {
		return []core.UE{{ID: "ue-1", ServiceClass: access.ServiceClassStandard}}, nil
	}
	return core.LoadUEs(path)
}
