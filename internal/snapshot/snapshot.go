// Package snapshot ties the propagation, geometry, and signal layers
// together into per-tick Sample Points and per-satellite Time-Series,
// mirroring the teacher's ComputePasses role but generalized to the 3GPP
// measurement and access-selection pipeline (spec.md §3, §4.1-§4.5).
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/large-farva/ntn-handover-core/internal/geometry"
	"github.com/large-farva/ntn-handover-core/internal/propagator"
	"github.com/large-farva/ntn-handover-core/internal/signal"
)

// Point is one instant's fused geometry + link estimate for a single
// satellite, as seen by one Observer.
type Point struct {
	SatelliteID string
	Time        time.Time
	Look        geometry.LookAngle
	Link        signal.Estimate
}

// Series is an ordered sequence of Points for one satellite, sampled at a
// fixed tick interval over some horizon.
type Series []Point

// Builder composes a propagator.State with a geometry.Observer and a
// signal model to produce Points on demand. One Builder serves every
// tracked satellite; the satellite's State is passed to each call.
type Builder struct {
	Observer  geometry.Observer
	LinkParam signal.LinkParameters
	Loss      signal.AtmosphericLossProvider
}

// NewBuilder constructs a Builder, defaulting to a zero-attenuation
// AtmosphericLossProvider when none is supplied.
func NewBuilder(obs geometry.Observer, params signal.LinkParameters, loss signal.AtmosphericLossProvider) Builder {
	if loss == nil {
		loss = signal.ZeroLossProvider{}
	}
	return Builder{Observer: obs, LinkParam: params, Loss: loss}
}

// Sample produces a single fused Point for the given satellite state at
// instant t.
func (b Builder) Sample(ctx context.Context, st *propagator.State, t time.Time) (Point, error) {
	eciSample, err := st.Propagate(t)
	if err != nil {
		return Point{}, fmt.Errorf("snapshot: propagate %s: %w", st.SatelliteID, err)
	}

	gmst := geometry.GMSTRadians(daysSinceJ2000(t))
	ecefPos, _ := geometry.ECIToECEF(eciSample.Position, eciSample.Velocity, gmst)

	look := geometry.TopocentricLookAngle(b.Observer, ecefPos)

	linkEst, err := signal.Compute(ctx, look, b.LinkParam, b.Loss)
	if err != nil {
		return Point{}, fmt.Errorf("snapshot: signal compute %s: %w", st.SatelliteID, err)
	}

	return Point{
		SatelliteID: st.SatelliteID,
		Time:        t,
		Look:        look,
		Link:        linkEst,
	}, nil
}

// DopplerHz computes the instantaneous Doppler shift for a satellite at
// instant t, used by the supplemented per-candidate info field (spec.md
// §7 of the expanded spec).
func (b Builder) DopplerHz(st *propagator.State, t time.Time) (float64, error) {
	eciSample, err := st.Propagate(t)
	if err != nil {
		return 0, err
	}
	gmst := geometry.GMSTRadians(daysSinceJ2000(t))
	ecefPos, ecefVel := geometry.ECIToECEF(eciSample.Position, eciSample.Velocity, gmst)
	return geometry.DopplerShiftHz(b.Observer, ecefPos, ecefVel, b.LinkParam.CarrierHz), nil
}

// Horizon builds a Time-Series for one satellite from `from` through
// `from+duration`, sampled every tick.
func (b Builder) Horizon(ctx context.Context, st *propagator.State, from time.Time, duration, tick time.Duration) (Series, error) {
	var series Series
	for t := from; !t.After(from.Add(duration)); t = t.Add(tick) {
		point, err := b.Sample(ctx, st, t)
		if err != nil {
			continue // outside TLE validity window: stop contributing samples, not an error for the whole horizon
		}
		series = append(series, point)
	}
	return series, nil
}

const j2000Epoch = "2000-01-01T12:00:00Z"

func daysSinceJ2000(t time.Time) float64 {
	epoch, _ := time.Parse(time.RFC3339, j2000Epoch)
	return t.Sub(epoch).Hours() / 24.0
}
