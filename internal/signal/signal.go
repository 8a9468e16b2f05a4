// Package signal estimates link quality (RSRP, RSRQ) for a satellite-UE
// pair from pure geometry and a pluggable atmospheric loss model. Formulas
// follow ITU-R P.525 (free-space path loss) and ITU-R P.618 (gaseous/
// atmospheric attenuation), per spec.md §4.4.
package signal

import (
	"context"
	"math"

	"github.com/large-farva/ntn-handover-core/internal/geometry"
)

const (
	// MinRSRPDBm and MaxRSRPDBm bound the reported RSRP range (spec.md
	// §4.4), matching the 3GPP TS 38.133 measurement range.
	MinRSRPDBm = -140.0
	MaxRSRPDBm = -44.0

	speedOfLightMPerS = 299792458.0
)

// LinkParameters are the static, per-beam radio parameters that feed the
// link budget. These come from the satellite/beam configuration rather
// than from geometry.
type LinkParameters struct {
	CarrierHz       float64
	EIRPDBm         float64
	UEAntennaGainDB float64
	NoiseFigureDB   float64
	ResourceBlocks  int // N, for RSRQ's RSSI normalization

	// ImplementationLossDB (L_impl) folds in receiver implementation loss
	// and polarization mismatch, per-constellation per spec.md §4.4.
	ImplementationLossDB float64
	// Subcarriers (N_subcarriers) is the total OFDM subcarrier count the
	// beam's resource blocks carry (typically 12 per resource block),
	// used to spread wideband received power into per-subcarrier RSRP.
	Subcarriers int
}

// elevationGainDB models the G_elev(el) term of spec.md §4.4: a satellite
// phased-array antenna's gain rises with elevation and saturates at
// boresight (el=90°). Grounded in threegpp_event_generator.py's
// elevation_gain = min(el/90, 1) * 12.0 dB approximation.
func elevationGainDB(elevationDeg float64) float64 {
	frac := elevationDeg / 90.0
	if frac > 1.0 {
		frac = 1.0
	}
	if frac < 0 {
		frac = 0
	}
	return frac * 12.0
}

// AtmosphericLossProvider models ITU-R P.618 gaseous/rain attenuation as a
// function of elevation angle and carrier frequency. A component can swap
// in a weather-aware implementation without the signal package changing.
type AtmosphericLossProvider interface {
	AtmosphericLossDB(ctx context.Context, elevationDeg, carrierHz float64) (float64, error)
}

// ZeroLossProvider is the default AtmosphericLossProvider: it reports no
// atmospheric attenuation, appropriate for clear-sky baseline estimates or
// when no weather feed is configured.
type ZeroLossProvider struct{}

func (ZeroLossProvider) AtmosphericLossDB(_ context.Context, _, _ float64) (float64, error) {
	return 0, nil
}

// ElevationDependentLossProvider approximates ITU-R P.618 zenith
// attenuation scaled by cosecant of elevation (the standard flat-layer
// approximation), using a configurable zenith loss figure.
type ElevationDependentLossProvider struct {
	ZenithLossDB float64
}

func (p ElevationDependentLossProvider) AtmosphericLossDB(_ context.Context, elevationDeg, _ float64) (float64, error) {
	elevRad := elevationDeg * math.Pi / 180
	if elevRad <= 0 {
		return p.ZenithLossDB * 10, nil // below horizon: heavily attenuated
	}
	cosecant := 1.0 / math.Sin(elevRad)
	return p.ZenithLossDB * cosecant, nil
}

// FreeSpacePathLossDB computes ITU-R P.525 free-space path loss in dB for
// a range in km and a carrier frequency in Hz.
func FreeSpacePathLossDB(rangeKM, carrierHz float64) float64 {
	rangeM := rangeKM * 1000
	wavelengthM := speedOfLightMPerS / carrierHz
	return 20*math.Log10(4*math.Pi*rangeM/wavelengthM)
}

// Estimate is a single link-quality estimate at one instant.
type Estimate struct {
	RSRPDBm         float64
	RSRQDB          float64
	PathLossDB     float64
	AtmosphericDB  float64
	ClampedAtFloor bool
	ClampedAtCeil  bool
}

// Compute computes RSRP/RSRQ for one look geometry, clamping RSRP into
// [MinRSRPDBm, MaxRSRPDBm] and recording whether clamping occurred (spec.md
// §4.4 monotonicity and bounding invariants).
func Compute(ctx context.Context, look geometry.LookAngle, params LinkParameters, loss AtmosphericLossProvider) (Estimate, error) {
	atmDB, err := loss.AtmosphericLossDB(ctx, look.ElevationDeg, params.CarrierHz)
	if err != nil {
		return Estimate{}, err
	}

	fspl := FreeSpacePathLossDB(look.RangeKM, params.CarrierHz)
	gElev := elevationGainDB(look.ElevationDeg)

	n := params.Subcarriers
	if n <= 0 {
		n = 1
	}
	rawRSRP := params.EIRPDBm + params.UEAntennaGainDB + gElev - fspl - atmDB -
		params.ImplementationLossDB - 10*math.Log10(float64(n))

	rsrp := rawRSRP
	clampedFloor, clampedCeil := false, false
	if rsrp < MinRSRPDBm {
		rsrp = MinRSRPDBm
		clampedFloor = true
	}
	if rsrp > MaxRSRPDBm {
		rsrp = MaxRSRPDBm
		clampedCeil = true
	}

	rsrq := estimateRSRQ(rsrp, params)

	return Estimate{
		RSRPDBm:        rsrp,
		RSRQDB:         rsrq,
		PathLossDB:     fspl,
		AtmosphericDB:  atmDB,
		ClampedAtFloor: clampedFloor,
		ClampedAtCeil:  clampedCeil,
	}, nil
}

// estimateRSRQ derives RSRQ from RSRP using the 3GPP definition
// RSRQ = N * RSRP / RSSI, expressed in dB, where RSSI is approximated as
// RSRP plus a noise-figure-driven interference floor spread across N
// resource blocks. This mirrors the approximation used in
// threegpp_event_generator.py's calculate_rsrq, adapted to this link
// model's inputs.
func estimateRSRQ(rsrpDBm float64, params LinkParameters) float64 {
	n := params.ResourceBlocks
	if n <= 0 {
		n = 1
	}
	rssiDBm := rsrpDBm + params.NoiseFigureDB + 10*math.Log10(float64(n))
	rsrq := 10*math.Log10(float64(n)) + rsrpDBm - rssiDBm
	// RSRQ is bounded per 3GPP TS 38.133 to [-43, 20] dB.
	if rsrq < -43 {
		rsrq = -43
	}
	if rsrq > 20 {
		rsrq = 20
	}
	return rsrq
}
