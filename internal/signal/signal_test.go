package signal

import (
	"context"
	"math"
	"testing"

	"github.com/large-farva/ntn-handover-core/internal/geometry"
)

func testParams() LinkParameters {
	return LinkParameters{
		CarrierHz:            20e9,
		EIRPDBm:              55,
		UEAntennaGainDB:      35,
		NoiseFigureDB:        7,
		ResourceBlocks:       50,
		ImplementationLossDB: 3,
		Subcarriers:          1200,
	}
}

func TestComputeRSRPWithinBounds(t *testing.T) {
	look := geometry.LookAngle{ElevationDeg: 45, AzimuthDeg: 180, RangeKM: 1200}
	est, err := Compute(context.Background(), look, testParams(), ZeroLossProvider{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if est.RSRPDBm < MinRSRPDBm || est.RSRPDBm > MaxRSRPDBm {
		t.Errorf("RSRP out of bounds: %v", est.RSRPDBm)
	}
}

func TestComputeCloserRangeYieldsHigherRSRP(t *testing.T) {
	near := geometry.LookAngle{ElevationDeg: 80, AzimuthDeg: 0, RangeKM: 600}
	far := geometry.LookAngle{ElevationDeg: 80, AzimuthDeg: 0, RangeKM: 2000}

	estNear, err := Compute(context.Background(), near, testParams(), ZeroLossProvider{})
	if err != nil {
		t.Fatalf("Compute near: %v", err)
	}
	estFar, err := Compute(context.Background(), far, testParams(), ZeroLossProvider{})
	if err != nil {
		t.Fatalf("Compute far: %v", err)
	}
	if estNear.RSRPDBm <= estFar.RSRPDBm {
		t.Errorf("expected closer range to yield higher RSRP: near=%v far=%v", estNear.RSRPDBm, estFar.RSRPDBm)
	}
}

func TestComputeClampsAtFloor(t *testing.T) {
	look := geometry.LookAngle{ElevationDeg: 10, AzimuthDeg: 0, RangeKM: 40000}
	est, err := Compute(context.Background(), look, testParams(), ZeroLossProvider{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !est.ClampedAtFloor {
		t.Error("expected RSRP to clamp at floor for an extreme range")
	}
	if est.RSRPDBm != MinRSRPDBm {
		t.Errorf("RSRPDBm = %v, want %v", est.RSRPDBm, MinRSRPDBm)
	}
}

func TestRSRQWithinStandardBounds(t *testing.T) {
	look := geometry.LookAngle{ElevationDeg: 45, AzimuthDeg: 0, RangeKM: 1200}
	est, err := Compute(context.Background(), look, testParams(), ZeroLossProvider{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if est.RSRQDB < -43 || est.RSRQDB > 20 {
		t.Errorf("RSRQ out of 3GPP bounds: %v", est.RSRQDB)
	}
}

func TestComputeHigherElevationYieldsHigherRSRP(t *testing.T) {
	low := geometry.LookAngle{ElevationDeg: 15, AzimuthDeg: 0, RangeKM: 1200}
	high := geometry.LookAngle{ElevationDeg: 85, AzimuthDeg: 0, RangeKM: 1200}

	estLow, err := Compute(context.Background(), low, testParams(), ZeroLossProvider{})
	if err != nil {
		t.Fatalf("Compute low: %v", err)
	}
	estHigh, err := Compute(context.Background(), high, testParams(), ZeroLossProvider{})
	if err != nil {
		t.Fatalf("Compute high: %v", err)
	}
	if estHigh.RSRPDBm <= estLow.RSRPDBm {
		t.Errorf("expected higher elevation to yield higher RSRP: low=%v high=%v", estLow.RSRPDBm, estHigh.RSRPDBm)
	}
}

func TestComputeFreeSpaceOnlyRSRPMatchesFormula(t *testing.T) {
	look := geometry.LookAngle{ElevationDeg: 60, AzimuthDeg: 0, RangeKM: 1500}
	params := testParams()

	est, err := Compute(context.Background(), look, params, ZeroLossProvider{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	fspl := FreeSpacePathLossDB(look.RangeKM, params.CarrierHz)
	gElev := elevationGainDB(look.ElevationDeg)
	want := params.EIRPDBm + params.UEAntennaGainDB + gElev - fspl - 0 /* atmDB */ -
		params.ImplementationLossDB - 10*math.Log10(float64(params.Subcarriers))

	if math.Abs(est.RSRPDBm-want) > 1e-9 {
		t.Errorf("RSRPDBm = %v, want %v (free-space-only per spec formula)", est.RSRPDBm, want)
	}
	if est.AtmosphericDB != 0 {
		t.Errorf("AtmosphericDB = %v, want 0 under ZeroLossProvider", est.AtmosphericDB)
	}
}

func TestElevationGainSaturatesAtBoresight(t *testing.T) {
	if g := elevationGainDB(90); g != 12.0 {
		t.Errorf("elevationGainDB(90) = %v, want 12.0", g)
	}
	if g := elevationGainDB(45); g != 6.0 {
		t.Errorf("elevationGainDB(45) = %v, want 6.0", g)
	}
	if g := elevationGainDB(0); g != 0 {
		t.Errorf("elevationGainDB(0) = %v, want 0", g)
	}
}

func TestElevationDependentLossIncreasesNearHorizon(t *testing.T) {
	p := ElevationDependentLossProvider{ZenithLossDB: 0.5}
	lowLoss, _ := p.AtmosphericLossDB(context.Background(), 80, 20e9)
	highLoss, _ := p.AtmosphericLossDB(context.Background(), 10, 20e9)
	if highLoss <= lowLoss {
		t.Errorf("expected more atmospheric loss near horizon: low-elev=%v high-elev=%v", highLoss, lowLoss)
	}
}
