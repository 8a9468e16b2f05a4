package geometry

import (
	"math"
	"testing"
)

func TestGMSTWrapsInto0to360(t *testing.T) {
	g := GMSTRadians(10000)
	if g < 0 || g >= 2*math.Pi {
		t.Errorf("GMSTRadians out of range: %v", g)
	}
}

func TestECIToECEFPreservesZ(t *testing.T) {
	pos := Vector3{X: 7000, Y: 0, Z: 1234}
	vel := Vector3{X: 0, Y: 7.5, Z: 0}
	ecefPos, _ := ECIToECEF(pos, vel, math.Pi/4)
	if math.Abs(ecefPos.Z-1234) > 1e-9 {
		t.Errorf("Z not preserved by ECI->ECEF rotation: got %v", ecefPos.Z)
	}
}

func TestTopocentricOverheadSatelliteIsNearZenith(t *testing.T) {
	obs := Observer{LatitudeDeg: 0, LongitudeDeg: 0, AltitudeM: 0}
	// Satellite directly above the observer on the equator/prime meridian.
	satECEF := Vector3{X: earthRadiusKM + 550, Y: 0, Z: 0}
	look := TopocentricLookAngle(obs, satECEF)
	if look.ElevationDeg < 89 {
		t.Errorf("expected near-zenith elevation, got %v", look.ElevationDeg)
	}
	if look.RangeKM <= 0 {
		t.Errorf("expected positive range, got %v", look.RangeKM)
	}
}

func TestTopocentricHorizonSatelliteIsLowElevation(t *testing.T) {
	obs := Observer{LatitudeDeg: 0, LongitudeDeg: 0, AltitudeM: 0}
	// Satellite far around the limb: low/negative elevation.
	satECEF := Vector3{X: 0, Y: 0, Z: earthRadiusKM + 550}
	look := TopocentricLookAngle(obs, satECEF)
	if look.ElevationDeg > 10 {
		t.Errorf("expected low elevation near horizon, got %v", look.ElevationDeg)
	}
}

func TestDopplerShiftSignFlipsWithDirection(t *testing.T) {
	obs := Observer{LatitudeDeg: 0, LongitudeDeg: 0, AltitudeM: 0}
	satECEF := Vector3{X: earthRadiusKM + 550, Y: 0, Z: 0}

	receding := Vector3{X: 1, Y: 0, Z: 0} // moving away from observer
	approaching := Vector3{X: -1, Y: 0, Z: 0}

	shiftReceding := DopplerShiftHz(obs, satECEF, receding, 20e9)
	shiftApproaching := DopplerShiftHz(obs, satECEF, approaching, 20e9)

	if shiftReceding >= 0 {
		t.Errorf("receding satellite should have negative Doppler shift, got %v", shiftReceding)
	}
	if shiftApproaching <= 0 {
		t.Errorf("approaching satellite should have positive Doppler shift, got %v", shiftApproaching)
	}
}

func TestDopplerShiftZeroAtRangeZero(t *testing.T) {
	obs := Observer{LatitudeDeg: 0, LongitudeDeg: 0, AltitudeM: 0}
	shift := DopplerShiftHz(obs, observerECEF(obs), Vector3{X: 1}, 20e9)
	if shift != 0 {
		t.Errorf("expected zero shift at zero range, got %v", shift)
	}
}
