package visibility

import (
	"testing"
	"time"

	"github.com/large-farva/ntn-handover-core/internal/geometry"
	"github.com/large-farva/ntn-handover-core/internal/signal"
	"github.com/large-farva/ntn-handover-core/internal/snapshot"
)

func point(elev float64, rsrp float64, t time.Time) snapshot.Point {
	return snapshot.Point{
		SatelliteID: "SAT-1",
		Time:        t,
		Look:        geometry.LookAngle{ElevationDeg: elev},
		Link:        signal.Estimate{RSRPDBm: rsrp},
	}
}

func TestScanFindsSingleWindow(t *testing.T) {
	base := time.Now()
	series := snapshot.Series{
		point(2, -100, base),
		point(10, -95, base.Add(1*time.Second)),
		point(20, -90, base.Add(2*time.Second)),
		point(25, -88, base.Add(3*time.Second)),
		point(15, -92, base.Add(4*time.Second)),
		point(5, -97, base.Add(5*time.Second)),
		point(1, -110, base.Add(6*time.Second)),
	}
	windows := Scan(series, 5)
	if len(windows) != 1 {
		t.Fatalf("want 1 window, got %d", len(windows))
	}
	w := windows[0]
	if w.SampleCount != 5 {
		t.Errorf("SampleCount = %d, want 5", w.SampleCount)
	}
	if w.PeakElevation != 25 {
		t.Errorf("PeakElevation = %v, want 25", w.PeakElevation)
	}
}

func TestScanDiscardsShortWindows(t *testing.T) {
	base := time.Now()
	series := snapshot.Series{
		point(1, -100, base),
		point(10, -95, base.Add(1*time.Second)),
		point(10, -95, base.Add(2*time.Second)),
		point(1, -105, base.Add(3*time.Second)),
	}
	windows := Scan(series, 5)
	if len(windows) != 0 {
		t.Fatalf("expected short window to be discarded, got %d windows", len(windows))
	}
}

func TestScanFindsMultipleWindows(t *testing.T) {
	base := time.Now()
	var series snapshot.Series
	elevs := []float64{1, 10, 15, 20, 15, 10, 1, 1, 10, 15, 20, 15, 10, 1}
	for i, e := range elevs {
		series = append(series, point(e, -90, base.Add(time.Duration(i)*time.Second)))
	}
	windows := Scan(series, 5)
	if len(windows) != 2 {
		t.Fatalf("want 2 windows, got %d", len(windows))
	}
}
