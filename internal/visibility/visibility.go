// Package visibility scans a per-satellite Time-Series for contiguous
// windows above a minimum elevation, discarding windows too short to be
// operationally useful (spec.md §4.5).
package visibility

import (
	"time"

	"github.com/large-farva/ntn-handover-core/internal/snapshot"
)

// MinWindowSamples is the minimum number of samples a visibility window
// must contain to be reported; shorter windows are discarded as noise
// (spec.md §4.5).
const MinWindowSamples = 5

// Window is one contiguous pass of a satellite above the configured
// minimum elevation.
type Window struct {
	SatelliteID   string
	RiseTime      time.Time
	SetTime       time.Time
	PeakElevation float64
	MeanRSRPDBm   float64
	SampleCount   int
}

// Scan walks a Time-Series in order and returns every visibility Window
// with at least MinWindowSamples samples above minElevationDeg.
func Scan(series snapshot.Series, minElevationDeg float64) []Window {
	var windows []Window
	var current []snapshot.Point

	flush := func() {
		if len(current) >= MinWindowSamples {
			windows = append(windows, buildWindow(current))
		}
		current = nil
	}

	for _, point := range series {
		if point.Look.ElevationDeg >= minElevationDeg {
			current = append(current, point)
			continue
		}
		flush()
	}
	flush()

	return windows
}

func buildWindow(points []snapshot.Point) Window {
	peak := points[0].Look.ElevationDeg
	var rsrpSum float64
	for _, p := range points {
		if p.Look.ElevationDeg > peak {
			peak = p.Look.ElevationDeg
		}
		rsrpSum += p.Link.RSRPDBm
	}
	return Window{
		SatelliteID:   points[0].SatelliteID,
		RiseTime:      points[0].Time,
		SetTime:       points[len(points)-1].Time,
		PeakElevation: peak,
		MeanRSRPDBm:   rsrpSum / float64(len(points)),
		SampleCount:   len(points),
	}
}
