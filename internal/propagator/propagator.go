// Package propagator wraps a validated TLE record into a reentrant SGP4
// state, producing ECI position/velocity samples on demand. It refuses to
// extrapolate outside the +/-72h validity window around the TLE epoch
// rather than silently degrade accuracy (spec.md §4.2).
package propagator

import (
	"errors"
	"fmt"
	"time"

	"github.com/large-farva/ntn-handover-core/internal/geometry"
	"github.com/large-farva/ntn-handover-core/internal/tle"
)

// ValidityWindow bounds how far a State will propagate from its TLE
// epoch before refusing, per spec.md §4.2.
const ValidityWindow = 72 * time.Hour

// ErrOutsideValidity is returned when Propagate is asked for a time more
// than ValidityWindow away from the underlying TLE's epoch.
var ErrOutsideValidity = errors.New("propagator: requested time outside TLE validity window")

// Sample is one instant's ECI state vector, in km and km/s.
type Sample struct {
	Time     time.Time
	Position geometry.Vector3
	Velocity geometry.Vector3
}

// State is a reentrant propagator bound to a single TLE record. It holds
// no mutable fields and is safe for concurrent use by multiple goroutines,
// mirroring the teacher's copy-on-write snapshot discipline.
type State struct {
	SatelliteID string
	NoradID     int
	Epoch       time.Time
	record      tle.Record
}

// NewState builds a propagator State from a validated TLE record.
func NewState(rec tle.Record) *State {
	return &State{
		SatelliteID: rec.SatelliteID,
		NoradID:     rec.NoradID,
		Epoch:       rec.EpochInstant,
		record:      rec,
	}
}

// Propagate returns the ECI position/velocity of the satellite at instant
// t. It refuses requests more than ValidityWindow away from the TLE
// epoch, surfacing ErrOutsideValidity rather than extrapolating into
// known-inaccurate territory.
func (s *State) Propagate(t time.Time) (Sample, error) {
	if d := t.Sub(s.Epoch); d > ValidityWindow || d < -ValidityWindow {
		return Sample{}, fmt.Errorf("%w: %s is %s from epoch %s", ErrOutsideValidity, t, d, s.Epoch)
	}

	pos, vel, err := s.record.Elements.Propagate(t)
	if err != nil {
		return Sample{}, fmt.Errorf("propagator: sgp4 propagate %s: %w", s.SatelliteID, err)
	}

	return Sample{
		Time:     t,
		Position: geometry.Vector3{X: pos[0], Y: pos[1], Z: pos[2]},
		Velocity: geometry.Vector3{X: vel[0], Y: vel[1], Z: vel[2]},
	}, nil
}

// Store holds one State per tracked satellite, built from a tle.Batch. It
// is rebuilt wholesale on every TLE refresh and swapped atomically by the
// owning Core (spec.md §5's copy-on-write cache discipline).
type Store struct {
	states map[string]*State
}

// NewStore builds a Store from every record in a tle.Batch.
func NewStore(batch tle.Batch) *Store {
	states := make(map[string]*State, len(batch.Records))
	for id, rec := range batch.Records {
		states[id] = NewState(rec)
	}
	return &Store{states: states}
}

// Get returns the State for a satellite_id, if tracked.
func (s *Store) Get(satelliteID string) (*State, bool) {
	st, ok := s.states[satelliteID]
	return st, ok
}

// All returns every tracked State. The returned slice is a fresh copy;
// callers may range over it without synchronization.
func (s *Store) All() []*State {
	out := make([]*State, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, st)
	}
	return out
}

// Len reports how many satellites this Store tracks.
func (s *Store) Len() int { return len(s.states) }
