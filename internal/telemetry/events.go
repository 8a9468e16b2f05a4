// Package telemetry defines the typed event structs that flow over the
// WebSocket connection between ntn-core and its clients. These types serve
// as documentation for the event schema; most internal code still
// broadcasts events as map[string]any for flexibility during early
// development.
package telemetry

import "time"

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat  EventType = "heartbeat"
	EventState      EventType = "state"
	EventProgress   EventType = "progress"
	EventLog        EventType = "log"
	EventPrediction EventType = "prediction"
	EventMeasurement EventType = "measurement_event"
)

// Event is the base envelope shared by every event type.
type Event struct {
	Type EventType `json:"type"`
	TS   string    `json:"ts"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching the
// timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Heartbeat is sent periodically so clients can detect connectivity and
// monitor daemon uptime.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// StateTransition is emitted whenever the daemon moves between operating
// states (e.g. into IDLE at startup).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// Progress reports incremental completion of a long-running phase like
// recording or decoding.
type Progress struct {
	Event
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Detail  string  `json:"detail"`
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}

// PredictionEvent carries one UE's per-tick access decision and two-point
// prediction outcome, field-named after the 3GPP measurement IEs the
// spec calls out explicitly.
type PredictionEvent struct {
	Event
	UE                  string  `json:"ue"`
	MeasID              string  `json:"measId"`
	ServingSatelliteID  string  `json:"servingSatelliteId"`
	RSRPResult          float64 `json:"rsrpResult"`
	RSRQResult          float64 `json:"rsrqResult"`
	DistanceServingCell float64 `json:"distanceServingCell"`
	DistanceCandidate   float64 `json:"distanceCandidate"`
	Decision            string  `json:"decision"`
	WillChange          bool    `json:"willChange"`
	ConfidenceScore     float64 `json:"confidenceScore"`
	LowConfidence       bool    `json:"lowConfidence"`
}

// MeasurementEventFired carries one fired 3GPP measurement event (A3,
// A4, A5, or D2) for a (UE, candidate) pair.
type MeasurementEventFired struct {
	Event
	UE          string `json:"ue"`
	CandidateID string `json:"candidateId"`
	EventType   string `json:"eventType"`
}
