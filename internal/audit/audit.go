// Package audit writes an append-only ndjson log of Prediction and
// Measurement Event Records, and broadcasts each written record over the
// WebSocket hub for live observers. It keeps the teacher's atomic-write,
// progress-broadcast discipline (originally used for WAV capture
// bookkeeping) retargeted at this domain's decision log (spec.md §6 of
// the expanded spec).
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Broadcaster is the subset of ws.Hub that audit needs, kept as a narrow
// interface so this package doesn't import the transport layer.
type Broadcaster interface {
	BroadcastJSON(v any)
}

// Writer appends JSON-encoded records to an ndjson file, one per line,
// and broadcasts each record after it is durably written.
type Writer struct {
	mu   sync.Mutex
	file *os.File
	hub  Broadcaster
}

// NewWriter opens (creating if necessary) an ndjson audit log at path and
// returns a Writer that also broadcasts every record it writes through
// hub. hub may be nil to disable broadcasting.
func NewWriter(path string, hub Broadcaster) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("audit: create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("audit: open log %s: %w", path, err)
	}
	return &Writer{file: f, hub: hub}, nil
}

// Record marshals v to one ndjson line, appends it durably, and
// broadcasts it. Write errors are returned; broadcast never blocks or
// fails the call.
func (w *Writer) Record(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("audit: marshal record: %w", err)
	}
	b = append(b, '\n')

	w.mu.Lock()
	_, writeErr := w.file.Write(b)
	w.mu.Unlock()
	if writeErr != nil {
		return fmt.Errorf("audit: write record: %w", writeErr)
	}

	if w.hub != nil {
		w.hub.BroadcastJSON(v)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// DefaultPath builds the standard ndjson audit log path under a data
// root directory, namespaced by day so files stay a manageable size.
func DefaultPath(dataRoot string) string {
	return filepath.Join(dataRoot, "audit", time.Now().UTC().Format("2006-01-02")+".ndjson")
}
