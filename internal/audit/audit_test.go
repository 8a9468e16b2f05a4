package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type recordingHub struct {
	broadcasts []any
}

func (h *recordingHub) BroadcastJSON(v any) { h.broadcasts = append(h.broadcasts, v) }

func TestWriterAppendsAndBroadcasts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.ndjson")
	hub := &recordingHub{}

	w, err := NewWriter(path, hub)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	defer w.Close()

	type rec struct {
		UE string `json:"ue"`
	}
	if err := w.Record(rec{UE: "ue-1"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := w.Record(rec{UE: "ue-2"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(hub.broadcasts) != 2 {
		t.Fatalf("expected 2 broadcasts, got %d", len(hub.broadcasts))
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit file: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 ndjson lines, got %d", len(lines))
	}
	var decoded rec
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("unmarshal line: %v", err)
	}
	if decoded.UE != "ue-1" {
		t.Errorf("UE = %q, want ue-1", decoded.UE)
	}
}

func TestNewWriterCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "audit.ndjson")
	w, err := NewWriter(path, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	defer w.Close()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected audit file to exist: %v", err)
	}
}
