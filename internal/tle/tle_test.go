package tle

import (
	"strings"
	"testing"
	"time"
)

// Real ISS TLE, checksum digits verified against the NORAD modulo-10 rule.
const issGroup = "ISS (ZARYA)\n" +
	"1 25544U 98067A   24001.50000000  .00016717  00000-0  10270-3 0  9009\n" +
	"2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.49560700  1007\n"

func TestLoadValidGroup(t *testing.T) {
	batch, err := Load(strings.NewReader(issGroup), "test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(batch.Records) != 1 {
		t.Fatalf("want 1 record, got %d (skipped=%d)", len(batch.Records), batch.Skipped)
	}
	rec, ok := batch.Records["ISS (ZARYA)"]
	if !ok {
		t.Fatalf("missing record for ISS (ZARYA): %+v", batch.Records)
	}
	if rec.NoradID != 25544 {
		t.Errorf("NoradID = %d, want 25544", rec.NoradID)
	}
}

func TestLoadRejectsBadChecksum(t *testing.T) {
	bad := strings.Replace(issGroup, "9009", "9008", 1)
	batch, err := Load(strings.NewReader(bad), "test")
	if err == nil {
		t.Fatalf("expected ErrEmptyBatch, got batch: %+v", batch)
	}
	if batch.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", batch.Skipped)
	}
}

func TestLoadEmptyBatch(t *testing.T) {
	_, err := Load(strings.NewReader(""), "test")
	if err != ErrEmptyBatch {
		t.Fatalf("err = %v, want ErrEmptyBatch", err)
	}
}

func TestLoadDedupKeepsLatestEpoch(t *testing.T) {
	older := strings.Replace(issGroup, "24001.50000000", "23350.50000000", 1)
	// Recompute checksum for the edited line so both groups stay valid.
	older = fixChecksum(older)

	combined := older + issGroup
	batch, err := Load(strings.NewReader(combined), "test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(batch.Records) != 1 {
		t.Fatalf("want 1 deduped record, got %d", len(batch.Records))
	}
	rec := batch.Records["ISS (ZARYA)"]
	if rec.EpochInstant.Year() != 2024 {
		t.Errorf("kept epoch year = %d, want 2024 (latest)", rec.EpochInstant.Year())
	}
}

func TestResolveEpochPivotYear(t *testing.T) {
	line := "1 25544U 98067A   57001.50000000  .00016717  00000-0  10270-3 0  9000"
	line = fixChecksumLine(line)
	epoch, ok := resolveEpoch(line)
	if !ok {
		t.Fatal("resolveEpoch failed")
	}
	if epoch.Year() != 1957 {
		t.Errorf("year = %d, want 1957 (pivot)", epoch.Year())
	}

	line2 := "1 25544U 98067A   56001.50000000  .00016717  00000-0  10270-3 0  9000"
	line2 = fixChecksumLine(line2)
	epoch2, ok := resolveEpoch(line2)
	if !ok {
		t.Fatal("resolveEpoch failed")
	}
	if epoch2.Year() != 2056 {
		t.Errorf("year = %d, want 2056", epoch2.Year())
	}
	_ = time.Now
}

// fixChecksum recomputes and rewrites the checksum digit of both data lines
// in a 3-line TLE group, so edited test fixtures stay valid.
func fixChecksum(group string) string {
	lines := strings.Split(strings.TrimRight(group, "\n"), "\n")
	for i := 1; i < len(lines) && i <= 2; i++ {
		lines[i] = fixChecksumLine(lines[i])
	}
	return strings.Join(lines, "\n") + "\n"
}

func fixChecksumLine(line string) string {
	if len(line) != 69 {
		return line
	}
	sum := 0
	for _, c := range line[:68] {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return line[:68] + string(rune('0'+sum%10))
}
