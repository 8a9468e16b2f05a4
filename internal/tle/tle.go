// Package tle parses, validates, and deduplicates Two-Line Element sets.
// It accepts a raw byte stream of standard 3-line TLE groups (name, line 1,
// line 2), rejects malformed groups without failing the whole batch, and
// resolves each record's 2-digit epoch year against the NORAD pivot year of
// 1957.
package tle

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/akhenakh/sgp4"
)

// ErrEmptyBatch is returned when a TLE batch yields zero valid records.
var ErrEmptyBatch = errors.New("tle: empty or all-malformed TLE input")

// Record is an immutable, validated TLE entry tagged with its resolved
// epoch and constellation. It wraps the parsed orbital elements from
// github.com/akhenakh/sgp4 so internal/propagator can build a Propagator
// State directly from it without reparsing text.
type Record struct {
	SatelliteID      string
	ConstellationTag string
	NoradID          int
	Line1            string
	Line2            string
	EpochInstant     time.Time
	Elements         *sgp4.TLE
}

// Batch is the result of loading one TLE text stream: validated records
// keyed by satellite_id, plus a count of 3-line groups skipped as
// malformed or for failed checksums.
type Batch struct {
	Records map[string]Record
	Skipped int
}

// Load reads r as a sequence of 3-line TLE groups, validates and parses
// each, deduplicates by satellite_id (keeping the record with the latest
// epoch), and returns the resulting Batch. Malformed groups are counted in
// Batch.Skipped rather than aborting the load. Load fails with
// ErrEmptyBatch only if every group in the input was rejected (or the
// input was empty).
func Load(r io.Reader, constellationTag string) (Batch, error) {
	lines, err := readNonEmptyLines(r)
	if err != nil {
		return Batch{}, fmt.Errorf("tle: read input: %w", err)
	}

	batch := Batch{Records: make(map[string]Record)}

	for i := 0; i+2 < len(lines); i += 3 {
		name := lines[i]
		line1 := lines[i+1]
		line2 := lines[i+2]

		rec, ok := parseGroup(name, line1, line2, constellationTag)
		if !ok {
			batch.Skipped++
			continue
		}

		existing, present := batch.Records[rec.SatelliteID]
		if !present || rec.EpochInstant.After(existing.EpochInstant) {
			batch.Records[rec.SatelliteID] = rec
		}
	}

	if len(batch.Records) == 0 {
		return batch, ErrEmptyBatch
	}
	return batch, nil
}

// parseGroup validates checksum/line-length invariants and delegates
// element decoding to sgp4.ParseTLE, which performs the same NORAD
// modulo-10 checksum validation internally.
func parseGroup(name, line1, line2, constellationTag string) (Record, bool) {
	if len(line1) != 69 || len(line2) != 69 {
		return Record{}, false
	}
	if !validChecksum(line1) || !validChecksum(line2) {
		return Record{}, false
	}

	group := strings.TrimSpace(name) + "\n" + line1 + "\n" + line2
	elements, err := sgp4.ParseTLE(group)
	if err != nil {
		return Record{}, false
	}

	epoch, ok := resolveEpoch(line1)
	if !ok {
		return Record{}, false
	}

	satelliteID := strings.TrimSpace(name)
	if satelliteID == "" {
		satelliteID = fmt.Sprintf("NORAD-%d", elements.SatelliteNumber)
	}

	return Record{
		SatelliteID:      satelliteID,
		ConstellationTag: constellationTag,
		NoradID:          elements.SatelliteNumber,
		Line1:            line1,
		Line2:            line2,
		EpochInstant:     epoch,
		Elements:         elements,
	}, true
}

// validChecksum verifies the trailing modulo-10 checksum digit of a TLE
// data line. Digits contribute their value; '-' contributes 1; all other
// characters (letters, '+', '.', spaces) contribute 0.
func validChecksum(line string) bool {
	if len(line) != 69 {
		return false
	}
	want, err := strconv.Atoi(line[68:69])
	if err != nil {
		return false
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
	return sum%10 == want
}

// resolveEpoch extracts the epoch year+day fields from a TLE line 1 and
// resolves the 2-digit year against the NORAD pivot year of 1957: values
// 57-99 are 1957-1999, values 00-56 are 2000-2056.
func resolveEpoch(line1 string) (time.Time, bool) {
	if len(line1) != 69 {
		return time.Time{}, false
	}
	yy, err := strconv.Atoi(strings.TrimSpace(line1[18:20]))
	if err != nil {
		return time.Time{}, false
	}
	dayFrac, err := strconv.ParseFloat(strings.TrimSpace(line1[20:32]), 64)
	if err != nil {
		return time.Time{}, false
	}

	year := yy + 1900
	if yy < 57 {
		year = yy + 2000
	}

	base := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := time.Duration((dayFrac - 1) * float64(24*time.Hour))
	return base.Add(offset), true
}

func readNonEmptyLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// FromReader is a convenience wrapper matching the shape of bytes-based
// callers (e.g. an embedded fallback) that already hold the full payload
// in memory.
func FromReader(b []byte, constellationTag string) (Batch, error) {
	return Load(bytes.NewReader(b), constellationTag)
}
