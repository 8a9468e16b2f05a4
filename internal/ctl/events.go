package ctl

import (
	"fmt"
	"strconv"
	"strings"
)

// Events shows fired measurement events for a UE (or every UE if ue is
// empty).
func Events(baseURL, ue string, limit int, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	path := "/api/events"
	q := []string{}
	if ue != "" {
		q = append(q, "ue="+ue)
	}
	if limit > 0 {
		q = append(q, "limit="+strconv.Itoa(limit))
	}
	if len(q) > 0 {
		path += "?" + strings.Join(q, "&")
	}

	var raw map[string]any
	if err := getJSON(baseURL, path, &raw); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(raw)
	}

	fmt.Println()
	fmt.Println(header("  FIRED MEASUREMENT EVENTS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 60)))

	printEventSet(raw["events"])
	fmt.Println()

	return nil
}

func printEventSet(v any) {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			fmt.Println(colorize(dim, "  (no events fired yet)"))
			return
		}
		for _, item := range t {
			printEventRecord(item)
		}
	case map[string]any:
		if len(t) == 0 {
			fmt.Println(colorize(dim, "  (no events fired yet)"))
			return
		}
		for ue, evs := range t {
			fmt.Printf("  %s\n", colorize(bold, ue))
			printEventSet(evs)
		}
	}
}

func printEventRecord(item any) {
	m, ok := item.(map[string]any)
	if !ok {
		return
	}
	fmt.Printf("    type=%-6v candidate=%-16v at=%v\n", m["Type"], m["CandidateID"], m["TriggeredAt"])
}
