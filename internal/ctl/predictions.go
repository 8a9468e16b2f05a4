package ctl

import (
	"fmt"
	"strconv"
	"strings"
)

// Predictions shows recent prediction ticks for a UE (or every UE if ue
// is empty).
func Predictions(baseURL, ue string, limit int, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	path := "/api/predictions"
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
	fmt.Println(header("  PREDICTION HISTORY"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 70)))

	printPredictionSet(raw["predictions"])
	fmt.Println()

	return nil
}

func printPredictionSet(v any) {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			fmt.Println(colorize(dim, "  (no predictions recorded yet)"))
			return
		}
		for _, item := range t {
			printPredictionRecord(item)
		}
	case map[string]any:
		if len(t) == 0 {
			fmt.Println(colorize(dim, "  (no predictions recorded yet)"))
			return
		}
		for ue, recs := range t {
			fmt.Printf("  %s\n", colorize(bold, ue))
			printPredictionSet(recs)
		}
	}
}

func printPredictionRecord(item any) {
	m, ok := item.(map[string]any)
	if !ok {
		return
	}
	decision := ""
	if plan, ok := m["Plan"].(map[string]any); ok {
		decision = fmt.Sprintf("%v", plan["Decision"])
	}
	willChange := false
	confidence := 0.0
	if pred, ok := m["Prediction"].(map[string]any); ok {
		if wc, ok := pred["WillChange"].(bool); ok {
			willChange = wc
		}
		if cs, ok := pred["ConfidenceScore"].(float64); ok {
			confidence = cs
		}
	}
	fmt.Printf("    meas=%-10v serving=%-16v decision=%-10v rsrp=%-8v rsrq=%-8v willChange=%-5v conf=%.2f\n",
		m["MeasID"], m["ServingSatelliteID"], decision, m["RSRPResult"], m["RSRQResult"], willChange, confidence)
}
