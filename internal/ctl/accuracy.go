package ctl

import (
	"fmt"
	"strings"
)

// Accuracy reports a UE's rolling prediction accuracy and the currently
// recommended prediction horizon.
func Accuracy(baseURL, ue string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		UE                  string  `json:"ue"`
		Trend               int     `json:"trend"`
		RecommendedDeltaMS  int64   `json:"recommended_delta_ms"`
		AccuracyLast100     float64 `json:"accuracy_last_100"`
	}
	if err := getJSON(baseURL, "/api/accuracy?ue="+ue, &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  PREDICTION ACCURACY"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 46)))
	fmt.Printf("  UE:                  %s\n", resp.UE)
	fmt.Printf("  Trend:               %+d\n", resp.Trend)
	if resp.AccuracyLast100 > 0 {
		fmt.Printf("  Accuracy (last 100): %.1f%%\n", resp.AccuracyLast100*100)
	} else {
		fmt.Printf("  Accuracy (last 100): %s\n", colorize(dim, "insufficient history"))
	}
	fmt.Printf("  Recommended delta:   %dms\n", resp.RecommendedDeltaMS)
	fmt.Println()

	return nil
}
