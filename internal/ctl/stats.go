package ctl

import (
	"fmt"
	"strings"
	"time"
)

// Stats shows aggregate decision statistics from the daemon.
func Stats(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		TotalTicks    int64 `json:"total_ticks"`
		Handovers     int64 `json:"handovers"`
		Errors        int64 `json:"errors"`
		UptimeSeconds int64 `json:"uptime_seconds"`
	}
	if err := getJSON(baseURL, "/api/stats", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  DECISION STATISTICS"))
	fmt.Println("  " + strings.Repeat("─", 42))
	fmt.Printf("  Uptime:          %s\n", formatDuration(time.Duration(resp.UptimeSeconds)*time.Second))
	fmt.Printf("  Total ticks:     %d\n", resp.TotalTicks)
	fmt.Printf("  Handovers:       %d\n", resp.Handovers)
	fmt.Printf("  Errors:          %d\n", resp.Errors)
	fmt.Println()
	return nil
}
