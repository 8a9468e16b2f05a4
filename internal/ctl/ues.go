package ctl

import (
	"fmt"
	"strings"
)

// UEs lists the registered UE roster along with each one's serving
// satellite, paused state, and current tick cadence.
func UEs(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		UEs []struct {
			ID                 string `json:"id"`
			ServiceClass       string `json:"service_class"`
			ServingSatelliteID string `json:"serving_satellite_id"`
			Paused             bool   `json:"paused"`
			TickCount          int64  `json:"tick_count"`
			IntervalMS         int64  `json:"interval_ms"`
		} `json:"ues"`
	}
	if err := getJSON(baseURL, "/api/ues", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  REGISTERED UES"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 64)))

	if len(resp.UEs) == 0 {
		fmt.Println(colorize(dim, "  (none registered yet)"))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-14s %-18s %-8s %-8s %s\n",
		colorize(dim, "UE"),
		colorize(dim, "Serving sat"),
		colorize(dim, "Paused"),
		colorize(dim, "Ticks"),
		colorize(dim, "Interval"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 64)))
	for _, u := range resp.UEs {
		paused := "no"
		if u.Paused {
			paused = colorize(yellow, "yes")
		}
		fmt.Printf("  %-14s %-18s %-8s %-8d %dms\n",
			u.ID, orDash(u.ServingSatelliteID), paused, u.TickCount, u.IntervalMS)
	}
	fmt.Println()

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
