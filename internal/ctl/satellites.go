package ctl

import (
	"fmt"
	"strings"
)

// Satellites lists the satellites currently tracked by the daemon's
// propagator store.
func Satellites(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		Satellites []struct {
			SatelliteID string `json:"satellite_id"`
			NoradID     int    `json:"norad_id"`
			Epoch       string `json:"epoch"`
		} `json:"satellites"`
	}
	if err := getJSON(baseURL, "/api/satellites", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  TRACKED SATELLITES"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 54)))

	if len(resp.Satellites) == 0 {
		fmt.Println(colorize(dim, "  (none tracked — demo mode or TLE batch not yet loaded)"))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-16s %-12s %s\n",
		colorize(dim, "Satellite ID"),
		colorize(dim, "NORAD ID"),
		colorize(dim, "Epoch"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 54)))
	for _, s := range resp.Satellites {
		fmt.Printf("  %-16s %-12d %s\n", s.SatelliteID, s.NoradID, s.Epoch)
	}
	fmt.Println()

	return nil
}
