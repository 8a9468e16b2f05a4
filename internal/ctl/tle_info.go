package ctl

import (
	"fmt"
	"strings"
	"time"
)

// TLEInfo shows TLE cache status and freshness for the configured
// constellation.
func TLEInfo(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		Constellation string `json:"constellation"`
		Cached        bool   `json:"cached"`
		Path          string `json:"path"`
		AgeSeconds    int    `json:"age_seconds"`
		Fresh         bool   `json:"fresh"`
		URL           string `json:"url"`
	}
	if err := getJSON(baseURL, "/api/tle-info", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  TLE CACHE INFO"))
	fmt.Println("  " + strings.Repeat("─", 50))
	fmt.Printf("  Constellation: %s\n", resp.Constellation)

	if !resp.Cached {
		fmt.Printf("  Status:        %s\n", colorize(red, "NOT CACHED"))
		fmt.Printf("  Source:        %s\n", resp.URL)
		fmt.Println()
		return nil
	}

	if resp.Fresh {
		fmt.Printf("  Status:        %s\n", colorize(green, "FRESH"))
	} else {
		fmt.Printf("  Status:        %s\n", colorize(yellow, "STALE"))
	}

	fmt.Printf("  Cache file:    %s\n", resp.Path)
	fmt.Printf("  Age:           %s\n", formatDuration(time.Duration(resp.AgeSeconds)*time.Second))
	fmt.Printf("  Source:        %s\n", resp.URL)
	fmt.Println()
	return nil
}
