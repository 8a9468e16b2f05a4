package ctl

import (
	"fmt"
	"strings"
)

// SetDeltaT adjusts a UE's orchestrator tick interval.
func SetDeltaT(baseURL, ue string, intervalMS int64, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		OK         bool   `json:"ok"`
		UE         string `json:"ue"`
		IntervalMS int64  `json:"interval_ms"`
	}
	body := map[string]any{"interval_ms": intervalMS}
	if err := postJSON(baseURL, "/api/delta-t?ue="+ue, body, &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Printf("%s tick interval for %s set to %dms\n", colorize(green, "✓"), resp.UE, resp.IntervalMS)
	return nil
}
