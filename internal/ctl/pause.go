package ctl

import (
	"fmt"
	"strings"
)

// Pause stops a UE's orchestrator loop from ticking further.
func Pause(baseURL, ue string, jsonOutput bool) error {
	return toggleRunner(baseURL, "/api/pause", ue, jsonOutput)
}

// Resume restarts a paused UE's orchestrator loop.
func Resume(baseURL, ue string, jsonOutput bool) error {
	return toggleRunner(baseURL, "/api/resume", ue, jsonOutput)
}

func toggleRunner(baseURL, path, ue string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		OK bool   `json:"ok"`
		UE string `json:"ue"`
	}
	if err := postJSON(baseURL, path+"?ue="+ue, nil, &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	verb := "paused"
	if strings.HasSuffix(path, "resume") {
		verb = "resumed"
	}
	fmt.Printf("%s %s %s\n", colorize(green, "✓"), resp.UE, verb)
	return nil
}
