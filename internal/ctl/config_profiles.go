package ctl

import (
	"fmt"
	"strings"
)

// ConfigProfiles lists available config profiles on the daemon host.
func ConfigProfiles(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		ConfigDir string `json:"config_dir"`
		Profiles  []struct {
			Name string `json:"name"`
			Path string `json:"path"`
		} `json:"profiles"`
	}
	if err := getJSON(baseURL, "/api/config/profiles", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  CONFIG PROFILES"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 46)))
	fmt.Printf("  Config dir: %s\n\n", resp.ConfigDir)

	if len(resp.Profiles) == 0 {
		fmt.Println(colorize(dim, "  (no profiles found)"))
		fmt.Println()
		return nil
	}

	for _, p := range resp.Profiles {
		fmt.Printf("  %-20s %s\n", p.Name, colorize(dim, p.Path))
	}
	fmt.Println()

	return nil
}
