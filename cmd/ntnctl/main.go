// Command ntnctl is the command-line client for monitoring and controlling
// a running ntn-core instance. It connects over HTTP and WebSocket to query
// decision state and stream live events from the daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/large-farva/ntn-handover-core/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "ntn-core daemon URL (e.g. http://10.0.0.5:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,log)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --ue are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// ── Query commands ────────────────────────────────────────────
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "satellites":
		err = ctl.Satellites(*host, *jsonOut)

	case "ues":
		err = ctl.UEs(*host, *jsonOut)

	case "config":
		err = ctl.Config(*host, *jsonOut)

	case "config-list":
		err = ctl.ConfigProfiles(*host, *jsonOut)

	case "predictions":
		predFlags := pflag.NewFlagSet("predictions", pflag.ContinueOnError)
		ue := predFlags.String("ue", "", "Filter by UE ID")
		limit := predFlags.Int("limit", 20, "Limit number of records shown")
		_ = predFlags.Parse(subArgs)
		err = ctl.Predictions(*host, *ue, *limit, *jsonOut)

	case "events":
		evFlags := pflag.NewFlagSet("events", pflag.ContinueOnError)
		ue := evFlags.String("ue", "", "Filter by UE ID")
		limit := evFlags.Int("limit", 20, "Limit number of records shown")
		_ = evFlags.Parse(subArgs)
		err = ctl.Events(*host, *ue, *limit, *jsonOut)

	case "accuracy":
		accFlags := pflag.NewFlagSet("accuracy", pflag.ContinueOnError)
		ue := accFlags.String("ue", "", "UE ID (required)")
		_ = accFlags.Parse(subArgs)
		if *ue == "" {
			fmt.Fprintln(os.Stderr, "error: --ue is required")
			os.Exit(2)
		}
		err = ctl.Accuracy(*host, *ue, *jsonOut)

	case "tle-info":
		err = ctl.TLEInfo(*host, *jsonOut)

	case "stats":
		err = ctl.Stats(*host, *jsonOut)

	case "logs":
		opts := ctl.LogsOptions{JSON: *jsonOut}
		logFlags := pflag.NewFlagSet("logs", pflag.ContinueOnError)
		logFlags.StringVar(&opts.Level, "level", "", "Filter by log level (info, error, warn)")
		logFlags.IntVar(&opts.Limit, "limit", 0, "Limit number of log entries shown")
		logFlags.BoolVar(&opts.Tail, "tail", false, "Stream live log events (like watch --filter log)")
		_ = logFlags.Parse(subArgs)
		err = ctl.Logs(*host, opts)

	case "system-info":
		err = ctl.SystemInfo(*host, *jsonOut)

	// ── Control commands ──────────────────────────────────────────
	case "pause":
		pauseFlags := pflag.NewFlagSet("pause", pflag.ContinueOnError)
		ue := pauseFlags.String("ue", "", "UE ID (required)")
		_ = pauseFlags.Parse(subArgs)
		if *ue == "" {
			fmt.Fprintln(os.Stderr, "error: --ue is required")
			os.Exit(2)
		}
		err = ctl.Pause(*host, *ue, *jsonOut)

	case "resume":
		resumeFlags := pflag.NewFlagSet("resume", pflag.ContinueOnError)
		ue := resumeFlags.String("ue", "", "UE ID (required)")
		_ = resumeFlags.Parse(subArgs)
		if *ue == "" {
			fmt.Fprintln(os.Stderr, "error: --ue is required")
			os.Exit(2)
		}
		err = ctl.Resume(*host, *ue, *jsonOut)

	case "delta-t":
		deltaFlags := pflag.NewFlagSet("delta-t", pflag.ContinueOnError)
		ue := deltaFlags.String("ue", "", "UE ID (required)")
		intervalMS := deltaFlags.Int64("interval-ms", 0, "New tick interval in milliseconds (required)")
		_ = deltaFlags.Parse(subArgs)
		if *ue == "" || *intervalMS <= 0 {
			fmt.Fprintln(os.Stderr, "error: --ue and --interval-ms are required")
			os.Exit(2)
		}
		err = ctl.SetDeltaT(*host, *ue, *intervalMS, *jsonOut)

	case "reload":
		opts := ctl.ReloadOptions{JSON: *jsonOut}
		reloadFlags := pflag.NewFlagSet("reload", pflag.ContinueOnError)
		reloadFlags.StringVar(&opts.Profile, "profile", "", "Switch to a named config profile")
		_ = reloadFlags.Parse(subArgs)
		err = ctl.Reload(*host, opts)

	// ── Live streaming ────────────────────────────────────────────
	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  ntnctl — NTN handover core control CLI

  USAGE
    ntnctl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show daemon state, uptime, and current mode
    health          Check daemon and component health
    version         Show CLI and daemon version information
    satellites      List satellites currently tracked by the propagator
    ues             List registered UEs and their serving satellite
    predictions     Show recent prediction ticks
    events          Show recently fired measurement events
    accuracy        Show a UE's rolling prediction accuracy
    config          Show the daemon's running configuration
    config-list     List available config profiles
    tle-info        Show TLE cache status and freshness
    stats           Show aggregate decision statistics
    logs            Show recent daemon log messages
    system-info     Show runtime and host information

  COMMANDS (control)
    pause           Pause a UE's orchestrator loop
    resume          Resume a paused UE's orchestrator loop
    delta-t         Adjust a UE's tick interval
    reload          Reload configuration from disk

  COMMANDS (live)
    watch           Stream live events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    predictions:
        --ue ID             Filter by UE ID
        --limit N           Limit number of records shown (default: 20)

    events:
        --ue ID             Filter by UE ID
        --limit N           Limit number of records shown (default: 20)

    accuracy:
        --ue ID             UE ID (required)

    logs:
        --level LEVEL       Filter by log level (info, error, warn)
        --limit N           Limit number of log entries shown
        --tail              Stream live log events

    pause / resume:
        --ue ID             UE ID (required)

    delta-t:
        --ue ID             UE ID (required)
        --interval-ms MS    New tick interval in milliseconds (required)

    reload:
        --profile NAME      Switch to a named config profile

  EXAMPLES
    ntnctl status
    ntnctl --json status
    ntnctl --host http://10.0.0.5:8080 watch
    ntnctl ues
    ntnctl predictions --ue ue-1 --limit 10
    ntnctl events --ue ue-1
    ntnctl accuracy --ue ue-1
    ntnctl pause --ue ue-1
    ntnctl resume --ue ue-1
    ntnctl delta-t --ue ue-1 --interval-ms 500
    ntnctl tle-info
    ntnctl logs --level error --limit 20
    ntnctl config-list
    ntnctl system-info
    ntnctl stats
    ntnctl reload
    ntnctl reload --profile example
    ntnctl watch --filter state,log,prediction

`)
}
