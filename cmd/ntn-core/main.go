// Command ntn-core is the main daemon for the NTN handover decision core.
//
// It loads configuration, starts the HTTP/WebSocket server, and runs either
// the live orchestrator loop (driven by real TLE data) or a synthetic demo
// loop depending on config. Shutdown is handled gracefully on SIGINT or
// SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/large-farva/ntn-handover-core/internal/app"
	"github.com/large-farva/ntn-handover-core/internal/config"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "Path to config TOML (auto-discovers if omitted)")
		bind       = pflag.String("bind", "", "HTTP bind address (overrides config)")
		uesPath    = pflag.String("ues", "", "Path to UE roster JSON (defaults to a single demo UE)")
	)
	pflag.Parse()

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = config.FindConfigFile()
	}

	logger := log.New(os.Stdout, "ntn-core ", log.LstdFlags|log.Lmicroseconds)

	var cfg config.Config
	if cfgFile == "" {
		cfg = config.Default()
		logger.Printf("no config file found, using defaults")
		logger.Printf("create %s/config.toml to customize", config.DefaultConfigDir())
	} else {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		logger.Printf("loaded config from %s", cfgFile)
	}

	if err := config.EnsureDirectories(cfg); err != nil {
		log.Fatalf("directory setup: %v", err)
	}

	a := app.New(app.Options{
		Logger:     logger,
		Cfg:        cfg,
		Bind:       *bind,
		ConfigPath: cfgFile,
		UEsPath:    *uesPath,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("ntn-core failed: %v", err)
	}

	// Brief pause so in-flight log writes and audit records can flush.
	time.Sleep(50 * time.Millisecond)
}
