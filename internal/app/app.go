// Package app wires together the HTTP server, WebSocket hub, the NTN
// decision core, and either the live orchestrator runners or the demo
// runner. It owns the daemon's lifecycle and is the single source of
// truth for the current operating state.
package app

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/large-farva/ntn-handover-core/internal/audit"
	"github.com/large-farva/ntn-handover-core/internal/config"
	"github.com/large-farva/ntn-handover-core/internal/core"
	"github.com/large-farva/ntn-handover-core/internal/demo"
	"github.com/large-farva/ntn-handover-core/internal/events"
	"github.com/large-farva/ntn-handover-core/internal/geometry"
	"github.com/large-farva/ntn-handover-core/internal/signal"
	"github.com/large-farva/ntn-handover-core/internal/snapshot"
	"github.com/large-farva/ntn-handover-core/internal/tle"
	"github.com/large-farva/ntn-handover-core/internal/ws"
)

// maxCachedRecordsPerUE bounds the in-memory prediction/event history kept
// for the HTTP API so memory use doesn't grow unbounded over a long run.
const maxCachedRecordsPerUE = 200

// Options holds everything the App needs from the caller.
type Options struct {
	Logger     *log.Logger
	Cfg        config.Config
	Bind       string
	ConfigPath string
	UEsPath    string
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// App is the top-level daemon process. It manages the HTTP server, the
// WebSocket event hub, and the active runner set (live core or demo).
type App struct {
	log *log.Logger

	cfgMu      sync.RWMutex
	cfg        config.Config
	configPath string
	uesPath    string

	bind   string
	server *http.Server

	startedAt time.Time
	state     atomic.Value // current state string (BOOTING, IDLE, etc.)

	wsHub  *ws.Hub
	core   *core.Core
	audit  *audit.Writer
	cancel context.CancelFunc

	logBufMu sync.Mutex
	logBuf   []logEntry

	recMu      sync.Mutex
	predCache  map[string][]core.PredictionRecord
	eventCache map[string][]events.Record
	stats      statCounters
}

type statCounters struct {
	mu         sync.Mutex
	TotalTicks int64
	Handovers  int64
	Errors     int64
}

// New creates an App in the BOOTING state. Call Run to start serving.
func New(opts Options) *App {
	a := &App{
		log:        opts.Logger,
		cfg:        opts.Cfg,
		configPath: opts.ConfigPath,
		uesPath:    opts.UEsPath,
		bind:       opts.Bind,
		startedAt:  time.Now(),
		wsHub:      ws.NewHub(),
		predCache:  make(map[string][]core.PredictionRecord),
		eventCache: make(map[string][]events.Record),
	}
	a.state.Store("BOOTING")
	return a
}

// Run starts the HTTP server, WebSocket hub, heartbeat ticker, and either
// the live core (TLE-driven per-UE orchestrators) or the demo runner. It
// blocks until the context is cancelled or the server returns an error.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	bind := a.bind
	if bind == "" && a.cfg.Server.Bind != "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	mux := http.NewServeMux()
	a.registerRoutes(mux)

	a.server = &http.Server{
		Addr:              bind,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("listening on http://%s", bind)

	auditWriter, err := audit.NewWriter(audit.DefaultPath(a.cfg.Data.Root), a.wsHub)
	if err != nil {
		a.log.Printf("audit log unavailable: %v", err)
	} else {
		a.audit = auditWriter
	}

	go a.wsHub.Run(ctx)
	a.transition("IDLE")
	go a.heartbeatLoop(ctx)

	if a.cfg.Demo.Enabled {
		r := demo.New(a.wsHub)
		if a.cfg.Demo.IntervalSeconds > 0 {
			r.Interval = time.Duration(a.cfg.Demo.IntervalSeconds) * time.Second
		}
		go r.Run(ctx, a.setState)
	} else {
		if err := a.startLiveCore(ctx); err != nil {
			a.log.Printf("live core startup failed, falling back to demo: %v", err)
			r := demo.New(a.wsHub)
			go r.Run(ctx, a.setState)
		}
	}

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		if a.audit != nil {
			_ = a.audit.Close()
		}
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

// startLiveCore loads TLEs and the UE roster, builds a core.Core, and
// starts one orchestrator.Runner goroutine per UE.
func (a *App) startLiveCore(ctx context.Context) error {
	cfg := a.getConfig()

	obs := geometry.Observer{
		LatitudeDeg:  cfg.Observer.Latitude,
		LongitudeDeg: cfg.Observer.Longitude,
		AltitudeM:    cfg.Observer.Altitude,
		MinElevDeg:   cfg.Observer.MinElevation,
	}
	linkParams := signal.LinkParameters{
		CarrierHz:            cfg.Link.CarrierHz,
		EIRPDBm:              cfg.Link.EIRPDBm,
		UEAntennaGainDB:      cfg.Link.UEAntennaGainDB,
		NoiseFigureDB:        cfg.Link.NoiseFigureDB,
		ResourceBlocks:       cfg.Link.ResourceBlocks,
		ImplementationLossDB: cfg.Link.ImplementationLossDB,
		Subcarriers:          cfg.Link.Subcarriers,
	}
	loss := signal.ElevationDependentLossProvider{ZenithLossDB: cfg.Link.AtmosphericZenithLoss}
	builder := snapshot.NewBuilder(obs, linkParams, loss)

	coreCfg := core.Config{
		ConstellationTag: cfg.TLE.Constellation,
		LinkParams:       linkParams,
		EventConfig:      eventConfigFrom(cfg),
		Weights:          accessWeightsFrom(cfg),
		TickInterval:     time.Duration(cfg.Predictor.TickMS) * time.Millisecond,
		PredictionDelta:  time.Duration(cfg.Predictor.PredictionDeltaMS) * time.Millisecond,
		MinElevationDeg:  cfg.Observer.MinElevation,
	}
	a.core = core.NewCore(coreCfg, builder, loss)

	src := tle.NewHTTPSource(cfg.TLE.URL, cfg.Data.Root, time.Duration(cfg.TLE.RefreshHours)*time.Hour, nil)
	rc, err := src.FetchLatest(ctx, cfg.TLE.Constellation)
	if err != nil {
		return err
	}
	defer rc.Close()
	batch, err := tle.Load(rc, cfg.TLE.Constellation)
	if err != nil {
		return err
	}
	a.core.ReloadTLE(batch)

	ues, err := loadUEsOrDefault(a.uesPath)
	if err != nil {
		return err
	}

	sink := &appSink{app: a}
	for _, ue := range ues {
		runner := a.core.RegisterUE(ue, sink)
		go func() { _ = runner.Run(ctx) }()
	}

	return nil
}

// transition atomically updates the daemon state and broadcasts the
// change to all connected WebSocket clients.
func (a *App) transition(newState string) {
	old, _ := a.state.Load().(string)
	if old == newState {
		return
	}
	a.state.Store(newState)

	ev := map[string]any{
		"type":      "state",
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"from":      old,
		"to":        newState,
		"component": "ntn-core",
	}
	a.wsHub.BroadcastJSON(ev)
}

func (a *App) setState(newState string) { a.transition(newState) }

// heartbeatLoop sends a periodic heartbeat event so clients can detect
// connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			ev := map[string]any{
				"type":           "heartbeat",
				"ts":             time.Now().UTC().Format(time.RFC3339Nano),
				"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
				"state":          a.stateString(),
			}
			a.wsHub.BroadcastJSON(ev)
		}
	}
}

func (a *App) stateString() string {
	s, _ := a.state.Load().(string)
	return s
}

func (a *App) getConfig() config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

// emit stamps a payload with a timestamp and component name, then pushes
// it to every connected WebSocket client and the audit log.
func (a *App) emit(component string, payload map[string]any) {
	payload["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	payload["component"] = component
	a.wsHub.BroadcastJSON(payload)
}

// appSink adapts App to orchestrator.Sink, fanning out each tick result
// to the audit log and any structured log buffer.
type appSink struct{ app *App }

func (s *appSink) Publish(ue string, result any) {
	if s.app.audit != nil {
		_ = s.app.audit.Record(result)
	}

	s.app.stats.mu.Lock()
	s.app.stats.TotalTicks++
	s.app.stats.mu.Unlock()

	rec, ok := result.(core.PredictionRecord)
	if !ok {
		return
	}

	s.app.recMu.Lock()
	s.app.predCache[ue] = appendCapped(s.app.predCache[ue], rec, maxCachedRecordsPerUE)
	if len(rec.FiredEvents) > 0 {
		merged := append(s.app.eventCache[ue], rec.FiredEvents...)
		if len(merged) > maxCachedRecordsPerUE {
			merged = merged[len(merged)-maxCachedRecordsPerUE:]
		}
		s.app.eventCache[ue] = merged
		s.app.stats.mu.Lock()
		s.app.stats.Handovers++
		s.app.stats.mu.Unlock()
	}
	s.app.recMu.Unlock()

	for _, fired := range rec.FiredEvents {
		s.app.emit("core", map[string]any{
			"type":        "measurement_event",
			"ue":          rec.UE,
			"eventType":   string(fired.Type),
			"candidateId": fired.CandidateID,
		})
	}

	lowConfidence := false
	if rec.Prediction.Refinement != nil {
		lowConfidence = rec.Prediction.Refinement.LowConfidence
	}
	s.app.emit("core", map[string]any{
		"type":               "prediction",
		"ue":                 rec.UE,
		"measId":             rec.MeasID,
		"servingSatelliteId": rec.ServingSatelliteID,
		"rsrpResult":         rec.RSRPResult,
		"rsrqResult":         rec.RSRQResult,
		"decision":           string(rec.Plan.Decision),
		"willChange":         rec.Prediction.WillChange,
		"confidenceScore":    rec.Prediction.ConfidenceScore,
		"lowConfidence":      lowConfidence,
	})
}

func (s *appSink) PublishError(ue string, err error) {
	s.app.stats.mu.Lock()
	s.app.stats.Errors++
	s.app.stats.mu.Unlock()
	s.app.logEvent("warn", ue+": "+err.Error())
}

func appendCapped[T any](slice []T, v T, max int) []T {
	slice = append(slice, v)
	if len(slice) > max {
		slice = slice[len(slice)-max:]
	}
	return slice
}

// logEvent appends a log entry to the bounded ring buffer and fans it out
// over the WebSocket hub, so /api/logs and `ntnctl watch --filter log`
// agree.
func (a *App) logEvent(level, message string) {
	a.appendLog(level, message)
	a.emit("ntn-core", map[string]any{
		"type":    "log",
		"level":   level,
		"message": message,
	})
}

func (a *App) appendLog(level, message string) {
	a.logBufMu.Lock()
	defer a.logBufMu.Unlock()
	a.logBuf = append(a.logBuf, logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Message:   message,
	})
	const maxBuf = 1000
	if len(a.logBuf) > maxBuf {
		a.logBuf = a.logBuf[len(a.logBuf)-maxBuf:]
	}
}

func jsonResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
