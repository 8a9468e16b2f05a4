package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/large-farva/ntn-handover-core/internal/config"
)

// registerRoutes wires every HTTP endpoint onto mux.
func (a *App) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.Handle("/ws", a.wsHub.Handler())

	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/system", a.handleSystem)
	mux.HandleFunc("/api/health", a.handleHealthDetailed)
	mux.HandleFunc("/api/logs", a.handleLogs)
	mux.HandleFunc("/api/stats", a.handleStats)

	mux.HandleFunc("/api/satellites", a.handleSatellites)
	mux.HandleFunc("/api/ues", a.handleUEs)
	mux.HandleFunc("/api/predictions", a.handlePredictions)
	mux.HandleFunc("/api/events", a.handleEvents)
	mux.HandleFunc("/api/accuracy", a.handleAccuracy)

	mux.HandleFunc("/api/config", a.handleConfig)
	mux.HandleFunc("/api/config/profiles", a.handleConfigProfiles)
	mux.HandleFunc("/api/tle-info", a.handleTLEInfo)

	mux.HandleFunc("/api/pause", a.handlePause)
	mux.HandleFunc("/api/resume", a.handleResume)
	mux.HandleFunc("/api/delta-t", a.handleDeltaT)
	mux.HandleFunc("/api/reload", a.handleReload)
}

// ---------------------------------------------------------------------------
// Core handlers
// ---------------------------------------------------------------------------

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Accept") == "application/json" {
		a.handleHealthDetailed(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()

	resp := map[string]any{
		"name":           "ntn-core",
		"state":          a.stateString(),
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
		"data_root":      cfg.Data.Root,
		"demo_enabled":   cfg.Demo.Enabled,
	}
	if cfg.Demo.Enabled {
		resp["mode"] = "demo"
	} else {
		resp["mode"] = "live"
	}
	if du := diskUsage(cfg.Data.Root); du != nil {
		resp["disk"] = du
	}
	if a.core != nil {
		resp["tracked_satellites"] = len(a.core.TrackedSatellites())
	}
	jsonResponse(w, resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	})
}

// handleSatellites lists every satellite currently tracked by the live
// core's propagator store. In demo mode this is always empty, since the
// demo roster is synthetic and never loaded into a propagator.Store.
func (a *App) handleSatellites(w http.ResponseWriter, _ *http.Request) {
	type satJSON struct {
		SatelliteID string `json:"satellite_id"`
		NoradID     int    `json:"norad_id"`
		Epoch       string `json:"epoch"`
	}
	var sats []satJSON
	if a.core != nil {
		for _, st := range a.core.TrackedSatellites() {
			sats = append(sats, satJSON{
				SatelliteID: st.SatelliteID,
				NoradID:     st.NoradID,
				Epoch:       st.Epoch.Format(time.RFC3339),
			})
		}
	}
	jsonResponse(w, map[string]any{"satellites": sats})
}

func (a *App) handleConfig(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, a.getConfig())
}

func (a *App) handleConfigProfiles(w http.ResponseWriter, _ *http.Request) {
	profiles, err := config.ListProfiles(config.DefaultConfigDir())
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if profiles == nil {
		profiles = []config.ProfileInfo{}
	}
	jsonResponse(w, map[string]any{
		"config_dir": config.DefaultConfigDir(),
		"profiles":   profiles,
	})
}

func (a *App) handleTLEInfo(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()
	path := filepath.Join(cfg.Data.Root, cfg.TLE.Constellation+"_tle_cache.txt")
	info, err := os.Stat(path)
	if err != nil {
		jsonResponse(w, map[string]any{
			"constellation": cfg.TLE.Constellation,
			"cached":        false,
		})
		return
	}
	age := time.Since(info.ModTime())
	maxAge := time.Duration(cfg.TLE.RefreshHours) * time.Hour
	jsonResponse(w, map[string]any{
		"constellation": cfg.TLE.Constellation,
		"cached":        true,
		"path":          path,
		"age_seconds":   int(age.Seconds()),
		"fresh":         age < maxAge,
		"url":           cfg.TLE.URL,
	})
}

// handleUEs lists every registered UE that has published at least one
// prediction, along with its serving satellite, paused state, and current
// orchestrator tick cadence.
func (a *App) handleUEs(w http.ResponseWriter, _ *http.Request) {
	type ueJSON struct {
		ID                 string `json:"id"`
		ServiceClass        string `json:"service_class"`
		ServingSatelliteID string `json:"serving_satellite_id"`
		Paused             bool   `json:"paused"`
		TickCount          int64  `json:"tick_count"`
		IntervalMS         int64  `json:"interval_ms"`
	}

	var out []ueJSON
	if a.core != nil {
		a.recMu.Lock()
		ueIDs := make([]string, 0, len(a.predCache))
		for id := range a.predCache {
			ueIDs = append(ueIDs, id)
		}
		a.recMu.Unlock()

		for _, id := range ueIDs {
			runner, ok := a.core.Runner(id)
			if !ok {
				continue
			}
			recs := a.predCache[id]
			serving := ""
			if len(recs) > 0 {
				serving = recs[len(recs)-1].ServingSatelliteID
			}
			out = append(out, ueJSON{
				ID:                 id,
				ServingSatelliteID: serving,
				Paused:             runner.IsPaused(),
				TickCount:          runner.TickCount(),
				IntervalMS:         runner.Interval().Milliseconds(),
			})
		}
	}
	jsonResponse(w, map[string]any{"ues": out})
}

// handlePredictions returns the cached PredictionRecord history for the
// UE named by ?ue=, or every UE's history if omitted.
func (a *App) handlePredictions(w http.ResponseWriter, r *http.Request) {
	ue := r.URL.Query().Get("ue")
	limit := queryInt(r, "limit", 0)

	a.recMu.Lock()
	defer a.recMu.Unlock()

	if ue != "" {
		recs := a.predCache[ue]
		jsonResponse(w, map[string]any{"ue": ue, "predictions": limitTail(recs, limit)})
		return
	}

	out := make(map[string]any, len(a.predCache))
	for id, recs := range a.predCache {
		out[id] = limitTail(recs, limit)
	}
	jsonResponse(w, map[string]any{"predictions": out})
}

// handleEvents returns the cached fired measurement events for the UE
// named by ?ue=, or every UE's events if omitted.
func (a *App) handleEvents(w http.ResponseWriter, r *http.Request) {
	ue := r.URL.Query().Get("ue")
	limit := queryInt(r, "limit", 0)

	a.recMu.Lock()
	defer a.recMu.Unlock()

	if ue != "" {
		evs := a.eventCache[ue]
		jsonResponse(w, map[string]any{"ue": ue, "events": limitTail(evs, limit)})
		return
	}

	out := make(map[string]any, len(a.eventCache))
	for id, evs := range a.eventCache {
		out[id] = limitTail(evs, limit)
	}
	jsonResponse(w, map[string]any{"events": out})
}

// handleAccuracy reports the rolling prediction accuracy, trend, and the
// currently recommended prediction horizon of the one UE named by ?ue=.
func (a *App) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	if a.core == nil {
		jsonError(w, "not available in demo mode", http.StatusConflict)
		return
	}
	ue := r.URL.Query().Get("ue")
	if ue == "" {
		jsonError(w, "ue parameter required", http.StatusBadRequest)
		return
	}
	trk, ok := a.core.AccuracyTracker(ue)
	if !ok {
		jsonError(w, "unknown ue", http.StatusNotFound)
		return
	}

	cfg := a.getConfig()
	currentDelta := time.Duration(cfg.Predictor.PredictionDeltaMS) * time.Millisecond

	acc100, has100 := trk.RollingAccuracy(100)
	resp := map[string]any{
		"ue":               ue,
		"trend":            trk.Trend(),
		"recommended_delta_ms": trk.RecommendDeltaT(currentDelta).Milliseconds(),
	}
	if has100 {
		resp["accuracy_last_100"] = acc100
	}
	jsonResponse(w, resp)
}

func (a *App) handleSystem(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()
	resp := map[string]any{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"data_root":  cfg.Data.Root,
		"config_dir": config.DefaultConfigDir(),
	}
	if du := diskUsage(cfg.Data.Root); du != nil {
		resp["disk"] = du
	}
	jsonResponse(w, resp)
}

func (a *App) handleLogs(w http.ResponseWriter, r *http.Request) {
	a.logBufMu.Lock()
	entries := make([]logEntry, len(a.logBuf))
	copy(entries, a.logBuf)
	a.logBufMu.Unlock()

	levelFilter := r.URL.Query().Get("level")
	if levelFilter != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Level == levelFilter {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	entries = limitTail(entries, queryInt(r, "limit", 0))
	jsonResponse(w, map[string]any{"logs": entries})
}

func (a *App) handleStats(w http.ResponseWriter, _ *http.Request) {
	a.stats.mu.Lock()
	resp := map[string]any{
		"total_ticks":    a.stats.TotalTicks,
		"handovers":      a.stats.Handovers,
		"errors":         a.stats.Errors,
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
	}
	a.stats.mu.Unlock()
	jsonResponse(w, resp)
}

func (a *App) handleHealthDetailed(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()

	checks := map[string]any{}
	allOK := true

	tmpPath := filepath.Join(cfg.Data.Root, ".healthcheck")
	if err := os.WriteFile(tmpPath, []byte("ok"), 0o644); err != nil {
		checks["data_dir"] = map[string]any{"ok": false, "error": err.Error()}
		allOK = false
	} else {
		os.Remove(tmpPath)
		checks["data_dir"] = map[string]any{"ok": true, "path": cfg.Data.Root}
	}

	if !cfg.Demo.Enabled {
		if a.core == nil {
			checks["core"] = map[string]any{"ok": false, "error": "live core not started"}
			allOK = false
		} else {
			n := len(a.core.TrackedSatellites())
			checks["core"] = map[string]any{"ok": n > 0, "tracked_satellites": n}
			if n == 0 {
				allOK = false
			}
		}
	}

	checks["ws_hub"] = map[string]any{"ok": true, "dropped_broadcasts": a.wsHub.Dropped()}

	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); err != nil {
			checks["config_file"] = map[string]any{"ok": false, "error": err.Error()}
			allOK = false
		} else {
			checks["config_file"] = map[string]any{"ok": true, "path": a.configPath}
		}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"healthy": allOK, "checks": checks})
}

// ---------------------------------------------------------------------------
// Per-UE orchestrator controls
// ---------------------------------------------------------------------------

func (a *App) handlePause(w http.ResponseWriter, r *http.Request) {
	a.withRunner(w, r, func(runner runnerLike) { runner.Pause() }, "paused")
}

func (a *App) handleResume(w http.ResponseWriter, r *http.Request) {
	a.withRunner(w, r, func(runner runnerLike) { runner.Resume() }, "resumed")
}

func (a *App) handleDeltaT(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.core == nil {
		jsonError(w, "not available in demo mode", http.StatusConflict)
		return
	}
	ue := r.URL.Query().Get("ue")
	runner, ok := a.core.Runner(ue)
	if !ok {
		jsonError(w, "unknown ue", http.StatusNotFound)
		return
	}

	var body struct {
		IntervalMS int64 `json:"interval_ms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IntervalMS <= 0 {
		jsonError(w, "body must be {\"interval_ms\": <positive integer>}", http.StatusBadRequest)
		return
	}
	runner.SetInterval(time.Duration(body.IntervalMS) * time.Millisecond)
	jsonResponse(w, map[string]any{"ok": true, "ue": ue, "interval_ms": body.IntervalMS})
}

func (a *App) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Profile string `json:"profile"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	loadPath := a.configPath
	if body.Profile != "" {
		candidate := filepath.Join(config.DefaultConfigDir(), body.Profile+".toml")
		if _, err := os.Stat(candidate); err != nil {
			jsonError(w, fmt.Sprintf("profile %q not found at %s", body.Profile, candidate), http.StatusNotFound)
			return
		}
		loadPath = candidate
	}
	if loadPath == "" {
		jsonError(w, "no config file path set", http.StatusInternalServerError)
		return
	}

	newCfg, err := config.Load(loadPath)
	if err != nil {
		jsonError(w, "config reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	a.cfgMu.Lock()
	a.cfg = newCfg
	a.configPath = loadPath
	a.cfgMu.Unlock()

	a.logEvent("info", fmt.Sprintf("config reloaded from %s", loadPath))

	jsonResponse(w, map[string]any{"ok": true, "message": "configuration reloaded from " + loadPath})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// runnerLike is the subset of orchestrator.Runner the pause/resume
// handlers need; kept narrow so handlers.go doesn't need the orchestrator
// import just for Pause/Resume.
type runnerLike interface {
	Pause()
	Resume()
}

func (a *App) withRunner(w http.ResponseWriter, r *http.Request, fn func(runnerLike), verb string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.core == nil {
		jsonError(w, "not available in demo mode", http.StatusConflict)
		return
	}
	ue := r.URL.Query().Get("ue")
	runner, ok := a.core.Runner(ue)
	if !ok {
		jsonError(w, "unknown ue", http.StatusNotFound)
		return
	}
	fn(runner)
	jsonResponse(w, map[string]any{"ok": true, "ue": ue, "status": verb})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": msg})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func limitTail[T any](s []T, limit int) []T {
	if limit <= 0 || limit >= len(s) {
		return s
	}
	return s[len(s)-limit:]
}
