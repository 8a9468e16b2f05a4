// Package config handles loading, defaulting, and validation of the NTN
// handover core's TOML configuration file. Every section maps to a typed
// struct so the rest of the codebase gets strong typing without manual
// key lookups.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Data      DataConfig      `toml:"data"      json:"data"`
	Logging   LoggingConfig   `toml:"logging"   json:"logging"`
	Server    ServerConfig    `toml:"server"    json:"server"`
	Demo      DemoConfig      `toml:"demo"      json:"demo"`
	Observer  ObserverConfig  `toml:"observer"  json:"observer"`
	Link      LinkConfig      `toml:"link"      json:"link"`
	Events    EventConfig     `toml:"events"    json:"events"`
	Access    AccessConfig    `toml:"access"    json:"access"`
	Predictor PredictorConfig `toml:"predictor" json:"predictor"`
	TLE       TLEConfig       `toml:"tle"       json:"tle"`
}

type DataConfig struct {
	Root    string `toml:"root"    json:"root"`
	Archive string `toml:"archive" json:"archive"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

type DemoConfig struct {
	Enabled         bool `toml:"enabled"          json:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds" json:"interval_seconds"`
}

// ObserverConfig is the ground station position used for all topocentric
// geometry (spec.md §3's Observer).
type ObserverConfig struct {
	Latitude     float64 `toml:"latitude"      json:"latitude"`
	Longitude    float64 `toml:"longitude"     json:"longitude"`
	Altitude     float64 `toml:"altitude"      json:"altitude"`
	MinElevation float64 `toml:"min_elevation" json:"min_elevation"`
	UseGPSD      bool    `toml:"use_gpsd"      json:"use_gpsd"`
	GPSDHost     string  `toml:"gpsd_host"     json:"gpsd_host"`
}

// LinkConfig carries the static radio parameters feeding the link-budget
// model (spec.md §4.4).
type LinkConfig struct {
	CarrierHz            float64 `toml:"carrier_hz"             json:"carrier_hz"`
	EIRPDBm              float64 `toml:"eirp_dbm"               json:"eirp_dbm"`
	UEAntennaGainDB      float64 `toml:"ue_antenna_gain_db"     json:"ue_antenna_gain_db"`
	NoiseFigureDB        float64 `toml:"noise_figure_db"        json:"noise_figure_db"`
	ResourceBlocks       int     `toml:"resource_blocks"        json:"resource_blocks"`
	AtmosphericZenithLoss float64 `toml:"atmospheric_zenith_loss_db" json:"atmospheric_zenith_loss_db"`
	ImplementationLossDB float64 `toml:"implementation_loss_db" json:"implementation_loss_db"`
	Subcarriers          int     `toml:"subcarriers"            json:"subcarriers"`
}

// EventConfig carries the 3GPP measurement event thresholds (spec.md §4.6).
type EventConfig struct {
	HysteresisDB   float64 `toml:"hysteresis_db"    json:"hysteresis_db"`
	TimeToTriggerMS int    `toml:"time_to_trigger_ms" json:"time_to_trigger_ms"`
	A3OffsetDB     float64 `toml:"a3_offset_db"     json:"a3_offset_db"`
	A4ThresholdDBm float64 `toml:"a4_threshold_dbm" json:"a4_threshold_dbm"`
	A5Threshold1   float64 `toml:"a5_threshold1_dbm" json:"a5_threshold1_dbm"`
	A5Threshold2   float64 `toml:"a5_threshold2_dbm" json:"a5_threshold2_dbm"`
	D2Threshold1KM float64 `toml:"d2_threshold1_km" json:"d2_threshold1_km"`
	D2Threshold2KM float64 `toml:"d2_threshold2_km" json:"d2_threshold2_km"`
	HysteresisKM   float64 `toml:"hysteresis_km"    json:"hysteresis_km"`
}

// AccessConfig carries the composite scoring weights (spec.md §4.7).
type AccessConfig struct {
	WeightSignal   float64 `toml:"weight_signal"   json:"weight_signal"`
	WeightCapacity float64 `toml:"weight_capacity" json:"weight_capacity"`
	WeightPerf     float64 `toml:"weight_perf"     json:"weight_perf"`
	WeightCost     float64 `toml:"weight_cost"     json:"weight_cost"`
	WeightCompat   float64 `toml:"weight_compat"   json:"weight_compat"`
	WeightBalance  float64 `toml:"weight_balance"  json:"weight_balance"`
}

// PredictorConfig carries the tick cadence and prediction horizon
// (spec.md §4.8-§4.11).
type PredictorConfig struct {
	TickMS            int  `toml:"tick_ms"             json:"tick_ms"`
	PredictionDeltaMS int  `toml:"prediction_delta_ms" json:"prediction_delta_ms"`
	AutoAdaptDeltaT   bool `toml:"auto_adapt_delta_t"  json:"auto_adapt_delta_t"`
}

type TLEConfig struct {
	URL             string `toml:"url"               json:"url"`
	RefreshHours    int    `toml:"refresh_hours"     json:"refresh_hours"`
	Constellation   string `toml:"constellation"     json:"constellation"`
}

// DefaultConfigDir returns the XDG-compliant config directory for the
// NTN handover core. It respects $XDG_CONFIG_HOME and falls back to
// ~/.config/ntn-core.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ntn-core")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ntn-core")
}

// DefaultDataDir returns the XDG-compliant data directory for the NTN
// handover core. It respects $XDG_DATA_HOME and falls back to
// ~/.local/share/ntn-core.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "ntn-core")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "ntn-core")
}

// FindConfigFile searches for a config file in standard locations:
//  1. $NTN_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/ntn-core/config.toml
//  3. /etc/ntn-core/ntn-core.toml
//  4. configs/example.toml (bundled fallback)
//
// Returns the path to the first file found, or empty string if none exist.
// An empty return means the caller should use Default() directly.
func FindConfigFile() string {
	if env := os.Getenv("NTN_CONFIG"); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env
		}
	}

	xdgPath := filepath.Join(DefaultConfigDir(), "config.toml")
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}

	legacyPath := "/etc/ntn-core/ntn-core.toml"
	if _, err := os.Stat(legacyPath); err == nil {
		return legacyPath
	}

	if _, err := os.Stat("configs/example.toml"); err == nil {
		return "configs/example.toml"
	}

	return ""
}

// ProfileInfo describes a config profile discovered in the config directory.
type ProfileInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
}

// ListProfiles scans a directory for .toml files and returns them as profiles.
func ListProfiles(configDir string) ([]ProfileInfo, error) {
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var profiles []ProfileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".toml")
		profiles = append(profiles, ProfileInfo{
			Name:    name,
			Path:    filepath.Join(configDir, e.Name()),
			ModTime: info.ModTime(),
		})
	}
	return profiles, nil
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field.
func Default() Config {
	dataDir := DefaultDataDir()
	return Config{
		Data: DataConfig{
			Root:    dataDir,
			Archive: filepath.Join(dataDir, "archive"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Bind: "0.0.0.0:8080",
		},
		Demo: DemoConfig{
			Enabled:         true,
			IntervalSeconds: 1,
		},
		Observer: ObserverConfig{
			Latitude:     0.0,
			Longitude:    0.0,
			Altitude:     0.0,
			MinElevation: 10,
			UseGPSD:      false,
			GPSDHost:     "localhost:2947",
		},
		Link: LinkConfig{
			CarrierHz:             20e9,
			EIRPDBm:               55,
			UEAntennaGainDB:       35,
			NoiseFigureDB:         7,
			ResourceBlocks:        50,
			AtmosphericZenithLoss: 0.5,
			ImplementationLossDB:  3.0,
			Subcarriers:           1200,
		},
		Events: EventConfig{
			HysteresisDB:    2.0,
			TimeToTriggerMS: 320,
			A3OffsetDB:      3.0,
			A4ThresholdDBm:  -110,
			A5Threshold1:    -115,
			A5Threshold2:    -105,
			D2Threshold1KM:  5000,
			D2Threshold2KM:  4000,
			HysteresisKM:    50,
		},
		Access: AccessConfig{
			WeightSignal:   0.25,
			WeightCapacity: 0.20,
			WeightPerf:     0.20,
			WeightCost:     0.15,
			WeightCompat:   0.10,
			WeightBalance:  0.10,
		},
		Predictor: PredictorConfig{
			TickMS:            1000,
			PredictionDeltaMS: 10000,
			AutoAdaptDeltaT:   false,
		},
		TLE: TLEConfig{
			URL:           "https://celestrak.org/NORAD/elements/gp.php?GROUP=starlink&FORMAT=tle",
			RefreshHours:  6,
			Constellation: "starlink",
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. Data directories are created automatically if they
// don't exist.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	// Expand ~ in path fields so users can write "~/.local/share/..." in TOML.
	cfg.Data.Root = expandHome(cfg.Data.Root)
	cfg.Data.Archive = expandHome(cfg.Data.Archive)

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, ensureDirs(cfg)
}

// EnsureDirectories creates the XDG config dir and data directories.
// Called by the daemon on startup regardless of whether a config file was found.
func EnsureDirectories(cfg Config) error {
	if err := os.MkdirAll(DefaultConfigDir(), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return ensureDirs(cfg)
}

func ensureDirs(cfg Config) error {
	if err := os.MkdirAll(cfg.Data.Root, 0o755); err != nil {
		return fmt.Errorf("create data root: %w", err)
	}
	if err := os.MkdirAll(cfg.Data.Archive, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func validate(cfg Config) error {
	if cfg.Data.Root == "" {
		return errors.New("data.root must not be empty")
	}
	if cfg.Data.Archive == "" {
		return errors.New("data.archive must not be empty")
	}
	if cfg.Demo.IntervalSeconds < 0 {
		return errors.New("demo.interval_seconds must be >= 0")
	}
	if cfg.Observer.MinElevation < 0 || cfg.Observer.MinElevation > 90 {
		return errors.New("observer.min_elevation must be between 0 and 90")
	}
	if cfg.TLE.RefreshHours < 1 {
		return errors.New("tle.refresh_hours must be >= 1")
	}
	if cfg.Predictor.TickMS < 1 {
		return errors.New("predictor.tick_ms must be >= 1")
	}
	if cfg.Predictor.PredictionDeltaMS < 1 {
		return errors.New("predictor.prediction_delta_ms must be >= 1")
	}
	sumWeights := cfg.Access.WeightSignal + cfg.Access.WeightCapacity + cfg.Access.WeightPerf +
		cfg.Access.WeightCost + cfg.Access.WeightCompat + cfg.Access.WeightBalance
	if sumWeights < 0.99 || sumWeights > 1.01 {
		return fmt.Errorf("access weights must sum to 1.0, got %v", sumWeights)
	}
	return nil
}
