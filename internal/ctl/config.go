package ctl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Config fetches and displays the daemon's running configuration.
func Config(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	// Decode into a generic map to preserve all fields for both display modes.
	var raw json.RawMessage
	if err := getJSON(baseURL, "/api/config", &raw); err != nil {
		return err
	}

	if jsonOutput {
		var v any
		_ = json.Unmarshal(raw, &v)
		return printJSON(v)
	}

	// Decode into ordered sections for human-readable output.
	var cfg struct {
		Data struct {
			Root    string `json:"root"`
			Archive string `json:"archive"`
		} `json:"data"`
		Logging struct {
			Level string `json:"level"`
		} `json:"logging"`
		Server struct {
			Bind string `json:"bind"`
		} `json:"server"`
		Demo struct {
			Enabled         bool `json:"enabled"`
			IntervalSeconds int  `json:"interval_seconds"`
		} `json:"demo"`
		Observer struct {
			Latitude     float64 `json:"latitude"`
			Longitude    float64 `json:"longitude"`
			Altitude     float64 `json:"altitude"`
			MinElevation float64 `json:"min_elevation"`
			UseGPSD      bool    `json:"use_gpsd"`
			GPSDHost     string  `json:"gpsd_host"`
		} `json:"observer"`
		Link struct {
			CarrierHz             float64 `json:"carrier_hz"`
			EIRPDBm               float64 `json:"eirp_dbm"`
			UEAntennaGainDB       float64 `json:"ue_antenna_gain_db"`
			NoiseFigureDB         float64 `json:"noise_figure_db"`
			ResourceBlocks        int     `json:"resource_blocks"`
			AtmosphericZenithLoss float64 `json:"atmospheric_zenith_loss_db"`
			ImplementationLossDB  float64 `json:"implementation_loss_db"`
			Subcarriers           int     `json:"subcarriers"`
		} `json:"link"`
		Events struct {
			HysteresisDB    float64 `json:"hysteresis_db"`
			TimeToTriggerMS int     `json:"time_to_trigger_ms"`
			A3OffsetDB      float64 `json:"a3_offset_db"`
			A4ThresholdDBm  float64 `json:"a4_threshold_dbm"`
			A5Threshold1    float64 `json:"a5_threshold1_dbm"`
			A5Threshold2    float64 `json:"a5_threshold2_dbm"`
			D2Threshold1KM  float64 `json:"d2_threshold1_km"`
			D2Threshold2KM  float64 `json:"d2_threshold2_km"`
			HysteresisKM    float64 `json:"hysteresis_km"`
		} `json:"events"`
		Access struct {
			WeightSignal   float64 `json:"weight_signal"`
			WeightCapacity float64 `json:"weight_capacity"`
			WeightPerf     float64 `json:"weight_perf"`
			WeightCost     float64 `json:"weight_cost"`
			WeightCompat   float64 `json:"weight_compat"`
			WeightBalance  float64 `json:"weight_balance"`
		} `json:"access"`
		Predictor struct {
			TickMS            int  `json:"tick_ms"`
			PredictionDeltaMS int  `json:"prediction_delta_ms"`
			AutoAdaptDeltaT   bool `json:"auto_adapt_delta_t"`
		} `json:"predictor"`
		TLE struct {
			URL           string `json:"url"`
			RefreshHours  int    `json:"refresh_hours"`
			Constellation string `json:"constellation"`
		} `json:"tle"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(header("  DAEMON CONFIGURATION"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 50)))

	section := func(name string) {
		fmt.Printf("\n  %s\n", colorize(bold, "["+name+"]"))
	}
	field := func(key string, val any) {
		fmt.Printf("    %-24s %v\n", colorize(dim, key+":"), val)
	}

	section("data")
	field("root", cfg.Data.Root)
	field("archive", cfg.Data.Archive)

	section("logging")
	field("level", cfg.Logging.Level)

	section("server")
	field("bind", cfg.Server.Bind)

	section("demo")
	field("enabled", cfg.Demo.Enabled)
	field("interval_seconds", cfg.Demo.IntervalSeconds)

	section("observer")
	field("latitude", cfg.Observer.Latitude)
	field("longitude", cfg.Observer.Longitude)
	field("altitude", cfg.Observer.Altitude)
	field("min_elevation", cfg.Observer.MinElevation)
	field("use_gpsd", cfg.Observer.UseGPSD)
	field("gpsd_host", cfg.Observer.GPSDHost)

	section("link")
	field("carrier_hz", cfg.Link.CarrierHz)
	field("eirp_dbm", cfg.Link.EIRPDBm)
	field("ue_antenna_gain_db", cfg.Link.UEAntennaGainDB)
	field("noise_figure_db", cfg.Link.NoiseFigureDB)
	field("resource_blocks", cfg.Link.ResourceBlocks)
	field("atmospheric_zenith_loss_db", cfg.Link.AtmosphericZenithLoss)
	field("implementation_loss_db", cfg.Link.ImplementationLossDB)
	field("subcarriers", cfg.Link.Subcarriers)

	section("events")
	field("hysteresis_db", cfg.Events.HysteresisDB)
	field("time_to_trigger_ms", cfg.Events.TimeToTriggerMS)
	field("a3_offset_db", cfg.Events.A3OffsetDB)
	field("a4_threshold_dbm", cfg.Events.A4ThresholdDBm)
	field("a5_threshold1_dbm", cfg.Events.A5Threshold1)
	field("a5_threshold2_dbm", cfg.Events.A5Threshold2)
	field("d2_threshold1_km", cfg.Events.D2Threshold1KM)
	field("d2_threshold2_km", cfg.Events.D2Threshold2KM)
	field("hysteresis_km", cfg.Events.HysteresisKM)

	section("access")
	field("weight_signal", cfg.Access.WeightSignal)
	field("weight_capacity", cfg.Access.WeightCapacity)
	field("weight_perf", cfg.Access.WeightPerf)
	field("weight_cost", cfg.Access.WeightCost)
	field("weight_compat", cfg.Access.WeightCompat)
	field("weight_balance", cfg.Access.WeightBalance)

	section("predictor")
	field("tick_ms", cfg.Predictor.TickMS)
	field("prediction_delta_ms", cfg.Predictor.PredictionDeltaMS)
	field("auto_adapt_delta_t", cfg.Predictor.AutoAdaptDeltaT)

	section("tle")
	field("url", cfg.TLE.URL)
	field("refresh_hours", cfg.TLE.RefreshHours)
	field("constellation", cfg.TLE.Constellation)

	fmt.Println()

	return nil
}
