// Package config handles loading and resolving indradhanu configuration.
// Resolution order (first non-empty value wins):
//  1. CLI flags
//  2. Environment variables (INDRADHANU_*), including values from a .env
//     file in the working directory
//  3. config.json in the current working directory
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultConfigFile = "config.json"
	DefaultFormat     = "table"
	// One uniform deadline for every external call (prediction, geocoding,
	// forecast); report download included.
	DefaultTimeout = 10 * time.Second
	DefaultRate    = 5.0

	DefaultPredictURL   = "https://crop-recommendation-api-vudg.onrender.com"
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"

	EnvPredictURL = "INDRADHANU_PREDICT_URL"
	EnvDBPath     = "INDRADHANU_DB_PATH"
)

// File is the on-disk representation of config.json.
type File struct {
	PredictURL    string  `json:"predict_url"`
	GeocodingURL  string  `json:"geocoding_url"`
	ForecastURL   string  `json:"forecast_url"`
	SoilTablePath string  `json:"soil_table_path"`
	RulesPath     string  `json:"rules_path"`
	DefaultFormat string  `json:"default_format"`
	Timeout       string  `json:"timeout"`
	Rate          float64 `json:"rate"`
	DBPath        string  `json:"db_path"`
}

// Config is the fully-resolved runtime configuration.
// All callers use this struct; the File is only read during loading.
type Config struct {
	PredictURL    string
	GeocodingURL  string
	ForecastURL   string
	SoilTablePath string // empty = bundled table
	RulesPath     string // empty = bundled substitution rules
	Format        string
	Timeout       time.Duration
	Rate          float64
	DBPath        string
	ConfigPath    string // path of the config.json that was loaded (empty if none found)

	// Runtime overrides set from CLI flags after Load()
	Quiet   bool
	Verbose bool
	Debug   bool
}

// Load resolves configuration from all sources.
func Load() (*Config, error) {
	// A .env file, if present, seeds the environment before it is read.
	_ = godotenv.Load()

	cfg := &Config{
		PredictURL:   DefaultPredictURL,
		GeocodingURL: DefaultGeocodingURL,
		ForecastURL:  DefaultForecastURL,
		Format:       DefaultFormat,
		Timeout:      DefaultTimeout,
		Rate:         DefaultRate,
	}

	// Layer 1: config.json (lowest priority)
	if f, path, err := loadFile(); err == nil {
		applyFile(cfg, f, path)
	}

	// Layer 2: environment variables
	if v := os.Getenv(EnvPredictURL); v != "" {
		cfg.PredictURL = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}

	// Set default DB path if still unset
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DBPath = filepath.Join(home, ".indradhanu", "indradhanu.db")
		}
	}

	return cfg, nil
}

// loadFile attempts to read config.json from the current working directory.
func loadFile() (*File, string, error) {
	path, err := filepath.Abs(DefaultConfigFile)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("config.json not found at %s", path)
		}
		return nil, "", fmt.Errorf("reading config.json: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parsing config.json: %w", err)
	}
	return &f, path, nil
}

// applyFile copies values from a parsed File into cfg,
// skipping any fields that are zero/empty.
func applyFile(cfg *Config, f *File, path string) {
	cfg.ConfigPath = path
	if f.PredictURL != "" {
		cfg.PredictURL = f.PredictURL
	}
	if f.GeocodingURL != "" {
		cfg.GeocodingURL = f.GeocodingURL
	}
	if f.ForecastURL != "" {
		cfg.ForecastURL = f.ForecastURL
	}
	if f.SoilTablePath != "" {
		cfg.SoilTablePath = f.SoilTablePath
	}
	if f.RulesPath != "" {
		cfg.RulesPath = f.RulesPath
	}
	if f.DefaultFormat != "" {
		cfg.Format = f.DefaultFormat
	}
	if f.Timeout != "" {
		if d, err := time.ParseDuration(f.Timeout); err == nil {
			cfg.Timeout = d
		}
	}
	if f.Rate > 0 {
		cfg.Rate = f.Rate
	}
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
}

// Template returns a File populated with sensible defaults, suitable for
// writing an initial config.json via `indradhanu config init`.
func Template() File {
	return File{
		PredictURL:    DefaultPredictURL,
		GeocodingURL:  DefaultGeocodingURL,
		ForecastURL:   DefaultForecastURL,
		DefaultFormat: DefaultFormat,
		Timeout:       "10s",
		Rate:          DefaultRate,
	}
}

// WriteFile serialises a File to the given path.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}
