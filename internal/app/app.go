// Package app wires together configuration, the external clients, and local
// state into a single Deps struct that commands receive at runtime.
package app

import (
	"fmt"

	"github.com/indradhanu/indradhanu/internal/config"
	"github.com/indradhanu/indradhanu/internal/enrich"
	"github.com/indradhanu/indradhanu/internal/predict"
	"github.com/indradhanu/indradhanu/internal/prefs"
	"github.com/indradhanu/indradhanu/internal/soil"
	"github.com/indradhanu/indradhanu/internal/store"
	"github.com/indradhanu/indradhanu/internal/weather"
)

// Deps holds all runtime dependencies injected into command Run functions.
// Store and Prefs are opened lazily via RequireStore, since read-only
// commands (soil lookup, version) never need the database.
type Deps struct {
	Config    *config.Config
	Predictor *predict.Client
	Weather   *weather.Client
	Soil      *soil.Table
	Enricher  *enrich.Engine

	Store *store.Store
	Prefs *prefs.Preferences
}

// New builds a Deps from resolved config. The soil table and substitution
// rules come from the bundled data unless config points at replacements.
func New(cfg *config.Config) (*Deps, error) {
	soilTable, err := loadSoilTable(cfg)
	if err != nil {
		return nil, err
	}
	enricher, err := loadEnricher(cfg)
	if err != nil {
		return nil, err
	}

	return &Deps{
		Config:    cfg,
		Predictor: predict.NewClient(cfg.PredictURL, cfg.Timeout, cfg.Rate, cfg.Debug),
		Weather:   weather.NewClient(cfg.GeocodingURL, cfg.ForecastURL, cfg.Timeout, cfg.Debug),
		Soil:      soilTable,
		Enricher:  enricher,
	}, nil
}

func loadSoilTable(cfg *config.Config) (*soil.Table, error) {
	if cfg.SoilTablePath != "" {
		return soil.LoadFile(cfg.SoilTablePath)
	}
	return soil.Load()
}

func loadEnricher(cfg *config.Config) (*enrich.Engine, error) {
	if cfg.RulesPath != "" {
		return enrich.NewFromFile(cfg.RulesPath)
	}
	return enrich.New()
}

// RequireStore opens the local database and loads preferences. Idempotent.
func (d *Deps) RequireStore() error {
	if d.Store != nil {
		return nil
	}
	if d.Config.DBPath == "" {
		return fmt.Errorf("no database path configured")
	}
	s, err := store.Open(d.Config.DBPath)
	if err != nil {
		return err
	}
	p, err := prefs.Load(s)
	if err != nil {
		s.Close()
		return err
	}
	d.Store = s
	d.Prefs = p
	return nil
}

// Close releases the store if it was opened.
func (d *Deps) Close() error {
	if d.Store == nil {
		return nil
	}
	err := d.Store.Close()
	d.Store = nil
	d.Prefs = nil
	return err
}
