// Package autofill merges the weather lookup and the regional soil defaults
// into one form-state update.
//
// The two lookups are independent and run concurrently. Weather is
// mandatory: if it fails, the whole merge fails with the weather error. Soil
// is optional: an unknown region (or an unreadable reference table) leaves
// the user's prior N/P/K/pH values untouched and only the three climate
// fields are filled.
package autofill

import (
	"context"
	"fmt"

	"github.com/indradhanu/indradhanu/internal/model"
)

// WeatherResolver resolves a city to a current weather snapshot.
type WeatherResolver interface {
	ResolveWeather(ctx context.Context, city string) (*model.WeatherSnapshot, error)
}

// SoilResolver resolves a region to soil defaults. A nil entry with nil
// error means the region is unknown.
type SoilResolver interface {
	Lookup(region string) (*model.SoilDefaults, error)
}

// SnapshotStore persists the last fetched weather snapshot.
type SnapshotStore interface {
	PutLastWeather(model.WeatherSnapshot) error
}

// Outcome distinguishes the merge's partial-success states explicitly
// rather than leaving callers to infer them from nullable fields.
type Outcome int

const (
	// OutcomeBoth: weather and soil both merged; all 7 fields filled.
	OutcomeBoth Outcome = iota
	// OutcomeWeatherOnly: soil absent or unreadable; climate fields only.
	OutcomeWeatherOnly
)

// Merge is the result of one auto-fill call.
type Merge struct {
	Conditions   model.FarmConditions   `json:"conditions"`
	FilledFields []string               `json:"filled_fields"`
	SoilFound    bool                   `json:"soil_found"`
	Outcome      Outcome                `json:"-"`
	Snapshot     *model.WeatherSnapshot `json:"snapshot,omitempty"`
	Soil         *model.SoilDefaults    `json:"soil,omitempty"`
	Warnings     []string               `json:"warnings,omitempty"`
}

// Merger composes the two lookups and the snapshot cache.
type Merger struct {
	weather   WeatherResolver
	soil      SoilResolver
	snapshots SnapshotStore // may be nil (no persistence)
}

// NewMerger builds a Merger. snapshots may be nil to disable persistence.
func NewMerger(weather WeatherResolver, soil SoilResolver, snapshots SnapshotStore) *Merger {
	return &Merger{weather: weather, soil: soil, snapshots: snapshots}
}

// AutoFill fetches weather and soil defaults for city concurrently and
// merges them over base. FilledFields records exactly which of the 7 field
// names were overwritten: the three climate fields on the weather-only path,
// all seven when soil is present. On weather success the raw snapshot is
// persisted unconditionally, even when soil is absent.
func (m *Merger) AutoFill(ctx context.Context, city string, base model.FarmConditions) (*Merge, error) {
	type weatherResult struct {
		snap *model.WeatherSnapshot
		err  error
	}
	type soilResult struct {
		entry *model.SoilDefaults
		err   error
	}

	// Fan out both lookups; join on both settling. The merge never acts on
	// one result before the other has landed.
	weatherCh := make(chan weatherResult, 1)
	soilCh := make(chan soilResult, 1)

	go func() {
		snap, err := m.weather.ResolveWeather(ctx, city)
		weatherCh <- weatherResult{snap: snap, err: err}
	}()
	go func() {
		entry, err := m.soil.Lookup(city)
		soilCh <- soilResult{entry: entry, err: err}
	}()

	wr := <-weatherCh
	sr := <-soilCh

	if wr.err != nil {
		return nil, wr.err
	}

	merge := &Merge{
		Conditions: base,
		Snapshot:   wr.snap,
	}

	merge.Conditions.Temperature = wr.snap.Temperature
	merge.Conditions.Humidity = wr.snap.Humidity
	merge.Conditions.Rainfall = wr.snap.Rainfall

	switch {
	case sr.err != nil:
		merge.Outcome = OutcomeWeatherOnly
		merge.Warnings = append(merge.Warnings, fmt.Sprintf("soil defaults unavailable: %v", sr.err))
	case sr.entry == nil:
		merge.Outcome = OutcomeWeatherOnly
	default:
		merge.Outcome = OutcomeBoth
		merge.SoilFound = true
		merge.Soil = sr.entry
		merge.Conditions.Nitrogen = sr.entry.Nitrogen
		merge.Conditions.Phosphorus = sr.entry.Phosphorus
		merge.Conditions.Potassium = sr.entry.Potassium
		merge.Conditions.PHValue = sr.entry.PHValue
	}

	if merge.SoilFound {
		merge.FilledFields = []string{
			model.FieldNitrogen, model.FieldPhosphorus, model.FieldPotassium,
			model.FieldTemperature, model.FieldHumidity, model.FieldPHValue, model.FieldRainfall,
		}
	} else {
		merge.FilledFields = []string{
			model.FieldTemperature, model.FieldHumidity, model.FieldRainfall,
		}
	}

	if m.snapshots != nil {
		if err := m.snapshots.PutLastWeather(*wr.snap); err != nil {
			merge.Warnings = append(merge.Warnings, fmt.Sprintf("caching weather snapshot: %v", err))
		}
	}

	return merge, nil
}
