// Package model defines the canonical data types used throughout indradhanu.
// These types are the single source of truth for farm conditions, crop
// predictions, lookup results, and the result envelope that every command
// returns.
package model

import "time"

// ─── Farm Input Types ─────────────────────────────────────────────────────────

// FarmConditions is the 7-parameter input vector submitted to the prediction
// service. Units: N/P/K in kg/ha, temperature in °C, humidity in %, pH
// unitless, rainfall in mm.
type FarmConditions struct {
	Nitrogen    float64 `json:"nitrogen"`
	Phosphorus  float64 `json:"phosphorus"`
	Potassium   float64 `json:"potassium"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PHValue     float64 `json:"ph_value"`
	Rainfall    float64 `json:"rainfall"`
}

// Field names used for auto-fill bookkeeping, in input-form order.
const (
	FieldNitrogen    = "nitrogen"
	FieldPhosphorus  = "phosphorus"
	FieldPotassium   = "potassium"
	FieldTemperature = "temperature"
	FieldHumidity    = "humidity"
	FieldPHValue     = "ph_value"
	FieldRainfall    = "rainfall"
)

// ─── Prediction Types ─────────────────────────────────────────────────────────

// CropPrediction is a single crop recommendation: the primary one returned by
// the prediction API, or a derived alternative. Immutable once produced.
type CropPrediction struct {
	Crop             string  `json:"crop"`
	Confidence       float64 `json:"confidence"`
	YieldKgPerHa     float64 `json:"yield_kg_per_hectare"`
	PricePerQuintal  float64 `json:"price_per_quintal"`
	EstimatedRevenue float64 `json:"estimated_revenue"`
}

// SubstitutionRule derives one alternative crop from a primary prediction.
// ConfidenceDelta is added to the base confidence; the multipliers scale
// yield, price, and revenue independently (revenue is informational and is
// not recomputed from yield × price).
type SubstitutionRule struct {
	Crop              string  `json:"crop"`
	ConfidenceDelta   float64 `json:"confidence_delta"`
	YieldMultiplier   float64 `json:"yield_multiplier"`
	PriceMultiplier   float64 `json:"price_multiplier"`
	RevenueMultiplier float64 `json:"revenue_multiplier"`
}

// ─── Lookup Types ─────────────────────────────────────────────────────────────

// SoilDefaults is one row of the regional soil reference table.
type SoilDefaults struct {
	Region      string  `json:"region"`
	Nitrogen    float64 `json:"nitrogen"`
	Phosphorus  float64 `json:"phosphorus"`
	Potassium   float64 `json:"potassium"`
	PHValue     float64 `json:"ph_value"`
	Description string  `json:"description,omitempty"`
}

// WeatherSnapshot is the result of one geocode → forecast chain.
// Produced per request; persistence is the caller's responsibility.
type WeatherSnapshot struct {
	City        string    `json:"city"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Country     string    `json:"country"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Rainfall    float64   `json:"rainfall"`
	FetchedAt   time.Time `json:"fetched_at,omitempty"`
}

// ─── Preference Types ─────────────────────────────────────────────────────────

// UserProfile is the profile slot of the preferences store.
type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Phone string `json:"phone"`
}

// DefaultProfile returns the placeholder profile used until the user
// configures one. The presentation layer detects "never configured" by
// comparing against these sentinel values.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:  "Your Name",
		Email: "your.email@example.com",
		Role:  "Farmer",
		Phone: "+91 00000 00000",
	}
}

// ─── History Types ────────────────────────────────────────────────────────────

// HistoryEntry is one stored recommendation run.
type HistoryEntry struct {
	ID         string           `json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	City       string           `json:"city,omitempty"`
	Conditions FarmConditions   `json:"conditions"`
	TopThree   []CropPrediction `json:"top_three"`
}

// ─── Result Envelope ──────────────────────────────────────────────────────────

// ResultStats carries performance metadata for a command result.
type ResultStats struct {
	DurationMs int64 `json:"duration_ms"`
	Items      int   `json:"items"`
}

// Result is the uniform envelope returned by every command.
// The Data field holds the typed payload; Kind identifies what is in it.
// Renderers switch on Kind to format output appropriately.
type Result struct {
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Command     string      `json:"command"`
	Data        interface{} `json:"data"`
	Warnings    []string    `json:"warnings,omitempty"`
	Stats       ResultStats `json:"stats"`
}

// Kind constants for Result.Kind.
const (
	KindRecommendation = "recommendation"
	KindWeather        = "weather"
	KindSoil           = "soil"
	KindAutoFill       = "autofill"
	KindHistory        = "history"
	KindPrefs          = "prefs"
)

// Recommendation bundles the submitted conditions with the derived top-three
// list (entry 0 is always the unmodified primary).
type Recommendation struct {
	Conditions FarmConditions   `json:"conditions"`
	TopThree   []CropPrediction `json:"top_three"`
}

// PrefsView is the renderable snapshot of the preference slots.
type PrefsView struct {
	DefaultCity string      `json:"default_city"`
	Profile     UserProfile `json:"user_profile"`
	Language    string      `json:"language"`
}
