// Package enrich derives alternative crop recommendations from a single
// prediction result.
//
// The prediction service returns exactly one crop; downstream consumers
// (results view, report) always present three options. This package closes
// the gap: a curated substitution table maps a primary crop to two ordered
// alternatives with per-crop adjustments, and crops unknown to the table get
// two synthetic variants of the same crop. Derivation never fails and always
// produces exactly three entries, entry 0 being the unmodified primary.
package enrich

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/util"
)

//go:embed substitutions.json
var substitutionData []byte

// Synthetic fallback parameters for crops without a table entry.
const (
	highYieldSuffix     = " (High Yield)"
	highYieldConfDelta  = -8
	highYieldYieldMult  = 1.1
	highYieldPriceMult  = 0.9
	highYieldRevMult    = 0.99
	premiumSuffix       = " (Premium)"
	premiumConfDelta    = -12
	premiumYieldMult    = 0.8
	premiumPriceMult    = 1.3
	premiumRevMult      = 1.04
)

// Engine derives alternatives using a substitution rule table.
type Engine struct {
	rules map[string][]model.SubstitutionRule
}

// New returns an Engine backed by the bundled substitution table.
func New() (*Engine, error) {
	return parse(substitutionData)
}

// NewFromFile reads a replacement rule table from disk, so new crops can be
// added without touching the engine.
func NewFromFile(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading substitution table: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Engine, error) {
	var raw map[string][]model.SubstitutionRule
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing substitution table: %w", err)
	}
	rules := make(map[string][]model.SubstitutionRule, len(raw))
	for crop, rr := range raw {
		rules[strings.ToLower(strings.TrimSpace(crop))] = rr
	}
	return &Engine{rules: rules}, nil
}

// Crops lists the crops the table has rules for.
func (e *Engine) Crops() int { return len(e.rules) }

// DeriveAlternatives expands a primary prediction into exactly three entries.
// Entry 0 is the primary, unmodified. Entries 1 and 2 come from the
// substitution table when the primary crop has at least two rules; otherwise
// they are synthetic same-crop variants. Confidence is clamped to [0, 100].
func (e *Engine) DeriveAlternatives(primary model.CropPrediction) []model.CropPrediction {
	out := make([]model.CropPrediction, 0, 3)
	out = append(out, primary)

	key := strings.ToLower(strings.TrimSpace(primary.Crop))
	if rules, ok := e.rules[key]; ok && len(rules) >= 2 {
		out = append(out, apply(primary, rules[0]), apply(primary, rules[1]))
		return out
	}

	out = append(out,
		apply(primary, model.SubstitutionRule{
			Crop:              primary.Crop + highYieldSuffix,
			ConfidenceDelta:   highYieldConfDelta,
			YieldMultiplier:   highYieldYieldMult,
			PriceMultiplier:   highYieldPriceMult,
			RevenueMultiplier: highYieldRevMult,
		}),
		apply(primary, model.SubstitutionRule{
			Crop:              primary.Crop + premiumSuffix,
			ConfidenceDelta:   premiumConfDelta,
			YieldMultiplier:   premiumYieldMult,
			PriceMultiplier:   premiumPriceMult,
			RevenueMultiplier: premiumRevMult,
		}),
	)
	return out
}

// apply produces one alternative from a rule.
func apply(primary model.CropPrediction, rule model.SubstitutionRule) model.CropPrediction {
	return model.CropPrediction{
		Crop:             rule.Crop,
		Confidence:       clampConfidence(primary.Confidence + rule.ConfidenceDelta),
		YieldKgPerHa:     util.Round(primary.YieldKgPerHa * rule.YieldMultiplier),
		PricePerQuintal:  util.Round(primary.PricePerQuintal * rule.PriceMultiplier),
		EstimatedRevenue: util.Round(primary.EstimatedRevenue * rule.RevenueMultiplier),
	}
}

// clampConfidence bounds confidence to [0, 100]. The upper bound is a
// deliberate tightening: a rule with a positive delta must not push a
// displayed confidence past 100%.
func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
