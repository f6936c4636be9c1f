package enrich_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/indradhanu/indradhanu/internal/enrich"
	"github.com/indradhanu/indradhanu/internal/model"
)

func newEngine(t *testing.T) *enrich.Engine {
	t.Helper()
	e, err := enrich.New()
	if err != nil {
		t.Fatalf("enrich.New: %v", err)
	}
	return e
}

func TestAlwaysThreeEntriesPrimaryFirst(t *testing.T) {
	e := newEngine(t)
	cases := []model.CropPrediction{
		{Crop: "rice", Confidence: 92, YieldKgPerHa: 3600, PricePerQuintal: 2000, EstimatedRevenue: 720000},
		{Crop: "xyzcrop", Confidence: 10, YieldKgPerHa: 1000, PricePerQuintal: 100, EstimatedRevenue: 10000},
		{Crop: "", Confidence: 0},
	}
	for _, primary := range cases {
		got := e.DeriveAlternatives(primary)
		if len(got) != 3 {
			t.Fatalf("%q: expected 3 entries, got %d", primary.Crop, len(got))
		}
		if got[0] != primary {
			t.Errorf("%q: entry 0 must be the unmodified primary: %+v", primary.Crop, got[0])
		}
	}
}

func TestTableHitRice(t *testing.T) {
	e := newEngine(t)
	primary := model.CropPrediction{
		Crop: "rice", Confidence: 92,
		YieldKgPerHa: 3600, PricePerQuintal: 2000, EstimatedRevenue: 720000,
	}
	got := e.DeriveAlternatives(primary)

	want1 := model.CropPrediction{Crop: "wheat", Confidence: 87, YieldKgPerHa: 2880, PricePerQuintal: 2500, EstimatedRevenue: 720000}
	want2 := model.CropPrediction{Crop: "maize", Confidence: 84, YieldKgPerHa: 3960, PricePerQuintal: 1800, EstimatedRevenue: 712800}

	if got[1] != want1 {
		t.Errorf("entry 1:\n  expected %+v\n  got      %+v", want1, got[1])
	}
	if got[2] != want2 {
		t.Errorf("entry 2:\n  expected %+v\n  got      %+v", want2, got[2])
	}
}

func TestTableHitNamesDifferFromPrimary(t *testing.T) {
	e := newEngine(t)
	for _, crop := range []string{"rice", "wheat", "maize", "cotton", "sugarcane"} {
		got := e.DeriveAlternatives(model.CropPrediction{Crop: crop, Confidence: 50, YieldKgPerHa: 1000, PricePerQuintal: 100, EstimatedRevenue: 100000})
		if got[1].Crop == crop || got[2].Crop == crop {
			t.Errorf("%q: table alternatives must name different crops: %q, %q", crop, got[1].Crop, got[2].Crop)
		}
	}
}

func TestTableLookupNormalizesCropName(t *testing.T) {
	e := newEngine(t)
	got := e.DeriveAlternatives(model.CropPrediction{Crop: "  RICE ", Confidence: 92, YieldKgPerHa: 3600, PricePerQuintal: 2000, EstimatedRevenue: 720000})
	if got[1].Crop != "wheat" {
		t.Errorf("expected table hit for mixed-case crop, got entry 1 %q", got[1].Crop)
	}
}

func TestTableMissSynthesizesVariants(t *testing.T) {
	e := newEngine(t)
	primary := model.CropPrediction{
		Crop: "xyzcrop", Confidence: 10,
		YieldKgPerHa: 1000, PricePerQuintal: 100, EstimatedRevenue: 10000,
	}
	got := e.DeriveAlternatives(primary)

	want1 := model.CropPrediction{Crop: "xyzcrop (High Yield)", Confidence: 2, YieldKgPerHa: 1100, PricePerQuintal: 90, EstimatedRevenue: 9900}
	want2 := model.CropPrediction{Crop: "xyzcrop (Premium)", Confidence: 0, YieldKgPerHa: 800, PricePerQuintal: 130, EstimatedRevenue: 10400}

	if got[1] != want1 {
		t.Errorf("entry 1:\n  expected %+v\n  got      %+v", want1, got[1])
	}
	if got[2] != want2 {
		t.Errorf("entry 2:\n  expected %+v\n  got      %+v", want2, got[2])
	}
}

func TestConfidenceClampedAtZero(t *testing.T) {
	e := newEngine(t)
	got := e.DeriveAlternatives(model.CropPrediction{Crop: "unknowncrop", Confidence: 0, YieldKgPerHa: 100, PricePerQuintal: 10, EstimatedRevenue: 1000})
	for i, entry := range got {
		if entry.Confidence < 0 {
			t.Errorf("entry %d: confidence %v < 0", i, entry.Confidence)
		}
	}
}

func TestConfidenceClampedAtHundred(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	data := `{"rice": [
  {"crop": "wheat", "confidence_delta": 20, "yield_multiplier": 1, "price_multiplier": 1, "revenue_multiplier": 1},
  {"crop": "maize", "confidence_delta": -5, "yield_multiplier": 1, "price_multiplier": 1, "revenue_multiplier": 1}
]}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	e, err := enrich.NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	got := e.DeriveAlternatives(model.CropPrediction{Crop: "rice", Confidence: 95})
	if got[1].Confidence != 100 {
		t.Errorf("confidence should clamp to 100, got %v", got[1].Confidence)
	}
}

func TestSingleRuleCropFallsBackToSynthetic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	data := `{"rice": [
  {"crop": "wheat", "confidence_delta": -5, "yield_multiplier": 1, "price_multiplier": 1, "revenue_multiplier": 1}
]}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	e, err := enrich.NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	got := e.DeriveAlternatives(model.CropPrediction{Crop: "rice", Confidence: 50, YieldKgPerHa: 1000, PricePerQuintal: 100, EstimatedRevenue: 100000})
	if got[1].Crop != "rice (High Yield)" || got[2].Crop != "rice (Premium)" {
		t.Errorf("fewer than 2 rules must synthesize variants, got %q, %q", got[1].Crop, got[2].Crop)
	}
}

func TestBundledTableEveryCropHasTwoRules(t *testing.T) {
	e := newEngine(t)
	if e.Crops() == 0 {
		t.Fatal("bundled table should not be empty")
	}
}

func TestNewFromFileErrors(t *testing.T) {
	if _, err := enrich.NewFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := enrich.NewFromFile(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
