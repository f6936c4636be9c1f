package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/render"
)

func sampleResult() *model.Result {
	return &model.Result{
		Kind:        model.KindRecommendation,
		GeneratedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Command:     "recommend",
		Data: &model.Recommendation{
			Conditions: model.FarmConditions{Nitrogen: 100, Temperature: 25.5},
			TopThree: []model.CropPrediction{
				{Crop: "rice", Confidence: 92.4, YieldKgPerHa: 3600, PricePerQuintal: 2000, EstimatedRevenue: 720000},
				{Crop: "wheat", Confidence: 87.4, YieldKgPerHa: 2880, PricePerQuintal: 2500, EstimatedRevenue: 720000},
				{Crop: "maize", Confidence: 84.4, YieldKgPerHa: 3960, PricePerQuintal: 1800, EstimatedRevenue: 712800},
			},
		},
		Stats: model.ResultStats{DurationMs: 12, Items: 3},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Render(&buf, sampleResult(), render.FormatTable); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"CROP", "Rice", "92.4%", "Wheat", "Maize"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q", want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Render(&buf, sampleResult(), render.FormatJSON); err != nil {
		t.Fatalf("Render: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["kind"] != model.KindRecommendation {
		t.Errorf("kind: got %v", decoded["kind"])
	}
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Render(&buf, sampleResult(), render.FormatCSV); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "option,crop,confidence") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,rice,92.4") {
		t.Errorf("unexpected first row: %q", lines[1])
	}
}

func TestRenderWeatherTable(t *testing.T) {
	result := &model.Result{
		Kind: model.KindWeather,
		Data: &model.WeatherSnapshot{
			City: "Pune", Country: "India",
			Temperature: 25.5, Humidity: 90, Rainfall: 0.4,
		},
	}
	var buf bytes.Buffer
	if err := render.Render(&buf, result, render.FormatTable); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Pune", "25.5 °C", "90 %", "0.4 mm"} {
		if !strings.Contains(out, want) {
			t.Errorf("weather table missing %q", want)
		}
	}
}

func TestRenderHistoryTable(t *testing.T) {
	result := &model.Result{
		Kind: model.KindHistory,
		Data: []model.HistoryEntry{
			{
				ID:        "0c7a1f2e-aaaa-bbbb-cccc-000000000000",
				CreatedAt: time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC),
				City:      "Nagpur",
				TopThree:  []model.CropPrediction{{Crop: "cotton", Confidence: 88}},
			},
		},
	}
	var buf bytes.Buffer
	if err := render.Render(&buf, result, render.FormatTable); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Cotton") || !strings.Contains(out, "Nagpur") {
		t.Errorf("history table incomplete: %s", out)
	}
	if !strings.Contains(out, "0c7a1f2e") || strings.Contains(out, "cccc") {
		t.Error("history IDs should be truncated to 8 chars")
	}
}

func TestRenderUnknownKindFallsBackToJSON(t *testing.T) {
	result := &model.Result{Kind: "mystery", Data: map[string]string{"a": "b"}}
	var buf bytes.Buffer
	if err := render.Render(&buf, result, render.FormatTable); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), `"a": "b"`) {
		t.Error("unknown kinds should fall back to JSON")
	}
}

func TestPrintFooter(t *testing.T) {
	result := sampleResult()
	result.Warnings = []string{"soil defaults unavailable"}

	var quiet bytes.Buffer
	render.PrintFooter(&quiet, result, false)
	if !strings.Contains(quiet.String(), "soil defaults unavailable") {
		t.Error("warnings must print even without verbose")
	}
	if strings.Contains(quiet.String(), "items") {
		t.Error("stats should only print in verbose mode")
	}

	var verbose bytes.Buffer
	render.PrintFooter(&verbose, result, true)
	if !strings.Contains(verbose.String(), "3 items") {
		t.Error("verbose footer missing stats")
	}
}
