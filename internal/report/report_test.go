package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/report"
)

func sampleData() report.Data {
	top := model.CropPrediction{
		Crop: "rice", Confidence: 92.4,
		YieldKgPerHa: 3600, PricePerQuintal: 2000, EstimatedRevenue: 720000,
	}
	return report.Data{
		City: "Pune",
		Conditions: model.FarmConditions{
			Nitrogen: 100, Phosphorus: 20, Potassium: 30,
			Temperature: 25.5, Humidity: 90, PHValue: 6.2, Rainfall: 300,
		},
		TopCrop: &top,
		TopThree: []model.CropPrediction{
			top,
			{Crop: "wheat", Confidence: 87.4, YieldKgPerHa: 2880, PricePerQuintal: 2500, EstimatedRevenue: 720000},
			{Crop: "maize", Confidence: 84.4, YieldKgPerHa: 3960, PricePerQuintal: 1800, EstimatedRevenue: 712800},
		},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Render(&buf, sampleData()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		"Crop Recommendation Report",
		"Rice",  // title-cased crop name
		"92.4%", // confidence
		"3,600", // grouped yield
		"₹720,000",
		"Wheat",
		"Maize",
		"Option 1",
		"Option 3",
		"25.5°C",
		"90%",
		"300 mm",
		"6.2",
		"Pune",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderStampsIDAndTime(t *testing.T) {
	var buf bytes.Buffer
	data := sampleData()
	data.ID = ""
	if err := report.Render(&buf, data); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), "Report  ·") {
		t.Error("expected a generated report ID")
	}
}

func TestRenderWithoutRecommendation(t *testing.T) {
	var buf bytes.Buffer
	data := sampleData()
	data.TopCrop = nil
	data.TopThree = nil
	if err := report.Render(&buf, data); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "Top Recommendation") {
		t.Error("top recommendation section should be omitted without a crop")
	}
	if !strings.Contains(html, "Soil Analysis") {
		t.Error("soil section must always render")
	}
}

func TestDefaultFilename(t *testing.T) {
	at := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	if got := report.DefaultFilename(at); got != "crop-report-2026-09-01.html" {
		t.Errorf("DefaultFilename: got %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")
	written, err := report.WriteFile(path, sampleData())
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if written != path {
		t.Errorf("expected path %q, got %q", path, written)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.Contains(string(data), "Indra Dhanu") {
		t.Error("report file missing footer")
	}
}
