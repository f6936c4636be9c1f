// Package render converts Result values into human-readable or machine-parseable
// output. Each format is a separate function; the top-level Render dispatcher
// selects based on the format string.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/indradhanu/indradhanu/internal/autofill"
	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/util"
	"github.com/olekukonko/tablewriter"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
)

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatCSV:
		return renderDelimited(w, result, ',')
	case FormatTSV:
		return renderDelimited(w, result, '\t')
	default:
		return renderTable(w, result)
	}
}

// RenderTo writes to stdout by default; if path is non-empty, writes to file.
func RenderTo(path string, result *model.Result, format string) error {
	if path == "" {
		return Render(os.Stdout, result, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return Render(f, result, format)
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, result *model.Result) error {
	switch result.Kind {
	case model.KindRecommendation:
		rec, ok := result.Data.(*model.Recommendation)
		if !ok {
			return fmt.Errorf("unexpected data type for recommendation")
		}
		return renderRecommendationTable(w, rec)
	case model.KindWeather:
		snap, ok := result.Data.(*model.WeatherSnapshot)
		if !ok {
			return fmt.Errorf("unexpected data type for weather")
		}
		return renderWeatherTable(w, snap)
	case model.KindSoil:
		if entries, ok := result.Data.([]model.SoilDefaults); ok {
			return renderSoilSliceTable(w, entries)
		}
		entry, ok := result.Data.(*model.SoilDefaults)
		if !ok {
			return fmt.Errorf("unexpected data type for soil")
		}
		return renderSoilTable(w, entry)
	case model.KindAutoFill:
		merge, ok := result.Data.(*autofill.Merge)
		if !ok {
			return fmt.Errorf("unexpected data type for autofill")
		}
		return renderAutoFillTable(w, merge)
	case model.KindHistory:
		entries, ok := result.Data.([]model.HistoryEntry)
		if !ok {
			return fmt.Errorf("unexpected data type for history")
		}
		return renderHistoryTable(w, entries)
	case model.KindPrefs:
		view, ok := result.Data.(*model.PrefsView)
		if !ok {
			return fmt.Errorf("unexpected data type for prefs")
		}
		return renderPrefsTable(w, view)
	default:
		// Fallback: JSON
		return renderJSON(w, result)
	}
}

func newKVTable(w io.Writer) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"FIELD", "VALUE"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	return tw
}

func renderRecommendationTable(w io.Writer, rec *model.Recommendation) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"OPTION", "CROP", "CONFIDENCE", "YIELD (KG/HA)", "PRICE (₹/Q)", "REVENUE (₹)"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	tw.SetAutoWrapText(false)

	for i, p := range rec.TopThree {
		tw.Append([]string{
			fmt.Sprintf("%d", i+1),
			titleCase(p.Crop),
			fmt.Sprintf("%s%%", util.FormatValue(p.Confidence)),
			util.FormatValue(p.YieldKgPerHa),
			util.FormatValue(p.PricePerQuintal),
			util.FormatValue(p.EstimatedRevenue),
		})
	}
	tw.Render()
	return nil
}

func renderWeatherTable(w io.Writer, snap *model.WeatherSnapshot) error {
	tw := newKVTable(w)
	rows := [][]string{
		{"City", snap.City},
		{"Country", snap.Country},
		{"Latitude", util.FormatValue(snap.Latitude)},
		{"Longitude", util.FormatValue(snap.Longitude)},
		{"Temperature", util.FormatValue(snap.Temperature) + " °C"},
		{"Humidity", util.FormatValue(snap.Humidity) + " %"},
		{"Rainfall", util.FormatValue(snap.Rainfall) + " mm"},
	}
	if !snap.FetchedAt.IsZero() {
		rows = append(rows, []string{"Fetched At", snap.FetchedAt.Format(time.RFC3339)})
	}
	for _, r := range rows {
		tw.Append(r)
	}
	tw.Render()
	return nil
}

func renderSoilTable(w io.Writer, entry *model.SoilDefaults) error {
	tw := newKVTable(w)
	rows := [][]string{
		{"Region", titleCase(entry.Region)},
		{"Nitrogen", util.FormatValue(entry.Nitrogen) + " kg/ha"},
		{"Phosphorus", util.FormatValue(entry.Phosphorus) + " kg/ha"},
		{"Potassium", util.FormatValue(entry.Potassium) + " kg/ha"},
		{"pH", util.FormatValue(entry.PHValue)},
	}
	if entry.Description != "" {
		rows = append(rows, []string{"Description", entry.Description})
	}
	for _, r := range rows {
		tw.Append(r)
	}
	tw.Render()
	return nil
}

func renderSoilSliceTable(w io.Writer, entries []model.SoilDefaults) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"REGION", "N", "P", "K", "PH"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	tw.SetAutoWrapText(false)

	for _, e := range entries {
		tw.Append([]string{
			titleCase(e.Region),
			util.FormatValue(e.Nitrogen),
			util.FormatValue(e.Phosphorus),
			util.FormatValue(e.Potassium),
			util.FormatValue(e.PHValue),
		})
	}
	tw.Render()
	return nil
}

func renderAutoFillTable(w io.Writer, merge *autofill.Merge) error {
	tw := newKVTable(w)
	c := merge.Conditions
	for _, r := range [][]string{
		{"Nitrogen", util.FormatValue(c.Nitrogen) + " kg/ha"},
		{"Phosphorus", util.FormatValue(c.Phosphorus) + " kg/ha"},
		{"Potassium", util.FormatValue(c.Potassium) + " kg/ha"},
		{"Temperature", util.FormatValue(c.Temperature) + " °C"},
		{"Humidity", util.FormatValue(c.Humidity) + " %"},
		{"pH", util.FormatValue(c.PHValue)},
		{"Rainfall", util.FormatValue(c.Rainfall) + " mm"},
		{"Filled Fields", strings.Join(merge.FilledFields, ", ")},
		{"Soil Defaults", yesNo(merge.SoilFound)},
	} {
		tw.Append(r)
	}
	tw.Render()
	return nil
}

func renderHistoryTable(w io.Writer, entries []model.HistoryEntry) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"DATE", "CITY", "TOP CROP", "CONFIDENCE", "ID"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	for _, e := range entries {
		crop, conf := "", ""
		if len(e.TopThree) > 0 {
			crop = titleCase(e.TopThree[0].Crop)
			conf = util.FormatValue(e.TopThree[0].Confidence) + "%"
		}
		id := e.ID
		if len(id) > 8 {
			id = id[:8]
		}
		tw.Append([]string{
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.City,
			crop,
			conf,
			id,
		})
	}
	tw.Render()
	return nil
}

func renderPrefsTable(w io.Writer, view *model.PrefsView) error {
	tw := newKVTable(w)
	for _, r := range [][]string{
		{"Default City", view.DefaultCity},
		{"Name", view.Profile.Name},
		{"Email", view.Profile.Email},
		{"Role", view.Profile.Role},
		{"Phone", view.Profile.Phone},
		{"Language", view.Language},
	} {
		tw.Append(r)
	}
	tw.Render()
	return nil
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

func renderDelimited(w io.Writer, result *model.Result, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	switch result.Kind {
	case model.KindRecommendation:
		rec, ok := result.Data.(*model.Recommendation)
		if !ok {
			return fmt.Errorf("unexpected data type for recommendation")
		}
		_ = cw.Write([]string{"option", "crop", "confidence", "yield_kg_per_hectare", "price_per_quintal", "estimated_revenue"})
		for i, p := range rec.TopThree {
			_ = cw.Write([]string{
				fmt.Sprintf("%d", i+1),
				p.Crop,
				util.FormatValue(p.Confidence),
				util.FormatValue(p.YieldKgPerHa),
				util.FormatValue(p.PricePerQuintal),
				util.FormatValue(p.EstimatedRevenue),
			})
		}
	case model.KindHistory:
		entries, ok := result.Data.([]model.HistoryEntry)
		if !ok {
			return fmt.Errorf("unexpected data type for history")
		}
		_ = cw.Write([]string{"id", "created_at", "city", "top_crop", "confidence"})
		for _, e := range entries {
			crop, conf := "", ""
			if len(e.TopThree) > 0 {
				crop = e.TopThree[0].Crop
				conf = util.FormatValue(e.TopThree[0].Confidence)
			}
			_ = cw.Write([]string{e.ID, e.CreatedAt.Format(time.RFC3339), e.City, crop, conf})
		}
	case model.KindSoil:
		if entries, ok := result.Data.([]model.SoilDefaults); ok {
			_ = cw.Write([]string{"region", "nitrogen", "phosphorus", "potassium", "ph_value"})
			for _, e := range entries {
				_ = cw.Write([]string{
					e.Region,
					util.FormatValue(e.Nitrogen),
					util.FormatValue(e.Phosphorus),
					util.FormatValue(e.Potassium),
					util.FormatValue(e.PHValue),
				})
			}
			break
		}
		entry, ok := result.Data.(*model.SoilDefaults)
		if !ok {
			return fmt.Errorf("unexpected data type for soil")
		}
		_ = cw.Write([]string{"region", "nitrogen", "phosphorus", "potassium", "ph_value"})
		_ = cw.Write([]string{
			entry.Region,
			util.FormatValue(entry.Nitrogen),
			util.FormatValue(entry.Phosphorus),
			util.FormatValue(entry.Potassium),
			util.FormatValue(entry.PHValue),
		})
	default:
		// Fallback: serialize as JSON on a single line
		b, _ := json.Marshal(result.Data)
		_ = cw.Write([]string{string(b)})
	}

	cw.Flush()
	return cw.Error()
}

// ─── Warnings / Stats Footer ─────────────────────────────────────────────────

// PrintFooter writes warnings and stats to w when verbose mode is on.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		fmt.Fprintf(w, "\n[%s • %d items • %dms]\n",
			result.GeneratedAt.Format(time.RFC3339),
			result.Stats.Items,
			result.Stats.DurationMs,
		)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
