package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/report"
)

var (
	reportID   string
	reportCity string
	cropFlags  struct {
		Crop       string
		Confidence float64
		Yield      float64
		Price      float64
		Revenue    float64
	}
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a recommendation run as a printable HTML report",
	Long: `Assemble the stored conditions and top-three crops of a recommendation run
into a self-contained HTML document, ready for browser print-to-PDF.

By default the most recent run is used; --id selects an older one by its
ID (a unique prefix is enough, as shown by 'history'). Alternatively a
report can be built without any stored run by giving the conditions and the
predicted crop explicitly via flags.`,
	Example: `  indradhanu report
  indradhanu report --out pune-report.html
  indradhanu report --id 0c7a1f2e
  indradhanu report --crop rice --confidence 92.4 --yield 3600 --price 2000 --revenue 720000 -n 90 -p 42 -k 43`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		var entry model.HistoryEntry
		if cropFlags.Crop != "" {
			primary := model.CropPrediction{
				Crop:             cropFlags.Crop,
				Confidence:       cropFlags.Confidence,
				YieldKgPerHa:     cropFlags.Yield,
				PricePerQuintal:  cropFlags.Price,
				EstimatedRevenue: cropFlags.Revenue,
			}
			entry = model.HistoryEntry{
				City:       normalizeCity(reportCity),
				Conditions: readConditions(),
				TopThree:   deps.Enricher.DeriveAlternatives(primary),
			}
		} else {
			entry, err = selectEntry(deps.Store.ListHistory, reportID)
			if err != nil {
				return err
			}
		}

		city := entry.City
		if city == "" {
			city = deps.Prefs.DefaultCity()
		}

		data := report.Data{
			City:       city,
			Conditions: entry.Conditions,
			TopThree:   entry.TopThree,
		}
		if len(entry.TopThree) > 0 {
			data.TopCrop = &entry.TopThree[0]
		}

		path := globalFlags.Out
		if path == "" {
			path = report.DefaultFilename(time.Now())
		}
		written, err := report.WriteFile(path, data)
		if err != nil {
			return err
		}
		if !deps.Config.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Report written to %s\n", written)
		}
		return nil
	},
}

// selectEntry picks the run to report on: the newest one, or the single run
// whose ID starts with idPrefix.
func selectEntry(list func(limit int) ([]model.HistoryEntry, error), idPrefix string) (model.HistoryEntry, error) {
	if idPrefix == "" {
		entries, err := list(1)
		if err != nil {
			return model.HistoryEntry{}, err
		}
		if len(entries) == 0 {
			return model.HistoryEntry{}, fmt.Errorf("no recommendation runs stored yet\n\n  Use: indradhanu recommend --city <city>")
		}
		return entries[0], nil
	}

	entries, err := list(0)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	var matches []model.HistoryEntry
	for _, e := range entries {
		if strings.HasPrefix(e.ID, idPrefix) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return model.HistoryEntry{}, fmt.Errorf("no stored run with ID %q", idPrefix)
	case 1:
		return matches[0], nil
	default:
		return model.HistoryEntry{}, fmt.Errorf("ID %q is ambiguous: matches %d runs", idPrefix, len(matches))
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addConditionFlags(reportCmd)
	f := reportCmd.Flags()
	f.StringVar(&reportID, "id", "", "report on a specific run by ID prefix")
	f.StringVar(&reportCity, "city", "", "city label when building a report from flags")
	f.StringVar(&cropFlags.Crop, "crop", "", "predicted crop (build report from flags instead of history)")
	f.Float64Var(&cropFlags.Confidence, "confidence", 0, "prediction confidence (%)")
	f.Float64Var(&cropFlags.Yield, "yield", 0, "expected yield (kg/ha)")
	f.Float64Var(&cropFlags.Price, "price", 0, "market price (₹/quintal)")
	f.Float64Var(&cropFlags.Revenue, "revenue", 0, "estimated revenue (₹)")
}
