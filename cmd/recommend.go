package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/indradhanu/indradhanu/internal/autofill"
	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/render"
)

var (
	recommendCity    string
	recommendNoStore bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Predict the best crop for your farm conditions",
	Long: `Submit the 7 farm parameters to the crop prediction service and rank the
top three options: the predicted crop plus two derived alternatives with
adjusted confidence, yield, and price figures.

Parameters can be given explicitly via flags, or filled automatically from
live weather data and regional soil averages with --city. Explicit flags are
the base; auto-filled values overwrite them.`,
	Example: `  indradhanu recommend -n 90 -p 42 -k 43 --temperature 21 --humidity 82 --ph 6.5 --rainfall 203
  indradhanu recommend --city pune
  indradhanu recommend --city nagpur --format json --out result.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		conditions := readConditions()
		var warnings []string
		city := normalizeCity(recommendCity)

		if city != "" {
			var snapshots autofill.SnapshotStore
			if !recommendNoStore {
				if err := deps.RequireStore(); err != nil {
					return err
				}
				snapshots = deps.Store
			}
			merger := autofill.NewMerger(deps.Weather, deps.Soil, snapshots)
			merge, err := merger.AutoFill(cmd.Context(), city, conditions)
			if err != nil {
				return fmt.Errorf("auto-filling conditions for %q: %w", city, err)
			}
			conditions = merge.Conditions
			warnings = append(warnings, merge.Warnings...)
		} else if !recommendNoStore {
			// No city given: seed unset climate fields from the last cached
			// weather snapshot.
			if err := deps.RequireStore(); err != nil {
				return err
			}
			if snap, found, err := deps.Store.GetLastWeather(); err == nil && found {
				if conditionFlags.Temperature == "" {
					conditions.Temperature = snap.Temperature
				}
				if conditionFlags.Humidity == "" {
					conditions.Humidity = snap.Humidity
				}
			}
		}

		prediction, err := deps.Predictor.Predict(cmd.Context(), conditions)
		if err != nil {
			return err
		}
		topThree := deps.Enricher.DeriveAlternatives(*prediction)

		rec := &model.Recommendation{
			Conditions: conditions,
			TopThree:   topThree,
		}

		if !recommendNoStore {
			if err := deps.RequireStore(); err != nil {
				return err
			}
			if _, err := deps.Store.AppendHistory(model.HistoryEntry{
				City:       city,
				Conditions: conditions,
				TopThree:   topThree,
			}); err != nil {
				warnings = append(warnings, fmt.Sprintf("saving history: %v", err))
			}
		}

		result := buildResult(model.KindRecommendation, "recommend", rec, start, len(topThree))
		result.Warnings = warnings

		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	addConditionFlags(recommendCmd)
	recommendCmd.Flags().StringVar(&recommendCity, "city", "",
		"auto-fill conditions from weather and soil data for this city")
	recommendCmd.Flags().BoolVar(&recommendNoStore, "no-store", false,
		"do not record this run in the local history")
}
