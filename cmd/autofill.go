package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/indradhanu/indradhanu/internal/autofill"
	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/render"
)

var autofillSaveCity bool

var autofillCmd = &cobra.Command{
	Use:   "autofill [city]",
	Short: "Fill farm parameters from weather and soil data",
	Long: `Fetch current weather for a city and regional soil averages, and merge them
into a complete 7-parameter condition vector. Weather always fills
temperature, humidity, and rainfall; soil averages fill N, P, K, and pH when
the region is known. Unknown regions leave the soil fields at the values
given via flags.

Without a city argument the saved default city is used.`,
	Example: `  indradhanu autofill pune
  indradhanu autofill nagpur --save-city
  indradhanu autofill mumbai -n 50 --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		city, err := resolveCity(deps, arg)
		if err != nil {
			return err
		}

		if err := deps.RequireStore(); err != nil {
			return err
		}

		start := time.Now()

		// When --save-city is set, city and snapshot are persisted together
		// after the merge, so the merger's own snapshot write is skipped.
		var snapshots autofill.SnapshotStore
		if !autofillSaveCity {
			snapshots = deps.Store
		}
		merger := autofill.NewMerger(deps.Weather, deps.Soil, snapshots)
		merge, err := merger.AutoFill(cmd.Context(), city, readConditions())
		if err != nil {
			return fmt.Errorf("auto-filling conditions for %q: %w", city, err)
		}

		if autofillSaveCity {
			if err := deps.Store.PutCityAndWeather(city, *merge.Snapshot); err != nil {
				merge.Warnings = append(merge.Warnings, fmt.Sprintf("saving default city: %v", err))
			}
		}

		result := buildResult(model.KindAutoFill, "autofill "+city, merge, start, len(merge.FilledFields))
		result.Warnings = merge.Warnings

		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(autofillCmd)
	addConditionFlags(autofillCmd)
	autofillCmd.Flags().BoolVar(&autofillSaveCity, "save-city", false,
		"save this city as the default for future runs")
}
