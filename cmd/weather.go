package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/render"
)

var weatherCached bool

var weatherCmd = &cobra.Command{
	Use:   "weather [city]",
	Short: "Look up current weather for a city",
	Long: `Resolve a city name to coordinates and fetch the current temperature,
relative humidity, and precipitation. The snapshot is saved locally so the
most recent lookup survives restarts.

Without a city argument the saved default city is used. With --cached the
last stored snapshot is shown without any network call.`,
	Example: `  indradhanu weather pune
  indradhanu weather
  indradhanu weather --cached`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		format := resolveFormat(deps.Config.Format)

		if weatherCached {
			if err := deps.RequireStore(); err != nil {
				return err
			}
			snap, found, err := deps.Store.GetLastWeather()
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no cached weather snapshot\n\n  Use: indradhanu weather <city>")
			}
			result := buildResult(model.KindWeather, "weather --cached", &snap, start, 1)
			if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
				return err
			}
			render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
			return nil
		}

		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		city, err := resolveCity(deps, arg)
		if err != nil {
			return err
		}

		snap, err := deps.Weather.ResolveWeather(cmd.Context(), city)
		if err != nil {
			return err
		}

		result := buildResult(model.KindWeather, "weather "+city, snap, start, 1)

		if err := deps.RequireStore(); err == nil {
			if err := deps.Store.PutLastWeather(*snap); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("caching weather snapshot: %v", err))
			}
		}

		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(weatherCmd)
	weatherCmd.Flags().BoolVar(&weatherCached, "cached", false,
		"show the last stored snapshot without a network call")
}
