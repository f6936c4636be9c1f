package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/render"
	"github.com/indradhanu/indradhanu/internal/soil"
)

var soilDefault bool

var soilCmd = &cobra.Command{
	Use:   "soil [region]",
	Short: "Look up regional soil averages",
	Long: `Resolve a city or region name to average nitrogen, phosphorus, potassium,
and pH values from the bundled reference table. Matching tries the exact
name first, then the first partial match in table order.

With --default the built-in reference entry is shown.`,
	Example: `  indradhanu soil pune
  indradhanu soil "mumbai suburban"
  indradhanu soil --default`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()

		var entry *model.SoilDefaults
		command := "soil"
		switch {
		case soilDefault:
			entry = soil.Fallback()
		case len(args) == 0:
			return fmt.Errorf("specify a region, or --default for the reference entry")
		default:
			entry, err = deps.Soil.Lookup(args[0])
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("no soil data for region %q\n\n  Use: indradhanu soil list", args[0])
			}
			command = "soil " + normalizeCity(args[0])
		}

		result := buildResult(model.KindSoil, command, entry, start, 1)
		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

var soilListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all regions in the soil reference table",
	Example: `  indradhanu soil list
  indradhanu soil list --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		entries := deps.Soil.Entries()

		result := buildResult(model.KindSoil, "soil list", entries, start, len(entries))
		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(soilCmd)
	soilCmd.AddCommand(soilListCmd)
	soilCmd.Flags().BoolVar(&soilDefault, "default", false,
		"show the built-in reference entry")
}
