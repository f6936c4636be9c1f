package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/render"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past recommendation runs, newest first",
	Example: `  indradhanu history
  indradhanu history --limit 5 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		start := time.Now()
		entries, err := deps.Store.ListHistory(historyLimit)
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No recommendation runs stored yet.")
			fmt.Fprintln(cmd.OutOrStdout(), "  Use: indradhanu recommend --city <city>")
			return nil
		}

		result := buildResult(model.KindHistory, "history", entries, start, len(entries))
		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Delete all stored runs",
	Example: `  indradhanu history clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		if err := deps.Store.ClearBucket("history"); err != nil {
			return err
		}
		if !deps.Config.Quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "✓ History cleared")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "max entries to show (0 = all)")
}
