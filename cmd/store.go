package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indradhanu/indradhanu/internal/store"
)

var storeClearAll bool

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect and maintain the local database",
	Long: `Commands for inspecting what data has accumulated in the local database:
preferences, the last weather snapshot, and recommendation history.`,
}

// ─── store stats ──────────────────────────────────────────────────────────────

var storeStatsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show row counts and sizes per bucket",
	Example: `  indradhanu store stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		stats, err := deps.Store.Stats()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		var totalCount int
		var totalBytes int64
		printSimpleTable(cmd.OutOrStdout(), []string{"BUCKET", "ENTRIES", "BYTES"}, func(add func(...string)) {
			for _, s := range stats {
				add(s.Name, fmt.Sprintf("%d", s.Count), fmt.Sprintf("%d", s.Bytes))
				totalCount += s.Count
				totalBytes += s.Bytes
			}
		})
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d entries  •  %d bytes  •  %s\n",
			totalCount, totalBytes, deps.Store.Path())
		return nil
	},
}

// ─── store clear ──────────────────────────────────────────────────────────────

var storeClearCmd = &cobra.Command{
	Use:   "clear [bucket]",
	Short: "Delete entries from a bucket, or everything with --all",
	Example: `  indradhanu store clear history
  indradhanu store clear --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		if storeClearAll {
			if err := deps.Store.ClearAll(); err != nil {
				return err
			}
			if !deps.Config.Quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "✓ All buckets cleared")
			}
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("specify a bucket (%v) or --all", store.AllBuckets)
		}
		name := args[0]
		valid := false
		for _, b := range store.AllBuckets {
			if b == name {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown bucket %q (valid: %v)", name, store.AllBuckets)
		}

		if err := deps.Store.ClearBucket(name); err != nil {
			return err
		}
		if !deps.Config.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Bucket %s cleared\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeStatsCmd)
	storeCmd.AddCommand(storeClearCmd)

	storeClearCmd.Flags().BoolVar(&storeClearAll, "all", false, "clear every bucket")
}
