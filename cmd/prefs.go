package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/render"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage saved preferences",
	Long: `Read and write the locally saved preference slots: default city, user
profile, and UI language. Every set persists immediately; a get with no
value prints the current one.`,
}

// ─── prefs show ───────────────────────────────────────────────────────────────

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print all saved preferences",
	Example: `  indradhanu prefs show
  indradhanu prefs show --format json`,
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
		view := &model.PrefsView{
			DefaultCity: deps.Prefs.DefaultCity(),
			Profile:     deps.Prefs.Profile(),
			Language:    deps.Prefs.Language(),
		}

		result := buildResult(model.KindPrefs, "prefs show", view, start, 1)
		if !deps.Prefs.IsProfileConfigured() {
			result.Warnings = append(result.Warnings,
				"profile not configured yet: indradhanu prefs profile --name ... --email ...")
		}

		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

// ─── prefs city ───────────────────────────────────────────────────────────────

var prefsCityCmd = &cobra.Command{
	Use:   "city [VALUE]",
	Short: "Get or set the default city",
	Example: `  indradhanu prefs city
  indradhanu prefs city pune`,
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

		if len(args) == 0 {
			city := deps.Prefs.DefaultCity()
			if city == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "(not set)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), city)
			return nil
		}

		city := normalizeCity(args[0])
		if city == "" {
			return fmt.Errorf("city must not be empty")
		}
		if err := deps.Prefs.SetDefaultCity(city); err != nil {
			return err
		}
		if !deps.Config.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default city set to %s\n", city)
		}
		return nil
	},
}

// ─── prefs profile ────────────────────────────────────────────────────────────

var profileFlags struct {
	Name  string
	Email string
	Role  string
	Phone string
}

var prefsProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Get or set the user profile",
	Long: `Without flags, print the saved profile. With flags, update the given
fields; unset flags keep their current values.`,
	Example: `  indradhanu prefs profile
  indradhanu prefs profile --name "A. Deshmukh" --email a@example.com
  indradhanu prefs profile --phone "+91 98765 43210"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		changed := cmd.Flags().Changed("name") || cmd.Flags().Changed("email") ||
			cmd.Flags().Changed("role") || cmd.Flags().Changed("phone")

		if !changed {
			p := deps.Prefs.Profile()
			printKVTable([][]string{
				{"name", p.Name},
				{"email", p.Email},
				{"role", p.Role},
				{"phone", p.Phone},
			})
			if !deps.Prefs.IsProfileConfigured() {
				fmt.Fprintln(cmd.OutOrStdout(), "\n(placeholder values — not configured yet)")
			}
			return nil
		}

		// Unset flags keep the current value; the profile is written whole.
		profile := deps.Prefs.Profile()
		if cmd.Flags().Changed("name") {
			profile.Name = profileFlags.Name
		}
		if cmd.Flags().Changed("email") {
			profile.Email = profileFlags.Email
		}
		if cmd.Flags().Changed("role") {
			profile.Role = profileFlags.Role
		}
		if cmd.Flags().Changed("phone") {
			profile.Phone = profileFlags.Phone
		}

		if err := deps.Prefs.SetProfile(profile); err != nil {
			return err
		}
		if !deps.Config.Quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Profile saved")
		}
		return nil
	},
}

// ─── prefs language ───────────────────────────────────────────────────────────

var prefsLanguageCmd = &cobra.Command{
	Use:   "language [CODE]",
	Short: "Get or set the UI language code",
	Example: `  indradhanu prefs language
  indradhanu prefs language hi`,
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

		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), deps.Prefs.Language())
			return nil
		}

		code := normalizeCity(args[0])
		if code == "" {
			return fmt.Errorf("language code must not be empty")
		}
		if err := deps.Prefs.SetLanguage(code); err != nil {
			return err
		}
		if !deps.Config.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Language set to %s\n", code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsCityCmd)
	prefsCmd.AddCommand(prefsProfileCmd)
	prefsCmd.AddCommand(prefsLanguageCmd)

	f := prefsProfileCmd.Flags()
	f.StringVar(&profileFlags.Name, "name", "", "display name")
	f.StringVar(&profileFlags.Email, "email", "", "email address")
	f.StringVar(&profileFlags.Role, "role", "", "role (e.g. Farmer, Agronomist)")
	f.StringVar(&profileFlags.Phone, "phone", "", "phone number")
}
