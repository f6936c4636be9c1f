package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indradhanu/indradhanu/internal/config"
	"github.com/indradhanu/indradhanu/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage indradhanu configuration",
	Long:  `Read and write indradhanu configuration stored in config.json.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template config.json in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config.json already exists at %s (delete it first to re-initialise)", path)
		}
		tmpl := config.Template()
		if err := config.WriteFile(path, tmpl); err != nil {
			return err
		}
		fmt.Printf("✓ Created %s\n", path)
		fmt.Println("  The defaults work out of the box; edit it to point at your own services.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"get"},
	Short:   "Print the current resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		src := "(not found)"
		if cfg.ConfigPath != "" {
			src = cfg.ConfigPath
		}

		format := cfg.Format
		if globalFlags.Format != "" {
			format = globalFlags.Format
		}

		switch format {
		case render.FormatJSON:
			type configOut struct {
				PredictURL    string  `json:"predict_url"`
				GeocodingURL  string  `json:"geocoding_url"`
				ForecastURL   string  `json:"forecast_url"`
				SoilTablePath string  `json:"soil_table_path"`
				RulesPath     string  `json:"rules_path"`
				Format        string  `json:"default_format"`
				Timeout       string  `json:"timeout"`
				Rate          float64 `json:"rate"`
				DBPath        string  `json:"db_path"`
				ConfigFile    string  `json:"config_file"`
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(configOut{
				PredictURL:    cfg.PredictURL,
				GeocodingURL:  cfg.GeocodingURL,
				ForecastURL:   cfg.ForecastURL,
				SoilTablePath: cfg.SoilTablePath,
				RulesPath:     cfg.RulesPath,
				Format:        cfg.Format,
				Timeout:       cfg.Timeout.String(),
				Rate:          cfg.Rate,
				DBPath:        cfg.DBPath,
				ConfigFile:    src,
			})
		default:
			rows := [][]string{
				{"predict_url", cfg.PredictURL},
				{"geocoding_url", cfg.GeocodingURL},
				{"forecast_url", cfg.ForecastURL},
				{"soil_table_path", orBundled(cfg.SoilTablePath)},
				{"rules_path", orBundled(cfg.RulesPath)},
				{"default_format", cfg.Format},
				{"timeout", cfg.Timeout.String()},
				{"rate", fmt.Sprintf("%.1f req/s", cfg.Rate)},
				{"db_path", cfg.DBPath},
				{"config_file", src},
			}
			printKVTable(rows)
			return nil
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in config.json",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		val := args[1]

		// Load existing file or start from template
		var f config.File
		existing, path, err := loadConfigFile()
		if err != nil {
			path = config.DefaultConfigFile
			f = config.Template()
		} else {
			f = *existing
		}

		switch key {
		case "predict_url":
			f.PredictURL = val
		case "geocoding_url":
			f.GeocodingURL = val
		case "forecast_url":
			f.ForecastURL = val
		case "soil_table_path":
			f.SoilTablePath = val
		case "rules_path":
			f.RulesPath = val
		case "default_format", "format":
			f.DefaultFormat = val
		case "timeout":
			f.Timeout = val
		case "rate":
			var r float64
			if _, err := fmt.Sscanf(val, "%f", &r); err != nil {
				return fmt.Errorf("rate must be a number")
			}
			f.Rate = r
		case "db_path":
			f.DBPath = val
		default:
			return fmt.Errorf("unknown config key: %q\n\nValid keys: predict_url, geocoding_url, forecast_url, soil_table_path, rules_path, default_format, timeout, rate, db_path", key)
		}

		if err := config.WriteFile(path, f); err != nil {
			return err
		}
		fmt.Printf("✓ Set %s in %s\n", key, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// loadConfigFile reads config.json from cwd; used by configSetCmd.
func loadConfigFile() (*config.File, string, error) {
	path := config.DefaultConfigFile
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	var f config.File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, "", err
	}
	return &f, path, nil
}

func orBundled(path string) string {
	if path == "" {
		return "(bundled)"
	}
	return path
}

// printKVTable renders a two-column key/value table to stdout using aligned columns.
func printKVTable(rows [][]string) {
	maxKey := 0
	for _, r := range rows {
		if len(r[0]) > maxKey {
			maxKey = len(r[0])
		}
	}
	for _, r := range rows {
		padding := strings.Repeat(" ", maxKey-len(r[0]))
		fmt.Printf("  %s%s  %s\n", r[0], padding, r[1])
	}
}
