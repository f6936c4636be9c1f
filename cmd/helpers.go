package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/indradhanu/indradhanu/internal/app"
	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/render"
	"github.com/indradhanu/indradhanu/internal/util"
)

// conditionFlags holds the raw string values of the 7 farm parameter flags.
// They are kept as strings and run through util.ParseNumber so that
// unparseable input degrades to 0 instead of failing the command.
var conditionFlags struct {
	Nitrogen    string
	Phosphorus  string
	Potassium   string
	Temperature string
	Humidity    string
	PH          string
	Rainfall    string
}

// addConditionFlags registers the 7 farm parameter flags on a command.
func addConditionFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVarP(&conditionFlags.Nitrogen, "nitrogen", "n", "", "nitrogen content (kg/ha)")
	f.StringVarP(&conditionFlags.Phosphorus, "phosphorus", "p", "", "phosphorus content (kg/ha)")
	f.StringVarP(&conditionFlags.Potassium, "potassium", "k", "", "potassium content (kg/ha)")
	f.StringVar(&conditionFlags.Temperature, "temperature", "", "temperature (°C)")
	f.StringVar(&conditionFlags.Humidity, "humidity", "", "relative humidity (%)")
	f.StringVar(&conditionFlags.PH, "ph", "", "soil pH value")
	f.StringVar(&conditionFlags.Rainfall, "rainfall", "", "rainfall (mm)")
}

// readConditions parses the condition flags into a FarmConditions vector.
func readConditions() model.FarmConditions {
	return model.FarmConditions{
		Nitrogen:    util.ParseNumber(conditionFlags.Nitrogen),
		Phosphorus:  util.ParseNumber(conditionFlags.Phosphorus),
		Potassium:   util.ParseNumber(conditionFlags.Potassium),
		Temperature: util.ParseNumber(conditionFlags.Temperature),
		Humidity:    util.ParseNumber(conditionFlags.Humidity),
		PHValue:     util.ParseNumber(conditionFlags.PH),
		Rainfall:    util.ParseNumber(conditionFlags.Rainfall),
	}
}

// normalizeCity trims and lower-cases a city argument.
func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// resolveCity returns the explicit city argument, falling back to the saved
// default city. Opens the store only when the fallback is needed.
func resolveCity(deps *app.Deps, arg string) (string, error) {
	city := normalizeCity(arg)
	if city != "" {
		return city, nil
	}
	if err := deps.RequireStore(); err != nil {
		return "", err
	}
	city = deps.Prefs.DefaultCity()
	if city == "" {
		return "", fmt.Errorf("no city given and no default city saved\n\n  Use: indradhanu prefs set-city <city>")
	}
	return city, nil
}

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatTable
}

// buildResult wraps a payload in the standard Result envelope.
func buildResult(kind, command string, data interface{}, start time.Time, items int) *model.Result {
	return &model.Result{
		Kind:        kind,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        data,
		Stats: model.ResultStats{
			DurationMs: time.Since(start).Milliseconds(),
			Items:      items,
		},
	}
}

// printSimpleTable renders a simple table with headers using tablewriter.
// The add callback is called with row values as variadic strings.
func printSimpleTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}
