// Package report renders the current soil data, top recommendation, and
// alternatives into a self-contained HTML document. The document is meant
// for download and browser print-to-PDF; no decision logic lives here.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/indradhanu/indradhanu/internal/model"
)

//go:embed templates/*
var templateFS embed.FS

// Data is everything the report template consumes.
type Data struct {
	ID          string
	GeneratedAt time.Time
	City        string
	Conditions  model.FarmConditions
	TopCrop     *model.CropPrediction
	TopThree    []model.CropPrediction
}

var reportTemplate = newTemplates()

// newTemplates parses the embedded HTML templates with custom functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"fmtNum": func(v float64) string {
			if v == float64(int64(v)) {
				return groupDigits(int64(v))
			}
			return fmt.Sprintf("%.1f", v)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// groupDigits inserts thousands separators into an integer for yield and
// revenue figures.
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// Render writes the report HTML to w, stamping ID and GeneratedAt if unset.
func Render(w io.Writer, data Data) error {
	if data.ID == "" {
		data.ID = uuid.NewString()
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}
	if err := reportTemplate.ExecuteTemplate(w, "report.html", data); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// DefaultFilename returns the conventional download name for a report
// generated at t: crop-report-YYYY-MM-DD.html.
func DefaultFilename(t time.Time) string {
	return fmt.Sprintf("crop-report-%s.html", t.Format("2006-01-02"))
}

// WriteFile renders the report to path, or to DefaultFilename(now) in the
// current directory when path is empty. Returns the path written.
func WriteFile(path string, data Data) (string, error) {
	if path == "" {
		path = DefaultFilename(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()
	if err := Render(f, data); err != nil {
		return "", err
	}
	return path, nil
}
