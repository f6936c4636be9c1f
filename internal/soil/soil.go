// Package soil resolves a city/region name to default nitrogen, phosphorus,
// potassium, and pH values from a bundled reference table.
//
// Match order is deliberate: exact key match first, then the first table key
// that contains the query or is contained by it, in document order of the
// bundled JSON — not closest match, not longest match. The table is therefore
// decoded into an ordered slice rather than a Go map, whose iteration order
// would make partial matches nondeterministic.
package soil

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/indradhanu/indradhanu/internal/model"
)

//go:embed soil_data.json
var soilData []byte

// fallbackRegion names the reference region used when no region is given.
const fallbackRegion = "default region (pune district)"

// Table is the regional soil reference table.
type Table struct {
	entries []model.SoilDefaults
}

// Load returns the bundled reference table.
func Load() (*Table, error) {
	return parse(soilData)
}

// LoadFile reads a replacement table from disk, for deployments that ship
// their own regional data.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading soil table: %w", err)
	}
	return parse(data)
}

// parse decodes a JSON object of region → values, preserving key order.
// encoding/json maps lose document order, so the object is walked with the
// token decoder instead.
func parse(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing soil table: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("parsing soil table: expected object, got %v", tok)
	}

	var t Table
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing soil table: %w", err)
		}
		region, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing soil table: non-string key %v", keyTok)
		}

		var row struct {
			Nitrogen   float64 `json:"nitrogen"`
			Phosphorus float64 `json:"phosphorus"`
			Potassium  float64 `json:"potassium"`
			PHValue    float64 `json:"ph_value"`
		}
		if err := dec.Decode(&row); err != nil {
			return nil, fmt.Errorf("parsing soil table entry %q: %w", region, err)
		}

		t.entries = append(t.entries, model.SoilDefaults{
			Region:      strings.ToLower(strings.TrimSpace(region)),
			Nitrogen:    row.Nitrogen,
			Phosphorus:  row.Phosphorus,
			Potassium:   row.Potassium,
			PHValue:     row.PHValue,
			Description: fmt.Sprintf("Average soil conditions for %s", strings.ToLower(strings.TrimSpace(region))),
		})
	}
	if len(t.entries) == 0 {
		return nil, fmt.Errorf("parsing soil table: no entries")
	}
	return &t, nil
}

// Len reports the number of table entries.
func (t *Table) Len() int { return len(t.entries) }

// Regions lists the table's region keys in document order.
func (t *Table) Regions() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Region
	}
	return out
}

// Entries returns a copy of the table rows in document order.
func (t *Table) Entries() []model.SoilDefaults {
	out := make([]model.SoilDefaults, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup resolves a region name to its soil defaults.
//
// An empty or whitespace-only region returns the fixed fallback entry —
// "always return something usable" is deliberate policy, distinct from the
// not-found case. Otherwise the normalised name is matched exactly, then by
// bidirectional substring (first hit wins). A nil entry with nil error means
// the region is unknown.
func (t *Table) Lookup(region string) (*model.SoilDefaults, error) {
	normalized := strings.ToLower(strings.TrimSpace(region))
	if normalized == "" {
		return Fallback(), nil
	}

	for i := range t.entries {
		if t.entries[i].Region == normalized {
			e := t.entries[i]
			return &e, nil
		}
	}

	for i := range t.entries {
		key := t.entries[i].Region
		if strings.Contains(key, normalized) || strings.Contains(normalized, key) {
			e := t.entries[i]
			return &e, nil
		}
	}

	return nil, nil
}

// Fallback returns the reference entry used when no region is supplied:
// average conditions for the Pune district.
func Fallback() *model.SoilDefaults {
	return &model.SoilDefaults{
		Region:      fallbackRegion,
		Nitrogen:    260,
		Phosphorus:  20,
		Potassium:   290,
		PHValue:     7.9,
		Description: "Average soil conditions suitable for most crops",
	}
}
