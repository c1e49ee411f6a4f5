package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PatternTuning is one YAML override row for a pattern's timing and
// damage. Zero fields leave the built-in value in place.
type PatternTuning struct {
	ID             string  `yaml:"id"`
	DurationMS     float64 `yaml:"duration_ms"`
	CooldownMS     float64 `yaml:"cooldown_ms"`
	FireIntervalMS float64 `yaml:"fire_interval_ms"`
	Damage         float64 `yaml:"damage"`
}

type tuningFile struct {
	Patterns []PatternTuning `yaml:"patterns"`
}

// TuningTable holds pattern tuning rows indexed by pattern id.
type TuningTable struct {
	rows map[string]*PatternTuning
}

// LoadTuningTable loads pattern tuning from a YAML file. A missing file
// is not an error: the engine runs on built-in timings.
func LoadTuningTable(path string) (*TuningTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &TuningTable{rows: map[string]*PatternTuning{}}, nil
		}
		return nil, fmt.Errorf("read pattern tuning: %w", err)
	}
	var f tuningFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse pattern tuning: %w", err)
	}
	t := &TuningTable{rows: make(map[string]*PatternTuning, len(f.Patterns))}
	for i := range f.Patterns {
		row := &f.Patterns[i]
		t.rows[row.ID] = row
	}
	return t, nil
}

// Get returns the tuning row for a pattern id, or nil if not found.
func (t *TuningTable) Get(id string) *PatternTuning {
	return t.rows[id]
}

// All returns every tuning row.
func (t *TuningTable) All() []*PatternTuning {
	out := make([]*PatternTuning, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, row)
	}
	return out
}

// Count returns the number of loaded tuning rows.
func (t *TuningTable) Count() int {
	return len(t.rows)
}
