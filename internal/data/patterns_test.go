package data

import (
	"os"
	"path/filepath"
	"testing"
)

const tuningFixture = `
patterns:
  - id: spiral
    fire_interval_ms: 100
  - id: homing
    damage: 14
    duration_ms: 5500
`

func TestLoadTuningTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte(tuningFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := LoadTuningTable(path)
	if err != nil {
		t.Fatalf("LoadTuningTable: %v", err)
	}
	if tbl.Count() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Count())
	}

	spiral := tbl.Get("spiral")
	if spiral == nil || spiral.FireIntervalMS != 100 {
		t.Fatalf("spiral row = %+v", spiral)
	}
	if spiral.Damage != 0 {
		t.Fatalf("omitted field should stay zero: %v", spiral.Damage)
	}

	homing := tbl.Get("homing")
	if homing == nil || homing.Damage != 14 || homing.DurationMS != 5500 {
		t.Fatalf("homing row = %+v", homing)
	}

	if tbl.Get("ghost") != nil {
		t.Fatal("unknown id returned a row")
	}
}

func TestLoadTuningTableMissingFile(t *testing.T) {
	tbl, err := LoadTuningTable("does/not/exist.yaml")
	if err != nil {
		t.Fatalf("missing tuning file should not fail: %v", err)
	}
	if tbl.Count() != 0 {
		t.Fatalf("rows from a missing file: %d", tbl.Count())
	}
}

func TestLoadTuningTableBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte("patterns: {not a list"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTuningTable(path); err == nil {
		t.Fatal("malformed yaml accepted")
	}
}
