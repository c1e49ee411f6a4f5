package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

const testScript = `
pattern_meta = {
    burst = { display_name = "Burst", duration = 4000, fire_interval = 250, damage = 6 },
}

function pattern_burst(ctx)
    local out = {}
    for i = 1, 3 do
        out[i] = {
            x = ctx.boss_x + i,
            y = ctx.boss_y,
            vx = 0,
            vy = 4,
            damage = 6,
            color = "#ffffff",
            kind = "burst",
        }
    end
    return out
end

function pattern_broken(ctx)
    error("script bug")
end
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.lua"), []byte(testScript), 0o644); err != nil {
		t.Fatal(err)
	}
	eng, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(eng.Close)
	return eng
}

func TestMissingDirIsNotAnError(t *testing.T) {
	eng, err := NewEngine("does/not/exist", zap.NewNop())
	if err != nil {
		t.Fatalf("missing script dir should not fail: %v", err)
	}
	defer eng.Close()
	if names := eng.PatternNames(); len(names) != 0 {
		t.Fatalf("patterns from a missing dir: %v", names)
	}
}

func TestPatternNames(t *testing.T) {
	eng := newTestEngine(t)
	names := eng.PatternNames()
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["burst"] || !seen["broken"] {
		t.Fatalf("names = %v, want burst and broken", names)
	}
}

func TestPatternMeta(t *testing.T) {
	eng := newTestEngine(t)

	m := eng.PatternMeta("burst")
	if m.DisplayName != "Burst" || m.Duration != 4000 || m.FireInterval != 250 {
		t.Fatalf("meta = %+v", m)
	}

	if m := eng.PatternMeta("broken"); m.Duration != 0 {
		t.Fatalf("missing meta row should be zero, got %+v", m)
	}
}

func TestRunPattern(t *testing.T) {
	eng := newTestEngine(t)

	batch := eng.RunPattern("burst", PatternContext{
		BossX: 100, BossY: 50, PlayerX: 400, PlayerY: 500,
		DamageMult: 1, SpeedMult: 1,
	})
	if len(batch) != 3 {
		t.Fatalf("batch size = %d, want 3", len(batch))
	}
	if batch[0].X != 101 || batch[0].Kind != "burst" || batch[0].VY != 4 {
		t.Fatalf("first projectile = %+v", batch[0])
	}
}

func TestRunPatternErrorsAreContained(t *testing.T) {
	eng := newTestEngine(t)

	if batch := eng.RunPattern("broken", PatternContext{}); batch != nil {
		t.Fatalf("broken script returned a batch: %v", batch)
	}
	if batch := eng.RunPattern("nonexistent", PatternContext{}); batch != nil {
		t.Fatalf("missing function returned a batch: %v", batch)
	}

	// The VM must stay usable after a script error.
	if batch := eng.RunPattern("burst", PatternContext{DamageMult: 1, SpeedMult: 1}); len(batch) != 3 {
		t.Fatalf("engine broken after contained error, batch = %v", batch)
	}
}
