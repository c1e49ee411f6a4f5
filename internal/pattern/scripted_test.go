package pattern

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/starfall/bossai/internal/arena"
	"github.com/starfall/bossai/internal/scripting"
)

const scriptedFixture = `
pattern_meta = {
    rain = { duration = 3000, fire_interval = 100 },
}

function pattern_rain(ctx)
    return {
        { x = ctx.boss_x, y = ctx.boss_y, vx = 0, vy = 3, kind = "rain" },
    }
end

-- Collides with a built-in id; must be skipped.
function pattern_spiral(ctx)
    return {}
end
`

func newScriptedLibrary(t *testing.T) *Library {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fixture.lua"), []byte(scriptedFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	eng, err := scripting.NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(eng.Close)

	lib := NewLibrary(zap.NewNop())
	if got := lib.LoadScripted(eng); got != 1 {
		t.Fatalf("loaded %d scripted patterns, want 1 (collision skipped)", got)
	}
	return lib
}

func TestLoadScripted(t *testing.T) {
	lib := newScriptedLibrary(t)

	def := lib.Get("rain")
	if def == nil {
		t.Fatal("scripted pattern not registered")
	}
	if def.Duration != 3000 || def.FireInterval != 100 {
		t.Fatalf("meta not applied: %+v", def)
	}
	if def.Cooldown != scriptedCooldown || def.Damage != scriptedDamage {
		t.Fatalf("defaults not filled: %+v", def)
	}

	// The collision keeps the built-in emitter.
	if lib.Get("spiral").DisplayName != "Spiral Barrage" {
		t.Fatal("scripted pattern shadowed a built-in")
	}
}

func TestScriptedPatternFires(t *testing.T) {
	lib := newScriptedLibrary(t)
	boss := newTestBoss()

	inst := lib.Instantiate("rain", boss)
	lib.Tick(inst, 16, arena.Vec2{X: 400, Y: 500})

	if boss.TotalShots() != 1 {
		t.Fatalf("shots = %d, want 1", boss.TotalShots())
	}
	p := boss.Shots[0][0]
	if p.Kind != "rain" || p.Vel.Y != 3 {
		t.Fatalf("projectile = %+v", p)
	}
	if p.Damage != scriptedDamage {
		t.Fatalf("zero script damage should use the definition's: %v", p.Damage)
	}
}
