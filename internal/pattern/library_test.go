package pattern

import (
	"testing"

	"go.uber.org/zap"

	"github.com/starfall/bossai/internal/arena"
	"github.com/starfall/bossai/internal/decision"
)

func newTestBoss() *arena.SimBoss {
	return arena.NewSimBoss(1000, []string{
		"straight", "spread", "spiral", "homing", "laser",
		"mines", "teleport", "clone", "storm", "ultimate",
	})
}

func TestBuiltinCatalog(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	if lib.Count() < 10 {
		t.Fatalf("catalog holds %d patterns, want at least 10", lib.Count())
	}
	for _, id := range lib.IDs() {
		def := lib.Get(id)
		if def == nil {
			t.Fatalf("IDs lists %q but Get returns nil", id)
		}
		if def.Duration <= 0 || def.FireInterval <= 0 {
			t.Errorf("%q has non-positive timing: %+v", id, def)
		}
	}
}

func TestInstantiateUnknownSubstitutesDefault(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	inst := lib.Instantiate("not-a-pattern", newTestBoss())
	if inst.Def.ID != DefaultID {
		t.Fatalf("substitute = %q, want %q", inst.Def.ID, DefaultID)
	}
}

func TestFireCadence(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	boss := newTestBoss()
	inst := lib.Instantiate("straight", boss) // FireInterval 400

	player := arena.Vec2{X: 400, Y: 500}

	// 1000ms in one tick: fires at 0, 400, 800.
	lib.Tick(inst, 1000, player)
	if got := len(boss.Shots); got != 3 {
		t.Fatalf("batches after one 1000ms tick = %d, want 3", got)
	}
}

func TestFireCadenceTickRateInvariant(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	player := arena.Vec2{X: 400, Y: 500}

	coarse := newTestBoss()
	ci := lib.Instantiate("straight", coarse)
	lib.Tick(ci, 1000, player)

	fine := newTestBoss()
	fi := lib.Instantiate("straight", fine)
	for i := 0; i < 10; i++ {
		lib.Tick(fi, 100, player)
	}

	if len(coarse.Shots) != len(fine.Shots) {
		t.Fatalf("cadence depends on tick size: coarse %d, fine %d",
			len(coarse.Shots), len(fine.Shots))
	}
}

func TestInstanceRetirement(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	boss := newTestBoss()
	inst := lib.Instantiate("laser", boss) // Duration 3500

	player := arena.Vec2{X: 400, Y: 500}
	lib.Tick(inst, 3000, player)
	if inst.Done() {
		t.Fatal("instance done before its duration")
	}
	if inst.Remaining() != 500 {
		t.Fatalf("remaining = %v, want 500", inst.Remaining())
	}
	lib.Tick(inst, 600, player)
	if !inst.Done() {
		t.Fatal("instance not done past its duration")
	}
	if inst.Remaining() != 0 {
		t.Fatalf("remaining = %v, want 0 when done", inst.Remaining())
	}
}

func TestDamageMultiplierApplied(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	boss := newTestBoss()
	boss.DamageMult = 2

	inst := lib.Instantiate("straight", boss) // Damage 10
	lib.Tick(inst, 16, arena.Vec2{X: 400, Y: 500})

	if len(boss.Shots) == 0 {
		t.Fatal("no batch fired")
	}
	if got := boss.Shots[0][0].Damage; got != 20 {
		t.Fatalf("projectile damage = %v, want 20 with multiplier 2", got)
	}
}

func TestApplyTuning(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	lib.ApplyTuning("spiral", Tuning{FireInterval: 100, Damage: 9})

	def := lib.Get("spiral")
	if def.FireInterval != 100 || def.Damage != 9 {
		t.Fatalf("tuning not merged: %+v", def)
	}
	if def.Duration != 6000 {
		t.Fatalf("zero tuning field overwrote duration: %v", def.Duration)
	}

	// Unknown id is logged and skipped, never a panic.
	lib.ApplyTuning(decision.PatternID("ghost"), Tuning{Damage: 1})
}

func TestUltimateDelegatesByPhase(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	boss := newTestBoss()
	inst := lib.Instantiate("ultimate", boss) // Duration 9000, 3 phases

	player := arena.Vec2{X: 400, Y: 500}
	for !inst.Done() {
		lib.Tick(inst, 150, player)
	}
	if boss.TotalShots() == 0 {
		t.Fatal("ultimate emitted nothing across its phases")
	}
}
