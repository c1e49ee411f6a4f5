package pattern

import (
	"go.uber.org/zap"

	"github.com/starfall/bossai/internal/arena"
	"github.com/starfall/bossai/internal/decision"
	"github.com/starfall/bossai/internal/scripting"
)

// Scripted-pattern defaults, used when a script's pattern_meta omits a
// field.
const (
	scriptedDuration     = 5000.0
	scriptedCooldown     = 2000.0
	scriptedFireInterval = 500.0
	scriptedDamage       = 10.0
)

// LoadScripted registers every pattern the Lua engine discovered as a
// catalog entry. Scripted ids never shadow built-ins; a collision is
// logged and skipped so the stock catalog stays authoritative.
func (l *Library) LoadScripted(eng *scripting.Engine) int {
	loaded := 0
	for _, name := range eng.PatternNames() {
		id := decision.PatternID(name)
		if l.defs[id] != nil {
			l.log.Warn("scripted pattern shadows built-in, skipping",
				zap.String("id", name))
			continue
		}
		meta := eng.PatternMeta(name)
		def := &Definition{
			ID:           id,
			DisplayName:  meta.DisplayName,
			Duration:     meta.Duration,
			Cooldown:     meta.Cooldown,
			FireInterval: meta.FireInterval,
			Damage:       meta.Damage,
		}
		if def.DisplayName == "" {
			def.DisplayName = name
		}
		if def.Duration <= 0 {
			def.Duration = scriptedDuration
		}
		if def.Cooldown <= 0 {
			def.Cooldown = scriptedCooldown
		}
		if def.FireInterval <= 0 {
			def.FireInterval = scriptedFireInterval
		}
		if def.Damage <= 0 {
			def.Damage = scriptedDamage
		}
		def.emit = scriptedEmitter(eng, name)
		l.register(def)
		loaded++
		l.log.Info("registered scripted pattern",
			zap.String("id", name),
			zap.Float64("duration_ms", def.Duration))
	}
	return loaded
}

func scriptedEmitter(eng *scripting.Engine, name string) emitFunc {
	return func(inst *Instance, player arena.Vec2) []arena.Projectile {
		pos := inst.Boss.Position()
		w, h := inst.Boss.Size()
		ratio := 0.0
		if inst.Boss.MaxHealth() > 0 {
			ratio = inst.Boss.Health() / inst.Boss.MaxHealth()
		}
		specs := eng.RunPattern(name, scripting.PatternContext{
			Timer:       inst.Timer,
			BossX:       pos.X,
			BossY:       pos.Y,
			BossW:       w,
			BossH:       h,
			PlayerX:     player.X,
			PlayerY:     player.Y,
			Phase:       phaseForRatio(ratio),
			Enraged:     ratio < 0.25,
			HealthRatio: ratio,
			DamageMult:  inst.Boss.DamageMultiplier(),
			SpeedMult:   inst.Boss.SpeedMultiplier(),
		})
		if len(specs) == 0 {
			return nil
		}
		batch := make([]arena.Projectile, 0, len(specs))
		for _, s := range specs {
			p := arena.Projectile{
				Pos:    arena.Vec2{X: s.X, Y: s.Y},
				Vel:    arena.Vec2{X: s.VX, Y: s.VY},
				Damage: s.Damage,
				Color:  s.Color,
				Homing: s.Homing,
				Kind:   s.Kind,
				Radius: s.Radius,
				Timer:  s.Timer,
			}
			if p.Damage <= 0 {
				p.Damage = inst.damage()
			}
			batch = append(batch, p)
		}
		return batch
	}
}

// phaseForRatio mirrors the monitor's health thresholds so scripts see
// the same phase the controller does.
func phaseForRatio(ratio float64) int {
	switch {
	case ratio > 0.66:
		return 1
	case ratio > 0.33:
		return 2
	default:
		return 3
	}
}
