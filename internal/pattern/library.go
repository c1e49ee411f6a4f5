package pattern

import (
	"go.uber.org/zap"

	"github.com/starfall/bossai/internal/arena"
	"github.com/starfall/bossai/internal/decision"
)

// DefaultID is substituted when a caller asks for an unknown pattern.
const DefaultID decision.PatternID = "straight"

// emitFunc produces one projectile batch for the current fire window.
// A nil or empty result means the pattern stays quiet this window.
type emitFunc func(inst *Instance, player arena.Vec2) []arena.Projectile

// Definition is the immutable catalog entry for one attack pattern.
// Cooldown is advisory metadata for the decision layer; the library
// does not enforce it.
type Definition struct {
	ID           decision.PatternID
	DisplayName  string
	Duration     float64 // ms a live instance runs before retirement
	Cooldown     float64 // ms, advisory
	FireInterval float64 // ms between projectile batches
	Damage       float64 // base damage per projectile

	emit emitFunc
}

// Instance is one live run of a pattern bound to a boss entity.
// Timer advances every tick; the controller retires the instance once
// Timer >= Definition.Duration.
type Instance struct {
	Def   *Definition
	Boss  arena.BossEntity
	Timer float64

	// fireAcc counts down to the next batch. Seeded to 0 so the first
	// batch fires on the first tick, then carries the remainder across
	// ticks so variable tick durations neither double- nor skip-fire.
	fireAcc float64
}

// Done reports whether the instance has run its full duration.
func (in *Instance) Done() bool { return in.Timer >= in.Def.Duration }

// Remaining returns ms left before the instance completes.
func (in *Instance) Remaining() float64 {
	r := in.Def.Duration - in.Timer
	if r < 0 {
		return 0
	}
	return r
}

// Library is the shared, read-only pattern catalog. It is referenced by
// id and never owned per boss; instances carry all mutable state.
type Library struct {
	defs  map[decision.PatternID]*Definition
	order []decision.PatternID
	log   *zap.Logger
}

// NewLibrary builds the catalog with the ten built-in patterns.
func NewLibrary(log *zap.Logger) *Library {
	l := &Library{
		defs: make(map[decision.PatternID]*Definition, 16),
		log:  log,
	}
	for _, d := range builtinDefinitions() {
		l.register(d)
	}
	return l
}

func (l *Library) register(d *Definition) {
	if _, exists := l.defs[d.ID]; !exists {
		l.order = append(l.order, d.ID)
	}
	l.defs[d.ID] = d
}

// IDs returns the catalog ids in registration order.
func (l *Library) IDs() []decision.PatternID {
	out := make([]decision.PatternID, len(l.order))
	copy(out, l.order)
	return out
}

// Get returns a definition by id, or nil if not found.
func (l *Library) Get(id decision.PatternID) *Definition {
	return l.defs[id]
}

// Count returns the number of catalog entries.
func (l *Library) Count() int { return len(l.defs) }

// Instantiate returns a fresh instance with a zeroed timer. Unknown ids
// fall back to DefaultID; that substitution is a diagnostic, not an
// error, so the fight never stalls over a bad id.
func (l *Library) Instantiate(id decision.PatternID, boss arena.BossEntity) *Instance {
	def := l.defs[id]
	if def == nil {
		l.log.Warn("unknown pattern id, substituting default",
			zap.String("requested", string(id)),
			zap.String("substitute", string(DefaultID)))
		def = l.defs[DefaultID]
	}
	return &Instance{Def: def, Boss: boss}
}

// Tick advances the instance and emits due projectile batches through
// the boss entity's shoot capability. The cadence is an explicit
// accumulator: every FireInterval ms of pattern time produces exactly
// one batch regardless of tick duration.
func (l *Library) Tick(inst *Instance, dt float64, player arena.Vec2) {
	if inst == nil || dt <= 0 {
		return
	}
	inst.Timer += dt
	if inst.Def.FireInterval <= 0 {
		return
	}
	inst.fireAcc -= dt
	for inst.fireAcc <= 0 {
		if batch := inst.Def.emit(inst, player); len(batch) > 0 {
			inst.Boss.Shoot(batch)
		}
		inst.fireAcc += inst.Def.FireInterval
	}
}

// Tuning overrides a definition's timing and damage from the YAML
// tuning table. Zero fields leave the built-in value untouched.
type Tuning struct {
	Duration     float64
	Cooldown     float64
	FireInterval float64
	Damage       float64
}

// ApplyTuning merges one override row onto the catalog entry for id.
// Unknown ids are logged and skipped.
func (l *Library) ApplyTuning(id decision.PatternID, t Tuning) {
	def := l.defs[id]
	if def == nil {
		l.log.Warn("tuning for unknown pattern id", zap.String("id", string(id)))
		return
	}
	if t.Duration > 0 {
		def.Duration = t.Duration
	}
	if t.Cooldown > 0 {
		def.Cooldown = t.Cooldown
	}
	if t.FireInterval > 0 {
		def.FireInterval = t.FireInterval
	}
	if t.Damage > 0 {
		def.Damage = t.Damage
	}
}
