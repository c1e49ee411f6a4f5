package pattern

import (
	"math"

	"github.com/starfall/bossai/internal/arena"
)

// builtinDefinitions returns the ten stock patterns. Durations and
// cooldowns are the shipped defaults; the YAML tuning table can
// override them per deployment.
func builtinDefinitions() []*Definition {
	return []*Definition{
		{ID: "straight", DisplayName: "Straight Shot", Duration: 4000, Cooldown: 1000, FireInterval: 400, Damage: 10, emit: emitStraight},
		{ID: "spread", DisplayName: "Spread Fan", Duration: 5000, Cooldown: 1500, FireInterval: 600, Damage: 8, emit: emitSpread},
		{ID: "spiral", DisplayName: "Spiral Barrage", Duration: 6000, Cooldown: 2000, FireInterval: 120, Damage: 7, emit: emitSpiral},
		{ID: "homing", DisplayName: "Homing Orbs", Duration: 5000, Cooldown: 2500, FireInterval: 900, Damage: 12, emit: emitHoming},
		{ID: "laser", DisplayName: "Focus Laser", Duration: 3500, Cooldown: 3000, FireInterval: 250, Damage: 15, emit: emitLaser},
		{ID: "mines", DisplayName: "Mine Field", Duration: 4500, Cooldown: 3500, FireInterval: 750, Damage: 20, emit: emitMines},
		{ID: "teleport", DisplayName: "Blink Strike", Duration: 4000, Cooldown: 4000, FireInterval: 1000, Damage: 10, emit: emitTeleport},
		{ID: "clone", DisplayName: "Mirror Volley", Duration: 5000, Cooldown: 4500, FireInterval: 500, Damage: 8, emit: emitClone},
		{ID: "storm", DisplayName: "Bullet Storm", Duration: 6000, Cooldown: 5000, FireInterval: 200, Damage: 9, emit: emitStorm},
		{ID: "ultimate", DisplayName: "Final Cataclysm", Duration: 9000, Cooldown: 8000, FireInterval: 150, Damage: 11, emit: emitUltimate},
	}
}

// aim returns a unit vector from the boss muzzle toward the player.
func aim(inst *Instance, player arena.Vec2) arena.Vec2 {
	return player.Sub(muzzle(inst)).Norm()
}

// muzzle is the emission point: bottom-center of the boss sprite.
func muzzle(inst *Instance) arena.Vec2 {
	pos := inst.Boss.Position()
	_, h := inst.Boss.Size()
	return arena.Vec2{X: pos.X, Y: pos.Y + h/2}
}

func (in *Instance) damage() float64 {
	return in.Def.Damage * in.Boss.DamageMultiplier()
}

func (in *Instance) shotSpeed(base float64) float64 {
	return base * in.Boss.SpeedMultiplier()
}

func emitStraight(inst *Instance, player arena.Vec2) []arena.Projectile {
	dir := aim(inst, player)
	return []arena.Projectile{{
		Pos:    muzzle(inst),
		Vel:    dir.Scale(inst.shotSpeed(5)),
		Damage: inst.damage(),
		Color:  "#ff4444",
	}}
}

func emitSpread(inst *Instance, player arena.Vec2) []arena.Projectile {
	base := math.Atan2(player.Y-muzzle(inst).Y, player.X-muzzle(inst).X)
	speed := inst.shotSpeed(4)
	batch := make([]arena.Projectile, 0, 5)
	for i := -2; i <= 2; i++ {
		a := base + float64(i)*(math.Pi/12)
		batch = append(batch, arena.Projectile{
			Pos:    muzzle(inst),
			Vel:    arena.Vec2{X: math.Cos(a) * speed, Y: math.Sin(a) * speed},
			Damage: inst.damage(),
			Color:  "#ff8800",
		})
	}
	return batch
}

func emitSpiral(inst *Instance, _ arena.Vec2) []arena.Projectile {
	// Angle advances with pattern time so the barrage sweeps a full
	// rotation roughly every 2 seconds.
	a := inst.Timer / 2000 * 2 * math.Pi
	speed := inst.shotSpeed(3.5)
	pos := muzzle(inst)
	return []arena.Projectile{
		{Pos: pos, Vel: arena.Vec2{X: math.Cos(a) * speed, Y: math.Sin(a) * speed}, Damage: inst.damage(), Color: "#cc44ff"},
		{Pos: pos, Vel: arena.Vec2{X: math.Cos(a+math.Pi) * speed, Y: math.Sin(a+math.Pi) * speed}, Damage: inst.damage(), Color: "#cc44ff"},
	}
}

func emitHoming(inst *Instance, player arena.Vec2) []arena.Projectile {
	dir := aim(inst, player)
	return []arena.Projectile{{
		Pos:    muzzle(inst),
		Vel:    dir.Scale(inst.shotSpeed(2.5)),
		Damage: inst.damage(),
		Color:  "#44ffcc",
		Homing: true,
		Kind:   "orb",
		Timer:  4000,
	}}
}

func emitLaser(inst *Instance, player arena.Vec2) []arena.Projectile {
	dir := aim(inst, player)
	// A laser is rendered as a rapid train of fast segments.
	pos := muzzle(inst)
	speed := inst.shotSpeed(12)
	return []arena.Projectile{
		{Pos: pos, Vel: dir.Scale(speed), Damage: inst.damage(), Color: "#ffff44", Kind: "laser"},
		{Pos: pos.Add(dir.Scale(20)), Vel: dir.Scale(speed), Damage: inst.damage(), Color: "#ffff44", Kind: "laser"},
	}
}

func emitMines(inst *Instance, player arena.Vec2) []arena.Projectile {
	// Drop a slow mine drifting toward the player's current lane.
	pos := muzzle(inst)
	dx := 0.0
	if player.X > pos.X {
		dx = 1
	} else if player.X < pos.X {
		dx = -1
	}
	return []arena.Projectile{{
		Pos:    pos,
		Vel:    arena.Vec2{X: dx * inst.shotSpeed(1), Y: inst.shotSpeed(1.5)},
		Damage: inst.damage(),
		Color:  "#888888",
		Kind:   "mine",
		Radius: 40,
		Timer:  1500,
	}}
}

func emitTeleport(inst *Instance, player arena.Vec2) []arena.Projectile {
	// Blink laterally to flank the player, then burst in a ring.
	pos := inst.Boss.Position()
	side := 1.0
	if player.X > pos.X {
		side = -1
	}
	inst.Boss.Teleport(arena.Vec2{X: player.X + side*150, Y: pos.Y})

	center := muzzle(inst)
	speed := inst.shotSpeed(4)
	batch := make([]arena.Projectile, 0, 8)
	for i := 0; i < 8; i++ {
		a := float64(i) / 8 * 2 * math.Pi
		batch = append(batch, arena.Projectile{
			Pos:    center,
			Vel:    arena.Vec2{X: math.Cos(a) * speed, Y: math.Sin(a) * speed},
			Damage: inst.damage(),
			Color:  "#44aaff",
		})
	}
	return batch
}

func emitClone(inst *Instance, player arena.Vec2) []arena.Projectile {
	// Fire from the boss and from a phantom mirrored across the
	// player's vertical axis.
	origin := muzzle(inst)
	phantom := arena.Vec2{X: 2*player.X - origin.X, Y: origin.Y}
	speed := inst.shotSpeed(4.5)
	mk := func(from arena.Vec2) arena.Projectile {
		return arena.Projectile{
			Pos:    from,
			Vel:    player.Sub(from).Norm().Scale(speed),
			Damage: inst.damage(),
			Color:  "#dd66dd",
		}
	}
	return []arena.Projectile{mk(origin), mk(phantom)}
}

func emitStorm(inst *Instance, player arena.Vec2) []arena.Projectile {
	// Rain falling across a band centered on the player. The column
	// offset cycles with pattern time so consecutive batches sweep the
	// band instead of stacking.
	step := math.Mod(inst.Timer/inst.Def.FireInterval, 5)
	x := player.X + (step-2)*60
	return []arena.Projectile{{
		Pos:    arena.Vec2{X: x, Y: 0},
		Vel:    arena.Vec2{X: 0, Y: inst.shotSpeed(6)},
		Damage: inst.damage(),
		Color:  "#6688ff",
	}}
}

// emitUltimate is the composite pattern: its duration is divided into
// three equal phases, each delegating to a simple pattern's emitter.
func emitUltimate(inst *Instance, player arena.Vec2) []arena.Projectile {
	phaseLen := inst.Def.Duration / 3
	switch {
	case inst.Timer < phaseLen:
		return emitSpiral(inst, player)
	case inst.Timer < 2*phaseLen:
		return emitSpread(inst, player)
	default:
		return emitHoming(inst, player)
	}
}
