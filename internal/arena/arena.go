package arena

// Projectile describes one shot emitted by a boss attack pattern.
// The game loop owns movement and collision; this package only defines
// the wire shape handed to BossEntity.Shoot.
type Projectile struct {
	Pos    Vec2
	Vel    Vec2
	Damage float64
	Color  string

	// Optional behavior flags. Zero values mean a plain bullet.
	Homing bool
	Kind   string  // "bullet", "laser", "mine", "orb"
	Radius float64 // explosion/trigger radius for mines
	Timer  float64 // ms until a mine arms or an orb expires
}

// Snapshot is the read-only game state consumed at decision time.
type Snapshot struct {
	Difficulty  string
	Level       int
	Score       int
	TimeElapsed float64 // ms since the fight started
}

// BossEntity is the capability surface the decision engine drives.
// The rendering/physics side of the game implements it; SimBoss provides
// an in-memory implementation for tests and the demo driver.
type BossEntity interface {
	Health() float64
	MaxHealth() float64
	Position() Vec2
	Size() (w, h float64)
	AttackPatterns() []string
	Personality() string
	BaseSpeed() float64

	DamageMultiplier() float64
	SetDamageMultiplier(m float64)
	SpeedMultiplier() float64
	SetSpeedMultiplier(m float64)

	SetMovementTarget(target string)
	SetSpeed(speed float64)
	Shoot(batch []Projectile)

	Teleport(pos Vec2)
	ActivateShield(durationMS float64)
	Heal(amount float64)
	SummonMinions(count int)
	ActivateRage(multiplier float64)
	ActivatePhase2()
	ActivatePhase3()
}
