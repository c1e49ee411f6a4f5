package arena

// SimBoss is an in-memory BossEntity used by the demo driver and tests.
// It records every capability call so assertions and the demo log can
// inspect what the controller did.
type SimBoss struct {
	HP          float64
	MaxHP       float64
	Pos         Vec2
	Width       float64
	Height      float64
	Patterns    []string
	Persona     string
	Speed       float64
	DamageMult  float64
	SpeedMult   float64
	MoveTarget  string
	MoveSpeed   float64
	Shots       [][]Projectile
	ShieldMS    float64
	Healed      float64
	Minions     int
	RageMult    float64
	Phase2Fired bool
	Phase3Fired bool
}

// NewSimBoss returns a boss at full health in the top-center of an
// 800x600 arena with the full built-in pattern set.
func NewSimBoss(maxHP float64, patterns []string) *SimBoss {
	return &SimBoss{
		HP:         maxHP,
		MaxHP:      maxHP,
		Pos:        Vec2{X: 400, Y: 100},
		Width:      80,
		Height:     80,
		Patterns:   patterns,
		Persona:    "aggressive",
		Speed:      2,
		DamageMult: 1,
		SpeedMult:  1,
	}
}

func (b *SimBoss) Health() float64          { return b.HP }
func (b *SimBoss) MaxHealth() float64       { return b.MaxHP }
func (b *SimBoss) Position() Vec2           { return b.Pos }
func (b *SimBoss) Size() (float64, float64) { return b.Width, b.Height }
func (b *SimBoss) AttackPatterns() []string { return b.Patterns }
func (b *SimBoss) Personality() string      { return b.Persona }
func (b *SimBoss) BaseSpeed() float64       { return b.Speed }

func (b *SimBoss) DamageMultiplier() float64     { return b.DamageMult }
func (b *SimBoss) SetDamageMultiplier(m float64) { b.DamageMult = m }
func (b *SimBoss) SpeedMultiplier() float64      { return b.SpeedMult }
func (b *SimBoss) SetSpeedMultiplier(m float64)  { b.SpeedMult = m }

func (b *SimBoss) SetMovementTarget(target string) { b.MoveTarget = target }
func (b *SimBoss) SetSpeed(speed float64)          { b.MoveSpeed = speed }

func (b *SimBoss) Shoot(batch []Projectile) {
	b.Shots = append(b.Shots, batch)
}

func (b *SimBoss) Teleport(pos Vec2)                { b.Pos = pos }
func (b *SimBoss) ActivateShield(durationMS float64) { b.ShieldMS = durationMS }
func (b *SimBoss) SummonMinions(count int)          { b.Minions += count }
func (b *SimBoss) ActivateRage(multiplier float64)  { b.RageMult = multiplier }
func (b *SimBoss) ActivatePhase2()                  { b.Phase2Fired = true }
func (b *SimBoss) ActivatePhase3()                  { b.Phase3Fired = true }

func (b *SimBoss) Heal(amount float64) {
	b.Healed += amount
	b.HP += amount
	if b.HP > b.MaxHP {
		b.HP = b.MaxHP
	}
}

// TotalShots returns the number of projectiles emitted across all batches.
func (b *SimBoss) TotalShots() int {
	n := 0
	for _, batch := range b.Shots {
		n += len(batch)
	}
	return n
}
