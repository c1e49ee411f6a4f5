package decision

import "github.com/starfall/bossai/internal/arena"

// Context is the flattened situation snapshot both decision paths
// consume. The controller assembles it each scheduling cycle; nothing
// in this package mutates it.
type Context struct {
	// Boss
	HealthRatio float64
	Phase       int
	Enraged     bool
	Personality string
	BossPos     arena.Vec2

	// Player
	PlayerPos      arena.Vec2
	PlayerDistance float64
	MovementClass  string
	Accuracy       float64
	Aggressiveness float64

	// Game
	Game arena.Snapshot

	// Catalog
	AvailablePatterns []PatternID
	CurrentPattern    PatternID

	// Arena bounds, for movement rules.
	ArenaWidth  float64
	ArenaHeight float64
}
