package decision

// PatternID names an attack pattern in the library catalog.
type PatternID string

// Movement targets the boss entity understands.
const (
	MoveLeft   = "left"
	MoveRight  = "right"
	MoveCenter = "center"
	MovePlayer = "player"
)

// Special action whitelist. Anything else returned by the decision
// service is dropped during sanitization.
const (
	SpecialTeleport = "teleport"
	SpecialShield   = "shield"
	SpecialHeal     = "heal"
	SpecialSummon   = "summon"
	SpecialRage     = "rage"
)

// Movement speed bounds applied during sanitization.
const (
	MinMoveSpeed = 0.5
	MaxMoveSpeed = 2.0
)

// Movement is where and how fast the boss should reposition.
type Movement struct {
	Target string  `json:"target"`
	Speed  float64 `json:"speed"`
}

// SpecialAction triggers one of the boss entity's special capabilities.
type SpecialAction struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// AdaptDifficulty hints that the tracked player is over- or
// under-performing. The controller gates these on measured accuracy.
type AdaptDifficulty struct {
	Increase bool `json:"increase"`
	Decrease bool `json:"decrease"`
}

// Decision is the structured output of one scheduling cycle, produced
// by either the remote decision service or the fallback rule engine.
// Reasoning is diagnostic only and never affects behavior.
type Decision struct {
	AttackPattern PatternID        `json:"attackPattern"`
	Movement      *Movement        `json:"movement,omitempty"`
	Special       *SpecialAction   `json:"specialAction,omitempty"`
	Adapt         *AdaptDifficulty `json:"adaptDifficulty,omitempty"`
	Reasoning     string           `json:"reasoning,omitempty"`
}

var specialWhitelist = map[string]bool{
	SpecialTeleport: true,
	SpecialShield:   true,
	SpecialHeal:     true,
	SpecialSummon:   true,
	SpecialRage:     true,
}

var movementTargets = map[string]bool{
	MoveLeft:   true,
	MoveRight:  true,
	MoveCenter: true,
	MovePlayer: true,
}

// Sanitize normalizes a decision against the caller's legal pattern set.
// Illegal or missing pattern ids are replaced by the first legal id,
// movement speed is clamped, unknown movement targets become "center",
// and non-whitelisted special actions are dropped. Sanitize never fails:
// the worst decision is corrected, not rejected.
func Sanitize(d *Decision, legal []PatternID) {
	if len(legal) > 0 && !containsPattern(legal, d.AttackPattern) {
		d.AttackPattern = legal[0]
	}
	if d.Movement != nil {
		if !movementTargets[d.Movement.Target] {
			d.Movement.Target = MoveCenter
		}
		if d.Movement.Speed < MinMoveSpeed {
			d.Movement.Speed = MinMoveSpeed
		}
		if d.Movement.Speed > MaxMoveSpeed {
			d.Movement.Speed = MaxMoveSpeed
		}
	}
	if d.Special != nil && !specialWhitelist[d.Special.Type] {
		d.Special = nil
	}
}

func containsPattern(set []PatternID, id PatternID) bool {
	for _, p := range set {
		if p == id {
			return true
		}
	}
	return false
}
