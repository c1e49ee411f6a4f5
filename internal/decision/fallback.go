package decision

// Fallback is the deterministic rule engine used whenever the remote
// decision service is unavailable or fails. Decide is a pure function:
// identical contexts produce identical decisions, which is what makes
// the degraded path testable.
type Fallback struct{}

// NewFallback returns the rule engine. It holds no state.
func NewFallback() *Fallback { return &Fallback{} }

// ruleClass buckets the situation; the personality table maps each
// bucket to a pattern preference list.
type ruleClass string

const (
	classDesperate  ruleClass = "desperate"
	classAggressive ruleClass = "aggressive"
	classClose      ruleClass = "close"
	classLong       ruleClass = "long"
	classFinal      ruleClass = "final"
	classNeutral    ruleClass = "neutral"
)

// patternPrefs is the unified personality rule table. Each entry lists
// pattern ids in preference order; the first id present in the caller's
// available set wins. The "default" row covers unknown personalities.
var patternPrefs = map[ruleClass]map[string][]PatternID{
	classDesperate: {
		"aggressive": {"spiral", "storm", "spread"},
		"defensive":  {"spiral", "mines", "storm"},
		"tactical":   {"spiral", "clone", "storm"},
		"default":    {"spiral", "storm", "spread"},
	},
	classAggressive: {
		"aggressive": {"spread", "homing", "straight"},
		"defensive":  {"homing", "spread", "straight"},
		"tactical":   {"homing", "laser", "spread"},
		"default":    {"spread", "straight", "homing"},
	},
	classClose: {
		"aggressive": {"mines", "spread", "storm"},
		"defensive":  {"mines", "teleport", "spread"},
		"tactical":   {"mines", "clone", "spread"},
		"default":    {"mines", "spread", "storm"},
	},
	classLong: {
		"aggressive": {"laser", "homing", "straight"},
		"defensive":  {"laser", "straight", "homing"},
		"tactical":   {"homing", "laser", "straight"},
		"default":    {"laser", "homing", "straight"},
	},
	classFinal: {
		"aggressive": {"spiral", "ultimate", "storm"},
		"defensive":  {"spiral", "storm", "ultimate"},
		"tactical":   {"spiral", "ultimate", "clone"},
		"default":    {"spiral", "ultimate", "storm"},
	},
	classNeutral: {
		"default": {"straight", "spread", "homing"},
	},
}

// Distance thresholds for the close- and long-range overrides.
const (
	CloseRangeDistance = 100.0
	LongRangeDistance  = 300.0
)

// Decide runs the priority rule chain:
//
//  1. health ratio < 0.25  -> desperate class
//  2. health ratio < 0.5   -> aggressive class
//  3. distance < 100       -> close-range class (overrides 1-2)
//  4. distance > 300       -> long-range class (overrides 1-2)
//  5. phase 3              -> final-phase class (overrides all)
//
// Later rules override earlier ones by reassigning the class, matching
// the declared precedence: the distance rules are evaluated after the
// health rules, and the final-phase rule last.
func (f *Fallback) Decide(ctx Context) Decision {
	class := classNeutral
	reason := "neutral stance"

	if ctx.HealthRatio < 0.25 {
		class = classDesperate
		reason = "health critical"
	} else if ctx.HealthRatio < 0.5 {
		class = classAggressive
		reason = "health below half"
	}

	if ctx.PlayerDistance < CloseRangeDistance {
		class = classClose
		reason = "player in close range"
	} else if ctx.PlayerDistance > LongRangeDistance {
		class = classLong
		reason = "player at long range"
	}

	if ctx.Phase == 3 {
		class = classFinal
		reason = "final phase"
	}

	d := Decision{
		AttackPattern: pickPattern(class, ctx.Personality, ctx.AvailablePatterns),
		Movement:      f.movement(ctx),
		Reasoning:     reason,
	}
	if ctx.Enraged {
		d.Special = &SpecialAction{Type: SpecialRage}
	}
	return d
}

// movement keeps the boss on the side of the arena opposite the player.
// Vertical placement (upper third) is the boss entity's own constraint;
// the target enum only expresses lateral intent.
func (f *Fallback) movement(ctx Context) *Movement {
	target := MoveCenter
	if ctx.ArenaWidth > 0 {
		if ctx.PlayerPos.X < ctx.ArenaWidth/2 {
			target = MoveRight
		} else {
			target = MoveLeft
		}
	}
	speed := 1.0
	if ctx.Enraged {
		speed = 1.5
	}
	return &Movement{Target: target, Speed: speed}
}

func pickPattern(class ruleClass, personality string, available []PatternID) PatternID {
	prefs := patternPrefs[class][personality]
	if prefs == nil {
		prefs = patternPrefs[class]["default"]
	}
	if len(available) == 0 {
		if len(prefs) > 0 {
			return prefs[0]
		}
		return "straight"
	}
	for _, p := range prefs {
		if containsPattern(available, p) {
			return p
		}
	}
	return available[0]
}
