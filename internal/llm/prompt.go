package llm

import (
	"fmt"
	"strings"

	"github.com/starfall/bossai/internal/decision"
)

// systemInstruction pins the reply format. The parser tolerates fenced
// or unstructured replies anyway, but a tight instruction keeps the
// degraded path rare.
const systemInstruction = `You are the tactical brain of an arcade shooter boss. ` +
	`Each turn you receive the battle situation and must answer with a single JSON object: ` +
	`{"attackPattern": string, "movement": {"target": "left|right|center|player", "speed": number}, ` +
	`"specialAction": {"type": "teleport|shield|heal|summon|rage", "parameters": {}}, ` +
	`"adaptDifficulty": {"increase": bool, "decrease": bool}, "reasoning": string}. ` +
	`attackPattern must be one of the listed legal patterns. Reply with JSON only.`

// renderPrompt flattens the decision context into the situation message
// sent each scheduling cycle.
func renderPrompt(ctx decision.Context) string {
	patterns := make([]string, len(ctx.AvailablePatterns))
	for i, p := range ctx.AvailablePatterns {
		patterns[i] = string(p)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Boss: %s personality, health %.0f%%, phase %d", ctx.Personality, ctx.HealthRatio*100, ctx.Phase)
	if ctx.Enraged {
		b.WriteString(", ENRAGED")
	}
	fmt.Fprintf(&b, "\nPlayer: distance %.0f, movement %s, accuracy %.2f, aggressiveness %.2f",
		ctx.PlayerDistance, ctx.MovementClass, ctx.Accuracy, ctx.Aggressiveness)
	fmt.Fprintf(&b, "\nGame: level %d, difficulty %s, elapsed %.0fs, score %d",
		ctx.Game.Level, ctx.Game.Difficulty, ctx.Game.TimeElapsed/1000, ctx.Game.Score)
	fmt.Fprintf(&b, "\nLegal patterns: %s", strings.Join(patterns, ", "))
	if ctx.CurrentPattern != "" {
		fmt.Fprintf(&b, "\nCurrent pattern: %s", ctx.CurrentPattern)
	}
	b.WriteString("\nChoose the next action.")
	return b.String()
}
