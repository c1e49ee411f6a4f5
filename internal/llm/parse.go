package llm

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"

	"github.com/starfall/bossai/internal/decision"
)

// foldCaser performs Unicode case folding for the degraded keyword
// scan. Folding (rather than ToLower) keeps the scan robust against
// whatever casing the model produces.
var foldCaser = cases.Fold()

// ParseDecision turns raw model output into a sanitized Decision. It
// never fails: a malformed payload degrades to keyword extraction, and
// every result passes through decision.Sanitize against the legal set.
func ParseDecision(raw string, legal []decision.PatternID) decision.Decision {
	var d decision.Decision
	if err := json.Unmarshal([]byte(stripFences(raw)), &d); err != nil {
		d = extractDecision(raw, legal)
	}
	decision.Sanitize(&d, legal)
	return d
}

// stripFences removes a markdown code fence wrapper (``` or ```json)
// if the payload carries one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the fence line.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Movement keyword groups for the degraded extraction path.
var movementKeywords = []struct {
	target string
	words  []string
}{
	{decision.MoveLeft, []string{"left", "retreat", "back"}},
	{decision.MoveRight, []string{"right", "advance", "forward"}},
	{decision.MovePlayer, []string{"chase", "follow", "target"}},
	{decision.MoveCenter, []string{"center", "middle", "central"}},
}

// extractDecision scans undecodable model text for any legal pattern id
// and for movement keywords, synthesizing a best-effort decision rather
// than failing the exchange.
func extractDecision(raw string, legal []decision.PatternID) decision.Decision {
	folded := foldCaser.String(raw)

	d := decision.Decision{Reasoning: "extracted from unstructured reply"}
	for _, id := range legal {
		if strings.Contains(folded, foldCaser.String(string(id))) {
			d.AttackPattern = id
			break
		}
	}
	for _, group := range movementKeywords {
		for _, word := range group.words {
			if strings.Contains(folded, word) {
				d.Movement = &decision.Movement{Target: group.target, Speed: 1.0}
				return d
			}
		}
	}
	return d
}
