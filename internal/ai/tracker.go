package ai

import "github.com/starfall/bossai/internal/arena"

// Movement classes derived from recent player positions.
const (
	MoveStationary = "stationary"
	MoveHorizontal = "horizontal"
	MoveVertical   = "vertical"
	MoveDiagonal   = "diagonal"
	MoveNeutral    = "neutral"
)

// DefaultHistoryCapacity bounds the position history.
const DefaultHistoryCapacity = 20

// Accuracy/aggressiveness nudge sizes. These are incremental smoothing
// steps, never recomputed from scratch.
const (
	accuracyHitStep    = 0.05
	accuracyMissStep   = 0.02
	aggressionUpStep   = 0.03
	aggressionDownStep = 0.01
)

// Sample is one recorded player position.
type Sample struct {
	Pos  arena.Vec2
	Time float64 // ms on the controller clock
}

// Events carries the per-tick player activity the tracker smooths into
// its accuracy and aggressiveness scalars.
type Events struct {
	Fired bool
	Hit   bool // a player shot connected this tick
	Miss  bool // a player shot expired without connecting
}

// PlayerTracker maintains a bounded position history and classifies the
// player's movement pattern. It has no error states; everything is pure
// numeric smoothing.
type PlayerTracker struct {
	capacity       int
	history        []Sample
	accuracy       float64
	aggressiveness float64
}

// NewPlayerTracker returns a tracker with both scalars at 0.5.
func NewPlayerTracker(capacity int) *PlayerTracker {
	if capacity < 3 {
		capacity = DefaultHistoryCapacity
	}
	return &PlayerTracker{
		capacity:       capacity,
		accuracy:       0.5,
		aggressiveness: 0.5,
	}
}

// Record appends a position sample, evicting the oldest beyond capacity.
func (t *PlayerTracker) Record(pos arena.Vec2, now float64) {
	t.history = append(t.history, Sample{Pos: pos, Time: now})
	if len(t.history) > t.capacity {
		t.history = t.history[1:]
	}
}

// Classify computes the movement class from the average displacement
// over the last three samples. Fewer than three samples is neutral.
func (t *PlayerTracker) Classify() string {
	n := len(t.history)
	if n < 3 {
		return MoveNeutral
	}
	last := t.history[n-3:]
	dx := (last[2].Pos.X - last[0].Pos.X) / 2
	dy := (last[2].Pos.Y - last[0].Pos.Y) / 2
	speed := (arena.Vec2{X: dx, Y: dy}).Len()

	adx, ady := abs(dx), abs(dy)
	switch {
	case speed < 1:
		return MoveStationary
	case adx > 2*ady:
		return MoveHorizontal
	case ady > 2*adx:
		return MoveVertical
	default:
		return MoveDiagonal
	}
}

// Observe nudges the accuracy and aggressiveness scalars from this
// tick's events, clamping both to [0, 1].
func (t *PlayerTracker) Observe(ev Events) {
	if ev.Fired && ev.Hit {
		t.accuracy = clamp01(t.accuracy + accuracyHitStep)
	}
	if ev.Fired && ev.Miss {
		t.accuracy = clamp01(t.accuracy - accuracyMissStep)
	}
	if ev.Fired {
		t.aggressiveness = clamp01(t.aggressiveness + aggressionUpStep)
	} else {
		t.aggressiveness = clamp01(t.aggressiveness - aggressionDownStep)
	}
}

// Accuracy returns the smoothed player accuracy in [0, 1].
func (t *PlayerTracker) Accuracy() float64 { return t.accuracy }

// Aggressiveness returns the smoothed aggressiveness in [0, 1].
func (t *PlayerTracker) Aggressiveness() float64 { return t.aggressiveness }

// Samples returns the number of recorded positions.
func (t *PlayerTracker) Samples() int { return len(t.history) }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
