package ai

// Health ratio thresholds for the three fight phases and the enrage
// flag. Exact boundary values resolve to the calmer side.
const (
	phase2Threshold = 0.66
	phase3Threshold = 0.33
	enrageThreshold = 0.25
)

// StateMonitor derives the fight phase and enrage state from the boss's
// health ratio and remembers when damage was last taken.
type StateMonitor struct {
	phase       int
	enraged     bool
	prevHealth  float64
	lastDamage  float64
	initialized bool
}

// NewStateMonitor returns a monitor in phase 1, not enraged.
func NewStateMonitor() *StateMonitor {
	return &StateMonitor{phase: 1}
}

// PhaseFor maps a health ratio to its phase.
func PhaseFor(ratio float64) int {
	switch {
	case ratio > phase2Threshold:
		return 1
	case ratio > phase3Threshold:
		return 2
	default:
		return 3
	}
}

// Update recomputes phase and enrage from current health and reports
// whether the phase changed on this update. The first update sets the
// baseline and never reports a change.
func (m *StateMonitor) Update(health, maxHealth, now float64) bool {
	ratio := 0.0
	if maxHealth > 0 {
		ratio = health / maxHealth
	}

	if m.initialized && health < m.prevHealth {
		m.lastDamage = now
	}
	m.prevHealth = health
	m.enraged = ratio < enrageThreshold

	next := PhaseFor(ratio)
	if !m.initialized {
		m.initialized = true
		m.phase = next
		return false
	}
	changed := next != m.phase
	m.phase = next
	return changed
}

// Phase returns the current fight phase, 1 through 3.
func (m *StateMonitor) Phase() int { return m.phase }

// Enraged reports whether the health ratio is below the enrage line.
func (m *StateMonitor) Enraged() bool { return m.enraged }

// LastDamageTime returns the controller-clock time of the last observed
// health decrease.
func (m *StateMonitor) LastDamageTime() float64 { return m.lastDamage }

// RecordDamage marks an externally reported hit.
func (m *StateMonitor) RecordDamage(now float64) { m.lastDamage = now }
