package ai

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/starfall/bossai/internal/arena"
	"github.com/starfall/bossai/internal/decision"
	"github.com/starfall/bossai/internal/pattern"
)

// Mode is the controller's decision source after initialization.
type Mode int

const (
	ModeInitializing Mode = iota
	ModeLLMBacked
	ModeFallbackOnly
)

func (m Mode) String() string {
	switch m {
	case ModeLLMBacked:
		return "llm"
	case ModeFallbackOnly:
		return "fallback"
	default:
		return "initializing"
	}
}

// DecisionClient is the external decision service as the controller
// sees it. *llm.Client satisfies it.
type DecisionClient interface {
	Init(ctx context.Context)
	Available() bool
	RequestDecision(ctx context.Context, dctx decision.Context) (decision.Decision, error)
}

// Config tunes controller timing and adaptation.
type Config struct {
	UpdateInterval         float64 // ms between decisions
	ReactionDistance       float64 // player displacement that forces a re-decision
	DefaultPatternDuration float64 // ms, used when no pattern is active
	DamageReactionRatio    float64 // fraction of max health that zeroes the cooldown
	AccuracyHighWater      float64 // adapt up only above this player accuracy
	AccuracyLowWater       float64 // adapt down only below it
	AdaptStep              float64 // multiplier step per adaptation
	ArenaWidth             float64
	ArenaHeight            float64
}

// DefaultConfig returns the stock controller tuning.
func DefaultConfig() Config {
	return Config{
		UpdateInterval:         2000,
		ReactionDistance:       100,
		DefaultPatternDuration: 5000,
		DamageReactionRatio:    0.1,
		AccuracyHighWater:      0.8,
		AccuracyLowWater:       0.3,
		AdaptStep:              0.1,
		ArenaWidth:             800,
		ArenaHeight:            600,
	}
}

type asyncResult struct {
	seq      uint64
	decision decision.Decision
	err      error
}

// Controller orchestrates one boss's decision cycle. It is driven by a
// single goroutine calling Update; only the decision request runs
// concurrently, one at a time, and hands its result back through the
// mailbox.
type Controller struct {
	cfg      Config
	boss     arena.BossEntity
	lib      *pattern.Library
	client   DecisionClient
	fallback *decision.Fallback
	tracker  *PlayerTracker
	monitor  *StateMonitor
	log      *zap.Logger

	mode         Mode
	current      *pattern.Instance
	patternTimer float64
	cooldown     float64
	elapsed      float64

	lastHealth    float64
	lastPlayerPos arena.Vec2
	decided       bool
	lastDecision  decision.Decision

	inflight bool
	seq      uint64
	results  chan asyncResult
	closed   atomic.Bool

	player arena.Vec2
	snap   arena.Snapshot
}

// NewController wires a controller around a boss entity.
func NewController(cfg Config, boss arena.BossEntity, lib *pattern.Library, client DecisionClient, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		cfg:      cfg,
		boss:     boss,
		lib:      lib,
		client:   client,
		fallback: &decision.Fallback{},
		tracker:  NewPlayerTracker(DefaultHistoryCapacity),
		monitor:  NewStateMonitor(),
		log:      log,
		results:  make(chan asyncResult, 1),
	}
}

// Init probes the external decision service and fixes the controller's
// mode. With no client, or an unavailable one, the controller runs on
// the fallback engine alone.
func (c *Controller) Init(ctx context.Context) {
	if c.client != nil {
		c.client.Init(ctx)
		if c.client.Available() {
			c.mode = ModeLLMBacked
			c.log.Info("boss controller online", zap.String("mode", c.mode.String()))
			return
		}
	}
	c.mode = ModeFallbackOnly
	c.log.Info("boss controller online", zap.String("mode", c.mode.String()))
}

// Mode returns the controller's decision source.
func (c *Controller) Mode() Mode { return c.mode }

// Tracker exposes the player tracker for inspection.
func (c *Controller) Tracker() *PlayerTracker { return c.tracker }

// Monitor exposes the boss state monitor for inspection.
func (c *Controller) Monitor() *StateMonitor { return c.monitor }

// CurrentPattern returns the active pattern id, or "" when idle.
func (c *Controller) CurrentPattern() decision.PatternID {
	if c.current == nil {
		return ""
	}
	return decision.PatternID(c.current.Def.ID)
}

// LastDecision returns the most recently applied decision.
func (c *Controller) LastDecision() (decision.Decision, bool) {
	return c.lastDecision, c.decided
}

// Update advances the controller by dt milliseconds. The order is
// fixed: drain async results, observe the player, refresh boss state,
// evaluate the decision predicate, then run the active pattern.
func (c *Controller) Update(dt float64, player arena.Vec2, ev Events, snap arena.Snapshot) {
	if c.closed.Load() {
		return
	}
	c.elapsed += dt
	c.cooldown -= dt
	c.patternTimer += dt
	c.player = player
	c.snap = snap

	c.drainResults()

	c.tracker.Record(player, c.elapsed)
	c.tracker.Observe(ev)

	if c.monitor.Update(c.boss.Health(), c.boss.MaxHealth(), c.elapsed) {
		c.onPhaseChange()
	}

	if c.shouldDecide() {
		c.decide()
	}

	c.runPattern(dt)
}

// OnDamageTaken notes an external hit report. A chunk larger than the
// reaction ratio of max health forces a re-decision on the next tick.
func (c *Controller) OnDamageTaken(amount float64) {
	c.monitor.RecordDamage(c.elapsed)
	if c.boss.MaxHealth() > 0 && amount > c.cfg.DamageReactionRatio*c.boss.MaxHealth() {
		c.cooldown = 0
		c.log.Debug("heavy hit, forcing re-decision", zap.Float64("amount", amount))
	}
}

// Close tears the controller down. Any in-flight decision result is
// discarded; Update becomes a no-op.
func (c *Controller) Close() {
	c.closed.Store(true)
}

func (c *Controller) drainResults() {
	select {
	case res := <-c.results:
		c.inflight = false
		if res.seq != c.seq {
			c.log.Debug("stale decision discarded",
				zap.Uint64("seq", res.seq), zap.Uint64("latest", c.seq))
			return
		}
		if res.err != nil {
			c.log.Warn("decision request failed, using fallback", zap.Error(res.err))
			c.apply(c.fallback.Decide(c.buildContext()))
			return
		}
		c.apply(res.decision)
	default:
	}
}

func (c *Controller) onPhaseChange() {
	phase := c.monitor.Phase()
	c.cooldown = 0
	switch phase {
	case 2:
		c.boss.ActivatePhase2()
	case 3:
		c.boss.ActivatePhase3()
	}
	c.log.Info("phase transition",
		zap.Int("phase", phase),
		zap.Bool("enraged", c.monitor.Enraged()))
}

// shouldDecide is the decision predicate: cooldown elapsed, and the
// situation has actually changed since the last decision.
func (c *Controller) shouldDecide() bool {
	if c.cooldown > 0 {
		return false
	}
	if !c.decided {
		return true
	}
	if c.boss.Health() != c.lastHealth {
		return true
	}
	duration := c.cfg.DefaultPatternDuration
	if c.current != nil {
		duration = c.current.Def.Duration
	}
	if c.patternTimer > duration {
		return true
	}
	return c.player.Dist(c.lastPlayerPos) > c.cfg.ReactionDistance
}

func (c *Controller) decide() {
	c.cooldown = c.cfg.UpdateInterval
	c.lastHealth = c.boss.Health()
	c.lastPlayerPos = c.player

	dctx := c.buildContext()

	if c.mode == ModeLLMBacked && c.client != nil && c.client.Available() {
		if c.inflight {
			return // one request at a time; the running one still applies
		}
		c.inflight = true
		c.seq++
		seq := c.seq
		go func() {
			d, err := c.client.RequestDecision(context.Background(), dctx)
			if c.closed.Load() {
				return
			}
			c.results <- asyncResult{seq: seq, decision: d, err: err}
		}()
		return
	}

	c.apply(c.fallback.Decide(dctx))
}

func (c *Controller) buildContext() decision.Context {
	ratio := 0.0
	if c.boss.MaxHealth() > 0 {
		ratio = c.boss.Health() / c.boss.MaxHealth()
	}
	return decision.Context{
		HealthRatio:       ratio,
		Phase:             c.monitor.Phase(),
		Enraged:           c.monitor.Enraged(),
		Personality:       c.boss.Personality(),
		BossPos:           c.boss.Position(),
		PlayerPos:         c.player,
		PlayerDistance:    c.boss.Position().Dist(c.player),
		MovementClass:     c.tracker.Classify(),
		Accuracy:          c.tracker.Accuracy(),
		Aggressiveness:    c.tracker.Aggressiveness(),
		Game:              c.snap,
		AvailablePatterns: legalPatterns(c.boss),
		CurrentPattern:    c.CurrentPattern(),
		ArenaWidth:        c.cfg.ArenaWidth,
		ArenaHeight:       c.cfg.ArenaHeight,
	}
}

func (c *Controller) apply(d decision.Decision) {
	decision.Sanitize(&d, legalPatterns(c.boss))

	if c.current == nil || c.current.Def.ID != d.AttackPattern {
		c.current = c.lib.Instantiate(d.AttackPattern, c.boss)
		c.patternTimer = 0
		c.log.Info("pattern assigned",
			zap.String("pattern", string(d.AttackPattern)),
			zap.String("reason", d.Reasoning))
	}

	if d.Movement != nil {
		c.boss.SetMovementTarget(d.Movement.Target)
		c.boss.SetSpeed(c.boss.BaseSpeed() * d.Movement.Speed)
	}

	if d.Special != nil {
		c.applySpecial(d.Special)
	}
	if d.Adapt != nil {
		c.applyAdaptation(*d.Adapt)
	}

	c.lastDecision = d
	c.decided = true
}

func (c *Controller) applySpecial(s *decision.SpecialAction) {
	switch s.Type {
	case decision.SpecialTeleport:
		c.boss.Teleport(c.teleportTarget(s.Parameters))
	case decision.SpecialShield:
		c.boss.ActivateShield(paramFloat(s.Parameters, "duration", 3000))
	case decision.SpecialHeal:
		amount := paramFloat(s.Parameters, "amount", 0.1*c.boss.MaxHealth())
		c.boss.Heal(amount)
	case decision.SpecialSummon:
		c.boss.SummonMinions(int(paramFloat(s.Parameters, "count", 2)))
	case decision.SpecialRage:
		c.boss.ActivateRage(paramFloat(s.Parameters, "multiplier", 1.5))
	}
	c.log.Debug("special action", zap.String("type", s.Type))
}

// teleportTarget honors explicit coordinates, otherwise flanks to the
// far side of the player, clamped inside the arena.
func (c *Controller) teleportTarget(params map[string]any) arena.Vec2 {
	x, okX := paramLookup(params, "x")
	y, okY := paramLookup(params, "y")
	if okX && okY {
		return arena.Vec2{
			X: clampRange(x, 0, c.cfg.ArenaWidth),
			Y: clampRange(y, 0, c.cfg.ArenaHeight),
		}
	}
	tx := c.cfg.ArenaWidth * 0.75
	if c.player.X > c.cfg.ArenaWidth/2 {
		tx = c.cfg.ArenaWidth * 0.25
	}
	return arena.Vec2{X: tx, Y: c.boss.Position().Y}
}

func (c *Controller) applyAdaptation(a decision.AdaptDifficulty) {
	step := c.cfg.AdaptStep
	if a.Increase && c.tracker.Accuracy() > c.cfg.AccuracyHighWater {
		c.boss.SetDamageMultiplier(c.boss.DamageMultiplier() * (1 + step))
		c.boss.SetSpeedMultiplier(c.boss.SpeedMultiplier() * (1 + step))
		c.log.Debug("difficulty raised", zap.Float64("accuracy", c.tracker.Accuracy()))
	}
	if a.Decrease && c.tracker.Accuracy() < c.cfg.AccuracyLowWater {
		c.boss.SetDamageMultiplier(c.boss.DamageMultiplier() * (1 - step))
		c.boss.SetSpeedMultiplier(c.boss.SpeedMultiplier() * (1 - step))
		c.log.Debug("difficulty lowered", zap.Float64("accuracy", c.tracker.Accuracy()))
	}
}

func (c *Controller) runPattern(dt float64) {
	if c.current == nil {
		return
	}
	c.lib.Tick(c.current, dt, c.player)
	if c.current.Done() {
		c.log.Debug("pattern finished", zap.String("pattern", string(c.current.Def.ID)))
		c.current = nil
	}
}

func legalPatterns(boss arena.BossEntity) []decision.PatternID {
	names := boss.AttackPatterns()
	ids := make([]decision.PatternID, len(names))
	for i, n := range names {
		ids[i] = decision.PatternID(n)
	}
	return ids
}

func paramFloat(params map[string]any, key string, def float64) float64 {
	if v, ok := paramLookup(params, key); ok {
		return v
	}
	return def
}

func paramLookup(params map[string]any, key string) (float64, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
