package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/starfall/bossai/internal/ai"
	"github.com/starfall/bossai/internal/arena"
	"github.com/starfall/bossai/internal/config"
	"github.com/starfall/bossai/internal/data"
	"github.com/starfall/bossai/internal/decision"
	"github.com/starfall/bossai/internal/llm"
	"github.com/starfall/bossai/internal/pattern"
	"github.com/starfall/bossai/internal/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            bossai  v0.1.0                 \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      adaptive boss decision engine        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main engine logic ──────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/bossai.toml"
	if p := os.Getenv("BOSSAI_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Pattern library, yaml tuning, lua scripts
	printSection("patterns")

	lib := pattern.NewLibrary(log)
	printStat("builtin patterns", lib.Count())

	tuning, err := data.LoadTuningTable(cfg.Patterns.TuningFile)
	if err != nil {
		return fmt.Errorf("pattern tuning: %w", err)
	}
	for _, t := range tuning.All() {
		lib.ApplyTuning(decision.PatternID(t.ID), pattern.Tuning{
			Duration:     t.DurationMS,
			Cooldown:     t.CooldownMS,
			FireInterval: t.FireIntervalMS,
			Damage:       t.Damage,
		})
	}
	printStat("tuning overrides", tuning.Count())

	scripts, err := scripting.NewEngine(cfg.Patterns.ScriptDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer scripts.Close()
	printStat("scripted patterns", lib.LoadScripted(scripts))
	fmt.Println()

	// 4. Decision service
	printSection("decision service")

	client := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		Spacing:     cfg.LLM.RequestSpacing,
		Timeout:     cfg.LLM.RequestTimeout,
		MaxHistory:  cfg.LLM.MaxHistory,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}, log)

	// 5. Boss and controller
	boss := arena.NewSimBoss(1000, patternNames(lib))
	ctrl := ai.NewController(ai.Config{
		UpdateInterval:         float64(cfg.AI.UpdateInterval.Milliseconds()),
		ReactionDistance:       cfg.AI.ReactionDistance,
		DefaultPatternDuration: float64(cfg.AI.DefaultPatternDuration.Milliseconds()),
		DamageReactionRatio:    cfg.AI.DamageReactionRatio,
		AccuracyHighWater:      cfg.AI.AccuracyHighWater,
		AccuracyLowWater:       cfg.AI.AccuracyLowWater,
		AdaptStep:              cfg.AI.AdaptStep,
		ArenaWidth:             cfg.Server.ArenaWidth,
		ArenaHeight:            cfg.Server.ArenaHeight,
	}, boss, lib, client, log)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ctrl.Init(initCtx)
	cancel()
	printOK(fmt.Sprintf("controller mode: %s", ctrl.Mode()))
	fmt.Println()

	printReady(fmt.Sprintf("duel running, tick %s", cfg.Server.TickRate))
	fmt.Println()

	// 6. Duel loop: a scripted player strafes the arena and chips the
	// boss down until SIGINT or boss death.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Server.TickRate)
	defer ticker.Stop()
	defer ctrl.Close()

	dt := float64(cfg.Server.TickRate.Milliseconds())
	elapsed := 0.0
	for {
		select {
		case <-sigCh:
			log.Info("shutting down")
			return nil
		case <-ticker.C:
			elapsed += dt
			player := arena.Vec2{
				X: cfg.Server.ArenaWidth/2 + 250*math.Sin(elapsed/900),
				Y: cfg.Server.ArenaHeight - 80,
			}
			ev := ai.Events{Fired: rand.Float64() < 0.6}
			if ev.Fired {
				ev.Hit = rand.Float64() < 0.4
				ev.Miss = !ev.Hit
			}
			if ev.Hit {
				dmg := 4 + rand.Float64()*8
				boss.HP -= dmg
				ctrl.OnDamageTaken(dmg)
			}
			snap := arena.Snapshot{
				Difficulty:  "normal",
				Level:       1,
				TimeElapsed: elapsed,
			}
			ctrl.Update(dt, player, ev, snap)

			if boss.HP <= 0 {
				log.Info("boss defeated",
					zap.Float64("elapsed_s", elapsed/1000),
					zap.Int("shots_fired", boss.TotalShots()))
				return nil
			}
		}
	}
}

func patternNames(lib *pattern.Library) []string {
	ids := lib.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
