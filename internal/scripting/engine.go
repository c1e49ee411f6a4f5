package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM hosting scripted attack patterns.
// Single-goroutine access only (the game tick). A script defines one
// global function per pattern, named pattern_<id>, plus an optional
// pattern_meta table carrying timing overrides.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file from dir.
// A missing directory is not an error; the engine just hosts no
// patterns.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(dir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load pattern scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded pattern script", zap.String("file", path))
	}
	return nil
}

// PatternNames returns the ids of every scripted pattern the loaded
// scripts define (globals named pattern_<id>).
func (e *Engine) PatternNames() []string {
	var names []string
	globals := e.vm.Get(lua.GlobalsIndex).(*lua.LTable)
	globals.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok || v.Type() != lua.LTFunction {
			return
		}
		name := string(key)
		if strings.HasPrefix(name, "pattern_") {
			names = append(names, strings.TrimPrefix(name, "pattern_"))
		}
	})
	return names
}

// Meta holds timing overrides a script declares for its pattern.
// Zero fields fall back to the library's scripted-pattern defaults.
type Meta struct {
	DisplayName  string
	Duration     float64
	Cooldown     float64
	FireInterval float64
	Damage       float64
}

// PatternMeta reads pattern_meta[id] if the scripts define it.
func (e *Engine) PatternMeta(id string) Meta {
	var m Meta
	metaTbl, ok := e.vm.GetGlobal("pattern_meta").(*lua.LTable)
	if !ok {
		return m
	}
	row, ok := metaTbl.RawGetString(id).(*lua.LTable)
	if !ok {
		return m
	}
	m.DisplayName = lStr(row, "display_name")
	m.Duration = lNum(row, "duration")
	m.Cooldown = lNum(row, "cooldown")
	m.FireInterval = lNum(row, "fire_interval")
	m.Damage = lNum(row, "damage")
	return m
}

// PatternContext is the situation passed to a scripted emitter.
type PatternContext struct {
	Timer       float64
	BossX       float64
	BossY       float64
	BossW       float64
	BossH       float64
	PlayerX     float64
	PlayerY     float64
	Phase       int
	Enraged     bool
	HealthRatio float64
	DamageMult  float64
	SpeedMult   float64
}

// ProjectileSpec is one row of the batch a scripted emitter returns.
type ProjectileSpec struct {
	X, Y   float64
	VX, VY float64
	Damage float64
	Color  string
	Homing bool
	Kind   string
	Radius float64
	Timer  float64
}

// RunPattern calls pattern_<id>(ctx) and converts the returned rows.
// Script errors are logged and yield an empty batch; a broken script
// must never stall the tick.
func (e *Engine) RunPattern(id string, ctx PatternContext) []ProjectileSpec {
	fn := e.vm.GetGlobal("pattern_" + id)
	if fn == lua.LNil {
		e.log.Error("lua pattern function not found", zap.String("id", id))
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("timer", lua.LNumber(ctx.Timer))
	t.RawSetString("boss_x", lua.LNumber(ctx.BossX))
	t.RawSetString("boss_y", lua.LNumber(ctx.BossY))
	t.RawSetString("boss_w", lua.LNumber(ctx.BossW))
	t.RawSetString("boss_h", lua.LNumber(ctx.BossH))
	t.RawSetString("player_x", lua.LNumber(ctx.PlayerX))
	t.RawSetString("player_y", lua.LNumber(ctx.PlayerY))
	t.RawSetString("phase", lua.LNumber(ctx.Phase))
	if ctx.Enraged {
		t.RawSetString("enraged", lua.LTrue)
	} else {
		t.RawSetString("enraged", lua.LFalse)
	}
	t.RawSetString("health_ratio", lua.LNumber(ctx.HealthRatio))
	t.RawSetString("damage_mult", lua.LNumber(ctx.DamageMult))
	t.RawSetString("speed_mult", lua.LNumber(ctx.SpeedMult))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua pattern error", zap.String("id", id), zap.Error(err))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	var batch []ProjectileSpec
	rt.ForEach(func(_, v lua.LValue) {
		row, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		batch = append(batch, ProjectileSpec{
			X:      lNum(row, "x"),
			Y:      lNum(row, "y"),
			VX:     lNum(row, "vx"),
			VY:     lNum(row, "vy"),
			Damage: lNum(row, "damage"),
			Color:  lStr(row, "color"),
			Homing: row.RawGetString("homing") == lua.LTrue,
			Kind:   lStr(row, "kind"),
			Radius: lNum(row, "radius"),
			Timer:  lNum(row, "timer"),
		})
	})
	return batch
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}
