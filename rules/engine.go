package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pinball/physics"
	"github.com/rs/zerolog/log"
)

var ErrNoReact = errors.New("rules: script does not define react")

const reactDispatchScript = `
if __phase == "react" {
	__result = react(__tag)
}
`

// Reaction is what gameplay does in response to one tagged contact.
type Reaction struct {
	Points  int
	Impulse cp.Vector
	Cue     string
	// Kicker is "left" or "right" when a kicker fired.
	Kicker      string
	ArmLaunch   bool
	BasicLaunch bool
	Disarm      bool
	Drain       bool
	Start       bool
	Flash       bool
}

// Empty reports whether the reaction changes nothing.
func (r Reaction) Empty() bool {
	return r == Reaction{}
}

// Engine runs a compiled rules script. It is not safe for concurrent use.
type Engine struct {
	name     string
	compiled *tengo.Compiled
}

// Load compiles the named script from LoadScript.
func Load(name string) (*Engine, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("rules: load %s: %w", name, err)
	}
	return Compile(name, src)
}

// Compile compiles src, which must define react(tag).
func Compile(name string, src []byte) (*Engine, error) {
	compiled, err := compile(src)
	if err != nil {
		return nil, fmt.Errorf("rules: compile %s: %w", name, err)
	}
	log.Info().Str("component", "rules").Str("script", name).Msg("rules compiled")
	return &Engine{name: name, compiled: compiled}, nil
}

func compile(src []byte) (*tengo.Compiled, error) {
	full := string(src) + "\n" + reactDispatchScript
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__phase", "")
	_ = script.Add("__tag", "")
	_ = script.Add("__result", nil)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	if err := compiled.Run(); err != nil {
		return nil, err
	}
	if !compiled.IsDefined("react") {
		return nil, ErrNoReact
	}
	return compiled, nil
}

// Name returns the script name the engine was built from.
func (e *Engine) Name() string {
	if e == nil {
		return ""
	}
	return e.name
}

// Reload recompiles the script. On failure the previous script stays active.
func (e *Engine) Reload() error {
	if e == nil {
		return nil
	}
	src, err := LoadScript(e.name)
	if err != nil {
		return fmt.Errorf("rules: load %s: %w", e.name, err)
	}
	compiled, err := compile(src)
	if err != nil {
		return fmt.Errorf("rules: compile %s: %w", e.name, err)
	}
	e.compiled = compiled
	log.Info().Str("component", "rules").Str("script", e.name).Msg("rules reloaded")
	return nil
}

// React runs the script for tag.
func (e *Engine) React(tag physics.Tag) (Reaction, error) {
	if e == nil || e.compiled == nil {
		return Reaction{}, nil
	}
	if err := e.compiled.Set("__phase", "react"); err != nil {
		return Reaction{}, err
	}
	if err := e.compiled.Set("__tag", tag.String()); err != nil {
		return Reaction{}, err
	}
	if err := e.compiled.Set("__result", nil); err != nil {
		return Reaction{}, err
	}
	err := e.compiled.Run()
	_ = e.compiled.Set("__phase", "")
	if err != nil {
		return Reaction{}, fmt.Errorf("rules: react %s: %w", tag, err)
	}

	result := e.compiled.Get("__result")
	if result.IsUndefined() {
		return Reaction{}, nil
	}
	values := result.Map()
	if values == nil {
		return Reaction{}, fmt.Errorf("rules: react %s returned %s, want map", tag, result.ValueType())
	}
	return reactionFromMap(values), nil
}

func reactionFromMap(values map[string]interface{}) Reaction {
	return Reaction{
		Points:      int(asFloat(values["points"])),
		Impulse:     cp.Vector{X: asFloat(values["impulse_x"]), Y: asFloat(values["impulse_y"])},
		Cue:         asString(values["cue"]),
		Kicker:      strings.ToLower(asString(values["kicker"])),
		ArmLaunch:   asBool(values["arm_launch"]),
		BasicLaunch: asBool(values["basic_launch"]),
		Disarm:      asBool(values["disarm"]),
		Drain:       asBool(values["drain"]),
		Start:       asBool(values["start"]),
		Flash:       asBool(values["flash"]),
	}
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
