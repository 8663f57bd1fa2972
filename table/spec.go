package table

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/pinball/physics"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("table: invalid spec")

type Table struct {
	Name     string        `yaml:"name"`
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	GravityY float64       `yaml:"gravity_y"`
	Tuning   Tuning        `yaml:"tuning"`
	Ball     BallSpec      `yaml:"ball"`
	Chains   []ChainSpec   `yaml:"chains"`
	Sensors  []BoxSpec     `yaml:"sensors"`
	Bumpers  []BumperSpec  `yaml:"bumpers"`
	Flippers []FlipperSpec `yaml:"flippers"`
	Plunger  PlungerSpec   `yaml:"plunger"`
}

// Tuning holds the gameplay numbers that may change while the table is running.
type Tuning struct {
	FlipperFireSpeed   float64 `yaml:"flipper_fire_speed"`
	FlipperReturnSpeed float64 `yaml:"flipper_return_speed"`
	FlipperMaxTorque   float64 `yaml:"flipper_max_torque"`
	PlungerTravel      int     `yaml:"plunger_travel"`
	PlungerMaxForce    float64 `yaml:"plunger_max_force"`
	PlungerChargeSpeed float64 `yaml:"plunger_charge_speed"`
	PlungerFireSpeed   float64 `yaml:"plunger_fire_speed"`
	PlungerReturnSpeed float64 `yaml:"plunger_return_speed"`
	Lives              int     `yaml:"lives"`
	ExtraLifeScore     int     `yaml:"extra_life_score"`
	HitFlash           float64 `yaml:"hit_flash"`
	DrainDelay         float64 `yaml:"drain_delay"`
	ScoreRoll          float64 `yaml:"score_roll"`
}

type BallSpec struct {
	X      int        `yaml:"x"`
	Y      int        `yaml:"y"`
	Radius int        `yaml:"radius"`
	Color  *YAMLColor `yaml:"color"`
}

type ChainSpec struct {
	Name   string     `yaml:"name"`
	Tag    string     `yaml:"tag"`
	Type   string     `yaml:"type"`
	X      int        `yaml:"x"`
	Y      int        `yaml:"y"`
	Points []int      `yaml:"points"`
	Gate   bool       `yaml:"gate"`
	Color  *YAMLColor `yaml:"color"`
}

type BoxSpec struct {
	Name  string     `yaml:"name"`
	Tag   string     `yaml:"tag"`
	X     int        `yaml:"x"`
	Y     int        `yaml:"y"`
	W     int        `yaml:"w"`
	H     int        `yaml:"h"`
	Color *YAMLColor `yaml:"color"`
}

type BumperSpec struct {
	Name   string     `yaml:"name"`
	X      int        `yaml:"x"`
	Y      int        `yaml:"y"`
	Radius int        `yaml:"radius"`
	Color  *YAMLColor `yaml:"color"`
}

type PivotSpec struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Radius int `yaml:"radius"`
}

type FlipperSpec struct {
	Name   string     `yaml:"name"`
	Paddle BoxSpec    `yaml:"paddle"`
	Pivot  PivotSpec  `yaml:"pivot"`
	Color  *YAMLColor `yaml:"color"`

	// Character is where the character sensor moves when this flipper fires.
	Character *PointSpec `yaml:"character"`
}

type PointSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type AxisSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type PlungerSpec struct {
	Body   BoxSpec    `yaml:"body"`
	Anchor BoxSpec    `yaml:"anchor"`
	Axis   AxisSpec   `yaml:"axis"`
	Color  *YAMLColor `yaml:"color"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("table: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("table: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadTable reads, defaults and validates the named table.
func LoadTable(name string) (*Table, error) {
	t, err := LoadSpec[Table](FileName(name))
	if err != nil {
		return nil, err
	}
	t.applyDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseTable decodes a table from raw YAML.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("table: unmarshal: %w", err)
	}
	t.applyDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) applyDefaults() {
	if t.Width == 0 {
		t.Width = 512
	}
	if t.Height == 0 {
		t.Height = 864
	}
	if t.GravityY == 0 {
		t.GravityY = physics.DefaultGravityY
	}
	if t.Tuning.Lives == 0 {
		t.Tuning.Lives = 3
	}
	if t.Tuning.HitFlash == 0 {
		t.Tuning.HitFlash = 0.25
	}
	if t.Plunger.Axis.X == 0 && t.Plunger.Axis.Y == 0 {
		t.Plunger.Axis.Y = -1
	}
}

// Validate checks every tag, body type and shape size before anything is
// created in a world.
func (t *Table) Validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: table size %dx%d", ErrInvalidSpec, t.Width, t.Height)
	}
	if t.Ball.Radius <= 0 {
		return fmt.Errorf("%w: ball radius %d", ErrInvalidSpec, t.Ball.Radius)
	}
	if t.Tuning.Lives < 0 || t.Tuning.ExtraLifeScore < 0 {
		return fmt.Errorf("%w: negative lives or extra life score", ErrInvalidSpec)
	}
	for _, c := range t.Chains {
		if len(c.Points)%2 != 0 || len(c.Points) < 6 {
			return fmt.Errorf("%w: chain %q has %d coordinates", ErrInvalidSpec, c.Name, len(c.Points))
		}
		if _, err := physics.ParseTag(c.Tag); err != nil {
			return fmt.Errorf("%w: chain %q: %v", ErrInvalidSpec, c.Name, err)
		}
		if _, err := physics.ParseBodyType(c.Type); err != nil {
			return fmt.Errorf("%w: chain %q: %v", ErrInvalidSpec, c.Name, err)
		}
	}
	for _, s := range t.Sensors {
		if err := s.validate("sensor"); err != nil {
			return err
		}
	}
	for _, b := range t.Bumpers {
		if b.Radius <= 0 {
			return fmt.Errorf("%w: bumper %q radius %d", ErrInvalidSpec, b.Name, b.Radius)
		}
	}
	if len(t.Flippers) > 2 {
		return fmt.Errorf("%w: %d flippers, at most one per side", ErrInvalidSpec, len(t.Flippers))
	}
	for _, f := range t.Flippers {
		if err := f.Paddle.validate("flipper paddle"); err != nil {
			return err
		}
		if f.Pivot.Radius <= 0 {
			return fmt.Errorf("%w: flipper %q pivot radius %d", ErrInvalidSpec, f.Name, f.Pivot.Radius)
		}
	}
	if t.HasPlunger() {
		if err := t.Plunger.Body.validate("plunger body"); err != nil {
			return err
		}
		if err := t.Plunger.Anchor.validate("plunger anchor"); err != nil {
			return err
		}
	}
	return nil
}

// HasPlunger reports whether the table defines a plunger body.
func (t *Table) HasPlunger() bool {
	return t.Plunger.Body.W > 0 || t.Plunger.Body.H > 0
}

func (b BoxSpec) validate(kind string) error {
	if b.W <= 0 || b.H <= 0 {
		return fmt.Errorf("%w: %s %q size %dx%d", ErrInvalidSpec, kind, b.Name, b.W, b.H)
	}
	if _, err := physics.ParseTag(b.Tag); err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidSpec, kind, b.Name, err)
	}
	return nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the parsed color, or fallback when none was given.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
