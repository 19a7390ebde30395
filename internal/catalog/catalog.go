// Package catalog defines the immutable planet specifications that make up
// the orrery's content.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec is returned when a planet specification fails validation.
var ErrInvalidSpec = errors.New("invalid planet spec")

// PlanetSpec describes one body. Orbital radii are in scene units, periods in
// seconds of animation time.
type PlanetSpec struct {
	Name                 string      `yaml:"name"`
	PhysicalRadius       float32     `yaml:"physical_radius"` // km
	TrueOrbitalRadius    float32     `yaml:"true_orbital_radius"`
	DisplayOrbitalRadius float32     `yaml:"display_orbital_radius"`
	Color                string      `yaml:"color"`           // hex, e.g. "#2E6BD1"
	Asset                string      `yaml:"asset,omitempty"` // named asset; empty = procedural
	RotationPeriod       float32     `yaml:"rotation_period"` // one orbit revolution
	SpinPeriod           float32     `yaml:"spin_period,omitempty"`       // self-rotation; 0 = RotationPeriod
	CounterClockwise     *bool       `yaml:"counter_clockwise,omitempty"` // nil = default for the nesting level
	Satellite            *PlanetSpec `yaml:"satellite,omitempty"`
}

// Clockwise reports the orbit direction. Without an explicit direction,
// planets orbit clockwise and satellites counter-clockwise.
func (p PlanetSpec) Clockwise(satellite bool) bool {
	if p.CounterClockwise != nil {
		return !*p.CounterClockwise
	}
	return !satellite
}

// Spin returns the self-rotation period of the body.
func (p PlanetSpec) Spin() float32 {
	if p.SpinPeriod > 0 {
		return p.SpinPeriod
	}
	return p.RotationPeriod
}

// Direction returns a pointer for CounterClockwise.
func Direction(counterClockwise bool) *bool {
	return &counterClockwise
}

// Validate checks the planet and its satellite chain.
func (p PlanetSpec) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSpec)
	}
	if p.PhysicalRadius <= 0 {
		return fmt.Errorf("%w: %s: physical radius %v must be positive", ErrInvalidSpec, p.Name, p.PhysicalRadius)
	}
	if p.RotationPeriod <= 0 {
		return fmt.Errorf("%w: %s: rotation period %v must be positive", ErrInvalidSpec, p.Name, p.RotationPeriod)
	}
	if p.DisplayOrbitalRadius < 0 || p.TrueOrbitalRadius < 0 {
		return fmt.Errorf("%w: %s: orbital radius must not be negative", ErrInvalidSpec, p.Name)
	}
	if p.SpinPeriod < 0 {
		return fmt.Errorf("%w: %s: spin period %v must not be negative", ErrInvalidSpec, p.Name, p.SpinPeriod)
	}
	if p.Satellite != nil {
		if err := p.Satellite.Validate(); err != nil {
			return fmt.Errorf("%s satellite: %w", p.Name, err)
		}
	}
	return nil
}

// clone returns a deep copy so callers can never alias catalog storage.
func (p PlanetSpec) clone() PlanetSpec {
	if p.CounterClockwise != nil {
		p.CounterClockwise = Direction(*p.CounterClockwise)
	}
	if p.Satellite != nil {
		sat := p.Satellite.clone()
		p.Satellite = &sat
	}
	return p
}

// Catalog is an ordered, immutable list of planet specs with unique names.
type Catalog struct {
	specs  []PlanetSpec
	byName map[string]int
}

// New validates specs and returns a catalog preserving their order.
func New(specs ...PlanetSpec) (*Catalog, error) {
	c := &Catalog{
		specs:  make([]PlanetSpec, 0, len(specs)),
		byName: make(map[string]int, len(specs)),
	}
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byName[s.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidSpec, s.Name)
		}
		c.byName[s.Name] = len(c.specs)
		c.specs = append(c.specs, s.clone())
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.specs)
}

// All returns a copy of every spec in catalog order.
func (c *Catalog) All() []PlanetSpec {
	out := make([]PlanetSpec, len(c.specs))
	for i, s := range c.specs {
		out[i] = s.clone()
	}
	return out
}

// Get returns the spec with the given name.
func (c *Catalog) Get(name string) (PlanetSpec, bool) {
	i, ok := c.byName[name]
	if !ok {
		return PlanetSpec{}, false
	}
	return c.specs[i].clone(), true
}

// Names returns entry names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.specs))
	for i, s := range c.specs {
		names[i] = s.Name
	}
	return names
}

// file is the on-disk layout of a catalog override.
type file struct {
	Planets []PlanetSpec `yaml:"planets"`
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Planets) == 0 {
		return nil, fmt.Errorf("%w: catalog has no planets", ErrInvalidSpec)
	}
	return New(f.Planets...)
}

// Load reads a YAML catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}
