// Package display flips the orrery between compressed and true-to-scale
// presentation and toggles orbit trails.
package display

import (
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/solar"
)

// ErrStructuralInconsistency reports a catalog entry with no live group.
var ErrStructuralInconsistency = errors.New("catalog entry has no live nodes")

// OrbitScale selects which orbital radius each planet uses.
type OrbitScale int

const (
	OrbitDisplay OrbitScale = iota
	OrbitTrue
)

func (s OrbitScale) String() string {
	if s == OrbitTrue {
		return "true"
	}
	return "display"
}

// BodyScale selects how planet bodies are sized.
type BodyScale int

const (
	BodyUniform BodyScale = iota
	BodyRelative
)

func (s BodyScale) String() string {
	if s == BodyRelative {
		return "relative"
	}
	return "uniform"
}

// Mode is the current display state. Each axis only ever flips.
type Mode struct {
	Orbit  OrbitScale
	Body   BodyScale
	Trails bool
}

func (m Mode) String() string {
	trails := "off"
	if m.Trails {
		trails = "on"
	}
	return fmt.Sprintf("orbit=%s size=%s trails=%s", m.Orbit, m.Body, trails)
}

// Options configures the engine.
type Options struct {
	Duration      time.Duration
	UniformScale  float32
	Normalization float32
	Reference     string
}

// DefaultOptions returns the stock toggle settings.
func DefaultOptions() Options {
	return Options{
		Duration:      5 * time.Second,
		UniformScale:  0.05,
		Normalization: 20,
		Reference:     catalog.Earth,
	}
}

// Report describes the outcome of one toggle.
type Report struct {
	Mode     Mode
	Updated  []string
	Failures []error
}

// Err joins all per-entry failures, or returns nil.
func (r Report) Err() error {
	return errors.Join(r.Failures...)
}

// Engine applies toggles to one assembled system. It must only be used from
// the goroutine that owns the system's graph.
type Engine struct {
	sys       *solar.System
	opts      Options
	reference catalog.PlanetSpec
	mode      Mode
	log       *logging.Logger
}

// NewEngine creates an engine for sys. The starting mode is display orbits,
// uniform bodies, and trails as built.
func NewEngine(sys *solar.System, opts Options, log *logging.Logger) (*Engine, error) {
	if log == nil {
		log = logging.Discard()
	}
	if opts.Normalization <= 0 {
		return nil, fmt.Errorf("normalization must be positive, got %v", opts.Normalization)
	}
	if opts.UniformScale <= 0 {
		return nil, fmt.Errorf("uniform scale must be positive, got %v", opts.UniformScale)
	}
	if sys.Catalog.Len() == 0 {
		return nil, errors.New("empty catalog")
	}

	ref, ok := sys.Catalog.Get(opts.Reference)
	if !ok {
		ref = sys.Catalog.All()[0]
		log.Warn("reference body %q not in catalog, using %s", opts.Reference, ref.Name)
	}

	trails := true
	if entries := sys.Index.Entries(); len(entries) > 0 {
		trails = entries[0].Group.TrailVisible
	}

	return &Engine{
		sys:       sys,
		opts:      opts,
		reference: ref,
		mode:      Mode{Trails: trails},
		log:       log,
	}, nil
}

// Mode returns the current display mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Reference returns the body that relative sizes are measured against.
func (e *Engine) Reference() catalog.PlanetSpec {
	return e.reference
}

// ToggleOrbitScale flips between display and true orbital radii and animates
// every body and its trail ring to the new radius.
func (e *Engine) ToggleOrbitScale() Report {
	if e.mode.Orbit == OrbitDisplay {
		e.mode.Orbit = OrbitTrue
	} else {
		e.mode.Orbit = OrbitDisplay
	}

	tx := e.sys.Graph.Begin(e.opts.Duration)
	rep := e.each("orbit scale", func(spec catalog.PlanetSpec, grp *orbit.Group) error {
		r := e.OrbitRadius(spec)
		tx.SetPositionX(grp.Body, r)
		tx.SetRingRadius(grp.Ring, r)
		return nil
	})
	if err := tx.Commit(); err != nil {
		rep.Failures = append(rep.Failures, err)
	}

	e.log.Info("orbit scale -> %s (%d updated, %d failed)", e.mode.Orbit, len(rep.Updated), len(rep.Failures))
	return rep
}

// ToggleBodyScale flips between uniform and relative body sizes.
func (e *Engine) ToggleBodyScale() Report {
	if e.mode.Body == BodyUniform {
		e.mode.Body = BodyRelative
	} else {
		e.mode.Body = BodyUniform
	}

	tx := e.sys.Graph.Begin(e.opts.Duration)
	rep := e.each("body scale", func(spec catalog.PlanetSpec, grp *orbit.Group) error {
		tx.SetUniformScale(grp.Body, e.BodyScale(spec))
		return nil
	})
	if err := tx.Commit(); err != nil {
		rep.Failures = append(rep.Failures, err)
	}

	e.log.Info("body scale -> %s (%d updated, %d failed)", e.mode.Body, len(rep.Updated), len(rep.Failures))
	return rep
}

// ToggleTrails inverts the trail visibility of every group, satellites
// included. It takes effect immediately.
func (e *Engine) ToggleTrails() Report {
	e.mode.Trails = !e.mode.Trails

	rep := e.each("trails", func(spec catalog.PlanetSpec, grp *orbit.Group) error {
		return grp.SetTrailVisible(e.sys.Graph, !grp.TrailVisible)
	})

	e.log.Info("trails -> %t (%d updated, %d failed)", e.mode.Trails, len(rep.Updated), len(rep.Failures))
	return rep
}

// OrbitRadius returns the radius spec should have in the current mode.
func (e *Engine) OrbitRadius(spec catalog.PlanetSpec) float32 {
	if e.mode.Orbit == OrbitTrue {
		return spec.TrueOrbitalRadius
	}
	return spec.DisplayOrbitalRadius
}

// BodyScale returns the uniform scale spec should have in the current mode.
func (e *Engine) BodyScale(spec catalog.PlanetSpec) float32 {
	if e.mode.Body == BodyRelative {
		return spec.PhysicalRadius / e.reference.PhysicalRadius / e.opts.Normalization
	}
	return e.opts.UniformScale
}

// each walks the catalog in order and resolves every entry through the index.
// Entries without a live group, or whose update fails, are reported as
// failures; the rest are listed as updated.
func (e *Engine) each(op string, fn func(catalog.PlanetSpec, *orbit.Group) error) Report {
	rep := Report{Mode: e.mode}
	for _, spec := range e.sys.Catalog.All() {
		grp, ok := e.sys.Index.Lookup(spec.Name)
		if !ok || !e.sys.Graph.Has(grp.Body) {
			err := fmt.Errorf("%s: %s: %w", op, spec.Name, ErrStructuralInconsistency)
			e.log.Warn("%v", err)
			rep.Failures = append(rep.Failures, err)
			continue
		}
		if err := fn(spec, grp); err != nil {
			err = fmt.Errorf("%s: %s: %w: %w", op, spec.Name, ErrStructuralInconsistency, err)
			e.log.Warn("%v", err)
			rep.Failures = append(rep.Failures, err)
			continue
		}
		rep.Updated = append(rep.Updated, spec.Name)
	}
	return rep
}
