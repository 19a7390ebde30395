// Package orbit builds the node hierarchy for a single orbiting body:
// a pivot at the orbit center, a trail ring, and the body offset along x.
package orbit

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/assets"
	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Category bit masks. Bodies are lit by the sun light; fill lights use their
// own category so they do not double-light bodies.
const (
	CategoryBody uint32 = 1
	CategoryFill uint32 = 2
)

// Sun asset name.
const SunAsset = "sun"

// AssetSource supplies prebuilt geometry by name.
type AssetSource interface {
	Lookup(name string) (assets.Asset, error)
}

// Options controls the appearance of built groups.
type Options struct {
	BodyScale     float32 // initial uniform scale of top-level bodies
	TrailsVisible bool
	TrailPipe     float32
	TrailColor    colorful.Color
	TrailAlpha    float64

	SunSpin           time.Duration
	SunFallbackRadius float32
	SunFallbackScale  float32
}

// DefaultOptions returns the built-in appearance.
func DefaultOptions() Options {
	return Options{
		BodyScale:         0.05,
		TrailsVisible:     true,
		TrailPipe:         0.002,
		TrailColor:        colorful.Color{R: 1, G: 1, B: 0},
		TrailAlpha:        0.5,
		SunSpin:           9 * time.Second,
		SunFallbackRadius: 5,
		SunFallbackScale:  0.01,
	}
}

// Group is the live node set for one catalog entry.
type Group struct {
	Spec         catalog.PlanetSpec
	Pivot        scene.NodeID
	Ring         scene.NodeID
	Body         scene.NodeID
	TrailVisible bool
	FromAsset    bool
	Satellite    *Group
}

// Each calls fn for the group and every nested satellite group.
func (grp *Group) Each(fn func(*Group)) {
	for g := grp; g != nil; g = g.Satellite {
		fn(g)
	}
}

// SetTrailVisible shows or hides the ring of the group and its satellites.
func (grp *Group) SetTrailVisible(g *scene.Graph, visible bool) error {
	var errs []error
	grp.Each(func(sub *Group) {
		if err := g.SetHidden(sub.Ring, !visible); err != nil {
			errs = append(errs, fmt.Errorf("%s trail: %w", sub.Spec.Name, err))
			return
		}
		sub.TrailVisible = visible
	})
	return errors.Join(errs...)
}

// Builder creates groups inside one graph.
type Builder struct {
	graph  *scene.Graph
	assets AssetSource
	opts   Options
	log    *logging.Logger
}

// NewBuilder creates a builder writing into g.
func NewBuilder(g *scene.Graph, src AssetSource, opts Options, log *logging.Logger) *Builder {
	if src == nil {
		src = assets.Empty()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Builder{graph: g, assets: src, opts: opts, log: log}
}

// Build creates a detached group whose body sits at (orbitRadius, 0, 0) in
// the pivot's frame. The pivot revolves once every spec.RotationPeriod.
func (b *Builder) Build(spec catalog.PlanetSpec, orbitRadius float32) (*Group, error) {
	return b.build(spec, orbitRadius, mgl32.Vec3{orbitRadius, 0, 0}, b.opts.BodyScale, false)
}

// BuildAt is Build with an explicit body position, for attachments that do
// not sit on the x axis.
func (b *Builder) BuildAt(spec catalog.PlanetSpec, orbitRadius float32, position mgl32.Vec3) (*Group, error) {
	return b.build(spec, orbitRadius, position, b.opts.BodyScale, false)
}

func (b *Builder) build(spec catalog.PlanetSpec, orbitRadius float32, position mgl32.Vec3, scale float32, satellite bool) (*Group, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	g := b.graph

	grp := &Group{
		Spec:         spec,
		Pivot:        g.Add(spec.Name + ".pivot"),
		Ring:         g.Add(spec.Name + ".trail"),
		Body:         g.Add(spec.Name),
		TrailVisible: b.opts.TrailsVisible,
	}
	if err := g.AddChild(grp.Pivot, grp.Ring); err != nil {
		return nil, err
	}
	if err := g.AddChild(grp.Pivot, grp.Body); err != nil {
		return nil, err
	}

	trail := scene.Translucent(b.opts.TrailColor, b.opts.TrailAlpha)
	if err := g.SetGeometry(grp.Ring, scene.Torus(b.opts.TrailPipe), trail); err != nil {
		return nil, err
	}
	if err := g.SetHidden(grp.Ring, !b.opts.TrailsVisible); err != nil {
		return nil, err
	}

	geo, mat, fromAsset, err := b.appearance(spec)
	if err != nil {
		return nil, err
	}
	grp.FromAsset = fromAsset
	if err := g.SetGeometry(grp.Body, geo, mat); err != nil {
		return nil, err
	}
	if err := g.SetCategory(grp.Body, CategoryBody); err != nil {
		return nil, err
	}

	tx := g.Begin(0)
	tx.SetPosition(grp.Body, position)
	tx.SetUniformScale(grp.Body, scale)
	tx.SetRingRadius(grp.Ring, orbitRadius)
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	clockwise := spec.Clockwise(satellite)
	if err := g.RunForever(grp.Pivot, scene.AxisY, turn(clockwise), seconds(spec.RotationPeriod)); err != nil {
		return nil, fmt.Errorf("%s orbit: %w", spec.Name, err)
	}
	if err := g.RunForever(grp.Body, scene.AxisY, turn(clockwise), seconds(spec.Spin())); err != nil {
		return nil, fmt.Errorf("%s spin: %w", spec.Name, err)
	}

	if spec.Satellite != nil {
		sat := *spec.Satellite
		// Satellite sizes are relative to the parent, whose scale they inherit.
		satScale := sat.PhysicalRadius / spec.PhysicalRadius
		child, err := b.build(sat, sat.DisplayOrbitalRadius, mgl32.Vec3{sat.DisplayOrbitalRadius, 0, 0}, satScale, true)
		if err != nil {
			return nil, err
		}
		if err := g.AddChild(grp.Body, child.Pivot); err != nil {
			return nil, err
		}
		grp.Satellite = child
	}

	b.log.Debug("built %s: orbit %.3f, asset=%t", spec.Name, orbitRadius, fromAsset)
	return grp, nil
}

// appearance resolves the body's geometry, falling back to a unit sphere in
// the spec's color when the asset is missing.
func (b *Builder) appearance(spec catalog.PlanetSpec) (scene.Geometry, scene.Material, bool, error) {
	if spec.Asset != "" {
		a, err := b.assets.Lookup(spec.Asset)
		if err == nil {
			return a.Geometry, a.Material, true, nil
		}
		if !errors.Is(err, assets.ErrAssetMissing) {
			return scene.Geometry{}, scene.Material{}, false, err
		}
		b.log.Debug("%s: %v, using procedural sphere", spec.Name, err)
	}

	c, err := parseColor(spec.Color)
	if err != nil {
		return scene.Geometry{}, scene.Material{}, false, fmt.Errorf("%s color: %w", spec.Name, err)
	}
	return scene.Sphere(1), scene.Opaque(c), false, nil
}

// Sun creates the detached sun node. The asset path spins the sun; the
// procedural fallback is a plain yellow sphere.
func (b *Builder) Sun() (scene.NodeID, error) {
	g := b.graph
	sun := g.Add("Sun")

	geo := scene.Sphere(b.opts.SunFallbackRadius)
	mat := scene.Opaque(colorful.Color{R: 1, G: 1, B: 0})
	scale := b.opts.SunFallbackScale
	spin := false

	a, err := b.assets.Lookup(SunAsset)
	switch {
	case err == nil:
		geo, mat, scale, spin = a.Geometry, a.Material, a.Scale, true
	case errors.Is(err, assets.ErrAssetMissing):
		b.log.Debug("sun: %v, using procedural sphere", err)
	default:
		return scene.NoNode, err
	}

	if err := g.SetGeometry(sun, geo, mat); err != nil {
		return scene.NoNode, err
	}
	if err := g.SetCategory(sun, CategoryBody); err != nil {
		return scene.NoNode, err
	}
	tx := g.Begin(0)
	tx.SetUniformScale(sun, scale)
	if err := tx.Commit(); err != nil {
		return scene.NoNode, err
	}
	if spin {
		if err := g.RunForever(sun, scene.AxisY, turn(true), b.opts.SunSpin); err != nil {
			return scene.NoNode, fmt.Errorf("sun spin: %w", err)
		}
	}
	return sun, nil
}

// SunLight attaches an omni light to body, placed at the center of the
// body's bounding box.
func (b *Builder) SunLight(body scene.NodeID) (scene.NodeID, error) {
	g := b.graph
	n, err := g.Node(body)
	if err != nil {
		return scene.NoNode, err
	}

	light := g.Add("Sun.light")
	err = g.SetLight(light, scene.Light{
		Kind:        scene.LightOmni,
		Color:       colorful.Color{R: 1, G: 1, B: 1},
		ShadowColor: colorful.Color{},
		Category:    CategoryBody,
	})
	if err != nil {
		return scene.NoNode, err
	}

	tx := g.Begin(0)
	tx.SetPosition(light, n.Geometry.Center(n.Model().RingRadius))
	if err := tx.Commit(); err != nil {
		return scene.NoNode, err
	}
	if err := g.AddChild(body, light); err != nil {
		return scene.NoNode, err
	}
	return light, nil
}

// OmniLight creates a detached fill light at position.
func (b *Builder) OmniLight(position mgl32.Vec3) (scene.NodeID, error) {
	g := b.graph
	light := g.Add("fill.light")
	err := g.SetLight(light, scene.Light{
		Kind:     scene.LightOmni,
		Color:    colorful.Color{R: 1, G: 1, B: 1},
		Category: CategoryFill,
	})
	if err != nil {
		return scene.NoNode, err
	}
	tx := g.Begin(0)
	tx.SetPosition(light, position)
	if err := tx.Commit(); err != nil {
		return scene.NoNode, err
	}
	return light, nil
}

// turn returns one revolution; clockwise seen from above is negative about +Y.
func turn(clockwise bool) float32 {
	if clockwise {
		return -scene.FullTurn
	}
	return scene.FullTurn
}

func seconds(s float32) time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

func parseColor(hex string) (colorful.Color, error) {
	if hex == "" {
		return colorful.Color{R: 1, G: 1, B: 1}, nil
	}
	return colorful.Hex(hex)
}
