package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// GeometryKind selects the primitive drawn for a node.
type GeometryKind int

const (
	GeometryNone GeometryKind = iota
	GeometrySphere
	GeometryTorus
)

// String returns the geometry kind name.
func (k GeometryKind) String() string {
	switch k {
	case GeometryNone:
		return "none"
	case GeometrySphere:
		return "sphere"
	case GeometryTorus:
		return "torus"
	default:
		return "unknown"
	}
}

// Geometry is a renderable primitive. A torus takes its ring radius from the
// node's animatable props, so only the pipe radius lives here.
type Geometry struct {
	Kind       GeometryKind
	Radius     float32
	PipeRadius float32
}

// Sphere returns sphere geometry of radius r.
func Sphere(r float32) Geometry {
	return Geometry{Kind: GeometrySphere, Radius: r}
}

// Torus returns torus geometry with the given pipe radius.
func Torus(pipe float32) Geometry {
	return Geometry{Kind: GeometryTorus, PipeRadius: pipe}
}

// BoundingBox returns the local-space bounds. ringRadius is used for tori.
func (g Geometry) BoundingBox(ringRadius float32) (lo, hi mgl32.Vec3) {
	switch g.Kind {
	case GeometrySphere:
		r := g.Radius
		return mgl32.Vec3{-r, -r, -r}, mgl32.Vec3{r, r, r}
	case GeometryTorus:
		outer := ringRadius + g.PipeRadius
		p := g.PipeRadius
		return mgl32.Vec3{-outer, -p, -outer}, mgl32.Vec3{outer, p, outer}
	default:
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
}

// Center returns the midpoint of the bounding box.
func (g Geometry) Center(ringRadius float32) mgl32.Vec3 {
	lo, hi := g.BoundingBox(ringRadius)
	return lo.Add(hi).Mul(0.5)
}

// Material describes how a node's geometry is shaded.
type Material struct {
	Color colorful.Color
	Alpha float64
}

// Opaque returns a fully opaque material.
func Opaque(c colorful.Color) Material {
	return Material{Color: c, Alpha: 1}
}

// Translucent returns a material with the given alpha.
func Translucent(c colorful.Color, alpha float64) Material {
	return Material{Color: c, Alpha: alpha}
}

// Clear is a fully transparent material.
var Clear = Material{}

// Visible reports whether the material draws anything.
func (m Material) Visible() bool {
	return m.Alpha > 0
}

// LightKind selects a light model.
type LightKind int

const (
	LightOmni LightKind = iota
	LightAmbient
)

// Light is attached to a node and positioned by it.
type Light struct {
	Kind        LightKind
	Color       colorful.Color
	ShadowColor colorful.Color
	Category    uint32
}
