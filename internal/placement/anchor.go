package placement

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Alignment is the orientation of a detected plane.
type Alignment int

const (
	Horizontal Alignment = iota
	Vertical
)

func (a Alignment) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Anchor is a tracked real-world feature. The concrete types are
// PlaneAnchor, ImageAnchor and FaceAnchor.
type Anchor interface {
	AnchorID() string
	anchor()
}

// PlaneAnchor is a detected flat surface.
type PlaneAnchor struct {
	ID        string
	Transform mgl32.Mat4
	Extent    mgl32.Vec2 // width (x) and depth (z) in world units
	Alignment Alignment
}

// ImageAnchor is a recognized reference image.
type ImageAnchor struct {
	ID        string
	Name      string
	Transform mgl32.Mat4
}

// FaceAnchor is a tracked face.
type FaceAnchor struct {
	ID        string
	Transform mgl32.Mat4
}

func (a PlaneAnchor) AnchorID() string { return a.ID }
func (a ImageAnchor) AnchorID() string { return a.ID }
func (a FaceAnchor) AnchorID() string  { return a.ID }

func (PlaneAnchor) anchor() {}
func (ImageAnchor) anchor() {}
func (FaceAnchor) anchor()  {}

// Position returns the translation part of the plane transform.
func (a PlaneAnchor) Position() mgl32.Vec3 {
	return a.Transform.Col(3).Vec3()
}

// Orientation returns the rotation part of the plane transform. Any scale in
// the transform is ignored.
func (a PlaneAnchor) Orientation() mgl32.Quat {
	x := a.Transform.Col(0).Vec3()
	y := a.Transform.Col(1).Vec3()
	z := a.Transform.Col(2).Vec3()
	if x.Len() == 0 || y.Len() == 0 || z.Len() == 0 {
		return mgl32.QuatIdent()
	}
	rot := mgl32.Mat4FromCols(x.Normalize().Vec4(0), y.Normalize().Vec4(0), z.Normalize().Vec4(0), mgl32.Vec4{0, 0, 0, 1})
	return mgl32.Mat4ToQuat(rot).Normalize()
}

// NewPlane returns a horizontal plane anchor centered at pos.
func NewPlane(id string, pos mgl32.Vec3, extent mgl32.Vec2) PlaneAnchor {
	return PlaneAnchor{
		ID:        id,
		Transform: mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()),
		Extent:    extent,
		Alignment: Horizontal,
	}
}

// Describe returns a short human-readable label for any anchor.
func Describe(a Anchor) string {
	switch v := a.(type) {
	case PlaneAnchor:
		p := v.Position()
		return fmt.Sprintf("%s plane %s at (%.2f, %.2f, %.2f), %.2fx%.2f",
			v.Alignment, v.ID, p.X(), p.Y(), p.Z(), v.Extent.X(), v.Extent.Y())
	case ImageAnchor:
		return fmt.Sprintf("image %s (%s)", v.ID, v.Name)
	case FaceAnchor:
		return fmt.Sprintf("face %s", v.ID)
	default:
		return "unknown anchor"
	}
}
