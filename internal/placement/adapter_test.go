package placement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/solar"
)

func newSystem(t *testing.T) *solar.System {
	t.Helper()
	sys, err := solar.NewAssembler(nil, orbit.DefaultOptions(), mgl32.Vec3{0, 1, 0}, nil).Assemble(catalog.Default())
	require.NoError(t, err)
	return sys
}

func TestAttachOnFirstPlane(t *testing.T) {
	sys := newSystem(t)
	a := NewAdapter(sys, nil)
	assert.Equal(t, Unattached, a.State())
	assert.Equal(t, scene.NoNode, a.AnchorNode())

	ok, err := a.OnSurfaceDetected(NewPlane("p1", mgl32.Vec3{0.5, -1, -2}, mgl32.Vec2{1, 1}))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Attached, a.State())

	g := sys.Graph
	anchor := a.AnchorNode()
	assert.Equal(t, g.Root(), g.Parent(anchor))
	assert.Equal(t, anchor, g.Parent(sys.Root))
	assert.True(t, g.Attached(sys.Root))
	assert.Equal(t, mgl32.Vec3{0.5, -1, -2}, g.WorldPosition(sys.Root))

	placed, ok := a.Placed()
	assert.True(t, ok)
	assert.Equal(t, "p1", placed.ID)
}

func TestAttachIsIdempotent(t *testing.T) {
	sys := newSystem(t)
	a := NewAdapter(sys, nil)

	_, err := a.OnSurfaceDetected(NewPlane("p1", mgl32.Vec3{}, mgl32.Vec2{1, 1}))
	require.NoError(t, err)
	anchor := a.AnchorNode()
	nodes := sys.Graph.Len()

	ok, err := a.OnSurfaceDetected(NewPlane("p2", mgl32.Vec3{3, 0, 0}, mgl32.Vec2{2, 2}))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, anchor, a.AnchorNode())
	assert.Len(t, sys.Graph.Children(anchor), 1)
	assert.Len(t, sys.Graph.Children(sys.Graph.Root()), 1)
	assert.Equal(t, nodes, sys.Graph.Len())
}

func TestNonPlaneAnchorsStayPending(t *testing.T) {
	tests := []struct {
		name   string
		anchor Anchor
	}{
		{"image", ImageAnchor{ID: "i1", Name: "poster", Transform: mgl32.Ident4()}},
		{"face", FaceAnchor{ID: "f1", Transform: mgl32.Ident4()}},
		{"vertical plane", PlaneAnchor{ID: "w1", Transform: mgl32.Ident4(), Alignment: Vertical}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := newSystem(t)
			a := NewAdapter(sys, nil)

			ok, err := a.OnSurfaceDetected(tt.anchor)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, Unattached, a.State())
			assert.False(t, sys.Graph.Attached(sys.Root))

			// A later horizontal plane still attaches
			ok, err = a.OnSurfaceDetected(NewPlane("p1", mgl32.Vec3{}, mgl32.Vec2{1, 1}))
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestAttachFailsWhenRootAlreadyParented(t *testing.T) {
	sys := newSystem(t)
	require.NoError(t, sys.Graph.AddChild(sys.Graph.Root(), sys.Root))

	a := NewAdapter(sys, nil)
	ok, err := a.OnSurfaceDetected(NewPlane("p1", mgl32.Vec3{}, mgl32.Vec2{1, 1}))
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, Unattached, a.State())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "horizontal plane p1 at (1.00, 0.00, -2.00), 0.50x0.25",
		Describe(NewPlane("p1", mgl32.Vec3{1, 0, -2}, mgl32.Vec2{0.5, 0.25})))
	assert.Equal(t, "image i1 (poster)", Describe(ImageAnchor{ID: "i1", Name: "poster"}))
	assert.Equal(t, "face f1", Describe(FaceAnchor{ID: "f1"}))
}

func TestAttachKeepsPlaneRotation(t *testing.T) {
	sys := newSystem(t)
	a := NewAdapter(sys, nil)

	transform := mgl32.Translate3D(0, 0, -1).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	ok, err := a.OnSurfaceDetected(PlaneAnchor{ID: "p1", Transform: transform, Extent: mgl32.Vec2{1, 1}})
	require.NoError(t, err)
	require.True(t, ok)

	got := sys.Graph.WorldMatrix(sys.Root)
	assert.True(t, got.ApproxEqualThreshold(transform, 1e-5), "world matrix %v, want %v", got, transform)

	// A planet at +X on the system lands on the plane's rotated axis.
	mercury, found := sys.Index.Lookup("Mercury")
	require.True(t, found)
	pos := sys.Graph.WorldPosition(mercury.Body)
	want := transform.Mul4x1(sys.Graph.Position(mercury.Body).Vec4(1)).Vec3()
	assert.True(t, pos.ApproxEqualThreshold(want, 1e-4), "Mercury at %v, want %v", pos, want)
}

func TestPlaneOrientation(t *testing.T) {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0})
	scaled := mgl32.Translate3D(1, 2, 3).Mul4(yaw.Mat4()).Mul4(mgl32.Scale3D(2, 2, 2))

	got := PlaneAnchor{Transform: scaled}.Orientation()
	assert.True(t, got.ApproxEqualThreshold(yaw, 1e-5) || got.ApproxEqualThreshold(yaw.Scale(-1), 1e-5), "orientation %v, want %v", got, yaw)

	assert.True(t, NewPlane("p", mgl32.Vec3{1, 0, 0}, mgl32.Vec2{1, 1}).Orientation().ApproxEqual(mgl32.QuatIdent()))
	assert.Equal(t, mgl32.QuatIdent(), PlaneAnchor{}.Orientation())
}
