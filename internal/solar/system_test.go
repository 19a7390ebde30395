package solar

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-orrery/internal/assets"
	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/scene"
)

func newAssembler(t *testing.T) *Assembler {
	t.Helper()
	lib, err := assets.Default()
	require.NoError(t, err)
	return NewAssembler(lib, orbit.DefaultOptions(), mgl32.Vec3{0, 1, 0}, nil)
}

func TestAssembleDisplayRadii(t *testing.T) {
	cat := catalog.Default()
	sys, err := newAssembler(t).Assemble(cat)
	require.NoError(t, err)

	require.Equal(t, cat.Len(), sys.Index.Len())
	for _, spec := range cat.All() {
		grp, ok := sys.Index.Lookup(spec.Name)
		require.True(t, ok, spec.Name)

		dist := sys.Graph.Position(grp.Body).Sub(sys.Graph.Position(grp.Pivot)).Len()
		assert.Equal(t, spec.DisplayOrbitalRadius, dist, spec.Name)
		assert.Equal(t, spec.DisplayOrbitalRadius, sys.Graph.RingRadius(grp.Ring), spec.Name)
		assert.Equal(t, sys.Root, sys.Graph.Parent(grp.Pivot), spec.Name)
	}
}

func TestAssembleOrderAndStructure(t *testing.T) {
	cat := catalog.Default()
	sys, err := newAssembler(t).Assemble(cat)
	require.NoError(t, err)

	var names []string
	for _, e := range sys.Index.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, cat.Names(), names)

	// Sun and fill light come first, then the planets in catalog order
	kids := sys.Graph.Children(sys.Root)
	require.Len(t, kids, 2+cat.Len())
	assert.Equal(t, sys.Sun, kids[0])
	assert.Equal(t, sys.Fill, kids[1])

	assert.Equal(t, sys.Sun, sys.Graph.Parent(sys.Light))
	assert.False(t, sys.Graph.Attached(sys.Root), "root waits for placement")
}

func TestAssembleIsIndependent(t *testing.T) {
	a := newAssembler(t)
	cat := catalog.Default()

	one, err := a.Assemble(cat)
	require.NoError(t, err)
	two, err := a.Assemble(cat)
	require.NoError(t, err)

	assert.NotSame(t, one.Graph, two.Graph)

	earth1, _ := one.Index.Lookup(catalog.Earth)
	earth2, _ := two.Index.Lookup(catalog.Earth)
	assert.NotSame(t, earth1, earth2)

	tx := one.Graph.Begin(0)
	tx.SetPositionX(earth1.Body, 42)
	require.NoError(t, tx.Commit())

	assert.Equal(t, float32(0.8), two.Graph.Position(earth2.Body).X())
}

func TestAssembleRotatingSet(t *testing.T) {
	sys, err := newAssembler(t).Assemble(catalog.Default())
	require.NoError(t, err)

	rotating := sys.Graph.Rotating()
	assert.Contains(t, rotating, sys.Sun)
	for _, e := range sys.Index.Entries() {
		assert.Contains(t, rotating, e.Group.Pivot, e.Name)
	}
}

func TestIndexRemove(t *testing.T) {
	sys, err := newAssembler(t).Assemble(catalog.Default())
	require.NoError(t, err)

	assert.True(t, sys.Index.Remove("Venus"))
	assert.False(t, sys.Index.Remove("Venus"))
	_, ok := sys.Index.Lookup("Venus")
	assert.False(t, ok)
	assert.Equal(t, catalog.Default().Len()-1, sys.Index.Len())
	for _, e := range sys.Index.Entries() {
		assert.NotEqual(t, "Venus", e.Name)
	}
}

func TestAssembleRejectsBadColor(t *testing.T) {
	cat, err := catalog.New(catalog.PlanetSpec{
		Name: "Bad", PhysicalRadius: 1, RotationPeriod: 1, DisplayOrbitalRadius: 1, Color: "teal",
	})
	require.NoError(t, err)

	_, err = newAssembler(t).Assemble(cat)
	assert.Error(t, err)
}

func TestAssembleFrame(t *testing.T) {
	sys, err := newAssembler(t).Assemble(catalog.Default())
	require.NoError(t, err)

	// Nothing renders until the root is attached under the world
	assert.Len(t, sys.Graph.Frame(), 1)

	require.NoError(t, sys.Graph.AddChild(sys.Graph.Root(), sys.Root))
	items := sys.Graph.Frame()
	assert.Greater(t, len(items), sys.Index.Len()*3)

	var sawSun bool
	for _, it := range items {
		if it.ID == sys.Sun {
			sawSun = true
			assert.Equal(t, scene.GeometrySphere, it.Geometry.Kind)
		}
	}
	assert.True(t, sawSun)
}
