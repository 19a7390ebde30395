package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RenderItem is the per-frame view of one attached node.
type RenderItem struct {
	ID     NodeID
	Name   string
	Parent NodeID
	Depth  int

	World    mgl32.Mat4 // presentation world matrix
	Position mgl32.Vec3 // world position
	Scale    float32    // world scale along the node's x axis

	Geometry   Geometry
	Material   Material
	Light      *Light
	RingRadius float32 // presentation, local units
	Hidden     bool    // own flag or any ancestor's
	Category   uint32
}

// LocalMatrix returns the presentation transform of id relative to its parent:
// translate, then orient, then rotate, then scale.
func (g *Graph) LocalMatrix(id NodeID) mgl32.Mat4 {
	if !g.Has(id) {
		return mgl32.Ident4()
	}
	p := g.nodes[id].presentation
	t := mgl32.Translate3D(p.Position[0], p.Position[1], p.Position[2])
	r := g.nodes[id].orientation.Mul(g.Rotation(id)).Mat4()
	s := mgl32.Scale3D(p.Scale[0], p.Scale[1], p.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix composes presentation transforms from the topmost ancestor of id.
func (g *Graph) WorldMatrix(id NodeID) mgl32.Mat4 {
	if !g.Has(id) {
		return mgl32.Ident4()
	}
	m := g.LocalMatrix(id)
	for a := g.nodes[id].Parent; a != NoNode; a = g.nodes[a].Parent {
		m = g.LocalMatrix(a).Mul4(m)
	}
	return m
}

// WorldPosition returns the presentation position of id in world space.
func (g *Graph) WorldPosition(id NodeID) mgl32.Vec3 {
	return g.WorldMatrix(id).Col(3).Vec3()
}

// Frame samples every node reachable from the world root. Detached subtrees
// are not rendered.
func (g *Graph) Frame() []RenderItem {
	items := make([]RenderItem, 0, len(g.nodes))
	g.frame(g.root, NoNode, 0, mgl32.Ident4(), false, &items)
	return items
}

func (g *Graph) frame(id, parent NodeID, depth int, parentWorld mgl32.Mat4, parentHidden bool, items *[]RenderItem) {
	n := g.nodes[id]
	world := parentWorld.Mul4(g.LocalMatrix(id))
	hidden := parentHidden || n.Hidden

	item := RenderItem{
		ID:         id,
		Name:       n.Name,
		Parent:     parent,
		Depth:      depth,
		World:      world,
		Position:   world.Col(3).Vec3(),
		Scale:      world.Col(0).Vec3().Len(),
		Geometry:   n.Geometry,
		Material:   n.Material,
		RingRadius: n.presentation.RingRadius,
		Hidden:     hidden,
		Category:   n.Category,
	}
	if n.Light != nil {
		l := *n.Light
		item.Light = &l
	}
	*items = append(*items, item)

	for _, c := range n.Children {
		g.frame(c, id, depth+1, world, hidden, items)
	}
}
