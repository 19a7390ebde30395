// Package scene implements an arena-backed scene graph with the two animation
// primitives the orrery needs: perpetual rotation actions and animated
// transactions over position, scale and ring radius.
//
// Nodes are addressed by stable NodeIDs. A node stores its parent and child
// IDs; the Graph owns every node. All mutation is expected to happen on a
// single goroutine. Renderers read the presentation state through Frame.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeID addresses a node inside its Graph.
type NodeID int

// NoNode is the parent of root and of detached nodes.
const NoNode NodeID = -1

var (
	// ErrUnknownNode is returned for IDs that do not belong to the graph.
	ErrUnknownNode = errors.New("unknown node")
	// ErrHasParent is returned when attaching a node that is already attached.
	ErrHasParent = errors.New("node already has a parent")
	// ErrCycle is returned when an attach would make a node its own ancestor.
	ErrCycle = errors.New("attach would create a cycle")
)

// Props holds the animatable fields of a node.
type Props struct {
	Position   mgl32.Vec3
	Scale      mgl32.Vec3
	RingRadius float32 // torus geometry only
}

func identityProps() Props {
	return Props{Scale: mgl32.Vec3{1, 1, 1}}
}

// Node is one element of the graph. Model props are the committed target
// values; presentation props are what the renderer sees while a transaction
// interpolates.
type Node struct {
	ID       NodeID
	Name     string
	Parent   NodeID
	Children []NodeID

	Geometry Geometry
	Material Material
	Light    *Light
	Hidden   bool
	Category uint32

	orientation mgl32.Quat // static, applied before rotation actions

	model        Props
	presentation Props
}

// Model returns the committed props.
func (n *Node) Model() Props { return n.model }

// Presentation returns the props currently shown.
func (n *Node) Presentation() Props { return n.presentation }

// Graph is the arena owning every node, rotation action and in-flight tween.
type Graph struct {
	nodes   []*Node
	root    NodeID
	actions map[NodeID][]*action
	tweens  map[tweenKey]*tween
}

// New creates a graph containing a single root node.
func New() *Graph {
	g := &Graph{
		actions: make(map[NodeID][]*action),
		tweens:  make(map[tweenKey]*tween),
	}
	g.root = g.Add("world")
	return g
}

// Root returns the world root.
func (g *Graph) Root() NodeID {
	return g.root
}

// Add creates a detached node.
func (g *Graph) Add(name string) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node{
		ID:           id,
		Name:         name,
		Parent:       NoNode,
		orientation:  mgl32.QuatIdent(),
		model:        identityProps(),
		presentation: identityProps(),
	})
	return id
}

// Has reports whether id belongs to the graph.
func (g *Graph) Has(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Node returns the node for id.
func (g *Graph) Node(id NodeID) (*Node, error) {
	if !g.Has(id) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return g.nodes[id], nil
}

// Len returns the number of nodes, including detached ones.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// AddChild attaches child under parent. A node has at most one parent.
func (g *Graph) AddChild(parent, child NodeID) error {
	p, err := g.Node(parent)
	if err != nil {
		return err
	}
	c, err := g.Node(child)
	if err != nil {
		return err
	}
	if c.Parent != NoNode || child == g.root {
		return fmt.Errorf("%w: %s", ErrHasParent, c.Name)
	}
	for a := parent; a != NoNode; a = g.nodes[a].Parent {
		if a == child {
			return fmt.Errorf("%w: %s under %s", ErrCycle, c.Name, p.Name)
		}
	}
	c.Parent = parent
	p.Children = append(p.Children, child)
	return nil
}

// Parent returns the parent of id, or NoNode.
func (g *Graph) Parent(id NodeID) NodeID {
	if !g.Has(id) {
		return NoNode
	}
	return g.nodes[id].Parent
}

// Children returns a copy of the child list of id.
func (g *Graph) Children(id NodeID) []NodeID {
	if !g.Has(id) {
		return nil
	}
	out := make([]NodeID, len(g.nodes[id].Children))
	copy(out, g.nodes[id].Children)
	return out
}

// Attached reports whether id is reachable from the world root.
func (g *Graph) Attached(id NodeID) bool {
	for a := id; g.Has(a); a = g.nodes[a].Parent {
		if a == g.root {
			return true
		}
	}
	return false
}

// Walk visits id and its descendants depth-first in child order. Returning
// false from fn skips the node's subtree.
func (g *Graph) Walk(id NodeID, fn func(n *Node, depth int) bool) {
	if !g.Has(id) {
		return
	}
	g.walk(id, 0, fn)
}

func (g *Graph) walk(id NodeID, depth int, fn func(*Node, int) bool) {
	n := g.nodes[id]
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		g.walk(c, depth+1, fn)
	}
}

// Find returns the first node named name under id, depth-first.
func (g *Graph) Find(id NodeID, name string) (NodeID, bool) {
	found := NoNode
	g.Walk(id, func(n *Node, _ int) bool {
		if found != NoNode {
			return false
		}
		if n.Name == name {
			found = n.ID
			return false
		}
		return true
	})
	return found, found != NoNode
}

// Position returns the committed position of id.
func (g *Graph) Position(id NodeID) mgl32.Vec3 {
	if !g.Has(id) {
		return mgl32.Vec3{}
	}
	return g.nodes[id].model.Position
}

// Scale returns the committed scale of id.
func (g *Graph) Scale(id NodeID) mgl32.Vec3 {
	if !g.Has(id) {
		return mgl32.Vec3{}
	}
	return g.nodes[id].model.Scale
}

// RingRadius returns the committed ring radius of id.
func (g *Graph) RingRadius(id NodeID) float32 {
	if !g.Has(id) {
		return 0
	}
	return g.nodes[id].model.RingRadius
}

// SetGeometry assigns geometry and material to id.
func (g *Graph) SetGeometry(id NodeID, geo Geometry, mat Material) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	n.Geometry = geo
	n.Material = mat
	return nil
}

// SetLight assigns a light to id.
func (g *Graph) SetLight(id NodeID, l Light) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	n.Light = &l
	return nil
}

// SetOrientation sets the static orientation of id. Rotation actions turn the
// node relative to it. Orientation is not animated.
func (g *Graph) SetOrientation(id NodeID, q mgl32.Quat) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	n.orientation = q.Normalize()
	return nil
}

// Orientation returns the static orientation of id.
func (g *Graph) Orientation(id NodeID) mgl32.Quat {
	if !g.Has(id) {
		return mgl32.QuatIdent()
	}
	return g.nodes[id].orientation
}

// SetHidden shows or hides id and its subtree. Visibility is not animated.
func (g *Graph) SetHidden(id NodeID, hidden bool) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	n.Hidden = hidden
	return nil
}

// Hidden reports the node's own hidden flag.
func (g *Graph) Hidden(id NodeID) bool {
	if !g.Has(id) {
		return false
	}
	return g.nodes[id].Hidden
}

// SetCategory sets the node's category bit mask.
func (g *Graph) SetCategory(id NodeID, mask uint32) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	n.Category = mask
	return nil
}
