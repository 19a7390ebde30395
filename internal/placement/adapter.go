// Package placement attaches an assembled solar system to the first
// horizontal surface the session reports.
package placement

import (
	"fmt"

	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/solar"
)

// State is the attach latch.
type State int

const (
	Unattached State = iota
	Attached
)

func (s State) String() string {
	if s == Attached {
		return "attached"
	}
	return "unattached"
}

// Adapter owns the attach latch for one system. Like the toggle engine it
// must only be used from the goroutine that owns the graph.
type Adapter struct {
	sys    *solar.System
	state  State
	anchor scene.NodeID
	placed PlaneAnchor
	log    *logging.Logger
}

// NewAdapter creates an unattached adapter.
func NewAdapter(sys *solar.System, log *logging.Logger) *Adapter {
	if log == nil {
		log = logging.Discard()
	}
	return &Adapter{sys: sys, anchor: scene.NoNode, log: log}
}

// State returns the latch state.
func (a *Adapter) State() State {
	return a.state
}

// AnchorNode returns the node the system hangs from, or scene.NoNode.
func (a *Adapter) AnchorNode() scene.NodeID {
	return a.anchor
}

// Placed returns the plane the system was attached to.
func (a *Adapter) Placed() (PlaneAnchor, bool) {
	return a.placed, a.state == Attached
}

// OnSurfaceDetected handles a new anchor. The first horizontal plane creates
// an anchor node under the world root at the plane's transform and parents the
// system root to it. Every later signal, and every anchor that is not a
// horizontal plane, is ignored. It reports whether this call attached.
func (a *Adapter) OnSurfaceDetected(anchor Anchor) (bool, error) {
	if a.state == Attached {
		a.log.Debug("ignoring %s: already attached", Describe(anchor))
		return false, nil
	}

	plane, ok := anchor.(PlaneAnchor)
	if !ok || plane.Alignment != Horizontal {
		a.log.Debug("ignoring %s: waiting for a horizontal plane", Describe(anchor))
		return false, nil
	}

	g := a.sys.Graph
	node := g.Add("anchor." + plane.ID)
	tx := g.Begin(0)
	tx.SetPosition(node, plane.Position())
	if err := tx.Commit(); err != nil {
		return false, err
	}
	if err := g.SetOrientation(node, plane.Orientation()); err != nil {
		return false, err
	}
	if err := g.AddChild(node, a.sys.Root); err != nil {
		return false, fmt.Errorf("attach to %s: %w", plane.ID, err)
	}
	if err := g.AddChild(g.Root(), node); err != nil {
		return false, fmt.Errorf("attach anchor %s: %w", plane.ID, err)
	}

	a.state = Attached
	a.anchor = node
	a.placed = plane
	a.log.Info("new surface detected: %s", Describe(plane))
	return true, nil
}
