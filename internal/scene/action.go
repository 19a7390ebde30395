package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AxisY is the vertical axis; orbits sweep around it.
var AxisY = mgl32.Vec3{0, 1, 0}

// FullTurn is one revolution in radians.
const FullTurn = 2 * math32.Pi

// ErrInvalidAction is returned for rotation actions that could never advance.
var ErrInvalidAction = errors.New("invalid rotation action")

// action rotates a node by angle every period, forever. It only writes the
// node's rotation, never its props.
type action struct {
	axis    mgl32.Vec3
	angle   float32
	period  time.Duration
	current float32
}

func (a *action) step(dt time.Duration) {
	rate := a.angle / float32(a.period.Seconds())
	a.current = math32.Mod(a.current+rate*float32(dt.Seconds()), FullTurn)
}

// RunForever attaches a perpetual rotation of angle radians about axis every
// period. Actions cannot be removed; they live as long as the graph.
func (g *Graph) RunForever(id NodeID, axis mgl32.Vec3, angle float32, period time.Duration) error {
	if !g.Has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	if period <= 0 {
		return fmt.Errorf("%w: period %v", ErrInvalidAction, period)
	}
	if axis.Len() == 0 {
		return fmt.Errorf("%w: zero axis", ErrInvalidAction)
	}
	g.actions[id] = append(g.actions[id], &action{
		axis:   axis.Normalize(),
		angle:  angle,
		period: period,
	})
	return nil
}

// Rotating returns the nodes carrying at least one rotation action, mapped to
// their action count.
func (g *Graph) Rotating() map[NodeID]int {
	out := make(map[NodeID]int, len(g.actions))
	for id, list := range g.actions {
		if len(list) > 0 {
			out[id] = len(list)
		}
	}
	return out
}

// Rotation returns the current presentation rotation of id, the composition of
// all of its actions.
func (g *Graph) Rotation(id NodeID) mgl32.Quat {
	q := mgl32.QuatIdent()
	for _, a := range g.actions[id] {
		q = q.Mul(mgl32.QuatRotate(a.current, a.axis))
	}
	return q
}

// SpinAngle returns the accumulated angle of the first action on id.
func (g *Graph) SpinAngle(id NodeID) float32 {
	list := g.actions[id]
	if len(list) == 0 {
		return 0
	}
	return list[0].current
}
