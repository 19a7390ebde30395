package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrTransactionClosed is returned when committing a transaction twice.
var ErrTransactionClosed = errors.New("transaction already committed")

type field int

const (
	fieldPosition field = iota
	fieldScale
	fieldRingRadius
)

func (f field) String() string {
	switch f {
	case fieldPosition:
		return "position"
	case fieldScale:
		return "scale"
	case fieldRingRadius:
		return "ring radius"
	default:
		return "unknown"
	}
}

func (p Props) get(f field) mgl32.Vec3 {
	switch f {
	case fieldPosition:
		return p.Position
	case fieldScale:
		return p.Scale
	default:
		return mgl32.Vec3{p.RingRadius, 0, 0}
	}
}

func (p *Props) set(f field, v mgl32.Vec3) {
	switch f {
	case fieldPosition:
		p.Position = v
	case fieldScale:
		p.Scale = v
	default:
		p.RingRadius = v[0]
	}
}

type tweenKey struct {
	node  NodeID
	field field
}

// tween interpolates one field of one node from the presentation value at
// commit time to the committed model value.
type tween struct {
	from, to mgl32.Vec3
	elapsed  time.Duration
	duration time.Duration
}

type write struct {
	key   tweenKey
	value mgl32.Vec3
}

// Transaction batches prop writes. Nothing is visible until Commit, which
// applies every write to the model and animates the presentation toward it.
type Transaction struct {
	g        *Graph
	duration time.Duration
	writes   []write
	errs     []error
	done     bool
}

// Begin opens a transaction animating over d. A zero duration applies writes
// immediately on commit.
func (g *Graph) Begin(d time.Duration) *Transaction {
	return &Transaction{g: g, duration: d}
}

// Duration returns the animation duration of the transaction.
func (t *Transaction) Duration() time.Duration {
	return t.duration
}

func (t *Transaction) record(id NodeID, f field, v mgl32.Vec3) {
	if !t.g.Has(id) {
		t.errs = append(t.errs, fmt.Errorf("set %s: %w: %d", f, ErrUnknownNode, id))
		return
	}
	t.writes = append(t.writes, write{key: tweenKey{node: id, field: f}, value: v})
}

// current returns the value id/f will have after the writes recorded so far.
func (t *Transaction) current(id NodeID, f field) mgl32.Vec3 {
	for i := len(t.writes) - 1; i >= 0; i-- {
		if w := t.writes[i]; w.key.node == id && w.key.field == f {
			return w.value
		}
	}
	if !t.g.Has(id) {
		return mgl32.Vec3{}
	}
	return t.g.nodes[id].model.get(f)
}

// SetPosition records a new local position.
func (t *Transaction) SetPosition(id NodeID, p mgl32.Vec3) {
	t.record(id, fieldPosition, p)
}

// SetPositionX records a new local x coordinate, keeping y and z.
func (t *Transaction) SetPositionX(id NodeID, x float32) {
	p := t.current(id, fieldPosition)
	p[0] = x
	t.record(id, fieldPosition, p)
}

// SetScale records a new local scale.
func (t *Transaction) SetScale(id NodeID, s mgl32.Vec3) {
	t.record(id, fieldScale, s)
}

// SetUniformScale records the same scale on all three axes.
func (t *Transaction) SetUniformScale(id NodeID, s float32) {
	t.record(id, fieldScale, mgl32.Vec3{s, s, s})
}

// SetRingRadius records a new torus ring radius.
func (t *Transaction) SetRingRadius(id NodeID, r float32) {
	t.record(id, fieldRingRadius, mgl32.Vec3{r, 0, 0})
}

// Commit applies the recorded writes. Fields already animating are
// retargeted from their current presentation value. Writes to unknown nodes
// are reported; the remaining writes still apply.
func (t *Transaction) Commit() error {
	if t.done {
		return ErrTransactionClosed
	}
	t.done = true

	g := t.g
	for _, w := range t.writes {
		n := g.nodes[w.key.node]
		from := n.presentation.get(w.key.field)
		n.model.set(w.key.field, w.value)

		if t.duration <= 0 {
			n.presentation.set(w.key.field, w.value)
			delete(g.tweens, w.key)
			continue
		}
		g.tweens[w.key] = &tween{from: from, to: w.value, duration: t.duration}
	}
	return errors.Join(t.errs...)
}

// Animating reports whether any field of id is interpolating.
func (g *Graph) Animating(id NodeID) bool {
	for key := range g.tweens {
		if key.node == id {
			return true
		}
	}
	return false
}

// InFlight returns the number of field interpolations still running.
func (g *Graph) InFlight() int {
	return len(g.tweens)
}

// Advance steps every rotation action and interpolation by dt.
func (g *Graph) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	for _, list := range g.actions {
		for _, a := range list {
			a.step(dt)
		}
	}
	for key, tw := range g.tweens {
		n := g.nodes[key.node]
		tw.elapsed += dt
		if tw.elapsed >= tw.duration {
			n.presentation.set(key.field, tw.to)
			delete(g.tweens, key)
			continue
		}
		k := easeInOut(float32(tw.elapsed) / float32(tw.duration))
		n.presentation.set(key.field, lerp(tw.from, tw.to, k))
	}
}

// easeInOut is the smoothstep curve.
func easeInOut(t float32) float32 {
	return t * t * (3 - 2*t)
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
