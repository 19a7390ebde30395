package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/display"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/placement"
	"github.com/litescript/ls-orrery/internal/session"
	"github.com/litescript/ls-orrery/internal/solar"
	"github.com/litescript/ls-orrery/internal/state"
)

type testDeps struct {
	sys    *solar.System
	engine *display.Engine
	placer *placement.Adapter
	state  *state.Manager
}

func newTestModel(t *testing.T) (Model, testDeps) {
	t.Helper()
	sys, err := solar.NewAssembler(nil, orbit.DefaultOptions(), mgl32.Vec3{0, 1, 0}, nil).Assemble(catalog.Default())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	engine, err := display.NewEngine(sys, display.DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	d := testDeps{
		sys:    sys,
		engine: engine,
		placer: placement.NewAdapter(sys, nil),
		state:  state.NewManager(state.DefaultConfig()),
	}
	m := New(Config{
		System:        d.sys,
		Engine:        d.engine,
		Placement:     d.placer,
		State:         d.state,
		FrameInterval: time.Second / 30,
	})
	return m, d
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return mm
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModelToggleKeys(t *testing.T) {
	m, d := newTestModel(t)

	m = update(t, m, key('o'))
	if got := m.Mode().Orbit; got != display.OrbitTrue {
		t.Errorf("after o, Orbit = %v, want %v", got, display.OrbitTrue)
	}
	if !strings.Contains(m.StatusMessage(), "orbit scale") {
		t.Errorf("StatusMessage = %q, want orbit scale result", m.StatusMessage())
	}

	m = update(t, m, key('s'))
	if got := m.Mode().Body; got != display.BodyRelative {
		t.Errorf("after s, Body = %v, want %v", got, display.BodyRelative)
	}

	m = update(t, m, key('t'))
	if m.Mode().Trails {
		t.Error("after t, trails should be off")
	}

	events := d.state.RecentEvents(10)
	toggles := 0
	for _, e := range events {
		if e.Type == state.EventToggle {
			toggles++
		}
	}
	if toggles != 3 {
		t.Errorf("recorded %d toggle events, want 3", toggles)
	}
}

func TestModelAnimTickCompletesToggle(t *testing.T) {
	m, d := newTestModel(t)
	m = update(t, m, key('o'))

	start := time.Now()
	// Steps are clamped, so run well past the 5s toggle duration.
	for i := 0; i <= 30; i++ {
		m = update(t, m, AnimTickMsg(start.Add(time.Duration(i)*250*time.Millisecond)))
	}

	for _, tgt := range d.engine.Targets() {
		if tgt.Animating {
			t.Errorf("%s still animating", tgt.Name)
		}
		if tgt.CurrentOrbit != tgt.Orbit {
			t.Errorf("%s CurrentOrbit = %v, want %v", tgt.Name, tgt.CurrentOrbit, tgt.Orbit)
		}
		spec, _ := d.sys.Catalog.Get(tgt.Name)
		if tgt.Orbit != spec.TrueOrbitalRadius {
			t.Errorf("%s Orbit = %v, want %v", tgt.Name, tgt.Orbit, spec.TrueOrbitalRadius)
		}
	}
}

func TestModelAnimTickClampsLongGaps(t *testing.T) {
	m, d := newTestModel(t)
	m = update(t, m, key('o'))

	start := time.Now()
	m = update(t, m, AnimTickMsg(start))
	m = update(t, m, AnimTickMsg(start.Add(time.Minute)))

	if d.sys.Graph.InFlight() == 0 {
		t.Error("a single long gap should not finish a 5s toggle")
	}
	_ = m
}

func TestModelSessionEventAttaches(t *testing.T) {
	m, d := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if !strings.Contains(m.View(), "Looking for a surface") {
		t.Error("view should wait for a surface before attaching")
	}

	m = update(t, m, SessionEventMsg{Event: session.TrackingChanged{State: session.Normal()}})
	if got := d.state.Tracking(); got != "Tracking Normal" {
		t.Errorf("Tracking = %q, want Tracking Normal", got)
	}

	plane := placement.NewPlane("p1", mgl32.Vec3{0, -1, -2}, mgl32.Vec2{1, 1})
	m = update(t, m, SessionEventMsg{Event: session.AnchorAdded{Anchor: plane}})

	if d.placer.State() != placement.Attached {
		t.Fatalf("placement state = %v, want attached", d.placer.State())
	}
	if !d.state.Attached() {
		t.Error("state should record the attachment")
	}
	if strings.Contains(m.View(), "Looking for a surface") {
		t.Error("view should render the orrery once attached")
	}

	// A second plane is ignored.
	anchor := d.placer.AnchorNode()
	m = update(t, m, SessionEventMsg{Event: session.AnchorAdded{Anchor: placement.NewPlane("p2", mgl32.Vec3{}, mgl32.Vec2{1, 1})}})
	if d.placer.AnchorNode() != anchor {
		t.Error("second plane should not move the system")
	}
	_ = m
}

func TestModelInterruption(t *testing.T) {
	m, d := newTestModel(t)

	m = update(t, m, SessionEventMsg{Event: session.Interrupted{}})
	if !d.state.Snapshot().Interrupted {
		t.Error("expected interrupted")
	}

	m = update(t, m, SessionEventMsg{Event: session.InterruptionEnded{}})
	snap := d.state.Snapshot()
	if snap.Interrupted {
		t.Error("expected resumed")
	}
	if snap.Tracking != session.ResettingText {
		t.Errorf("Tracking = %q, want %q", snap.Tracking, session.ResettingText)
	}

	m = update(t, m, SessionEventMsg{Event: session.Failed{Err: errors.New("camera denied")}})
	if d.state.Snapshot().LastError == nil {
		t.Error("expected session error to be recorded")
	}
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if !strings.Contains(m.View(), "camera denied") {
		t.Error("view should show the session error")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(key('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelViewBeforeResize(t *testing.T) {
	m, _ := newTestModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want Initializing...", got)
	}
}

func TestWaitForEvent(t *testing.T) {
	if cmd := waitForEvent(nil); cmd != nil {
		t.Error("nil channel should yield no command")
	}

	ch := make(chan session.Event, 1)
	ch <- session.Interrupted{}
	msg := waitForEvent(ch)()
	ev, ok := msg.(SessionEventMsg)
	if !ok {
		t.Fatalf("msg = %T, want SessionEventMsg", msg)
	}
	if _, ok := ev.Event.(session.Interrupted); !ok {
		t.Errorf("event = %T, want Interrupted", ev.Event)
	}

	close(ch)
	if _, ok := waitForEvent(ch)().(sessionClosedMsg); !ok {
		t.Error("closed channel should yield sessionClosedMsg")
	}
}

func TestGradientColor(t *testing.T) {
	if got := gradientColor(0, 10); got != gradientStops[0].Hex() {
		t.Errorf("start = %s, want %s", got, gradientStops[0].Hex())
	}
	last := gradientStops[len(gradientStops)-1].Hex()
	if got := gradientColor(9, 10); got != last {
		t.Errorf("end = %s, want %s", got, last)
	}
	if got := gradientColor(0, 1); got != gradientStops[0].Hex() {
		t.Errorf("single = %s, want %s", got, gradientStops[0].Hex())
	}
}
