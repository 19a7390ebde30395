// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/display"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/placement"
	"github.com/litescript/ls-orrery/internal/session"
	"github.com/litescript/ls-orrery/internal/solar"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/version"
)

// Msg types for Bubble Tea
type (
	// AnimTickMsg advances the scene by one frame.
	AnimTickMsg time.Time

	// SessionEventMsg carries one event from the AR session.
	SessionEventMsg struct {
		Event session.Event
	}

	// sessionClosedMsg signals that the event channel was closed.
	sessionClosedMsg struct{}
)

// Longest step a single frame may take, so a stalled terminal does not jump
// every animation to its end.
const maxFrameStep = 250 * time.Millisecond

// Config holds the dependencies of the root model.
type Config struct {
	System        *solar.System
	Engine        *display.Engine
	Placement     *placement.Adapter
	State         *state.Manager
	Events        <-chan session.Event
	FrameInterval time.Duration
	Logger        *logging.Logger
}

// Model is the root Bubble Tea model. Its Update is the only place the scene
// graph is mutated once the program runs.
type Model struct {
	// Dependencies
	sys    *solar.System
	engine *display.Engine
	placer *placement.Adapter
	state  *state.Manager
	events <-chan session.Event
	log    *logging.Logger

	// UI state
	width         int
	height        int
	ready         bool
	statusMsg     string // Result of the last toggle
	animTick      int    // Animation tick for spinner and shimmer
	lastTick      time.Time
	frameInterval time.Duration

	// Sub-models
	orrery OrreryModel

	// Session status (refreshed on every session event)
	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(cfg Config) Model {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	interval := cfg.FrameInterval
	if interval <= 0 {
		interval = time.Second / 30
	}

	m := Model{
		sys:           cfg.System,
		engine:        cfg.Engine,
		placer:        cfg.Placement,
		state:         cfg.State,
		events:        cfg.Events,
		log:           log,
		frameInterval: interval,
		orrery:        NewOrreryModel(),
	}
	m.snapshot = m.state.Snapshot()
	m.orrery = m.orrery.UpdateFrame(m.frame())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		animTickCmd(m.frameInterval),
		waitForEvent(m.events),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "o":
			m.applyToggle("orbit scale", m.engine.ToggleOrbitScale())
		case "s":
			m.applyToggle("size scale", m.engine.ToggleBodyScale())
		case "t":
			m.applyToggle("trails", m.engine.ToggleTrails())

		default:
			var cmd tea.Cmd
			m.orrery, cmd = m.orrery.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Title takes 3 lines, footer 2
		m.orrery = m.orrery.SetSize(msg.Width, msg.Height-5)

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd(m.frameInterval))
		m.animTick++
		m.advance(time.Time(msg))

	case SessionEventMsg:
		m.handleSessionEvent(msg.Event)
		m.snapshot = m.state.Snapshot()
		m.orrery = m.orrery.UpdateFrame(m.frame())
		cmds = append(cmds, waitForEvent(m.events))

	case sessionClosedMsg:
		m.log.Debug("session event channel closed")
	}

	return m, tea.Batch(cmds...)
}

// advance steps every animation to now and samples a new frame.
func (m *Model) advance(now time.Time) {
	dt := m.frameInterval
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick)
	}
	m.lastTick = now
	if dt > maxFrameStep {
		dt = maxFrameStep
	}

	m.sys.Graph.Advance(dt)
	m.orrery = m.orrery.UpdateFrame(m.frame())
}

func (m Model) frame() OrreryFrame {
	g := m.sys.Graph
	return OrreryFrame{
		Items:    g.Frame(),
		Sun:      m.sys.Sun,
		Center:   g.WorldPosition(m.sys.Root),
		Mode:     m.engine.Mode(),
		Targets:  m.engine.Targets(),
		Attached: m.placer.State() == placement.Attached,
	}
}

func (m *Model) applyToggle(name string, rep display.Report) {
	m.state.Record(state.Event{Type: state.EventToggle, Message: rep.Mode.String()})

	if err := rep.Err(); err != nil {
		m.log.Warn("%s: %v", name, err)
		m.statusMsg = fmt.Sprintf("%s: %d updated, %d failed", name, len(rep.Updated), len(rep.Failures))
	} else {
		m.statusMsg = fmt.Sprintf("%s: %s", name, rep.Mode)
	}
	m.orrery = m.orrery.UpdateFrame(m.frame())
}

// handleSessionEvent updates session status and places the scene on the
// first horizontal surface.
func (m *Model) handleSessionEvent(e session.Event) {
	if text, ok := session.StatusText(e); ok {
		m.state.SetTracking(text)
	}

	switch v := e.(type) {
	case session.Interrupted:
		m.log.Info("session interrupted")
		m.state.SetInterrupted(true)

	case session.InterruptionEnded:
		m.log.Info("session interruption ended")
		m.state.SetInterrupted(false)

	case session.Failed:
		m.log.Error("session error: %v", v.Err)
		m.state.SetError(v.Err)

	case session.AnchorAdded:
		desc := placement.Describe(v.Anchor)
		m.state.Record(state.Event{Type: state.EventAnchor, Message: desc})

		attached, err := m.placer.OnSurfaceDetected(v.Anchor)
		if err != nil {
			m.log.Error("placement: %v", err)
			m.state.SetError(err)
			return
		}
		if attached {
			m.state.SetAttached(desc)
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderHeader() + "\n" + m.orrery.View() + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder

	title := "  ◉ ls-orrery"
	runes := []rune(title)
	for col, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, len(runes)))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Solar system on a surface · v%s", version.Version)))
	b.WriteString("\n")
	return b.String()
}

// Gradient stops for the title: blue, purple, magenta, pink.
var gradientStops = []colorful.Color{
	mustHex("#3B82F6"),
	mustHex("#8B5CF6"),
	mustHex("#D946EF"),
	mustHex("#EC4899"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// gradientColor returns a hex color for a position in the title gradient.
func gradientColor(col, width int) string {
	if width <= 1 {
		return gradientStops[0].Hex()
	}
	t := float64(col) / float64(width-1) * float64(len(gradientStops)-1)
	i := int(t)
	if i >= len(gradientStops)-1 {
		return gradientStops[len(gradientStops)-1].Hex()
	}
	return gradientStops[i].BlendLab(gradientStops[i+1], t-float64(i)).Clamped().Hex()
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	snap := m.snapshot
	tracking := snap.Tracking
	if tracking == "" {
		tracking = "Starting session"
	}

	var status string
	switch {
	case snap.LastError != nil:
		status = errorStyle.Render("ERROR: " + snap.LastError.Error())
	case snap.Interrupted:
		status = errorStyle.Render("Session interrupted")
	case !snap.Attached:
		status = accentStyle.Render(spinner) + " " + valueStyle.Render(tracking) +
			dimStyle.Render(" · ") + m.renderShimmerText("Looking for a surface...")
	default:
		status = accentStyle.Render("●") + " " + valueStyle.Render(tracking)
		if m.sys.Graph.InFlight() > 0 {
			status += dimStyle.Render(" · ") + accentStyle.Render(spinner) + dimStyle.Render(" animating")
		}
	}

	help := dimStyle.Render("o: orbit scale | s: size scale | t: trails | j/k: focus | +/-: zoom | l: labels | q: quit")
	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help

	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	// Shimmer sweeps smoothly across
	pos := m.animTick % (textLen + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var hexColor string
		switch {
		case dist <= 1:
			hexColor = "#B4A0DC" // Soft highlight
		case dist <= 3:
			hexColor = "#8C78B4"
		case dist <= 5:
			hexColor = "#6E5A96"
		default:
			hexColor = "#504678" // Base dim purple
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

func animTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// waitForEvent blocks on the next session event.
func waitForEvent(events <-chan session.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return sessionClosedMsg{}
		}
		return SessionEventMsg{Event: e}
	}
}

// Mode returns the current display mode.
func (m Model) Mode() display.Mode {
	return m.engine.Mode()
}

// StatusMessage returns the result line of the last toggle.
func (m Model) StatusMessage() string {
	return m.statusMsg
}
