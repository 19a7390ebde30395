package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/display"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/scene"
)

// LabelMode controls which bodies get name labels.
type LabelMode int

const (
	LabelNone LabelMode = iota
	LabelFocused
	LabelAll
)

func (l LabelMode) String() string {
	switch l {
	case LabelNone:
		return "off"
	case LabelAll:
		return "all"
	default:
		return "focus"
	}
}

// OrreryFrame is everything the view needs from one animation tick.
type OrreryFrame struct {
	Items    []scene.RenderItem
	Sun      scene.NodeID
	Center   mgl32.Vec3 // world position of the system root
	Mode     display.Mode
	Targets  []display.Target
	Attached bool
}

// OrreryModel renders a top-down view of the scene graph.
type OrreryModel struct {
	width  int
	height int
	frame  OrreryFrame

	// View state
	focusIdx   int     // Index in bodies (-1 = Sun)
	zoomLevel  int     // Index into orreryZoomLevels
	panX       float64 // Pan offset in world units
	panY       float64
	labelMode  LabelMode
	userPanned bool    // True if user has manually panned (disables follow)
	fitRadius  float64 // World radius that fills the canvas at 1x
}

// Discrete zoom levels; true-scale orbits need the small ones.
var orreryZoomLevels = []float64{0.05, 0.1, 0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0}

const defaultZoomLevel = 5

// NewOrreryModel creates a new orrery view model.
func NewOrreryModel() OrreryModel {
	return OrreryModel{
		focusIdx:  -1, // Start focused on Sun
		zoomLevel: defaultZoomLevel,
		labelMode: LabelFocused,
	}
}

// scale returns the current zoom scale.
func (m OrreryModel) scale() float64 {
	if m.zoomLevel < 0 || m.zoomLevel >= len(orreryZoomLevels) {
		return 1.0
	}
	return orreryZoomLevels[m.zoomLevel]
}

// SetSize updates the viewport size.
func (m OrreryModel) SetSize(width, height int) OrreryModel {
	m.width = width
	m.height = height
	return m
}

// UpdateFrame stores the latest frame. The first frame with trail rings fixes
// the fit radius, so later orbit toggles are visible as growth on screen.
func (m OrreryModel) UpdateFrame(f OrreryFrame) OrreryModel {
	m.frame = f
	if m.fitRadius == 0 {
		m.fitRadius = maxRingRadius(f.Items)
	}
	if m.focusIdx >= len(m.bodies()) {
		m.focusIdx = -1
	}
	if !m.userPanned {
		m.centerOnFocused()
	}
	return m
}

// Update handles input messages.
func (m OrreryModel) Update(msg tea.Msg) (OrreryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		// Focus navigation
		case "j", "[":
			m.focusPrev()
		case "k", "]":
			m.focusNext()

		// Viewport panning
		case "up":
			m.panY -= 0.1 / m.scale()
			m.userPanned = true
		case "down":
			m.panY += 0.1 / m.scale()
			m.userPanned = true
		case "left":
			m.panX -= 0.1 / m.scale()
			m.userPanned = true
		case "right":
			m.panX += 0.1 / m.scale()
			m.userPanned = true
		case "c":
			m.userPanned = false
			m.centerOnFocused()

		// Zoom (discrete levels)
		case "+", "=":
			if m.zoomLevel < len(orreryZoomLevels)-1 {
				m.zoomLevel++
			}
		case "-":
			if m.zoomLevel > 0 {
				m.zoomLevel--
			}
		case "0":
			m.zoomLevel = defaultZoomLevel

		// Label mode toggle
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		}
	}
	return m, nil
}

// bodies returns the render items of every lit sphere except the sun, in
// scene order.
func (m OrreryModel) bodies() []scene.RenderItem {
	var out []scene.RenderItem
	for _, it := range m.frame.Items {
		if it.ID == m.frame.Sun || it.Category != orbit.CategoryBody || it.Geometry.Kind != scene.GeometrySphere {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (m *OrreryModel) focusNext() {
	n := len(m.bodies())
	if n == 0 {
		return
	}
	m.focusIdx++
	if m.focusIdx >= n {
		m.focusIdx = -1 // Wrap to Sun
	}
	m.userPanned = false
	m.centerOnFocused()
}

func (m *OrreryModel) focusPrev() {
	n := len(m.bodies())
	if n == 0 {
		return
	}
	m.focusIdx--
	if m.focusIdx < -1 {
		m.focusIdx = n - 1
	}
	m.userPanned = false
	m.centerOnFocused()
}

// centerOnFocused pans the view to center on the currently focused body.
func (m *OrreryModel) centerOnFocused() {
	bodies := m.bodies()
	if m.focusIdx < 0 || m.focusIdx >= len(bodies) {
		m.panX, m.panY = 0, 0
		return
	}
	x, y := m.project(bodies[m.focusIdx].Position)
	m.panX = -x
	m.panY = y
}

// project maps a world position to top-down view coordinates relative to the
// system center: world X to the right, world Z toward the bottom.
func (m OrreryModel) project(p mgl32.Vec3) (float64, float64) {
	rel := p.Sub(m.frame.Center)
	return float64(rel.X()), float64(rel.Z())
}

// FocusedName returns the focused body's name.
func (m OrreryModel) FocusedName() string {
	bodies := m.bodies()
	if m.focusIdx >= 0 && m.focusIdx < len(bodies) {
		return bodies[m.focusIdx].Name
	}
	return "Sun"
}

// View renders the orrery view.
func (m OrreryModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for orrery view"
	}

	var canvas string
	if m.frame.Attached {
		canvas = m.buildCanvas()
	} else {
		canvas = m.renderWaiting()
	}

	return lipgloss.JoinVertical(lipgloss.Left, canvas, m.renderHUD())
}

func (m OrreryModel) canvasHeight() int {
	// Reserve space for HUD
	h := m.height - 3
	if h < 5 {
		h = 5
	}
	return h
}

func (m OrreryModel) renderWaiting() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.canvasHeight()).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(lipgloss.Color("60"))
	return style.Render("Looking for a surface...")
}

// bodyPos tracks a body's screen position for label rendering.
type bodyPos struct {
	x, y      int
	name      string
	isFocused bool
}

// cell is one canvas character and its foreground color.
type cell struct {
	ch    rune
	color string
}

// buildCanvas renders the scene to a string canvas.
func (m OrreryModel) buildCanvas() string {
	canvasH := m.canvasHeight()
	canvasW := m.width

	grid := make([][]cell, canvasH)
	for y := range grid {
		grid[y] = make([]cell, canvasW)
		for x := range grid[y] {
			grid[y][x] = cell{ch: ' '}
		}
	}

	screenCenterX := canvasW / 2
	screenCenterY := canvasH / 2
	displayScale := m.displayScale(screenCenterX, screenCenterY)

	// Pan offset moves the system origin on screen
	originX := screenCenterX + int(m.panX*displayScale)
	originY := screenCenterY - int(m.panY*displayScale*0.5)

	// Trail rings first so bodies draw over them
	for _, it := range m.frame.Items {
		if it.Hidden || it.Geometry.Kind != scene.GeometryTorus {
			continue
		}
		x, y := m.project(it.Position)
		cx := originX + int(x*displayScale)
		cy := originY + int(y*displayScale*0.5)
		r := float64(it.Scale*it.RingRadius) * displayScale
		m.drawCircle(grid, cx, cy, r, trailColor(it))
	}

	var positions []bodyPos
	bodies := m.bodies()
	for i, it := range bodies {
		if it.Hidden {
			continue
		}
		x, y := m.project(it.Position)
		sx := originX + int(x*displayScale)
		sy := originY + int(y*displayScale*0.5)
		if sx < 0 || sx >= canvasW || sy < 0 || sy >= canvasH {
			continue
		}

		radius := float64(it.Geometry.Radius*it.Scale) * displayScale
		grid[sy][sx] = cell{ch: bodyGlyph(radius, i == m.focusIdx), color: it.Material.Color.Hex()}

		positions = append(positions, bodyPos{x: sx, y: sy, name: it.Name, isFocused: i == m.focusIdx})
	}

	// Draw Sun at the panned origin last so it's always visible
	if originX >= 0 && originX < canvasW && originY >= 0 && originY < canvasH {
		grid[originY][originX] = cell{ch: '☉', color: "#FDB813"}
		positions = append(positions, bodyPos{x: originX, y: originY, name: "Sun", isFocused: m.focusIdx == -1})
	}

	m.renderLabels(grid, canvasW, canvasH, positions)
	return m.renderGrid(grid)
}

// displayScale returns screen columns per world unit.
func (m OrreryModel) displayScale(cx, cy int) float64 {
	fit := m.fitRadius
	if fit <= 0 {
		fit = 1
	}
	maxDisplayR := float64(min(cx, cy*2)) * 0.9
	return maxDisplayR / fit * m.scale()
}

func (m OrreryModel) drawCircle(grid [][]cell, cx, cy int, r float64, color string) {
	if r < 1 {
		return
	}

	h := len(grid)
	w := len(grid[0])

	// Draw circle using parametric equations
	steps := int(2 * math.Pi * r)
	if steps < 8 {
		steps = 8
	}
	if steps > 720 {
		steps = 720
	}

	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(r*math.Cos(theta))
		y := cy - int(r*math.Sin(theta)*0.5) // Aspect ratio correction
		if x >= 0 && x < w && y >= 0 && y < h && grid[y][x].ch == ' ' {
			grid[y][x] = cell{ch: '·', color: color}
		}
	}
}

// renderLabels draws body labels on the canvas based on label mode.
func (m OrreryModel) renderLabels(grid [][]cell, width, height int, positions []bodyPos) {
	if m.labelMode == LabelNone || len(positions) == 0 {
		return
	}

	for _, pos := range positions {
		showLabel := false
		switch m.labelMode {
		case LabelFocused:
			showLabel = pos.isFocused
		case LabelAll:
			showLabel = true
		}
		if !showLabel {
			continue
		}

		labelX := pos.x + 2
		labelY := pos.y
		if labelY < 0 || labelY >= height || labelX >= width {
			continue
		}

		labelText := pos.name
		if pos.isFocused {
			labelText = "◄ " + pos.name
		}

		for i, r := range []rune(labelText) {
			x := labelX + i
			if x >= width {
				break
			}
			// Only write over empty cells or trail rings
			if c := grid[labelY][x].ch; c == ' ' || c == '·' {
				grid[labelY][x] = cell{ch: r}
			}
		}
	}
}

func bodyGlyph(screenRadius float64, focused bool) rune {
	switch {
	case focused:
		return '◉'
	case screenRadius >= 1:
		return '●'
	default:
		return '•'
	}
}

func trailColor(it scene.RenderItem) string {
	if !it.Material.Visible() {
		return ""
	}
	return it.Material.Color.Hex()
}

func (m OrreryModel) renderGrid(grid [][]cell) string {
	var b strings.Builder

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("249"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)

	for _, row := range grid {
		for _, c := range row {
			var style lipgloss.Style
			switch {
			case c.ch == ' ':
				b.WriteRune(' ')
				continue
			case c.ch == '◄' || c.ch == '◉':
				style = focusStyle
			case c.ch == '·' && c.color == "":
				style = dimStyle
			case c.color != "":
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(c.color))
			default:
				style = labelStyle
			}
			b.WriteString(style.Render(string(c.ch)))
		}
		b.WriteRune('\n')
	}

	return b.String()
}

func (m OrreryModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	name := m.FocusedName()
	target, ok := m.target(name)
	if ok {
		b.WriteString(headerStyle.Render(fmt.Sprintf("◆ %s", name)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Orbit: "))
		b.WriteString(valueStyle.Render(formatTween(target.CurrentOrbit, target.Orbit, "%.2f")))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Scale: "))
		b.WriteString(valueStyle.Render(formatTween(target.CurrentScale, target.Scale, "%.4f")))
	} else {
		b.WriteString(headerStyle.Render("☉ " + name))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render("(center of the system)"))
	}
	b.WriteString("\n")

	trails := "off"
	if m.frame.Mode.Trails {
		trails = "on"
	}

	b.WriteString(dimStyle.Render("Orbit:"))
	b.WriteString(valueStyle.Render(m.frame.Mode.Orbit.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Size:"))
	b.WriteString(valueStyle.Render(m.frame.Mode.Body.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Trails:"))
	b.WriteString(valueStyle.Render(trails))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Zoom:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2gx", m.scale())))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(m.labelMode.String()))

	return b.String()
}

func (m OrreryModel) target(name string) (display.Target, bool) {
	for _, t := range m.frame.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return display.Target{}, false
}

// formatTween shows "current → target" while a value is animating.
func formatTween(current, target float32, format string) string {
	if math.Abs(float64(current-target)) < 1e-6 {
		return fmt.Sprintf(format, target)
	}
	return fmt.Sprintf(format+" → "+format, current, target)
}

// maxRingRadius returns the largest world-space trail radius in items.
func maxRingRadius(items []scene.RenderItem) float64 {
	var r float64
	for _, it := range items {
		if it.Geometry.Kind != scene.GeometryTorus {
			continue
		}
		if v := float64(it.Scale * it.RingRadius); v > r {
			r = v
		}
	}
	return r
}
