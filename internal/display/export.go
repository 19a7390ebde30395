package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Target is one planet's toggle state. Orbit and Scale are the committed
// values; the Current fields are what is on screen now.
type Target struct {
	Name         string  `json:"name"`
	Orbit        float32 `json:"orbit"`
	Scale        float32 `json:"scale"`
	CurrentOrbit float32 `json:"current_orbit"`
	CurrentScale float32 `json:"current_scale"`
	TrailVisible bool    `json:"trail_visible"`
	Animating    bool    `json:"animating"`
}

// Targets returns the state of every planet that still has live nodes, in
// catalog order.
func (e *Engine) Targets() []Target {
	g := e.sys.Graph
	var out []Target
	for _, spec := range e.sys.Catalog.All() {
		grp, ok := e.sys.Index.Lookup(spec.Name)
		if !ok {
			continue
		}
		body, err := g.Node(grp.Body)
		if err != nil {
			continue
		}
		ring, err := g.Node(grp.Ring)
		if err != nil {
			continue
		}
		out = append(out, Target{
			Name:         spec.Name,
			Orbit:        body.Model().Position.X(),
			Scale:        body.Model().Scale.X(),
			CurrentOrbit: body.Presentation().Position.X(),
			CurrentScale: body.Presentation().Scale.X(),
			TrailVisible: grp.TrailVisible && !ring.Hidden,
			Animating:    g.Animating(grp.Body) || g.Animating(grp.Ring),
		})
	}
	return out
}

// Summary is the JSON form of the engine state.
type Summary struct {
	Orbit     string   `json:"orbit_scale"`
	Body      string   `json:"body_scale"`
	Trails    bool     `json:"trails"`
	Reference string   `json:"reference"`
	Targets   []Target `json:"targets"`
}

// Export returns the current state as a Summary.
func (e *Engine) Export() Summary {
	return Summary{
		Orbit:     e.mode.Orbit.String(),
		Body:      e.mode.Body.String(),
		Trails:    e.mode.Trails,
		Reference: e.reference.Name,
		Targets:   e.Targets(),
	}
}

// WriteJSON writes the current state as indented JSON.
func (e *Engine) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e.Export())
}

// WriteSummary writes a text table of the current state.
func (e *Engine) WriteSummary(w io.Writer) {
	targets := e.Targets()

	fmt.Fprintf(w, "Orrery: %s (reference %s)\n", e.mode, e.reference.Name)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if len(targets) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	fmt.Fprintf(w, "%-10s %10s %10s %-6s %-8s\n", "Body", "Orbit", "Scale", "Trail", "State")
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, t := range targets {
		trail := "hidden"
		if t.TrailVisible {
			trail = "shown"
		}
		state := "settled"
		if t.Animating {
			state = "moving"
		}
		fmt.Fprintf(w, "%-10s %10.3f %10.4f %-6s %-8s\n",
			truncateStr(t.Name, 10), t.Orbit, t.Scale, trail, state)
	}

	fmt.Fprintf(w, "\nTotal: %d bodies\n", len(targets))
}

func truncateStr(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
