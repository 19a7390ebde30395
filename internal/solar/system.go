// Package solar assembles the sun, its lights and every catalog entry into a
// single scene-graph subtree.
package solar

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/scene"
)

// RootName is the name of the assembled subtree's root node.
const RootName = "solar-system"

// Entry pairs a catalog entry with its live nodes.
type Entry struct {
	Name  string
	Group *orbit.Group
}

// Index maps catalog names to live groups, preserving catalog order.
type Index struct {
	order  []string
	groups map[string]*orbit.Group
}

func newIndex(capacity int) *Index {
	return &Index{
		order:  make([]string, 0, capacity),
		groups: make(map[string]*orbit.Group, capacity),
	}
}

func (ix *Index) add(name string, g *orbit.Group) {
	if _, ok := ix.groups[name]; !ok {
		ix.order = append(ix.order, name)
	}
	ix.groups[name] = g
}

// Lookup returns the group for a catalog entry.
func (ix *Index) Lookup(name string) (*orbit.Group, bool) {
	g, ok := ix.groups[name]
	return g, ok
}

// Len returns the number of entries.
func (ix *Index) Len() int {
	return len(ix.order)
}

// Entries returns all entries in catalog order.
func (ix *Index) Entries() []Entry {
	out := make([]Entry, 0, len(ix.order))
	for _, name := range ix.order {
		out = append(out, Entry{Name: name, Group: ix.groups[name]})
	}
	return out
}

// Remove drops an entry. The nodes stay in the graph.
func (ix *Index) Remove(name string) bool {
	if _, ok := ix.groups[name]; !ok {
		return false
	}
	delete(ix.groups, name)
	for i, n := range ix.order {
		if n == name {
			ix.order = append(ix.order[:i], ix.order[i+1:]...)
			break
		}
	}
	return true
}

// System is one assembled solar system. It owns its graph.
type System struct {
	Graph   *scene.Graph
	Catalog *catalog.Catalog
	Root    scene.NodeID
	Sun     scene.NodeID
	Light   scene.NodeID
	Fill    scene.NodeID
	Index   *Index
}

// Assembler builds systems. It keeps no state between calls.
type Assembler struct {
	assets orbit.AssetSource
	opts   orbit.Options
	fill   mgl32.Vec3
	log    *logging.Logger
}

// NewAssembler creates an assembler. fill is the position of the omni fill
// light relative to the system root.
func NewAssembler(src orbit.AssetSource, opts orbit.Options, fill mgl32.Vec3, log *logging.Logger) *Assembler {
	if log == nil {
		log = logging.Discard()
	}
	return &Assembler{assets: src, opts: opts, fill: fill, log: log}
}

// Assemble builds a fresh graph holding the sun, its light, a fill light and
// one group per catalog entry at its display radius. The system root is left
// detached from the world root until placement attaches it.
func (a *Assembler) Assemble(cat *catalog.Catalog) (*System, error) {
	g := scene.New()
	b := orbit.NewBuilder(g, a.assets, a.opts, a.log)

	sys := &System{
		Graph:   g,
		Catalog: cat,
		Root:    g.Add(RootName),
		Index:   newIndex(cat.Len()),
	}

	sun, err := b.Sun()
	if err != nil {
		return nil, fmt.Errorf("build sun: %w", err)
	}
	if err := g.AddChild(sys.Root, sun); err != nil {
		return nil, err
	}
	sys.Sun = sun

	if sys.Light, err = b.SunLight(sun); err != nil {
		return nil, fmt.Errorf("build sun light: %w", err)
	}

	if sys.Fill, err = b.OmniLight(a.fill); err != nil {
		return nil, fmt.Errorf("build fill light: %w", err)
	}
	if err := g.AddChild(sys.Root, sys.Fill); err != nil {
		return nil, err
	}

	for _, spec := range cat.All() {
		grp, err := b.Build(spec, spec.DisplayOrbitalRadius)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", spec.Name, err)
		}
		if err := g.AddChild(sys.Root, grp.Pivot); err != nil {
			return nil, err
		}
		sys.Index.add(spec.Name, grp)
	}

	a.log.Info("assembled %d bodies (%d nodes)", sys.Index.Len(), g.Len())
	return sys, nil
}
