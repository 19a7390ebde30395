// Package assets loads the named geometry/material entries that stand in for
// pre-built model files.
package assets

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-orrery/internal/scene"
)

// ErrAssetMissing is returned when a named asset is not in the library.
var ErrAssetMissing = errors.New("asset missing")

//go:embed library.yaml
var defaultLibrary []byte

// Asset is a loaded, ready-to-attach geometry and material.
type Asset struct {
	Name     string
	Geometry scene.Geometry
	Material scene.Material
	Scale    float32 // uniform node scale the asset was authored for
}

type geometryDoc struct {
	Kind       string  `yaml:"kind"`
	Radius     float32 `yaml:"radius"`
	PipeRadius float32 `yaml:"pipe_radius"`
}

type assetDoc struct {
	Name     string      `yaml:"name"`
	Geometry geometryDoc `yaml:"geometry"`
	Color    string      `yaml:"color"`
	Alpha    *float64    `yaml:"alpha"`
	Scale    float32     `yaml:"scale"`
}

type libraryDoc struct {
	Assets []assetDoc `yaml:"assets"`
}

// Library is an immutable set of assets keyed by name.
type Library struct {
	assets map[string]Asset
}

// Default returns the library embedded in the binary.
func Default() (*Library, error) {
	return Parse(defaultLibrary)
}

// Empty returns a library with no assets; every lookup misses.
func Empty() *Library {
	return &Library{assets: map[string]Asset{}}
}

// Parse decodes a YAML asset library.
func Parse(data []byte) (*Library, error) {
	var doc libraryDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse asset library: %w", err)
	}

	lib := &Library{assets: make(map[string]Asset, len(doc.Assets))}
	for _, d := range doc.Assets {
		a, err := d.decode()
		if err != nil {
			return nil, fmt.Errorf("asset %q: %w", d.Name, err)
		}
		lib.assets[a.Name] = a
	}
	return lib, nil
}

func (d assetDoc) decode() (Asset, error) {
	if d.Name == "" {
		return Asset{}, errors.New("empty name")
	}

	var geo scene.Geometry
	switch d.Geometry.Kind {
	case "sphere":
		if d.Geometry.Radius <= 0 {
			return Asset{}, fmt.Errorf("sphere radius %v must be positive", d.Geometry.Radius)
		}
		geo = scene.Sphere(d.Geometry.Radius)
	case "torus":
		geo = scene.Torus(d.Geometry.PipeRadius)
	default:
		return Asset{}, fmt.Errorf("unknown geometry kind %q", d.Geometry.Kind)
	}

	c, err := colorful.Hex(d.Color)
	if err != nil {
		return Asset{}, fmt.Errorf("color: %w", err)
	}
	alpha := 1.0
	if d.Alpha != nil {
		alpha = *d.Alpha
	}

	scale := d.Scale
	if scale == 0 {
		scale = 1
	}

	return Asset{
		Name:     d.Name,
		Geometry: geo,
		Material: scene.Translucent(c, alpha),
		Scale:    scale,
	}, nil
}

// Lookup returns the named asset or an error wrapping ErrAssetMissing.
func (l *Library) Lookup(name string) (Asset, error) {
	a, ok := l.assets[name]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %q", ErrAssetMissing, name)
	}
	return a, nil
}

// Len returns the number of assets.
func (l *Library) Len() int {
	return len(l.assets)
}
