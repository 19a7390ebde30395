package catalog

// Reference body used for relative size scaling.
const Earth = "Earth"

// One AU maps to this many scene units in true-scale mode.
const unitsPerAU = 2.0

// Moon is Earth's satellite. Its orbital radius is in Earth's local frame,
// and as a satellite it orbits counter-clockwise.
var Moon = PlanetSpec{
	Name:                 "Moon",
	PhysicalRadius:       1737.4,
	TrueOrbitalRadius:    2.0,
	DisplayOrbitalRadius: 2.0,
	Color:                "#9E9E9E",
	RotationPeriod:       6,
}

// Planets lists the default bodies, innermost first.
var Planets = []PlanetSpec{
	{Name: "Mercury", PhysicalRadius: 2439.7, DisplayOrbitalRadius: 0.4, TrueOrbitalRadius: 0.387 * unitsPerAU,
		Color: "#B5B5B5", Asset: "mercury", RotationPeriod: 4, SpinPeriod: 4},
	{Name: "Venus", PhysicalRadius: 6051.8, DisplayOrbitalRadius: 0.6, TrueOrbitalRadius: 0.723 * unitsPerAU,
		Color: "#E6C87A", RotationPeriod: 6},
	{Name: "Earth", PhysicalRadius: 6371.0, DisplayOrbitalRadius: 0.8, TrueOrbitalRadius: 1.000 * unitsPerAU,
		Color: "#2E6BD1", Asset: "earth", RotationPeriod: 8, SpinPeriod: 3, Satellite: &Moon},
	{Name: "Mars", PhysicalRadius: 3389.5, DisplayOrbitalRadius: 1.0, TrueOrbitalRadius: 1.524 * unitsPerAU,
		Color: "#C1440E", RotationPeriod: 12},
	{Name: "Jupiter", PhysicalRadius: 69911, DisplayOrbitalRadius: 1.4, TrueOrbitalRadius: 5.203 * unitsPerAU,
		Color: "#C99039", RotationPeriod: 24},
	{Name: "Saturn", PhysicalRadius: 58232, DisplayOrbitalRadius: 1.8, TrueOrbitalRadius: 9.537 * unitsPerAU,
		Color: "#E3D9A4", RotationPeriod: 36},
	{Name: "Uranus", PhysicalRadius: 25362, DisplayOrbitalRadius: 2.2, TrueOrbitalRadius: 19.19 * unitsPerAU,
		Color: "#9FD9E0", RotationPeriod: 48},
	{Name: "Neptune", PhysicalRadius: 24622, DisplayOrbitalRadius: 2.6, TrueOrbitalRadius: 30.07 * unitsPerAU,
		Color: "#3F54BA", RotationPeriod: 60},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(Planets...)
	if err != nil {
		// Planets is a compile-time table; failing here is a programming error.
		panic(err)
	}
	return c
}
