// Package gateway binds the Swiss Ephemeris native library behind a
// small interface. The binding itself lives in the cgo build; other
// builds get a stub that reports the gateway as unavailable.
package gateway

import "github.com/astromapa/astromapa-backend/internal/astro/domain"

// Swiss Ephemeris body codes (SE_* constants).
const (
	SeSun      = 0
	SeMoon     = 1
	SeMercury  = 2
	SeVenus    = 3
	SeMars     = 4
	SeJupiter  = 5
	SeSaturn   = 6
	SeUranus   = 7
	SeNeptune  = 8
	SePluto    = 9
	SeTrueNode = 11
)

const (
	// SeGregCal selects the Gregorian calendar for day-number conversion.
	SeGregCal = 1
	// SeflgSpeed requests longitudinal speed alongside position.
	SeflgSpeed = 256
	// HouseSystemPlacidus is the fixed house-system selector.
	HouseSystemPlacidus = 'P'
)

var bodyCodes = map[domain.Body]int{
	domain.BodySun:       SeSun,
	domain.BodyMoon:      SeMoon,
	domain.BodyMercury:   SeMercury,
	domain.BodyVenus:     SeVenus,
	domain.BodyMars:      SeMars,
	domain.BodyJupiter:   SeJupiter,
	domain.BodySaturn:    SeSaturn,
	domain.BodyUranus:    SeUranus,
	domain.BodyNeptune:   SeNeptune,
	domain.BodyPluto:     SePluto,
	domain.BodyNorthNode: SeTrueNode,
}

// BodyCode maps a body to its ephemeris code. The South Node has no
// code: it is derived, never queried.
func BodyCode(b domain.Body) (int, bool) {
	code, ok := bodyCodes[b]
	return code, ok
}

// BodyResult is one body-calculation result.
type BodyResult struct {
	Longitude float64
	Speed     float64
}

// HouseResult is one house-calculation result. Cusps[1..12] hold the
// house cusps; index 0 is unused, matching the native layout.
type HouseResult struct {
	Cusps     [13]float64
	Ascendant float64
	Midheaven float64
}

// Gateway exposes the three ephemeris primitives. Implementations wrap
// synchronous native calls; concurrency is handled by the caller.
type Gateway interface {
	// JulianDayUT converts a Gregorian UTC calendar date plus a
	// fractional hour of day into a Julian Day (UT) number.
	JulianDayUT(year, month, day int, hour float64) (float64, error)

	// CalcBody computes a body's ecliptic longitude (and, with
	// SeflgSpeed, its speed) at the given Julian Day.
	CalcBody(jd float64, bodyCode int, flags int32) (BodyResult, error)

	// Houses computes Placidus house cusps and chart angles for an
	// observer at lat/lon.
	Houses(jd, lat, lon float64, system byte) (HouseResult, error)
}
