package domain

import (
	"math"
	"time"
)

// Body identifies a celestial body by its public (response) name.
type Body string

const (
	BodySun       Body = "Sol"
	BodyMoon      Body = "Lua"
	BodyMercury   Body = "Mercurio"
	BodyVenus     Body = "Venus"
	BodyMars      Body = "Marte"
	BodyJupiter   Body = "Jupiter"
	BodySaturn    Body = "Saturno"
	BodyUranus    Body = "Urano"
	BodyNeptune   Body = "Netuno"
	BodyPluto     Body = "Plutao"
	BodyNorthNode Body = "Nodo Norte"

	// BodySouthNode is never queried against the ephemeris. It is always
	// derived from the North Node result.
	BodySouthNode Body = "Nodo Sul"
)

// Bodies returns the canonical set of bodies queried per chart, in a
// stable order. The South Node is excluded: it is a derived point.
func Bodies() []Body {
	return []Body{
		BodySun, BodyMoon, BodyMercury, BodyVenus, BodyMars,
		BodyJupiter, BodySaturn, BodyUranus, BodyNeptune, BodyPluto,
		BodyNorthNode,
	}
}

// Instant is a civil UTC datetime, immutable once constructed.
type Instant struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Day    int     `json:"day"`
	Hour   int     `json:"hour"`
	Minute int     `json:"minute"`
	Second float64 `json:"second"`
}

// InstantFromTime decomposes a wall-clock time into its UTC calendar fields.
func InstantFromTime(t time.Time) Instant {
	t = t.UTC()
	return Instant{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: float64(t.Second()) + float64(t.Nanosecond())/1e9,
	}
}

// FractionalHour returns the hour-of-day value expected by the
// ephemeris day-number primitive.
func (i Instant) FractionalHour() float64 {
	return float64(i.Hour) + float64(i.Minute)/60 + i.Second/3600
}

// GeoPoint is an observer location in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BirthData is a validated birth specification for a full chart.
type BirthData struct {
	Instant  Instant  `json:"instant"`
	Location GeoPoint `json:"location"`
}

// BodyPosition is the result of a single ephemeris query.
type BodyPosition struct {
	Body      Body    `json:"body"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
}

// HouseLayout holds the 12 Placidus house cusps plus chart angles.
// Cusps are keyed contiguously 1..12.
type HouseLayout struct {
	Cusps     map[int]float64 `json:"cusps"`
	Ascendant float64         `json:"ascendant"`
	Midheaven float64         `json:"midheaven"`
}

// Chart is the aggregate of one computation. Houses is nil for the
// current-positions variant, which carries no observer location.
type Chart struct {
	Instant   Instant               `json:"instant"`
	JulianDay float64               `json:"julian_day"`
	Positions map[Body]BodyPosition `json:"positions"`
	Houses    *HouseLayout          `json:"houses,omitempty"`
}

// NormalizeDegrees maps an angle onto [0, 360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// SouthNodeFrom derives the South Node as the antipodal point of the
// North Node, sharing its speed.
func SouthNodeFrom(north BodyPosition) BodyPosition {
	return BodyPosition{
		Body:      BodySouthNode,
		Longitude: NormalizeDegrees(north.Longitude + 180),
		Speed:     north.Speed,
	}
}
