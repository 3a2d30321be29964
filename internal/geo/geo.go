// Package geo measures great-circle distance and bearing between coordinates.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusFeet is the mean earth radius (3958.8 miles) expressed in feet.
const EarthRadiusFeet = 3958.8 * 5280

// ErrInvalidCoordinate is returned when a latitude or longitude is out of range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coord is a latitude/longitude pair in degrees.
type Coord struct {
	Lat float64
	Lon float64
}

// Measurement is the result of comparing two coordinates.
type Measurement struct {
	DistanceFeet   float64
	BearingDegrees float64
}

// CoordinateError describes the coordinate that failed validation.
type CoordinateError struct {
	Lat, Lon float64
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate (%g,%g): lat must be within ±90, lon within ±180", e.Lat, e.Lon)
}

func (e *CoordinateError) Unwrap() error {
	return ErrInvalidCoordinate
}

// Validate checks that c lies within the valid degree ranges.
func (c Coord) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.Abs(c.Lat) > 90 || math.Abs(c.Lon) > 180 {
		return &CoordinateError{Lat: c.Lat, Lon: c.Lon}
	}
	return nil
}

// Sphere measures great-circle distances on a sphere of fixed radius.
// The zero value uses EarthRadiusFeet.
type Sphere struct {
	RadiusFeet float64
}

func (s Sphere) radius() float64 {
	if s.RadiusFeet > 0 {
		return s.RadiusFeet
	}
	return EarthRadiusFeet
}

// Measure returns the haversine distance and initial bearing from a to b.
// Identical coordinates measure as distance 0, bearing 0.
func (s Sphere) Measure(a, b Coord) (Measurement, error) {
	if err := a.Validate(); err != nil {
		return Measurement{}, err
	}
	if err := b.Validate(); err != nil {
		return Measurement{}, err
	}

	if a == b {
		return Measurement{}, nil
	}

	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	y := math.Sin(deltaLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(deltaLon)
	bearing := math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
	// Mod can land exactly on 360 for tiny negative angles.
	if bearing >= 360 {
		bearing = 0
	}

	return Measurement{
		DistanceFeet:   s.radius() * c,
		BearingDegrees: bearing,
	}, nil
}

// Measure uses the default earth sphere.
func Measure(a, b Coord) (Measurement, error) {
	return Sphere{}.Measure(a, b)
}
