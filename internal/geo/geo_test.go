package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureKnownDistance(t *testing.T) {
	// 0.1 degree of latitude is ~11.1 km, ~36,480 ft
	m, err := Measure(Coord{Lat: 46.0, Lon: 7.0}, Coord{Lat: 46.1, Lon: 7.0})
	require.NoError(t, err)

	assert.InDelta(t, 36482.0, m.DistanceFeet, 5.0)
	assert.InDelta(t, 0.0, m.BearingDegrees, 1e-9)
}

func TestMeasureBearings(t *testing.T) {
	origin := Coord{Lat: 0, Lon: 0}
	cases := []struct {
		name string
		to   Coord
		want float64
	}{
		{"north", Coord{Lat: 1, Lon: 0}, 0},
		{"east", Coord{Lat: 0, Lon: 1}, 90},
		{"south", Coord{Lat: -1, Lon: 0}, 180},
		{"west", Coord{Lat: 0, Lon: -1}, 270},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Measure(origin, tc.to)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, m.BearingDegrees, 1e-9)
		})
	}
}

func TestMeasureSymmetricAndInRange(t *testing.T) {
	coords := []Coord{
		{Lat: 40.7128, Lon: -74.0060},
		{Lat: 51.5074, Lon: -0.1278},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 46.0, Lon: 7.0},
		{Lat: 46.0001, Lon: 7.0001},
		{Lat: 89.9, Lon: 179.9},
	}

	for i, a := range coords {
		self, err := Measure(a, a)
		require.NoError(t, err)
		assert.Zero(t, self.DistanceFeet)
		assert.Zero(t, self.BearingDegrees)

		for j, b := range coords {
			if i == j {
				continue
			}
			ab, err := Measure(a, b)
			require.NoError(t, err)
			ba, err := Measure(b, a)
			require.NoError(t, err)

			assert.InEpsilon(t, ab.DistanceFeet, ba.DistanceFeet, 1e-9)
			assert.GreaterOrEqual(t, ab.BearingDegrees, 0.0)
			assert.Less(t, ab.BearingDegrees, 360.0)
		}
	}
}

func TestSphereRadius(t *testing.T) {
	a := Coord{Lat: 10, Lon: 10}
	b := Coord{Lat: 10.5, Lon: 10.5}

	def, err := Sphere{}.Measure(a, b)
	require.NoError(t, err)

	meters, err := Sphere{RadiusFeet: 6371000}.Measure(a, b)
	require.NoError(t, err)

	ratio := def.DistanceFeet / meters.DistanceFeet
	assert.InDelta(t, EarthRadiusFeet/6371000, ratio, 1e-9)
	assert.Equal(t, def.BearingDegrees, meters.BearingDegrees)
}

func TestMeasureInvalidCoordinate(t *testing.T) {
	valid := Coord{Lat: 46, Lon: 7}
	bad := []Coord{
		{Lat: 90.5, Lon: 0},
		{Lat: -91, Lon: 0},
		{Lat: 0, Lon: 180.1},
		{Lat: 0, Lon: -200},
		{Lat: math.NaN(), Lon: 0},
	}

	for _, c := range bad {
		_, err := Measure(valid, c)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidCoordinate), "expected ErrInvalidCoordinate for %v", c)

		var coordErr *CoordinateError
		require.True(t, errors.As(err, &coordErr))
		if !math.IsNaN(c.Lat) {
			assert.Equal(t, c.Lat, coordErr.Lat)
		}
		assert.Equal(t, c.Lon, coordErr.Lon)

		_, err = Measure(c, valid)
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	}
}

func TestMeasureBoundaryCoordinates(t *testing.T) {
	_, err := Measure(Coord{Lat: 90, Lon: 180}, Coord{Lat: -90, Lon: -180})
	assert.NoError(t, err)
}

func TestCompass(t *testing.T) {
	cases := map[float64]string{
		0:     "N",
		20:    "N",
		20.01: "NE",
		45:    "NE",
		70:    "NE",
		90:    "E",
		110:   "E",
		135:   "SE",
		180:   "S",
		200:   "S",
		225:   "SW",
		270:   "W",
		290:   "W",
		315:   "NW",
		340:   "NW",
		340.5: "N",
		359.9: "N",
	}

	for bearing, want := range cases {
		if got := Compass(bearing); got != want {
			t.Errorf("Compass(%v) = %s, expected %s", bearing, got, want)
		}
	}
}
