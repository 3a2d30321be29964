package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/planbiir/tripframes/internal/geo"
	"github.com/planbiir/tripframes/internal/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func northTrack(n int, step time.Duration) []track.Trackpoint {
	points := make([]track.Trackpoint, n)
	for i := range points {
		points[i] = track.Trackpoint{
			Lat:       46.0 + float64(i)*0.0001,
			Lon:       7.0,
			Elevation: 1000 + float64(i),
			Time:      base.Add(time.Duration(i) * step),
		}
	}
	return points
}

func TestNextFirstFrameIsZeroed(t *testing.T) {
	points := northTrack(3, time.Second)
	agg := NewAggregator(DefaultConfig())

	f, err := agg.Next(points[0], points[0], points[0], 0)
	require.NoError(t, err)

	assert.Zero(t, f.SpeedMph)
	assert.Zero(t, f.AvgSpeedMph)
	assert.Zero(t, f.MaxSpeedMph)
	assert.Zero(t, f.TotalDistanceMiles)
	assert.Zero(t, f.DistanceToStartMiles)
	assert.Zero(t, f.BearingDegrees)
	assert.Zero(t, f.ElapsedSeconds)
	assert.False(t, f.Degenerate)
	assert.InDelta(t, 1000*FeetPerMeter, f.ElevationFeet, 1e-9)
	assert.Equal(t, base, f.Time)
}

func TestNextSpeedAndDistance(t *testing.T) {
	points := northTrack(3, 10*time.Second)
	agg := NewAggregator(DefaultConfig())

	_, err := agg.Next(points[0], points[0], points[0], 0)
	require.NoError(t, err)
	f, err := agg.Next(points[0], points[0], points[2], 1)
	require.NoError(t, err)

	step, err := geo.Measure(points[0].Coord(), points[2].Coord())
	require.NoError(t, err)

	wantSpeed := step.DistanceFeet / 20 * MPHPerFeetPerSecond
	assert.InDelta(t, wantSpeed, f.SpeedMph, 1e-9)
	assert.InDelta(t, wantSpeed, f.AvgSpeedMph, 1e-9)
	assert.InDelta(t, wantSpeed, f.MaxSpeedMph, 1e-9)
	assert.InDelta(t, step.DistanceFeet/FeetPerMile, f.TotalDistanceMiles, 1e-12)
	assert.InDelta(t, step.DistanceFeet/FeetPerMile, f.DistanceToStartMiles, 1e-12)
	assert.InDelta(t, 0.0, f.BearingDegrees, 1e-9)
	assert.Equal(t, 20.0, f.ElapsedSeconds)
	assert.Equal(t, 20.0, f.TimeDeltaSeconds)
}

func TestNextCoincidentPointsKeepTotals(t *testing.T) {
	a := track.Trackpoint{Lat: 46, Lon: 7, Time: base}
	b := track.Trackpoint{Lat: 46.001, Lon: 7, Time: base.Add(5 * time.Second)}
	c := track.Trackpoint{Lat: 46.001, Lon: 7, Time: base.Add(10 * time.Second)}

	agg := NewAggregator(DefaultConfig())
	_, err := agg.Next(a, a, a, 0)
	require.NoError(t, err)
	moved, err := agg.Next(a, a, b, 1)
	require.NoError(t, err)
	still, err := agg.Next(a, b, c, 2)
	require.NoError(t, err)

	assert.Zero(t, still.StepDistanceFeet)
	assert.Zero(t, still.SpeedMph)
	assert.Equal(t, moved.TotalDistanceMiles, still.TotalDistanceMiles)
	assert.Equal(t, moved.MaxSpeedMph, still.MaxSpeedMph)
	assert.InDelta(t, moved.SpeedMph/2, still.AvgSpeedMph, 1e-9)
	assert.False(t, still.Degenerate)
}

func TestNextDuplicateTimestampIsDegenerate(t *testing.T) {
	a := track.Trackpoint{Lat: 46, Lon: 7, Time: base}
	b := track.Trackpoint{Lat: 46.001, Lon: 7, Time: base}
	back := track.Trackpoint{Lat: 46.002, Lon: 7, Time: base.Add(-time.Second)}

	agg := NewAggregator(DefaultConfig())
	f, err := agg.Next(a, a, b, 1)
	require.NoError(t, err)
	assert.Zero(t, f.SpeedMph)
	assert.True(t, f.Degenerate)
	assert.Greater(t, f.TotalDistanceMiles, 0.0)

	f, err = agg.Next(a, b, back, 2)
	require.NoError(t, err)
	assert.Zero(t, f.SpeedMph, "negative time delta is reported as zero speed")
	assert.True(t, f.Degenerate)
}

func TestNextMissingTimestampCarriesElapsed(t *testing.T) {
	points := northTrack(4, time.Second)
	points[2].Time = time.Time{}

	agg := NewAggregator(DefaultConfig())
	var frames []Frame
	for i := 1; i < len(points); i++ {
		f, err := agg.Next(points[0], points[i-1], points[i], i)
		require.NoError(t, err)
		frames = append(frames, f)
	}

	assert.Equal(t, 1.0, frames[0].ElapsedSeconds)
	assert.False(t, frames[0].Degenerate)

	// Steps into and out of the untimed sample have no time delta.
	for _, f := range frames[1:] {
		assert.Zero(t, f.SpeedMph)
		assert.Zero(t, f.TimeDeltaSeconds)
		assert.True(t, f.Degenerate)
	}
	assert.Equal(t, 1.0, frames[1].ElapsedSeconds, "elapsed holds across an untimed sample")
	assert.Equal(t, 3.0, frames[2].ElapsedSeconds)
	assert.Greater(t, frames[2].TotalDistanceMiles, frames[0].TotalDistanceMiles)
}

func TestNextUntimedStart(t *testing.T) {
	points := northTrack(2, time.Second)
	points[0].Time = time.Time{}

	agg := NewAggregator(DefaultConfig())
	f, err := agg.Next(points[0], points[0], points[1], 1)
	require.NoError(t, err)
	assert.Zero(t, f.ElapsedSeconds)
	assert.Zero(t, f.SpeedMph)
	assert.True(t, f.Degenerate)
}

func TestRunningTotalsMatchStepSums(t *testing.T) {
	points := northTrack(40, time.Second)
	agg := NewAggregator(DefaultConfig())

	_, err := agg.Next(points[0], points[0], points[0], 0)
	require.NoError(t, err)

	sum := 0.0
	prevMax := 0.0
	for k := 1; k < 10; k++ {
		prev, curr := points[(k-1)*4], points[k*4]
		if k%3 == 0 {
			// stretch time to vary speed
			curr.Time = curr.Time.Add(time.Duration(k) * time.Second)
		}
		f, err := agg.Next(points[0], prev, curr, k)
		require.NoError(t, err)

		sum += f.StepDistanceFeet
		assert.InDelta(t, sum, agg.Stats().TotalDistanceFeet, 1e-6)
		assert.GreaterOrEqual(t, f.MaxSpeedMph, prevMax)
		prevMax = f.MaxSpeedMph
	}
}

func TestNextInvalidCoordinateLeavesStateUntouched(t *testing.T) {
	good := track.Trackpoint{Lat: 46, Lon: 7, Time: base}
	bad := track.Trackpoint{Lat: 120, Lon: 7, Time: base.Add(time.Second)}

	agg := NewAggregator(DefaultConfig())
	_, err := agg.Next(good, good, bad, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, geo.ErrInvalidCoordinate))
	assert.Equal(t, RunningStats{}, agg.Stats())
}

func TestNewAggregatorDefaultsZeroFactors(t *testing.T) {
	a := track.Trackpoint{Lat: 46, Lon: 7, Elevation: 10, Time: base}
	agg := NewAggregator(Config{})

	f, err := agg.Next(a, a, a, 0)
	require.NoError(t, err)
	assert.InDelta(t, 10*FeetPerMeter, f.ElevationFeet, 1e-9)
}

func TestMetricConfig(t *testing.T) {
	a := track.Trackpoint{Lat: 46, Lon: 7, Elevation: 10, Time: base}
	b := track.Trackpoint{Lat: 46.01, Lon: 7, Elevation: 12, Time: base.Add(100 * time.Second)}

	// kilometres and km/h, distances still measured in feet
	agg := NewAggregator(Config{
		SpeedConversionFactor:     1.09728,
		ElevationConversionFactor: 1,
		DistanceUnitDivisor:       3280.84,
	})
	f, err := agg.Next(a, a, b, 1)
	require.NoError(t, err)

	assert.InDelta(t, 1.112, f.TotalDistanceMiles, 0.01)
	assert.InDelta(t, 40.0, f.SpeedMph, 0.5)
	assert.Equal(t, 12.0, f.ElevationFeet)
}
