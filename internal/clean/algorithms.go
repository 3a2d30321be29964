package clean

import (
	"math"
	"sort"

	"github.com/planbiir/tripframes/internal/geo"
	"github.com/planbiir/tripframes/internal/telemetry"
	"github.com/planbiir/tripframes/internal/track"
	"gonum.org/v1/gonum/stat"
)

// smoothElevation applies median filter to reduce barometric noise
func smoothElevation(points []track.Trackpoint, windowSize int) {
	if len(points) < 3 || windowSize < 3 {
		return
	}

	// Ensure window size is odd
	if windowSize%2 == 0 {
		windowSize++
	}
	half := windowSize / 2

	smoothed := make([]float64, len(points))
	window := make([]float64, 0, windowSize)
	for i := range points {
		window = window[:0]
		start := max(0, i-half)
		end := min(len(points), i+half+1)
		for j := start; j < end; j++ {
			window = append(window, points[j].Elevation)
		}
		smoothed[i] = medianFloat(window)
	}

	for i := range points {
		points[i].Elevation = smoothed[i]
	}
}

// velocityOutlierFilter returns the indices of points reachable from the
// last kept point at a plausible speed and without a hairpin spike
func velocityOutlierFilter(points []track.Trackpoint, maxSpeed float64, config Config) []int {
	validIndices := []int{0} // Always keep first point

	for i := 1; i < len(points)-1; i++ {
		prev := points[validIndices[len(validIndices)-1]]
		curr, next := points[i], points[i+1]

		distToPrev := metersBetween(config.Sphere, prev, curr)
		distToNext := metersBetween(config.Sphere, curr, next)
		timeToPrev := curr.Time.Sub(prev.Time).Seconds()

		turnAngle := calculateTurnAngle(prev, curr, next)
		directionOK := turnAngle <= config.MaxHairpinDegrees

		var speedOK, paused bool
		if timeToPrev > 0 {
			speed := distToPrev / timeToPrev
			speedOK = inRange(speed, config.MinSpeed, maxSpeed)
			// Pauses skip the turn checks, jitter makes their geometry meaningless
			paused = speed <= config.PauseSpeed
		} else {
			// No usable timestamp: fall back to a distance jump guard
			speedOK = distToPrev <= config.TeleportMeters
		}

		if paused {
			directionOK = true
		} else if speedOK && directionOK {
			// Two-leg "boomerang": both legs long relative to the base
			base := metersBetween(config.Sphere, prev, next)
			ratio := (distToPrev + distToNext) / math.Max(base, 1)
			if ratio > 6 && turnAngle > 90 {
				speedOK = false
			}
		}

		if speedOK && directionOK {
			validIndices = append(validIndices, i)
		}
	}

	return append(validIndices, len(points)-1)
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// detectActivityType classifies the track by its P95 speed and picks a limit
func detectActivityType(points []track.Trackpoint, sphere geo.Sphere) (string, float64, float64) {
	speeds := calculateAllSpeeds(points, sphere)
	if len(speeds) == 0 {
		return "unknown", 12.0, 0.0
	}

	sort.Float64s(speeds)
	p95 := stat.Quantile(0.95, stat.LinInterp, speeds, nil)

	switch {
	case p95 <= 8.0: // 28.8 km/h
		return "running/hiking", 12.0, p95
	case p95 <= 20.0: // 72 km/h
		return "cycling", 30.0, p95
	default:
		return "high-speed", 50.0, p95
	}
}

// calculateAllSpeeds computes speeds between consecutive timestamped points
func calculateAllSpeeds(points []track.Trackpoint, sphere geo.Sphere) []float64 {
	var speeds []float64
	for i := 1; i < len(points); i++ {
		if points[i].Time.IsZero() || points[i-1].Time.IsZero() {
			continue
		}
		dt := points[i].Time.Sub(points[i-1].Time).Seconds()
		if dt <= 0 {
			continue
		}
		speed := metersBetween(sphere, points[i-1], points[i]) / dt
		if speed > 0 && speed < 100 { // reasonable bounds
			speeds = append(speeds, speed)
		}
	}
	return speeds
}

// calculateTurnAngle computes the turn angle at b between legs a→b and b→c.
// Bearings do not depend on the sphere radius.
func calculateTurnAngle(a, b, c track.Trackpoint) float64 {
	in, err := geo.Measure(a.Coord(), b.Coord())
	if err != nil {
		return 0
	}
	out, err := geo.Measure(b.Coord(), c.Coord())
	if err != nil {
		return 0
	}

	turnAngle := math.Abs(out.BearingDegrees - in.BearingDegrees)
	if turnAngle > 180.0 {
		turnAngle = 360.0 - turnAngle
	}
	return turnAngle
}

// metersBetween is the great-circle distance in meters. Invalid coordinates
// count as an infinite jump so the point gets filtered.
func metersBetween(sphere geo.Sphere, a, b track.Trackpoint) float64 {
	m, err := sphere.Measure(a.Coord(), b.Coord())
	if err != nil {
		return math.Inf(1)
	}
	return m.DistanceFeet / telemetry.FeetPerMeter
}

func medianFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted)%2 == 0 {
		return (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}
	return sorted[len(sorted)/2]
}
