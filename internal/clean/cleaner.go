// Package clean removes GPS spikes from a raw track before it is resampled.
package clean

import (
	"time"

	"github.com/planbiir/tripframes/internal/monitoring"
	"github.com/planbiir/tripframes/internal/track"
)

// Clean smooths elevation and drops velocity/geometry outliers. The input
// slice is not modified. The first and last point are always kept.
func Clean(points []track.Trackpoint, config Config) Result {
	if len(points) < 3 {
		return Result{
			Points: append([]track.Trackpoint(nil), points...),
			Stats: Stats{
				OriginalPoints: len(points),
				FinalPoints:    len(points),
			},
		}
	}

	startTime := time.Now()

	work := append([]track.Trackpoint(nil), points...)
	smoothElevation(work, config.ElevationWindow)

	activityType, detectedMax, p95 := detectActivityType(work, config.Sphere)
	maxSpeed := config.MaxSpeed
	if maxSpeed <= 0 {
		maxSpeed = detectedMax
	}
	monitoring.Logf("clean: auto-detected activity %s (P95 %.1f m/s), speed limit %.1f m/s (%.1f km/h)",
		activityType, p95, maxSpeed, maxSpeed*3.6)

	kept := velocityOutlierFilter(work, maxSpeed, config)

	stats := Stats{
		OriginalPoints:   len(points),
		ActivityType:     activityType,
		DetectedMaxSpeed: detectedMax,
		P95Speed:         p95,
	}

	removedPercent := float64(len(work)-len(kept)) / float64(len(work)) * 100
	if removedPercent > config.MaxRemovedPercent {
		monitoring.Logf("clean: safety override, would remove %.1f%% > %.0f%% limit; keeping all points",
			removedPercent, config.MaxRemovedPercent)
		stats.SafetyOverride = true
		kept = kept[:0]
		for i := range work {
			kept = append(kept, i)
		}
	}

	final := make([]track.Trackpoint, len(kept))
	for i, idx := range kept {
		final[i] = work[idx]
	}

	stats.FinalPoints = len(final)
	stats.PointsRemoved = len(points) - len(final)
	stats.PointsPercent = float64(stats.PointsRemoved) / float64(len(points)) * 100
	stats.ProcessingTime = time.Since(startTime)

	monitoring.Logf("clean: %d→%d points (%.1f%% removed) in %v",
		stats.OriginalPoints, stats.FinalPoints, stats.PointsPercent, stats.ProcessingTime)

	return Result{Points: final, Stats: stats}
}
