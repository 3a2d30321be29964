// Package telemetry turns resampled trackpoint pairs into per-frame
// statistics records.
package telemetry

import (
	"fmt"
	"time"

	"github.com/planbiir/tripframes/internal/geo"
	"github.com/planbiir/tripframes/internal/track"
)

// Unit conversion defaults.
const (
	MPHPerFeetPerSecond = 0.681818
	FeetPerMeter        = 3.2808
	FeetPerMile         = 5280
)

// Config holds the unit conventions used by the Aggregator.
type Config struct {
	SpeedConversionFactor     float64 // feet/second to output speed unit
	ElevationConversionFactor float64 // meters to output elevation unit
	DistanceUnitDivisor       float64 // feet per output distance unit
	Sphere                    geo.Sphere
}

// DefaultConfig returns mph, feet and miles on the mean earth sphere.
func DefaultConfig() Config {
	return Config{
		SpeedConversionFactor:     MPHPerFeetPerSecond,
		ElevationConversionFactor: FeetPerMeter,
		DistanceUnitDivisor:       FeetPerMile,
		Sphere:                    geo.Sphere{RadiusFeet: geo.EarthRadiusFeet},
	}
}

// Frame is the statistics record for one output frame.
type Frame struct {
	Number int       `json:"frame"`
	Time   time.Time `json:"time"`
	Lat    float64   `json:"lat"`
	Lon    float64   `json:"lon"`

	SpeedMph             float64 `json:"speed_mph"`
	MaxSpeedMph          float64 `json:"max_speed_mph"`
	AvgSpeedMph          float64 `json:"avg_speed_mph"`
	TotalDistanceMiles   float64 `json:"total_distance_miles"`
	DistanceToStartMiles float64 `json:"distance_to_start_miles"`
	BearingDegrees       float64 `json:"bearing_degrees"`
	ElevationFeet        float64 `json:"elevation_feet"`
	ElapsedSeconds       float64 `json:"elapsed_seconds"`

	// Step detail, useful for tracing.
	StepDistanceFeet float64 `json:"step_distance_feet"`
	TimeDeltaSeconds float64 `json:"time_delta_seconds"`
	// Degenerate is set when a frame after the first had no positive time
	// delta, including a missing timestamp, so its speed was reported as zero.
	Degenerate bool `json:"degenerate,omitempty"`
}

// RunningStats are the totals carried from one frame to the next.
type RunningStats struct {
	TotalDistanceFeet float64
	SpeedSumMph       float64
	MaxSpeedMph       float64
}

// Aggregator accumulates running statistics across frames. It is not safe
// for concurrent use.
type Aggregator struct {
	cfg   Config
	stats RunningStats
	// elapsed is the last elapsed time computed from timed samples.
	elapsed float64
}

// NewAggregator returns an Aggregator with zeroed running statistics. Zero
// conversion factors fall back to DefaultConfig values.
func NewAggregator(cfg Config) *Aggregator {
	defaults := DefaultConfig()
	if cfg.SpeedConversionFactor == 0 {
		cfg.SpeedConversionFactor = defaults.SpeedConversionFactor
	}
	if cfg.ElevationConversionFactor == 0 {
		cfg.ElevationConversionFactor = defaults.ElevationConversionFactor
	}
	if cfg.DistanceUnitDivisor == 0 {
		cfg.DistanceUnitDivisor = defaults.DistanceUnitDivisor
	}
	return &Aggregator{cfg: cfg}
}

// Next measures the step from prev to curr, folds it into the running
// statistics and returns the frame record. frameNumber 0 reports a zero
// average; later frames average over frameNumber steps.
func (a *Aggregator) Next(start, prev, curr track.Trackpoint, frameNumber int) (Frame, error) {
	step, err := a.cfg.Sphere.Measure(prev.Coord(), curr.Coord())
	if err != nil {
		return Frame{}, fmt.Errorf("measure step: %w", err)
	}
	toStart, err := a.cfg.Sphere.Measure(start.Coord(), curr.Coord())
	if err != nil {
		return Frame{}, fmt.Errorf("measure distance to start: %w", err)
	}

	// A sample without a timestamp gives no time delta. Elapsed time holds
	// its last timed value.
	var dt float64
	if !prev.Time.IsZero() && !curr.Time.IsZero() {
		dt = curr.Time.Sub(prev.Time).Seconds()
	}
	elapsed := a.elapsed
	if !start.Time.IsZero() && !curr.Time.IsZero() {
		elapsed = curr.Time.Sub(start.Time).Seconds()
	}

	speed := 0.0
	degenerate := false
	if dt > 0 {
		speed = step.DistanceFeet / dt * a.cfg.SpeedConversionFactor
	} else if frameNumber > 0 {
		degenerate = true
	}

	a.stats.TotalDistanceFeet += step.DistanceFeet
	a.stats.SpeedSumMph += speed
	a.stats.MaxSpeedMph = max(a.stats.MaxSpeedMph, speed)
	a.elapsed = elapsed

	avg := 0.0
	if frameNumber > 0 {
		avg = a.stats.SpeedSumMph / float64(frameNumber)
	}

	return Frame{
		Number:               frameNumber,
		Time:                 curr.Time,
		Lat:                  curr.Lat,
		Lon:                  curr.Lon,
		SpeedMph:             speed,
		MaxSpeedMph:          a.stats.MaxSpeedMph,
		AvgSpeedMph:          avg,
		TotalDistanceMiles:   a.stats.TotalDistanceFeet / a.cfg.DistanceUnitDivisor,
		DistanceToStartMiles: toStart.DistanceFeet / a.cfg.DistanceUnitDivisor,
		BearingDegrees:       step.BearingDegrees,
		ElevationFeet:        curr.Elevation * a.cfg.ElevationConversionFactor,
		ElapsedSeconds:       elapsed,
		StepDistanceFeet:     step.DistanceFeet,
		TimeDeltaSeconds:     dt,
		Degenerate:           degenerate,
	}, nil
}

// Stats returns a copy of the running statistics.
func (a *Aggregator) Stats() RunningStats {
	return a.stats
}
