package telemetry

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a whole run of frames.
type Summary struct {
	Frames                 int           `json:"frames"`
	TotalMiles             float64       `json:"total_miles"`
	MaxSpeedMph            float64       `json:"max_speed_mph"`
	MeanSpeedMph           float64       `json:"mean_speed_mph"`
	StdDevSpeedMph         float64       `json:"stddev_speed_mph"`
	ElevationGainFeet      float64       `json:"elevation_gain_feet"`
	MinElevationFeet       float64       `json:"min_elevation_feet"`
	MaxElevationFeet       float64       `json:"max_elevation_feet"`
	FarthestFromStartMiles float64       `json:"farthest_from_start_miles"`
	Duration               time.Duration `json:"duration_ns"`
	DegenerateFrames       int           `json:"degenerate_frames"`
}

// Summarize computes trip-level statistics. Frame 0 carries no movement and
// is left out of the speed statistics.
func Summarize(frames []Frame) Summary {
	if len(frames) == 0 {
		return Summary{}
	}

	last := frames[len(frames)-1]
	s := Summary{
		Frames:      len(frames),
		TotalMiles:  last.TotalDistanceMiles,
		MaxSpeedMph: last.MaxSpeedMph,
		Duration:    time.Duration(last.ElapsedSeconds * float64(time.Second)),
	}

	elevations := make([]float64, len(frames))
	toStart := make([]float64, len(frames))
	var speeds []float64
	for i, f := range frames {
		elevations[i] = f.ElevationFeet
		toStart[i] = f.DistanceToStartMiles
		if i > 0 {
			speeds = append(speeds, f.SpeedMph)
		}
		if f.Degenerate {
			s.DegenerateFrames++
		}
	}

	s.MinElevationFeet = floats.Min(elevations)
	s.MaxElevationFeet = floats.Max(elevations)
	s.FarthestFromStartMiles = floats.Max(toStart)

	for i := 1; i < len(elevations); i++ {
		if d := elevations[i] - elevations[i-1]; d > 0 {
			s.ElevationGainFeet += d
		}
	}

	if len(speeds) > 0 {
		s.MeanSpeedMph = stat.Mean(speeds, nil)
	}
	if len(speeds) > 1 {
		s.StdDevSpeedMph = stat.StdDev(speeds, nil)
	}
	if math.IsNaN(s.StdDevSpeedMph) {
		s.StdDevSpeedMph = 0
	}

	return s
}
