// Package frames drives the resampler, path simplifier and telemetry
// aggregator in lock-step to produce one record per output frame.
package frames

import (
	"context"
	"fmt"

	"github.com/planbiir/tripframes/internal/monitoring"
	"github.com/planbiir/tripframes/internal/resample"
	"github.com/planbiir/tripframes/internal/simplify"
	"github.com/planbiir/tripframes/internal/telemetry"
	"github.com/planbiir/tripframes/internal/track"
)

// Config controls a run.
type Config struct {
	FrameCount            int
	BearingDeltaThreshold float64 // degrees
	Telemetry             telemetry.Config

	// Verbose logs a trace line per frame through monitoring.Logf.
	Verbose bool
}

// DefaultConfig matches a five minute video at one frame per second.
func DefaultConfig() Config {
	return Config{
		FrameCount:            300,
		BearingDeltaThreshold: 2,
		Telemetry:             telemetry.DefaultConfig(),
	}
}

// Frame pairs a telemetry record with the path as it stood at that frame.
type Frame struct {
	Index     resample.FrameIndex
	Telemetry telemetry.Frame
	Path      simplify.Snapshot
}

// Result is the full, ordered output of a run.
type Result struct {
	Frames   []Frame
	Interval float64
	Points   int
}

// Telemetry returns the telemetry records in frame order.
func (r *Result) Telemetry() []telemetry.Frame {
	out := make([]telemetry.Frame, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Telemetry
	}
	return out
}

// FrameError reports which frame a run failed on.
type FrameError struct {
	Frame int
	Index resample.FrameIndex
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (trackpoints %d->%d): %v", e.Frame, e.Index.Prev, e.Index.Curr, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// Run produces cfg.FrameCount frames from points. It fails without output if
// the track is shorter than the frame count, a coordinate is invalid or ctx
// is cancelled between frames.
func Run(ctx context.Context, points []track.Trackpoint, cfg Config) (*Result, error) {
	if cfg.FrameCount <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", cfg.FrameCount)
	}

	plan, err := resample.Plan(len(points), cfg.FrameCount)
	if err != nil {
		return nil, err
	}

	agg := telemetry.NewAggregator(cfg.Telemetry)
	path := simplify.NewPath(cfg.BearingDeltaThreshold)
	start := points[0]

	result := &Result{
		Frames:   make([]Frame, 0, len(plan)),
		Interval: resample.Interval(len(points), cfg.FrameCount),
		Points:   len(points),
	}

	// heading is the last bearing of actual movement. Steps that do not move
	// report a zero bearing, which must not read as a turn.
	var heading float64

	for i, fi := range plan {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled before frame %d: %w", i, err)
		}

		prev, curr := points[fi.Prev], points[fi.Curr]

		tf, err := agg.Next(start, prev, curr, i)
		if err != nil {
			return nil, &FrameError{Frame: i, Index: fi, Err: err}
		}

		if tf.StepDistanceFeet > 0 {
			heading = tf.BearingDegrees
		}
		snap := path.AddPoint(simplify.Vertex{Lat: curr.Lat, Lon: curr.Lon}, heading)

		if cfg.Verbose {
			monitoring.Logf("%d: index1 = %d (%f,%f) to index2 = %d (%f,%f) = %.2f, Bearing = %.2f Elevation = %.2f Total Distance = %.2f Distance To Start = %.2f Speed = %.2f time delta (secs) = %.0f Max Speed = %.2f Avg Speed = %.2f segments = %d",
				i, fi.Prev, prev.Lat, prev.Lon, fi.Curr, curr.Lat, curr.Lon,
				tf.StepDistanceFeet, tf.BearingDegrees, tf.ElevationFeet,
				tf.TotalDistanceMiles, tf.DistanceToStartMiles,
				tf.SpeedMph, tf.TimeDeltaSeconds, tf.MaxSpeedMph, tf.AvgSpeedMph, len(snap))
		}

		result.Frames = append(result.Frames, Frame{Index: fi, Telemetry: tf, Path: snap})
	}

	return result, nil
}
