// Package resample maps an irregular trackpoint sequence onto a fixed number
// of output frames.
package resample

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientSamples is returned when a track has fewer points than frames.
var ErrInsufficientSamples = errors.New("insufficient samples")

// FrameIndex anchors one output frame to a pair of trackpoint positions.
type FrameIndex struct {
	Prev int
	Curr int
}

// Plan returns frameCount index pairs over a track of totalPoints samples.
//
// Frame 0 is (0,0). Each later frame starts where the previous one ended and
// advances by totalPoints/frameCount samples, rounded. An index that would run
// past the end is clamped to the last sample and the accumulator stops
// advancing. The last frame always ends on the last sample.
func Plan(totalPoints, frameCount int) ([]FrameIndex, error) {
	if frameCount <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", frameCount)
	}
	if totalPoints < frameCount {
		return nil, fmt.Errorf("%w: %d trackpoints for %d frames", ErrInsufficientSamples, totalPoints, frameCount)
	}

	interval := float64(totalPoints) / float64(frameCount)
	last := totalPoints - 1

	plan := make([]FrameIndex, frameCount)
	acc := 0.0
	prev := 0

	for i := 1; i < frameCount; i++ {
		curr := int(math.Round(acc + interval))
		if curr >= totalPoints {
			curr = last
		} else {
			acc += interval
		}
		if i == frameCount-1 {
			curr = last
		}

		plan[i] = FrameIndex{Prev: prev, Curr: curr}
		prev = curr
	}

	return plan, nil
}

// Interval is the real-valued number of trackpoints per frame.
func Interval(totalPoints, frameCount int) float64 {
	if frameCount <= 0 {
		return 0
	}
	return float64(totalPoints) / float64(frameCount)
}
