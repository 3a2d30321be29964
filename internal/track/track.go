// Package track holds the trackpoint model shared by the parser and the
// frame pipeline.
package track

import (
	"errors"
	"fmt"
	"time"

	"github.com/planbiir/tripframes/internal/geo"
)

// ErrUnordered is returned by CheckOrder when timestamps go backwards.
var ErrUnordered = errors.New("trackpoints out of order")

// Trackpoint is one GPS sample.
type Trackpoint struct {
	Lat       float64   // degrees
	Lon       float64   // degrees
	Elevation float64   // meters
	Time      time.Time // zero when the sample has none
}

// Coord returns the point's position.
func (p Trackpoint) Coord() geo.Coord {
	return geo.Coord{Lat: p.Lat, Lon: p.Lon}
}

// OrderError identifies the first sample whose timestamp precedes its predecessor.
type OrderError struct {
	Index    int
	Previous time.Time
	Current  time.Time
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("trackpoint %d at %s is earlier than previous sample at %s",
		e.Index, e.Current.Format(time.RFC3339), e.Previous.Format(time.RFC3339))
}

func (e *OrderError) Unwrap() error {
	return ErrUnordered
}

// CheckOrder verifies timestamps are non-decreasing. Duplicate timestamps and
// points without a timestamp are accepted.
func CheckOrder(points []Trackpoint) error {
	var prev time.Time
	for i, p := range points {
		if p.Time.IsZero() {
			continue
		}
		if !prev.IsZero() && p.Time.Before(prev) {
			return &OrderError{Index: i, Previous: prev, Current: p.Time}
		}
		prev = p.Time
	}
	return nil
}

// Duration is the time between the first and last timestamped sample.
func Duration(points []Trackpoint) time.Duration {
	var first, last time.Time
	for _, p := range points {
		if p.Time.IsZero() {
			continue
		}
		if first.IsZero() {
			first = p.Time
		}
		last = p.Time
	}
	return last.Sub(first)
}

// Untimed counts samples without a timestamp.
func Untimed(points []Trackpoint) int {
	n := 0
	for _, p := range points {
		if p.Time.IsZero() {
			n++
		}
	}
	return n
}
