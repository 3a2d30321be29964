package gpx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/planbiir/tripframes/internal/geo"
	"github.com/planbiir/tripframes/internal/track"
)

// ErrNoTrackpoints is returned when a file has no points in its first segment.
var ErrNoTrackpoints = errors.New("no trackpoints in first track segment")

// Parse reads and parses a GPX file
func Parse(filename string) (*GPX, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ParseReader(file)
}

// ParseReader parses GPX from an io.Reader
func ParseReader(r io.Reader) (*GPX, error) {
	decoder := xml.NewDecoder(r)

	var gpxData GPX
	if err := decoder.Decode(&gpxData); err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	return &gpxData, nil
}

// Trackpoints returns the points of the first segment of the first track.
// Additional tracks and segments are not part of the trip; see Extra.
func (g *GPX) Trackpoints() ([]track.Trackpoint, error) {
	if len(g.Tracks) == 0 || len(g.Tracks[0].Segments) == 0 || len(g.Tracks[0].Segments[0].Points) == 0 {
		return nil, ErrNoTrackpoints
	}

	src := g.Tracks[0].Segments[0].Points
	points := make([]track.Trackpoint, len(src))
	for i, p := range src {
		points[i] = track.Trackpoint{
			Lat:       p.Lat,
			Lon:       p.Lon,
			Elevation: p.Elevation,
			Time:      p.Time,
		}
	}

	return points, nil
}

// Extra counts the segments that Trackpoints ignores.
func (g *GPX) Extra() (segments int) {
	for trackIdx, t := range g.Tracks {
		segments += len(t.Segments)
		if trackIdx == 0 && len(t.Segments) > 0 {
			segments--
		}
	}
	return segments
}

// Stats returns basic statistics about the whole file, distance in feet.
// Duration spans the first and last timestamped points.
func (g *GPX) Stats() (pointCount int, trackCount int, segmentCount int, duration time.Duration, distance float64) {
	trackCount = len(g.Tracks)

	var first, last Point
	for _, t := range g.Tracks {
		segmentCount += len(t.Segments)
		for _, segment := range t.Segments {
			for i, p := range segment.Points {
				if !p.Time.IsZero() {
					if first.Time.IsZero() {
						first = p
					}
					last = p
				}
				if i > 0 {
					prev := segment.Points[i-1]
					if m, err := geo.Measure(geo.Coord{Lat: prev.Lat, Lon: prev.Lon}, geo.Coord{Lat: p.Lat, Lon: p.Lon}); err == nil {
						distance += m.DistanceFeet
					}
				}
				pointCount++
			}
		}
	}

	duration = last.Time.Sub(first.Time)

	return
}
