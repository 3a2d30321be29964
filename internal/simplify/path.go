// Package simplify builds a bounded-size polyline from a stream of points,
// keeping a vertex only where the direction of travel changes.
package simplify

import "math"

// Vertex is a node of the simplified path.
type Vertex struct {
	Lat float64
	Lon float64
}

// Segment is a run of travel with a roughly constant bearing. It holds its
// start vertex and, once the path has moved, its current end vertex.
type Segment []Vertex

func (s Segment) moved() bool {
	return len(s) > 1 && s[len(s)-1] != s[0]
}

// Snapshot is an immutable copy of the path after one frame.
type Snapshot []Segment

// Vertices flattens the snapshot into a single polyline, dropping the
// junction vertex each segment shares with the one before it.
func (s Snapshot) Vertices() []Vertex {
	var out []Vertex
	for i, seg := range s {
		if i > 0 && len(seg) > 0 {
			seg = seg[1:]
		}
		out = append(out, seg...)
	}
	return out
}

// VertexCount is the number of vertices in the flattened polyline.
func (s Snapshot) VertexCount() int {
	return len(s.Vertices())
}

// Path accumulates points into segments. It is not safe for concurrent use.
type Path struct {
	threshold   float64
	segments    []Segment
	lastBearing float64
}

// NewPath returns an empty path that starts a new segment whenever the
// bearing moves more than thresholdDegrees away from the last committed one.
func NewPath(thresholdDegrees float64) *Path {
	return &Path{threshold: math.Abs(thresholdDegrees)}
}

// AddPoint advances the path to v travelling at bearing and returns a
// snapshot of the result.
//
// The first point seeds segment 0. A segment that has not yet left its start
// vertex adopts the bearing of its first move. Otherwise, a bearing change larger
// than the threshold closes the active segment and opens a new one at its end
// vertex. v then becomes the end vertex of the active segment.
func (p *Path) AddPoint(v Vertex, bearing float64) Snapshot {
	if len(p.segments) == 0 {
		p.segments = append(p.segments, Segment{v})
		return p.Snapshot()
	}

	active := p.segments[len(p.segments)-1]
	switch {
	case !active.moved():
		p.lastBearing = bearing
	case math.Abs(bearing-p.lastBearing) > p.threshold:
		junction := active[len(active)-1]
		p.segments = append(p.segments, Segment{junction})
		p.lastBearing = bearing
	}

	idx := len(p.segments) - 1
	if len(p.segments[idx]) == 1 {
		p.segments[idx] = append(p.segments[idx], v)
	} else {
		p.segments[idx][len(p.segments[idx])-1] = v
	}

	return p.Snapshot()
}

// Snapshot copies the current segments.
func (p *Path) Snapshot() Snapshot {
	out := make(Snapshot, len(p.segments))
	for i, seg := range p.segments {
		out[i] = append(Segment(nil), seg...)
	}
	return out
}

// Len returns the number of segments.
func (p *Path) Len() int {
	return len(p.segments)
}

// LastBearing returns the bearing of the most recently committed segment.
func (p *Path) LastBearing() float64 {
	return p.lastBearing
}
