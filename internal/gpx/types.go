package gpx

import (
	"encoding/xml"
	"time"
)

// Point is a GPX track point
type Point struct {
	Lat       float64   `xml:"lat,attr"`
	Lon       float64   `xml:"lon,attr"`
	Elevation float64   `xml:"ele"`
	Time      time.Time `xml:"time"`
}

// Track is a GPX track; only its segments are read
type Track struct {
	Segments []TrackSegment `xml:"trkseg"`
}

// TrackSegment represents a track segment
type TrackSegment struct {
	Points []Point `xml:"trkpt"`
}

// GPX holds the tracks of a GPX 1.0 or 1.1 file
type GPX struct {
	XMLName xml.Name `xml:"gpx"`
	Tracks  []Track  `xml:"trk"`
}
