// Package overlay draws the per-frame data view: date, time, speed,
// distance and the secondary trip figures.
package overlay

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Options controls the data view layout. Sizes are in points, spacings in
// pixels.
type Options struct {
	Width  int
	Height int

	Background string
	TextColor  string
	Alpha      float64
	TimeZone   string
	// FontPath selects a TrueType font; empty uses Go Regular.
	FontPath string

	DateFontSize   float64
	HeaderFontSize float64
	ValueFontSize  float64
	DataFontSize   float64

	TopMargin     float64
	TimeSpacing   float64
	HeaderSpacing float64
	DataSpacing   float64
	DataPadding   float64

	SpeedHeader      string
	DistanceHeader   string
	SpeedLabel       string
	DistanceLabel    string
	AvgSpeedLabel    string
	TopSpeedLabel    string
	DistStartLabel   string
	ElevationLabel   string
	ElevationUnits   string
	ElapsedTimeLabel string
}

// DefaultOptions returns the green-on-dark 480x270 view.
func DefaultOptions() Options {
	return Options{
		Width:      480,
		Height:     270,
		Background: "#282c34",
		TextColor:  "#16f056",
		Alpha:      1,
		TimeZone:   "America/New_York",

		DateFontSize:   16,
		HeaderFontSize: 18,
		ValueFontSize:  46,
		DataFontSize:   18,

		TopMargin:     30,
		TimeSpacing:   5,
		HeaderSpacing: 15,
		DataSpacing:   10,
		DataPadding:   5,

		SpeedHeader:      "speed",
		DistanceHeader:   "distance",
		SpeedLabel:       "mph",
		DistanceLabel:    "miles",
		AvgSpeedLabel:    "avg:",
		TopSpeedLabel:    "top:",
		DistStartLabel:   "distance to start:",
		ElevationLabel:   "elevation:",
		ElevationUnits:   "ft",
		ElapsedTimeLabel: "elapsed time:",
	}
}

// ParseHexColor accepts #rgb, #rgba, #rrggbb and #rrggbbaa.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 || len(hex) == 4 {
		long := make([]byte, 0, 8)
		for i := 0; i < len(hex); i++ {
			long = append(long, hex[i], hex[i])
		}
		hex = string(long)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// FormatElapsed renders whole seconds as HH:MM:SS.
func FormatElapsed(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
