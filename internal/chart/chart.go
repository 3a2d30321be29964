// Package chart plots whole-trip profiles from telemetry frames.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/planbiir/tripframes/internal/telemetry"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default chart size.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var (
	elevationColor = color.RGBA{R: 0x16, G: 0xa0, B: 0x56, A: 255}
	speedColor     = color.RGBA{R: 0xd0, G: 0x30, B: 0x30, A: 255}
)

// ErrTooFewFrames is returned when a profile would have fewer than two points.
var ErrTooFewFrames = errors.New("need at least two frames to plot")

// Profile writes a PNG with elevation and speed plotted against distance.
func Profile(fs []telemetry.Frame, w io.Writer, width, height vg.Length) error {
	p, err := build(fs)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render profile: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// SaveProfile writes the profile to path; the extension picks the format.
func SaveProfile(fs []telemetry.Frame, path string) error {
	p, err := build(fs)
	if err != nil {
		return err
	}
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func build(fs []telemetry.Frame) (*plot.Plot, error) {
	if len(fs) < 2 {
		return nil, ErrTooFewFrames
	}

	elevation := make(plotter.XYs, len(fs))
	speed := make(plotter.XYs, len(fs))
	for i, f := range fs {
		elevation[i] = plotter.XY{X: f.TotalDistanceMiles, Y: f.ElevationFeet}
		speed[i] = plotter.XY{X: f.TotalDistanceMiles, Y: f.SpeedMph}
	}

	p := plot.New()
	p.Title.Text = "Trip profile"
	p.X.Label.Text = "distance (miles)"
	p.Y.Label.Text = "elevation (ft) / speed (mph)"
	p.Add(plotter.NewGrid())

	elevLine, err := plotter.NewLine(elevation)
	if err != nil {
		return nil, fmt.Errorf("elevation line: %w", err)
	}
	elevLine.Color = elevationColor
	elevLine.Width = vg.Points(1.5)

	speedLine, err := plotter.NewLine(speed)
	if err != nil {
		return nil, fmt.Errorf("speed line: %w", err)
	}
	speedLine.Color = speedColor
	speedLine.Width = vg.Points(1)

	p.Add(elevLine, speedLine)
	p.Legend.Add("elevation", elevLine)
	p.Legend.Add("speed", speedLine)
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}
