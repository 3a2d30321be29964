package overlay

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/planbiir/tripframes/internal/geo"
	"github.com/planbiir/tripframes/internal/output"
	"github.com/planbiir/tripframes/internal/telemetry"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	dateLayout = "Monday, January 2, 2006"
	timeLayout = "3:04:05 PM"
)

// Renderer draws data views. The parsed font is shared; faces are created
// per render because they cache glyphs and are not safe for concurrent use.
type Renderer struct {
	opts       Options
	font       *truetype.Font
	loc        *time.Location
	background color.NRGBA
	text       color.NRGBA
}

// NewRenderer validates opts and loads the font and time zone.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid view size %dx%d", opts.Width, opts.Height)
	}

	ttf := goregular.TTF
	if opts.FontPath != "" {
		data, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
		ttf = data
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	loc, err := time.LoadLocation(opts.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", opts.TimeZone, err)
	}

	bg, err := ParseHexColor(opts.Background)
	if err != nil {
		return nil, err
	}
	fg, err := ParseHexColor(opts.TextColor)
	if err != nil {
		return nil, err
	}
	if opts.Alpha >= 0 && opts.Alpha < 1 {
		fg.A = uint8(float64(fg.A) * opts.Alpha)
	}

	return &Renderer{opts: opts, font: f, loc: loc, background: bg, text: fg}, nil
}

func (r *Renderer) face(size float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{Size: size})
}

// Render draws one frame's data view.
func (r *Renderer) Render(f telemetry.Frame) image.Image {
	return r.draw(f).Image()
}

func (r *Renderer) draw(f telemetry.Frame) *gg.Context {
	o := r.opts
	w := float64(o.Width)
	dc := gg.NewContext(o.Width, o.Height)

	dc.SetColor(r.background)
	dc.Clear()
	dc.SetColor(r.text)

	speedX := w / 4
	distX := w - w/4
	y := o.TopMargin

	if !f.Time.IsZero() {
		local := f.Time.In(r.loc)
		dc.SetFontFace(r.face(o.DateFontSize))
		date := local.Format(dateLayout)
		dc.DrawStringAnchored(date, w/2, y, 0.5, 1)
		y += o.DateFontSize + o.TimeSpacing
		dc.DrawStringAnchored(local.Format(timeLayout), w/2, y, 0.5, 1)
		y += o.DateFontSize
	}

	y += o.HeaderSpacing
	dc.SetFontFace(r.face(o.HeaderFontSize))
	dc.DrawStringAnchored(o.SpeedHeader, speedX, y, 0.5, 1)
	dc.DrawStringAnchored(o.DistanceHeader, distX, y, 0.5, 1)
	y += o.HeaderFontSize

	// Large value with a small unit label sharing its baseline.
	y += o.DataSpacing + o.ValueFontSize
	valueFace := r.face(o.ValueFontSize)
	dataFace := r.face(o.DataFontSize)
	r.drawValue(dc, valueFace, dataFace, fmt.Sprintf("%.2f", f.SpeedMph), o.SpeedLabel, speedX, y)
	r.drawValue(dc, valueFace, dataFace, fmt.Sprintf("%.2f", f.TotalDistanceMiles), o.DistanceLabel, distX, y)
	y += o.DataSpacing

	dc.SetFontFace(dataFace)
	speeds := fmt.Sprintf("%s %.2f  %s %.2f", o.AvgSpeedLabel, f.AvgSpeedMph, o.TopSpeedLabel, f.MaxSpeedMph)
	toStart := fmt.Sprintf("%s %.2f %s", o.DistStartLabel, f.DistanceToStartMiles, o.DistanceLabel)
	y += o.DataSpacing
	dc.DrawStringAnchored(speeds, speedX, y, 0.5, 1)
	dc.DrawStringAnchored(toStart, distX, y, 0.5, 1)
	y += o.DataFontSize

	location := fmt.Sprintf("%s  %s %.2f %s", geo.Compass(f.BearingDegrees), o.ElevationLabel, f.ElevationFeet, o.ElevationUnits)
	elapsed := o.ElapsedTimeLabel + " " + FormatElapsed(f.ElapsedSeconds)
	y += o.DataSpacing
	dc.DrawStringAnchored(location, speedX, y, 0.5, 1)
	dc.DrawStringAnchored(elapsed, distX, y, 0.5, 1)

	return dc
}

func (r *Renderer) drawValue(dc *gg.Context, valueFace, labelFace font.Face, value, label string, centerX, baseline float64) {
	dc.SetFontFace(valueFace)
	vw, _ := dc.MeasureString(value)
	dc.SetFontFace(labelFace)
	lw, _ := dc.MeasureString(label)

	x := centerX - (vw+r.opts.DataPadding+lw)/2
	dc.SetFontFace(valueFace)
	dc.DrawString(value, x, baseline)
	dc.SetFontFace(labelFace)
	dc.DrawString(label, x+vw+r.opts.DataPadding, baseline)
}

// Encode renders a frame as PNG.
func (r *Renderer) Encode(f telemetry.Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.draw(f).EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", f.Number, err)
	}
	return buf.Bytes(), nil
}

// RenderAll encodes every frame with a pool of workers and writes the PNGs
// to sink under the frame's position in fs. Progress, when non-nil,
// receives a progress bar.
func (r *Renderer) RenderAll(ctx context.Context, fs []telemetry.Frame, sink output.Sink, workers int, progress io.Writer) error {
	if workers <= 0 {
		workers = 1
	}

	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = progressbar.NewOptions(len(fs),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription("Rendering data views"),
			progressbar.OptionShowCount(),
		)
	}

	tasks := make(chan int)
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) { once.Do(func() { firstErr = err }) }

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				data, err := r.Encode(fs[idx])
				if err == nil {
					err = sink.Write(idx, data)
				}
				if err != nil {
					fail(err)
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

feed:
	for i := range fs {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- i:
		}
	}
	close(tasks)
	wg.Wait()

	if bar != nil {
		_ = bar.Finish()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return firstErr
}
