package chart

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/planbiir/tripframes/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func climb(n int) []telemetry.Frame {
	fs := make([]telemetry.Frame, n)
	for i := range fs {
		fs[i] = telemetry.Frame{
			Number:             i,
			TotalDistanceMiles: float64(i) * 0.1,
			ElevationFeet:      100 + float64(i)*5,
			SpeedMph:           10 + float64(i%3),
		}
	}
	return fs
}

func TestProfile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Profile(climb(20), &buf, 4*vg.Inch, 2*vg.Inch))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestProfile_TooFewFrames(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Profile(climb(1), &buf, DefaultWidth, DefaultHeight), ErrTooFewFrames)
	assert.Zero(t, buf.Len())
}

func TestSaveProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.png")
	require.NoError(t, SaveProfile(climb(5), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
