package staticmap

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/planbiir/tripframes/internal/frames"
	"github.com/planbiir/tripframes/internal/simplify"
	"github.com/planbiir/tripframes/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	polyline "github.com/twpayne/go-polyline"
)

func twoSegments() simplify.Snapshot {
	return simplify.Snapshot{
		{{Lat: 46, Lon: 7}, {Lat: 46.001, Lon: 7}},
		{{Lat: 46.001, Lon: 7}, {Lat: 46.001, Lon: 7.002}},
	}
}

func TestURL_ParameterOrder(t *testing.T) {
	o := DefaultOptions()
	o.APIKey = "secret"

	u, err := o.URL(simplify.Vertex{Lat: 46.001, Lon: 7.002}, twoSegments())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(u, "https://maps.googleapis.com/maps/api/staticmap?"))

	keys := []string{"key=", "format=", "size=", "zoom=", "path=", "center=", "markers="}
	last := -1
	for _, k := range keys {
		idx := strings.Index(u, k)
		require.NotEqual(t, -1, idx, "missing %s in %s", k, u)
		assert.Greater(t, idx, last, "%s out of order", k)
		last = idx
	}

	assert.Contains(t, u, "size=480x270")
	assert.Contains(t, u, "zoom=14")
	assert.Contains(t, u, "path=color:0xFF0000FF|weight:4|46,7|46.001,7|46.001,7.002")
	assert.Contains(t, u, "center=46.001,7.002")
	assert.Contains(t, u, "markers=color:green|size:tiny|46.001,7.002")
}

func TestURL_NoPathForSingleVertex(t *testing.T) {
	o := DefaultOptions()
	u, err := o.URL(simplify.Vertex{Lat: 46, Lon: 7}, simplify.Snapshot{{{Lat: 46, Lon: 7}}})
	require.NoError(t, err)
	assert.NotContains(t, u, "path=")
	assert.Contains(t, u, "center=46,7")
}

func TestURL_Encoded(t *testing.T) {
	o := DefaultOptions()
	o.Encode = true

	u, err := o.URL(simplify.Vertex{Lat: 46.001, Lon: 7.002}, twoSegments())
	require.NoError(t, err)

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	path := parsed.Query().Get("path")
	idx := strings.Index(path, "enc:")
	require.NotEqual(t, -1, idx, path)

	coords, rest, err := polyline.DecodeCoords([]byte(path[idx+len("enc:"):]))
	require.NoError(t, err)
	assert.Empty(t, rest)
	require.Len(t, coords, 3)
	assert.InDelta(t, 46.001, coords[2][0], 1e-5)
	assert.InDelta(t, 7.002, coords[2][1], 1e-5)
}

func TestURL_TooLong(t *testing.T) {
	seg := simplify.Segment{}
	for i := 0; i < 1000; i++ {
		seg = append(seg, simplify.Vertex{Lat: 46 + float64(i)*0.000123, Lon: 7 + float64(i)*0.000321})
	}
	snap := simplify.Snapshot{seg}

	o := DefaultOptions()
	_, err := o.URL(simplify.Vertex{Lat: 46, Lon: 7}, snap)
	assert.True(t, errors.Is(err, ErrURLTooLong))

	o.Encode = true
	_, err = o.URL(simplify.Vertex{Lat: 46, Lon: 7}, snap)
	assert.NoError(t, err)
}

func TestURL_EscapesKey(t *testing.T) {
	o := DefaultOptions()
	o.APIKey = "a&b=c"
	u, err := o.URL(simplify.Vertex{}, nil)
	require.NoError(t, err)

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, "a&b=c", parsed.Query().Get("key"))
}

func TestBuildRequests(t *testing.T) {
	fs := []frames.Frame{
		{Telemetry: telemetry.Frame{Lat: 46, Lon: 7}, Path: simplify.Snapshot{{{Lat: 46, Lon: 7}}}},
		{Telemetry: telemetry.Frame{Lat: 46.001, Lon: 7.002}, Path: twoSegments()},
	}
	reqs, err := BuildRequests(DefaultOptions(), fs)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, 1, reqs[1].Frame)
	assert.NotContains(t, reqs[0].URL, "path=")
	assert.Contains(t, reqs[1].URL, "path=")
}

func TestFormatTypes(t *testing.T) {
	assert.Contains(t, FormatTypes, "png")
	assert.Contains(t, FormatTypes, "jpeg-baseline")
	assert.Len(t, FormatTypes, 6)
}
