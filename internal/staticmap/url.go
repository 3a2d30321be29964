// Package staticmap turns frame path snapshots into static map image
// requests and downloads the images.
package staticmap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/planbiir/tripframes/internal/frames"
	"github.com/planbiir/tripframes/internal/simplify"
	polyline "github.com/twpayne/go-polyline"
)

// MaxURLLength is the longest request URL the map service accepts.
const MaxURLLength = 8192

// ErrURLTooLong is returned when a literal path does not fit in a request.
var ErrURLTooLong = errors.New("map request URL too long")

// FormatTypes are the image formats the map service can return.
var FormatTypes = []string{"jpg", "jpeg-baseline", "png", "png8", "png32", "gif"}

// Options describes the map request.
type Options struct {
	Protocol string
	Host     string
	Path     string
	APIKey   string
	Format   string
	Width    int
	Height   int
	Zoom     int

	PathColor  string
	PathWeight int
	// Encode sends the path as an encoded polyline instead of a coordinate list.
	Encode bool

	Center      bool
	Marker      bool
	MarkerColor string
	MarkerSize  string
}

// DefaultOptions returns a 480x270 Google static map at zoom 14 with a red
// path and a tiny green marker on the current position.
func DefaultOptions() Options {
	return Options{
		Protocol:    "https",
		Host:        "maps.googleapis.com",
		Path:        "/maps/api/staticmap",
		Format:      "png",
		Width:       480,
		Height:      270,
		Zoom:        14,
		PathColor:   "0xFF0000FF",
		PathWeight:  4,
		Center:      true,
		Marker:      true,
		MarkerColor: "green",
		MarkerSize:  "tiny",
	}
}

// URL builds the request for one frame centred on pos. The path parameter is
// only added once the snapshot has at least two vertices.
func (o Options) URL(pos simplify.Vertex, path simplify.Snapshot) (string, error) {
	var b strings.Builder
	b.WriteString(o.Protocol + "://" + o.Host + o.Path)

	params := []string{
		"key=" + escape(o.APIKey),
		"format=" + escape(o.Format),
		fmt.Sprintf("size=%dx%d", o.Width, o.Height),
		"zoom=" + strconv.Itoa(o.Zoom),
	}
	if vertices := path.Vertices(); len(vertices) >= 2 {
		params = append(params, "path="+escape(o.pathValue(vertices)))
	}
	if o.Center {
		params = append(params, "center="+escape(latLon(pos)))
	}
	if o.Marker {
		params = append(params, "markers="+escape("color:"+o.MarkerColor+"|size:"+o.MarkerSize+"|"+latLon(pos)))
	}

	b.WriteByte('?')
	b.WriteString(strings.Join(params, "&"))

	if b.Len() > MaxURLLength {
		return "", fmt.Errorf("%w: %d bytes (max %d); use polyline encoding", ErrURLTooLong, b.Len(), MaxURLLength)
	}
	return b.String(), nil
}

func (o Options) pathValue(vertices []simplify.Vertex) string {
	var b strings.Builder
	b.WriteString("color:" + o.PathColor + "|weight:" + strconv.Itoa(o.PathWeight))

	if o.Encode {
		coords := make([][]float64, len(vertices))
		for i, v := range vertices {
			coords[i] = []float64{v.Lat, v.Lon}
		}
		b.WriteString("|enc:")
		b.Write(polyline.EncodeCoords(coords))
		return b.String()
	}

	for _, v := range vertices {
		b.WriteByte('|')
		b.WriteString(latLon(v))
	}
	return b.String()
}

func latLon(v simplify.Vertex) string {
	return strconv.FormatFloat(v.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(v.Lon, 'f', -1, 64)
}

// escape is query escaping that leaves the separators the map service
// expects literally.
func escape(s string) string {
	r := strings.NewReplacer("%", "%25", "&", "%26", "#", "%23", "+", "%2B", " ", "%20", "?", "%3F", "=", "%3D")
	return r.Replace(s)
}

// Request is one map image download.
type Request struct {
	Frame int
	URL   string
}

// BuildRequests creates one request per frame, centred on the frame's
// current position and drawing the path as it stood at that frame.
func BuildRequests(o Options, fs []frames.Frame) ([]Request, error) {
	reqs := make([]Request, len(fs))
	for i, f := range fs {
		pos := simplify.Vertex{Lat: f.Telemetry.Lat, Lon: f.Telemetry.Lon}
		u, err := o.URL(pos, f.Path)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		reqs[i] = Request{Frame: i, URL: u}
	}
	return reqs, nil
}
