// Command tripframes turns a GPX track into a fixed number of video frames:
// one static map image and one data view image per frame.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/planbiir/tripframes/internal/chart"
	"github.com/planbiir/tripframes/internal/clean"
	"github.com/planbiir/tripframes/internal/config"
	"github.com/planbiir/tripframes/internal/frames"
	"github.com/planbiir/tripframes/internal/gpx"
	"github.com/planbiir/tripframes/internal/monitoring"
	"github.com/planbiir/tripframes/internal/output"
	"github.com/planbiir/tripframes/internal/overlay"
	"github.com/planbiir/tripframes/internal/staticmap"
	"github.com/planbiir/tripframes/internal/telemetry"
	"github.com/planbiir/tripframes/internal/track"
)

const version = "tripframes v0.3.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	input          string
	configPath     string
	envFile        string
	frameCount     int
	bearingDelta   float64
	mapDir         string
	dataDir        string
	mapFormat      string
	mapBase        string
	dataBase       string
	noMaps         bool
	noData         bool
	textColor      string
	background     string
	verbose        bool
	verboseData    bool
	encode         bool
	clean          bool
	workers        int
	chartPath      string
	statsJSON      bool
	dryRun         bool
	allowUnordered bool
	version        bool
}

// report is the -stats-json document.
type report struct {
	RunID    string            `json:"run_id"`
	Input    string            `json:"input"`
	Points   int               `json:"points"`
	Interval float64           `json:"interval"`
	Summary  telemetry.Summary `json:"summary"`
	Clean    *clean.Stats      `json:"clean,omitempty"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tripframes", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.input, "i", "", "Input GPX file")
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&o.envFile, "env", ".env", "Dotenv file read for "+config.MapsKeyEnv+" (missing file is ignored)")
	fs.IntVar(&o.frameCount, "d", 300, "Number of frames (seconds of video)")
	fs.Float64Var(&o.bearingDelta, "bd", 2, "Bearing change in degrees that starts a new path segment")
	fs.StringVar(&o.mapDir, "mo", "./", "Map image output directory")
	fs.StringVar(&o.dataDir, "do", "./", "Data view output directory")
	fs.StringVar(&o.mapFormat, "t", "png", "Map image format: jpg, jpeg-baseline, png, png8, png32, gif")
	fs.StringVar(&o.mapBase, "op", "bikemap", "Map image file base name")
	fs.StringVar(&o.dataBase, "dop", "bikedata", "Data view file base name")
	fs.BoolVar(&o.noMaps, "ni", false, "Do not download map images")
	fs.BoolVar(&o.noData, "ndi", false, "Do not render data view images")
	fs.StringVar(&o.textColor, "tc", "#16f056", "Data view text color")
	fs.StringVar(&o.background, "bc", "#282c34", "Data view background color")
	fs.BoolVar(&o.verbose, "v", false, "Log a trace line per frame")
	fs.BoolVar(&o.verboseData, "vd", false, "Log each frame's telemetry record")
	fs.BoolVar(&o.encode, "encode", false, "Send map paths as encoded polylines")
	fs.BoolVar(&o.clean, "clean", false, "Remove GPS spikes and smooth elevation before framing")
	fs.IntVar(&o.workers, "workers", 4, "Concurrent downloads and renders")
	fs.StringVar(&o.chartPath, "chart", "", "Write an elevation and speed profile to this file")
	fs.BoolVar(&o.statsJSON, "stats-json", false, "Print the trip summary as JSON")
	fs.BoolVar(&o.dryRun, "dry-run", false, "Compute frames and statistics without writing images")
	fs.BoolVar(&o.allowUnordered, "allow-unordered", false, "Accept tracks whose timestamps go backwards")
	fs.BoolVar(&o.version, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "tripframes - Turn a GPX track into map and data view frames\n\n")
		fmt.Fprintf(stderr, "usage: tripframes -i /path/to/file.gpx [-d frames]\n\n")
		fmt.Fprintf(stderr, "examples:\n")
		fmt.Fprintf(stderr, "  tripframes -i ride.gpx\n")
		fmt.Fprintf(stderr, "  tripframes -i ride.gpx -d 360 -mo maps/ -do data/\n")
		fmt.Fprintf(stderr, "  tripframes -i ride.gpx -ni -ndi -stats-json\n\n")
		fmt.Fprintf(stderr, "options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if o.version {
		fmt.Fprintln(stdout, version)
		return 0
	}
	if o.input == "" {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	applyFlags(fs, o, &cfg)
	if o.envFile != "" {
		_ = godotenv.Load(o.envFile)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error in options: %v\n", err)
		return 2
	}

	runID := uuid.New().String()
	logger := log.New(stderr, "", log.LstdFlags|log.Lmicroseconds)
	monitoring.SetLogger(func(format string, v ...interface{}) {
		logger.Printf("["+runID[:8]+"] "+format, v...)
	})

	if err := execute(ctx, o, cfg, runID, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(fs *flag.FlagSet, o options, cfg *config.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "d":
			cfg.Frames.Count = o.frameCount
		case "bd":
			cfg.Frames.BearingDelta = o.bearingDelta
		case "mo":
			cfg.Output.MapDir = o.mapDir
		case "do":
			cfg.Output.DataDir = o.dataDir
		case "t":
			cfg.Map.Format = o.mapFormat
		case "op":
			cfg.Output.MapBase = o.mapBase
		case "dop":
			cfg.Output.DataBase = o.dataBase
		case "ni":
			cfg.Map.Enabled = !o.noMaps
		case "ndi":
			cfg.Overlay.Enabled = !o.noData
		case "tc":
			cfg.Overlay.TextColor = o.textColor
		case "bc":
			cfg.Overlay.Background = o.background
		case "v":
			cfg.Frames.Verbose = o.verbose
		case "encode":
			cfg.Map.Encode = o.encode
		case "clean":
			cfg.Clean.Enabled = o.clean
		case "workers":
			cfg.Output.Workers = o.workers
		}
	})
}

func execute(ctx context.Context, o options, cfg config.Config, runID string, stdout, stderr io.Writer) error {
	fmt.Fprintf(stdout, "📖 Reading GPX file: %s\n", o.input)
	doc, err := gpx.Parse(o.input)
	if err != nil {
		return fmt.Errorf("reading GPX file: %w", err)
	}
	pointCount, trackCount, segmentCount, _, feet := doc.Stats()
	fmt.Fprintf(stdout, "📊 File: %d points across %d tracks, %d segments, %.2f miles\n",
		pointCount, trackCount, segmentCount, feet/telemetry.FeetPerMile)

	points, err := doc.Trackpoints()
	if err != nil {
		return err
	}
	if extra := doc.Extra(); extra > 0 {
		fmt.Fprintf(stdout, "⚠️  Ignoring %d extra track segment(s); only the first is used\n", extra)
	}

	if err := track.CheckOrder(points); err != nil {
		if !o.allowUnordered {
			return fmt.Errorf("%w (use -allow-unordered to process anyway)", err)
		}
		fmt.Fprintf(stdout, "⚠️  %v\n", err)
	}
	fmt.Fprintf(stdout, "📊 Track: %d points over %v\n", len(points), track.Duration(points))
	if n := track.Untimed(points); n > 0 {
		fmt.Fprintf(stdout, "⚠️  %d point(s) have no timestamp; frames touching them show speed 0\n", n)
	}

	var cleanStats *clean.Stats
	if cfg.Clean.Enabled {
		res := clean.Clean(points, cfg.CleanConfig())
		points = res.Points
		cleanStats = &res.Stats
		fmt.Fprintf(stdout, "🧹 Cleaned (%s): %d → %d points\n",
			res.Stats.ActivityType, res.Stats.OriginalPoints, res.Stats.FinalPoints)
	}

	result, err := frames.Run(ctx, points, cfg.FramesConfig())
	if err != nil {
		return err
	}
	tel := result.Telemetry()
	summary := telemetry.Summarize(tel)
	fmt.Fprintf(stdout, "🎞️  %d frames, one every %.2f points\n", len(result.Frames), result.Interval)

	if o.verboseData {
		for _, f := range tel {
			data, err := json.Marshal(f)
			if err != nil {
				return fmt.Errorf("marshaling frame %d: %w", f.Number, err)
			}
			monitoring.Logf("%s", data)
		}
	}

	if o.statsJSON {
		rep := report{
			RunID:    runID,
			Input:    o.input,
			Points:   result.Points,
			Interval: result.Interval,
			Summary:  summary,
			Clean:    cleanStats,
		}
		jsonData, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling stats: %w", err)
		}
		fmt.Fprintln(stdout, string(jsonData))
	} else {
		printSummary(stdout, summary)
	}

	if o.chartPath != "" {
		if err := chart.SaveProfile(tel, o.chartPath); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "📈 Profile chart: %s\n", o.chartPath)
	}

	if o.dryRun {
		fmt.Fprintf(stdout, "🔍 Dry run completed - no images written\n")
		return nil
	}

	if cfg.Map.Enabled {
		if err := fetchMaps(ctx, cfg, result.Frames, stderr); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "🗺️  Map images written to %s\n", cfg.Output.MapDir)
	}

	if cfg.Overlay.Enabled {
		renderer, err := overlay.NewRenderer(cfg.OverlayOptions())
		if err != nil {
			return err
		}
		sink := output.DirSink{Dir: cfg.Output.DataDir, Base: cfg.Output.DataBase, Ext: cfg.Output.DataExt}
		if err := renderer.RenderAll(ctx, tel, sink, cfg.Output.Workers, stderr); err != nil {
			return fmt.Errorf("rendering data views: %w", err)
		}
		fmt.Fprintf(stdout, "🖼️  Data views written to %s\n", cfg.Output.DataDir)
	}

	fmt.Fprintf(stdout, "✅ Done\n")
	return nil
}

var errNoMapsKey = errors.New("map API key missing: set " + config.MapsKeyEnv + ", map.api_key, or use -ni")

func fetchMaps(ctx context.Context, cfg config.Config, fs []frames.Frame, progress io.Writer) error {
	if cfg.Map.APIKey == "" {
		return errNoMapsKey
	}
	reqs, err := staticmap.BuildRequests(cfg.MapOptions(), fs)
	if err != nil {
		return err
	}
	if cfg.Frames.Verbose {
		for _, r := range reqs {
			monitoring.Logf("%d: %s", r.Frame, r.URL)
		}
	}

	fetcher := staticmap.NewFetcher(cfg.Output.Workers)
	fetcher.Progress = progress
	sink := output.DirSink{Dir: cfg.Output.MapDir, Base: cfg.Output.MapBase, Ext: cfg.MapExt()}
	if err := fetcher.FetchAll(ctx, reqs, sink); err != nil {
		return fmt.Errorf("downloading maps: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, s telemetry.Summary) {
	fmt.Fprintf(w, "\n📊 Trip Summary:\n")
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(w, "📏 Distance: %.2f miles (farthest %.2f from start)\n", s.TotalMiles, s.FarthestFromStartMiles)
	fmt.Fprintf(w, "⚡ Speed: max %.1f mph, mean %.1f mph (σ %.1f)\n", s.MaxSpeedMph, s.MeanSpeedMph, s.StdDevSpeedMph)
	fmt.Fprintf(w, "⛰️  Elevation: %.0f → %.0f ft, %.0f ft gained\n", s.MinElevationFeet, s.MaxElevationFeet, s.ElevationGainFeet)
	fmt.Fprintf(w, "⏱️  Duration: %v\n", s.Duration)
	if s.DegenerateFrames > 0 {
		fmt.Fprintf(w, "⚠️  %d frame(s) had no time delta; speed shown as 0\n", s.DegenerateFrames)
	}
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}
