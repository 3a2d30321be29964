package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/planbiir/tripframes/internal/clean"
	"github.com/planbiir/tripframes/internal/frames"
	"github.com/planbiir/tripframes/internal/geo"
	"github.com/planbiir/tripframes/internal/overlay"
	"github.com/planbiir/tripframes/internal/staticmap"
	"github.com/planbiir/tripframes/internal/telemetry"
)

// MapsKeyEnv names the environment variable holding the map service key.
const MapsKeyEnv = "TRIPFRAMES_MAPS_KEY"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Default returns the settings of a five minute, one frame per second
// video in US units with both image stages enabled.
func Default() Config {
	mapOpts := staticmap.DefaultOptions()
	view := overlay.DefaultOptions()
	cleaning := clean.DefaultConfig()

	return Config{
		Frames: FramesConfig{
			Count:        300,
			BearingDelta: 2,
		},
		Units: UnitsConfig{
			SpeedFactor:     telemetry.MPHPerFeetPerSecond,
			ElevationFactor: telemetry.FeetPerMeter,
			DistanceDivisor: telemetry.FeetPerMile,
			EarthRadiusFeet: geo.EarthRadiusFeet,
		},
		Map: MapConfig{
			Enabled:     true,
			Protocol:    mapOpts.Protocol,
			Host:        mapOpts.Host,
			Path:        mapOpts.Path,
			Format:      mapOpts.Format,
			Width:       mapOpts.Width,
			Height:      mapOpts.Height,
			Zoom:        mapOpts.Zoom,
			PathColor:   mapOpts.PathColor,
			PathWeight:  mapOpts.PathWeight,
			Center:      mapOpts.Center,
			Marker:      mapOpts.Marker,
			MarkerColor: mapOpts.MarkerColor,
			MarkerSize:  mapOpts.MarkerSize,
		},
		Overlay: OverlayConfig{
			Enabled:        true,
			Width:          view.Width,
			Height:         view.Height,
			Background:     view.Background,
			TextColor:      view.TextColor,
			Alpha:          view.Alpha,
			TimeZone:       view.TimeZone,
			DateFontSize:   view.DateFontSize,
			HeaderFontSize: view.HeaderFontSize,
			ValueFontSize:  view.ValueFontSize,
			DataFontSize:   view.DataFontSize,
			TopMargin:      view.TopMargin,
			TimeSpacing:    view.TimeSpacing,
			HeaderSpacing:  view.HeaderSpacing,
			DataSpacing:    view.DataSpacing,
			DataPadding:    view.DataPadding,
			Labels: LabelsConfig{
				SpeedHeader:    view.SpeedHeader,
				DistanceHeader: view.DistanceHeader,
				Speed:          view.SpeedLabel,
				Distance:       view.DistanceLabel,
				AvgSpeed:       view.AvgSpeedLabel,
				TopSpeed:       view.TopSpeedLabel,
				DistanceStart:  view.DistStartLabel,
				Elevation:      view.ElevationLabel,
				ElevationUnits: view.ElevationUnits,
				ElapsedTime:    view.ElapsedTimeLabel,
			},
		},
		Output: OutputConfig{
			MapDir:   "./",
			MapBase:  "bikemap",
			DataDir:  "./",
			DataBase: "bikedata",
			DataExt:  "png",
			Workers:  4,
		},
		Clean: CleanConfig{
			PauseSpeed:        cleaning.PauseSpeed,
			MaxSpeed:          cleaning.MaxSpeed,
			MaxHairpinDegrees: cleaning.MaxHairpinDegrees,
			TeleportMeters:    cleaning.TeleportMeters,
			MaxRemovedPercent: cleaning.MaxRemovedPercent,
			ElevationWindow:   cleaning.ElevationWindow,
		},
	}
}

// Load reads path over the defaults and validates the result. An empty
// path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ApplyEnv fills the map key from the environment when the file left it empty.
func (c *Config) ApplyEnv() {
	if c.Map.APIKey != "" {
		return
	}
	if key, ok := os.LookupEnv(MapsKeyEnv); ok {
		c.Map.APIKey = key
	}
}

// FramesConfig projects the core options.
func (c Config) FramesConfig() frames.Config {
	return frames.Config{
		FrameCount:            c.Frames.Count,
		BearingDeltaThreshold: c.Frames.BearingDelta,
		Verbose:               c.Frames.Verbose,
		Telemetry: telemetry.Config{
			SpeedConversionFactor:     c.Units.SpeedFactor,
			ElevationConversionFactor: c.Units.ElevationFactor,
			DistanceUnitDivisor:       c.Units.DistanceDivisor,
			Sphere:                    geo.Sphere{RadiusFeet: c.Units.EarthRadiusFeet},
		},
	}
}

// MapOptions projects the static map request options.
func (c Config) MapOptions() staticmap.Options {
	m := c.Map
	return staticmap.Options{
		Protocol:    m.Protocol,
		Host:        m.Host,
		Path:        m.Path,
		APIKey:      m.APIKey,
		Format:      m.Format,
		Width:       m.Width,
		Height:      m.Height,
		Zoom:        m.Zoom,
		PathColor:   m.PathColor,
		PathWeight:  m.PathWeight,
		Encode:      m.Encode,
		Center:      m.Center,
		Marker:      m.Marker,
		MarkerColor: m.MarkerColor,
		MarkerSize:  m.MarkerSize,
	}
}

// MapExt is the file extension for downloaded map images.
func (c Config) MapExt() string {
	switch c.Map.Format {
	case "jpg", "jpeg-baseline":
		return "jpg"
	case "gif":
		return "gif"
	default:
		return "png"
	}
}

// OverlayOptions projects the data view options.
func (c Config) OverlayOptions() overlay.Options {
	o := c.Overlay
	return overlay.Options{
		Width:            o.Width,
		Height:           o.Height,
		Background:       o.Background,
		TextColor:        o.TextColor,
		Alpha:            o.Alpha,
		TimeZone:         o.TimeZone,
		FontPath:         o.FontPath,
		DateFontSize:     o.DateFontSize,
		HeaderFontSize:   o.HeaderFontSize,
		ValueFontSize:    o.ValueFontSize,
		DataFontSize:     o.DataFontSize,
		TopMargin:        o.TopMargin,
		TimeSpacing:      o.TimeSpacing,
		HeaderSpacing:    o.HeaderSpacing,
		DataSpacing:      o.DataSpacing,
		DataPadding:      o.DataPadding,
		SpeedHeader:      o.Labels.SpeedHeader,
		DistanceHeader:   o.Labels.DistanceHeader,
		SpeedLabel:       o.Labels.Speed,
		DistanceLabel:    o.Labels.Distance,
		AvgSpeedLabel:    o.Labels.AvgSpeed,
		TopSpeedLabel:    o.Labels.TopSpeed,
		DistStartLabel:   o.Labels.DistanceStart,
		ElevationLabel:   o.Labels.Elevation,
		ElevationUnits:   o.Labels.ElevationUnits,
		ElapsedTimeLabel: o.Labels.ElapsedTime,
	}
}

// CleanConfig projects the cleaning parameters.
func (c Config) CleanConfig() clean.Config {
	cfg := clean.DefaultConfig()
	cfg.PauseSpeed = c.Clean.PauseSpeed
	cfg.MaxSpeed = c.Clean.MaxSpeed
	cfg.MaxHairpinDegrees = c.Clean.MaxHairpinDegrees
	cfg.TeleportMeters = c.Clean.TeleportMeters
	cfg.MaxRemovedPercent = c.Clean.MaxRemovedPercent
	cfg.ElevationWindow = c.Clean.ElevationWindow
	cfg.Sphere = geo.Sphere{RadiusFeet: c.Units.EarthRadiusFeet}
	return cfg
}
