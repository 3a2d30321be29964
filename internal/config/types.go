package config

// FramesConfig controls the frame sequence.
type FramesConfig struct {
	Count        int     `yaml:"count" validate:"gt=0"`
	BearingDelta float64 `yaml:"bearing_delta" validate:"gte=0"`
	Verbose      bool    `yaml:"verbose"`
}

// UnitsConfig holds the unit conventions.
type UnitsConfig struct {
	SpeedFactor     float64 `yaml:"speed_factor" validate:"gt=0"`
	ElevationFactor float64 `yaml:"elevation_factor" validate:"gt=0"`
	DistanceDivisor float64 `yaml:"distance_divisor" validate:"gt=0"`
	EarthRadiusFeet float64 `yaml:"earth_radius_feet" validate:"gt=0"`
}

// MapConfig describes the static map requests.
type MapConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Protocol    string `yaml:"protocol" validate:"oneof=http https"`
	Host        string `yaml:"host" validate:"required"`
	Path        string `yaml:"path" validate:"required,startswith=/"`
	APIKey      string `yaml:"api_key"`
	Format      string `yaml:"format" validate:"oneof=jpg jpeg-baseline png png8 png32 gif"`
	Width       int    `yaml:"width" validate:"gt=0,lte=2048"`
	Height      int    `yaml:"height" validate:"gt=0,lte=2048"`
	Zoom        int    `yaml:"zoom" validate:"gte=0,lte=21"`
	PathColor   string `yaml:"path_color" validate:"required"`
	PathWeight  int    `yaml:"path_weight" validate:"gt=0"`
	Encode      bool   `yaml:"encode"`
	Center      bool   `yaml:"center"`
	Marker      bool   `yaml:"marker"`
	MarkerColor string `yaml:"marker_color"`
	MarkerSize  string `yaml:"marker_size" validate:"omitempty,oneof=tiny mid small"`
}

// LabelsConfig holds the data view text.
type LabelsConfig struct {
	SpeedHeader    string `yaml:"speed_header"`
	DistanceHeader string `yaml:"distance_header"`
	Speed          string `yaml:"speed"`
	Distance       string `yaml:"distance"`
	AvgSpeed       string `yaml:"avg_speed"`
	TopSpeed       string `yaml:"top_speed"`
	DistanceStart  string `yaml:"distance_to_start"`
	Elevation      string `yaml:"elevation"`
	ElevationUnits string `yaml:"elevation_units"`
	ElapsedTime    string `yaml:"elapsed_time"`
}

// OverlayConfig describes the data view images.
type OverlayConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Width      int     `yaml:"width" validate:"gt=0"`
	Height     int     `yaml:"height" validate:"gt=0"`
	Background string  `yaml:"background" validate:"hexcolor"`
	TextColor  string  `yaml:"text_color" validate:"hexcolor"`
	Alpha      float64 `yaml:"alpha" validate:"gte=0,lte=1"`
	TimeZone   string  `yaml:"timezone" validate:"required,timezone"`
	FontPath   string  `yaml:"font_path" validate:"omitempty,file"`

	DateFontSize   float64 `yaml:"date_font_size" validate:"gt=0"`
	HeaderFontSize float64 `yaml:"header_font_size" validate:"gt=0"`
	ValueFontSize  float64 `yaml:"value_font_size" validate:"gt=0"`
	DataFontSize   float64 `yaml:"data_font_size" validate:"gt=0"`

	TopMargin     float64 `yaml:"top_margin" validate:"gte=0"`
	TimeSpacing   float64 `yaml:"time_spacing" validate:"gte=0"`
	HeaderSpacing float64 `yaml:"header_spacing" validate:"gte=0"`
	DataSpacing   float64 `yaml:"data_spacing" validate:"gte=0"`
	DataPadding   float64 `yaml:"data_padding" validate:"gte=0"`

	Labels LabelsConfig `yaml:"labels"`
}

// OutputConfig controls where images go.
type OutputConfig struct {
	MapDir   string `yaml:"map_dir" validate:"required"`
	MapBase  string `yaml:"map_base" validate:"required"`
	DataDir  string `yaml:"data_dir" validate:"required"`
	DataBase string `yaml:"data_base" validate:"required"`
	DataExt  string `yaml:"data_ext" validate:"oneof=png"`
	Workers  int    `yaml:"workers" validate:"gt=0,lte=64"`
}

// CleanConfig controls optional track cleaning.
type CleanConfig struct {
	Enabled           bool    `yaml:"enabled"`
	PauseSpeed        float64 `yaml:"pause_speed" validate:"gte=0"`
	MaxSpeed          float64 `yaml:"max_speed" validate:"gte=0"`
	MaxHairpinDegrees float64 `yaml:"max_hairpin_degrees" validate:"gt=0,lte=180"`
	TeleportMeters    float64 `yaml:"teleport_meters" validate:"gt=0"`
	MaxRemovedPercent float64 `yaml:"max_removed_percent" validate:"gte=0,lte=100"`
	ElevationWindow   int     `yaml:"elevation_window" validate:"gte=1"`
}

// Config is the root configuration.
type Config struct {
	Frames  FramesConfig  `yaml:"frames"`
	Units   UnitsConfig   `yaml:"units"`
	Map     MapConfig     `yaml:"map"`
	Overlay OverlayConfig `yaml:"overlay"`
	Output  OutputConfig  `yaml:"output"`
	Clean   CleanConfig   `yaml:"clean"`
}
