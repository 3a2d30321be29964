package clean

import (
	"time"

	"github.com/planbiir/tripframes/internal/geo"
	"github.com/planbiir/tripframes/internal/track"
)

// Config holds cleaning algorithm parameters
type Config struct {
	// Speed thresholds
	MinSpeed float64 // m/s - minimum valid speed
	MaxSpeed float64 // m/s - maximum valid speed (auto-detected if 0)

	// Pause rescue
	PauseSpeed float64 // m/s - slower points skip the turn checks

	// Geometric filters
	MaxHairpinDegrees float64 // degrees - allow sharp switchbacks
	TeleportMeters    float64 // meters - jump guard for missing timestamps

	// Safety limit
	MaxRemovedPercent float64 // never remove >X% of points

	// Elevation smoothing
	ElevationWindow int // median filter window size

	// Sphere measures point distances; the zero value is the mean earth.
	Sphere geo.Sphere
}

// DefaultConfig returns production-tested configuration
func DefaultConfig() Config {
	return Config{
		MinSpeed:          0.0,   // stops are part of a ride video
		MaxSpeed:          0,     // auto-detect based on activity type
		PauseSpeed:        0.7,   // slightly higher for robustness
		MaxHairpinDegrees: 160.0, // allow sharp switchbacks
		TeleportMeters:    120.0,
		MaxRemovedPercent: 20.0, // safety: never remove >20% of points
		ElevationWindow:   7,    // median filter window
	}
}

// Stats represents cleaning results
type Stats struct {
	OriginalPoints   int           `json:"original_points"`
	FinalPoints      int           `json:"final_points"`
	PointsRemoved    int           `json:"points_removed"`
	PointsPercent    float64       `json:"points_removed_percent"`
	SafetyOverride   bool          `json:"safety_override"`
	ActivityType     string        `json:"activity_type"`
	DetectedMaxSpeed float64       `json:"detected_max_speed_ms"`
	P95Speed         float64       `json:"p95_speed_ms"`
	ProcessingTime   time.Duration `json:"processing_time_ns"`
}

// Result contains the filtered points and statistics
type Result struct {
	Points []track.Trackpoint
	Stats  Stats
}
