package geo

// Compass maps a bearing in degrees to one of the eight compass points.
// Cardinal directions get a 40 degree sector, intercardinals 50.
func Compass(bearing float64) string {
	switch {
	case bearing > 340 || (bearing >= 0 && bearing <= 20):
		return "N"
	case bearing <= 70:
		return "NE"
	case bearing <= 110:
		return "E"
	case bearing <= 160:
		return "SE"
	case bearing <= 200:
		return "S"
	case bearing <= 250:
		return "SW"
	case bearing <= 290:
		return "W"
	default:
		return "NW"
	}
}
