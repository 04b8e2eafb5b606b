package guidance

import "fmt"

// FormatSummary renders the route totals, e.g. "총 거리: 1.50 km, 소요 시간: 1시간 1분".
func FormatSummary(distanceMeters, timeSeconds int) string {
	return fmt.Sprintf("총 거리: %s, 소요 시간: %s", FormatDistance(distanceMeters), FormatDuration(timeSeconds))
}

// FormatDistance renders whole meters below 1 km and kilometers with two
// decimals from 1 km up.
func FormatDistance(meters int) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.2f km", float64(meters)/1000)
	}
	return fmt.Sprintf("%dm", meters)
}

// FormatDuration renders hours and minutes. Minutes are dropped when an
// hour-long duration has none; seconds are truncated.
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%d시간 %d분", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%d시간", hours)
	default:
		return fmt.Sprintf("%d분", minutes)
	}
}
