package guidance

import (
	"strconv"
	"strings"

	"github.com/pathpal/pathpal/internal/core/domain"
)

const arrivalText = "목적지에 도착했습니다. 안내를 종료합니다."

// Narrate builds the spoken text for reaching a waypoint: instruction,
// facility, direction and road type, then the segment time.
func Narrate(w domain.Waypoint) string {
	parts := []string{
		FormatInstruction(w.Description, w.Maneuver),
		FacilityDescription(w.Facility),
		DirectionDescription(w.Maneuver),
		RoadTypeDescription(w.RoadType),
	}
	if w.SegmentTimeSeconds > 0 {
		parts = append(parts, strconv.Itoa(w.SegmentTimeSeconds)+"초")
	}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ") + "입니다."
}

// ArrivalText is spoken once when the user reaches the destination.
func ArrivalText() string {
	return arrivalText
}
