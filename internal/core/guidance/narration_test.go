package guidance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pathpal/pathpal/internal/core/domain"
)

func TestNarrate(t *testing.T) {
	w := domain.Waypoint{
		Description:        "횡단보도 후 세종대로 을 따라 120m 이동",
		Maneuver:           domain.ManeuverCrosswalk,
		Facility:           domain.FacilityCrosswalk,
		RoadType:           domain.RoadTypePedestrian,
		SegmentTimeSeconds: 86,
	}

	got := Narrate(w)

	assert.Equal(t,
		"횡단보도 건너기, 횡단보도를 건넌 후 세종대로를 따라 120m 이동 횡단보도 횡단보도 차량 통행이 불가능한 보행자도로 86초입니다.",
		got)
}

func TestNarrate_SkipsEmptyParts(t *testing.T) {
	w := domain.Waypoint{Description: "공원 입구", Maneuver: domain.Maneuver(999)}
	assert.Equal(t, "공원 입구입니다.", Narrate(w))
}

func TestArrivalText(t *testing.T) {
	assert.NotEmpty(t, ArrivalText())
}
