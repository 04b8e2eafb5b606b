// Package guidance turns maneuver codes and route metadata into the Korean
// text that is displayed and spoken to the user.
package guidance

import (
	"strings"

	"github.com/pathpal/pathpal/internal/core/domain"
)

const (
	destinationReached = "목적지 도착"
	movementKeyword    = "이동"
	genericStraight    = "출발지에서 직진 "
)

var corrections = strings.NewReplacer(
	"로 을", "로를",
	"횡단보도 후", "횡단보도를 건넌 후",
)

// FormatInstruction corrects the service's description text and prefixes it
// according to the maneuver. The destination maneuver ignores the
// description. Unknown maneuvers fall back to a generic "straight" phrase when
// the description mentions movement, and to the corrected text otherwise.
func FormatInstruction(description string, m domain.Maneuver) string {
	if m == domain.ManeuverDestination {
		return destinationReached
	}

	text := corrections.Replace(description)
	if prefix, ok := instructionPrefix(m); ok {
		return prefix + " " + text
	}
	if strings.Contains(description, movementKeyword) {
		return genericStraight + text
	}
	return text
}

func instructionPrefix(m domain.Maneuver) (string, bool) {
	switch m {
	case domain.ManeuverStraight, domain.ManeuverTemporaryForward:
		return "직진,", true
	case domain.ManeuverLeft:
		return "좌회전,", true
	case domain.ManeuverRight:
		return "우회전,", true
	case domain.ManeuverUTurn:
		return "유턴,", true
	case domain.ManeuverLeft8:
		return "8시 방향으로 좌회전,", true
	case domain.ManeuverLeft10:
		return "10시 방향으로 좌회전,", true
	case domain.ManeuverRight2:
		return "2시 방향으로 우회전,", true
	case domain.ManeuverRight4:
		return "4시 방향으로 우회전,", true
	case domain.ManeuverOverpass:
		return "육교 건너기,", true
	case domain.ManeuverUnderpass:
		return "지하보도를 건너기,", true
	case domain.ManeuverStairs:
		return "계단 진입,", true
	case domain.ManeuverRamp:
		return "경사로 진입,", true
	case domain.ManeuverStairsAndRamp:
		return "계단과 경사로 진입,", true
	case domain.ManeuverWaypoint, domain.ManeuverWaypointFirst, domain.ManeuverWaypointSecond,
		domain.ManeuverWaypointThird, domain.ManeuverWaypointFourth, domain.ManeuverWaypointFifth:
		return "경유지,", true
	case domain.ManeuverStart:
		return "출발지에서 직진,", true
	case domain.ManeuverCrosswalk:
		return "횡단보도 건너기,", true
	case domain.ManeuverCrosswalkLeft:
		return "좌측 횡단보도 건너기,", true
	case domain.ManeuverCrosswalkRight:
		return "우측 횡단보도 건너기,", true
	case domain.ManeuverCrosswalk8:
		return "8시 방향 횡단보도 건너기,", true
	case domain.ManeuverCrosswalk10:
		return "10시 방향 횡단보도 건너기,", true
	case domain.ManeuverCrosswalk2:
		return "2시 방향 횡단보도 건너기,", true
	case domain.ManeuverCrosswalk4:
		return "4시 방향 횡단보도 건너기,", true
	case domain.ManeuverElevator:
		return "엘리베이터 이용,", true
	default:
		return "", false
	}
}

// DirectionDescription returns the short label used in live narration.
// Codes 1-7 all mean "no guidance". Unknown codes yield "".
func DirectionDescription(m domain.Maneuver) string {
	if m.IsNoGuidance() {
		return "안내 없음"
	}
	switch m {
	case domain.ManeuverStraight:
		return "직진"
	case domain.ManeuverLeft:
		return "좌회전"
	case domain.ManeuverRight:
		return "우회전"
	case domain.ManeuverUTurn:
		return "유턴"
	case domain.ManeuverLeft8:
		return "8시 방향 좌회전"
	case domain.ManeuverLeft10:
		return "10시 방향 좌회전"
	case domain.ManeuverRight2:
		return "2시 방향 우회전"
	case domain.ManeuverRight4:
		return "4시 방향 우회전"
	case domain.ManeuverOverpass:
		return "육교"
	case domain.ManeuverUnderpass:
		return "지하보도"
	case domain.ManeuverStairs:
		return "계단 진입"
	case domain.ManeuverRamp:
		return "경사로 진입"
	case domain.ManeuverStairsAndRamp:
		return "계단+경사로 진입"
	case domain.ManeuverWaypoint:
		return "경유지"
	case domain.ManeuverWaypointFirst:
		return "첫 번째 경유지"
	case domain.ManeuverWaypointSecond:
		return "두 번째 경유지"
	case domain.ManeuverWaypointThird:
		return "세 번째 경유지"
	case domain.ManeuverWaypointFourth:
		return "네 번째 경유지"
	case domain.ManeuverWaypointFifth:
		return "다섯 번째 경유지"
	case domain.ManeuverStart:
		return "출발지"
	case domain.ManeuverDestination:
		return "목적지"
	case domain.ManeuverCrosswalk:
		return "횡단보도"
	case domain.ManeuverCrosswalkLeft:
		return "좌측 횡단보도"
	case domain.ManeuverCrosswalkRight:
		return "우측 횡단보도"
	case domain.ManeuverCrosswalk8:
		return "8시 방향 횡단보도"
	case domain.ManeuverCrosswalk10:
		return "10시 방향 횡단보도"
	case domain.ManeuverCrosswalk2:
		return "2시 방향 횡단보도"
	case domain.ManeuverCrosswalk4:
		return "4시 방향 횡단보도"
	case domain.ManeuverElevator:
		return "엘리베이터"
	case domain.ManeuverTemporaryForward:
		return "임시 직진"
	default:
		return ""
	}
}

// FacilityDescription labels the structure a point sits on.
func FacilityDescription(f domain.Facility) string {
	switch f {
	case domain.FacilityBridge:
		return "교량"
	case domain.FacilityTunnel:
		return "터널"
	case domain.FacilityHighway:
		return "고가도로"
	case domain.FacilityFootpath:
		return "일반보행자도로"
	case domain.FacilityOverpass:
		return "육교"
	case domain.FacilityUnderpass:
		return "지하보도"
	case domain.FacilityCrosswalk:
		return "횡단보도"
	case domain.FacilityConcourse:
		return "대형시설물이동통로"
	case domain.FacilityStairs:
		return "계단"
	default:
		return ""
	}
}

// RoadTypeDescription describes sidewalk and crossing restrictions of a
// segment.
func RoadTypeDescription(r domain.RoadType) string {
	switch r {
	case domain.RoadTypeSeparated:
		return "차도와 인도가 분리되어 있으며, 정해진 횡단구역으로만 횡단 가능한 보행자 도로"
	case domain.RoadTypeShared:
		return "차도와 인도가 분리되어 있지 않거나, 보행자 횡단에 제약이 없는 보행자 도로"
	case domain.RoadTypePedestrian:
		return "차량 통행이 불가능한 보행자도로"
	case domain.RoadTypeUncomfortable:
		return "쾌적하지 않은 도로"
	default:
		return ""
	}
}

// InstructionList formats every described point feature of the route, in
// order, for the full-route listing.
func InstructionList(route *domain.Route) []string {
	if route == nil {
		return nil
	}
	out := make([]string, 0, len(route.Features)/2+1)
	for _, f := range route.Features {
		if f.Kind != domain.FeaturePoint || f.Point == nil || f.Point.Description == "" {
			continue
		}
		out = append(out, FormatInstruction(f.Point.Description, f.Point.Maneuver))
	}
	return out
}
