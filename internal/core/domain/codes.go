package domain

import (
	"strconv"
	"strings"
)

// Maneuver classifies the action expected at a waypoint (turnType in the
// routing response).
type Maneuver int

const (
	ManeuverNone Maneuver = 0

	// 1-7 are reserved by the routing service for "no guidance" points.
	ManeuverNoGuidanceFirst Maneuver = 1
	ManeuverNoGuidanceLast  Maneuver = 7

	ManeuverStraight Maneuver = 11
	ManeuverLeft     Maneuver = 12
	ManeuverRight    Maneuver = 13
	ManeuverUTurn    Maneuver = 14

	ManeuverLeft8  Maneuver = 16 // 8 o'clock
	ManeuverLeft10 Maneuver = 17 // 10 o'clock
	ManeuverRight2 Maneuver = 18 // 2 o'clock
	ManeuverRight4 Maneuver = 19 // 4 o'clock

	ManeuverOverpass      Maneuver = 125
	ManeuverUnderpass     Maneuver = 126
	ManeuverStairs        Maneuver = 127
	ManeuverRamp          Maneuver = 128
	ManeuverStairsAndRamp Maneuver = 129

	ManeuverWaypoint       Maneuver = 184
	ManeuverWaypointFirst  Maneuver = 185
	ManeuverWaypointSecond Maneuver = 186
	ManeuverWaypointThird  Maneuver = 187
	ManeuverWaypointFourth Maneuver = 188
	ManeuverWaypointFifth  Maneuver = 189

	ManeuverStart       Maneuver = 200
	ManeuverDestination Maneuver = 201

	ManeuverCrosswalk        Maneuver = 211
	ManeuverCrosswalkLeft    Maneuver = 212
	ManeuverCrosswalkRight   Maneuver = 213
	ManeuverCrosswalk8       Maneuver = 214
	ManeuverCrosswalk10      Maneuver = 215
	ManeuverCrosswalk2       Maneuver = 216
	ManeuverCrosswalk4       Maneuver = 217
	ManeuverElevator         Maneuver = 218
	ManeuverTemporaryForward Maneuver = 233
)

// IsNoGuidance reports whether the code is in the 1-7 "no guidance" band.
func (m Maneuver) IsNoGuidance() bool {
	return m >= ManeuverNoGuidanceFirst && m <= ManeuverNoGuidanceLast
}

// IsCrosswalk reports whether the maneuver crosses a road.
func (m Maneuver) IsCrosswalk() bool {
	return m >= ManeuverCrosswalk && m <= ManeuverCrosswalk4
}

// NeedsAlert reports whether reaching this maneuver should also trigger a
// vibration: direction changes, road crossings and level changes.
func (m Maneuver) NeedsAlert() bool {
	switch m {
	case ManeuverLeft, ManeuverRight, ManeuverUTurn,
		ManeuverLeft8, ManeuverLeft10, ManeuverRight2, ManeuverRight4,
		ManeuverOverpass, ManeuverUnderpass, ManeuverStairs, ManeuverRamp, ManeuverStairsAndRamp,
		ManeuverElevator, ManeuverDestination:
		return true
	default:
		return m.IsCrosswalk()
	}
}

// Facility is the kind of structure a point sits on (facilityType).
type Facility int

const (
	FacilityUnknown   Facility = 0
	FacilityBridge    Facility = 1
	FacilityTunnel    Facility = 2
	FacilityHighway   Facility = 3 // elevated road
	FacilityFootpath  Facility = 11
	FacilityOverpass  Facility = 12
	FacilityUnderpass Facility = 14
	FacilityCrosswalk Facility = 15
	FacilityConcourse Facility = 16 // passage through a large facility
	FacilityStairs    Facility = 17
)

// ParseFacility converts the routing service's textual facility code.
// Anything that is not a number maps to FacilityUnknown.
func ParseFacility(s string) Facility {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return FacilityUnknown
	}
	return Facility(n)
}

// String returns the wire form of the code, empty for FacilityUnknown.
func (f Facility) String() string {
	if f == FacilityUnknown {
		return ""
	}
	return strconv.Itoa(int(f))
}

// RoadType describes the sidewalk layout of a path segment.
type RoadType int

const (
	RoadTypeUnknown       RoadType = 0
	RoadTypeSeparated     RoadType = 21 // sidewalk separated, crossing only at crosswalks
	RoadTypeShared        RoadType = 22 // no separation or unrestricted crossing
	RoadTypePedestrian    RoadType = 23 // no vehicles
	RoadTypeUncomfortable RoadType = 24
)
