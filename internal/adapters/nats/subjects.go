package natsadapter

// Outbound events are published per session under pathpal.out.<session>.*;
// live samples arrive under pathpal.in.<session>.*.
const (
	outPrefix = "pathpal.out."
	inPrefix  = "pathpal.in."

	kindNarration = "narration"
	kindHeading   = "heading"
	kindRoute     = "route"
	kindPosition  = "position"
)

// SessionEvents is the wildcard subject a client follows to receive every
// outbound event of one session.
func SessionEvents(sessionID string) string {
	return outPrefix + sessionID + ".>"
}

func outSubject(sessionID, kind string) string {
	return outPrefix + sessionID + "." + kind
}

func inSubject(sessionID, kind string) string {
	return inPrefix + sessionID + "." + kind
}
