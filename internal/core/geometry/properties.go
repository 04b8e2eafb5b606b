package geometry

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexInt accepts a JSON number or a numeric string. The routing service is
// not consistent about which one it sends for time and code fields.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Non-numeric codes are treated as absent.
			return nil
		}
		f.set(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	f.set(n)
	return nil
}

// set truncates n toward zero. Values that do not fit an int are treated as
// absent.
func (f *flexInt) set(n float64) {
	if math.IsNaN(n) || n <= math.MinInt || n >= math.MaxInt {
		return
	}
	f.Value, f.Set = int(n), true
}

// flexString accepts a JSON string or a number rendered as text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(string(b))
	return nil
}

// featureProperties is the union of point and path properties.
type featureProperties struct {
	TotalDistance flexInt `json:"totalDistance"`
	TotalTime     flexInt `json:"totalTime"`

	Index       flexInt    `json:"index"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TurnType    flexInt    `json:"turnType"`
	PointType   string     `json:"pointType"`
	Facility    flexString `json:"facilityType"`

	RoadType flexInt `json:"roadType"`
	Distance flexInt `json:"distance"`
	Time     flexInt `json:"time"`
}
