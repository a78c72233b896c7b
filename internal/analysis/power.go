package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Concept2 erg constant relating pace to power: watts = 2.80 / (sec/m)^3
const ergPowerConstant = 2.80

// Pace plausibility window in seconds per 500m
const (
	MinPlausiblePace = 50.0
	MaxPlausiblePace = 300.0
)

// WattsFromPace converts a pace in seconds per 500m to watts.
// Callers must guard pace <= 0.
func WattsFromPace(paceSecondsPer500 float64) float64 {
	perMeter := paceSecondsPer500 / 500
	return ergPowerConstant / (perMeter * perMeter * perMeter)
}

// PaceFromWatts converts watts to a pace in seconds per 500m.
// Returns 0 for non-positive watts.
func PaceFromWatts(watts float64) float64 {
	if watts <= 0 {
		return 0
	}
	return 500 * math.Cbrt(ergPowerConstant/watts)
}

// FormatPace formats seconds as M:SS.s (e.g. 105.5 -> "1:45.5")
func FormatPace(seconds float64) string {
	tenths := int(math.Round(seconds * 10))
	if tenths < 0 {
		tenths = 0
	}
	mins := tenths / 600
	rem := float64(tenths%600) / 10
	return fmt.Sprintf("%d:%04.1f", mins, rem)
}

// ParsePaceString parses "M:SS.s" or a bare number of seconds.
// Anything containing characters other than digits, ':' and '.' is rejected.
func ParsePaceString(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	for _, r := range text {
		if (r < '0' || r > '9') && r != ':' && r != '.' {
			return 0, false
		}
	}

	parts := strings.Split(text, ":")
	switch len(parts) {
	case 1:
		secs, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, false
		}
		return secs, true
	case 2:
		if parts[0] == "" || strings.Contains(parts[0], ".") {
			return 0, false
		}
		mins, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, false
		}
		secs, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || secs >= 60 {
			return 0, false
		}
		return float64(mins)*60 + secs, true
	default:
		return 0, false
	}
}

// NormalizeStrokePower resolves the ambiguous per-stroke power field.
// Values above 300 are pace in deciseconds per 500m, anything else is watts.
func NormalizeStrokePower(raw float64) float64 {
	if raw > 300 {
		return WattsFromPace(raw / 10)
	}
	if raw < 0 {
		return 0
	}
	return raw
}

// PaceFromDistanceTime returns seconds per 500m for a distance covered in a duration.
func PaceFromDistanceTime(distance, seconds float64) float64 {
	if distance <= 0 || seconds <= 0 {
		return 0
	}
	return seconds / distance * 500
}
