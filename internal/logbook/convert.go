package logbook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"erg-profile/internal/analysis"
)

const logbookTimeLayout = "2006-01-02 15:04:05"

// machineTypes are values of Result.Type that name equipment. Older results
// sometimes carry the workout type in Result.Type instead.
var machineTypes = map[string]bool{
	"rower":     true,
	"skierg":    true,
	"bike":      true,
	"dynamic":   true,
	"slides":    true,
	"paddle":    true,
	"water":     true,
	"snow":      true,
	"rollerski": true,
	"multierg":  true,
}

// WorkoutID is the stored identifier for a Logbook result
func WorkoutID(resultID int64) string {
	return fmt.Sprintf("logbook-%d", resultID)
}

// ParseWorkoutID recovers the Logbook result ID from a stored identifier
func ParseWorkoutID(id string) (int64, bool) {
	rest, ok := strings.CutPrefix(id, "logbook-")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsRowerResult reports whether the result was rowed, allowing for older
// results that put the workout type in Type and the machine in WorkoutType
func IsRowerResult(r Result) bool {
	if strings.EqualFold(r.Type, MachineRower) {
		return true
	}
	return !IsMachine(r.Type) && strings.EqualFold(r.WorkoutType, MachineRower)
}

// IsMachine reports whether s names a Concept2 machine
func IsMachine(s string) bool {
	return machineTypes[strings.ToLower(strings.TrimSpace(s))]
}

// KindHint picks the workout description used for interval detection
func KindHint(r Result) string {
	if hint := strings.TrimSpace(r.WorkoutType); hint != "" && !IsMachine(hint) {
		return hint
	}
	if hint := strings.TrimSpace(r.Type); hint != "" && !IsMachine(hint) {
		return hint
	}
	return ""
}

// CompletedAt resolves when the result was rowed, preferring the UTC stamp
func CompletedAt(r Result) time.Time {
	if t, err := time.Parse(logbookTimeLayout, r.DateUTC); err == nil {
		return t
	}
	loc := time.UTC
	if r.Timezone != "" {
		if l, err := time.LoadLocation(r.Timezone); err == nil {
			loc = l
		}
	}
	if t, err := time.ParseInLocation(logbookTimeLayout, r.Date, loc); err == nil {
		return t
	}
	return time.Time{}
}

// Segments expands intervals into work segments each followed by its rest
func Segments(r Result) []analysis.IntervalSegment {
	if r.Workout == nil || len(r.Workout.Intervals) == 0 {
		return nil
	}

	var segments []analysis.IntervalSegment
	for _, iv := range r.Workout.Intervals {
		kind := analysis.SegmentDistance
		if iv.Type == "time" {
			kind = analysis.SegmentTime
		}
		segments = append(segments, analysis.IntervalSegment{
			Kind:               kind,
			Distance:           float64(iv.Distance),
			ElapsedDeciseconds: iv.Time,
			StrokeRate:         iv.StrokeRate,
		})
		if iv.RestTime > 0 || iv.RestDist > 0 {
			segments = append(segments, analysis.IntervalSegment{
				Kind:               analysis.SegmentRest,
				Distance:           float64(iv.RestDist),
				ElapsedDeciseconds: iv.RestTime,
			})
		}
	}
	return segments
}

// StrokeSamples converts raw strokes to seconds, meters and watts
func StrokeSamples(strokes []Stroke) []analysis.StrokeSample {
	if len(strokes) == 0 {
		return nil
	}
	samples := make([]analysis.StrokeSample, len(strokes))
	for i, s := range strokes {
		samples[i] = analysis.StrokeSample{
			TimeSeconds: float64(s.T) / 10,
			Distance:    float64(s.D) / 10,
			Watts:       analysis.NormalizeStrokePower(s.P),
			StrokeRate:  s.SPM,
		}
	}
	return samples
}

// ToWorkoutRecord adapts a Logbook result and its strokes for analysis
func ToWorkoutRecord(r Result, strokes []Stroke) analysis.WorkoutRecord {
	return analysis.WorkoutRecord{
		ID:              WorkoutID(r.ID),
		Distance:        float64(r.Distance),
		DurationSeconds: float64(r.Time) / 10,
		CompletedAt:     CompletedAt(r),
		KindHint:        KindHint(r),
		Segments:        Segments(r),
		Strokes:         StrokeSamples(strokes),
	}
}
