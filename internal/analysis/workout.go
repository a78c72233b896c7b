package analysis

import "time"

// Segment kinds as reported by the erg monitor
const (
	SegmentDistance = "distance"
	SegmentTime     = "time"
	SegmentRest     = "rest"
)

// WorkoutRecord is one completed erg session, already normalized at ingestion
type WorkoutRecord struct {
	ID              string
	Distance        float64 // meters
	DurationSeconds float64
	CompletedAt     time.Time
	KindHint        string // e.g. "2x1000m/3:00r", "FixedDistanceInterval", "JustRow"
	Segments        []IntervalSegment
	Strokes         []StrokeSample
}

// IntervalSegment is one piece of a multi-interval session
type IntervalSegment struct {
	Kind               string
	Distance           float64 // meters
	ElapsedDeciseconds int
	StrokeRate         int
}

// Seconds returns the segment's elapsed time in seconds
func (s IntervalSegment) Seconds() float64 {
	return float64(s.ElapsedDeciseconds) / 10
}

// StrokeSample is a single stroke with unambiguous watts
type StrokeSample struct {
	TimeSeconds float64 // cumulative
	Distance    float64 // cumulative meters
	Watts       float64
	StrokeRate  int
}

// Provenance records how a best-effort point was derived. Besides the four
// base sources (whole workout, interval split, time test, manual entry) a
// max_watts point may come from the strongest stroke in stroke data.
type Provenance string

const (
	ProvenanceWholeWorkout  Provenance = "whole_workout"
	ProvenanceIntervalSplit Provenance = "interval_split"
	ProvenanceTimeTest      Provenance = "time_test"
	ProvenanceManual        Provenance = "manual"
	ProvenanceStrokePeak    Provenance = "stroke_peak" // highest single stroke, max_watts only
)

// PowerCurvePoint is a single best-effort observation
type PowerCurvePoint struct {
	Distance          float64
	Watts             float64
	PaceSecondsPer500 float64
	SourceWorkoutID   string
	Date              time.Time
	Provenance        Provenance
	Label             string
	AnchorKey         *AnchorKey // nil for non-standard distances
}

// Anchor returns the point's anchor key and whether it has one
func (p PowerCurvePoint) Anchor() (AnchorKey, bool) {
	if p.AnchorKey == nil {
		return "", false
	}
	return *p.AnchorKey, true
}
