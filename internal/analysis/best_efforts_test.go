package analysis

import (
	"math"
	"testing"
	"time"
)

var testDate = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func continuous(id string, distance, seconds float64) WorkoutRecord {
	return WorkoutRecord{
		ID:              id,
		Distance:        distance,
		DurationSeconds: seconds,
		CompletedAt:     testDate,
		KindHint:        "FixedDistanceSplits",
	}
}

func findAnchor(points []PowerCurvePoint, key AnchorKey) *PowerCurvePoint {
	for i := range points {
		if k, ok := points[i].Anchor(); ok && k == key {
			return &points[i]
		}
	}
	return nil
}

func TestExtractBestEfforts_SingleContinuous2k(t *testing.T) {
	points := ExtractBestEfforts([]WorkoutRecord{continuous("w1", 2000, 420)}, 0)

	p := findAnchor(points, Anchor2k)
	if p == nil {
		t.Fatal("Expected a 2k point, got none")
	}
	if math.Abs(p.PaceSecondsPer500-105) > 0.01 {
		t.Errorf("Pace = %.2f, want 105", p.PaceSecondsPer500)
	}
	if math.Abs(p.Watts-302.5) > 0.5 {
		t.Errorf("Watts = %.2f, want ~302.5", p.Watts)
	}
	if p.Provenance != ProvenanceWholeWorkout {
		t.Errorf("Provenance = %q, want %q", p.Provenance, ProvenanceWholeWorkout)
	}
	if p.Label != "2,000m" {
		t.Errorf("Label = %q, want %q", p.Label, "2,000m")
	}
	if len(points) != 1 {
		t.Errorf("Expected exactly 1 point, got %d", len(points))
	}
}

func TestExtractBestEfforts_BestOfTwo(t *testing.T) {
	points := ExtractBestEfforts([]WorkoutRecord{
		continuous("slow", 2000, 480),
		continuous("fast", 2000, 420),
	}, 0)

	p := findAnchor(points, Anchor2k)
	if p == nil {
		t.Fatal("Expected a 2k point")
	}
	if p.SourceWorkoutID != "fast" {
		t.Errorf("SourceWorkoutID = %q, want %q", p.SourceWorkoutID, "fast")
	}
}

func TestExtractBestEfforts_DistanceTolerance(t *testing.T) {
	tests := []struct {
		distance float64
		want     bool
	}{
		{2000, true},
		{2019, true},
		{1981, true},
		{2021, false},
		{1979, false},
	}

	for _, tt := range tests {
		points := ExtractBestEfforts([]WorkoutRecord{continuous("w", tt.distance, tt.distance*0.21)}, 0)
		got := findAnchor(points, Anchor2k) != nil
		if got != tt.want {
			t.Errorf("distance %.0f: matched 2k = %v, want %v", tt.distance, got, tt.want)
		}
	}
}

func TestExtractBestEfforts_IntervalExclusion(t *testing.T) {
	w := WorkoutRecord{
		ID:              "ints",
		Distance:        2000,
		DurationSeconds: 420,
		CompletedAt:     testDate,
		KindHint:        "2x1000m/3:00r",
		Segments: []IntervalSegment{
			{Kind: SegmentDistance, Distance: 1000, ElapsedDeciseconds: 2050, StrokeRate: 30},
			{Kind: SegmentRest, Distance: 0, ElapsedDeciseconds: 1800},
			{Kind: SegmentDistance, Distance: 1000, ElapsedDeciseconds: 2100, StrokeRate: 29},
		},
	}

	points := ExtractBestEfforts([]WorkoutRecord{w}, 0)

	if p := findAnchor(points, Anchor2k); p != nil {
		t.Fatalf("Interval workout must not produce a 2k point, got %+v", *p)
	}

	p := findAnchor(points, Anchor1k)
	if p == nil {
		t.Fatal("Expected a 1k interval split point")
	}
	if p.Provenance != ProvenanceIntervalSplit {
		t.Errorf("Provenance = %q, want %q", p.Provenance, ProvenanceIntervalSplit)
	}
	if math.Abs(p.PaceSecondsPer500-102.5) > 0.01 {
		t.Errorf("Pace = %.2f, want 102.5 (the faster rep)", p.PaceSecondsPer500)
	}
	if len(points) != 1 {
		t.Errorf("Expected only the 1k point, got %d points", len(points))
	}
}

func TestExtractBestEfforts_SplitTolerance(t *testing.T) {
	w := WorkoutRecord{
		ID:              "ints",
		Distance:        1500,
		DurationSeconds: 330,
		KindHint:        "v500/1000",
		Segments: []IntervalSegment{
			{Kind: SegmentDistance, Distance: 506, ElapsedDeciseconds: 1000},
			{Kind: SegmentDistance, Distance: 1004, ElapsedDeciseconds: 2100},
		},
	}

	points := ExtractBestEfforts([]WorkoutRecord{w}, 0)

	if findAnchor(points, Anchor500m) != nil {
		t.Error("506m split is outside the 5m tolerance")
	}
	if findAnchor(points, Anchor1k) == nil {
		t.Error("1004m split should match the 1k anchor")
	}
}

func TestExtractBestEfforts_ImplausibleFiltered(t *testing.T) {
	workouts := []WorkoutRecord{
		continuous("glitch", 2000, 10),
		continuous("walk", 2000, 1400),
		continuous("zero", 0, 420),
		continuous("notime", 2000, 0),
	}

	points := ExtractBestEfforts(workouts, 0)
	if len(points) != 0 {
		t.Errorf("Expected no points from implausible workouts, got %d", len(points))
	}
}

func TestExtractBestEfforts_TimeTests(t *testing.T) {
	workouts := []WorkoutRecord{
		{ID: "one", Distance: 330, DurationSeconds: 61, KindHint: "FixedTimeSplits"},
		{ID: "thirty", Distance: 7800, DurationSeconds: 1815, KindHint: "FixedTimeSplits"},
		{ID: "off", Distance: 380, DurationSeconds: 70, KindHint: "FixedTimeSplits"},
	}

	points := ExtractBestEfforts(workouts, 0)

	one := findAnchor(points, Anchor1Min)
	if one == nil || one.SourceWorkoutID != "one" {
		t.Fatalf("Expected 1:00 point from workout 'one', got %+v", one)
	}
	if one.Provenance != ProvenanceTimeTest {
		t.Errorf("Provenance = %q, want %q", one.Provenance, ProvenanceTimeTest)
	}

	thirty := findAnchor(points, Anchor30Min)
	if thirty == nil || thirty.SourceWorkoutID != "thirty" {
		t.Fatalf("Expected 30:00 point from workout 'thirty', got %+v", thirty)
	}

	// Pieces that match no distance anchor are bucketed too, time tests included
	if len(points) != 5 {
		t.Fatalf("Expected 5 points, got %d", len(points))
	}
	buckets := map[string]string{}
	for _, p := range points {
		if p.AnchorKey == nil {
			buckets[p.Label] = p.SourceWorkoutID
		}
	}
	want := map[string]string{"300m": "one", "400m": "off", "7,800m": "thirty"}
	if len(buckets) != len(want) {
		t.Errorf("Bucket points = %v, want %v", buckets, want)
	}
	for label, id := range want {
		if buckets[label] != id {
			t.Errorf("Bucket %s from %q, want %q", label, buckets[label], id)
		}
	}
}

func TestExtractBestEfforts_ImplausibleSplitSkipped(t *testing.T) {
	w := WorkoutRecord{
		ID:              "glitch",
		Distance:        2000,
		DurationSeconds: 420,
		CompletedAt:     testDate,
		KindHint:        "2x1000m/3:00r",
		Segments: []IntervalSegment{
			// 1000m in 60s is a monitor glitch
			{Kind: SegmentDistance, Distance: 1000, ElapsedDeciseconds: 600, StrokeRate: 30},
			{Kind: SegmentRest, Distance: 0, ElapsedDeciseconds: 1800},
			{Kind: SegmentDistance, Distance: 1000, ElapsedDeciseconds: 2100, StrokeRate: 29},
		},
	}

	points := ExtractBestEfforts([]WorkoutRecord{w}, 0)

	p := findAnchor(points, Anchor1k)
	if p == nil {
		t.Fatal("Expected a 1k point from the plausible rep")
	}
	if math.Abs(p.PaceSecondsPer500-105) > 0.01 {
		t.Errorf("Pace = %.2f, want 105 (the glitched rep must be ignored)", p.PaceSecondsPer500)
	}
}

func TestExtractBestEfforts_NonAnchorBuckets(t *testing.T) {
	workouts := []WorkoutRecord{
		continuous("a", 3010, 680),
		continuous("b", 2990, 650),
		continuous("c", 7500, 1900),
	}

	points := ExtractBestEfforts(workouts, 0)
	if len(points) != 2 {
		t.Fatalf("Expected 2 bucket points, got %d", len(points))
	}
	if points[0].SourceWorkoutID != "b" || points[0].Label != "3,000m" {
		t.Errorf("3,000m bucket = %+v, want workout b", points[0])
	}
	if points[1].Label != "7,500m" {
		t.Errorf("Second bucket label = %q, want 7,500m", points[1].Label)
	}
}

func TestExtractBestEfforts_ManualMaxWattsWins(t *testing.T) {
	w := continuous("w", 2000, 420)
	w.Strokes = []StrokeSample{
		{TimeSeconds: 2, Distance: 10, Watts: 650},
		{TimeSeconds: 4, Distance: 20, Watts: 700},
	}

	points := ExtractBestEfforts([]WorkoutRecord{w}, 0)
	mw := findAnchor(points, AnchorMaxWatts)
	if mw == nil || mw.Watts != 700 || mw.Provenance != ProvenanceStrokePeak {
		t.Fatalf("Expected stroke-peak max watts of 700, got %+v", mw)
	}

	points = ExtractBestEfforts([]WorkoutRecord{w}, 600)
	mw = findAnchor(points, AnchorMaxWatts)
	if mw == nil {
		t.Fatal("Expected a max_watts point")
	}
	if mw.Watts != 600 || mw.Provenance != ProvenanceManual || mw.Distance != 0 {
		t.Errorf("Manual max watts should win even when lower, got %+v", *mw)
	}

	points = ExtractBestEfforts(nil, 850)
	if len(points) != 1 || findAnchor(points, AnchorMaxWatts) == nil {
		t.Errorf("Manual max watts should supply the anchor on empty history, got %+v", points)
	}
}

func TestExtractBestEfforts_SortedByDistance(t *testing.T) {
	workouts := []WorkoutRecord{
		continuous("10k", 10000, 2400),
		continuous("2k", 2000, 420),
		continuous("5k", 5000, 1130),
		{ID: "sprint", Distance: 500, DurationSeconds: 95, KindHint: "4x500m/2:00r"},
	}

	points := ExtractBestEfforts(workouts, 700)
	for i := 1; i < len(points); i++ {
		if points[i].Distance < points[i-1].Distance {
			t.Fatalf("Points not sorted: %.0f before %.0f", points[i-1].Distance, points[i].Distance)
		}
	}
	if points[0].AnchorKey == nil || *points[0].AnchorKey != AnchorMaxWatts {
		t.Errorf("Expected max_watts first, got %+v", points[0])
	}
}

func TestExtractBestEfforts_Idempotent(t *testing.T) {
	workouts := []WorkoutRecord{
		continuous("a", 2000, 420),
		continuous("b", 3000, 660),
		continuous("c", 3050, 650),
		continuous("d", 6000, 1380),
	}

	first := ExtractBestEfforts(workouts, 0)
	second := ExtractBestEfforts(workouts, 0)
	if len(first) != len(second) {
		t.Fatalf("Lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].SourceWorkoutID != second[i].SourceWorkoutID || first[i].Watts != second[i].Watts {
			t.Errorf("Point %d differs between runs", i)
		}
	}
}

func TestIsIntervalWorkout(t *testing.T) {
	tests := []struct {
		hint string
		want bool
	}{
		{"2x1000m/3:00r", true},
		{"8 x 500m", true},
		{"v500/1000/500", true},
		{"3x(4x250m)", true},
		{"(500m, 1000m)", true},
		{"FixedDistanceInterval", true},
		{"VariableInterval", true},
		{"FixedDistanceSplits", false},
		{"JustRow", false},
		{"2000m", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			if got := IsIntervalWorkout(tt.hint); got != tt.want {
				t.Errorf("IsIntervalWorkout(%q) = %v, want %v", tt.hint, got, tt.want)
			}
		})
	}
}
