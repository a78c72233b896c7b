package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	WholeWorkoutTolerance = 0.01 // 1% relative tolerance for continuous pieces
	SplitTolerance        = 5.0  // meters, absolute tolerance for interval splits
	BucketSize            = 100  // meters, grouping for non-anchor pieces
	MaxPlausibleStroke    = 2000 // watts, anything above is a monitor glitch
)

var (
	repeatPrefix   = regexp.MustCompile(`(?i)^\d+\s*x`)
	variablePrefix = regexp.MustCompile(`(?i)^v\d`)
	blockNotation  = regexp.MustCompile(`\(.*\)`)
)

// IsIntervalWorkout decides from the kind hint whether a workout is a
// multi-interval session rather than one continuous piece.
func IsIntervalWorkout(hint string) bool {
	hint = strings.TrimSpace(hint)
	switch {
	case repeatPrefix.MatchString(hint):
		return true
	case variablePrefix.MatchString(hint):
		return true
	case blockNotation.MatchString(hint):
		return true
	default:
		return strings.Contains(hint, "Interval")
	}
}

// MatchAnchorDistance returns the distance anchor within relTolerance of distance
func MatchAnchorDistance(distance, relTolerance float64) (AnchorKey, bool) {
	for _, key := range distanceAnchorOrder {
		canonical := AnchorDistances[key]
		if math.Abs(distance-canonical) <= canonical*relTolerance {
			return key, true
		}
	}
	return "", false
}

// MatchSplitDistance returns the distance anchor within SplitTolerance meters
func MatchSplitDistance(distance float64) (AnchorKey, bool) {
	for _, key := range distanceAnchorOrder {
		if math.Abs(distance-AnchorDistances[key]) <= SplitTolerance {
			return key, true
		}
	}
	return "", false
}

// MatchTimeTest returns the time-test anchor whose duration matches seconds
func MatchTimeTest(seconds float64) (AnchorKey, bool) {
	for _, tt := range TimeTests {
		if math.Abs(seconds-tt.Seconds) <= tt.Tolerance {
			return tt.Anchor, true
		}
	}
	return "", false
}

// IsPlausiblePace reports whether a pace is inside the erg plausibility window
func IsPlausiblePace(pace float64) bool {
	return pace >= MinPlausiblePace && pace <= MaxPlausiblePace
}

// effortCollector keeps the best point per anchor and per non-anchor bucket
type effortCollector struct {
	anchors map[AnchorKey]PowerCurvePoint
	buckets map[int]PowerCurvePoint
}

func newEffortCollector() *effortCollector {
	return &effortCollector{
		anchors: make(map[AnchorKey]PowerCurvePoint),
		buckets: make(map[int]PowerCurvePoint),
	}
}

func (c *effortCollector) offerAnchor(key AnchorKey, p PowerCurvePoint) {
	p.AnchorKey = anchorPtr(key)
	if p.Label == "" {
		p.Label = AnchorLabel(key)
	}
	if best, ok := c.anchors[key]; ok && best.Watts >= p.Watts {
		return
	}
	c.anchors[key] = p
}

func (c *effortCollector) offerBucket(p PowerCurvePoint) {
	bucket := int(math.Round(p.Distance/BucketSize)) * BucketSize
	if bucket <= 0 {
		return
	}
	p.Label = humanize.Comma(int64(bucket)) + "m"
	if best, ok := c.buckets[bucket]; ok && best.Watts >= p.Watts {
		return
	}
	c.buckets[bucket] = p
}

func (c *effortCollector) points() []PowerCurvePoint {
	out := make([]PowerCurvePoint, 0, len(c.anchors)+len(c.buckets))
	for _, key := range Anchors {
		if p, ok := c.anchors[key]; ok {
			out = append(out, p)
		}
	}

	keys := make([]int, 0, len(c.buckets))
	for k := range c.buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		out = append(out, c.buckets[k])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out
}

// ExtractBestEfforts scans the workout history and returns the best power
// point for every anchor plus the best point per 100m bucket for
// non-standard continuous pieces, sorted by distance.
// A positive manualMaxWatts always supplies the max_watts anchor.
func ExtractBestEfforts(workouts []WorkoutRecord, manualMaxWatts float64) []PowerCurvePoint {
	c := newEffortCollector()

	for _, w := range workouts {
		if w.Distance <= 0 || w.DurationSeconds <= 0 {
			continue
		}
		pace := PaceFromDistanceTime(w.Distance, w.DurationSeconds)
		if !IsPlausiblePace(pace) {
			continue
		}
		watts := WattsFromPace(pace)

		whole := PowerCurvePoint{
			Distance:          w.Distance,
			Watts:             watts,
			PaceSecondsPer500: pace,
			SourceWorkoutID:   w.ID,
			Date:              w.CompletedAt,
		}

		if !IsIntervalWorkout(w.KindHint) {
			distKey, distMatched := MatchAnchorDistance(w.Distance, WholeWorkoutTolerance)
			if distMatched {
				p := whole
				p.Provenance = ProvenanceWholeWorkout
				c.offerAnchor(distKey, p)
			}

			timeKey, timeMatched := MatchTimeTest(w.DurationSeconds)
			if timeMatched {
				p := whole
				p.Provenance = ProvenanceTimeTest
				c.offerAnchor(timeKey, p)
			}

			if !distMatched {
				p := whole
				p.Provenance = ProvenanceWholeWorkout
				c.offerBucket(p)
			}
		}

		for _, seg := range w.Segments {
			if seg.Kind == SegmentRest {
				continue
			}
			secs := seg.Seconds()
			segPace := PaceFromDistanceTime(seg.Distance, secs)
			if !IsPlausiblePace(segPace) {
				continue
			}
			key, ok := MatchSplitDistance(seg.Distance)
			if !ok {
				continue
			}
			c.offerAnchor(key, PowerCurvePoint{
				Distance:          seg.Distance,
				Watts:             WattsFromPace(segPace),
				PaceSecondsPer500: segPace,
				SourceWorkoutID:   w.ID,
				Date:              w.CompletedAt,
				Provenance:        ProvenanceIntervalSplit,
			})
		}

		if peak := peakStrokeWatts(w.Strokes); peak > 0 {
			c.offerAnchor(AnchorMaxWatts, PowerCurvePoint{
				Watts:             peak,
				PaceSecondsPer500: PaceFromWatts(peak),
				SourceWorkoutID:   w.ID,
				Date:              w.CompletedAt,
				Provenance:        ProvenanceStrokePeak,
			})
		}
	}

	if manualMaxWatts > 0 {
		c.anchors[AnchorMaxWatts] = PowerCurvePoint{
			Watts:             manualMaxWatts,
			PaceSecondsPer500: PaceFromWatts(manualMaxWatts),
			Provenance:        ProvenanceManual,
			Label:             AnchorLabel(AnchorMaxWatts),
			AnchorKey:         anchorPtr(AnchorMaxWatts),
		}
	}

	return c.points()
}

// peakStrokeWatts returns the highest plausible stroke power in a workout
func peakStrokeWatts(strokes []StrokeSample) float64 {
	var peak float64
	for _, s := range strokes {
		if s.Watts > peak && s.Watts <= MaxPlausibleStroke {
			peak = s.Watts
		}
	}
	return peak
}
