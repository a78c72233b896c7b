// Package fitimport reads erg sessions from Garmin FIT activity files, as
// exported by ErgData and most rowing apps.
package fitimport

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tormoder/fit"

	"erg-profile/internal/analysis"
)

var (
	// ErrNoSession is returned when the activity has no session message
	ErrNoSession = errors.New("activity file has no session message")
	// ErrNotRowing is returned for activities of another sport
	ErrNotRowing = errors.New("activity is not a rowing session")
	// ErrEmpty is returned when neither the session nor records give a distance and time
	ErrEmpty = errors.New("activity has no distance or duration")
)

// intervalHint marks imports with rest laps so analysis treats them as intervals
const intervalHint = "VariableInterval"

// importNamespace seeds deterministic IDs so re-importing a file updates it
var importNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("erg-profile/fit-import"))

// Decode reads a FIT activity and converts its first session for analysis
func Decode(r io.Reader) (analysis.WorkoutRecord, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return analysis.WorkoutRecord{}, fmt.Errorf("decode FIT file: %w", err)
	}

	activity, err := decoded.Activity()
	if err != nil {
		return analysis.WorkoutRecord{}, fmt.Errorf("activity FIT expected: %w", err)
	}
	if len(activity.Sessions) == 0 || activity.Sessions[0] == nil {
		return analysis.WorkoutRecord{}, ErrNoSession
	}
	session := activity.Sessions[0]
	if !isRowingSport(session.Sport) {
		return analysis.WorkoutRecord{}, fmt.Errorf("%w: sport %v", ErrNotRowing, session.Sport)
	}

	records := sortedRecords(activity.Records)
	strokes := strokeSamples(records)

	w := analysis.WorkoutRecord{
		Distance:        safePositive(session.GetTotalDistanceScaled()),
		DurationSeconds: safePositive(session.GetTotalTimerTimeScaled()),
		CompletedAt:     validTimeOrZero(session.StartTime),
		Strokes:         strokes,
	}
	if w.DurationSeconds == 0 {
		w.DurationSeconds = safePositive(session.GetTotalElapsedTimeScaled())
	}
	if n := len(strokes); n > 0 {
		if w.Distance == 0 {
			w.Distance = strokes[n-1].Distance
		}
		if w.DurationSeconds == 0 {
			w.DurationSeconds = strokes[n-1].TimeSeconds
		}
	}
	if w.CompletedAt.IsZero() && len(records) > 0 {
		w.CompletedAt = validTimeOrZero(records[0].Timestamp)
	}
	if w.Distance == 0 || w.DurationSeconds == 0 {
		return analysis.WorkoutRecord{}, ErrEmpty
	}

	if segments, hasRest := lapSegments(activity.Laps); hasRest {
		w.Segments = segments
		w.KindHint = intervalHint
	}

	w.ID = WorkoutID(w)
	return w, nil
}

// WorkoutID derives a stable identifier from the session start and totals
func WorkoutID(w analysis.WorkoutRecord) string {
	key := fmt.Sprintf("%d|%.1f|%.1f", w.CompletedAt.Unix(), w.Distance, w.DurationSeconds)
	return "fit-" + uuid.NewSHA1(importNamespace, []byte(key)).String()
}

func isRowingSport(s fit.Sport) bool {
	switch s {
	case fit.SportRowing, fit.SportGeneric, fit.SportFitnessEquipment, fit.SportInvalid:
		return true
	default:
		return false
	}
}

// lapSegments maps laps to segments. The second result reports whether any
// lap was a rest, which is what distinguishes intervals from plain splits.
func lapSegments(laps []*fit.LapMsg) ([]analysis.IntervalSegment, bool) {
	var segments []analysis.IntervalSegment
	hasRest := false

	for _, lap := range laps {
		if lap == nil {
			continue
		}
		duration := safePositive(lap.GetTotalTimerTimeScaled())
		if duration == 0 {
			duration = safePositive(lap.GetTotalElapsedTimeScaled())
		}
		distance := safePositive(lap.GetTotalDistanceScaled())
		if duration == 0 && distance == 0 {
			continue
		}

		seg := analysis.IntervalSegment{
			Kind:               analysis.SegmentDistance,
			Distance:           distance,
			ElapsedDeciseconds: int(math.Round(duration * 10)),
			StrokeRate:         int(validUint8(lap.AvgCadence)),
		}
		if lap.Intensity == fit.IntensityRest {
			seg.Kind = analysis.SegmentRest
			seg.StrokeRate = 0
			hasRest = true
		}
		segments = append(segments, seg)
	}

	return segments, hasRest
}

func sortedRecords(records []*fit.RecordMsg) []*fit.RecordMsg {
	out := make([]*fit.RecordMsg, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// strokeSamples keeps records with power, timed from the first record
func strokeSamples(records []*fit.RecordMsg) []analysis.StrokeSample {
	if len(records) == 0 {
		return nil
	}
	start := records[0].Timestamp

	var samples []analysis.StrokeSample
	for _, rec := range records {
		if rec.Power == math.MaxUint16 {
			continue
		}
		samples = append(samples, analysis.StrokeSample{
			TimeSeconds: rec.Timestamp.Sub(start).Seconds(),
			Distance:    safePositive(rec.GetDistanceScaled()),
			Watts:       float64(rec.Power),
			StrokeRate:  int(validUint8(rec.Cadence)),
		})
	}
	return samples
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func validUint8(v uint8) uint8 {
	if v == math.MaxUint8 {
		return 0
	}
	return v
}

func safePositive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
