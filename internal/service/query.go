package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"erg-profile/internal/analysis"
	"erg-profile/internal/config"
	"erg-profile/internal/store"
)

// QueryService provides read-only queries for the TUI
type QueryService struct {
	store   *store.DB
	athlete config.AthleteConfig
	now     func() time.Time
}

// NewQueryService creates a new query service
func NewQueryService(store *store.DB, athlete config.AthleteConfig) *QueryService {
	return &QueryService{store: store, athlete: athlete, now: time.Now}
}

// SinceDays converts a history window to a cutoff. Zero or negative days
// means all history.
func (q *QueryService) SinceDays(days int) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return q.now().AddDate(0, 0, -days)
}

// GetPowerProfile builds the power profile from workouts completed since the
// cutoff. The configured baseline fills in a missing 2k and the configured
// manual max watts always supplies the max watts anchor.
func (q *QueryService) GetPowerProfile(since time.Time) (*analysis.PowerProfile, error) {
	workouts, err := q.store.LoadWorkoutRecords(since)
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}

	points := analysis.ExtractBestEfforts(workouts, q.athlete.ManualMaxWatts)
	profile := analysis.ComputePowerProfile(points, q.athlete.Baseline2k())
	return &profile, nil
}

// GetPersonalRecords returns all-time records in anchor order
func (q *QueryService) GetPersonalRecords() ([]analysis.PersonalRecord, error) {
	return q.store.GetAllPersonalRecords()
}

// WorkoutSummary is a workout with its derived power and zone split
type WorkoutSummary struct {
	Workout  store.Workout
	Label    string
	Watts    float64
	Pace     float64
	Interval bool
	Zones    analysis.ZoneDistribution
}

// GetRecentWorkouts returns the latest workouts with zone distributions
func (q *QueryService) GetRecentWorkouts(limit int) ([]WorkoutSummary, error) {
	if limit <= 0 {
		limit = RecentWorkoutsLimit
	}
	workouts, err := q.store.ListWorkouts(limit, 0)
	if err != nil {
		return nil, err
	}

	ref, err := q.Reference2k()
	if err != nil {
		return nil, err
	}

	summaries := make([]WorkoutSummary, 0, len(workouts))
	for i := range workouts {
		w := &workouts[i]
		if w.StrokesSynced {
			strokes, err := q.store.GetStrokes(w.ID)
			if err != nil {
				return nil, fmt.Errorf("loading strokes for %s: %w", w.ID, err)
			}
			w.Strokes = strokes
		}

		pace := w.PaceSecondsPer500()
		s := WorkoutSummary{
			Workout:  *w,
			Label:    workoutLabel(w),
			Pace:     pace,
			Interval: analysis.IsIntervalWorkout(w.KindHint),
			Zones:    analysis.TimeInZones(w.Record(), ref),
		}
		if pace > 0 {
			s.Watts = analysis.WattsFromPace(pace)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// ZoneSummary is the aggregate zone split over a window
type ZoneSummary struct {
	Days         int
	Workouts     int
	Reference2k  float64
	Distribution analysis.ZoneDistribution
}

// GetZoneSummary aggregates time in zones over the last days
func (q *QueryService) GetZoneSummary(days int) (*ZoneSummary, error) {
	if days <= 0 {
		days = DefaultZoneSummaryDays
	}
	workouts, err := q.store.LoadWorkoutRecords(q.SinceDays(days))
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}

	ref, err := q.Reference2k()
	if err != nil {
		return nil, err
	}

	dists := make([]analysis.ZoneDistribution, 0, len(workouts))
	for _, w := range workouts {
		dists = append(dists, analysis.TimeInZones(w, ref))
	}

	return &ZoneSummary{
		Days:         days,
		Workouts:     len(workouts),
		Reference2k:  ref,
		Distribution: analysis.AggregateZones(dists),
	}, nil
}

// Reference2k is the power zones are measured against: the stored 2k
// record, else the configured baseline, else 0
func (q *QueryService) Reference2k() (float64, error) {
	rec, err := q.store.GetPersonalRecord(analysis.Anchor2k)
	if errors.Is(err, store.ErrPersonalRecordNotFound) {
		return q.athlete.Baseline2k(), nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading 2k record: %w", err)
	}
	return rec.Watts, nil
}

// CountWorkouts returns the number of stored workouts
func (q *QueryService) CountWorkouts() (int, error) {
	return q.store.CountWorkouts()
}

// workoutLabel describes a workout by its hint, or by its distance
func workoutLabel(w *store.Workout) string {
	if analysis.IsIntervalWorkout(w.KindHint) && w.KindHint != "" {
		return w.KindHint
	}
	if key, ok := analysis.MatchAnchorDistance(w.Distance, analysis.WholeWorkoutTolerance); ok {
		return analysis.AnchorLabel(key)
	}
	if key, ok := analysis.MatchTimeTest(w.DurationSeconds); ok {
		return analysis.AnchorLabel(key)
	}
	return humanize.Comma(int64(w.Distance)) + "m"
}
