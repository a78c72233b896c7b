package service

import (
	"fmt"
	"log/slog"
	"time"

	"erg-profile/internal/analysis"
	"erg-profile/internal/store"
)

// refreshPersonalRecords recomputes best efforts over the whole history and
// stores every anchor that improved
func refreshPersonalRecords(db *store.DB, logger *slog.Logger) ([]analysis.RecordUpdate, error) {
	workouts, err := db.LoadWorkoutRecords(time.Time{})
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}

	current, err := db.PersonalRecordsByAnchor()
	if err != nil {
		return nil, fmt.Errorf("loading personal records: %w", err)
	}

	// Manual max watts is a setting, not an achievement
	points := analysis.ExtractBestEfforts(workouts, 0)
	updates := analysis.DetectPersonalRecords(current, points)

	var stored []analysis.RecordUpdate
	for _, u := range updates {
		rec := u.Record
		updated, err := db.UpsertPersonalRecord(&rec)
		if err != nil {
			return stored, fmt.Errorf("saving %s record: %w", rec.Anchor, err)
		}
		if !updated {
			continue
		}
		logger.Info("new personal record",
			"anchor", rec.Anchor,
			"watts", rec.Watts,
			"pace", analysis.FormatPace(rec.PaceSecondsPer500),
			"workout_id", rec.WorkoutID,
			"provenance", rec.Provenance,
		)
		stored = append(stored, u)
	}

	return stored, nil
}
