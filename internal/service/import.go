package service

import (
	"fmt"
	"log/slog"
	"os"

	"erg-profile/internal/analysis"
	"erg-profile/internal/fitimport"
	"erg-profile/internal/logbook"
	"erg-profile/internal/store"
)

// ImportService stores workouts read from local files
type ImportService struct {
	store  *store.DB
	logger *slog.Logger
}

// NewImportService creates a new import service
func NewImportService(store *store.DB, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{store: store, logger: logger}
}

// ImportResult describes one imported file
type ImportResult struct {
	Workout    analysis.WorkoutRecord
	NewRecords []analysis.RecordUpdate
}

// ImportFIT decodes a FIT activity, stores it and refreshes personal records.
// Importing the same file twice updates the existing workout.
func (s *ImportService) ImportFIT(path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	rec, err := fitimport.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}

	w := &store.Workout{
		ID:              rec.ID,
		Source:          store.SourceFIT,
		Machine:         logbook.MachineRower,
		KindHint:        rec.KindHint,
		Distance:        rec.Distance,
		DurationSeconds: rec.DurationSeconds,
		CompletedAt:     rec.CompletedAt,
		HasStrokes:      len(rec.Strokes) > 0,
		StrokesSynced:   true,
		Segments:        rec.Segments,
		Strokes:         rec.Strokes,
	}
	if err := s.store.UpsertWorkout(w); err != nil {
		return nil, fmt.Errorf("storing workout: %w", err)
	}

	logger := s.logger.With("workout_id", rec.ID)
	logger.Info("imported FIT file",
		"path", path,
		"distance", rec.Distance,
		"seconds", rec.DurationSeconds,
		"strokes", len(rec.Strokes),
		"segments", len(rec.Segments),
	)

	updates, err := refreshPersonalRecords(s.store, logger)
	if err != nil {
		return nil, fmt.Errorf("updating personal records: %w", err)
	}

	return &ImportResult{Workout: rec, NewRecords: updates}, nil
}
