package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"erg-profile/internal/analysis"
	"erg-profile/internal/logbook"
	"erg-profile/internal/store"
)

// LogbookClient is the part of the Logbook API the sync needs
type LogbookClient interface {
	GetAllResults(ctx context.Context, from time.Time, onProgress func(fetched int)) ([]logbook.Result, error)
	GetStrokes(ctx context.Context, resultID int64) ([]logbook.Stroke, error)
	RateLimitStatus() (remaining int, blockedUntil time.Time)
}

// SyncService orchestrates syncing data from the Concept2 Logbook
type SyncService struct {
	client LogbookClient
	store  *store.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSyncService creates a new sync service
func NewSyncService(client LogbookClient, store *store.DB, logger *slog.Logger) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		client: client,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Sync phases
const (
	PhaseResults = "results"
	PhaseStrokes = "strokes"
	PhaseRecords = "personal_records"
)

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase          string // PhaseResults, PhaseStrokes, PhaseRecords
	Total          int
	Completed      int
	CurrentWorkout string
	Error          error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	RunID          string
	ResultsFetched int
	WorkoutsStored int
	Skipped        int // non-rower results
	StrokesFetched int
	NewRecords     []analysis.RecordUpdate
	Errors         []error
}

// SyncAll performs a full sync: results -> strokes -> personal records
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{RunID: uuid.NewString()}
	logger := s.logger.With("sync_run", result.RunID)
	started := s.now()
	logger.Info("sync started")

	// Phase 1: Sync result summaries
	if err := s.syncResults(ctx, logger, progress, result); err != nil {
		logger.Error("sync failed", "phase", PhaseResults, "error", err)
		return result, fmt.Errorf("syncing results: %w", err)
	}

	// Phase 2: Fetch strokes for workouts that need them
	if err := s.syncStrokes(ctx, logger, progress, result); err != nil {
		logger.Error("sync failed", "phase", PhaseStrokes, "error", err)
		return result, fmt.Errorf("syncing strokes: %w", err)
	}

	// Phase 3: Recompute personal records
	send(progress, SyncProgress{Phase: PhaseRecords})
	updates, err := refreshPersonalRecords(s.store, logger)
	result.NewRecords = updates
	if err != nil {
		logger.Error("sync failed", "phase", PhaseRecords, "error", err)
		return result, fmt.Errorf("computing personal records: %w", err)
	}
	send(progress, SyncProgress{Phase: PhaseRecords, Total: len(updates), Completed: len(updates)})

	if err := s.store.SetSyncState(SyncKeyLastRun, result.RunID); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("recording sync run: %w", err))
	}

	logger.Info("sync finished",
		"results", result.ResultsFetched,
		"stored", result.WorkoutsStored,
		"strokes", result.StrokesFetched,
		"new_records", len(result.NewRecords),
		"errors", len(result.Errors),
		"duration", s.now().Sub(started),
	)
	return result, nil
}

// syncResults fetches results since the last sync and stores the rower ones
func (s *SyncService) syncResults(ctx context.Context, logger *slog.Logger, progress chan<- SyncProgress, result *SyncResult) error {
	from := s.lastSync(logger)
	syncStarted := s.now()

	send(progress, SyncProgress{Phase: PhaseResults})

	results, err := s.client.GetAllResults(ctx, from, func(fetched int) {
		send(progress, SyncProgress{Phase: PhaseResults, Total: fetched, Completed: result.WorkoutsStored})
	})
	if err != nil {
		return err
	}
	result.ResultsFetched = len(results)

	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !logbook.IsRowerResult(r) {
			result.Skipped++
			continue
		}

		w := convertResult(r)
		if w.CompletedAt.IsZero() {
			result.Errors = append(result.Errors, fmt.Errorf("result %d: unparseable date %q", r.ID, r.Date))
			continue
		}
		if err := s.store.UpsertWorkout(w); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing result %d: %w", r.ID, err))
			continue
		}
		result.WorkoutsStored++
	}

	send(progress, SyncProgress{Phase: PhaseResults, Total: result.ResultsFetched, Completed: result.WorkoutsStored})
	logger.Info("results synced", "from", from.Format(time.DateOnly), "fetched", result.ResultsFetched, "stored", result.WorkoutsStored)

	// Update last sync time
	if err := s.store.SetSyncTime(SyncKeyLastResults, syncStarted); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("saving sync state: %w", err))
	}
	return nil
}

// lastSync returns where to resume, backed off by the overlap window
func (s *SyncService) lastSync(logger *slog.Logger) time.Time {
	last, err := s.store.GetSyncTime(SyncKeyLastResults)
	if err != nil {
		logger.Warn("ignoring sync state", "error", err)
		return time.Time{}
	}
	if last.IsZero() {
		return time.Time{}
	}
	return last.AddDate(0, 0, -SyncOverlapDays)
}

// syncStrokes fetches stroke data for workouts that have it upstream
func (s *SyncService) syncStrokes(ctx context.Context, logger *slog.Logger, progress chan<- SyncProgress, result *SyncResult) error {
	// Limit to batch size to respect rate limits
	workouts, err := s.store.GetWorkoutsNeedingStrokes(StrokeBatchSize)
	if err != nil {
		return fmt.Errorf("getting workouts needing strokes: %w", err)
	}
	if len(workouts) == 0 {
		return nil
	}

	send(progress, SyncProgress{Phase: PhaseStrokes, Total: len(workouts)})

	for i, w := range workouts {
		if err := ctx.Err(); err != nil {
			return err
		}

		send(progress, SyncProgress{
			Phase:          PhaseStrokes,
			Total:          len(workouts),
			Completed:      i,
			CurrentWorkout: workoutLabel(&w),
		})

		resultID, ok := logbook.ParseWorkoutID(w.ID)
		if !ok {
			continue
		}

		strokes, err := s.client.GetStrokes(ctx, resultID)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if err != nil {
			// Keep going - some results have no usable strokes
			result.Errors = append(result.Errors, fmt.Errorf("workout %s: %w", w.ID, err))
			logger.Warn("stroke fetch failed", "workout_id", w.ID, "error", err)
			continue
		}

		if err := s.store.SaveStrokes(w.ID, logbook.StrokeSamples(strokes)); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("saving strokes for %s: %w", w.ID, err))
			continue
		}
		result.StrokesFetched++
	}

	send(progress, SyncProgress{Phase: PhaseStrokes, Total: len(workouts), Completed: len(workouts)})
	remaining, _ := s.client.RateLimitStatus()
	logger.Info("strokes synced", "fetched", result.StrokesFetched, "requests_remaining", remaining)
	return nil
}

// RateLimitStatus returns the current rate limit status from the client
func (s *SyncService) RateLimitStatus() (remaining int, blockedUntil time.Time) {
	return s.client.RateLimitStatus()
}

// convertResult converts a Logbook result to a store workout
func convertResult(r logbook.Result) *store.Workout {
	rec := logbook.ToWorkoutRecord(r, nil)

	w := &store.Workout{
		ID:              rec.ID,
		Source:          store.SourceLogbook,
		Machine:         logbook.MachineRower,
		WorkoutType:     r.WorkoutType,
		KindHint:        rec.KindHint,
		Distance:        rec.Distance,
		DurationSeconds: rec.DurationSeconds,
		CompletedAt:     rec.CompletedAt,
		Comments:        r.Comments,
		HasStrokes:      r.StrokeData,
		Segments:        rec.Segments,
	}
	if r.StrokeRate > 0 {
		rate := r.StrokeRate
		w.StrokeRate = &rate
	}
	if r.HeartRate != nil && r.HeartRate.Average > 0 {
		hr := r.HeartRate.Average
		w.HeartRate = &hr
	}
	return w
}

func send(progress chan<- SyncProgress, p SyncProgress) {
	if progress != nil {
		progress <- p
	}
}
