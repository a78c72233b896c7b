package store

import (
	"time"

	"erg-profile/internal/analysis"
)

// Workout sources
const (
	SourceLogbook = "logbook"
	SourceFIT     = "fit"
)

// Auth represents OAuth tokens for Logbook API access
type Auth struct {
	UserID       int64     `db:"user_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// Workout is a stored erg session
type Workout struct {
	ID              string    `db:"id"`
	Source          string    `db:"source"`
	Machine         string    `db:"machine"`
	WorkoutType     string    `db:"workout_type"`
	KindHint        string    `db:"kind_hint"`
	Distance        float64   `db:"distance"`         // meters
	DurationSeconds float64   `db:"duration_seconds"` // seconds
	CompletedAt     time.Time `db:"completed_at"`
	StrokeRate      *int      `db:"stroke_rate"` // nullable
	HeartRate       *int      `db:"heart_rate"`  // nullable
	Comments        string    `db:"comments"`
	HasStrokes      bool      `db:"has_strokes"`
	StrokesSynced   bool      `db:"strokes_synced"`

	Segments []analysis.IntervalSegment
	Strokes  []analysis.StrokeSample
}

// Record converts the stored workout into the analysis input
func (w *Workout) Record() analysis.WorkoutRecord {
	return analysis.WorkoutRecord{
		ID:              w.ID,
		Distance:        w.Distance,
		DurationSeconds: w.DurationSeconds,
		CompletedAt:     w.CompletedAt,
		KindHint:        w.KindHint,
		Segments:        w.Segments,
		Strokes:         w.Strokes,
	}
}

// PaceSecondsPer500 returns the average pace, or 0 when undefined
func (w *Workout) PaceSecondsPer500() float64 {
	return analysis.PaceFromDistanceTime(w.Distance, w.DurationSeconds)
}
