package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenPath(":memory:")
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func intPtr(v int) *int { return &v }

func testWorkout(id string, completed time.Time) *Workout {
	return &Workout{
		ID:              id,
		Source:          SourceLogbook,
		Machine:         "rower",
		WorkoutType:     "FixedDistanceSplits",
		Distance:        2000,
		DurationSeconds: 420,
		CompletedAt:     completed,
		StrokeRate:      intPtr(32),
		HasStrokes:      true,
	}
}
