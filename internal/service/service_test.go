package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"erg-profile/internal/logbook"
	"erg-profile/internal/store"
)

func openTestDB(t *testing.T) *store.DB {
	t.Helper()

	db, err := store.OpenPath(":memory:")
	require.NoError(t, err, "opening in-memory database")
	t.Cleanup(func() { db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClient serves canned results and strokes
type fakeClient struct {
	results   []logbook.Result
	strokes   map[int64][]logbook.Stroke
	strokeErr map[int64]error
	fromSeen  []time.Time
}

func (f *fakeClient) GetAllResults(ctx context.Context, from time.Time, onProgress func(int)) ([]logbook.Result, error) {
	f.fromSeen = append(f.fromSeen, from)
	if onProgress != nil {
		onProgress(len(f.results))
	}
	return f.results, nil
}

func (f *fakeClient) GetStrokes(ctx context.Context, resultID int64) ([]logbook.Stroke, error) {
	if err := f.strokeErr[resultID]; err != nil {
		return nil, err
	}
	return f.strokes[resultID], nil
}

func (f *fakeClient) RateLimitStatus() (int, time.Time) {
	return 100, time.Time{}
}

// tenths converts a duration to Logbook tenths of a second
func tenths(d time.Duration) int {
	return int(d / (100 * time.Millisecond))
}
