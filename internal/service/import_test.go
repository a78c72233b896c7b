package service

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"

	"erg-profile/internal/analysis"
	"erg-profile/internal/store"
)

// writeTestFIT writes a single-lap rowing session with one record per power value
func writeTestFIT(t *testing.T, meters, seconds uint32, powers []uint16) string {
	t.Helper()

	file, err := fit.NewFile(fit.FileTypeActivity, fit.NewHeader(fit.V20, true))
	require.NoError(t, err)
	activity, err := file.Activity()
	require.NoError(t, err)

	start := time.Date(2024, 7, 20, 6, 45, 0, 0, time.UTC)
	for i, p := range powers {
		rec := fit.NewRecordMsg()
		rec.Timestamp = start.Add(time.Duration(2*i) * time.Second)
		rec.Power = p
		activity.Records = append(activity.Records, rec)
	}

	session := fit.NewSessionMsg()
	session.StartTime = start
	session.Timestamp = start.Add(time.Duration(seconds) * time.Second)
	session.Sport = fit.SportRowing
	session.TotalDistance = meters * 100
	session.TotalTimerTime = seconds * 1000
	activity.Sessions = append(activity.Sessions, session)

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian))

	path := filepath.Join(t.TempDir(), "session.fit")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestImportFIT(t *testing.T) {
	db := openTestDB(t)
	svc := NewImportService(db, discardLogger())

	path := writeTestFIT(t, 1000, 200, []uint16{350, 720, 360})

	result, err := svc.ImportFIT(path)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, result.Workout.Distance)
	require.Len(t, result.NewRecords, 2)
	assert.Equal(t, analysis.AnchorMaxWatts, result.NewRecords[0].Record.Anchor)
	assert.Equal(t, 720.0, result.NewRecords[0].Record.Watts)
	assert.Equal(t, analysis.Anchor1k, result.NewRecords[1].Record.Anchor)

	w, err := db.GetWorkout(result.Workout.ID)
	require.NoError(t, err)
	assert.Equal(t, store.SourceFIT, w.Source)
	assert.True(t, w.StrokesSynced)
	assert.Len(t, w.Strokes, 3)

	// Re-import updates in place
	again, err := svc.ImportFIT(path)
	require.NoError(t, err)
	assert.Equal(t, result.Workout.ID, again.Workout.ID)
	assert.Empty(t, again.NewRecords)

	count, err := db.CountWorkouts()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	needing, err := db.GetWorkoutsNeedingStrokes(10)
	require.NoError(t, err)
	assert.Empty(t, needing, "imported files never hit the API")
}

func TestImportFIT_MissingFile(t *testing.T) {
	svc := NewImportService(openTestDB(t), discardLogger())

	_, err := svc.ImportFIT(filepath.Join(t.TempDir(), "nope.fit"))
	assert.Error(t, err)
}
