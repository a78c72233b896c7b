package fitimport

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"

	"erg-profile/internal/analysis"
)

var testStart = time.Date(2024, 9, 14, 7, 30, 0, 0, time.UTC)

type testLap struct {
	meters  uint32
	seconds uint32
	rest    bool
}

func buildTestFIT(t *testing.T, sport fit.Sport, laps []testLap, powers []uint16) []byte {
	t.Helper()

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	require.NoError(t, err, "new fit file")

	activity, err := file.Activity()
	require.NoError(t, err, "activity accessor")

	var totalMeters, totalSeconds uint32
	for _, l := range laps {
		lap := fit.NewLapMsg()
		lap.Timestamp = testStart.Add(time.Duration(totalSeconds+l.seconds) * time.Second)
		lap.StartTime = testStart.Add(time.Duration(totalSeconds) * time.Second)
		lap.TotalDistance = l.meters * 100
		lap.TotalTimerTime = l.seconds * 1000
		lap.TotalElapsedTime = l.seconds * 1000
		lap.AvgCadence = 30
		lap.Intensity = fit.IntensityActive
		if l.rest {
			lap.Intensity = fit.IntensityRest
		}
		activity.Laps = append(activity.Laps, lap)
		totalMeters += l.meters
		totalSeconds += l.seconds
	}

	for i, p := range powers {
		rec := fit.NewRecordMsg()
		rec.Timestamp = testStart.Add(time.Duration(2*i) * time.Second)
		rec.Distance = uint32(i*10) * 100
		rec.Power = p
		rec.Cadence = 32
		activity.Records = append(activity.Records, rec)
	}

	session := fit.NewSessionMsg()
	session.Timestamp = testStart.Add(time.Duration(totalSeconds) * time.Second)
	session.StartTime = testStart
	session.Sport = sport
	session.TotalDistance = totalMeters * 100
	session.TotalTimerTime = totalSeconds * 1000
	session.TotalElapsedTime = totalSeconds * 1000
	activity.Sessions = append(activity.Sessions, session)

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian), "encode fit")
	return buf.Bytes()
}

func TestDecode_ContinuousPiece(t *testing.T) {
	data := buildTestFIT(t, fit.SportRowing,
		[]testLap{{meters: 1000, seconds: 210}, {meters: 1000, seconds: 212}},
		[]uint16{310, 650, 305})

	w, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 2000.0, w.Distance)
	assert.Equal(t, 422.0, w.DurationSeconds)
	assert.True(t, w.CompletedAt.Equal(testStart), "CompletedAt = %v", w.CompletedAt)
	assert.Empty(t, w.KindHint, "splits without rest are one piece")
	assert.Nil(t, w.Segments)
	assert.True(t, strings.HasPrefix(w.ID, "fit-"))

	require.Len(t, w.Strokes, 3)
	assert.Equal(t, 650.0, w.Strokes[1].Watts)
	assert.Equal(t, 2.0, w.Strokes[1].TimeSeconds)
	assert.Equal(t, 10.0, w.Strokes[1].Distance)
	assert.Equal(t, 32, w.Strokes[1].StrokeRate)

	// Same session decodes to the same ID
	again, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
}

func TestDecode_IntervalsFromRestLaps(t *testing.T) {
	data := buildTestFIT(t, fit.SportRowing,
		[]testLap{
			{meters: 500, seconds: 95},
			{meters: 30, seconds: 120, rest: true},
			{meters: 500, seconds: 96},
		}, nil)

	w, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.True(t, analysis.IsIntervalWorkout(w.KindHint))
	require.Len(t, w.Segments, 3)
	assert.Equal(t, analysis.SegmentDistance, w.Segments[0].Kind)
	assert.Equal(t, 950, w.Segments[0].ElapsedDeciseconds)
	assert.Equal(t, 30, w.Segments[0].StrokeRate)
	assert.Equal(t, analysis.SegmentRest, w.Segments[1].Kind)
	assert.Equal(t, 0, w.Segments[1].StrokeRate)
	assert.Empty(t, w.Strokes)

	points := analysis.ExtractBestEfforts([]analysis.WorkoutRecord{w}, 0)
	require.Len(t, points, 1)
	assert.Equal(t, analysis.ProvenanceIntervalSplit, points[0].Provenance)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely not a fit file"))
	assert.Error(t, err)

	running := buildTestFIT(t, fit.SportRunning, []testLap{{meters: 5000, seconds: 1500}}, nil)
	_, err = Decode(bytes.NewReader(running))
	assert.ErrorIs(t, err, ErrNotRowing)

	empty := buildTestFIT(t, fit.SportRowing, nil, nil)
	_, err = Decode(bytes.NewReader(empty))
	assert.ErrorIs(t, err, ErrEmpty)
}
