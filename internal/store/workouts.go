package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"erg-profile/internal/analysis"
)

// ErrWorkoutNotFound is returned when a workout doesn't exist
var ErrWorkoutNotFound = errors.New("workout not found")

const workoutColumns = `id, source, machine, workout_type, kind_hint, distance, duration_seconds,
	completed_at, stroke_rate, heart_rate, comments, has_strokes, strokes_synced`

// UpsertWorkout inserts or updates a workout and replaces its segments.
// Stroke samples are replaced only when the workout carries synced strokes,
// so a summary-only re-sync never wipes previously fetched strokes.
func (db *DB) UpsertWorkout(w *Workout) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO workouts (`+workoutColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			machine = excluded.machine,
			workout_type = excluded.workout_type,
			kind_hint = excluded.kind_hint,
			distance = excluded.distance,
			duration_seconds = excluded.duration_seconds,
			completed_at = excluded.completed_at,
			stroke_rate = excluded.stroke_rate,
			heart_rate = excluded.heart_rate,
			comments = excluded.comments,
			has_strokes = excluded.has_strokes,
			strokes_synced = MAX(workouts.strokes_synced, excluded.strokes_synced),
			updated_at = CURRENT_TIMESTAMP
	`,
		w.ID, w.Source, w.Machine, w.WorkoutType, w.KindHint, w.Distance, w.DurationSeconds,
		formatTime(w.CompletedAt), w.StrokeRate, w.HeartRate, w.Comments,
		boolToInt(w.HasStrokes), boolToInt(w.StrokesSynced),
	)
	if err != nil {
		return fmt.Errorf("upserting workout: %w", err)
	}

	if err := replaceSegments(tx, w.ID, w.Segments); err != nil {
		return err
	}
	if w.StrokesSynced {
		if err := replaceStrokes(tx, w.ID, w.Strokes); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SaveStrokes replaces the stroke samples of a workout and marks it synced
func (db *DB) SaveStrokes(workoutID string, strokes []analysis.StrokeSample) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE workouts
		SET strokes_synced = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, workoutID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWorkoutNotFound
	}

	if err := replaceStrokes(tx, workoutID, strokes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func replaceSegments(tx *sql.Tx, workoutID string, segments []analysis.IntervalSegment) error {
	if _, err := tx.Exec("DELETE FROM workout_segments WHERE workout_id = ?", workoutID); err != nil {
		return fmt.Errorf("deleting existing segments: %w", err)
	}
	if len(segments) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO workout_segments (workout_id, idx, kind, distance, elapsed_ds, stroke_rate)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, s := range segments {
		if _, err := stmt.Exec(workoutID, i, s.Kind, s.Distance, s.ElapsedDeciseconds, s.StrokeRate); err != nil {
			return fmt.Errorf("inserting segment: %w", err)
		}
	}
	return nil
}

func replaceStrokes(tx *sql.Tx, workoutID string, strokes []analysis.StrokeSample) error {
	if _, err := tx.Exec("DELETE FROM stroke_samples WHERE workout_id = ?", workoutID); err != nil {
		return fmt.Errorf("deleting existing strokes: %w", err)
	}
	if len(strokes) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO stroke_samples (workout_id, idx, time_seconds, distance, watts, stroke_rate)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, s := range strokes {
		if _, err := stmt.Exec(workoutID, i, s.TimeSeconds, s.Distance, s.Watts, s.StrokeRate); err != nil {
			return fmt.Errorf("inserting stroke: %w", err)
		}
	}
	return nil
}

// GetWorkout retrieves a workout by ID with its segments and strokes
func (db *DB) GetWorkout(id string) (*Workout, error) {
	row := db.QueryRow(`SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id)

	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	segments, err := db.segmentsByWorkout([]string{id})
	if err != nil {
		return nil, err
	}
	w.Segments = segments[id]

	strokes, err := db.GetStrokes(id)
	if err != nil {
		return nil, err
	}
	w.Strokes = strokes

	return w, nil
}

// ListWorkouts returns workouts with segments ordered by completion descending.
// Stroke samples are not loaded.
func (db *DB) ListWorkouts(limit, offset int) ([]Workout, error) {
	rows, err := db.Query(`
		SELECT `+workoutColumns+`
		FROM workouts
		ORDER BY completed_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	workouts, err := scanWorkouts(rows)
	if err != nil {
		return nil, err
	}

	return workouts, db.attachSegments(workouts)
}

// GetWorkoutsNeedingStrokes returns workouts that have stroke data upstream
// which hasn't been fetched yet
func (db *DB) GetWorkoutsNeedingStrokes(limit int) ([]Workout, error) {
	rows, err := db.Query(`
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE has_strokes = 1 AND strokes_synced = 0 AND source = ?
		ORDER BY completed_at DESC
		LIMIT ?
	`, SourceLogbook, limit)
	if err != nil {
		return nil, err
	}
	return scanWorkouts(rows)
}

// LoadWorkoutRecords loads every workout completed at or after since, with
// segments and strokes, ready for analysis. A zero since loads everything.
func (db *DB) LoadWorkoutRecords(since time.Time) ([]analysis.WorkoutRecord, error) {
	rows, err := db.Query(`
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE completed_at >= ?
		ORDER BY completed_at
	`, formatTime(since))
	if err != nil {
		return nil, err
	}
	workouts, err := scanWorkouts(rows)
	if err != nil {
		return nil, err
	}
	if err := db.attachSegments(workouts); err != nil {
		return nil, err
	}

	records := make([]analysis.WorkoutRecord, 0, len(workouts))
	for i := range workouts {
		w := &workouts[i]
		if w.StrokesSynced {
			strokes, err := db.GetStrokes(w.ID)
			if err != nil {
				return nil, err
			}
			w.Strokes = strokes
		}
		records = append(records, w.Record())
	}
	return records, nil
}

// GetStrokes retrieves stroke samples for a workout in order
func (db *DB) GetStrokes(workoutID string) ([]analysis.StrokeSample, error) {
	rows, err := db.Query(`
		SELECT time_seconds, COALESCE(distance, 0), watts, COALESCE(stroke_rate, 0)
		FROM stroke_samples
		WHERE workout_id = ?
		ORDER BY idx
	`, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var strokes []analysis.StrokeSample
	for rows.Next() {
		var s analysis.StrokeSample
		if err := rows.Scan(&s.TimeSeconds, &s.Distance, &s.Watts, &s.StrokeRate); err != nil {
			return nil, err
		}
		strokes = append(strokes, s)
	}
	return strokes, rows.Err()
}

// CountWorkouts returns the total number of workouts
func (db *DB) CountWorkouts() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM workouts").Scan(&count)
	return count, err
}

// DeleteWorkout removes a workout and everything that references it
func (db *DB) DeleteWorkout(id string) error {
	result, err := db.Exec("DELETE FROM workouts WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (db *DB) attachSegments(workouts []Workout) error {
	if len(workouts) == 0 {
		return nil
	}
	ids := make([]string, len(workouts))
	for i, w := range workouts {
		ids[i] = w.ID
	}
	segments, err := db.segmentsByWorkout(ids)
	if err != nil {
		return err
	}
	for i := range workouts {
		workouts[i].Segments = segments[workouts[i].ID]
	}
	return nil
}

func (db *DB) segmentsByWorkout(ids []string) (map[string][]analysis.IntervalSegment, error) {
	result := make(map[string][]analysis.IntervalSegment)
	if len(ids) == 0 {
		return result, nil
	}

	// Build query with placeholders
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := db.Query(`
		SELECT workout_id, kind, distance, elapsed_ds, COALESCE(stroke_rate, 0)
		FROM workout_segments
		WHERE workout_id IN (`+joinStrings(placeholders, ",")+`)
		ORDER BY workout_id, idx
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var s analysis.IntervalSegment
		if err := rows.Scan(&id, &s.Kind, &s.Distance, &s.ElapsedDeciseconds, &s.StrokeRate); err != nil {
			return nil, err
		}
		result[id] = append(result[id], s)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row scanner) (*Workout, error) {
	var w Workout
	var machine, workoutType, kindHint, comments sql.NullString
	var completedAt string
	var strokeRate, heartRate sql.NullInt64
	var hasStrokes, strokesSynced int

	err := row.Scan(
		&w.ID, &w.Source, &machine, &workoutType, &kindHint, &w.Distance, &w.DurationSeconds,
		&completedAt, &strokeRate, &heartRate, &comments, &hasStrokes, &strokesSynced,
	)
	if err != nil {
		return nil, err
	}

	w.CompletedAt, err = time.Parse(time.RFC3339, completedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing completed_at %q: %w", completedAt, err)
	}
	w.Machine = machine.String
	w.WorkoutType = workoutType.String
	w.KindHint = kindHint.String
	w.Comments = comments.String
	w.StrokeRate = nullIntPtr(strokeRate)
	w.HeartRate = nullIntPtr(heartRate)
	w.HasStrokes = hasStrokes == 1
	w.StrokesSynced = strokesSynced == 1

	return &w, nil
}

func scanWorkouts(rows *sql.Rows) ([]Workout, error) {
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// formatTime stores timestamps in UTC so string comparison orders them
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func joinStrings(strs []string, sep string) string {
	if len(strs) == 0 {
		return ""
	}
	result := strs[0]
	for _, s := range strs[1:] {
		result += sep + s
	}
	return result
}
