package store

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"erg-profile/internal/analysis"
)

// ErrPersonalRecordNotFound is returned when a personal record doesn't exist
var ErrPersonalRecordNotFound = errors.New("personal record not found")

// UpsertPersonalRecord inserts or updates the record for an anchor.
// Only updates if the new record has strictly higher watts.
func (db *DB) UpsertPersonalRecord(pr *analysis.PersonalRecord) (updated bool, err error) {
	existing, err := db.GetPersonalRecord(pr.Anchor)
	if err != nil && !errors.Is(err, ErrPersonalRecordNotFound) {
		return false, err
	}
	if existing != nil && existing.Watts >= pr.Watts {
		return false, nil
	}

	_, err = db.Exec(`
		INSERT INTO personal_records (
			anchor, workout_id, watts, pace_seconds, distance, provenance, achieved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(anchor) DO UPDATE SET
			workout_id = excluded.workout_id,
			watts = excluded.watts,
			pace_seconds = excluded.pace_seconds,
			distance = excluded.distance,
			provenance = excluded.provenance,
			achieved_at = excluded.achieved_at
	`,
		string(pr.Anchor), pr.WorkoutID, pr.Watts, pr.PaceSecondsPer500, pr.Distance,
		string(pr.Provenance), formatTime(pr.AchievedAt),
	)
	if err != nil {
		return false, err
	}

	return true, nil
}

// GetPersonalRecord retrieves the record for an anchor
func (db *DB) GetPersonalRecord(anchor analysis.AnchorKey) (*analysis.PersonalRecord, error) {
	row := db.QueryRow(`
		SELECT anchor, workout_id, watts, pace_seconds, distance, provenance, achieved_at
		FROM personal_records
		WHERE anchor = ?
	`, string(anchor))

	pr, err := scanPersonalRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPersonalRecordNotFound
	}
	return pr, err
}

// GetAllPersonalRecords returns every record in anchor order
func (db *DB) GetAllPersonalRecords() ([]analysis.PersonalRecord, error) {
	rows, err := db.Query(`
		SELECT anchor, workout_id, watts, pace_seconds, distance, provenance, achieved_at
		FROM personal_records
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []analysis.PersonalRecord
	for rows.Next() {
		pr, err := scanPersonalRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *pr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b analysis.PersonalRecord) int {
		return slices.Index(analysis.Anchors, a.Anchor) - slices.Index(analysis.Anchors, b.Anchor)
	})
	return records, nil
}

// PersonalRecordsByAnchor returns every record keyed by anchor
func (db *DB) PersonalRecordsByAnchor() (map[analysis.AnchorKey]analysis.PersonalRecord, error) {
	records, err := db.GetAllPersonalRecords()
	if err != nil {
		return nil, err
	}
	result := make(map[analysis.AnchorKey]analysis.PersonalRecord, len(records))
	for _, r := range records {
		result[r.Anchor] = r
	}
	return result, nil
}

// DeleteAllPersonalRecords clears the records so they can be rebuilt
func (db *DB) DeleteAllPersonalRecords() error {
	_, err := db.Exec("DELETE FROM personal_records")
	return err
}

func scanPersonalRecord(row scanner) (*analysis.PersonalRecord, error) {
	var pr analysis.PersonalRecord
	var anchor, provenance, achievedAt string

	err := row.Scan(&anchor, &pr.WorkoutID, &pr.Watts, &pr.PaceSecondsPer500, &pr.Distance, &provenance, &achievedAt)
	if err != nil {
		return nil, err
	}

	pr.Anchor = analysis.AnchorKey(anchor)
	pr.Provenance = analysis.Provenance(provenance)
	pr.AchievedAt, err = time.Parse(time.RFC3339, achievedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing achieved_at %q: %w", achievedAt, err)
	}
	return &pr, nil
}
