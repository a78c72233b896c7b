package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			user_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Workouts (logbook results and imported FIT files)
		`CREATE TABLE IF NOT EXISTS workouts (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			machine TEXT,
			workout_type TEXT,
			kind_hint TEXT,
			distance REAL NOT NULL,
			duration_seconds REAL NOT NULL,
			completed_at TEXT NOT NULL,
			stroke_rate INTEGER,
			heart_rate INTEGER,
			comments TEXT,
			has_strokes INTEGER NOT NULL DEFAULT 0,
			strokes_synced INTEGER NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_completed_at ON workouts(completed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_strokes ON workouts(has_strokes, strokes_synced)`,

		// Interval segments, in workout order
		`CREATE TABLE IF NOT EXISTS workout_segments (
			workout_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			kind TEXT NOT NULL,
			distance REAL NOT NULL,
			elapsed_ds INTEGER NOT NULL,
			stroke_rate INTEGER,
			PRIMARY KEY (workout_id, idx),
			FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
		)`,

		// Stroke samples (power already normalized to watts)
		`CREATE TABLE IF NOT EXISTS stroke_samples (
			workout_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			time_seconds REAL NOT NULL,
			distance REAL,
			watts REAL NOT NULL,
			stroke_rate INTEGER,
			PRIMARY KEY (workout_id, idx),
			FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
		)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Personal Records (best power per anchor)
		`CREATE TABLE IF NOT EXISTS personal_records (
			anchor TEXT PRIMARY KEY,
			workout_id TEXT NOT NULL,
			watts REAL NOT NULL,
			pace_seconds REAL NOT NULL,
			distance REAL NOT NULL,
			provenance TEXT NOT NULL,
			achieved_at TEXT NOT NULL,
			FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_personal_records_workout ON personal_records(workout_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
