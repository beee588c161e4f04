// Package sqlite owns the two durable record stores of the engine: analysis
// records and care schedules (plus their completion log and the plants they
// belong to).
package sqlite

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS plants (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		species    TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS analyses (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		plant_id           INTEGER NOT NULL,
		scan_id            TEXT DEFAULT '',
		raw_response       TEXT DEFAULT '',
		reliability_status TEXT NOT NULL DEFAULT 'ok',
		health_score       INTEGER DEFAULT 0,
		summary            TEXT DEFAULT '',
		common_name        TEXT DEFAULT '',
		scientific_name    TEXT DEFAULT '',
		created_at         DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_plant ON analyses(plant_id);
	CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(reliability_status);

	CREATE TABLE IF NOT EXISTS care_schedules (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		plant_id       INTEGER NOT NULL,
		care_type      TEXT NOT NULL,
		frequency_days INTEGER NOT NULL,
		is_custom      INTEGER NOT NULL DEFAULT 0,
		enabled        INTEGER NOT NULL DEFAULT 1,
		next_due       DATETIME NOT NULL,
		notes          TEXT DEFAULT '',
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(plant_id, care_type)
	);
	CREATE INDEX IF NOT EXISTS idx_schedules_plant ON care_schedules(plant_id);

	CREATE TABLE IF NOT EXISTS care_completions (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		schedule_id  INTEGER NOT NULL,
		completed_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_completions_schedule ON care_completions(schedule_id);
	`
	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	// Migration: databases created before reliability classification lack
	// the status column. The default 'ok' is what makes the background
	// rescanner necessary for pre-upgrade rows.
	var colCount int
	_ = db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('analyses') WHERE name = 'reliability_status'`).Scan(&colCount)
	if colCount == 0 {
		_, _ = db.Exec(`ALTER TABLE analyses ADD COLUMN reliability_status TEXT NOT NULL DEFAULT 'ok'`)
	}

	return db, nil
}
