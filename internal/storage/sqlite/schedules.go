package sqlite

import (
	"database/sql"
	"time"

	"plantbot/internal/domain"
)

const scheduleColumns = `id, plant_id, care_type, frequency_days, is_custom, enabled, next_due, notes, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (domain.CareSchedule, error) {
	var s domain.CareSchedule
	var careType string
	err := row.Scan(
		&s.ID, &s.PlantID, &careType, &s.FrequencyDays, &s.IsCustom,
		&s.Enabled, &s.NextDue, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	s.CareType = domain.CareType(careType)
	return s, err
}

func InsertSchedule(db *sql.DB, s domain.CareSchedule) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO care_schedules (plant_id, care_type, frequency_days, is_custom, enabled, next_due, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.PlantID, string(s.CareType), s.FrequencyDays, s.IsCustom, s.Enabled, s.NextDue, s.Notes,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func GetSchedule(db *sql.DB, id int64) (domain.CareSchedule, error) {
	return scanSchedule(db.QueryRow(
		`SELECT `+scheduleColumns+` FROM care_schedules WHERE id = ?`, id,
	))
}

func ListSchedules(db *sql.DB, plantID int64) ([]domain.CareSchedule, error) {
	rows, err := db.Query(
		`SELECT `+scheduleColumns+` FROM care_schedules WHERE plant_id = ? ORDER BY care_type`, plantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CareSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func UpdateSchedule(db *sql.DB, s domain.CareSchedule) error {
	_, err := db.Exec(
		`UPDATE care_schedules
		 SET frequency_days = ?, is_custom = ?, enabled = ?, next_due = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		s.FrequencyDays, s.IsCustom, s.Enabled, s.NextDue, s.Notes, s.ID,
	)
	return err
}

func SetSchedulesEnabled(db *sql.DB, plantID int64, enabled bool) error {
	_, err := db.Exec(
		`UPDATE care_schedules SET enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE plant_id = ?`,
		enabled, plantID,
	)
	return err
}

func InsertCompletion(db *sql.DB, scheduleID int64, at time.Time) error {
	_, err := db.Exec(
		`INSERT INTO care_completions (schedule_id, completed_at) VALUES (?, ?)`,
		scheduleID, at,
	)
	return err
}

// LastCompletion returns the most recent completion time for a schedule.
// found is false when the schedule has never been marked done.
func LastCompletion(db *sql.DB, scheduleID int64) (last time.Time, found bool, err error) {
	err = db.QueryRow(
		`SELECT completed_at FROM care_completions WHERE schedule_id = ? ORDER BY completed_at DESC LIMIT 1`,
		scheduleID,
	).Scan(&last)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return last, true, nil
}
