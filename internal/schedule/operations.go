package schedule

import (
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"plantbot/internal/storage/sqlite"
)

// UpdateFrequency is the explicit user-driven override path and the only
// operation that sets isCustom. The next due time is recomputed from the
// last completion (or now) plus the new frequency.
func UpdateFrequency(db *sql.DB, scheduleID int64, frequencyDays int, now time.Time) error {
	s, err := sqlite.GetSchedule(db, scheduleID)
	if err != nil {
		return fmt.Errorf("loading schedule %d: %w", scheduleID, err)
	}
	due, err := nextDueFrom(db, scheduleID, frequencyDays, now)
	if err != nil {
		return err
	}
	s.FrequencyDays = frequencyDays
	s.IsCustom = true
	s.NextDue = due
	if err := sqlite.UpdateSchedule(db, s); err != nil {
		return fmt.Errorf("updating schedule %d: %w", scheduleID, err)
	}
	log.Printf("frequency override schedule=%d days=%d", scheduleID, frequencyDays)
	return nil
}

// ToggleReminders enables or disables every schedule for a plant. Enabling
// recomputes each next due time the same way a non-custom frequency update
// does.
func ToggleReminders(db *sql.DB, plantID int64, enabled bool, now time.Time, sink ReminderSink) error {
	if err := sqlite.SetSchedulesEnabled(db, plantID, enabled); err != nil {
		return fmt.Errorf("toggling schedules for plant %d: %w", plantID, err)
	}
	if enabled {
		schedules, err := sqlite.ListSchedules(db, plantID)
		if err != nil {
			return fmt.Errorf("listing schedules for plant %d: %w", plantID, err)
		}
		for _, s := range schedules {
			due, err := nextDueFrom(db, s.ID, s.FrequencyDays, now)
			if err != nil {
				return err
			}
			s.NextDue = due
			if err := sqlite.UpdateSchedule(db, s); err != nil {
				return fmt.Errorf("rescheduling schedule %d: %w", s.ID, err)
			}
		}
	}
	sink.Reschedule(plantID)
	return nil
}

// AcceptRecommendation promotes a pending AI recommendation: the proposed
// frequency is applied through the non-custom update path and the original
// notes are restored.
func AcceptRecommendation(db *sql.DB, scheduleID int64, days int, originalNotes string, now time.Time) error {
	s, err := sqlite.GetSchedule(db, scheduleID)
	if err != nil {
		return fmt.Errorf("loading schedule %d: %w", scheduleID, err)
	}
	due, err := nextDueFrom(db, scheduleID, days, now)
	if err != nil {
		return err
	}
	s.FrequencyDays = days
	s.IsCustom = false
	s.Notes = originalNotes
	s.NextDue = due
	if err := sqlite.UpdateSchedule(db, s); err != nil {
		return fmt.Errorf("updating schedule %d: %w", scheduleID, err)
	}
	log.Printf("recommendation accepted schedule=%d days=%d", scheduleID, days)
	return nil
}

// MarkCompleted records a completion and pushes the next due time forward
// from the completion instant.
func MarkCompleted(db *sql.DB, scheduleID int64, at time.Time) error {
	s, err := sqlite.GetSchedule(db, scheduleID)
	if err != nil {
		return fmt.Errorf("loading schedule %d: %w", scheduleID, err)
	}
	if err := sqlite.InsertCompletion(db, scheduleID, at); err != nil {
		return fmt.Errorf("recording completion for schedule %d: %w", scheduleID, err)
	}
	s.NextDue = at.Add(time.Duration(s.FrequencyDays) * 24 * time.Hour)
	if err := sqlite.UpdateSchedule(db, s); err != nil {
		return fmt.Errorf("updating schedule %d: %w", scheduleID, err)
	}
	return nil
}

// LogSink is a ReminderSink for hosts without a notification backend.
type LogSink struct{}

func (LogSink) Reschedule(plantID int64) {
	log.Printf("reminder reschedule requested plant=%d", plantID)
}
