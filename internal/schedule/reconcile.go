// Package schedule merges AI-recommended care intervals into the durable
// schedule store without silently overwriting user intent: AI-derived
// schedules follow the latest recommendation, user-customized ones surface a
// conflict for the human to settle.
package schedule

import (
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"plantbot/internal/domain"
	"plantbot/internal/interval"
	"plantbot/internal/storage/sqlite"
)

// ReminderSink is the external reminder/notification scheduler. Reconcile
// pokes it exactly once per call so the host can re-arm alarms.
type ReminderSink interface {
	Reschedule(plantID int64)
}

// Reconcile applies a freshly parsed set of care items to the stored
// schedules for one plant and returns the schedules that need explicit user
// confirmation. It reads the existing schedule set once up front and issues
// independent writes; callers that can re-analyze the same plant in quick
// succession must serialize per plant themselves.
func Reconcile(db *sql.DB, plantID int64, items []domain.CareItem, now time.Time, sink ReminderSink) ([]domain.CareSchedule, error) {
	existing, err := sqlite.ListSchedules(db, plantID)
	if err != nil {
		return nil, fmt.Errorf("listing schedules for plant %d: %w", plantID, err)
	}
	byType := make(map[domain.CareType]domain.CareSchedule, len(existing))
	for _, s := range existing {
		byType[s.CareType] = s
	}

	var conflicts []domain.CareSchedule
	for _, item := range items {
		if !domain.Schedulable(item.Type) {
			continue
		}
		days := interval.Parse(item.Frequency)

		cur, ok := byType[item.Type]
		switch {
		case !ok:
			created := domain.CareSchedule{
				PlantID:       plantID,
				CareType:      item.Type,
				FrequencyDays: days,
				IsCustom:      false,
				Enabled:       true,
				NextDue:       now.Add(time.Duration(days) * 24 * time.Hour),
				Notes:         item.Notes,
			}
			if _, err := sqlite.InsertSchedule(db, created); err != nil {
				return conflicts, fmt.Errorf("creating %s schedule for plant %d: %w", item.Type, plantID, err)
			}
			log.Printf("reconcile created plant=%d type=%s days=%d", plantID, item.Type, days)

		case !cur.IsCustom:
			cur.FrequencyDays = days
			cur.Notes = item.Notes
			due, err := nextDueFrom(db, cur.ID, days, now)
			if err != nil {
				return conflicts, err
			}
			cur.NextDue = due
			if err := sqlite.UpdateSchedule(db, cur); err != nil {
				return conflicts, fmt.Errorf("updating %s schedule for plant %d: %w", item.Type, plantID, err)
			}
			log.Printf("reconcile updated plant=%d type=%s days=%d", plantID, item.Type, days)

		case cur.FrequencyDays == days:
			// Custom schedule already matches the recommendation.

		default:
			conflict := cur
			conflict.Notes = EncodePendingNotes(days, cur.Notes)
			conflict.Pending = &domain.PendingRecommendation{
				FrequencyDays: days,
				OriginalNotes: cur.Notes,
			}
			conflicts = append(conflicts, conflict)
			log.Printf("reconcile conflict plant=%d type=%s current=%d proposed=%d", plantID, item.Type, cur.FrequencyDays, days)
		}
	}

	sink.Reschedule(plantID)
	return conflicts, nil
}

// nextDueFrom computes the next due time for a non-custom frequency change:
// from the last completion when one exists, so a recent completion is
// respected, otherwise from now.
func nextDueFrom(db *sql.DB, scheduleID int64, days int, now time.Time) (time.Time, error) {
	base := now
	if last, found, err := sqlite.LastCompletion(db, scheduleID); err != nil {
		return time.Time{}, fmt.Errorf("reading completions for schedule %d: %w", scheduleID, err)
	} else if found {
		base = last
	}
	return base.Add(time.Duration(days) * 24 * time.Hour), nil
}
