package domain

import "time"

type CareType string

const (
	CareWatering    CareType = "watering"
	CareFertilizing CareType = "fertilizing"
	CareRepotting   CareType = "repotting"
	CarePruning     CareType = "pruning"
)

// Schedulable reports whether a care type gets a recurring schedule. Pruning
// and anything else the AI invents is displayed only, never scheduled.
func Schedulable(t CareType) bool {
	switch t {
	case CareWatering, CareFertilizing, CareRepotting:
		return true
	}
	return false
}

// PendingRecommendation carries an AI-recommended frequency that conflicts
// with a user-customized schedule and is waiting for a human decision.
type PendingRecommendation struct {
	FrequencyDays int
	OriginalNotes string
}

type CareSchedule struct {
	ID            int64
	PlantID       int64
	CareType      CareType
	FrequencyDays int // always within [1, 90]
	IsCustom      bool
	Enabled       bool
	NextDue       time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Pending is set only on conflict copies returned by the reconciler.
	// It is never persisted; the notes sentinel is its wire encoding.
	Pending *PendingRecommendation
}

// CareItem is one care recommendation derived from a freshly parsed care
// plan, before reconciliation against the stored schedules.
type CareItem struct {
	Type      CareType
	Frequency string // natural-language phrase, e.g. "every 2-3 weeks"
	Notes     string
}
