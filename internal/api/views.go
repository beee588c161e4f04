package api

import (
	"time"

	"plantbot/internal/analyze"
	"plantbot/internal/domain"
)

type scheduleView struct {
	ID            int64     `json:"id"`
	PlantID       int64     `json:"plant_id"`
	CareType      string    `json:"care_type"`
	FrequencyDays int       `json:"frequency_days"`
	IsCustom      bool      `json:"is_custom"`
	Enabled       bool      `json:"enabled"`
	NextDue       time.Time `json:"next_due"`
	Notes         string    `json:"notes"`
}

func scheduleViews(schedules []domain.CareSchedule) []scheduleView {
	out := make([]scheduleView, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, scheduleView{
			ID:            s.ID,
			PlantID:       s.PlantID,
			CareType:      string(s.CareType),
			FrequencyDays: s.FrequencyDays,
			IsCustom:      s.IsCustom,
			Enabled:       s.Enabled,
			NextDue:       s.NextDue,
			Notes:         s.Notes,
		})
	}
	return out
}

type analysisView struct {
	ID                int64     `json:"id"`
	PlantID           int64     `json:"plant_id"`
	ScanID            string    `json:"scan_id"`
	ReliabilityStatus string    `json:"reliability_status"`
	HealthScore       int       `json:"health_score"`
	Summary           string    `json:"summary"`
	CommonName        string    `json:"common_name"`
	ScientificName    string    `json:"scientific_name"`
	CreatedAt         time.Time `json:"created_at"`
}

func toAnalysisView(rec domain.AnalysisRecord) analysisView {
	return analysisView{
		ID:                rec.ID,
		PlantID:           rec.PlantID,
		ScanID:            rec.ScanID,
		ReliabilityStatus: string(rec.ReliabilityStatus),
		HealthScore:       rec.HealthScore,
		Summary:           rec.Summary,
		CommonName:        rec.CommonName,
		ScientificName:    rec.ScientificName,
		CreatedAt:         rec.CreatedAt,
	}
}

type verdictView struct {
	Pass            bool    `json:"pass"`
	Issue           string  `json:"issue"`
	Severity        string  `json:"severity"`
	OverrideAllowed bool    `json:"override_allowed"`
	BlurScore       float64 `json:"blur_score"`
	Brightness      float64 `json:"brightness"`
}

type analyzeResponse struct {
	ScanID     string                `json:"scan_id"`
	Verdict    verdictView           `json:"verdict"`
	AnalysisID int64                 `json:"analysis_id,omitempty"`
	Status     string                `json:"status,omitempty"`
	Result     *domain.PlantAnalysis `json:"result,omitempty"`
	Conflicts  []scheduleView        `json:"conflicts,omitempty"`
}

func analyzeView(res *analyze.Result) analyzeResponse {
	return analyzeResponse{
		ScanID: res.ScanID,
		Verdict: verdictView{
			Pass:            res.Verdict.Pass,
			Issue:           string(res.Verdict.Issue),
			Severity:        string(res.Verdict.Severity),
			OverrideAllowed: res.Verdict.OverrideAllowed,
			BlurScore:       res.Verdict.BlurScore,
			Brightness:      res.Verdict.Brightness,
		},
		AnalysisID: res.AnalysisID,
		Status:     string(res.Outcome.Status),
		Result:     res.Outcome.Result,
		Conflicts:  scheduleViews(res.Conflicts),
	}
}
