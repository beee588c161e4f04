// Package analyze drives one photo through the full capture flow: quality
// gate, vision call, layered parse, durable record, schedule reconciliation.
package analyze

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"plantbot/internal/domain"
	"plantbot/internal/parse"
	"plantbot/internal/quality"
	"plantbot/internal/schedule"
	"plantbot/internal/storage/sqlite"
	"plantbot/internal/vision"
)

// Vision is the external AI call. Injected so tests and offline builds can
// substitute the real client.
type Vision func(ctx context.Context, photo []byte) (string, vision.Usage, error)

type Result struct {
	Verdict    quality.Verdict
	ScanID     string
	AnalysisID int64
	Outcome    parse.Outcome
	Conflicts  []domain.CareSchedule
	Usage      vision.Usage
}

// Photo runs the capture flow. A failing quality verdict stops before the
// paid vision call: egregious failures always, borderline failures unless
// the caller passes force (the user's explicit "use anyway").
func Photo(ctx context.Context, db *sql.DB, plantID int64, photo []byte, mode quality.Mode, force bool, vfn Vision, sink schedule.ReminderSink) (*Result, error) {
	scanID := uuid.NewString()
	res := &Result{ScanID: scanID}

	res.Verdict = quality.Check(photo, mode)
	log.Printf("analyze quality scan=%s plant=%d mode=%s %s", scanID, plantID, mode, res.Verdict)
	if !res.Verdict.Pass {
		if res.Verdict.Severity == quality.SeverityEgregious || !force {
			return res, nil
		}
		log.Printf("analyze borderline override scan=%s issue=%s", scanID, res.Verdict.Issue)
	}

	raw, usage, err := vfn(ctx, photo)
	if err != nil {
		return res, fmt.Errorf("vision call: %w", err)
	}
	res.Usage = usage

	res.Outcome = parse.Response(raw)
	log.Printf("analyze parsed scan=%s hash=%s status=%s", scanID, res.Outcome.ContentHash, res.Outcome.Status)

	rec := domain.AnalysisRecord{
		PlantID:           plantID,
		ScanID:            scanID,
		RawResponse:       raw,
		ReliabilityStatus: res.Outcome.Status,
	}
	if r := res.Outcome.Result; r != nil {
		rec.HealthScore = r.HealthAssessment.Score
		rec.Summary = r.HealthAssessment.Summary
		rec.CommonName = r.Identification.CommonName
		rec.ScientificName = r.Identification.ScientificName
	}
	res.AnalysisID, err = sqlite.InsertAnalysis(db, rec)
	if err != nil {
		return res, fmt.Errorf("storing analysis: %w", err)
	}

	if r := res.Outcome.Result; r != nil && r.CarePlan != nil {
		items := BuildCareItems(r.CarePlan)
		res.Conflicts, err = schedule.Reconcile(db, plantID, items, time.Now(), sink)
		if err != nil {
			return res, fmt.Errorf("reconciling schedules: %w", err)
		}
	}
	return res, nil
}

// BuildCareItems flattens a parsed care plan into reconcilable items. The
// frequency phrases are passed through untouched; internal/interval is the
// single place they are turned into days.
func BuildCareItems(plan *domain.CarePlan) []domain.CareItem {
	if plan == nil {
		return nil
	}
	var items []domain.CareItem
	if w := plan.Watering; w != nil {
		items = append(items, domain.CareItem{
			Type:      domain.CareWatering,
			Frequency: w.Frequency,
			Notes:     w.Notes,
		})
	}
	if f := plan.Fertilizer; f != nil {
		items = append(items, domain.CareItem{
			Type:      domain.CareFertilizing,
			Frequency: f.Frequency,
			Notes:     joinNotes(f.Type, f.NextApplication),
		})
	}
	if p := plan.Pruning; p != nil && bool(p.Needed) {
		items = append(items, domain.CareItem{
			Type:      domain.CarePruning,
			Frequency: p.When,
			Notes:     p.Instructions,
		})
	}
	if r := plan.Repotting; r != nil && bool(r.Needed) {
		items = append(items, domain.CareItem{
			Type:      domain.CareRepotting,
			Notes:     joinNotes(r.Signs, r.RecommendedPotSize),
		})
	}
	return items
}

func joinNotes(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "; ")
}
