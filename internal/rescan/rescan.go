// Package rescan replays the response parser over stored records whose
// reliability status still carries the pre-upgrade default, backfilling
// classification a small batch at a time so it can run opportunistically.
package rescan

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"

	"plantbot/internal/domain"
	"plantbot/internal/parse"
	"plantbot/internal/storage/sqlite"
)

// DefaultBatchSize bounds one opportunistic invocation.
const DefaultBatchSize = 5

// Rescanner walks default-status records within one run. The cursor skips
// records that genuinely re-parse as OK, so repeated batches terminate; a
// fresh Rescanner (next launch or cron tick) starts over from the beginning.
type Rescanner struct {
	db     *sql.DB
	lastID int64
}

func New(db *sql.DB) *Rescanner {
	return &Rescanner{db: db}
}

// RescanBatch classifies up to batchSize candidate records and returns how
// many it examined. Zero means no candidates remain for this run. Each
// status update is an independent, complete write; a record is only touched
// when its fresh classification differs from the stored default.
func (r *Rescanner) RescanBatch(batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	recs, err := sqlite.ListDefaultStatusAnalyses(r.db, r.lastID, batchSize)
	if err != nil {
		return 0, fmt.Errorf("listing rescan candidates: %w", err)
	}
	for _, rec := range recs {
		r.lastID = rec.ID
		outcome := parse.Response(rec.RawResponse)
		if outcome.Status == domain.StatusOK {
			continue
		}
		if err := sqlite.UpdateAnalysisStatus(r.db, rec.ID, outcome.Status); err != nil {
			return 0, fmt.Errorf("updating analysis %d: %w", rec.ID, err)
		}
		log.Printf("rescan reclassified analysis=%d hash=%s status=%s", rec.ID, outcome.ContentHash, outcome.Status)
	}
	return len(recs), nil
}

// Run drains all candidates in batches and returns the total examined.
func (r *Rescanner) Run(batchSize int) (int, error) {
	total := 0
	for {
		n, err := r.RescanBatch(batchSize)
		total += n
		if err != nil || n == 0 {
			return total, err
		}
	}
}
