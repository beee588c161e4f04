package rescan

import (
	"database/sql"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"plantbot/internal/config"
)

// StartScheduler runs rescan sweeps on the configured cron schedule. Each
// tick starts a fresh cursor, so records reclassified since the last sweep
// are picked up and OK records are re-checked at most once per sweep.
func StartScheduler(cfg config.Config, db *sql.DB) {
	schedule := strings.TrimSpace(cfg.RescanSchedule)
	if schedule == "" {
		log.Println("Rescan disabled (rescan_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid rescan_schedule '%s': %v, rescan disabled", schedule, err)
		return
	}
	log.Printf("Rescan scheduled (cron: %s) batch=%d", schedule, cfg.RescanBatchSize)

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next rescan at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			total, err := New(db).Run(cfg.RescanBatchSize)
			if err != nil {
				log.Printf("Rescan error: %v", err)
			}
			log.Printf("Rescan complete: examined=%d", total)
		}
	}()
}
