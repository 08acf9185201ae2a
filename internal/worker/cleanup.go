package worker

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/asemenov/chatground/internal/history"
)

// Worker runs scheduled maintenance: hourly eviction of conversations that
// have been idle longer than the configured context timeout.
type Worker struct {
	store      history.Store
	staleAfter time.Duration
	cron       *cron.Cron
}

// NewWorker creates the maintenance worker.
func NewWorker(store history.Store, staleAfter time.Duration) *Worker {
	return &Worker{
		store:      store,
		staleAfter: staleAfter,
		cron:       cron.New(),
	}
}

// Start schedules the hourly cleanup job and starts the scheduler.
func (w *Worker) Start() {
	log.Println("[Worker] Starting maintenance scheduler...")

	_, err := w.cron.AddFunc("@hourly", func() {
		// Run async to not block the scheduler
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			removed, err := w.store.CleanupStale(ctx, w.staleAfter)
			if err != nil {
				log.Printf("[Worker] Cleanup failed: %v", err)
				return
			}
			if removed > 0 {
				log.Printf("[Worker] Evicted %d stale conversation entries", removed)
			}
		}()
	})
	if err != nil {
		log.Printf("[Worker] Failed to schedule cleanup job: %v", err)
		return
	}

	w.cron.Start()
	log.Println("[Worker] Scheduled hourly conversation cleanup")
}

// Stop halts the scheduler, waiting for a running job to finish.
func (w *Worker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	log.Println("[Worker] Stopped")
}
