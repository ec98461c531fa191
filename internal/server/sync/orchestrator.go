package sync

import (
	"context"

	"github.com/dmitrijs2005/stravastats/internal/logging"
	"github.com/dmitrijs2005/stravastats/internal/server/models"
	"github.com/dmitrijs2005/stravastats/internal/server/repositories/activities"
)

// Status tells whether a sync run ended by exhaustion (or the page cap) or
// stopped early on an error. A failed run still carries the partial count.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Report summarizes one sync run. Saved counts records submitted to the
// store, which progress displays rely on; it is not a rows-changed count.
type Report struct {
	Saved  int    `json:"saved"`
	Pages  int    `json:"pages"`
	Status Status `json:"status"`
}

// PageFetcher is the page-retrieval seam the orchestrator drives.
type PageFetcher interface {
	FetchPage(ctx context.Context, userID int64, page int) ([]models.Activity, error)
}

// Orchestrator walks provider pages in order and upserts each into the store.
type Orchestrator struct {
	fetcher PageFetcher
	store   activities.Repository
	logger  logging.Logger
}

func NewOrchestrator(fetcher PageFetcher, store activities.Repository, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher: fetcher,
		store:   store,
		logger:  logger.With("module", "sync"),
	}
}

// Sync fetches pages 1..maxPages, stopping at the first empty page or error.
// The report always carries the cumulative saved count; status failed means
// the count may be short of what the provider holds, and the cause is
// returned alongside so the caller can surface a partial-failure rather
// than presenting a truncated sync as success.
func (o *Orchestrator) Sync(ctx context.Context, userID int64, maxPages int) (Report, error) {
	report := Report{Status: StatusCompleted}

	for page := 1; page <= maxPages; page++ {
		acts, err := o.fetcher.FetchPage(ctx, userID, page)
		if err != nil {
			o.logger.Error(ctx, "page fetch failed", "user_id", userID, "page", page, "error", err)
			report.Status = StatusFailed
			return report, err
		}
		report.Pages++

		if len(acts) == 0 {
			break
		}

		count, err := o.store.Upsert(ctx, userID, acts)
		report.Saved += count
		if err != nil {
			o.logger.Error(ctx, "activity upsert failed", "user_id", userID, "page", page, "error", err)
			report.Status = StatusFailed
			return report, err
		}

		o.logger.Debug(ctx, "page saved", "user_id", userID, "page", page, "count", count)
	}

	o.logger.Info(ctx, "sync finished", "user_id", userID, "saved", report.Saved, "pages", report.Pages)
	return report, nil
}
