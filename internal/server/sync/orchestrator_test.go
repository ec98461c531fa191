package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/stravastats/internal/logging"
	"github.com/dmitrijs2005/stravastats/internal/server/models"
	"github.com/dmitrijs2005/stravastats/internal/server/repositories/activities"
)

// pagedFetcher serves predefined pages; pages beyond the list are empty.
type pagedFetcher struct {
	pages   [][]models.Activity
	errPage int // 1-based page that fails; 0 disables
	calls   []int
}

func (p *pagedFetcher) FetchPage(ctx context.Context, userID int64, page int) ([]models.Activity, error) {
	p.calls = append(p.calls, page)
	if p.errPage != 0 && page == p.errPage {
		return nil, errors.New("boom")
	}
	if page > len(p.pages) {
		return nil, nil
	}
	return p.pages[page-1], nil
}

func makePage(start, n int) []models.Activity {
	acts := make([]models.Activity, 0, n)
	for i := 0; i < n; i++ {
		acts = append(acts, models.Activity{
			ExternalID: int64(start + i),
			Name:       fmt.Sprintf("activity %d", start+i),
		})
	}
	return acts
}

func newOrchestrator(fetcher PageFetcher, store activities.Repository) *Orchestrator {
	return NewOrchestrator(fetcher, store, logging.NewSlogLogger(slog.Default()))
}

func TestSync_StopsOnEmptyPageAndCountsSaved(t *testing.T) {
	fetcher := &pagedFetcher{pages: [][]models.Activity{makePage(1, 50), makePage(51, 50)}}
	store := activities.NewInMemoryRepository()
	o := newOrchestrator(fetcher, store)

	report, err := o.Sync(context.Background(), 42, 5)
	require.NoError(t, err)

	assert.Equal(t, 100, report.Saved)
	assert.Equal(t, 3, report.Pages)
	assert.Equal(t, StatusCompleted, report.Status)
	// Page 3 came back empty; pages 4 and 5 must not be attempted.
	assert.Equal(t, []int{1, 2, 3}, fetcher.calls)

	stored, err := store.ListForUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, stored, 100)

	seen := make(map[int64]bool, len(stored))
	for _, a := range stored {
		assert.False(t, seen[a.ExternalID], "duplicate external id %d", a.ExternalID)
		seen[a.ExternalID] = true
	}
}

func TestSync_StopsAtMaxPages(t *testing.T) {
	fetcher := &pagedFetcher{pages: [][]models.Activity{
		makePage(1, 50), makePage(51, 50), makePage(101, 50),
	}}
	store := activities.NewInMemoryRepository()
	o := newOrchestrator(fetcher, store)

	report, err := o.Sync(context.Background(), 42, 2)
	require.NoError(t, err)

	assert.Equal(t, 100, report.Saved)
	assert.Equal(t, StatusCompleted, report.Status)
	assert.Equal(t, []int{1, 2}, fetcher.calls)
}

func TestSync_FetchErrorReportsFailedWithPartialCount(t *testing.T) {
	fetcher := &pagedFetcher{
		pages:   [][]models.Activity{makePage(1, 50), makePage(51, 50)},
		errPage: 2,
	}
	store := activities.NewInMemoryRepository()
	o := newOrchestrator(fetcher, store)

	report, err := o.Sync(context.Background(), 42, 5)
	require.Error(t, err)

	assert.Equal(t, StatusFailed, report.Status)
	assert.Equal(t, 50, report.Saved)
	assert.Equal(t, []int{1, 2}, fetcher.calls)
}

func TestSync_OverlappingPagesCollapseByExternalID(t *testing.T) {
	// Page 2 repeats the last records of page 1, as can happen when new
	// activities arrive between page fetches.
	fetcher := &pagedFetcher{pages: [][]models.Activity{makePage(1, 50), makePage(41, 50)}}
	store := activities.NewInMemoryRepository()
	o := newOrchestrator(fetcher, store)

	report, err := o.Sync(context.Background(), 42, 5)
	require.NoError(t, err)

	// Submitted count still reflects both full pages.
	assert.Equal(t, 100, report.Saved)

	stored, err := store.ListForUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, stored, 90)
}
