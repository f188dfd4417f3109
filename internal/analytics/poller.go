package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/AdithyaRRb/AI-sales-bot/internal/api"
)

// RefreshInterval is the dashboard auto-refresh cadence.
const RefreshInterval = 30 * time.Second

// Fetcher pulls the owner's records from the backend.
type Fetcher func(ctx context.Context) ([]api.FileSummaryRecord, error)

// Poller keeps an in-memory snapshot of the owner's records, replacing it
// wholesale on each refresh. Refreshes are best-effort: a failure leaves the
// previous snapshot in place and is only logged.
type Poller struct {
	fetch  Fetcher
	store  *Store
	userID string
	logger *slog.Logger

	// onNewData fires when a refresh finds more records than before.
	onNewData func(added int)

	mu        sync.RWMutex
	records   []api.FileSummaryRecord
	lastCount int
}

// NewPoller creates a poller. store may be nil to disable the local mirror.
func NewPoller(fetch Fetcher, store *Store, userID string, logger *slog.Logger) *Poller {
	p := &Poller{fetch: fetch, store: store, userID: userID, logger: logger}
	if store != nil {
		if cached, err := store.Load(userID); err != nil {
			logger.Warn("failed to load analytics snapshot", "error", err)
		} else {
			p.records = cached
			p.lastCount = len(cached)
		}
	}
	return p
}

// OnNewData registers the hook fired when new records appear.
func (p *Poller) OnNewData(fn func(added int)) {
	p.onNewData = fn
}

// Records returns a copy of the current snapshot.
func (p *Poller) Records() []api.FileSummaryRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]api.FileSummaryRecord, len(p.records))
	copy(out, p.records)
	return out
}

// Refresh fetches and replaces the snapshot. Idempotent; safe to call from
// the ticker and from user-triggered refreshes alike.
func (p *Poller) Refresh(ctx context.Context) error {
	records, err := p.fetch(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	previous := p.lastCount
	p.records = records
	p.lastCount = len(records)
	notify := p.onNewData
	p.mu.Unlock()

	if p.store != nil {
		if err := p.store.Replace(p.userID, records); err != nil {
			p.logger.Warn("failed to mirror analytics snapshot", "error", err)
		}
	}

	if notify != nil && previous > 0 && len(records) > previous {
		notify(len(records) - previous)
	}
	return nil
}

// Run refreshes every RefreshInterval until ctx is done. Errors are
// swallowed after logging so one bad poll never stops the loop.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				p.logger.Warn("analytics auto-refresh failed", "error", err)
			}
		}
	}
}
