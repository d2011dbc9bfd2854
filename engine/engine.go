package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/cinelog/cinelog/config"
	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/scheduler"
	"github.com/cinelog/cinelog/tmdb"
)

// CatalogClient is the part of the external catalog API the engine consumes.
type CatalogClient interface {
	ListByCategory(ctx context.Context, mediaType tmdb.MediaType, category tmdb.Category, page int) (*tmdb.Page, error)
	Details(ctx context.Context, mediaType tmdb.MediaType, id int64) (*tmdb.Record, error)
	Genres(ctx context.Context, mediaType tmdb.MediaType) ([]tmdb.GenreRef, error)
}

// Engine ingests records from the external catalog into the local store.
// Outbound calls share a minimum spacing and credit rebuilds are serialized
// per media item.
type Engine struct {
	cfg         *config.Config
	db          *database.Client
	tmdb        CatalogClient
	limiter     *throttle
	locks       *mediaLocks
	sched       *scheduler.Scheduler
	syncOnStart bool
}

// New creates a new Engine instance. With syncOnStart set, a full catalog
// sync is triggered as soon as the engine starts.
func New(cfg *config.Config, db *database.Client, client CatalogClient, syncOnStart bool) (*Engine, error) {
	sched, err := scheduler.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Engine{
		cfg:         cfg,
		db:          db,
		tmdb:        client,
		limiter:     newThrottle(time.Duration(cfg.Sync.RequestSpacing) * time.Millisecond),
		locks:       newMediaLocks(),
		sched:       sched,
		syncOnStart: syncOnStart,
	}, nil
}

// syncJobID identifies the recurring catalog sync job.
const syncJobID = "catalog-sync"

// Run schedules the periodic catalog sync and blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	interval := time.Duration(e.cfg.Sync.Interval) * time.Hour
	err := e.sched.AddSingletonJob(syncJobID, "Catalog sync",
		gocron.DurationJob(interval),
		func(ctx context.Context) error {
			return e.SyncAll(ctx)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to schedule catalog sync: %w", err)
	}

	e.sched.Start()

	if e.syncOnStart {
		if err := e.sched.RunJobNow(syncJobID); err != nil {
			return fmt.Errorf("failed to trigger initial catalog sync: %w", err)
		}
	}

	<-ctx.Done()
	return e.sched.Stop()
}

// RunSyncNow triggers the scheduled catalog sync out of turn. The sync runs
// in the background; overlapping runs are coalesced by the scheduler.
func (e *Engine) RunSyncNow() error {
	return e.sched.RunJobNow(syncJobID)
}

// Close stops the engine and cleans up resources.
func (e *Engine) Close() error {
	return e.sched.Stop()
}

// Jobs returns information about the engine's scheduled jobs.
func (e *Engine) Jobs() []scheduler.JobInfo {
	return e.sched.GetJobs()
}

// throttle enforces a minimum spacing between outbound calls. Each waiter
// reserves the next slot under the lock, so concurrent callers are spaced
// out instead of bunching up.
type throttle struct {
	mu      sync.Mutex
	next    time.Time
	spacing time.Duration
}

func newThrottle(spacing time.Duration) *throttle {
	return &throttle{spacing: spacing}
}

func (t *throttle) wait(ctx context.Context) error {
	if t.spacing <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	now := time.Now()
	slot := t.next
	if slot.Before(now) {
		slot = now
	}
	t.next = slot.Add(t.spacing)
	t.mu.Unlock()

	delay := time.Until(slot)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// mediaLocks serializes credit rebuilds per media item using striped mutexes.
type mediaLocks struct {
	stripes [64]sync.Mutex
}

func newMediaLocks() *mediaLocks {
	return &mediaLocks{}
}

func (l *mediaLocks) lock(mediaID uint) func() {
	m := &l.stripes[mediaID%uint(len(l.stripes))]
	m.Lock()
	return m.Unlock
}
