package catalog

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/robfig/cron/v3"
)

// Refresher rediscovers a catalog on a cron schedule.
type Refresher struct {
	// OnRefresh, when set before Start, receives the tools of every
	// successful refresh.
	OnRefresh func([]Tool)

	catalog  *Catalog
	schedule string
	cron     *cron.Cron

	mu  sync.Mutex
	ctx context.Context
	// runs counts completed refreshes
	runs int
}

// NewRefresher validates schedule, a standard 5-field cron expression or a
// descriptor such as "@every 10m".
func NewRefresher(c *Catalog, schedule string) (*Refresher, error) {
	r := &Refresher{
		catalog:  c,
		schedule: schedule,
		cron:     cron.New(),
		ctx:      context.Background(),
	}
	if _, err := r.cron.AddFunc(schedule, r.refresh); err != nil {
		return nil, errors.Wrapf(err, "invalid refresh schedule %q", schedule)
	}
	return r, nil
}

// Start runs the schedule. Blocks until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()

	r.cron.Start()
	logger.ContextKV(ctx, xlog.INFO, "status", "refresher_started", "schedule", r.schedule)

	<-ctx.Done()
	<-r.cron.Stop().Done()
	logger.KV(xlog.INFO, "status", "refresher_stopped", "runs", r.Runs())
	return ctx.Err()
}

// Runs returns how many refreshes have completed.
func (r *Refresher) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

func (r *Refresher) refresh() {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()

	tools, err := r.catalog.Discover(ctx)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING, "reason", "refresh", "err", err.Error())
		return
	}

	r.mu.Lock()
	r.runs++
	r.mu.Unlock()
	logger.ContextKV(ctx, xlog.DEBUG, "status", "refreshed", "tools", len(tools))
	if r.OnRefresh != nil {
		r.OnRefresh(tools)
	}
}
