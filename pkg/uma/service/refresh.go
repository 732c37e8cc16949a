package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/latoulicious/umaroster/pkg/logging"
	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/robfig/cron/v3"
)

// DefaultRefreshTimeout bounds one scheduled reload
const DefaultRefreshTimeout = 2 * time.Minute

// RefreshScheduler reloads the roster store on a cron schedule
type RefreshScheduler struct {
	store    uma.RosterStoreInterface
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	entryID  cron.EntryID
	logger   logging.Logger

	mu      sync.Mutex
	running bool
	started bool
	lastErr error
	lastRun time.Time
}

var _ uma.RefreshSchedulerInterface = (*RefreshScheduler)(nil)

// NewRefreshScheduler validates schedule (standard five-field cron syntax or a descriptor such as "@hourly")
func NewRefreshScheduler(store uma.RosterStoreInterface, schedule string) (*RefreshScheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	rs := &RefreshScheduler{
		store:    store,
		schedule: schedule,
		timeout:  DefaultRefreshTimeout,
		cron:     cron.New(),
		logger:   logging.GetGlobalLoggerFactory().CreateLogger("refresh"),
	}

	entryID, err := rs.cron.AddFunc(schedule, rs.runScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule refresh: %w", err)
	}
	rs.entryID = entryID

	return rs, nil
}

// Start begins scheduled reloads; calling it twice is a no-op
func (rs *RefreshScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.started {
		return
	}
	rs.started = true
	rs.cron.Start()

	rs.logger.Info("Refresh scheduler started", map[string]interface{}{
		"schedule": rs.schedule,
	})
}

// Stop halts the scheduler and waits for a running reload to finish
func (rs *RefreshScheduler) Stop() {
	rs.mu.Lock()
	if !rs.started {
		rs.mu.Unlock()
		return
	}
	rs.started = false
	rs.mu.Unlock()

	<-rs.cron.Stop().Done()
	rs.logger.Info("Refresh scheduler stopped", nil)
}

// RunNow reloads immediately; it fails fast if a reload is already running
func (rs *RefreshScheduler) RunNow(ctx context.Context) error {
	rs.mu.Lock()
	if rs.running {
		rs.mu.Unlock()
		return fmt.Errorf("refresh already running")
	}
	rs.running = true
	rs.mu.Unlock()

	start := time.Now()
	err := rs.store.Load(ctx)

	rs.mu.Lock()
	rs.running = false
	rs.lastErr = err
	rs.lastRun = start
	rs.mu.Unlock()

	fields := map[string]interface{}{
		"duration_ms": time.Since(start).Milliseconds(),
		"count":       rs.store.Count(),
	}
	if err != nil {
		rs.logger.Error("Catalog refresh failed", err, fields)
		return err
	}
	rs.logger.Info("Catalog refresh completed", fields)
	return nil
}

func (rs *RefreshScheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), rs.timeout)
	defer cancel()
	_ = rs.RunNow(ctx)
}

func (rs *RefreshScheduler) GetSchedule() string {
	return rs.schedule
}

// GetNextRun returns the next activation, or zero when stopped
func (rs *RefreshScheduler) GetNextRun() time.Time {
	rs.mu.Lock()
	started := rs.started
	rs.mu.Unlock()
	if !started {
		return time.Time{}
	}
	return rs.cron.Entry(rs.entryID).Next
}

func (rs *RefreshScheduler) IsRunning() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.running
}

// LastResult returns when the last reload started and how it ended
func (rs *RefreshScheduler) LastResult() (time.Time, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.lastRun, rs.lastErr
}
