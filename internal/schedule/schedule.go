// Package schedule drives periodic work: data reloads on the configured
// cron expression and the once-per-second countdown tick.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "csconfs/internal/log"
)

// cronLogger routes cron's internal logging through appLog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	appLog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	appLog.Error("cron: "+msg, err, keysAndValues...)
}

// Validate checks a standard five-field cron expression. Descriptors such
// as "@hourly" are accepted too.
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("refresh schedule %q: %w", spec, err)
	}
	return nil
}

// Refresher runs a reload function on a cron schedule. Overlapping runs are
// skipped rather than queued.
type Refresher struct {
	c       *cron.Cron
	spec    string
	entryID cron.EntryID
	cancel  context.CancelFunc
}

// NewRefresher schedules reload on spec. reload receives a context that is
// cancelled by Stop.
func NewRefresher(spec string, reload func(ctx context.Context) error) (*Refresher, error) {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	ctx, cancel := context.WithCancel(context.Background())

	id, err := c.AddFunc(spec, func() {
		start := time.Now()
		if err := reload(ctx); err != nil {
			appLog.Error("scheduled refresh failed", err, "schedule", spec)
			return
		}
		appLog.Info("scheduled refresh done", "schedule", spec, "took", time.Since(start).String())
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("refresh schedule %q: %w", spec, err)
	}
	return &Refresher{c: c, spec: spec, entryID: id, cancel: cancel}, nil
}

// Start begins scheduling in the background.
func (r *Refresher) Start() {
	r.c.Start()
	appLog.Info("refresh scheduler started", "schedule", r.spec, "next", r.Next().Format(time.RFC3339))
}

// Next is the next scheduled run, or the zero time before Start.
func (r *Refresher) Next() time.Time {
	return r.c.Entry(r.entryID).Next
}

// Stop cancels a running reload and waits for it to return.
func (r *Refresher) Stop() {
	r.cancel()
	<-r.c.Stop().Done()
}

// Tick calls fn once per second until ctx is done. The first call happens
// immediately so a freshly drawn countdown is never a second stale.
func Tick(ctx context.Context, fn func(now time.Time)) {
	fn(time.Now())

	c := cron.New(cron.WithSeconds(), cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})))
	if _, err := c.AddFunc("@every 1s", func() { fn(time.Now()) }); err != nil {
		// "@every 1s" always parses.
		panic(err)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
}
