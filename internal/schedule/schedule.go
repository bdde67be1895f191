package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/sznuper/keeper/internal/config"
)

// DefaultDebounce is how long the daemon waits after the last write to the
// config file before reloading. Editors often emit several events per save.
const DefaultDebounce = 500 * time.Millisecond

// Loader returns a fully resolved and validated config.
type Loader func() (*config.Config, error)

// Job is one scheduled batch.
type Job func(ctx context.Context, cfg *config.Config)

// Daemon runs Job on the config's cron schedule and rebuilds the schedule
// when the config file changes. At most one Job runs at a time, across
// reloads too.
type Daemon struct {
	Path     string // config file to watch; empty disables reload
	Load     Loader
	Job      Job
	Logger   *slog.Logger
	Debounce time.Duration

	busy sync.Mutex
}

// Run blocks until ctx is cancelled. It fails only when the initial config
// cannot be loaded or scheduled; later reload failures keep the previous
// schedule.
func (d *Daemon) Run(ctx context.Context) error {
	if d.Debounce <= 0 {
		d.Debounce = DefaultDebounce
	}

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if d.Path != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer w.Close()
		// Watch the directory: editors replace files by rename, which drops a
		// watch on the file itself.
		if err := w.Add(filepath.Dir(d.Path)); err != nil {
			return fmt.Errorf("watching %s: %w", d.Path, err)
		}
		events, watchErrs = w.Events, w.Errors
	}

	cfg, err := d.Load()
	if err != nil {
		return err
	}
	c, err := d.start(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { d.shutdown(c) }()

	reload := time.NewTimer(d.Debounce)
	reload.Stop()
	defer reload.Stop()

	target := filepath.Clean(d.Path)
	for {
		select {
		case <-ctx.Done():
			d.Logger.Info("scheduler stopping, waiting for running batch")
			return nil

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			d.Logger.Debug("config changed", "event", ev.Op.String())
			reload.Reset(d.Debounce)

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			d.Logger.Warn("config watcher", "error", err)

		case <-reload.C:
			next, err := d.Load()
			if err != nil {
				d.Logger.Error("reload failed, keeping previous config", "error", err)
				continue
			}
			nc, err := d.start(ctx, next)
			if err != nil {
				d.Logger.Error("reload failed, keeping previous schedule", "error", err)
				continue
			}
			d.stop(c)
			c = nc
			d.Logger.Info("config reloaded", "schedule", next.Schedule, "accounts", len(next.Accounts))
		}
	}
}

func (d *Daemon) start(ctx context.Context, cfg *config.Config) (*cron.Cron, error) {
	logger := cron.PrintfLogger(slog.NewLogLogger(d.Logger.Handler(), slog.LevelDebug))
	c := cron.New(
		cron.WithParser(config.ScheduleParser),
		cron.WithLocation(cfg.Options.Location()),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(cfg.Schedule, func() { d.run(ctx, cfg) }); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", cfg.Schedule, err)
	}
	c.Start()
	d.Logger.Info("scheduler started", "schedule", cfg.Schedule, "next", c.Entries()[0].Next)
	return c, nil
}

// stop halts the scheduler without waiting for a running job; the busy lock
// still keeps the next schedule from overlapping it.
func (d *Daemon) stop(c *cron.Cron) {
	c.Stop()
}

// shutdown halts the scheduler and waits for the batch in flight, including
// one started by a schedule replaced on reload, so every open session gets
// closed and reported.
func (d *Daemon) shutdown(c *cron.Cron) {
	<-c.Stop().Done()
	d.busy.Lock()
	d.busy.Unlock()
}

func (d *Daemon) run(ctx context.Context, cfg *config.Config) {
	if !d.busy.TryLock() {
		d.Logger.Warn("previous batch still running, skipping")
		return
	}
	defer d.busy.Unlock()
	if ctx.Err() != nil {
		return
	}
	d.Job(ctx, cfg)
}
