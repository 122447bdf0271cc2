package pipeline

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	appLog "callay/internal/log"
)

// Watcher recomputes the default month layout on the configured cron
// schedule and writes it to the output file.
type Watcher struct {
	r   *Runner
	out string

	mu      sync.Mutex
	lastKey string
}

// NewWatcher writes snapshots of r to out.
func NewWatcher(r *Runner, out string) *Watcher {
	return &Watcher{r: r, out: out}
}

// Refresh runs one cycle. It reports whether a new snapshot was written;
// unchanged sources over an unchanged range are skipped.
func (w *Watcher) Refresh(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	start, end, err := w.r.Range("", "")
	if err != nil {
		return false, err
	}
	in, err := w.r.Events(ctx, start, end)
	if err != nil {
		return false, err
	}

	key := w.r.cal.DateKey(start) + "|" + in.Digest
	if key == w.lastKey {
		appLog.Debug("watch: sources unchanged, skipping", "range_start", w.r.cal.DateKey(start))
		return false, nil
	}

	snap, err := w.r.layout(ModeMonth, start, end, in.Events)
	if err != nil {
		return false, err
	}
	if err := SaveJSON(w.out, snap); err != nil {
		return false, err
	}
	w.lastKey = key
	appLog.Info("watch: snapshot written", "path", w.out, "range_start", snap.RangeStart, "range_end", snap.RangeEnd)
	return true, nil
}

// Run refreshes once, then on every tick of the refresh schedule until ctx
// is canceled. Ticks that fire while a refresh is still running are dropped.
func (w *Watcher) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithLocation(w.r.cal.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(w.r.cfg.RefreshCron, func() { w.tick(ctx) }); err != nil {
		return err
	}

	w.tick(ctx)
	c.Start()
	appLog.Info("watch: scheduler started", "refresh", w.r.cfg.RefreshCron, "output", w.out)

	<-ctx.Done()
	stopped := c.Stop() // wait for a running refresh
	<-stopped.Done()
	appLog.Info("watch: scheduler stopped")
	return nil
}

func (w *Watcher) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := w.Refresh(ctx); err != nil {
		appLog.Error("watch: refresh failed", err)
	}
}
