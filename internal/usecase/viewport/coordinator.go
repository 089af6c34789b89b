package viewport

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/loclane/mapflow/internal/domain"
)

const defaultDebounce = 250 * time.Millisecond

// Coordinator turns a burst of viewport/filter-change requests into at most
// one in-flight fetch at a time: trailing-edge debounce collapses the burst,
// and a request arriving while a fetch is in flight aborts it before the new
// wait is armed. The timer and in-flight attempt are exclusively owned by
// the coordinator and never touched from outside.
type Coordinator struct {
	fetcher  Fetcher
	debounce time.Duration
	newTimer TimerFactory
	hooks    Hooks
	logger   *zap.Logger

	mu         sync.Mutex
	timer      Timer
	pending    *attempt
	pendingGen uint64
	inflight   *attempt
	disposed   bool

	started  uint64
	aborted  uint64
	resolved uint64
	failed   uint64
}

// attempt is one scheduled or in-flight fetch.
type attempt struct {
	vp      domain.Viewport
	filters domain.Filters
	fc      domain.FetchContext
	cancel  context.CancelFunc
}

// Stats is a snapshot of the coordinator's lifecycle counters. At any
// moment started >= aborted + resolved + failed; once the coordinator is
// idle the two sides are equal.
type Stats struct {
	Started  uint64
	Aborted  uint64
	Resolved uint64
	Failed   uint64
}

// NewCoordinator creates a coordinator around fetcher. debounce <= 0 uses
// the default; timerFactory nil uses real timers.
func NewCoordinator(fetcher Fetcher, debounce time.Duration, timerFactory TimerFactory, hooks Hooks, logger *zap.Logger) *Coordinator {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if timerFactory == nil {
		timerFactory = realTimer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		fetcher:  fetcher,
		debounce: debounce,
		newTimer: timerFactory,
		hooks:    hooks,
		logger:   logger,
	}
}

// Request schedules a fetch for the viewport after the debounce quiet
// period. A request arriving while a previous one is still debouncing
// restarts the wait; one arriving while a fetch is in flight aborts that
// fetch first.
func (c *Coordinator) Request(vp domain.Viewport, filters domain.Filters, fc domain.FetchContext) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return domain.ErrSessionDisposed
	}

	aborted := c.abortInflightLocked()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	c.pendingGen++
	gen := c.pendingGen
	c.pending = &attempt{vp: vp, filters: filters, fc: fc}
	c.timer = c.newTimer(c.debounce, func() { c.fire(gen) })
	c.mu.Unlock()

	if aborted != nil && c.hooks.OnAbort != nil {
		c.hooks.OnAbort(aborted.fc)
	}
	return nil
}

// abortInflightLocked cancels the in-flight attempt, if any, and returns it
// so the caller can fire hooks outside the lock.
func (c *Coordinator) abortInflightLocked() *attempt {
	a := c.inflight
	if a == nil {
		return nil
	}
	c.inflight = nil
	c.aborted++
	a.cancel()
	c.logger.Debug("fetch aborted",
		zap.String("cause", string(a.fc.Cause)),
		zap.Uint64("seq", a.fc.Seq),
	)
	return a
}

// fire moves the pending attempt to in-flight once its debounce timer
// elapses. A stale generation means a newer request re-armed the timer
// after this closure was already scheduled.
func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	if c.disposed || c.pending == nil || gen != c.pendingGen {
		c.mu.Unlock()
		return
	}

	a := c.pending
	c.pending = nil
	c.timer = nil

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	c.inflight = a
	c.started++
	c.mu.Unlock()

	if c.hooks.OnStart != nil {
		c.hooks.OnStart(a.fc)
	}
	go c.run(ctx, a)
}

func (c *Coordinator) run(ctx context.Context, a *attempt) {
	points, err := c.fetcher.FetchViewport(ctx, a.vp, a.filters)

	c.mu.Lock()
	if c.inflight != a {
		// Superseded or disposed while running: the abort was already
		// counted and announced. The result, if any, is discarded.
		c.mu.Unlock()
		return
	}
	c.inflight = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Cancellation surfaced by the fetcher itself; not an
			// application error.
			c.aborted++
			c.mu.Unlock()
			if c.hooks.OnAbort != nil {
				c.hooks.OnAbort(a.fc)
			}
			return
		}
		c.failed++
		c.mu.Unlock()
		c.logger.Warn("viewport fetch failed",
			zap.String("cause", string(a.fc.Cause)),
			zap.Uint64("seq", a.fc.Seq),
			zap.Error(err),
		)
		if c.hooks.OnError != nil {
			c.hooks.OnError(a.fc, err)
		}
		return
	}

	c.resolved++
	c.mu.Unlock()

	if c.hooks.OnResolve != nil {
		c.hooks.OnResolve(a.fc, points)
	}
}

// Dispose halts the coordinator: the pending timer is stopped, the
// in-flight fetch is aborted, and every later Request fails with
// ErrSessionDisposed.
func (c *Coordinator) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.pending = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	aborted := c.abortInflightLocked()
	c.mu.Unlock()

	if aborted != nil && c.hooks.OnAbort != nil {
		c.hooks.OnAbort(aborted.fc)
	}
}

// Stats returns a snapshot of the lifecycle counters.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Started:  c.started,
		Aborted:  c.aborted,
		Resolved: c.resolved,
		Failed:   c.failed,
	}
}
