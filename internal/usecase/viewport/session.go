// Package viewport keeps an interactive map's visible pins correct while
// pan, zoom, filter, and drill-down events fire in rapid, overlapping
// succession. It couples three pieces: a debounced, cancellable fetch
// coordinator; an intent compatibility gate that decides whether a
// just-completed fetch is still relevant; and the cluster index rebuilt
// from each applied result.
package viewport

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loclane/mapflow/internal/cluster"
	"github.com/loclane/mapflow/internal/domain"
	"github.com/loclane/mapflow/internal/metrics"
)

// Session is the per-map-view controller. It owns the sequence counter and
// live intent (never shared between sessions: two maps on screen must not
// cross-contaminate sequence numbers), dispatches fetches through its
// coordinator, gates results at apply time, and maintains the current
// cluster index for the render layer.
type Session struct {
	id     string
	coord  *Coordinator
	logger *zap.Logger

	clusterCfg cluster.Config
	onUpdate   func(points []domain.Point)
	userHooks  Hooks

	mu       sync.Mutex
	seq      uint64
	intent   domain.Intent
	index    *cluster.Index
	outcomes map[domain.ApplyOutcome]uint64
	disposed bool
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	debounce     time.Duration
	timerFactory TimerFactory
	clusterCfg   cluster.Config
	hooks        Hooks
	onUpdate     func(points []domain.Point)
	logger       *zap.Logger
}

// WithDebounce sets the quiet period before a trailing fetch fires.
func WithDebounce(d time.Duration) SessionOption {
	return func(c *sessionConfig) { c.debounce = d }
}

// WithTimerFactory injects the debounce timer source (tests).
func WithTimerFactory(f TimerFactory) SessionOption {
	return func(c *sessionConfig) { c.timerFactory = f }
}

// WithClusterConfig sets how applied point sets are clustered.
func WithClusterConfig(cfg cluster.Config) SessionOption {
	return func(c *sessionConfig) { c.clusterCfg = cfg }
}

// WithHooks attaches fetch lifecycle callbacks.
func WithHooks(h Hooks) SessionOption {
	return func(c *sessionConfig) { c.hooks = h }
}

// WithOnUpdate attaches a callback fired after a result passes the apply
// gate and the cluster index has been rebuilt.
func WithOnUpdate(fn func(points []domain.Point)) SessionOption {
	return func(c *sessionConfig) { c.onUpdate = fn }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(c *sessionConfig) { c.logger = l }
}

// NewSession creates a viewport session around fetcher. The session starts
// with the Idle intent, sequence zero, and an empty cluster index.
func NewSession(fetcher Fetcher, opts ...SessionOption) *Session {
	cfg := sessionConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}

	s := &Session{
		id:         uuid.NewString(),
		logger:     cfg.logger,
		clusterCfg: cfg.clusterCfg,
		onUpdate:   cfg.onUpdate,
		userHooks:  cfg.hooks,
		intent:     domain.Idle(),
		outcomes:   make(map[domain.ApplyOutcome]uint64),
	}

	hooks := Hooks{
		OnStart: func(fc domain.FetchContext) {
			metrics.FetchesStarted.Inc()
			if s.userHooks.OnStart != nil {
				s.userHooks.OnStart(fc)
			}
		},
		OnAbort: func(fc domain.FetchContext) {
			metrics.FetchesAborted.Inc()
			if s.userHooks.OnAbort != nil {
				s.userHooks.OnAbort(fc)
			}
		},
		OnResolve: s.apply,
		OnError: func(fc domain.FetchContext, err error) {
			metrics.FetchesFailed.Inc()
			if s.userHooks.OnError != nil {
				s.userHooks.OnError(fc, err)
			}
		},
	}
	s.coord = NewCoordinator(fetcher, cfg.debounce, cfg.timerFactory, hooks, cfg.logger)
	return s
}

// ID returns the session's unique id (diagnostics only).
func (s *Session) ID() string { return s.id }

// BumpIntent records a meaningful UI state change: the live intent is
// replaced and the sequence counter advances exactly once. Call it per
// gesture, not per keystroke or pixel. Any response dispatched under the
// previous sequence becomes stale.
func (s *Session) BumpIntent(intent domain.Intent) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.intent = intent
	s.logger.Debug("intent changed",
		zap.String("session", s.id),
		zap.String("intent", string(intent.Kind())),
		zap.Uint64("seq", s.seq),
	)
	return s.seq
}

// Request schedules a debounced fetch for the viewport, tagged with the
// current sequence and the cause derived from the live intent. Under the
// Idle intent nothing is fetched: Idle never triggers a write.
func (s *Session) Request(vp domain.Viewport, filters domain.Filters) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return domain.ErrSessionDisposed
	}
	cause, ok := s.intent.Cause()
	seq := s.seq
	s.mu.Unlock()

	if !ok {
		s.logger.Debug("request ignored under idle intent", zap.String("session", s.id))
		return nil
	}
	return s.coord.Request(vp, filters, domain.FetchContext{Cause: cause, Seq: seq})
}

// apply is the gate between a resolved fetch and visible state. Staleness
// is checked before compatibility: an old-but-compatible result must still
// lose to a world that has moved past it.
func (s *Session) apply(fc domain.FetchContext, points []domain.Point) {
	s.mu.Lock()
	outcome := s.classifyLocked(fc)
	s.outcomes[outcome]++

	if outcome != domain.ApplyOK {
		s.mu.Unlock()
		metrics.ApplyOutcomes.WithLabelValues(string(outcome)).Inc()
		s.logger.Debug("fetch result dropped",
			zap.String("session", s.id),
			zap.String("outcome", string(outcome)),
			zap.String("cause", string(fc.Cause)),
			zap.Uint64("seq", fc.Seq),
		)
		return
	}

	start := time.Now()
	s.index = cluster.Build(points, s.clusterCfg)
	s.mu.Unlock()

	metrics.ApplyOutcomes.WithLabelValues(string(domain.ApplyOK)).Inc()
	metrics.IndexBuildSeconds.Observe(time.Since(start).Seconds())
	metrics.IndexPoints.Set(float64(len(points)))
	if s.userHooks.OnResolve != nil {
		s.userHooks.OnResolve(fc, points)
	}
	if s.onUpdate != nil {
		s.onUpdate(points)
	}
}

func (s *Session) classifyLocked(fc domain.FetchContext) domain.ApplyOutcome {
	if fc.Seq < s.seq {
		return domain.DropStale
	}
	if !domain.CauseCompatibleWithIntent(fc.Cause, s.intent) {
		return domain.DropIncompatible
	}
	return domain.ApplyOK
}

// Clusters returns the clusters and loose points visible at bbox/zoom in
// the most recently applied point set. Before any apply the result is
// empty.
func (s *Session) Clusters(bbox domain.BBox, zoom int) []domain.Cluster {
	s.mu.Lock()
	ix := s.index
	s.mu.Unlock()
	if ix == nil {
		return nil
	}
	return ix.ClustersInView(bbox, zoom)
}

// ExpandCluster returns the minimum zoom at which the cluster splits.
func (s *Session) ExpandCluster(id string, currentZoom int) (int, error) {
	s.mu.Lock()
	ix := s.index
	s.mu.Unlock()
	if ix == nil {
		return 0, domain.ErrClusterNotFound
	}
	return ix.ExpansionZoom(id, currentZoom)
}

// MemberIDs resolves cluster ids to the underlying listing ids.
func (s *Session) MemberIDs(ids ...string) ([]string, error) {
	s.mu.Lock()
	ix := s.index
	s.mu.Unlock()
	if ix == nil {
		return nil, domain.ErrClusterNotFound
	}
	return ix.MemberIDs(ids...)
}

// Stats returns the coordinator's lifecycle counters.
func (s *Session) Stats() Stats { return s.coord.Stats() }

// Outcomes returns a snapshot of apply-gate classifications.
func (s *Session) Outcomes() map[domain.ApplyOutcome]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.ApplyOutcome]uint64, len(s.outcomes))
	for k, v := range s.outcomes {
		out[k] = v
	}
	return out
}

// Intent returns the live intent.
func (s *Session) Intent() domain.Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intent
}

// Seq returns the current sequence number.
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Dispose halts the session and its coordinator. Idempotent.
func (s *Session) Dispose() {
	s.mu.Lock()
	s.disposed = true
	s.mu.Unlock()
	s.coord.Dispose()
}
