package mapflow

import (
	"time"

	"github.com/loclane/mapflow/internal/domain"
	"github.com/loclane/mapflow/internal/usecase/viewport"
)

// Intent is the map UI's current high-level activity. Fetch results are
// only applied while they still match the live intent, so results from an
// abandoned gesture never overwrite the current view.
type Intent struct {
	d domain.Intent
}

// IdleIntent is the initial state. It never triggers a fetch.
func IdleIntent() Intent { return Intent{d: domain.Idle()} }

// FilterIntent marks the user editing filters or a ZIP code.
func FilterIntent() Intent { return Intent{d: domain.FiltersIntent()} }

// PanIntent marks the user panning or zooming the map.
func PanIntent() Intent { return Intent{d: domain.UserPanIntent()} }

// DrilldownIntent marks the user zooming into a tapped cluster. target is
// the bounds the map animates toward; memberIDs (optional) are the
// listings inside the tapped cluster.
func DrilldownIntent(target BBox, memberIDs []string) Intent {
	return Intent{d: domain.DrilldownIntent(toDomainBBox(target), memberIDs)}
}

// SessionStats are lifecycle counters for a session's fetches. Started is
// always the sum of the other three once the session is quiet.
type SessionStats struct {
	Started  uint64
	Aborted  uint64
	Resolved uint64
	Failed   uint64
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	debounce time.Duration
	onUpdate func(points []Point)
}

// WithSessionDebounce overrides the client-level debounce for one session.
func WithSessionDebounce(d time.Duration) SessionOption {
	return func(o *sessionOptions) { o.debounce = d }
}

// WithOnUpdate registers a callback fired each time a fetch result is
// applied and the cluster index has been rebuilt. The callback runs on the
// fetch goroutine and must not block.
func WithOnUpdate(fn func(points []Point)) SessionOption {
	return func(o *sessionOptions) { o.onUpdate = fn }
}

// Session is a stateful controller for one interactive map view. It
// debounces viewport changes, cancels superseded fetches, drops responses
// the apply gate classifies as stale or incompatible, and keeps a cluster
// index over the most recently applied point set.
//
// Typical flow per gesture: BumpIntent, then Request with the new
// viewport; read Clusters from the update callback.
type Session struct {
	inner *viewport.Session
}

// NewSession creates a session backed by the client's listing store.
func (c *Client) NewSession(opts ...SessionOption) *Session {
	so := sessionOptions{debounce: c.debounce}
	for _, o := range opts {
		o(&so)
	}

	inner := newInnerSession(c.listings, c, so)
	return &Session{inner: inner}
}

func newInnerSession(fetcher viewport.Fetcher, c *Client, so sessionOptions) *viewport.Session {
	vOpts := []viewport.SessionOption{
		viewport.WithDebounce(so.debounce),
		viewport.WithClusterConfig(c.clusterCfg),
		viewport.WithLogger(c.logger),
	}
	if so.onUpdate != nil {
		fn := so.onUpdate
		vOpts = append(vOpts, viewport.WithOnUpdate(func(points []domain.Point) {
			fn(fromDomainPoints(points))
		}))
	}
	return viewport.NewSession(fetcher, vOpts...)
}

// ID returns the session's unique id (diagnostics only).
func (s *Session) ID() string { return s.inner.ID() }

// BumpIntent records a UI state change and advances the session sequence.
// Call it once per gesture; responses in flight under the previous
// sequence become stale.
func (s *Session) BumpIntent(intent Intent) uint64 {
	return s.inner.BumpIntent(intent.d)
}

// Request schedules a debounced fetch for the viewport. Under IdleIntent
// nothing is fetched. Returns ErrSessionDisposed after Dispose.
func (s *Session) Request(vp Viewport, filters Filters) error {
	return s.inner.Request(toDomainViewport(vp), toDomainFilters(filters))
}

// Clusters returns the clusters and loose points visible at bbox/zoom in
// the most recently applied point set. Empty before the first apply.
func (s *Session) Clusters(bbox BBox, zoom int) []Cluster {
	return fromDomainClusters(s.inner.Clusters(toDomainBBox(bbox), zoom))
}

// ExpandCluster returns the minimum zoom level at which the given cluster
// splits apart, for zoom-on-tap animations.
func (s *Session) ExpandCluster(id string, currentZoom int) (int, error) {
	return s.inner.ExpandCluster(id, currentZoom)
}

// MemberIDs resolves cluster ids to the listing ids inside them.
func (s *Session) MemberIDs(ids ...string) ([]string, error) {
	return s.inner.MemberIDs(ids...)
}

// Stats returns the session's fetch lifecycle counters.
func (s *Session) Stats() SessionStats {
	st := s.inner.Stats()
	return SessionStats{
		Started:  st.Started,
		Aborted:  st.Aborted,
		Resolved: st.Resolved,
		Failed:   st.Failed,
	}
}

// Dispose halts the session: pending debounce timers are stopped and the
// in-flight fetch is cancelled. Idempotent.
func (s *Session) Dispose() {
	s.inner.Dispose()
}
