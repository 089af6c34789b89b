package domain

// Cause identifies why a viewport fetch was dispatched. Compared against
// the live Intent when the response arrives, not when the request leaves.
type Cause string

const (
	// CauseFilters marks a fetch triggered by a filter or ZIP edit.
	CauseFilters Cause = "filters"
	// CauseUserPan marks a fetch triggered by a pan or zoom gesture.
	CauseUserPan Cause = "user_pan"
	// CauseDrilldown marks a fetch triggered by clicking into a cluster.
	CauseDrilldown Cause = "cluster_drilldown"
)

// IntentKind enumerates what the UI currently believes it is doing.
type IntentKind string

const (
	// IntentIdle is the initial state; it never dispatches a fetch.
	IntentIdle IntentKind = "idle"
	// IntentFilters means the user is editing filters or a ZIP code.
	IntentFilters IntentKind = "filters"
	// IntentUserPan means the user is panning or zooming the map.
	IntentUserPan IntentKind = "user_pan"
	// IntentDrilldown means the user is zooming into a tapped cluster.
	IntentDrilldown IntentKind = "cluster_drilldown"
)

// Intent is the UI's current high-level reason for needing data. It lives
// independently of any specific in-flight fetch.
type Intent struct {
	kind      IntentKind
	target    BBox
	memberIDs []string
}

// Idle returns the idle intent.
func Idle() Intent { return Intent{kind: IntentIdle} }

// FiltersIntent returns the filter-editing intent.
func FiltersIntent() Intent { return Intent{kind: IntentFilters} }

// UserPanIntent returns the pan/zoom intent.
func UserPanIntent() Intent { return Intent{kind: IntentUserPan} }

// DrilldownIntent returns the cluster drill-down intent. target is the
// bounds the map is animating toward; memberIDs (optional) are the leaf
// listings inside the tapped cluster.
func DrilldownIntent(target BBox, memberIDs []string) Intent {
	return Intent{kind: IntentDrilldown, target: target, memberIDs: memberIDs}
}

// Kind returns the intent kind.
func (i Intent) Kind() IntentKind { return i.kind }

// Target returns the drill-down target bounds (zero for other kinds).
func (i Intent) Target() BBox { return i.target }

// MemberIDs returns the drill-down member listing ids, if known.
func (i Intent) MemberIDs() []string { return i.memberIDs }

// Cause maps the intent to the cause a fetch dispatched under it carries.
// Idle has no cause: it never triggers a fetch.
func (i Intent) Cause() (Cause, bool) {
	switch i.kind {
	case IntentFilters:
		return CauseFilters, true
	case IntentUserPan:
		return CauseUserPan, true
	case IntentDrilldown:
		return CauseDrilldown, true
	default:
		return "", false
	}
}

// CauseCompatibleWithIntent reports whether a response dispatched for cause
// is still relevant under the live intent. Pan and drill-down accept each
// other's results: both mean "the map moved". A filter edit is a different
// query and invalidates anything else, in both directions.
func CauseCompatibleWithIntent(cause Cause, intent Intent) bool {
	switch intent.kind {
	case IntentFilters:
		return cause == CauseFilters
	case IntentUserPan, IntentDrilldown:
		return cause == CauseUserPan || cause == CauseDrilldown
	default:
		return false
	}
}

// FetchContext tags a request/response pair with the cause that dispatched
// it and the sequence number current at dispatch time. Seq advances exactly
// once per intent change, never per keystroke or pixel.
type FetchContext struct {
	Cause Cause
	Seq   uint64
}

// ApplyOutcome classifies what the apply gate did with a response.
type ApplyOutcome string

const (
	// ApplyOK means the response was applied to visible state.
	ApplyOK ApplyOutcome = "ok:apply"
	// DropStale means a newer intent superseded the response's premise.
	DropStale ApplyOutcome = "drop:stale"
	// DropIncompatible means the response's cause no longer matches the
	// live intent.
	DropIncompatible ApplyOutcome = "drop:incompatible"
)
