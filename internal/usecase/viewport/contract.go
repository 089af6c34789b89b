package viewport

import (
	"context"
	"time"

	"github.com/loclane/mapflow/internal/domain"
)

// Fetcher loads the points visible in a viewport. Cancellation is
// cooperative through ctx: a superseded fetch has its context cancelled and
// should return ctx.Err() as soon as practical.
type Fetcher interface {
	FetchViewport(ctx context.Context, vp domain.Viewport, filters domain.Filters) ([]domain.Point, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, vp domain.Viewport, filters domain.Filters) ([]domain.Point, error)

// FetchViewport calls f.
func (f FetcherFunc) FetchViewport(
	ctx context.Context, vp domain.Viewport, filters domain.Filters,
) ([]domain.Point, error) {
	return f(ctx, vp, filters)
}

// Timer is a single-shot timer handle.
type Timer interface {
	// Stop prevents the timer from firing. It reports whether the stop
	// happened before the timer fired.
	Stop() bool
}

// TimerFactory schedules fn to run once after d. Injectable so tests can
// drive the debounce clock deterministically.
type TimerFactory func(d time.Duration, fn func()) Timer

func realTimer(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Hooks are observability callbacks around the fetch lifecycle. All fields
// are optional. Hooks run outside the coordinator lock and must not block.
type Hooks struct {
	OnStart   func(fc domain.FetchContext)
	OnAbort   func(fc domain.FetchContext)
	OnResolve func(fc domain.FetchContext, points []domain.Point)
	OnError   func(fc domain.FetchContext, err error)
}
