package mapview

import (
	"context"

	"github.com/loclane/mapflow/internal/domain"
)

// PointSource supplies the listing points inside a viewport.
type PointSource interface {
	FetchViewport(ctx context.Context, vp domain.Viewport, f domain.Filters) ([]domain.Point, error)
}

// ZipResolver resolves a ZIP code to its area.
type ZipResolver interface {
	Lookup(ctx context.Context, zip string) (domain.ZipArea, error)
}
