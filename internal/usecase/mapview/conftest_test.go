package mapview

import (
	"context"
	"testing"

	"github.com/loclane/mapflow/internal/cluster"
	"github.com/loclane/mapflow/internal/domain"
)

// mockSource implements PointSource for tests.
type mockSource struct {
	fetchFn func(ctx context.Context, vp domain.Viewport, f domain.Filters) ([]domain.Point, error)
}

func (m *mockSource) FetchViewport(ctx context.Context, vp domain.Viewport, f domain.Filters) ([]domain.Point, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, vp, f)
	}
	return nil, nil
}

// mockZips implements ZipResolver for tests.
type mockZips struct {
	lookupFn func(ctx context.Context, zip string) (domain.ZipArea, error)
}

func (m *mockZips) Lookup(ctx context.Context, zip string) (domain.ZipArea, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, zip)
	}
	return domain.ZipArea{}, domain.ErrZipNotFound
}

func newTestService(t *testing.T) (*Service, *mockSource, *mockZips) {
	t.Helper()
	src := &mockSource{}
	zips := &mockZips{}
	cfg := cluster.Config{RadiusPx: 40, MinPoints: 2, MaxZoom: 16}
	return New(src, zips, cfg, nil), src, zips
}

func downtownViewport() domain.Viewport {
	return domain.Viewport{
		Bounds: domain.BBox{West: -85.76, South: 38.25, East: -85.75, North: 38.26},
		Zoom:   12,
	}
}

func pairPoints() []domain.Point {
	return []domain.Point{
		{ID: "1", Lat: 38.2527, Lng: -85.7585},
		{ID: "2", Lat: 38.2530, Lng: -85.7588},
	}
}
