package listing

import (
	"context"
	"testing"

	"github.com/loclane/mapflow/internal/db"
	"github.com/loclane/mapflow/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	geoAddFn       func(ctx context.Context, key string, entries []db.GeoEntry) error
	geoSearchFn    func(ctx context.Context, q db.GeoBoxQuery) ([]db.GeoEntry, error)
	geoRemoveFn    func(ctx context.Context, key string, ids ...string) error
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
}

func (m *mockStore) GeoAdd(ctx context.Context, key string, entries []db.GeoEntry) error {
	if m.geoAddFn != nil {
		return m.geoAddFn(ctx, key, entries)
	}
	return nil
}

func (m *mockStore) GeoSearchBox(ctx context.Context, q db.GeoBoxQuery) ([]db.GeoEntry, error) {
	if m.geoSearchFn != nil {
		return m.geoSearchFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) GeoRemove(ctx context.Context, key string, ids ...string) error {
	if m.geoRemoveFn != nil {
		return m.geoRemoveFn(ctx, key, ids...)
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testListing(id string) domain.Listing {
	return domain.Listing{
		ID:       id,
		Title:    "vintage bike",
		Category: "sports",
		Zip:      "40202",
		Price:    120,
		Lat:      38.2527,
		Lng:      -85.7585,
	}
}

func louisvilleViewport() domain.Viewport {
	return domain.Viewport{
		Bounds: domain.BBox{West: -85.76, South: 38.25, East: -85.75, North: 38.26},
		Zoom:   15,
	}
}
