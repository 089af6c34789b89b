package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/loclane/mapflow/internal/cluster"
	"github.com/loclane/mapflow/internal/domain"
	healthuc "github.com/loclane/mapflow/internal/usecase/health"
	"github.com/loclane/mapflow/internal/usecase/mapview"
)

// mockListings implements ListingWriter for tests.
type mockListings struct {
	upsertFn func(ctx context.Context, listings []domain.Listing) (int, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockListings) Upsert(ctx context.Context, listings []domain.Listing) (int, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, listings)
	}
	return len(listings), nil
}

func (m *mockListings) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockSource implements mapview.PointSource for tests.
type mockSource struct {
	fetchFn func(ctx context.Context, vp domain.Viewport, f domain.Filters) ([]domain.Point, error)
}

func (m *mockSource) FetchViewport(ctx context.Context, vp domain.Viewport, f domain.Filters) ([]domain.Point, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, vp, f)
	}
	return nil, nil
}

// mockZips implements mapview.ZipResolver for tests.
type mockZips struct {
	lookupFn func(ctx context.Context, zip string) (domain.ZipArea, error)
}

func (m *mockZips) Lookup(ctx context.Context, zip string) (domain.ZipArea, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, zip)
	}
	return domain.ZipArea{}, domain.ErrZipNotFound
}

// mockSeeder implements ZipSeeder for tests.
type mockSeeder struct {
	saveFn func(ctx context.Context, areas []domain.ZipArea) (int, error)
}

func (m *mockSeeder) Save(ctx context.Context, areas []domain.ZipArea) (int, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, areas)
	}
	return len(areas), nil
}

// mockPinger implements health.DBPinger for tests.
type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

type fixtures struct {
	listings *mockListings
	source   *mockSource
	zips     *mockZips
	seeder   *mockSeeder
	pinger   *mockPinger
}

func newTestServer(t *testing.T) (http.Handler, *Server, *fixtures) {
	t.Helper()
	fx := &fixtures{
		listings: &mockListings{},
		source:   &mockSource{},
		zips:     &mockZips{},
		seeder:   &mockSeeder{},
		pinger:   &mockPinger{},
	}

	cfg := cluster.Config{RadiusPx: 40, MinPoints: 2, MaxZoom: 16}
	maps := mapview.New(fx.source, fx.zips, cfg, zap.NewNop())
	health := healthuc.New(fx.pinger)

	srv := NewServer(fx.listings, maps, fx.seeder, health, zap.NewNop())

	r := chirouter.NewRouter()
	srv.Register(r)
	return r, srv, fx
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
