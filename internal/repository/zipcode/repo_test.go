package zipcode

import (
	"context"
	"errors"
	"testing"

	"github.com/loclane/mapflow/internal/db"
	"github.com/loclane/mapflow/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func louisvilleZip() domain.ZipArea {
	return domain.ZipArea{
		Zip: "40202",
		Lat: 38.2527,
		Lng: -85.7585,
		Bounds: domain.BBox{
			West: -85.77, South: 38.24, East: -85.74, North: 38.27,
		},
	}
}

func TestSaveLookup_RoundTrip(t *testing.T) {
	ms := &mockStore{}
	values := map[string][]byte{}
	ms.setFn = func(_ context.Context, key string, value []byte) error {
		values[key] = value
		return nil
	}
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		v, ok := values[key]
		if !ok {
			return nil, db.ErrKeyNotFound
		}
		return v, nil
	}

	repo := New(ms)
	want := louisvilleZip()
	n, err := repo.Save(context.Background(), []domain.ZipArea{want})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 accepted, got %d", n)
	}
	if _, ok := values["mapflow:zip:40202"]; !ok {
		t.Fatalf("expected key mapflow:zip:40202, got %v", values)
	}

	got, err := repo.Lookup(context.Background(), "40202")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLookup_NotFound(t *testing.T) {
	repo := New(&mockStore{})
	_, err := repo.Lookup(context.Background(), "99999")
	if !errors.Is(err, domain.ErrZipNotFound) {
		t.Errorf("expected ErrZipNotFound, got %v", err)
	}
}

func TestLookup_StoreError(t *testing.T) {
	ms := &mockStore{
		getFn: func(context.Context, string) ([]byte, error) {
			return nil, errors.New("connection reset")
		},
	}
	repo := New(ms)
	_, err := repo.Lookup(context.Background(), "40202")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, domain.ErrZipNotFound) {
		t.Error("store errors must not read as not-found")
	}
}

func TestSave_SkipsInvalid(t *testing.T) {
	ms := &mockStore{
		setFn: func(context.Context, string, []byte) error {
			t.Fatal("store should not be called")
			return nil
		},
	}
	repo := New(ms)
	n, err := repo.Save(context.Background(), []domain.ZipArea{
		{Zip: "", Lat: 38, Lng: -85},
		{Zip: "40202", Lat: 91, Lng: -85},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 accepted, got %d", n)
	}
}
