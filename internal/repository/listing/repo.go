package listing

import (
	"context"
	"fmt"
	"math"

	"github.com/loclane/mapflow/internal/db"
	"github.com/loclane/mapflow/internal/domain"
	"github.com/loclane/mapflow/internal/domain/geo"
)

const (
	geoKey    = "mapflow:geo:listings"
	keyPrefix = "mapflow:listing:"

	// defaultViewportLimit caps the members one viewport query pulls back.
	defaultViewportLimit = 5000

	earthCircumferenceM = 40075017.0
)

// store is the consumer interface for listings (ISP).
type store interface {
	GeoAdd(ctx context.Context, key string, entries []db.GeoEntry) error
	GeoSearchBox(ctx context.Context, q db.GeoBoxQuery) ([]db.GeoEntry, error)
	GeoRemove(ctx context.Context, key string, ids ...string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo stores listings as one hash per listing plus a shared geo set, and
// serves viewport queries from the geo set.
type Repo struct {
	store store
	limit int
}

// New creates a listing repository.
func New(s store) *Repo {
	return &Repo{store: s, limit: defaultViewportLimit}
}

// Upsert writes listings in one pipelined round-trip per structure. Listings
// with an empty ID or out-of-range coordinates are skipped; the count of
// accepted listings is returned.
func (r *Repo) Upsert(ctx context.Context, listings []domain.Listing) (int, error) {
	items := make([]db.HashSetItem, 0, len(listings))
	entries := make([]db.GeoEntry, 0, len(listings))
	for _, l := range listings {
		if l.ID == "" || !geo.ValidCoordinates(l.Lat, l.Lng) {
			continue
		}
		items = append(items, db.HashSetItem{Key: hashKey(l.ID), Fields: buildHashFields(l)})
		entries = append(entries, db.GeoEntry{ID: l.ID, Lat: l.Lat, Lng: l.Lng})
	}
	if len(items) == 0 {
		return 0, nil
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return 0, fmt.Errorf("write listing hashes: %w", err)
	}
	if err := r.store.GeoAdd(ctx, geoKey, entries); err != nil {
		return 0, fmt.Errorf("index listing coordinates: %w", err)
	}
	return len(items), nil
}

// Get returns a listing by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Listing, error) {
	m, err := r.store.HGetAll(ctx, hashKey(id))
	if err != nil {
		return domain.Listing{}, fmt.Errorf("read listing %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return parseHashFields(id, m), nil
}

// Delete removes a listing from both the hash store and the geo set.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := hashKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check listing %s: %w", id, err)
	}
	if !exists {
		return domain.ErrListingNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	if err := r.store.GeoRemove(ctx, geoKey, id); err != nil {
		return fmt.Errorf("unindex listing %s: %w", id, err)
	}
	return nil
}

// FetchViewport returns the points inside the viewport bounds that pass the
// filters. The geo search runs on a box circumscribing the viewport, so
// results are re-checked against the exact bounds.
func (r *Repo) FetchViewport(ctx context.Context, vp domain.Viewport, f domain.Filters) ([]domain.Point, error) {
	centerLat, centerLng, widthM, heightM := boxDimensions(vp.Bounds)

	entries, err := r.store.GeoSearchBox(ctx, db.GeoBoxQuery{
		Key:       geoKey,
		CenterLat: centerLat,
		CenterLng: centerLng,
		WidthM:    widthM,
		HeightM:   heightM,
		Limit:     r.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("viewport geo search: %w", err)
	}

	in := entries[:0]
	for _, e := range entries {
		if vp.Bounds.Contains(e.Lat, e.Lng) {
			in = append(in, e)
		}
	}

	if f.IsZero() {
		points := make([]domain.Point, len(in))
		for i, e := range in {
			points[i] = domain.Point{ID: e.ID, Lat: e.Lat, Lng: e.Lng}
		}
		return points, nil
	}

	keys := make([]string, len(in))
	for i, e := range in {
		keys[i] = hashKey(e.ID)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("viewport attribute fetch: %w", err)
	}

	points := make([]domain.Point, 0, len(in))
	for i, e := range in {
		l := parseHashFields(e.ID, hashes[i])
		if !f.Match(l) {
			continue
		}
		points = append(points, domain.Point{ID: e.ID, Lat: e.Lat, Lng: e.Lng})
	}
	return points, nil
}

func hashKey(id string) string {
	return keyPrefix + id
}

// boxDimensions converts a degree bbox into the center plus meter extents a
// GEOSEARCH BYBOX query takes. The width runs along the parallel at center
// latitude, which also handles antimeridian-crossing boxes where a naive
// west-to-east haversine would take the short way around.
func boxDimensions(b domain.BBox) (centerLat, centerLng, widthM, heightM float64) {
	centerLat = (b.South + b.North) / 2

	lngSpan := b.East - b.West
	if b.West > b.East {
		lngSpan += 360
	}
	centerLng = b.West + lngSpan/2
	if centerLng > 180 {
		centerLng -= 360
	}

	widthM = lngSpan / 360 * earthCircumferenceM * math.Cos(centerLat*math.Pi/180)
	heightM = geo.Haversine(b.South, centerLng, b.North, centerLng)

	if widthM < 1 {
		widthM = 1
	}
	if heightM < 1 {
		heightM = 1
	}
	return centerLat, centerLng, widthM, heightM
}
