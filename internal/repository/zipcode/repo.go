package zipcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/loclane/mapflow/internal/db"
	"github.com/loclane/mapflow/internal/domain"
	"github.com/loclane/mapflow/internal/domain/geo"
)

const keyPrefix = "mapflow:zip:"

// store is the consumer interface for ZIP areas (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo stores ZIP centroids as JSON values keyed by ZIP code.
type Repo struct {
	store store
}

// New creates a ZIP area repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

type zipRecord struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// Lookup resolves a ZIP code to its centroid and covering box.
func (r *Repo) Lookup(ctx context.Context, zip string) (domain.ZipArea, error) {
	raw, err := r.store.Get(ctx, keyPrefix+zip)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ZipArea{}, domain.ErrZipNotFound
		}
		return domain.ZipArea{}, fmt.Errorf("read zip %s: %w", zip, err)
	}

	var rec zipRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.ZipArea{}, fmt.Errorf("decode zip %s: %w", zip, err)
	}
	return domain.ZipArea{
		Zip: zip,
		Lat: rec.Lat,
		Lng: rec.Lng,
		Bounds: domain.BBox{
			West: rec.West, South: rec.South, East: rec.East, North: rec.North,
		},
	}, nil
}

// Save stores ZIP areas, skipping entries with no code or invalid centroids.
// The count of accepted areas is returned.
func (r *Repo) Save(ctx context.Context, areas []domain.ZipArea) (int, error) {
	accepted := 0
	for _, a := range areas {
		if a.Zip == "" || !geo.ValidCoordinates(a.Lat, a.Lng) {
			continue
		}
		data, err := json.Marshal(zipRecord{
			Lat:   a.Lat,
			Lng:   a.Lng,
			West:  a.Bounds.West,
			South: a.Bounds.South,
			East:  a.Bounds.East,
			North: a.Bounds.North,
		})
		if err != nil {
			return accepted, fmt.Errorf("encode zip %s: %w", a.Zip, err)
		}
		if err := r.store.Set(ctx, keyPrefix+a.Zip, data); err != nil {
			return accepted, fmt.Errorf("write zip %s: %w", a.Zip, err)
		}
		accepted++
	}
	return accepted, nil
}
