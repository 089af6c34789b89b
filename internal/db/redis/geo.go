package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/loclane/mapflow/internal/db"
)

// GeoAdd registers member coordinates under a geo key.
func (s *Store) GeoAdd(ctx context.Context, key string, entries []db.GeoEntry) error {
	if len(entries) == 0 {
		return nil
	}
	cmd := s.b().Geoadd().Key(key).LongitudeLatitudeMember()
	for _, e := range entries {
		cmd = cmd.LongitudeLatitudeMember(e.Lng, e.Lat, e.ID)
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpGeoAdd, Err: err}
	}
	return nil
}

// GeoSearchBox returns members inside an axis-aligned box centered on the
// query point, with their coordinates.
func (s *Store) GeoSearchBox(ctx context.Context, q db.GeoBoxQuery) ([]db.GeoEntry, error) {
	box := s.b().Geosearch().Key(q.Key).
		Fromlonlat(q.CenterLng, q.CenterLat).
		Bybox(q.WidthM).Height(q.HeightM).M()

	var cmd rueidis.Completed
	if q.Limit > 0 {
		cmd = box.Count(int64(q.Limit)).Withcoord().Build()
	} else {
		cmd = box.Withcoord().Build()
	}

	locs, err := s.do(ctx, cmd).AsGeosearch()
	if err != nil {
		return nil, &db.Error{Op: db.OpGeoSearch, Err: fmt.Errorf("key %s: %w", q.Key, err)}
	}

	entries := make([]db.GeoEntry, len(locs))
	for i, loc := range locs {
		entries[i] = db.GeoEntry{ID: loc.Name, Lat: loc.Latitude, Lng: loc.Longitude}
	}
	return entries, nil
}

// GeoRemove drops members from a geo key. Geo keys are sorted sets underneath,
// so removal is a ZREM.
func (s *Store) GeoRemove(ctx context.Context, key string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	cmd := s.b().Zrem().Key(key).Member(ids...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZRem, Err: err}
	}
	return nil
}
