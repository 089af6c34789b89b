package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces, not on Store itself.
type Store interface {
	Pinger
	GeoStore
	HashStore
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GeoEntry is one member of a geo set: an id pinned to a coordinate.
type GeoEntry struct {
	ID  string
	Lat float64
	Lng float64
}

// GeoBoxQuery selects geo set members inside an axis-aligned box centered
// on a coordinate. Width and height are in meters.
type GeoBoxQuery struct {
	Key       string
	CenterLat float64
	CenterLng float64
	WidthM    float64
	HeightM   float64
	Limit     int // 0 = unlimited
}

// GeoStore provides geo set operations.
type GeoStore interface {
	GeoAdd(ctx context.Context, key string, entries []GeoEntry) error
	GeoSearchBox(ctx context.Context, q GeoBoxQuery) ([]GeoEntry, error)
	GeoRemove(ctx context.Context, key string, ids ...string) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}
