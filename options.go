package mapflow

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	password string

	clusterRadiusPx float64
	clusterMinPts   int
	clusterMaxZoom  int

	maxBatchSize int
	debounce     time.Duration

	logger *zap.Logger
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithClustering overrides the marker clustering parameters: the merge
// radius in screen pixels, the minimum group size, and the zoom level
// past which raw points are returned instead of clusters.
// Defaults: radius=40, minPoints=2, maxZoom=16.
func WithClustering(radiusPx float64, minPoints, maxZoom int) Option {
	return func(c *clientConfig) {
		c.clusterRadiusPx = radiusPx
		c.clusterMinPts = minPoints
		c.clusterMaxZoom = maxZoom
	}
}

// WithDebounce sets the quiet period sessions wait after a viewport
// change before fetching. Defaults to 250ms.
func WithDebounce(d time.Duration) Option {
	return func(c *clientConfig) {
		c.debounce = d
	}
}

// WithMaxBatchSize caps how many listings a single Upsert call accepts.
func WithMaxBatchSize(n int) Option {
	return func(c *clientConfig) {
		c.maxBatchSize = n
	}
}

// WithLogger sets the client logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
