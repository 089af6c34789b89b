// Package mapflow is the client SDK for the mapflow viewport data
// pipeline: spatially indexed marketplace listings, debounced viewport
// fetching, and marker clustering for interactive maps.
package mapflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/loclane/mapflow/internal/cluster"
	"github.com/loclane/mapflow/internal/db"
	dbRedis "github.com/loclane/mapflow/internal/db/redis"
	listingrepo "github.com/loclane/mapflow/internal/repository/listing"
	ziprepo "github.com/loclane/mapflow/internal/repository/zipcode"
	"github.com/loclane/mapflow/internal/usecase/mapview"
)

const defaultReadinessTimeout = 10 * time.Second

const (
	defaultClusterRadiusPx = 40.0
	defaultClusterMinPts   = 2
	defaultClusterMaxZoom  = 16
	defaultDebounce        = 250 * time.Millisecond
)

// Client is the mapflow SDK entry point.
type Client struct {
	store    db.Store
	listings *listingrepo.Repo
	zips     *ziprepo.Repo
	maps     *mapview.Service

	clusterCfg   cluster.Config
	debounce     time.Duration
	maxBatchSize int
	logger       *zap.Logger
}

// New creates a mapflow Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		clusterRadiusPx: defaultClusterRadiusPx,
		clusterMinPts:   defaultClusterMinPts,
		clusterMaxZoom:  defaultClusterMaxZoom,
		debounce:        defaultDebounce,
		logger:          zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("mapflow: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("mapflow: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	// rueidis speaks to both engines, so valkey and redis share one store.
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("mapflow: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("mapflow: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	clusterCfg := cluster.Config{
		RadiusPx:  cfg.clusterRadiusPx,
		MinPoints: cfg.clusterMinPts,
		MaxZoom:   cfg.clusterMaxZoom,
	}

	listings := listingrepo.New(store)
	zips := ziprepo.New(store)
	maps := mapview.New(listings, zips, clusterCfg, cfg.logger)

	return &Client{
		store:        store,
		listings:     listings,
		zips:         zips,
		maps:         maps,
		clusterCfg:   clusterCfg,
		debounce:     cfg.debounce,
		maxBatchSize: cfg.maxBatchSize,
		logger:       cfg.logger,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Listings returns the listing management service.
func (c *Client) Listings() *ListingService {
	return &ListingService{repo: c.listings, maxBatchSize: c.maxBatchSize}
}

// Map returns the one-shot map query service.
func (c *Client) Map() *MapService {
	return &MapService{svc: c.maps, zips: c.zips}
}
