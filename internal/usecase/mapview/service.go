package mapview

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/loclane/mapflow/internal/cluster"
	"github.com/loclane/mapflow/internal/domain"
)

// Service answers stateless map queries for thin clients: raw points, or a
// clustered rendition built per request. Stateful per-session pipelines live
// in usecase/viewport; this service exists for callers that cannot hold an
// index between gestures.
type Service struct {
	source     PointSource
	zips       ZipResolver
	clusterCfg cluster.Config
	logger     *zap.Logger
}

// New creates a map query service. zips can be nil if ZIP resolution is not
// wired.
func New(source PointSource, zips ZipResolver, cfg cluster.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, zips: zips, clusterCfg: cfg, logger: logger}
}

// Points returns the raw points visible in the viewport.
func (s *Service) Points(ctx context.Context, vp domain.Viewport, f domain.Filters) ([]domain.Point, error) {
	if err := validateViewport(vp); err != nil {
		return nil, err
	}
	points, err := s.source.FetchViewport(ctx, vp, f)
	if err != nil {
		return nil, fmt.Errorf("fetch viewport points: %w", err)
	}
	return points, nil
}

// Clusters fetches the viewport's points and clusters them at the viewport
// zoom.
func (s *Service) Clusters(ctx context.Context, vp domain.Viewport, f domain.Filters) ([]domain.Cluster, error) {
	points, err := s.Points(ctx, vp, f)
	if err != nil {
		return nil, err
	}
	ix := cluster.Build(points, s.clusterCfg)
	s.logger.Debug("clustered viewport",
		zap.Int("points", len(points)),
		zap.Int("zoom", vp.Zoom),
	)
	return ix.ClustersInView(vp.Bounds, vp.Zoom), nil
}

// ClusterMembers rebuilds the viewport's index and returns the listing IDs
// under the named cluster.
func (s *Service) ClusterMembers(ctx context.Context, vp domain.Viewport, f domain.Filters, clusterID string) ([]string, error) {
	points, err := s.Points(ctx, vp, f)
	if err != nil {
		return nil, err
	}
	ix := cluster.Build(points, s.clusterCfg)
	// the per-request index only has the cluster at the viewport zoom, so
	// restrict the lookup to what ClustersInView would have returned
	if _, inView := findCluster(ix, vp, clusterID); !inView {
		return nil, fmt.Errorf("cluster %s at zoom %d: %w", clusterID, vp.Zoom, domain.ErrClusterNotFound)
	}
	return ix.MemberIDs(clusterID)
}

// ResolveZip maps a ZIP code to a viewport-ready area.
func (s *Service) ResolveZip(ctx context.Context, zip string) (domain.ZipArea, error) {
	if s.zips == nil {
		return domain.ZipArea{}, domain.ErrZipNotFound
	}
	return s.zips.Lookup(ctx, zip)
}

func findCluster(ix *cluster.Index, vp domain.Viewport, id string) (domain.Cluster, bool) {
	for _, c := range ix.ClustersInView(vp.Bounds, vp.Zoom) {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Cluster{}, false
}

func validateViewport(vp domain.Viewport) error {
	b := vp.Bounds
	if b.South > b.North || b.South < -90 || b.North > 90 ||
		b.West < -180 || b.West > 180 || b.East < -180 || b.East > 180 {
		return fmt.Errorf("bounds [%f %f %f %f]: %w", b.West, b.South, b.East, b.North, domain.ErrInvalidViewport)
	}
	if vp.Zoom < 0 {
		return fmt.Errorf("zoom %d: %w", vp.Zoom, domain.ErrInvalidViewport)
	}
	return nil
}
