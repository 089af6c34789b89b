package mapflow

import (
	"context"
	"fmt"

	"github.com/loclane/mapflow/internal/domain"
	ziprepo "github.com/loclane/mapflow/internal/repository/zipcode"
	"github.com/loclane/mapflow/internal/usecase/mapview"
)

// MapService answers one-shot viewport queries. For interactive maps with
// overlapping pan/zoom/filter events use Client.NewSession instead.
type MapService struct {
	svc  *mapview.Service
	zips *ziprepo.Repo
}

// Points returns the raw listing markers inside the viewport.
func (s *MapService) Points(ctx context.Context, vp Viewport, filters Filters) ([]Point, error) {
	pts, err := s.svc.Points(ctx, toDomainViewport(vp), toDomainFilters(filters))
	if err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}
	return fromDomainPoints(pts), nil
}

// Clusters returns the viewport's listings grouped for rendering: nearby
// markers merged into clusters, the rest as single points.
func (s *MapService) Clusters(ctx context.Context, vp Viewport, filters Filters) ([]Cluster, error) {
	cs, err := s.svc.Clusters(ctx, toDomainViewport(vp), toDomainFilters(filters))
	if err != nil {
		return nil, fmt.Errorf("clusters: %w", err)
	}
	return fromDomainClusters(cs), nil
}

// ClusterMembers resolves a cluster id from a Clusters call to the listing
// ids inside it. Returns ErrClusterNotFound for ids not visible in the
// given viewport.
func (s *MapService) ClusterMembers(
	ctx context.Context, vp Viewport, filters Filters, clusterID string,
) ([]string, error) {
	ids, err := s.svc.ClusterMembers(ctx, toDomainViewport(vp), toDomainFilters(filters), clusterID)
	if err != nil {
		return nil, fmt.Errorf("cluster members: %w", err)
	}
	return ids, nil
}

// ResolveZip looks up a ZIP code's centroid and bounds, typically to move
// the viewport there. Returns ErrZipNotFound for unknown codes.
func (s *MapService) ResolveZip(ctx context.Context, zip string) (ZipArea, error) {
	z, err := s.svc.ResolveZip(ctx, zip)
	if err != nil {
		return ZipArea{}, fmt.Errorf("resolve zip: %w", err)
	}
	return fromDomainZip(z), nil
}

// SeedZips stores ZIP code areas for later ResolveZip lookups. Areas with
// an empty code or invalid centroid are skipped; returns how many were
// stored.
func (s *MapService) SeedZips(ctx context.Context, areas []ZipArea) (int, error) {
	batch := make([]domain.ZipArea, len(areas))
	for i, z := range areas {
		batch[i] = toDomainZip(z)
	}

	n, err := s.zips.Save(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("seed zips: %w", err)
	}
	return n, nil
}
