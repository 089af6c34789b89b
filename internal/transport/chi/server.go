package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/loclane/mapflow/internal/domain"
	healthuc "github.com/loclane/mapflow/internal/usecase/health"
	"github.com/loclane/mapflow/internal/usecase/mapview"
)

const defaultMaxBatchSize = 500

// ListingWriter mutates the listing store (ingestion side).
type ListingWriter interface {
	Upsert(ctx context.Context, listings []domain.Listing) (int, error)
	Delete(ctx context.Context, id string) error
}

// ZipSeeder stores ZIP areas.
type ZipSeeder interface {
	Save(ctx context.Context, areas []domain.ZipArea) (int, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the map API.
type Server struct {
	listings      ListingWriter
	maps          *mapview.Service
	zips          ZipSeeder
	health        *healthuc.Service
	logger        *zap.Logger
	maxBatchSize  int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	listings ListingWriter,
	maps *mapview.Service,
	zips ZipSeeder,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		listings:     listings,
		maps:         maps,
		zips:         zips,
		health:       health,
		logger:       logger,
		maxBatchSize: defaultMaxBatchSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrListingNotFound, http.StatusNotFound, CodeListingNotFound),
		sentinelHandler(domain.ErrClusterNotFound, http.StatusNotFound, CodeClusterNotFound),
		sentinelHandler(domain.ErrZipNotFound, http.StatusNotFound, CodeZipNotFound),
		sentinelHandler(domain.ErrInvalidViewport, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidCoordinates, http.StatusBadRequest, CodeValidationFailed),
	}
	return s
}

// WithMaxBatchSize overrides the ingestion batch cap.
func (s *Server) WithMaxBatchSize(n int) *Server {
	if n > 0 {
		s.maxBatchSize = n
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/listings", s.UpsertListings)
		r.Delete("/listings/{id}", s.DeleteListing)
		r.Get("/map/points", s.MapPoints)
		r.Get("/map/clusters", s.MapClusters)
		r.Get("/map/clusters/members", s.ClusterMembers)
		r.Get("/geo/zip/{zip}", s.GetZip)
		r.Post("/geo/zip", s.SeedZips)
	})
}

// UpsertListings handles POST /v1/listings.
func (s *Server) UpsertListings(w http.ResponseWriter, r *http.Request) {
	var req UpsertListingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Listings) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "listings is required")
		return
	}
	if len(req.Listings) > s.maxBatchSize {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("batch size %d exceeds limit %d", len(req.Listings), s.maxBatchSize))
		return
	}

	items := make([]domain.Listing, len(req.Listings))
	for i, p := range req.Listings {
		items[i] = p.toDomain()
	}

	accepted, err := s.listings.Upsert(r.Context(), items)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UpsertListingsResponse{Accepted: accepted})
}

// DeleteListing handles DELETE /v1/listings/{id}.
func (s *Server) DeleteListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.listings.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MapPoints handles GET /v1/map/points.
func (s *Server) MapPoints(w http.ResponseWriter, r *http.Request) {
	vp, err := parseViewport(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	points, err := s.maps.Points(r.Context(), vp, parseFilters(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]PointItem, len(points))
	for i, p := range points {
		items[i] = PointItem{ID: p.ID, Lat: p.Lat, Lng: p.Lng}
	}
	writeJSON(w, http.StatusOK, PointsResponse{Items: items, Count: len(items)})
}

// MapClusters handles GET /v1/map/clusters.
func (s *Server) MapClusters(w http.ResponseWriter, r *http.Request) {
	vp, err := parseViewport(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	clusters, err := s.maps.Clusters(r.Context(), vp, parseFilters(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]ClusterItem, len(clusters))
	for i, c := range clusters {
		items[i] = ClusterItem{
			ID:        c.ID,
			Lat:       c.Lat,
			Lng:       c.Lng,
			Count:     c.Count,
			IsCluster: c.IsCluster,
		}
	}
	writeJSON(w, http.StatusOK, ClustersResponse{Items: items, Count: len(items)})
}

// ClusterMembers handles GET /v1/map/clusters/members.
func (s *Server) ClusterMembers(w http.ResponseWriter, r *http.Request) {
	vp, err := parseViewport(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "id is required")
		return
	}

	ids, err := s.maps.ClusterMembers(r.Context(), vp, parseFilters(r), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MembersResponse{IDs: ids})
}

// GetZip handles GET /v1/geo/zip/{zip}.
func (s *Server) GetZip(w http.ResponseWriter, r *http.Request) {
	zip := chi.URLParam(r, "zip")
	area, err := s.maps.ResolveZip(r.Context(), zip)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, zipToPayload(area))
}

// SeedZips handles POST /v1/geo/zip.
func (s *Server) SeedZips(w http.ResponseWriter, r *http.Request) {
	var req SeedZipsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Zips) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "zips is required")
		return
	}

	areas := make([]domain.ZipArea, len(req.Zips))
	for i, p := range req.Zips {
		areas[i] = p.toDomain()
	}

	accepted, err := s.zips.Save(r.Context(), areas)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SeedZipsResponse{Accepted: accepted})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string)
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// parseViewport reads bbox=west,south,east,north and zoom from the query.
func parseViewport(r *http.Request) (domain.Viewport, error) {
	q := r.URL.Query()

	raw := q.Get("bbox")
	if raw == "" {
		return domain.Viewport{}, errors.New("bbox is required")
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return domain.Viewport{}, fmt.Errorf("bbox must be west,south,east,north, got %q", raw)
	}
	coords := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.Viewport{}, fmt.Errorf("bbox component %q: %w", p, err)
		}
		coords[i] = f
	}

	zoom := 0
	if z := q.Get("zoom"); z != "" {
		parsed, err := strconv.Atoi(z)
		if err != nil {
			return domain.Viewport{}, fmt.Errorf("zoom %q: %w", z, err)
		}
		zoom = parsed
	}

	return domain.Viewport{
		Bounds: domain.BBox{West: coords[0], South: coords[1], East: coords[2], North: coords[3]},
		Zoom:   zoom,
	}, nil
}

// parseFilters reads the optional filter params. Unparseable prices read as
// unset.
func parseFilters(r *http.Request) domain.Filters {
	q := r.URL.Query()
	f := domain.Filters{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Zip:      q.Get("zip"),
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		f.MinPrice = v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		f.MaxPrice = v
	}
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrListingNotFound,
		domain.ErrClusterNotFound,
		domain.ErrZipNotFound,
		domain.ErrInvalidViewport,
		domain.ErrInvalidCoordinates,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
