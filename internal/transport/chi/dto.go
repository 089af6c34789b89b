package chi

import "github.com/loclane/mapflow/internal/domain"

// ErrorCode is a machine-readable error class returned to clients.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeListingNotFound  ErrorCode = "listing_not_found"
	CodeClusterNotFound  ErrorCode = "cluster_not_found"
	CodeZipNotFound      ErrorCode = "zip_not_found"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ListingPayload mirrors domain.Listing on the wire.
type ListingPayload struct {
	ID       string  `json:"id"`
	Title    string  `json:"title,omitempty"`
	Category string  `json:"category,omitempty"`
	Zip      string  `json:"zip,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

func (p ListingPayload) toDomain() domain.Listing {
	return domain.Listing{
		ID:       p.ID,
		Title:    p.Title,
		Category: p.Category,
		Zip:      p.Zip,
		Price:    p.Price,
		Lat:      p.Lat,
		Lng:      p.Lng,
	}
}

// UpsertListingsRequest is the POST /v1/listings body.
type UpsertListingsRequest struct {
	Listings []ListingPayload `json:"listings"`
}

// UpsertListingsResponse reports how many listings were accepted.
type UpsertListingsResponse struct {
	Accepted int `json:"accepted"`
}

// PointItem is one raw map marker.
type PointItem struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PointsResponse is the GET /v1/map/points body.
type PointsResponse struct {
	Items []PointItem `json:"items"`
	Count int         `json:"count"`
}

// ClusterItem is one rendered map entity: a cluster or a bare point.
type ClusterItem struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Count     int     `json:"count"`
	IsCluster bool    `json:"is_cluster"`
}

// ClustersResponse is the GET /v1/map/clusters body.
type ClustersResponse struct {
	Items []ClusterItem `json:"items"`
	Count int           `json:"count"`
}

// MembersResponse lists the listing IDs under a cluster.
type MembersResponse struct {
	IDs []string `json:"ids"`
}

// BoundsPayload mirrors domain.BBox on the wire.
type BoundsPayload struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// ZipPayload mirrors domain.ZipArea on the wire.
type ZipPayload struct {
	Zip    string        `json:"zip"`
	Lat    float64       `json:"lat"`
	Lng    float64       `json:"lng"`
	Bounds BoundsPayload `json:"bounds"`
}

func (p ZipPayload) toDomain() domain.ZipArea {
	return domain.ZipArea{
		Zip: p.Zip,
		Lat: p.Lat,
		Lng: p.Lng,
		Bounds: domain.BBox{
			West:  p.Bounds.West,
			South: p.Bounds.South,
			East:  p.Bounds.East,
			North: p.Bounds.North,
		},
	}
}

func zipToPayload(a domain.ZipArea) ZipPayload {
	return ZipPayload{
		Zip: a.Zip,
		Lat: a.Lat,
		Lng: a.Lng,
		Bounds: BoundsPayload{
			West:  a.Bounds.West,
			South: a.Bounds.South,
			East:  a.Bounds.East,
			North: a.Bounds.North,
		},
	}
}

// SeedZipsRequest is the POST /v1/geo/zip body.
type SeedZipsRequest struct {
	Zips []ZipPayload `json:"zips"`
}

// SeedZipsResponse reports how many ZIP areas were accepted.
type SeedZipsResponse struct {
	Accepted int `json:"accepted"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
