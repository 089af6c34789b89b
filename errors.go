package mapflow

import "github.com/loclane/mapflow/internal/domain"

// Sentinel errors returned by the SDK. Match with errors.Is.
var (
	ErrListingNotFound    = domain.ErrListingNotFound
	ErrClusterNotFound    = domain.ErrClusterNotFound
	ErrZipNotFound        = domain.ErrZipNotFound
	ErrSessionDisposed    = domain.ErrSessionDisposed
	ErrInvalidViewport    = domain.ErrInvalidViewport
	ErrInvalidCoordinates = domain.ErrInvalidCoordinates
)
