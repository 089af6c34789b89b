package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrListingNotFound signals a missing listing.
	ErrListingNotFound = errors.New("listing not found")
	// ErrClusterNotFound signals an unknown cluster id.
	ErrClusterNotFound = errors.New("cluster not found")
	// ErrZipNotFound signals an unknown ZIP code.
	ErrZipNotFound = errors.New("zip code not found")
	// ErrSessionDisposed signals use of a disposed viewport session.
	ErrSessionDisposed = errors.New("viewport session disposed")
	// ErrInvalidViewport signals a malformed bounding box or zoom.
	ErrInvalidViewport = errors.New("invalid viewport")
	// ErrInvalidCoordinates signals out-of-range or non-finite lat/lng.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)
