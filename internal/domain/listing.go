package domain

import "strings"

// Listing is a marketplace item pinned to a coordinate. The map pipeline
// only ever reads its Point; the remaining attributes exist for filtering.
type Listing struct {
	ID       string
	Title    string
	Category string
	Zip      string
	Price    float64
	Lat      float64
	Lng      float64
}

// Point projects the listing onto its spatial marker.
func (l Listing) Point() Point {
	return Point{ID: l.ID, Lat: l.Lat, Lng: l.Lng}
}

// Match reports whether a listing passes the filter set. Query matches the
// title case-insensitively; a zero MaxPrice leaves the upper bound open.
func (f Filters) Match(l Listing) bool {
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.Zip != "" && l.Zip != f.Zip {
		return false
	}
	if f.MinPrice > 0 && l.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && l.Price > f.MaxPrice {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(l.Title), strings.ToLower(f.Query)) {
		return false
	}
	return true
}

// ZipArea is a ZIP code resolved to its centroid and covering box.
type ZipArea struct {
	Zip    string
	Lat    float64
	Lng    float64
	Bounds BBox
}
