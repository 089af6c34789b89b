package listing

import (
	"strconv"

	"github.com/loclane/mapflow/internal/domain"
)

// buildHashFields flattens a listing into the HSET field map. Coordinates are
// stored alongside the attributes so a single HGETALL reconstructs the whole
// listing without touching the geo set.
func buildHashFields(l domain.Listing) map[string]string {
	return map[string]string{
		"title":    l.Title,
		"category": l.Category,
		"zip":      l.Zip,
		"price":    strconv.FormatFloat(l.Price, 'f', -1, 64),
		"lat":      strconv.FormatFloat(l.Lat, 'f', -1, 64),
		"lng":      strconv.FormatFloat(l.Lng, 'f', -1, 64),
	}
}

// parseHashFields rebuilds a listing from a hash map. Unparseable numerics
// fall back to zero values.
func parseHashFields(id string, m map[string]string) domain.Listing {
	l := domain.Listing{
		ID:       id,
		Title:    m["title"],
		Category: m["category"],
		Zip:      m["zip"],
	}
	if f, err := strconv.ParseFloat(m["price"], 64); err == nil {
		l.Price = f
	}
	if f, err := strconv.ParseFloat(m["lat"], 64); err == nil {
		l.Lat = f
	}
	if f, err := strconv.ParseFloat(m["lng"], 64); err == nil {
		l.Lng = f
	}
	return l
}
