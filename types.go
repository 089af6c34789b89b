package mapflow

import "github.com/loclane/mapflow/internal/domain"

// Listing is a marketplace item pinned to a coordinate.
type Listing struct {
	ID       string
	Title    string
	Category string
	Zip      string
	Price    float64
	Lat      float64
	Lng      float64
}

// Point is a single listing marker on the map.
type Point struct {
	ID  string
	Lat float64
	Lng float64
}

// BBox is a geographic bounding box in degrees. West > East means the box
// crosses the antimeridian.
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// Viewport is the visible map area: bounds plus an integer zoom level.
type Viewport struct {
	Bounds BBox
	Zoom   int
}

// Filters narrows which listings a viewport query returns. The zero value
// matches everything.
type Filters struct {
	Category string
	Query    string
	Zip      string
	MinPrice float64
	MaxPrice float64 // 0 = unbounded
}

// Cluster is one render unit: either an aggregate of nearby listings
// (IsCluster true, Count > 1) or a lone listing whose ID is the listing id.
type Cluster struct {
	ID        string
	Lat       float64
	Lng       float64
	Count     int
	IsCluster bool
}

// ZipArea is a ZIP code resolved to a centroid and a covering box.
type ZipArea struct {
	Zip    string
	Lat    float64
	Lng    float64
	Bounds BBox
}

func toDomainListing(l Listing) domain.Listing {
	return domain.Listing{
		ID:       l.ID,
		Title:    l.Title,
		Category: l.Category,
		Zip:      l.Zip,
		Price:    l.Price,
		Lat:      l.Lat,
		Lng:      l.Lng,
	}
}

func fromDomainListing(l domain.Listing) Listing {
	return Listing{
		ID:       l.ID,
		Title:    l.Title,
		Category: l.Category,
		Zip:      l.Zip,
		Price:    l.Price,
		Lat:      l.Lat,
		Lng:      l.Lng,
	}
}

func toDomainBBox(b BBox) domain.BBox {
	return domain.BBox{West: b.West, South: b.South, East: b.East, North: b.North}
}

func fromDomainBBox(b domain.BBox) BBox {
	return BBox{West: b.West, South: b.South, East: b.East, North: b.North}
}

func toDomainViewport(vp Viewport) domain.Viewport {
	return domain.Viewport{Bounds: toDomainBBox(vp.Bounds), Zoom: vp.Zoom}
}

func toDomainFilters(f Filters) domain.Filters {
	return domain.Filters{
		Category: f.Category,
		Query:    f.Query,
		Zip:      f.Zip,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
	}
}

func fromDomainPoints(pts []domain.Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{ID: p.ID, Lat: p.Lat, Lng: p.Lng}
	}
	return out
}

func fromDomainClusters(cs []domain.Cluster) []Cluster {
	out := make([]Cluster, len(cs))
	for i, c := range cs {
		out[i] = Cluster{
			ID:        c.ID,
			Lat:       c.Lat,
			Lng:       c.Lng,
			Count:     c.Count,
			IsCluster: c.IsCluster,
		}
	}
	return out
}

func toDomainZip(z ZipArea) domain.ZipArea {
	return domain.ZipArea{Zip: z.Zip, Lat: z.Lat, Lng: z.Lng, Bounds: toDomainBBox(z.Bounds)}
}

func fromDomainZip(z domain.ZipArea) ZipArea {
	return ZipArea{Zip: z.Zip, Lat: z.Lat, Lng: z.Lng, Bounds: fromDomainBBox(z.Bounds)}
}
