package domain

// Point is a geo-tagged listing marker. Identity is immutable; the
// coordinate is the only spatial attribute the cluster index reads.
type Point struct {
	ID  string
	Lat float64
	Lng float64
}

// BBox is a geographic bounding box in degrees: west/east are longitudes,
// south/north are latitudes. A box with West > East crosses the
// antimeridian.
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// Contains reports whether the box contains the given coordinate,
// accounting for antimeridian-crossing boxes.
func (b BBox) Contains(lat, lng float64) bool {
	if lat < b.South || lat > b.North {
		return false
	}
	if b.West <= b.East {
		return lng >= b.West && lng <= b.East
	}
	return lng >= b.West || lng <= b.East
}

// Viewport is the visible map area: a bounding box plus an integer zoom.
type Viewport struct {
	Bounds BBox
	Zoom   int
}

// Filters narrows the listing set a viewport fetch returns. The zero value
// matches everything.
type Filters struct {
	Category string
	Query    string
	Zip      string
	MinPrice float64
	MaxPrice float64 // 0 = unbounded
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Cluster is the unit returned by a viewport query. Count == 1 denotes a
// single unclustered point whose ID is the listing id; Count > 1 denotes an
// aggregate whose coordinate is the weighted centroid of its members.
type Cluster struct {
	ID        string
	Lat       float64
	Lng       float64
	Count     int
	IsCluster bool
}
