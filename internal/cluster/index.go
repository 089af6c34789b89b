// Package cluster builds an immutable hierarchical cluster index over a set
// of geo-tagged points and answers viewport queries against it: which
// clusters and loose points are visible at a bounding box and zoom level.
//
// The index precomputes one entry level per zoom, from raw leaves at
// MaxZoom+1 down to MinZoom, merging entries whose projected pixel distance
// at that zoom falls within the configured radius. Builds are deterministic:
// identical input (including point order) yields identical clusters, since
// merge ties resolve by insertion order. Queries are pure and safe for
// concurrent use.
package cluster

import (
	"fmt"
	"sort"

	"github.com/loclane/mapflow/internal/domain"
)

// Config controls how the index clusters points.
type Config struct {
	// RadiusPx is the merge radius in screen pixels (256px tile base).
	RadiusPx float64
	// MinPoints is the minimum number of points that must fall within the
	// radius of one another to form a cluster.
	MinPoints int
	// MinZoom and MaxZoom bound the precomputed cluster levels. Queries
	// below MinZoom use the MinZoom level; queries above MaxZoom return
	// raw points.
	MinZoom int
	MaxZoom int
	// NodeSize tunes the kd-tree leaf size (default 64).
	NodeSize int
}

func (c Config) withDefaults() Config {
	if c.RadiusPx <= 0 {
		c.RadiusPx = 40
	}
	if c.MinPoints < 2 {
		c.MinPoints = 2
	}
	if c.MaxZoom <= 0 {
		c.MaxZoom = 16
	}
	if c.MaxZoom > 24 {
		c.MaxZoom = 24
	}
	if c.MinZoom < 0 {
		c.MinZoom = 0
	}
	if c.MinZoom > c.MaxZoom {
		c.MinZoom = c.MaxZoom
	}
	return c
}

// entry is one node of a cluster level: either a leaf (point >= 0,
// referencing the input slice) or a cluster aggregating entries of the next
// deeper level.
type entry struct {
	x, y      float64 // projected world coordinates (weighted centroid)
	numPoints int32
	point     int32   // leaf: input point index; clusters: -1
	id        int32   // clusters: index-wide cluster counter
	origin    int16   // clusters: zoom level the cluster was created at
	children  []int32 // clusters: entry indexes into level origin+1
}

type level struct {
	entries []entry
	tree    *kdtree
}

type clusterRef struct {
	zoom int
	pos  int32
}

// Index is an immutably-built cluster hierarchy over a fixed point set.
// Rebuild (never mutate) when the point set or configuration changes.
type Index struct {
	cfg      Config
	points   []domain.Point
	levels   map[int]*level // MinZoom .. MaxZoom+1
	clusters map[string]clusterRef
	leafPos  map[string]int32 // point id -> input index
}

// Build constructs an index over points. The slice is read, never written;
// an empty slice yields an index that answers every query with an empty
// result. Coordinates are not validated: callers filter malformed input
// (see geo.ValidCoordinates).
func Build(points []domain.Point, cfg Config) *Index {
	cfg = cfg.withDefaults()

	ix := &Index{
		cfg:      cfg,
		points:   points,
		levels:   make(map[int]*level, cfg.MaxZoom-cfg.MinZoom+2),
		clusters: make(map[string]clusterRef),
		leafPos:  make(map[string]int32, len(points)),
	}

	leaves := make([]entry, len(points))
	for i, p := range points {
		x, y := project(p.Lng, p.Lat)
		leaves[i] = entry{x: x, y: y, numPoints: 1, point: int32(i), id: int32(i)}
		ix.leafPos[p.ID] = int32(i)
	}
	ix.levels[cfg.MaxZoom+1] = &level{entries: leaves, tree: newKDTree(leaves, cfg.NodeSize)}

	var nextClusterID int32
	prev := ix.levels[cfg.MaxZoom+1]
	for z := cfg.MaxZoom; z >= cfg.MinZoom; z-- {
		cur := ix.clusterLevel(prev, z, &nextClusterID)
		ix.levels[z] = cur
		prev = cur
	}

	return ix
}

// clusterLevel merges entries of the next deeper level that fall within the
// zoom's pixel radius of a seed entry. Entries are seeded in slice order,
// which makes ties deterministic. Entries that gather fewer than MinPoints
// underlying points are carried down unchanged.
func (ix *Index) clusterLevel(prev *level, zoom int, nextClusterID *int32) *level {
	r := worldRadius(ix.cfg.RadiusPx, zoom)
	visited := make([]bool, len(prev.entries))
	out := make([]entry, 0, len(prev.entries))

	for i := range prev.entries {
		if visited[i] {
			continue
		}
		visited[i] = true
		seed := prev.entries[i]

		var neighbors []int32
		prev.tree.within(seed.x, seed.y, r, func(j int32) {
			if !visited[j] {
				neighbors = append(neighbors, j)
			}
		})
		// within visits in tree order; restore insertion order for
		// deterministic centroids and member layout.
		sort.Slice(neighbors, func(a, b int) bool { return neighbors[a] < neighbors[b] })

		total := seed.numPoints
		for _, j := range neighbors {
			total += prev.entries[j].numPoints
		}

		if len(neighbors) == 0 || int(total) < ix.cfg.MinPoints {
			out = append(out, seed)
			continue
		}

		children := make([]int32, 0, len(neighbors)+1)
		children = append(children, int32(i))
		wx := seed.x * float64(seed.numPoints)
		wy := seed.y * float64(seed.numPoints)
		for _, j := range neighbors {
			visited[j] = true
			n := prev.entries[j]
			children = append(children, j)
			wx += n.x * float64(n.numPoints)
			wy += n.y * float64(n.numPoints)
		}

		id := *nextClusterID
		*nextClusterID++
		out = append(out, entry{
			x:         wx / float64(total),
			y:         wy / float64(total),
			numPoints: total,
			point:     -1,
			id:        id,
			origin:    int16(zoom),
			children:  children,
		})
		ix.clusters[clusterID(id)] = clusterRef{zoom: zoom, pos: int32(len(out) - 1)}
	}

	return &level{entries: out, tree: newKDTree(out, ix.cfg.NodeSize)}
}

func clusterID(id int32) string {
	return fmt.Sprintf("c%d", id)
}

// ClustersInView returns the clusters and loose points visible in bbox at
// the given zoom. Pure: identical arguments always yield the same id set.
// Result order follows the spatial index and is not part of the contract.
func (ix *Index) ClustersInView(bbox domain.BBox, zoom int) []domain.Cluster {
	lv := ix.levelFor(zoom)
	if lv == nil || len(lv.entries) == 0 {
		return nil
	}

	minX, _ := project(bbox.West, 0)
	maxX, _ := project(bbox.East, 0)
	_, minY := project(0, bbox.North)
	_, maxY := project(0, bbox.South)

	var out []domain.Cluster
	visit := func(i int32) {
		out = append(out, ix.toCluster(lv.entries[i]))
	}

	if bbox.East-bbox.West >= 360 {
		lv.tree.rangeQuery(0, minY, 1, maxY, visit)
	} else if bbox.West > bbox.East {
		// Antimeridian crossing: split into two world-coordinate ranges.
		lv.tree.rangeQuery(minX, minY, 1, maxY, visit)
		lv.tree.rangeQuery(0, minY, maxX, maxY, visit)
	} else {
		lv.tree.rangeQuery(minX, minY, maxX, maxY, visit)
	}
	return out
}

func (ix *Index) levelFor(zoom int) *level {
	if zoom < ix.cfg.MinZoom {
		zoom = ix.cfg.MinZoom
	}
	if zoom > ix.cfg.MaxZoom {
		zoom = ix.cfg.MaxZoom + 1
	}
	return ix.levels[zoom]
}

func (ix *Index) toCluster(e entry) domain.Cluster {
	lng, lat := unproject(e.x, e.y)
	if e.point >= 0 {
		return domain.Cluster{
			ID:  ix.points[e.point].ID,
			Lat: lat, Lng: lng,
			Count: 1,
		}
	}
	return domain.Cluster{
		ID:  clusterID(e.id),
		Lat: lat, Lng: lng,
		Count:     int(e.numPoints),
		IsCluster: true,
	}
}

// ExpansionZoom returns the minimum zoom at which the cluster first splits
// into finer clusters or points: always greater than currentZoom and at
// most MaxZoom+1, where queries serve raw points. Callers use it to
// animate "zoom into this cluster".
func (ix *Index) ExpansionZoom(id string, currentZoom int) (int, error) {
	ref, ok := ix.clusters[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrClusterNotFound, id)
	}
	e := ix.levels[ref.zoom].entries[ref.pos]

	ez := int(e.origin) + 1
	if ez <= currentZoom {
		ez = currentZoom + 1
	}
	if ez > ix.cfg.MaxZoom+1 {
		ez = ix.cfg.MaxZoom + 1
	}
	return ez, nil
}

// MemberIDs resolves cluster ids (or loose point ids) to the underlying
// leaf point ids, deduplicated and sorted.
func (ix *Index) MemberIDs(ids ...string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, id := range ids {
		if ref, ok := ix.clusters[id]; ok {
			ix.resolve(ix.levels[ref.zoom].entries[ref.pos], seen)
			continue
		}
		if pos, ok := ix.leafPos[id]; ok {
			seen[ix.points[pos].ID] = struct{}{}
			continue
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrClusterNotFound, id)
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (ix *Index) resolve(e entry, seen map[string]struct{}) {
	if e.point >= 0 {
		seen[ix.points[e.point].ID] = struct{}{}
		return
	}
	child := ix.levels[int(e.origin)+1]
	for _, ci := range e.children {
		ix.resolve(child.entries[ci], seen)
	}
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return len(ix.points) }

// MaxZoom returns the effective (defaulted) maximum cluster zoom.
func (ix *Index) MaxZoom() int { return ix.cfg.MaxZoom }
