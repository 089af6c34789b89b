package cluster

// kdtree is a static 2D index over projected entry coordinates. Built once,
// never mutated; queries are safe for concurrent use. Flat-array layout:
// ids is a permutation of entry indexes, coords holds interleaved x,y pairs
// in the same permuted order.
type kdtree struct {
	ids      []int32
	coords   []float64
	nodeSize int
}

const defaultNodeSize = 64

func newKDTree(entries []entry, nodeSize int) *kdtree {
	if nodeSize <= 0 {
		nodeSize = defaultNodeSize
	}
	n := len(entries)
	t := &kdtree{
		ids:      make([]int32, n),
		coords:   make([]float64, 2*n),
		nodeSize: nodeSize,
	}
	for i := range entries {
		t.ids[i] = int32(i)
		t.coords[2*i] = entries[i].x
		t.coords[2*i+1] = entries[i].y
	}
	if n > 0 {
		t.sortKD(0, n-1, 0)
	}
	return t
}

// sortKD recursively partitions the slice so the median on the current axis
// sits at the midpoint, alternating axes per depth.
func (t *kdtree) sortKD(left, right, axis int) {
	if right-left <= t.nodeSize {
		return
	}
	m := (left + right) >> 1
	t.selectAt(m, left, right, axis)
	t.sortKD(left, m-1, 1-axis)
	t.sortKD(m+1, right, 1-axis)
}

// selectAt partially sorts [left,right] so the element at k is in its final
// sorted position on the given axis (Hoare quickselect).
func (t *kdtree) selectAt(k, left, right, axis int) {
	for left < right {
		pivot := t.coords[2*((left+right)>>1)+axis]
		i, j := left, right
		for i <= j {
			for t.coords[2*i+axis] < pivot {
				i++
			}
			for t.coords[2*j+axis] > pivot {
				j--
			}
			if i <= j {
				t.swap(i, j)
				i++
				j--
			}
		}
		if k <= j {
			right = j
		} else if k >= i {
			left = i
		} else {
			return
		}
	}
}

func (t *kdtree) swap(i, j int) {
	t.ids[i], t.ids[j] = t.ids[j], t.ids[i]
	t.coords[2*i], t.coords[2*j] = t.coords[2*j], t.coords[2*i]
	t.coords[2*i+1], t.coords[2*j+1] = t.coords[2*j+1], t.coords[2*i+1]
}

// rangeQuery visits every entry inside the axis-aligned box.
func (t *kdtree) rangeQuery(minX, minY, maxX, maxY float64, visit func(int32)) {
	if len(t.ids) == 0 {
		return
	}
	t.rangeSearch(minX, minY, maxX, maxY, 0, len(t.ids)-1, 0, visit)
}

func (t *kdtree) rangeSearch(minX, minY, maxX, maxY float64, left, right, axis int, visit func(int32)) {
	if right-left <= t.nodeSize {
		for i := left; i <= right; i++ {
			x, y := t.coords[2*i], t.coords[2*i+1]
			if x >= minX && x <= maxX && y >= minY && y <= maxY {
				visit(t.ids[i])
			}
		}
		return
	}

	m := (left + right) >> 1
	x, y := t.coords[2*m], t.coords[2*m+1]
	if x >= minX && x <= maxX && y >= minY && y <= maxY {
		visit(t.ids[m])
	}

	if axis == 0 {
		if minX <= x {
			t.rangeSearch(minX, minY, maxX, maxY, left, m-1, 1, visit)
		}
		if maxX >= x {
			t.rangeSearch(minX, minY, maxX, maxY, m+1, right, 1, visit)
		}
	} else {
		if minY <= y {
			t.rangeSearch(minX, minY, maxX, maxY, left, m-1, 0, visit)
		}
		if maxY >= y {
			t.rangeSearch(minX, minY, maxX, maxY, m+1, right, 0, visit)
		}
	}
}

// within visits every entry whose distance to (qx,qy) is at most r.
func (t *kdtree) within(qx, qy, r float64, visit func(int32)) {
	if len(t.ids) == 0 {
		return
	}
	t.withinSearch(qx, qy, r*r, r, 0, len(t.ids)-1, 0, visit)
}

func (t *kdtree) withinSearch(qx, qy, r2, r float64, left, right, axis int, visit func(int32)) {
	if right-left <= t.nodeSize {
		for i := left; i <= right; i++ {
			if sqDist(t.coords[2*i], t.coords[2*i+1], qx, qy) <= r2 {
				visit(t.ids[i])
			}
		}
		return
	}

	m := (left + right) >> 1
	x, y := t.coords[2*m], t.coords[2*m+1]
	if sqDist(x, y, qx, qy) <= r2 {
		visit(t.ids[m])
	}

	if axis == 0 {
		if qx-r <= x {
			t.withinSearch(qx, qy, r2, r, left, m-1, 1, visit)
		}
		if qx+r >= x {
			t.withinSearch(qx, qy, r2, r, m+1, right, 1, visit)
		}
	} else {
		if qy-r <= y {
			t.withinSearch(qx, qy, r2, r, left, m-1, 0, visit)
		}
		if qy+r >= y {
			t.withinSearch(qx, qy, r2, r, m+1, right, 0, visit)
		}
	}
}

func sqDist(ax, ay, bx, by float64) float64 {
	dx := ax - bx
	dy := ay - by
	return dx*dx + dy*dy
}
