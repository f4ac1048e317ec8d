package intersector

import (
	"errors"
	"sort"

	math "render-engine/math"
)

// aabb is an axis-aligned bounding box.
type aabb struct {
	min, max math.Vec3
}

func emptyAABB() aabb {
	const inf = 1e30
	return aabb{min: math.Vec3{X: inf, Y: inf, Z: inf}, max: math.Vec3{X: -inf, Y: -inf, Z: -inf}}
}

func (b aabb) grow(p math.Vec3) aabb {
	return aabb{min: b.min.Min(p), max: b.max.Max(p)}
}

func (b aabb) union(o aabb) aabb {
	return aabb{min: b.min.Min(o.min), max: b.max.Max(o.max)}
}

func (b aabb) centroid() math.Vec3 {
	return b.min.Add(b.max).Mul(0.5)
}

func (b aabb) largestAxis() int {
	d := b.max.Sub(b.min)
	axis := 0
	best := d.X
	if d.Y > best {
		axis, best = 1, d.Y
	}
	if d.Z > best {
		axis = 2
	}
	return axis
}

// slabIntersect returns whether the ray hits b within [tMin, tMax], and the
// entry distance.
func (b aabb) slabIntersect(origin, invDir math.Vec3, tMin, tMax float32) (bool, float32) {
	t0, t1 := tMin, tMax

	tx1 := (b.min.X - origin.X) * invDir.X
	tx2 := (b.max.X - origin.X) * invDir.X
	if tx1 > tx2 {
		tx1, tx2 = tx2, tx1
	}
	t0 = maxF32(t0, tx1)
	t1 = minF32(t1, tx2)

	ty1 := (b.min.Y - origin.Y) * invDir.Y
	ty2 := (b.max.Y - origin.Y) * invDir.Y
	if ty1 > ty2 {
		ty1, ty2 = ty2, ty1
	}
	t0 = maxF32(t0, ty1)
	t1 = minF32(t1, ty2)

	tz1 := (b.min.Z - origin.Z) * invDir.Z
	tz2 := (b.max.Z - origin.Z) * invDir.Z
	if tz1 > tz2 {
		tz1, tz2 = tz2, tz1
	}
	t0 = maxF32(t0, tz1)
	t1 = minF32(t1, tz2)

	return t0 <= t1, t0
}

// bvhNode is a node of a median-split BVH over triangle indices.
type bvhNode struct {
	bounds      aabb
	left, right *bvhNode
	// leaf fields: primitive index range [start, end) into the shared
	// order slice
	start, end int
}

func (n *bvhNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// bvhRoot pairs the root node with the triangle-index order produced by
// the build, and the source buffers it was built over.
type bvhRoot struct {
	root      *bvhNode
	order     []int // indices into triangles
	positions []math.Vec3
	triangles []math.U32Vec3
}

const bvhLeafSize = 4

func buildBVH(positions []math.Vec3, triangles []math.U32Vec3) (*bvhNode, []int, error) {
	if len(triangles) == 0 {
		return nil, nil, errors.New("no triangles")
	}

	bounds := make([]aabb, len(triangles))
	order := make([]int, len(triangles))
	for i, tri := range triangles {
		b := emptyAABB()
		b = b.grow(positions[tri.X])
		b = b.grow(positions[tri.Y])
		b = b.grow(positions[tri.Z])
		bounds[i] = b
		order[i] = i
	}

	root := buildRange(order, bounds, 0, len(order))
	return root, order, nil
}

func buildRange(order []int, bounds []aabb, start, end int) *bvhNode {
	n := &bvhNode{start: start, end: end}

	box := emptyAABB()
	for i := start; i < end; i++ {
		box = box.union(bounds[order[i]])
	}
	n.bounds = box

	if end-start <= bvhLeafSize {
		return n
	}

	axis := box.largestAxis()
	slice := order[start:end]
	sort.Slice(slice, func(i, j int) bool {
		ci := bounds[slice[i]].centroid()
		cj := bounds[slice[j]].centroid()
		return component(ci, axis) < component(cj, axis)
	})

	mid := start + (end-start)/2
	if mid == start || mid == end {
		return n
	}

	n.left = buildRange(order, bounds, start, mid)
	n.right = buildRange(order, bounds, mid, end)
	return n
}

func component(v math.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
