package intersector

import (
	math "render-engine/math"
)

// intersectGeometry walks g's BVH for the closest triangle hit on
// [tnear, tfar], honoring the geometry's intersect filter (spec.md §4.1
// "set_intersect_filter" — a rejected candidate does not stop the
// traversal).
func intersectGeometry(g *Geometry, origin, dir math.Vec3, tnear, tfar float32, id GeomID, filter IntersectFilter) (RayHit, bool) {
	invDir := math.Vec3{X: safeInv(dir.X), Y: safeInv(dir.Y), Z: safeInv(dir.Z)}

	best := RayHit{GeomID: InvalidGeomID}
	found := false
	closest := tfar

	var walk func(n *bvhNode)
	walk = func(n *bvhNode) {
		if n == nil {
			return
		}
		if ok, _ := n.bounds.slabIntersect(origin, invDir, tnear, closest); !ok {
			return
		}
		if n.isLeaf() {
			for i := n.start; i < n.end; i++ {
				triIdx := g.bvhOrder[i]
				tri := g.Triangles[triIdx]
				u, v, t, ng, ok := intersectTriangle(origin, dir, g.Positions[tri.X], g.Positions[tri.Y], g.Positions[tri.Z], tnear, closest)
				if !ok {
					continue
				}
				if filter != nil && !filter(id, triIdx, u, v) {
					continue
				}
				closest = t
				found = true
				best = RayHit{GeomID: id, PrimID: triIdx, U: u, V: v, Ng: ng, Tfar: t}
			}
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(g.bvh)

	return best, found
}

// intersectTriangle is the Möller-Trumbore ray/triangle test, returning
// barycentric (u,v), the hit distance, and the geometric normal.
func intersectTriangle(origin, dir, v0, v1, v2 math.Vec3, tMin, tMax float32) (u, v, t float32, ng math.Vec3, ok bool) {
	const eps = 1e-8

	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	pvec := dir.Cross(e2)
	det := e1.Dot(pvec)
	if det > -eps && det < eps {
		return 0, 0, 0, math.Vec3{}, false
	}
	invDet := 1 / det

	tvec := origin.Sub(v0)
	u = tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, math.Vec3{}, false
	}

	qvec := tvec.Cross(e1)
	v = dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, math.Vec3{}, false
	}

	t = e2.Dot(qvec) * invDet
	if t < tMin || t > tMax {
		return 0, 0, 0, math.Vec3{}, false
	}

	ng = e1.Cross(e2).Normalize()
	return u, v, t, ng, true
}

func safeInv(x float32) float32 {
	if x == 0 {
		return 1e30
	}
	return 1 / x
}
