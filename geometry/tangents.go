// Package geometry implements the tangent generator and the world-space
// geometry builder (spec.md §4.2-4.3, components H and I).
package geometry

import (
	math "render-engine/math"
	"render-engine/scene"
)

// GenerateTangents computes MikkTSpace-convention per-vertex tangents for a
// primitive (spec.md §4.3, component I). Missing normals are regenerated as
// face-weighted smoothed normals; missing texcoords are filled with (0,0)
// and the primitive is marked Untextured. Safe to call on an already
// complete primitive (it is then a no-op on normals/texcoords and simply
// recomputes tangents).
func GenerateTangents(p *scene.Primitive) {
	n := len(p.Positions)
	if n == 0 {
		return
	}

	if len(p.Normals) != n {
		p.Normals = faceWeightedNormals(p)
	}
	if len(p.Texcoords0) != n {
		p.Texcoords0 = make([]math.Vec2, n)
		p.Untextured = true
	}

	tan := make([]math.Vec3, n)
	bit := make([]math.Vec3, n)

	for _, tri := range p.Triangles {
		i0, i1, i2 := tri.X, tri.Y, tri.Z
		p0, p1, p2 := p.Positions[i0], p.Positions[i1], p.Positions[i2]
		uv0, uv1, uv2 := p.Texcoords0[i0], p.Texcoords0[i1], p.Texcoords0[i2]

		e1 := p1.Sub(p0)
		e2 := p2.Sub(p0)
		du1 := uv1.X - uv0.X
		dv1 := uv1.Y - uv0.Y
		du2 := uv2.X - uv0.X
		dv2 := uv2.Y - uv0.Y

		denom := du1*dv2 - du2*dv1
		if denom == 0 {
			continue
		}
		r := 1 / denom

		t := e1.Mul(dv2 * r).Sub(e2.Mul(dv1 * r))
		b := e2.Mul(du1 * r).Sub(e1.Mul(du2 * r))

		tan[i0] = tan[i0].Add(t)
		tan[i1] = tan[i1].Add(t)
		tan[i2] = tan[i2].Add(t)
		bit[i0] = bit[i0].Add(b)
		bit[i1] = bit[i1].Add(b)
		bit[i2] = bit[i2].Add(b)
	}

	tangents := make([]math.Vec4, n)
	for i := 0; i < n; i++ {
		nrm := p.Normals[i]
		t := tan[i]

		// Gram-Schmidt orthogonalize against the normal.
		t = t.Sub(nrm.Mul(nrm.Dot(t)))
		if t.LengthSqr() < 1e-12 {
			if absF(nrm.X) < 0.9 {
				t = math.Vec3{X: 1}.Sub(nrm.Mul(nrm.X))
			} else {
				t = math.Vec3{Y: 1}.Sub(nrm.Mul(nrm.Y))
			}
		}
		t = t.Normalize()

		// Handedness: w = sign of dot(cross(N,T), accumulated bitangent).
		w := float32(1)
		if nrm.Cross(t).Dot(bit[i]) < 0 {
			w = -1
		}
		tangents[i] = math.Vec4{X: t.X, Y: t.Y, Z: t.Z, W: w}
	}
	p.Tangents = tangents
}

// faceWeightedNormals sums unnormalized face normals at each shared vertex
// and renormalizes, per spec.md §4.3.
func faceWeightedNormals(p *scene.Primitive) []math.Vec3 {
	n := len(p.Positions)
	normals := make([]math.Vec3, n)
	for _, tri := range p.Triangles {
		i0, i1, i2 := tri.X, tri.Y, tri.Z
		p0, p1, p2 := p.Positions[i0], p.Positions[i1], p.Positions[i2]
		faceNormal := p1.Sub(p0).Cross(p2.Sub(p0))
		normals[i0] = normals[i0].Add(faceNormal)
		normals[i1] = normals[i1].Add(faceNormal)
		normals[i2] = normals[i2].Add(faceNormal)
	}
	for i := range normals {
		if normals[i].LengthSqr() > 1e-20 {
			normals[i] = normals[i].Normalize()
		} else {
			normals[i] = math.Vec3{Y: 1}
		}
	}
	return normals
}

func absF(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
