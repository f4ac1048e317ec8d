// Package shading implements the classic (direct + ambient occlusion) and
// path-tracing shading kernels (spec.md §4.6, component K).
package shading

import (
	"github.com/chewxy/math32"

	"render-engine/intersector"
	"render-engine/material"
	math "render-engine/math"
	"render-engine/rng"
	"render-engine/texture"
)

// Mode selects which shading kernel a render pass uses (spec.md §6 "mode").
type Mode int

const (
	ModeAlbedo Mode = iota
	ModeNormal
	ModeClassic
	ModePathtracing
)

// Params holds the per-pass tunables of spec.md §6 that the kernel reads.
type Params struct {
	AOSamples  uint32
	DepthMin   uint32
	DepthLimit uint32
}

// directionalLight is the classic kernel's fixed light direction, L =
// normalize(-1,-1,-1) per spec.md §4.6.
var directionalLight = math.Vec3{X: -1, Y: -1, Z: -1}.Normalize()

const (
	primaryTnear = 1e-3
	aoTnear      = 1e-4
)

// Shade dispatches to the kernel selected by mode for one ray (spec.md
// §4.6). background is returned on a miss (ModeClassic/ModePathtracing) or
// is the constant the path tracer adds when the escaping ray carries no
// geometry to hit.
func Shade(mode Mode, scn *intersector.Scene, ray intersector.Ray, background math.Vec3, params Params, st *rng.State) math.Vec3 {
	switch mode {
	case ModeAlbedo:
		return shadeAOV(scn, ray, aovAlbedo)
	case ModeNormal:
		return shadeAOV(scn, ray, aovNormal)
	case ModeClassic:
		return shadeClassic(scn, ray, background, params, st)
	default:
		return shadePath(scn, ray, background, params, st)
	}
}

type aovKind int

const (
	aovAlbedo aovKind = iota
	aovNormal
)

func shadeAOV(scn *intersector.Scene, ray intersector.Ray, kind aovKind) math.Vec3 {
	hit := scn.Intersect1(ray)
	if hit.GeomID == intersector.InvalidGeomID {
		return math.Vec3{}
	}
	geom := scn.Geometry(hit.GeomID)
	mat := materialOf(geom)
	n := shadingNormal(scn, hit)

	if kind == aovNormal {
		return n.Mul(0.5).Add(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5})
	}
	uv := texcoordOf(scn, hit)
	return mat.SampleBaseColor(uv.X, uv.Y).ToVec3()
}

func shadeClassic(scn *intersector.Scene, ray intersector.Ray, background math.Vec3, params Params, st *rng.State) math.Vec3 {
	hit := scn.Intersect1(ray)
	if hit.GeomID == intersector.InvalidGeomID {
		return background
	}

	geom := scn.Geometry(hit.GeomID)
	mat := materialOf(geom)
	p := hitPoint(ray, hit)
	n := shadingNormal(scn, hit)
	uv := texcoordOf(scn, hit)

	albedo := mat.SampleBaseColor(uv.X, uv.Y).ToVec3()
	color := math.Vec3{}

	shadowRay := intersector.Ray{
		Origin: p,
		Dir:    directionalLight.Negate(),
		Tnear:  primaryTnear,
		Tfar:   1e30,
	}
	if !scn.Occluded1(&shadowRay) {
		diffuse := maxF(0, -directionalLight.Dot(n))
		color = color.Add(albedo.Mul(diffuse))
	}

	if params.AOSamples > 0 {
		hits := 0
		for i := uint32(0); i < params.AOSamples; i++ {
			dir, r := sampleHemisphereRejection(n, st)
			target := p.Add(dir.Mul(r))
			aoRay := intersector.Ray{
				Origin: p,
				Dir:    dir,
				Tnear:  aoTnear,
				Tfar:   target.Sub(p).Length(),
			}
			if scn.Occluded1(&aoRay) {
				hits++
			}
		}
		ao := 1 - float32(hits)/float32(params.AOSamples)
		color = color.Mul(ao)
	}

	color = color.Add(albedo.Mul(0.5))
	return color
}

// sampleHemisphereRejection draws a point in the unit cube, rejects it if
// outside the unit sphere, and returns the resulting direction offset by
// r·n around the hemisphere normal n (spec.md §4.6 step 6).
func sampleHemisphereRejection(n math.Vec3, st *rng.State) (dir math.Vec3, r float32) {
	for {
		x := st.Uniform01f()*2 - 1
		y := st.Uniform01f()*2 - 1
		z := st.Uniform01f()*2 - 1
		v := math.Vec3{X: x, Y: y, Z: z}
		if v.LengthSqr() > 1 {
			continue
		}
		offset := v.Add(n)
		return offset.Normalize(), offset.Length()
	}
}

func shadePath(scn *intersector.Scene, ray intersector.Ray, background math.Vec3, params Params, st *rng.State) math.Vec3 {
	L := math.Vec3{}
	beta := math.Vec3{X: 1, Y: 1, Z: 1}
	depth := uint32(0)
	current := ray
	current.Tnear = primaryTnear

	for {
		hit := scn.Intersect1(current)
		if hit.GeomID == intersector.InvalidGeomID {
			L = L.Add(beta.MulVec(background))
			break
		}

		geom := scn.Geometry(hit.GeomID)
		mat := materialOf(geom)
		p := hitPoint(current, hit)
		n := shadingNormal(scn, hit)
		uv := texcoordOf(scn, hit)

		baseColor := mat.SampleBaseColor(uv.X, uv.Y).ToVec3()
		emissive := mat.SampleEmissive(uv.X, uv.Y)
		rhoMax := baseColor.MaxComponent()

		if depth > params.DepthLimit {
			rhoMax *= math32.Pow(0.5, float32(depth-params.DepthLimit))
		}

		russian := float32(1)
		if depth > params.DepthMin {
			if st.Uniform01f() >= rhoMax {
				L = L.Add(beta.MulVec(emissive))
				break
			}
			russian = rhoMax
		}

		L = L.Add(beta.MulVec(emissive))

		w := n
		u := orthogonal(w)
		v := w.Cross(u)

		r1 := 2 * math32.Pi * st.Uniform01f()
		r2 := st.Uniform01f()
		sqrtR2 := math32.Sqrt(r2)
		sinR1, cosR1 := math32.Sin(r1), math32.Cos(r1)
		d := u.Mul(cosR1 * sqrtR2).Add(v.Mul(sinR1 * sqrtR2)).Add(w.Mul(math32.Sqrt(1 - r2)))
		dir := d.Normalize()

		if russian <= 0 {
			break
		}
		beta = beta.MulVec(baseColor).Div(russian)
		if !beta.IsFinite() {
			break
		}

		current = intersector.Ray{Origin: p.Add(n.Mul(1e-4)), Dir: dir, Tnear: primaryTnear, Tfar: 1e30}
		depth++
	}

	if !L.IsFinite() {
		return math.Vec3{}
	}
	return L
}

// orthogonal returns a unit vector perpendicular to w, following spec.md
// §4.6 step 6's axis choice to avoid a degenerate cross product: cross with
// Y when w has a non-negligible X component, otherwise with X.
func orthogonal(w math.Vec3) math.Vec3 {
	const eps = 0.001
	ref := math.Vec3{X: 1}
	if math32.Abs(w.X) > eps {
		ref = math.Vec3{Y: 1}
	}
	return ref.Cross(w).Normalize()
}

func materialOf(geom *intersector.Geometry) *material.Material {
	if geom == nil {
		return material.Default()
	}
	if m, ok := geom.UserData().(*material.Material); ok && m != nil {
		return m
	}
	return material.Default()
}

func shadingNormal(scn *intersector.Scene, hit intersector.RayHit) math.Vec3 {
	n := scn.Interpolate0(hit.GeomID, hit.PrimID, hit.U, hit.V, intersector.SlotNormal)
	v := math.Vec3{X: n.X, Y: n.Y, Z: n.Z}
	if v.LengthSqr() < 1e-12 {
		return hit.Ng
	}
	return v.Normalize()
}

func texcoordOf(scn *intersector.Scene, hit intersector.RayHit) math.Vec2 {
	uv := scn.Interpolate0(hit.GeomID, hit.PrimID, hit.U, hit.V, intersector.SlotTexcoord0)
	return math.Vec2{X: uv.X, Y: uv.Y}
}

func hitPoint(ray intersector.Ray, hit intersector.RayHit) math.Vec3 {
	return ray.Origin.Add(ray.Dir.Mul(hit.Tfar))
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

var _ = texture.White
