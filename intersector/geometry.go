// Package intersector implements the acceleration-structure facade of
// spec.md §4.1 (component J): an opaque handle over a committed BVH, with
// the attach/detach/commit/intersect/occluded/interpolate operations the
// shading kernel issues against. No ecosystem BVH library covers Go
// (see DESIGN.md); the structure itself is a from-scratch median-split BVH
// over the standard library only.
package intersector

import (
	"fmt"

	math "render-engine/math"
)

// AttributeSlot names a per-vertex attribute buffer (spec.md §4.1).
type AttributeSlot int

const (
	SlotNormal AttributeSlot = iota
	SlotTexcoord0
	SlotTangent
	SlotBitangent
	slotCount
)

// Handle identifies a geometry before it has been attached to a Scene.
type Handle uint32

// GeomID identifies an attached, committed geometry. InvalidGeomID signals
// a ray miss (spec.md §4.1 "INVALID_GEOM_ID").
type GeomID int32

const InvalidGeomID GeomID = -1

// IntersectFilter observes or rejects a candidate hit before it becomes the
// closest hit (spec.md §4.1 "set_intersect_filter" — used for alpha-testing
// hooks). Returning false rejects the candidate; the query continues past
// it. Default is accept-all (nil filter).
type IntersectFilter func(geomID GeomID, primID int, u, v float32) bool

// attrBuffers holds the four per-vertex attribute slots for one geometry.
type attrBuffers struct {
	normal    []math.Vec3
	texcoord0 []math.Vec2
	tangent   []math.Vec4
	bitangent []math.Vec3
}

// Geometry is a triangle buffer set owned by the intersector once attached
// (spec.md §4.1 "new_geometry"). The builder (component H) writes directly
// into Positions, replaces the attribute slots through SetNormals/
// SetTexcoords/SetTangents/SetBitangents, and recommits after mutation.
type Geometry struct {
	Positions []math.Vec3
	Triangles []math.U32Vec3
	attrs     attrBuffers

	userData any
	filter   IntersectFilter

	bvh      *bvhNode
	bvhOrder []int
	dirty    bool
}

// NewGeometry allocates a geometry with buffers sized for n vertices and m
// triangles (spec.md §4.1). The caller fills Positions/Triangles and the
// attribute slots via SetNormals/SetTexcoords/SetTangents/SetBitangents
// before Commit.
func NewGeometry(n, m int) *Geometry {
	return &Geometry{
		Positions: make([]math.Vec3, n),
		Triangles: make([]math.U32Vec3, m),
		attrs: attrBuffers{
			normal:    make([]math.Vec3, n),
			texcoord0: make([]math.Vec2, n),
			tangent:   make([]math.Vec4, n),
			bitangent: make([]math.Vec3, n),
		},
		dirty: true,
	}
}

// SetUserData stores the opaque pointer attached to this geometry — in this
// renderer, always a *material.Material (spec.md §4.1 "set_user_data").
func (g *Geometry) SetUserData(p any) {
	g.userData = p
}

// UserData returns the value set by SetUserData.
func (g *Geometry) UserData() any {
	return g.userData
}

// SetIntersectFilter installs the alpha-testing hook (spec.md §4.1). A nil
// filter accepts every candidate hit.
func (g *Geometry) SetIntersectFilter(f IntersectFilter) {
	g.filter = f
}

// SetNormals, SetTexcoords, SetTangents, SetBitangents overwrite an
// attribute slot in place and mark the geometry dirty, matching
// "update_buffer(slot)" of spec.md §4.1.
func (g *Geometry) SetNormals(v []math.Vec3) {
	g.attrs.normal = v
	g.dirty = true
}

func (g *Geometry) SetTexcoords(v []math.Vec2) {
	g.attrs.texcoord0 = v
	g.dirty = true
}

func (g *Geometry) SetTangents(v []math.Vec4) {
	g.attrs.tangent = v
	g.dirty = true
}

func (g *Geometry) SetBitangents(v []math.Vec3) {
	g.attrs.bitangent = v
	g.dirty = true
}

// MarkDirty flags the geometry for BVH rebuild on the next Commit, without
// replacing any buffer (used when the builder mutates Positions in place
// during animation updates).
func (g *Geometry) MarkDirty() {
	g.dirty = true
}

// Commit rebuilds this geometry's BVH if dirty (spec.md §4.1 "commit").
// Must be called before any query reaches it through a Scene.
func (g *Geometry) Commit() error {
	if !g.dirty {
		return nil
	}
	if len(g.Positions) == 0 || len(g.Triangles) == 0 {
		g.bvh = nil
		g.bvhOrder = nil
		g.dirty = false
		return nil
	}
	bvh, order, err := buildBVH(g.Positions, g.Triangles)
	if err != nil {
		return fmt.Errorf("intersector: commit: %w", err)
	}
	g.bvh = bvh
	g.bvhOrder = order
	g.dirty = false
	return nil
}

func (g *Geometry) attribute(slot AttributeSlot, vertex uint32) math.Vec4 {
	switch slot {
	case SlotNormal:
		n := g.attrs.normal[vertex]
		return math.Vec4{X: n.X, Y: n.Y, Z: n.Z}
	case SlotTexcoord0:
		t := g.attrs.texcoord0[vertex]
		return math.Vec4{X: t.X, Y: t.Y}
	case SlotTangent:
		return g.attrs.tangent[vertex]
	case SlotBitangent:
		b := g.attrs.bitangent[vertex]
		return math.Vec4{X: b.X, Y: b.Y, Z: b.Z}
	default:
		return math.Vec4{}
	}
}
