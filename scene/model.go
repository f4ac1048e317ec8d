// Package scene implements the neutral scene data model: materials,
// textures, meshes, the node transform hierarchy and keyframe animations
// (spec.md §3, component G). A Model owns every arena (meshes, nodes,
// animations); everything else refers to arena entries by index, never by
// pointer, so the graph has no cyclic ownership (spec.md REDESIGN FLAGS).
package scene

import (
	"fmt"

	"render-engine/material"
	"render-engine/math"
	"render-engine/texture"
)

// NodeIndex, MeshIndex and AnimationIndex are stable offsets into a Model's
// arenas. The zero value of each is a valid index (arena 0); use -1
// (NoIndex) to mean "absent".
type NodeIndex int
type MeshIndex int
type AnimationIndex int

// NoIndex marks an absent optional reference.
const NoIndex = -1

// Primitive is the renderable unit: object-space vertex buffers plus a
// shared material (spec.md §3 "Primitive"). Array lengths must agree;
// every triangles index must be < len(Positions).
type Primitive struct {
	Positions  []math.Vec3
	Normals    []math.Vec3
	Texcoords0 []math.Vec2
	Tangents   []math.Vec4 // w = handedness sign
	Triangles  []math.U32Vec3
	Material   *material.Material

	// Untextured marks that Texcoords0 was absent in the source data and
	// was filled with (0,0) (spec.md §3). Nothing downstream reads the
	// flag; such a primitive is textured by sampling every hit at uv (0,0).
	Untextured bool
}

// Valid reports the Primitive invariants of spec.md §3.
func (p *Primitive) Valid() bool {
	n := len(p.Positions)
	if len(p.Normals) != n || len(p.Texcoords0) != n || len(p.Tangents) != n {
		return false
	}
	for _, tri := range p.Triangles {
		if int(tri.X) >= n || int(tri.Y) >= n || int(tri.Z) >= n {
			return false
		}
	}
	return true
}

// Mesh is an ordered list of primitives (spec.md §3 "Mesh").
type Mesh struct {
	Name       string
	Primitives []*Primitive
}

// Node is a transform-hierarchy entry. Children are stored as indices into
// the owning Model's node arena; a node appears in exactly one parent's
// Children list (spec.md §3 "Node").
type Node struct {
	Name        string
	LocalMatrix math.Mat4
	Mesh        MeshIndex // NoIndex if this node carries no geometry
	Children    []NodeIndex
}

// HasMesh reports whether this node references a mesh.
func (n *Node) HasMesh() bool {
	return n.Mesh != NoIndex
}

// AnimationSampler holds one keyframe track (spec.md §3 "AnimationSampler").
// Values is flattened triples (translation/scale) or quads (rotation);
// Timeline must be strictly increasing.
type AnimationSampler struct {
	Timeline    []float32
	Values      []float32
	Interpolate InterpolationMode
}

// InterpolationMode selects the per-sampler keyframe blend.
type InterpolationMode int

const (
	InterpolateLinear InterpolationMode = iota
	InterpolateSlerp
)

// TargetPath names the node field an AnimationChannel drives.
type TargetPath int

const (
	TargetTranslation TargetPath = iota
	TargetRotation
	TargetScale
)

// AnimationChannel binds one sampler to one node's transform component
// (spec.md §3 "AnimationChannel").
type AnimationChannel struct {
	Sampler    int
	TargetNode NodeIndex
	TargetPath TargetPath
}

// Animation is a named bundle of samplers and channels (spec.md §3
// "Animation"). TimelineMin/Max are the min/max across every channel's
// sampler timeline, used for cyclic playback (spec.md §8 property 8).
type Animation struct {
	Name         string
	Samplers     []AnimationSampler
	Channels     []AnimationChannel
	TimelineMin  float32
	TimelineMax  float32
}

// Model owns every arena loaded from a single glTF/OBJ document or built
// procedurally: materials (held by reference from Primitive), textures (held
// by reference from Material), meshes, nodes, and animations. A Model is
// read-only after loading; it is released as a whole when a new model
// replaces it (spec.md §3 "Model").
type Model struct {
	Name       string
	Meshes     []*Mesh
	Nodes      []*Node
	Animations []*Animation
	Textures   []*texture.Texture
	Materials  []*material.Material

	// Roots lists the top-level node indices of the default scene.
	Roots []NodeIndex
}

// NewModel returns an empty Model ready for a loader to populate.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// Node resolves an index into a *Node, or nil if the index is NoIndex.
func (m *Model) Node(i NodeIndex) *Node {
	if i == NoIndex {
		return nil
	}
	return m.Nodes[i]
}

// Mesh resolves an index into a *Mesh, or nil if the index is NoIndex.
func (m *Model) Mesh(i MeshIndex) *Mesh {
	if i == NoIndex {
		return nil
	}
	return m.Meshes[i]
}

// AddNode appends a node to the arena and returns its stable index.
func (m *Model) AddNode(n *Node) NodeIndex {
	m.Nodes = append(m.Nodes, n)
	return NodeIndex(len(m.Nodes) - 1)
}

// AddMesh appends a mesh to the arena and returns its stable index.
func (m *Model) AddMesh(mesh *Mesh) MeshIndex {
	m.Meshes = append(m.Meshes, mesh)
	return MeshIndex(len(m.Meshes) - 1)
}

// Validate walks the node forest checking for cycles and that every node
// appears under at most one parent (spec.md §3 "Node" invariant). The
// loader must call this before the model is handed to the geometry builder.
func (m *Model) Validate() error {
	visited := make([]bool, len(m.Nodes))
	onStack := make([]bool, len(m.Nodes))
	var walk func(NodeIndex) error
	walk = func(i NodeIndex) error {
		if onStack[i] {
			return fmt.Errorf("scene: cycle detected at node %d (%q)", i, m.Nodes[i].Name)
		}
		if visited[i] {
			return fmt.Errorf("scene: node %d (%q) referenced by more than one parent", i, m.Nodes[i].Name)
		}
		visited[i] = true
		onStack[i] = true
		for _, c := range m.Nodes[i].Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		onStack[i] = false
		return nil
	}
	for _, r := range m.Roots {
		if err := walk(r); err != nil {
			return err
		}
	}
	return nil
}
