package ctm

import "fmt"

// Components per vertex carried by each map kind. Texture maps hold UV
// pairs, attribute maps hold generic 4-component values.
const (
	texMapStride    = 2
	attribMapStride = 4
)

// Default per-map precisions used by the quantizing codec when the caller
// does not tune a map explicitly.
const (
	defaultTexMapPrecision    = 1.0 / 4096.0
	defaultAttribMapPrecision = 1.0 / 256.0
)

// floatMap is one named per-vertex float array. List order is insertion
// order and defines the property identifier offset.
type floatMap struct {
	name      string
	values    []float32
	precision float32
}

// mesh aggregates the vertex, index, normal and map arrays of one context.
//
// Ownership is mode-conditioned: an export-mode mesh borrows the caller's
// slices (they are never written to and never reallocated), an import-mode
// mesh owns arrays allocated during load. The owned flag is fixed at context
// creation; decoders only ever run on owned meshes.
type mesh struct {
	owned bool

	vertices      []float32
	vertexCount   uint32
	indices       []uint32
	triangleCount uint32
	normals       []float32

	texMaps    []floatMap
	attribMaps []floatMap
}

// clear detaches all mesh arrays and map entries. For a borrowed mesh this
// merely forgets the caller's slices; for an owned mesh it drops the
// allocations made by load.
func (m *mesh) clear() {
	m.vertices = nil
	m.vertexCount = 0
	m.indices = nil
	m.triangleCount = 0
	m.normals = nil
	m.texMaps = nil
	m.attribMaps = nil
}

// hasNormals reports whether a normal array is attached.
func (m *mesh) hasNormals() bool {
	return m.normals != nil
}

// validate checks structural integrity ahead of a save: arrays present,
// counts non-zero, and every triangle index inside the vertex array.
func (m *mesh) validate() error {
	if m.vertices == nil || m.indices == nil || m.vertexCount == 0 || m.triangleCount == 0 {
		return ErrInvalidMesh
	}
	for i, idx := range m.indices {
		if idx >= m.vertexCount {
			return fmt.Errorf("%w: index %d at position %d exceeds vertex count %d",
				ErrInvalidMesh, idx, i, m.vertexCount)
		}
	}
	return nil
}
