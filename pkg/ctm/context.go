// Package ctm implements the OpenCTM mesh interchange container: a
// mode-fixed context that accumulates a triangle mesh for export or
// reconstructs one from a byte stream on import, with a fixed binary header
// and a pluggable compressed payload codec (RAW, MG1 or MG2).
package ctm

import "math"

// Mode fixes a context as an importer or an exporter at creation time.
type Mode int

const (
	Import Mode = iota + 1
	Export
)

// Method selects the payload codec used by save and reported by load.
type Method int

const (
	MethodRaw Method = iota + 1
	MethodMG1
	MethodMG2
)

// String returns the method's header tag name.
func (m Method) String() string {
	switch m {
	case MethodRaw:
		return "RAW"
	case MethodMG1:
		return "MG1"
	case MethodMG2:
		return "MG2"
	default:
		return "Unknown"
	}
}

// Context is the opaque handle coordinating one mesh's definition and
// serialization session. A Context is not safe for concurrent use; callers
// must serialize access to a given instance.
type Context struct {
	mode    Mode
	lastErr error

	method          Method
	vertexPrecision float32
	fileComment     string

	mesh mesh
}

// NewContext creates a context fixed in the given mode. The compression
// method defaults to MG1 and the vertex precision to 1/1024.
func NewContext(mode Mode) *Context {
	return &Context{
		mode:            mode,
		method:          MethodMG1,
		vertexPrecision: 1.0 / 1024.0,
		mesh:            mesh{owned: mode == Import},
	}
}

// fail records err in the sticky register and returns it. A later failure
// overwrites an unread earlier one.
func (c *Context) fail(err error) error {
	c.lastErr = err
	return err
}

// LastError returns the pending error and resets the register, so an
// immediate second call returns nil.
func (c *Context) LastError() error {
	if c == nil {
		return ErrInvalidContext
	}
	err := c.lastErr
	c.lastErr = nil
	return err
}

// Mode returns the context's fixed mode.
func (c *Context) Mode() Mode {
	if c == nil {
		return 0
	}
	return c.mode
}

// Method returns the selected compression method. After a successful load
// it reports the method the stream was encoded with.
func (c *Context) Method() Method {
	if c == nil {
		return 0
	}
	return c.method
}

// Clear detaches the mesh and drops the file comment, returning the context
// to its freshly created state. The mode and error register are untouched.
func (c *Context) Clear() {
	if c == nil {
		return
	}
	c.mesh.clear()
	c.fileComment = ""
}

// CompressionMethod selects the payload codec. Export mode only.
func (c *Context) CompressionMethod(method Method) error {
	if c == nil {
		return ErrInvalidContext
	}
	if c.mode != Export {
		return c.fail(ErrInvalidOperation)
	}
	switch method {
	case MethodRaw, MethodMG1, MethodMG2:
		c.method = method
		return nil
	default:
		return c.fail(ErrInvalidArgument)
	}
}

// VertexPrecision sets the absolute vertex quantization threshold used by
// the MG2 codec. Export mode only; precision must be positive.
func (c *Context) VertexPrecision(precision float32) error {
	if c == nil {
		return ErrInvalidContext
	}
	if c.mode != Export {
		return c.fail(ErrInvalidOperation)
	}
	if precision <= 0 {
		return c.fail(ErrInvalidArgument)
	}
	c.vertexPrecision = precision
	return nil
}

// VertexPrecisionRel derives the absolute vertex precision from the mesh:
// the mean length of all triangle half-edges multiplied by relPrecision.
// Requires a defined mesh; export mode only.
func (c *Context) VertexPrecisionRel(relPrecision float32) error {
	if c == nil {
		return ErrInvalidContext
	}
	if c.mode != Export {
		return c.fail(ErrInvalidOperation)
	}
	if relPrecision <= 0 {
		return c.fail(ErrInvalidArgument)
	}

	// Sum all half-edges, wrapping from the last corner back to the first,
	// so a solid mesh counts every connected edge twice.
	var totalLength float64
	edgeCount := 0
	for i := uint32(0); i < c.mesh.triangleCount; i++ {
		p1 := c.mesh.indices[i*3+2]
		for j := uint32(0); j < 3; j++ {
			p2 := c.mesh.indices[i*3+j]
			dx := float64(c.mesh.vertices[p2*3] - c.mesh.vertices[p1*3])
			dy := float64(c.mesh.vertices[p2*3+1] - c.mesh.vertices[p1*3+1])
			dz := float64(c.mesh.vertices[p2*3+2] - c.mesh.vertices[p1*3+2])
			totalLength += math.Sqrt(dx*dx + dy*dy + dz*dz)
			p1 = p2
			edgeCount++
		}
	}
	if edgeCount == 0 {
		return c.fail(ErrInvalidMesh)
	}

	c.vertexPrecision = relPrecision * float32(totalLength/float64(edgeCount))
	return nil
}

// FileComment replaces the file comment wholesale. Export mode only; an
// empty string clears the comment.
func (c *Context) FileComment(comment string) error {
	if c == nil {
		return ErrInvalidContext
	}
	if c.mode != Export {
		return c.fail(ErrInvalidOperation)
	}
	c.fileComment = comment
	return nil
}

// DefineMesh attaches a mesh for export. The slices are borrowed: the
// container never mutates or reallocates them, and the caller must keep
// them valid until the next DefineMesh or Clear. Vertices hold 3 floats per
// vertex, indices 3 per triangle; normals are optional and, when present,
// must match the vertex array in length.
//
// Any previously attached mesh is cleared first; if the arguments are then
// rejected the mesh stays cleared.
func (c *Context) DefineMesh(vertices []float32, indices []uint32, normals []float32) error {
	if c == nil {
		return ErrInvalidContext
	}
	if c.mode != Export {
		return c.fail(ErrInvalidOperation)
	}

	c.mesh.clear()

	if vertices == nil || indices == nil || len(vertices) < 3 || len(indices) < 3 {
		return c.fail(ErrInvalidArgument)
	}
	if len(vertices)%3 != 0 || len(indices)%3 != 0 {
		return c.fail(ErrInvalidArgument)
	}
	if normals != nil && len(normals) != len(vertices) {
		return c.fail(ErrInvalidArgument)
	}

	c.mesh.vertices = vertices
	c.mesh.vertexCount = uint32(len(vertices) / 3)
	c.mesh.indices = indices
	c.mesh.triangleCount = uint32(len(indices) / 3)
	c.mesh.normals = normals
	return nil
}

// AddTexMap attaches a named texture coordinate map (2 floats per vertex)
// to the export mesh and returns the property identifier addressing it.
// Requires a defined mesh.
func (c *Context) AddTexMap(texCoords []float32, name string) (Property, error) {
	if c == nil {
		return PropNone, ErrInvalidContext
	}
	return c.addMap(&c.mesh.texMaps, PropTexMap1, texMapStride, defaultTexMapPrecision, texCoords, name)
}

// AddAttribMap attaches a named custom attribute map (4 floats per vertex)
// to the export mesh and returns the property identifier addressing it.
// Requires a defined mesh.
func (c *Context) AddAttribMap(attribValues []float32, name string) (Property, error) {
	if c == nil {
		return PropNone, ErrInvalidContext
	}
	return c.addMap(&c.mesh.attribMaps, PropAttribMap1, attribMapStride, defaultAttribMapPrecision, attribValues, name)
}

func (c *Context) addMap(list *[]floatMap, base Property, stride int, precision float32, values []float32, name string) (Property, error) {
	if c.mode != Export {
		return PropNone, c.fail(ErrInvalidOperation)
	}
	if c.mesh.vertexCount == 0 {
		return PropNone, c.fail(ErrInvalidOperation)
	}
	if values == nil || len(values) != stride*int(c.mesh.vertexCount) {
		return PropNone, c.fail(ErrInvalidArgument)
	}

	*list = append(*list, floatMap{
		name:      name,
		values:    values,
		precision: precision,
	})
	return base + Property(len(*list)-1), nil
}

// TexCoordPrecision sets the quantization threshold for one texture map,
// addressed by the identifier AddTexMap returned. Export mode only.
func (c *Context) TexCoordPrecision(texMap Property, precision float32) error {
	if c == nil {
		return ErrInvalidContext
	}
	return c.setMapPrecision(c.mesh.texMaps, PropTexMap1, texMap, precision)
}

// AttribPrecision sets the quantization threshold for one attribute map,
// addressed by the identifier AddAttribMap returned. Export mode only.
func (c *Context) AttribPrecision(attribMap Property, precision float32) error {
	if c == nil {
		return ErrInvalidContext
	}
	return c.setMapPrecision(c.mesh.attribMaps, PropAttribMap1, attribMap, precision)
}

func (c *Context) setMapPrecision(list []floatMap, base Property, prop Property, precision float32) error {
	if c.mode != Export {
		return c.fail(ErrInvalidOperation)
	}
	if precision <= 0 || prop < base || int(prop-base) >= len(list) {
		return c.fail(ErrInvalidArgument)
	}
	list[prop-base].precision = precision
	return nil
}
