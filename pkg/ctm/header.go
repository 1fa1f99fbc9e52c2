package ctm

import (
	"fmt"
	"io"
)

// Fixed header layout: magic, format version, method tag, vertex count,
// triangle count, texture map count, attribute map count, flags, comment.
// All integers little-endian, matching the payload sections.
const formatVersion = 5

const hasNormalsBit = 0x00000001

var (
	magicOCTM = [4]byte{'O', 'C', 'T', 'M'}

	tagRAW = [4]byte{'R', 'A', 'W', 0}
	tagMG1 = [4]byte{'M', 'G', '1', 0}
	tagMG2 = [4]byte{'M', 'G', '2', 0}
)

// Sanity bounds on header counts: anything beyond these is a corrupt header,
// refused before allocation rather than handed to make().
const (
	maxElementCount = 1 << 26
	maxMapCount     = 1 << 12
)

func methodTag(m Method) [4]byte {
	switch m {
	case MethodRaw:
		return tagRAW
	case MethodMG1:
		return tagMG1
	default:
		return tagMG2
	}
}

func methodFromTag(tag [4]byte) (Method, bool) {
	switch tag {
	case tagRAW:
		return MethodRaw, true
	case tagMG1:
		return MethodMG1, true
	case tagMG2:
		return MethodMG2, true
	default:
		return 0, false
	}
}

// Save serializes the attached mesh to w: the fixed header followed by the
// payload of the selected codec. The mesh is validated before any byte is
// written. Export mode only.
func (c *Context) Save(w io.Writer) error {
	if c == nil {
		return ErrInvalidContext
	}
	if c.mode != Export {
		return c.fail(ErrInvalidOperation)
	}
	if err := c.mesh.validate(); err != nil {
		return c.fail(err)
	}

	var flags uint32
	if c.mesh.hasNormals() {
		flags |= hasNormalsBit
	}

	s := newStreamWriter(w)
	if err := s.writeBytes(magicOCTM[:]); err != nil {
		return c.fail(err)
	}
	if err := s.writeUint32(formatVersion); err != nil {
		return c.fail(err)
	}
	tag := methodTag(c.method)
	if err := s.writeBytes(tag[:]); err != nil {
		return c.fail(err)
	}
	for _, v := range []uint32{
		c.mesh.vertexCount,
		c.mesh.triangleCount,
		uint32(len(c.mesh.texMaps)),
		uint32(len(c.mesh.attribMaps)),
		flags,
	} {
		if err := s.writeUint32(v); err != nil {
			return c.fail(err)
		}
	}
	if err := s.writeString(c.fileComment); err != nil {
		return c.fail(err)
	}

	if err := codecFor(c.method).encodeBody(s, &c.mesh, c.vertexPrecision); err != nil {
		return c.fail(err)
	}
	return nil
}

// Load clears the current mesh, validates the header read from r, allocates
// owned arrays sized from it, and dispatches to the codec named by the
// method tag. Any failure is terminal: no partial mesh is left attached.
// Import mode only.
func (c *Context) Load(r io.Reader) error {
	if c == nil {
		return ErrInvalidContext
	}
	if c.mode != Import {
		return c.fail(ErrInvalidOperation)
	}

	c.mesh.clear()

	s := newStreamReader(r)
	var magic [4]byte
	if err := s.readBytes(magic[:]); err != nil {
		return c.fail(err)
	}
	if magic != magicOCTM {
		return c.fail(fmt.Errorf("%w: bad magic %q", ErrFormatError, magic[:]))
	}
	version, err := s.readUint32()
	if err != nil {
		return c.fail(err)
	}
	if version != formatVersion {
		return c.fail(fmt.Errorf("%w: unsupported version %d", ErrFormatError, version))
	}
	var tag [4]byte
	if err := s.readBytes(tag[:]); err != nil {
		return c.fail(err)
	}
	method, ok := methodFromTag(tag)
	if !ok {
		return c.fail(fmt.Errorf("%w: unknown method tag %q", ErrFormatError, tag[:]))
	}

	vertexCount, err := s.readUint32()
	if err != nil {
		return c.fail(err)
	}
	triangleCount, err := s.readUint32()
	if err != nil {
		return c.fail(err)
	}
	if vertexCount == 0 || triangleCount == 0 {
		return c.fail(fmt.Errorf("%w: empty mesh (%d vertices, %d triangles)",
			ErrFormatError, vertexCount, triangleCount))
	}
	texMapCount, err := s.readUint32()
	if err != nil {
		return c.fail(err)
	}
	attribMapCount, err := s.readUint32()
	if err != nil {
		return c.fail(err)
	}
	flags, err := s.readUint32()
	if err != nil {
		return c.fail(err)
	}
	comment, err := s.readString()
	if err != nil {
		return c.fail(err)
	}

	if vertexCount > maxElementCount || triangleCount > maxElementCount {
		return c.fail(fmt.Errorf("%w: refusing %d vertices / %d triangles",
			ErrOutOfMemory, vertexCount, triangleCount))
	}
	if texMapCount > maxMapCount || attribMapCount > maxMapCount {
		return c.fail(fmt.Errorf("%w: refusing %d maps", ErrOutOfMemory, texMapCount+attribMapCount))
	}

	c.mesh.vertices = make([]float32, vertexCount*3)
	c.mesh.vertexCount = vertexCount
	c.mesh.indices = make([]uint32, triangleCount*3)
	c.mesh.triangleCount = triangleCount
	if flags&hasNormalsBit != 0 {
		c.mesh.normals = make([]float32, vertexCount*3)
	}
	c.mesh.texMaps = make([]floatMap, texMapCount)
	c.mesh.attribMaps = make([]floatMap, attribMapCount)

	if err := codecFor(method).decodeBody(s, &c.mesh); err != nil {
		c.mesh.clear()
		return c.fail(err)
	}

	// Harden against payloads whose indices point outside the vertex array.
	for i, idx := range c.mesh.indices {
		if idx >= vertexCount {
			c.mesh.clear()
			return c.fail(fmt.Errorf("%w: index %d at position %d exceeds vertex count %d",
				ErrFormatError, idx, i, vertexCount))
		}
	}

	c.method = method
	c.fileComment = comment
	return nil
}
