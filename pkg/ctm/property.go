package ctm

// Property identifies a queryable value of a context. The map ranges are
// open-ended: PropTexMap1+i and PropAttribMap1+i address the i'th attached
// map in insertion order.
type Property uint32

const (
	PropNone Property = 0

	// Integer properties.
	PropVertexCount    Property = 0x0101
	PropTriangleCount  Property = 0x0102
	PropHasNormals     Property = 0x0103
	PropTexMapCount    Property = 0x0104
	PropAttribMapCount Property = 0x0105

	// Array properties.
	PropIndices  Property = 0x0201
	PropVertices Property = 0x0202
	PropNormals  Property = 0x0203

	// String properties.
	PropFileComment Property = 0x0301

	// Bases of the open-ended map ranges.
	PropTexMap1    Property = 0x0800
	PropAttribMap1 Property = 0x0900
)

// lookupMap resolves a property inside [base, base+len(list)) to its list
// entry, or nil if the identifier is outside the attached range.
func lookupMap(list []floatMap, base Property, prop Property) *floatMap {
	if prop < base || int(prop-base) >= len(list) {
		return nil
	}
	return &list[prop-base]
}

// GetInteger returns a scalar integer property. Unknown identifiers record
// ErrInvalidArgument and return 0.
func (c *Context) GetInteger(prop Property) uint32 {
	if c == nil {
		return 0
	}
	switch prop {
	case PropVertexCount:
		return c.mesh.vertexCount
	case PropTriangleCount:
		return c.mesh.triangleCount
	case PropTexMapCount:
		return uint32(len(c.mesh.texMaps))
	case PropAttribMapCount:
		return uint32(len(c.mesh.attribMaps))
	case PropHasNormals:
		if c.mesh.hasNormals() {
			return 1
		}
		return 0
	default:
		c.fail(ErrInvalidArgument)
		return 0
	}
}

// GetIntegerArray returns an integer array property (the index buffer).
// Unknown identifiers record ErrInvalidArgument and return nil.
func (c *Context) GetIntegerArray(prop Property) []uint32 {
	if c == nil {
		return nil
	}
	switch prop {
	case PropIndices:
		return c.mesh.indices
	default:
		c.fail(ErrInvalidArgument)
		return nil
	}
}

// GetFloatArray returns a float array property: vertices, normals, or one
// of the open-ended texture/attribute map ranges. Identifiers outside the
// attached map ranges record ErrInvalidArgument and return nil.
func (c *Context) GetFloatArray(prop Property) []float32 {
	if c == nil {
		return nil
	}
	if prop >= PropTexMap1 && prop < PropAttribMap1 {
		if m := lookupMap(c.mesh.texMaps, PropTexMap1, prop); m != nil {
			return m.values
		}
		c.fail(ErrInvalidArgument)
		return nil
	}
	if prop >= PropAttribMap1 {
		if m := lookupMap(c.mesh.attribMaps, PropAttribMap1, prop); m != nil {
			return m.values
		}
		c.fail(ErrInvalidArgument)
		return nil
	}
	switch prop {
	case PropVertices:
		return c.mesh.vertices
	case PropNormals:
		return c.mesh.normals
	default:
		c.fail(ErrInvalidArgument)
		return nil
	}
}

// GetString returns a string property: the file comment, or the name of a
// map addressed through the open-ended ranges. Unknown identifiers record
// ErrInvalidArgument and return "".
func (c *Context) GetString(prop Property) string {
	if c == nil {
		return ""
	}
	if prop >= PropTexMap1 && prop < PropAttribMap1 {
		if m := lookupMap(c.mesh.texMaps, PropTexMap1, prop); m != nil {
			return m.name
		}
		c.fail(ErrInvalidArgument)
		return ""
	}
	if prop >= PropAttribMap1 {
		if m := lookupMap(c.mesh.attribMaps, PropAttribMap1, prop); m != nil {
			return m.name
		}
		c.fail(ErrInvalidArgument)
		return ""
	}
	switch prop {
	case PropFileComment:
		return c.fileComment
	default:
		c.fail(ErrInvalidArgument)
		return ""
	}
}
