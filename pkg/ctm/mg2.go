package ctm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/golang/snappy"
)

// mg2Codec is the quantizing codec: vertex positions and map values are
// snapped to a uniform grid at the context's precision settings, the grid
// cells stored as signed offsets from a per-section origin, and every
// section packed as a snappy block. Indices and normals round-trip exactly;
// positions and map values round-trip within their precision.
type mg2Codec struct{}

func (mg2Codec) encodeBody(s *streamWriter, m *mesh, vertexPrecision float32) error {
	if err := writeIdent(s, identINDX); err != nil {
		return err
	}
	if err := writeSnappyBlock(s, uint32sToBytes(deltaEncodeIndices(m.indices))); err != nil {
		return err
	}
	if err := writeQuantized(s, identVERT, m.vertices, 3, vertexPrecision); err != nil {
		return err
	}
	if m.hasNormals() {
		if err := writeIdent(s, identNORM); err != nil {
			return err
		}
		if err := writeSnappyBlock(s, float32sToBytes(m.normals)); err != nil {
			return err
		}
	}
	for i := range m.texMaps {
		fm := &m.texMaps[i]
		if err := writeMG2MapHeader(s, identTEXC, fm); err != nil {
			return err
		}
		if err := writeQuantized(s, identTEXC, fm.values, texMapStride, fm.precision); err != nil {
			return err
		}
	}
	for i := range m.attribMaps {
		fm := &m.attribMaps[i]
		if err := writeMG2MapHeader(s, identATTR, fm); err != nil {
			return err
		}
		if err := writeQuantized(s, identATTR, fm.values, attribMapStride, fm.precision); err != nil {
			return err
		}
	}
	return nil
}

func (mg2Codec) decodeBody(s *streamReader, m *mesh) error {
	if err := expectIdent(s, identINDX); err != nil {
		return err
	}
	raw, err := readSnappyBlock(s, len(m.indices)*4)
	if err != nil {
		return err
	}
	if err := bytesToUint32s(raw, m.indices); err != nil {
		return err
	}
	deltaDecodeIndices(m.indices)

	if err := readQuantized(s, identVERT, m.vertices, 3); err != nil {
		return err
	}

	if m.hasNormals() {
		if err := expectIdent(s, identNORM); err != nil {
			return err
		}
		raw, err = readSnappyBlock(s, len(m.normals)*4)
		if err != nil {
			return err
		}
		if err := bytesToFloat32s(raw, m.normals); err != nil {
			return err
		}
	}

	for i := range m.texMaps {
		fm := &m.texMaps[i]
		if err := readMG2MapHeader(s, identTEXC, fm); err != nil {
			return err
		}
		fm.values = make([]float32, texMapStride*int(m.vertexCount))
		if err := readQuantized(s, identTEXC, fm.values, texMapStride); err != nil {
			return err
		}
	}
	for i := range m.attribMaps {
		fm := &m.attribMaps[i]
		if err := readMG2MapHeader(s, identATTR, fm); err != nil {
			return err
		}
		fm.values = make([]float32, attribMapStride*int(m.vertexCount))
		if err := readQuantized(s, identATTR, fm.values, attribMapStride); err != nil {
			return err
		}
	}
	return nil
}

func writeMG2MapHeader(s *streamWriter, ident [4]byte, fm *floatMap) error {
	if err := writeIdent(s, ident); err != nil {
		return err
	}
	if err := s.writeString(fm.name); err != nil {
		return err
	}
	return s.writeFloat32(fm.precision)
}

func readMG2MapHeader(s *streamReader, ident [4]byte, fm *floatMap) error {
	if err := expectIdent(s, ident); err != nil {
		return err
	}
	name, err := s.readString()
	if err != nil {
		return err
	}
	precision, err := s.readFloat32()
	if err != nil {
		return err
	}
	fm.name = name
	fm.precision = precision
	return nil
}

// writeQuantized snaps values to a grid of the given precision. The section
// carries the precision, a per-component origin (the component minimum),
// and the snappy-packed grid coordinates.
func writeQuantized(s *streamWriter, ident [4]byte, values []float32, stride int, precision float32) error {
	if err := writeIdent(s, ident); err != nil {
		return err
	}
	if err := s.writeFloat32(precision); err != nil {
		return err
	}

	origin := make([]float32, stride)
	for c := 0; c < stride; c++ {
		origin[c] = float32(math.Inf(1))
	}
	for i, v := range values {
		if c := i % stride; v < origin[c] {
			origin[c] = v
		}
	}
	if err := s.writeFloat32Array(origin); err != nil {
		return err
	}

	grid := make([]byte, len(values)*4)
	for i, v := range values {
		cell := int32(math.Round(float64(v-origin[i%stride]) / float64(precision)))
		binary.LittleEndian.PutUint32(grid[i*4:], uint32(cell))
	}
	return writeSnappyBlock(s, grid)
}

func readQuantized(s *streamReader, ident [4]byte, dst []float32, stride int) error {
	if err := expectIdent(s, ident); err != nil {
		return err
	}
	precision, err := s.readFloat32()
	if err != nil {
		return err
	}
	if precision <= 0 {
		return fmt.Errorf("%w: non-positive precision %g", ErrFormatError, precision)
	}
	origin := make([]float32, stride)
	if err := s.readFloat32Array(origin); err != nil {
		return err
	}
	grid, err := readSnappyBlock(s, len(dst)*4)
	if err != nil {
		return err
	}
	for i := range dst {
		cell := int32(binary.LittleEndian.Uint32(grid[i*4:]))
		dst[i] = origin[i%stride] + float32(cell)*precision
	}
	return nil
}

func writeSnappyBlock(s *streamWriter, raw []byte) error {
	comp := snappy.Encode(nil, raw)
	if err := s.writeUint32(uint32(len(comp))); err != nil {
		return err
	}
	return s.writeBytes(comp)
}

func readSnappyBlock(s *streamReader, rawLen int) ([]byte, error) {
	compLen, err := s.readUint32()
	if err != nil {
		return nil, err
	}
	if compLen == 0 || compLen > maxSectionLen {
		return nil, fmt.Errorf("%w: compressed section length %d out of range", ErrFormatError, compLen)
	}
	comp := make([]byte, compLen)
	if err := s.readBytes(comp); err != nil {
		return nil, err
	}
	raw, err := snappy.Decode(nil, comp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormatError, err)
	}
	if len(raw) != rawLen {
		return nil, fmt.Errorf("%w: section decodes to %d bytes, expected %d", ErrFormatError, len(raw), rawLen)
	}
	return raw, nil
}
