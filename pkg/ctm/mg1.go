package ctm

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Upper bound on a single compressed body section. Guards the decoder
// against allocating from a corrupt size prefix.
const maxSectionLen = 1 << 30

// mg1Codec is the lossless compressed codec: triangle indices are delta
// encoded, then every section is deflated as a size-prefixed zlib block.
type mg1Codec struct{}

func (mg1Codec) encodeBody(s *streamWriter, m *mesh, _ float32) error {
	if err := writeIdent(s, identINDX); err != nil {
		return err
	}
	if err := writeZlibBlock(s, uint32sToBytes(deltaEncodeIndices(m.indices))); err != nil {
		return err
	}
	if err := writeIdent(s, identVERT); err != nil {
		return err
	}
	if err := writeZlibBlock(s, float32sToBytes(m.vertices)); err != nil {
		return err
	}
	if m.hasNormals() {
		if err := writeIdent(s, identNORM); err != nil {
			return err
		}
		if err := writeZlibBlock(s, float32sToBytes(m.normals)); err != nil {
			return err
		}
	}
	for i := range m.texMaps {
		if err := writeMG1Map(s, identTEXC, &m.texMaps[i]); err != nil {
			return err
		}
	}
	for i := range m.attribMaps {
		if err := writeMG1Map(s, identATTR, &m.attribMaps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (mg1Codec) decodeBody(s *streamReader, m *mesh) error {
	if err := expectIdent(s, identINDX); err != nil {
		return err
	}
	raw, err := readZlibBlock(s, len(m.indices)*4)
	if err != nil {
		return err
	}
	if err := bytesToUint32s(raw, m.indices); err != nil {
		return err
	}
	deltaDecodeIndices(m.indices)

	if err := expectIdent(s, identVERT); err != nil {
		return err
	}
	raw, err = readZlibBlock(s, len(m.vertices)*4)
	if err != nil {
		return err
	}
	if err := bytesToFloat32s(raw, m.vertices); err != nil {
		return err
	}

	if m.hasNormals() {
		if err := expectIdent(s, identNORM); err != nil {
			return err
		}
		raw, err = readZlibBlock(s, len(m.normals)*4)
		if err != nil {
			return err
		}
		if err := bytesToFloat32s(raw, m.normals); err != nil {
			return err
		}
	}

	for i := range m.texMaps {
		if err := readMG1Map(s, identTEXC, &m.texMaps[i], texMapStride*int(m.vertexCount)); err != nil {
			return err
		}
	}
	for i := range m.attribMaps {
		if err := readMG1Map(s, identATTR, &m.attribMaps[i], attribMapStride*int(m.vertexCount)); err != nil {
			return err
		}
	}
	return nil
}

func writeMG1Map(s *streamWriter, ident [4]byte, fm *floatMap) error {
	if err := writeIdent(s, ident); err != nil {
		return err
	}
	if err := s.writeString(fm.name); err != nil {
		return err
	}
	if err := s.writeFloat32(fm.precision); err != nil {
		return err
	}
	return writeZlibBlock(s, float32sToBytes(fm.values))
}

func readMG1Map(s *streamReader, ident [4]byte, fm *floatMap, valueCount int) error {
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
	raw, err := readZlibBlock(s, valueCount*4)
	if err != nil {
		return err
	}
	fm.name = name
	fm.precision = precision
	fm.values = make([]float32, valueCount)
	return bytesToFloat32s(raw, fm.values)
}

// writeZlibBlock frames a section as compressed-size prefix plus deflated
// bytes. The uncompressed size is implied by the header counts, so only the
// compressed length goes on the wire.
func writeZlibBlock(s *streamWriter, raw []byte) error {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrFileError, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrFileError, err)
	}
	if err := s.writeUint32(uint32(buf.Len())); err != nil {
		return err
	}
	return s.writeBytes(buf.Bytes())
}

func readZlibBlock(s *streamReader, rawLen int) ([]byte, error) {
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
	zr, err := zlib.NewReader(bytes.NewReader(comp))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormatError, err)
	}
	defer zr.Close()
	raw := make([]byte, rawLen)
	if _, err := io.ReadFull(zr, raw); err != nil {
		return nil, fmt.Errorf("%w: truncated section: %v", ErrFormatError, err)
	}
	return raw, nil
}
