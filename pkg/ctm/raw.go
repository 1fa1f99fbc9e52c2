package ctm

// rawCodec is the passthrough payload codec: every array is written as
// plain little-endian words. Lossless, no compression.
type rawCodec struct{}

func (rawCodec) encodeBody(s *streamWriter, m *mesh, _ float32) error {
	if err := writeIdent(s, identINDX); err != nil {
		return err
	}
	if err := s.writeUint32Array(m.indices); err != nil {
		return err
	}
	if err := writeIdent(s, identVERT); err != nil {
		return err
	}
	if err := s.writeFloat32Array(m.vertices); err != nil {
		return err
	}
	if m.hasNormals() {
		if err := writeIdent(s, identNORM); err != nil {
			return err
		}
		if err := s.writeFloat32Array(m.normals); err != nil {
			return err
		}
	}
	for i := range m.texMaps {
		if err := writeRawMap(s, identTEXC, &m.texMaps[i]); err != nil {
			return err
		}
	}
	for i := range m.attribMaps {
		if err := writeRawMap(s, identATTR, &m.attribMaps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (rawCodec) decodeBody(s *streamReader, m *mesh) error {
	if err := expectIdent(s, identINDX); err != nil {
		return err
	}
	if err := s.readUint32Array(m.indices); err != nil {
		return err
	}
	if err := expectIdent(s, identVERT); err != nil {
		return err
	}
	if err := s.readFloat32Array(m.vertices); err != nil {
		return err
	}
	if m.hasNormals() {
		if err := expectIdent(s, identNORM); err != nil {
			return err
		}
		if err := s.readFloat32Array(m.normals); err != nil {
			return err
		}
	}
	for i := range m.texMaps {
		if err := readRawMap(s, identTEXC, &m.texMaps[i], texMapStride*int(m.vertexCount)); err != nil {
			return err
		}
	}
	for i := range m.attribMaps {
		if err := readRawMap(s, identATTR, &m.attribMaps[i], attribMapStride*int(m.vertexCount)); err != nil {
			return err
		}
	}
	return nil
}

// Per-map payload: section ident, length-prefixed name, precision, values.
func writeRawMap(s *streamWriter, ident [4]byte, fm *floatMap) error {
	if err := writeIdent(s, ident); err != nil {
		return err
	}
	if err := s.writeString(fm.name); err != nil {
		return err
	}
	if err := s.writeFloat32(fm.precision); err != nil {
		return err
	}
	return s.writeFloat32Array(fm.values)
}

func readRawMap(s *streamReader, ident [4]byte, fm *floatMap, valueCount int) error {
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
	fm.values = make([]float32, valueCount)
	return s.readFloat32Array(fm.values)
}
