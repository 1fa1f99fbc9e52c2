// Package obj reads and writes Wavefront OBJ geometry as the flat
// vertex/index arrays the ctm container works with. Only geometry is
// handled: positions, texture coordinates, normals and triangulated faces.
// Material and group statements are skipped.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrMalformedFace   = errors.New("obj: malformed face")
	ErrIndexOutOfRange = errors.New("obj: face index out of range")
	ErrNoGeometry      = errors.New("obj: no faces found")
)

// Model is a triangulated OBJ file flattened to per-vertex arrays. A face
// corner referencing a distinct position/texcoord/normal combination gets
// its own output vertex, so all arrays share one indexing space.
type Model struct {
	Vertices  []float32 // 3 components per vertex
	TexCoords []float32 // 2 components per vertex, nil when absent
	Normals   []float32 // 3 components per vertex, nil when absent
	Indices   []uint32  // 3 per triangle
}

// VertexCount returns the number of output vertices.
func (m *Model) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Model) TriangleCount() int {
	return len(m.Indices) / 3
}

// corner is one parsed face-vertex reference, 0-based, -1 for absent.
type corner struct {
	v, vt, vn int
}

// Decode parses OBJ text. Polygon faces are fan-triangulated.
func Decode(r io.Reader) (*Model, error) {
	var (
		positions []float32
		texcoords []float32
		normals   []float32
		corners   []corner
		faceSizes []int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if err := appendFloats(&positions, fields[1:], 3); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case "vt":
			if err := appendFloats(&texcoords, fields[1:], 2); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case "vn":
			if err := appendFloats(&normals, fields[1:], 3); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %w: %d corners", lineNo, ErrMalformedFace, len(fields)-1)
			}
			for _, spec := range fields[1:] {
				c, err := parseCorner(spec, len(positions)/3, len(texcoords)/2, len(normals)/3)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, c)
			}
			faceSizes = append(faceSizes, len(fields)-1)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(faceSizes) == 0 {
		return nil, ErrNoGeometry
	}

	return assemble(positions, texcoords, normals, corners, faceSizes)
}

// assemble deduplicates face corners into a unified vertex list and
// fan-triangulates each face.
func assemble(positions, texcoords, normals []float32, corners []corner, faceSizes []int) (*Model, error) {
	hasTex := len(texcoords) > 0
	hasNorm := len(normals) > 0

	m := &Model{}
	seen := make(map[corner]uint32)

	emit := func(c corner) uint32 {
		if idx, ok := seen[c]; ok {
			return idx
		}
		idx := uint32(len(m.Vertices) / 3)
		m.Vertices = append(m.Vertices, positions[c.v*3], positions[c.v*3+1], positions[c.v*3+2])
		if hasTex {
			if c.vt >= 0 {
				m.TexCoords = append(m.TexCoords, texcoords[c.vt*2], texcoords[c.vt*2+1])
			} else {
				m.TexCoords = append(m.TexCoords, 0, 0)
			}
		}
		if hasNorm {
			if c.vn >= 0 {
				m.Normals = append(m.Normals, normals[c.vn*3], normals[c.vn*3+1], normals[c.vn*3+2])
			} else {
				m.Normals = append(m.Normals, 0, 0, 0)
			}
		}
		seen[c] = idx
		return idx
	}

	pos := 0
	for _, size := range faceSizes {
		face := corners[pos : pos+size]
		pos += size
		first := emit(face[0])
		prev := emit(face[1])
		for i := 2; i < size; i++ {
			next := emit(face[i])
			m.Indices = append(m.Indices, first, prev, next)
			prev = next
		}
	}
	return m, nil
}

// parseCorner parses one "v", "v/vt", "v//vn" or "v/vt/vn" reference.
// Indices are 1-based; negative values count back from the current end of
// the respective array.
func parseCorner(spec string, vCount, vtCount, vnCount int) (corner, error) {
	parts := strings.Split(spec, "/")
	if len(parts) > 3 {
		return corner{}, fmt.Errorf("%w: %q", ErrMalformedFace, spec)
	}

	c := corner{v: -1, vt: -1, vn: -1}
	resolve := func(field string, count int) (int, error) {
		n, err := strconv.Atoi(field)
		if err != nil {
			return -1, fmt.Errorf("%w: %q", ErrMalformedFace, spec)
		}
		if n < 0 {
			n = count + n + 1
		}
		if n < 1 || n > count {
			return -1, fmt.Errorf("%w: %q", ErrIndexOutOfRange, spec)
		}
		return n - 1, nil
	}

	var err error
	if c.v, err = resolve(parts[0], vCount); err != nil {
		return corner{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = resolve(parts[1], vtCount); err != nil {
			return corner{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.vn, err = resolve(parts[2], vnCount); err != nil {
			return corner{}, err
		}
	}
	return c, nil
}

func appendFloats(dst *[]float32, fields []string, n int) error {
	if len(fields) < n {
		return fmt.Errorf("obj: expected %d components, got %d", n, len(fields))
	}
	for _, f := range fields[:n] {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return fmt.Errorf("obj: bad number %q", f)
		}
		*dst = append(*dst, float32(v))
	}
	return nil
}

// Encode writes the model as OBJ text.
func Encode(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)

	for i := 0; i < m.VertexCount(); i++ {
		fmt.Fprintf(bw, "v %g %g %g\n", m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2])
	}
	hasTex := len(m.TexCoords) > 0
	hasNorm := len(m.Normals) > 0
	if hasTex {
		for i := 0; i < m.VertexCount(); i++ {
			fmt.Fprintf(bw, "vt %g %g\n", m.TexCoords[i*2], m.TexCoords[i*2+1])
		}
	}
	if hasNorm {
		for i := 0; i < m.VertexCount(); i++ {
			fmt.Fprintf(bw, "vn %g %g %g\n", m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2])
		}
	}

	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Indices[t*3]+1, m.Indices[t*3+1]+1, m.Indices[t*3+2]+1
		switch {
		case hasTex && hasNorm:
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		case hasTex:
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
		case hasNorm:
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		default:
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}
	return bw.Flush()
}
