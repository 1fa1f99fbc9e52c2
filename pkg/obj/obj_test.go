package obj

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDecodeTriangle(t *testing.T) {
	src := `# simple triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	m, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.VertexCount() != 3 {
		t.Errorf("vertex count = %d, want 3", m.VertexCount())
	}
	if m.TriangleCount() != 1 {
		t.Errorf("triangle count = %d, want 1", m.TriangleCount())
	}
	if m.TexCoords != nil || m.Normals != nil {
		t.Error("unexpected texcoords or normals")
	}
	want := []uint32{0, 1, 2}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, m.Indices[i], want[i])
		}
	}
}

func TestDecodeFaceVariants(t *testing.T) {
	tests := []struct {
		name     string
		face     string
		wantTex  bool
		wantNorm bool
	}{
		{"position only", "f 1 2 3", false, false},
		{"position and texcoord", "f 1/1 2/2 3/3", true, false},
		{"position and normal", "f 1//1 2//1 3//1", false, true},
		{"full", "f 1/1/1 2/2/1 3/3/1", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
` + tt.face + "\n"
			m, err := Decode(strings.NewReader(src))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if (m.TexCoords != nil) != tt.wantTex {
				t.Errorf("texcoords present = %v, want %v", m.TexCoords != nil, tt.wantTex)
			}
			if (m.Normals != nil) != tt.wantNorm {
				t.Errorf("normals present = %v, want %v", m.Normals != nil, tt.wantNorm)
			}
		})
	}
}

func TestDecodeQuadTriangulation(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	m, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Fatalf("triangle count = %d, want 2", m.TriangleCount())
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, m.Indices[i], want[i])
		}
	}
}

func TestDecodeNegativeIndices(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	m, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []uint32{0, 1, 2}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, m.Indices[i], want[i])
		}
	}
}

func TestDecodeCornerDeduplication(t *testing.T) {
	// Two triangles sharing two corners with identical v/vt/vn triples must
	// share output vertices.
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`
	m, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("vertex count = %d, want 4 (shared corners deduplicated)", m.VertexCount())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"no faces", "v 0 0 0\n", ErrNoGeometry},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrMalformedFace},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", ErrIndexOutOfRange},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrIndexOutOfRange},
		{"garbage index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf a b c\n", ErrMalformedFace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := &Model{
		Vertices:  []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		TexCoords: []float32{0, 0, 1, 0, 0, 1},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:   []uint32{0, 1, 2},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.VertexCount() != m.VertexCount() {
		t.Errorf("vertex count = %d, want %d", got.VertexCount(), m.VertexCount())
	}
	if got.TriangleCount() != m.TriangleCount() {
		t.Errorf("triangle count = %d, want %d", got.TriangleCount(), m.TriangleCount())
	}
	for i := range m.Vertices {
		if got.Vertices[i] != m.Vertices[i] {
			t.Errorf("vertex component %d = %g, want %g", i, got.Vertices[i], m.Vertices[i])
		}
	}
	for i := range m.Normals {
		if got.Normals[i] != m.Normals[i] {
			t.Errorf("normal component %d = %g, want %g", i, got.Normals[i], m.Normals[i])
		}
	}
}
