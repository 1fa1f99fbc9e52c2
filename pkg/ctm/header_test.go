package ctm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// buildHeader assembles a fixed header for load tests.
func buildHeader(magic string, version uint32, tag string, vertexCount, triangleCount, texMapCount, attribMapCount, flags uint32, comment string) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	binary.Write(&buf, binary.LittleEndian, version)
	buf.WriteString(tag)
	for _, v := range []uint32{vertexCount, triangleCount, texMapCount, attribMapCount, flags} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	binary.Write(&buf, binary.LittleEndian, uint32(len(comment)))
	buf.WriteString(comment)
	return buf.Bytes()
}

func TestLoadHeaderValidation(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"bad magic", buildHeader("XCTM", formatVersion, "RAW\x00", 3, 1, 0, 0, 0, "")},
		{"bad version", buildHeader("OCTM", formatVersion+1, "RAW\x00", 3, 1, 0, 0, 0, "")},
		{"version zero", buildHeader("OCTM", 0, "RAW\x00", 3, 1, 0, 0, 0, "")},
		{"unknown method", buildHeader("OCTM", formatVersion, "XXX\x00", 3, 1, 0, 0, 0, "")},
		{"zero vertices", buildHeader("OCTM", formatVersion, "RAW\x00", 0, 1, 0, 0, 0, "")},
		{"zero triangles", buildHeader("OCTM", formatVersion, "RAW\x00", 3, 0, 0, 0, 0, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext(Import)
			err := c.Load(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrFormatError) {
				t.Fatalf("expected ErrFormatError, got %v", err)
			}
			if c.GetInteger(PropVertexCount) != 0 || c.GetFloatArray(PropVertices) != nil {
				t.Error("failed load left a mesh attached")
			}
		})
	}
}

func TestLoadTruncatedStream(t *testing.T) {
	full := buildHeader("OCTM", formatVersion, "RAW\x00", 3, 1, 0, 0, 0, "hi")

	for _, cut := range []int{0, 2, 4, 10, len(full) - 1} {
		c := NewContext(Import)
		err := c.Load(bytes.NewReader(full[:cut]))
		if err == nil {
			t.Errorf("cut at %d: expected an error", cut)
			continue
		}
		// Truncation inside a field is a stream failure, not a format error.
		if cut >= 4 && !errors.Is(err, ErrFileError) && !errors.Is(err, ErrFormatError) {
			t.Errorf("cut at %d: unexpected error %v", cut, err)
		}
	}
}

func TestLoadRejectsHugeCounts(t *testing.T) {
	data := buildHeader("OCTM", formatVersion, "RAW\x00", maxElementCount+1, 1, 0, 0, 0, "")
	c := NewContext(Import)
	if err := c.Load(bytes.NewReader(data)); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("expected ErrOutOfMemory, got %v", err)
	}
}

func TestLoadRejectsOutOfRangeIndices(t *testing.T) {
	// A valid header whose RAW payload indexes past the vertex array.
	var buf bytes.Buffer
	buf.Write(buildHeader("OCTM", formatVersion, "RAW\x00", 3, 1, 0, 0, 0, ""))
	buf.Write(identINDX[:])
	for _, idx := range []uint32{0, 1, 7} {
		binary.Write(&buf, binary.LittleEndian, idx)
	}
	buf.Write(identVERT[:])
	for i := 0; i < 9; i++ {
		binary.Write(&buf, binary.LittleEndian, float32(0))
	}

	c := NewContext(Import)
	if err := c.Load(bytes.NewReader(buf.Bytes())); !errors.Is(err, ErrFormatError) {
		t.Fatalf("expected ErrFormatError, got %v", err)
	}
	if c.GetIntegerArray(PropIndices) != nil {
		t.Error("failed load left indices attached")
	}
}

func TestSaveWithoutMesh(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Context)
	}{
		{"no mesh at all", func(c *Context) {}},
		{"mesh cleared", func(c *Context) {
			vertices, indices, _ := quadMesh()
			c.DefineMesh(vertices, indices, nil)
			c.Clear()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext(Export)
			tt.setup(c)

			var buf bytes.Buffer
			if err := c.Save(&buf); !errors.Is(err, ErrInvalidMesh) {
				t.Fatalf("expected ErrInvalidMesh, got %v", err)
			}
			if buf.Len() != 0 {
				t.Errorf("save emitted %d bytes before failing", buf.Len())
			}
		})
	}
}

func TestSaveRejectsOutOfRangeIndices(t *testing.T) {
	vertices := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	c := NewContext(Export)
	if err := c.DefineMesh(vertices, []uint32{0, 1, 5}, nil); err != nil {
		t.Fatalf("defining mesh: %v", err)
	}

	var buf bytes.Buffer
	if err := c.Save(&buf); !errors.Is(err, ErrInvalidMesh) {
		t.Fatalf("expected ErrInvalidMesh, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("save emitted %d bytes before failing", buf.Len())
	}
}

func TestSaveOnImportContext(t *testing.T) {
	c := NewContext(Import)
	var buf bytes.Buffer
	if err := c.Save(&buf); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestLoadOnExportContext(t *testing.T) {
	c := NewContext(Export)
	err := c.Load(bytes.NewReader(buildHeader("OCTM", formatVersion, "RAW\x00", 3, 1, 0, 0, 0, "")))
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation, got %v", err)
	}
}
