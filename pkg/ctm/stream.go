package ctm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Upper bound on length-prefixed strings read from a stream. Anything
// larger is a corrupt or hostile header, not a comment.
const maxStringLen = 1 << 20

// streamReader reads little-endian primitives from the bound byte source.
// Short reads surface as ErrFileError rather than silently truncating.
type streamReader struct {
	r   io.Reader
	buf [4]byte
}

func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{r: r}
}

func (s *streamReader) readBytes(p []byte) error {
	if _, err := io.ReadFull(s.r, p); err != nil {
		return fmt.Errorf("%w: %v", ErrFileError, err)
	}
	return nil
}

func (s *streamReader) readUint32() (uint32, error) {
	if err := s.readBytes(s.buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(s.buf[:]), nil
}

func (s *streamReader) readFloat32() (float32, error) {
	v, err := s.readUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// readString reads a uint32 length prefix followed by UTF-8 bytes.
func (s *streamReader) readString() (string, error) {
	n, err := s.readUint32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	if n > maxStringLen {
		return "", fmt.Errorf("%w: string length %d out of range", ErrFormatError, n)
	}
	buf := make([]byte, n)
	if err := s.readBytes(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (s *streamReader) readFloat32Array(dst []float32) error {
	for i := range dst {
		v, err := s.readFloat32()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func (s *streamReader) readUint32Array(dst []uint32) error {
	for i := range dst {
		v, err := s.readUint32()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// streamWriter writes little-endian primitives to the bound byte sink.
// A short write surfaces as ErrFileError.
type streamWriter struct {
	w   io.Writer
	buf [4]byte
}

func newStreamWriter(w io.Writer) *streamWriter {
	return &streamWriter{w: w}
}

func (s *streamWriter) writeBytes(p []byte) error {
	n, err := s.w.Write(p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileError, err)
	}
	if n != len(p) {
		return fmt.Errorf("%w: short write (%d of %d bytes)", ErrFileError, n, len(p))
	}
	return nil
}

func (s *streamWriter) writeUint32(v uint32) error {
	binary.LittleEndian.PutUint32(s.buf[:], v)
	return s.writeBytes(s.buf[:])
}

func (s *streamWriter) writeFloat32(v float32) error {
	return s.writeUint32(math.Float32bits(v))
}

func (s *streamWriter) writeString(str string) error {
	if err := s.writeUint32(uint32(len(str))); err != nil {
		return err
	}
	if len(str) == 0 {
		return nil
	}
	return s.writeBytes([]byte(str))
}

func (s *streamWriter) writeFloat32Array(src []float32) error {
	for _, v := range src {
		if err := s.writeFloat32(v); err != nil {
			return err
		}
	}
	return nil
}

func (s *streamWriter) writeUint32Array(src []uint32) error {
	for _, v := range src {
		if err := s.writeUint32(v); err != nil {
			return err
		}
	}
	return nil
}

// float32sToBytes packs a float array into little-endian bytes, for
// handing whole sections to a block compressor.
func float32sToBytes(src []float32) []byte {
	out := make([]byte, len(src)*4)
	for i, v := range src {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32s(src []byte, dst []float32) error {
	if len(src) != len(dst)*4 {
		return fmt.Errorf("%w: section size %d does not match %d floats", ErrFormatError, len(src), len(dst))
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return nil
}

func uint32sToBytes(src []uint32) []byte {
	out := make([]byte, len(src)*4)
	for i, v := range src {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func bytesToUint32s(src []byte, dst []uint32) error {
	if len(src) != len(dst)*4 {
		return fmt.Errorf("%w: section size %d does not match %d integers", ErrFormatError, len(src), len(dst))
	}
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint32(src[i*4:])
	}
	return nil
}
