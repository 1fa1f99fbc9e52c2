package ctm

import "fmt"

// Payload section identifiers, written ahead of each body section so a
// decoder can detect a desynchronized or mismatched stream early.
var (
	identINDX = [4]byte{'I', 'N', 'D', 'X'}
	identVERT = [4]byte{'V', 'E', 'R', 'T'}
	identNORM = [4]byte{'N', 'O', 'R', 'M'}
	identTEXC = [4]byte{'T', 'E', 'X', 'C'}
	identATTR = [4]byte{'A', 'T', 'T', 'R'}
)

// payloadCodec serializes exactly the mesh payload (no header bytes) and
// populates a count-allocated mesh from a stream. The three implementations
// are interchangeable: selecting another method changes nothing else.
type payloadCodec interface {
	encodeBody(s *streamWriter, m *mesh, vertexPrecision float32) error
	decodeBody(s *streamReader, m *mesh) error
}

func codecFor(method Method) payloadCodec {
	switch method {
	case MethodRaw:
		return rawCodec{}
	case MethodMG1:
		return mg1Codec{}
	default:
		return mg2Codec{}
	}
}

func writeIdent(s *streamWriter, ident [4]byte) error {
	return s.writeBytes(ident[:])
}

func expectIdent(s *streamReader, want [4]byte) error {
	var got [4]byte
	if err := s.readBytes(got[:]); err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: expected section %q, found %q", ErrFormatError, want[:], got[:])
	}
	return nil
}

// deltaEncodeIndices applies a reversible delta transform: within each
// triangle the second and third index are stored relative to the first, and
// the first index relative to the previous triangle's first. Wraparound
// subtraction keeps the transform bijective without reordering triangles.
func deltaEncodeIndices(indices []uint32) []uint32 {
	out := make([]uint32, len(indices))
	var prev uint32
	for t := 0; t < len(indices); t += 3 {
		a := indices[t]
		out[t] = a - prev
		out[t+1] = indices[t+1] - a
		out[t+2] = indices[t+2] - a
		prev = a
	}
	return out
}

func deltaDecodeIndices(deltas []uint32) {
	var prev uint32
	for t := 0; t < len(deltas); t += 3 {
		a := deltas[t] + prev
		deltas[t] = a
		deltas[t+1] += a
		deltas[t+2] += a
		prev = a
	}
}
