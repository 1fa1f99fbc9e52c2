package ctm

import "errors"

// Container errors. Every fallible operation returns one of these (possibly
// wrapped) and records it in the context's sticky error register.
var (
	ErrInvalidContext   = errors.New("ctm: invalid context")
	ErrInvalidOperation = errors.New("ctm: operation not permitted in this mode")
	ErrInvalidArgument  = errors.New("ctm: invalid argument")
	ErrInvalidMesh      = errors.New("ctm: invalid or empty mesh")
	ErrOutOfMemory      = errors.New("ctm: out of memory")
	ErrFileError        = errors.New("ctm: file stream error")
	ErrFormatError      = errors.New("ctm: bad file format")
	ErrUnsupported      = errors.New("ctm: unsupported operation")
)
