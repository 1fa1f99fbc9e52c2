package ctm

import (
	"bufio"
	"fmt"
	"os"
)

// LoadFile opens path and runs Load against it. A failure to open the file
// is reported as ErrFileError.
func (c *Context) LoadFile(path string) error {
	if c == nil {
		return ErrInvalidContext
	}
	f, err := os.Open(path)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrFileError, err))
	}
	defer f.Close()
	return c.Load(bufio.NewReader(f))
}

// SaveFile creates path and runs Save against it. A failure to create the
// file is reported as ErrFileError.
func (c *Context) SaveFile(path string) error {
	if c == nil {
		return ErrInvalidContext
	}
	f, err := os.Create(path)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrFileError, err))
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := c.Save(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrFileError, err))
	}
	return nil
}
