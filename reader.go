package minkowski

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// CorpusReader is a buffered, seekable byte reader over the training corpus.
// Each worker owns one; reads never block on other workers.  It remembers
// whether the last read hit the end of the file, so that token extraction
// can wrap back to offset 0.
type CorpusReader struct {
	f   *os.File
	r   *bufio.Reader
	eof bool
}

// OpenCorpus opens the corpus file at the given path for reading.
func OpenCorpus(path string) (*CorpusReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s for reading", path)
	}
	return &CorpusReader{f: f, r: bufio.NewReader(f)}, nil
}

// Close releases the underlying file handle.
func (c *CorpusReader) Close() error {
	return c.f.Close()
}

// Size returns the size of the corpus file in bytes.
func (c *CorpusReader) Size() (int64, error) {
	info, err := c.f.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "cannot stat corpus file")
	}
	return info.Size(), nil
}

// Seek repositions the reader at the given byte offset and clears the
// end-of-file state.
func (c *CorpusReader) Seek(offset int64) error {
	if _, err := c.f.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrapf(err, "cannot seek to offset %d", offset)
	}
	c.r.Reset(c.f)
	c.eof = false
	return nil
}

// ReadByte returns the next byte of the corpus.  On end of file it records
// the EOF state and returns io.EOF.
func (c *CorpusReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == io.EOF {
		c.eof = true
	}
	return b, err
}

// UnreadByte pushes the last byte read back onto the stream.
func (c *CorpusReader) UnreadByte() error {
	return c.r.UnreadByte()
}

// EOF reports whether the reader has hit the end of the file.
func (c *CorpusReader) EOF() bool {
	return c.eof
}
