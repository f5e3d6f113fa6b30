package export

import (
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// gzipMagic is the two-byte header of a gzip container.
var gzipMagic = []byte{0x1f, 0x8b}

// Open opens a journal export file, transparently decompressing a
// gzip container. Detection reads the first two bytes and seeks back
// to the start, so the selected reader sees the whole stream.
func Open(path string, filter *Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var magic [2]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	var src io.Reader = f
	if bytes.Equal(magic[:], gzipMagic) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		src = gz
	}

	r := NewReader(src, filter)
	r.closer = f
	return r, nil
}
