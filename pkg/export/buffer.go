package export

import "io"

const (
	// readChunkSize is how many bytes a single refill asks the source for.
	readChunkSize = 32 * 1024

	// MaxBuffer bounds the unconsumed bytes held while assembling one
	// entry. A well-formed stream stays far under this; reaching it means
	// the input is corrupt or hostile.
	MaxBuffer = 10_000_000
)

// buffer holds bytes read from the source that the parser has not yet
// consumed. Consumed bytes are dropped lazily, at refill time, so a
// stalled parse retries against the same offsets without any copying
// in between.
type buffer struct {
	data    []byte
	off     int // bytes before off are consumed
	scratch []byte
}

// remaining returns the unconsumed view. The slice is invalidated by
// the next refill.
func (b *buffer) remaining() []byte {
	return b.data[b.off:]
}

// advance marks n more bytes as consumed.
func (b *buffer) advance(n int) {
	b.off += n
}

// refill compacts away consumed bytes and appends one chunk read from
// r. It returns the number of bytes read; zero with a nil error means
// end of stream.
func (b *buffer) refill(r io.Reader) (int, error) {
	if b.off > 0 {
		b.data = append(b.data[:0], b.data[b.off:]...)
		b.off = 0
	}
	if b.scratch == nil {
		b.scratch = make([]byte, readChunkSize)
	}
	for {
		n, err := r.Read(b.scratch)
		if n > 0 {
			b.data = append(b.data, b.scratch[:n]...)
			return n, nil
		}
		if err == io.EOF {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
	}
}
