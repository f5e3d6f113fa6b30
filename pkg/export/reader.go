package export

import (
	"errors"
	"io"
)

// Reader decodes journal export entries from a sequential byte stream,
// one per call:
//
//	for r.Next() {
//	    use(r.Entry())
//	}
//	if err := r.Err(); err != nil { ... }
//
// Entries are yielded in the order their terminators appear in the
// stream. A Reader owns its buffer and in-progress entry and must not
// be driven from more than one goroutine.
type Reader struct {
	src    io.Reader
	filter *Filter
	buf    buffer
	pos    int64 // stream offset of the unconsumed head

	entry *Entry
	err   error
	done  bool

	closer io.Closer // set when Open owns the underlying file
}

// NewReader returns a Reader decoding from src. filter may be nil to
// accept every entry.
func NewReader(src io.Reader, filter *Filter) *Reader {
	return &Reader{src: src, filter: filter}
}

// Next advances to the next accepted entry. It returns false at end of
// stream or on error; Err distinguishes the two.
func (r *Reader) Next() bool {
	if r.done || r.err != nil {
		return false
	}
	entry, err := r.next()
	if err != nil {
		if err == io.EOF {
			r.done = true
		} else {
			r.err = err
		}
		return false
	}
	r.entry = entry
	return true
}

// Entry returns the entry produced by the last successful Next.
func (r *Reader) Entry() *Entry {
	return r.entry
}

// Err returns the error that stopped iteration, or nil after a normal
// end of stream.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying source when the Reader opened it. A
// Reader built over a caller-supplied io.Reader closes nothing.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// next assembles entries until one passes the filter or the source is
// exhausted. Rejected entries are discarded without surfacing.
func (r *Reader) next() (*Entry, error) {
	if len(r.buf.remaining()) == 0 {
		n, err := r.buf.refill(r.src)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, io.EOF
		}
	}

	entry := &Entry{}
	for len(r.buf.remaining()) < MaxBuffer {
		rem := r.buf.remaining()

		// A newline at the head is the blank-line record separator.
		if len(rem) > 0 && rem[0] == sepNewline {
			r.consume(1)
			if r.filter.Match(entry) {
				return entry, nil
			}
			entry = &Entry{}
			continue
		}

		f, n, err := parseField(rem)
		if err == nil {
			// The parsed slices alias the buffer, which the next refill
			// compacts; the entry needs its own copies.
			entry.Fields = append(entry.Fields, Field{
				Name:  append([]byte(nil), f.Name...),
				Value: append([]byte(nil), f.Value...),
			})
			r.consume(n)
			continue
		}
		var short needMore
		if !errors.As(err, &short) {
			if errors.Is(err, ErrBufferLimit) {
				return nil, ErrBufferLimit
			}
			return nil, &SyntaxError{Offset: r.pos, Msg: err.Error()}
		}

		// Incomplete prefix: pull another chunk and retry from the same
		// offset. A zero-length read here means the source closed without
		// a final separator; the partial entry is dropped.
		rn, rerr := r.buf.refill(r.src)
		if rerr != nil {
			return nil, rerr
		}
		if rn == 0 {
			return nil, io.EOF
		}
	}
	return nil, ErrBufferLimit
}

func (r *Reader) consume(n int) {
	r.buf.advance(n)
	r.pos += int64(n)
}
