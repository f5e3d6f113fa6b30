package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textField(name, value string) []byte {
	return []byte(name + "=" + value + "\n")
}

func binField(name string, payload []byte) []byte {
	buf := append([]byte(name), '\n')
	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(len(payload)))
	buf = append(buf, size[:]...)
	buf = append(buf, payload...)
	return append(buf, '\n')
}

// chunkReader hands back one prepared chunk per Read call, simulating a
// source that delivers input in arbitrary pieces.
type chunkReader struct {
	chunks [][]byte
}

func (c *chunkReader) Read(p []byte) (int, error) {
	for len(c.chunks) > 0 && len(c.chunks[0]) == 0 {
		c.chunks = c.chunks[1:]
	}
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	c.chunks[0] = c.chunks[0][n:]
	return n, nil
}

func collect(t *testing.T, r *Reader) []*Entry {
	t.Helper()
	var entries []*Entry
	for r.Next() {
		entries = append(entries, r.Entry())
	}
	require.NoError(t, r.Err())
	return entries
}

func TestReaderSingleEntry(t *testing.T) {
	var stream []byte
	stream = append(stream, textField("__CURSOR", "s=01a7f10c;i=ee9b5")...)
	stream = append(stream, textField("__REALTIME_TIMESTAMP", "1598233033204937")...)
	stream = append(stream, textField("_HOSTNAME", "knisbet-dev")...)
	stream = append(stream, binField("MESSAGE", []byte("foo\nbar"))...)
	stream = append(stream, textField("_PID", "2331")...)
	stream = append(stream, '\n')

	r := NewReader(bytes.NewReader(stream), nil)
	entries := collect(t, r)
	require.Len(t, entries, 1)

	e := entries[0]
	require.Len(t, e.Fields, 5)
	assert.Equal(t, []byte("__CURSOR"), e.Fields[0].Name)
	assert.Equal(t, []byte("foo\nbar"), e.Fields[3].Value)
	assert.Equal(t, []byte("_PID"), e.Fields[4].Name)

	msg, ok := e.Message()
	require.True(t, ok)
	assert.Equal(t, "foo\nbar", msg)
}

func TestReaderBareTerminator(t *testing.T) {
	// a lone separator is a complete, empty entry
	r := NewReader(bytes.NewReader([]byte("\n")), nil)
	entries := collect(t, r)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Fields)
}

func TestReaderTwoEntries(t *testing.T) {
	var stream []byte
	stream = append(stream, textField("MESSAGE", "first")...)
	stream = append(stream, '\n')
	stream = append(stream, textField("MESSAGE", "second")...)
	stream = append(stream, '\n')

	r := NewReader(bytes.NewReader(stream), nil)
	entries := collect(t, r)

	// the trailing separator belongs to the second entry; no spurious
	// empty third entry
	require.Len(t, entries, 2)
	first, _ := entries[0].Message()
	second, _ := entries[1].Message()
	assert.Equal(t, "first", first)
	assert.Equal(t, "second", second)
}

func TestReaderDuplicateFieldsPreserved(t *testing.T) {
	var stream []byte
	stream = append(stream, textField("X", "1")...)
	stream = append(stream, textField("X", "2")...)
	stream = append(stream, '\n')

	r := NewReader(bytes.NewReader(stream), nil)
	entries := collect(t, r)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Fields, 2)
	assert.Equal(t, []byte("1"), entries[0].Fields[0].Value)
	assert.Equal(t, []byte("2"), entries[0].Fields[1].Value)
}

func TestReaderPartialTailDropped(t *testing.T) {
	// source closes mid-entry without a final separator: the complete
	// field is not salvaged into a partial entry
	r := NewReader(bytes.NewReader([]byte("uid=1\n123")), nil)
	entries := collect(t, r)
	assert.Empty(t, entries)
}

func TestReaderSplitAnywhere(t *testing.T) {
	var stream []byte
	stream = append(stream, textField("_SYSTEMD_UNIT", "sshd.service")...)
	stream = append(stream, binField("MESSAGE", []byte("foo\nbar\x00baz"))...)
	stream = append(stream, textField("EMPTY", "")...)
	stream = append(stream, '\n')
	stream = append(stream, textField("MESSAGE", "plain")...)
	stream = append(stream, '\n')

	whole := collect(t, NewReader(bytes.NewReader(stream), nil))
	require.Len(t, whole, 2)

	// feeding the stream as two refills split at any byte offset must
	// decode to the identical entry sequence
	for i := 0; i <= len(stream); i++ {
		src := &chunkReader{chunks: [][]byte{stream[:i], stream[i:]}}
		split := collect(t, NewReader(src, nil))
		require.Equal(t, whole, split, "split at offset %d", i)
	}
}

func TestReaderResumeCompletesField(t *testing.T) {
	// "uid=1\n123" stalls inside the second field; appending the missing
	// terminator completes it on the retry
	src := &chunkReader{chunks: [][]byte{
		[]byte("uid=1\n123"),
		[]byte("=x\n\n"),
	}}
	entries := collect(t, NewReader(src, nil))
	require.Len(t, entries, 1)
	uid, ok := entries[0].Field("uid")
	require.True(t, ok)
	assert.Equal(t, "1", uid)
	v, ok := entries[0].Field("123")
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestReaderEmptyNameIsSyntaxError(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("=oops\n")), nil)
	assert.False(t, r.Next())

	var serr *SyntaxError
	require.ErrorAs(t, r.Err(), &serr)
	assert.Equal(t, int64(0), serr.Offset)
}

func TestReaderSyntaxErrorOffset(t *testing.T) {
	var stream []byte
	stream = append(stream, textField("A", "1")...)
	stream = append(stream, []byte("=bad\n")...)

	r := NewReader(bytes.NewReader(stream), nil)
	assert.False(t, r.Next())

	var serr *SyntaxError
	require.ErrorAs(t, r.Err(), &serr)
	assert.Equal(t, int64(4), serr.Offset)
}

func TestReaderDeclaredLengthOverLimit(t *testing.T) {
	// one field declaring a payload past the buffer limit fails as
	// runaway input without buffering toward it
	buf := append([]byte("HUGE"), '\n')
	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(MaxBuffer))
	buf = append(buf, size[:]...)

	r := NewReader(bytes.NewReader(buf), nil)
	assert.False(t, r.Next())
	assert.ErrorIs(t, r.Err(), ErrBufferLimit)
}

func TestReaderRunawayGrowth(t *testing.T) {
	// no separator, no structure: the buffer fills to the ceiling and
	// the decode aborts instead of buffering forever
	junk := bytes.Repeat([]byte("a"), MaxBuffer+readChunkSize)
	r := NewReader(bytes.NewReader(junk), nil)
	assert.False(t, r.Next())
	assert.ErrorIs(t, r.Err(), ErrBufferLimit)
}

func TestReaderSourceErrorSurfaced(t *testing.T) {
	r := NewReader(io.MultiReader(bytes.NewReader([]byte("A=1\n")), &failReader{}), nil)
	assert.False(t, r.Next())
	assert.EqualError(t, r.Err(), "disk on fire")
}

type failReader struct{}

func (f *failReader) Read(p []byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestReaderFilterSkipsTransparently(t *testing.T) {
	var stream []byte
	for _, unit := range []string{"a.service", "b.service", "a.service"} {
		stream = append(stream, textField("_SYSTEMD_UNIT", unit)...)
		stream = append(stream, textField("MESSAGE", "from "+unit)...)
		stream = append(stream, '\n')
	}

	r := NewReader(bytes.NewReader(stream), &Filter{Unit: "a.service"})
	entries := collect(t, r)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "a.service", e.Unit())
	}
}

func TestFilterMatch(t *testing.T) {
	ts := time.UnixMicro(1598716260711352).UTC()
	entry := &Entry{Fields: []Field{
		{Name: []byte("_SYSTEMD_UNIT"), Value: []byte("sshd.service")},
		{Name: []byte("_SOURCE_REALTIME_TIMESTAMP"), Value: []byte("1598716260711352")},
	}}
	noTime := &Entry{Fields: []Field{
		{Name: []byte("_SYSTEMD_UNIT"), Value: []byte("sshd.service")},
	}}

	tests := []struct {
		name   string
		filter Filter
		entry  *Entry
		want   bool
	}{
		{"empty filter accepts", Filter{}, entry, true},
		{"unit exact match", Filter{Unit: "sshd.service"}, entry, true},
		{"unit off by one char", Filter{Unit: "sshd.servicE"}, entry, false},
		{"since before ts", Filter{Since: ts.Add(-time.Second)}, entry, true},
		{"since equal ts", Filter{Since: ts}, entry, true},
		{"since after ts", Filter{Since: ts.Add(time.Second)}, entry, false},
		{"until after ts", Filter{Until: ts.Add(time.Second)}, entry, true},
		{"until equal ts", Filter{Until: ts}, entry, true},
		{"until before ts", Filter{Until: ts.Add(-time.Second)}, entry, false},
		{"window around ts", Filter{Since: ts.Add(-time.Second), Until: ts.Add(time.Second)}, entry, true},
		{"no timestamp passes time bounds", Filter{Since: ts, Until: ts}, noTime, true},
		{"no timestamp still unit filtered", Filter{Unit: "other.service"}, noTime, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Match(tc.entry))
		})
	}
}

func TestNilFilterAccepts(t *testing.T) {
	var f *Filter
	assert.True(t, f.Match(&Entry{}))
}
