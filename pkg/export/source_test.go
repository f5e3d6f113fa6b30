package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStream() []byte {
	var stream []byte
	stream = append(stream, textField("_HOSTNAME", "host-a")...)
	stream = append(stream, binField("MESSAGE", []byte("foo\nbar"))...)
	stream = append(stream, '\n')
	stream = append(stream, textField("MESSAGE", "second entry")...)
	stream = append(stream, '\n')
	return stream
}

func TestOpenRawFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.export")
	require.NoError(t, os.WriteFile(path, sampleStream(), 0644))

	r, err := Open(path, nil)
	require.NoError(t, err)
	defer r.Close()

	entries := collect(t, r)
	require.Len(t, entries, 2)
	msg, _ := entries[0].Message()
	assert.Equal(t, "foo\nbar", msg)
}

func TestOpenGzipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.export.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write(sampleStream())
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	r, err := Open(path, nil)
	require.NoError(t, err)
	defer r.Close()

	entries := collect(t, r)
	require.Len(t, entries, 2)
	msg, _ := entries[1].Message()
	assert.Equal(t, "second entry", msg)
}

func TestOpenGzipAndRawAgree(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "journal.export")
	packed := filepath.Join(dir, "journal.export.gz")

	require.NoError(t, os.WriteFile(raw, sampleStream(), 0644))

	f, err := os.Create(packed)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write(sampleStream())
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	r1, err := Open(raw, nil)
	require.NoError(t, err)
	defer r1.Close()
	r2, err := Open(packed, nil)
	require.NoError(t, err)
	defer r2.Close()

	assert.Equal(t, collect(t, r1), collect(t, r2))
}

func TestOpenTinyFile(t *testing.T) {
	// shorter than the magic: read as raw; a lone separator is one
	// empty entry
	path := filepath.Join(t.TempDir(), "tiny.export")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0644))

	r, err := Open(path, nil)
	require.NoError(t, err)
	defer r.Close()

	entries := collect(t, r)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Fields)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestOpenAppliesFilter(t *testing.T) {
	var stream []byte
	stream = append(stream, textField("_SYSTEMD_UNIT", "a.service")...)
	stream = append(stream, '\n')
	stream = append(stream, textField("_SYSTEMD_UNIT", "b.service")...)
	stream = append(stream, '\n')

	path := filepath.Join(t.TempDir(), "journal.export")
	require.NoError(t, os.WriteFile(path, stream, 0644))

	r, err := Open(path, &Filter{Unit: "b.service"})
	require.NoError(t, err)
	defer r.Close()

	entries := collect(t, r)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.service", entries[0].Unit())
}
