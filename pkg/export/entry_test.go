package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryOf(pairs ...string) *Entry {
	e := &Entry{}
	for i := 0; i < len(pairs); i += 2 {
		e.Fields = append(e.Fields, Field{
			Name:  []byte(pairs[i]),
			Value: []byte(pairs[i+1]),
		})
	}
	return e
}

func TestEntryFieldLookup(t *testing.T) {
	e := entryOf("A", "1", "B", "2", "A", "3")

	v, ok := e.Field("A")
	require.True(t, ok)
	assert.Equal(t, "1", v, "lookup returns the first occurrence")

	_, ok = e.Field("MISSING")
	assert.False(t, ok)
}

func TestEntryMessage(t *testing.T) {
	msg, ok := entryOf("MESSAGE", "hello").Message()
	require.True(t, ok)
	assert.Equal(t, "hello", msg)

	// empty MESSAGE falls back to SYSLOG_RAW
	msg, ok = entryOf("MESSAGE", "", "SYSLOG_RAW", "raw line").Message()
	require.True(t, ok)
	assert.Equal(t, "raw line", msg)

	_, ok = entryOf("MESSAGE", "").Message()
	assert.False(t, ok)

	_, ok = entryOf("OTHER", "x").Message()
	assert.False(t, ok)
}

func TestEntryDirectAccessors(t *testing.T) {
	e := entryOf(
		"_PID", "654",
		"_COMM", "rsyslogd",
		"_HOSTNAME", "knisbet-dev",
		"_SYSTEMD_UNIT", "rsyslog.service",
	)
	assert.Equal(t, "654", e.PID())
	assert.Equal(t, "rsyslogd", e.Comm())
	assert.Equal(t, "knisbet-dev", e.Hostname())
	assert.Equal(t, "rsyslog.service", e.Unit())

	empty := entryOf()
	assert.Empty(t, empty.PID())
	assert.Empty(t, empty.Comm())
	assert.Empty(t, empty.Hostname())
	assert.Empty(t, empty.Unit())
}

func TestEntryRealtime(t *testing.T) {
	want := time.Date(2020, 8, 29, 15, 51, 0, 711352000, time.UTC)

	ts, ok := entryOf("_SOURCE_REALTIME_TIMESTAMP", "1598716260711352").Realtime()
	require.True(t, ok)
	assert.True(t, ts.Equal(want))

	// export-time timestamp is the fallback
	ts, ok = entryOf("__REALTIME_TIMESTAMP", "1598716260711352").Realtime()
	require.True(t, ok)
	assert.True(t, ts.Equal(want))

	// source timestamp wins when both are present
	ts, ok = entryOf(
		"__REALTIME_TIMESTAMP", "1598716260711352",
		"_SOURCE_REALTIME_TIMESTAMP", "1598716260000000",
	).Realtime()
	require.True(t, ok)
	assert.True(t, ts.Before(want))

	// a non-numeric timestamp degrades to absent, not an error
	_, ok = entryOf("_SOURCE_REALTIME_TIMESTAMP", "not-a-number").Realtime()
	assert.False(t, ok)

	_, ok = entryOf().Realtime()
	assert.False(t, ok)
}
