package export

import (
	"strconv"
	"time"
)

// Well-known journal fields:
// https://www.freedesktop.org/software/systemd/man/systemd.journal-fields.html
const (
	fieldMessage        = "MESSAGE"
	fieldSyslogRaw      = "SYSLOG_RAW"
	fieldPID            = "_PID"
	fieldComm           = "_COMM"
	fieldHostname       = "_HOSTNAME"
	fieldSystemdUnit    = "_SYSTEMD_UNIT"
	fieldSourceRealtime = "_SOURCE_REALTIME_TIMESTAMP"
	fieldRealtime       = "__REALTIME_TIMESTAMP"
)

// Entry is one decoded journal record: fields in stream order,
// duplicates preserved. Lookups return the first occurrence.
type Entry struct {
	Fields []Field
}

// Field returns the value of the first field named name, interpreted
// as UTF-8 text. ok is false when no such field exists.
func (e *Entry) Field(name string) (value string, ok bool) {
	for _, f := range e.Fields {
		if string(f.Name) == name {
			return string(f.Value), true
		}
	}
	return "", false
}

// Message returns the human-readable MESSAGE field. Entries forwarded
// from syslog sometimes carry an empty MESSAGE; fall back to SYSLOG_RAW
// in that case.
func (e *Entry) Message() (string, bool) {
	msg, ok := e.Field(fieldMessage)
	if !ok {
		return "", false
	}
	if msg == "" {
		return e.Field(fieldSyslogRaw)
	}
	return msg, true
}

// PID returns _PID or the empty string.
func (e *Entry) PID() string {
	v, _ := e.Field(fieldPID)
	return v
}

// Comm returns _COMM or the empty string.
func (e *Entry) Comm() string {
	v, _ := e.Field(fieldComm)
	return v
}

// Hostname returns _HOSTNAME or the empty string.
func (e *Entry) Hostname() string {
	v, _ := e.Field(fieldHostname)
	return v
}

// Unit returns _SYSTEMD_UNIT or the empty string.
func (e *Entry) Unit() string {
	v, _ := e.Field(fieldSystemdUnit)
	return v
}

// Realtime returns the entry timestamp in UTC, preferring the source
// timestamp over the one stamped when the entry reached the journal.
// Both fields are microseconds since the Unix epoch. A missing or
// non-numeric value reports ok=false; it never fails the entry.
func (e *Entry) Realtime() (time.Time, bool) {
	s, ok := e.Field(fieldSourceRealtime)
	if !ok {
		if s, ok = e.Field(fieldRealtime); !ok {
			return time.Time{}, false
		}
	}
	micros, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMicro(micros).UTC(), true
}
