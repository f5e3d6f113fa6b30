// Package export decodes the systemd journal export format into
// discrete entries.
//
// The export format is the serialization produced by
// "journalctl -o export" and by systemd-journal-remote. It is a flat
// byte stream of entries separated by blank lines, with each field
// encoded in one of two forms distinguished by the byte following the
// field name:
//
//	NAME '=' value '\n'                          (text form)
//	NAME '\n' le_u64(len) payload '\n'           (binary form)
//
// Text-form values can never contain a newline; binary-form payloads
// are raw and may contain any byte, including newlines and zeros.
// Field names are one or more bytes excluding '=' and newline. Names
// beginning with two underscores (__CURSOR, __REALTIME_TIMESTAMP,
// __MONOTONIC_TIMESTAMP, and any added later) are entry metadata
// serialized like ordinary fields; the decoder treats them identically
// and never rejects one it does not recognize.
//
// # Streaming
//
// Reader decodes incrementally from any io.Reader. Input arrives in
// fixed-size chunks that may split a field name, a length prefix, or a
// binary payload at any byte offset; the decoder distinguishes "valid
// but incomplete prefix" from "malformed" and retries the former
// against a larger buffer after the next read. Consumed bytes are
// dropped at refill time, so memory grows only with genuinely
// unconsumed data, bounded by MaxBuffer.
//
// # Usage
//
//	r, err := export.Open(path, &export.Filter{Unit: "sshd.service"})
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	for r.Next() {
//	    line, err := export.Render(r.Entry(), export.ModeDefault)
//	    ...
//	}
//	if err := r.Err(); err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Malformed input aborts the decode with a *SyntaxError; there is no
// resynchronization once a field boundary is corrupt. Exceeding
// MaxBuffer without finding a record boundary aborts with
// ErrBufferLimit so callers can tell runaway input apart from a
// corrupt field. Read failures from the underlying source are returned
// as-is. A missing or unparseable well-known field (for example a
// non-numeric timestamp) is never an error; accessors report absence
// instead.
//
// # Thread Safety
//
// A Reader owns its buffer and in-progress entry and must not be used
// from more than one goroutine. Entries returned by Entry are owned by
// the caller once yielded and share no state with the Reader.
package export
