package export

import "encoding/binary"

const (
	sepEquals  = '='
	sepNewline = '\n'
)

// Field is a single name/value pair within an Entry. Text-form values
// never contain a newline; binary-form values may contain any byte.
type Field struct {
	Name  []byte
	Value []byte
}

// parseName returns the length of the field name at the head of s: the
// longest run of bytes excluding '=' and newline, minimum one byte. A
// slice that ends inside the run is an incomplete prefix, because the
// run might continue in the next chunk.
func parseName(s []byte) (int, error) {
	for i, c := range s {
		if c == sepEquals || c == sepNewline {
			if i == 0 {
				return 0, errEmptyName
			}
			return i, nil
		}
	}
	return 0, needMore{1}
}

// parseValue decodes the value portion of a field. s starts at the
// byte immediately following the name, which selects the encoding:
// '=' for text, newline for binary. The returned slice aliases s.
func parseValue(s []byte) ([]byte, int, error) {
	if len(s) == 0 {
		return nil, 0, needMore{1}
	}
	switch s[0] {
	case sepEquals:
		return parseTextValue(s)
	case sepNewline:
		return parseBinaryValue(s)
	default:
		return nil, 0, errBadSep
	}
}

// parseTextValue decodes '=' + value + '\n'. The value may be empty and
// is newline-free by construction.
func parseTextValue(s []byte) ([]byte, int, error) {
	for i := 1; i < len(s); i++ {
		if s[i] == sepNewline {
			return s[1:i], i + 1, nil
		}
	}
	return nil, 0, needMore{1}
}

// parseBinaryValue decodes '\n' + 8-byte little-endian length + payload
// + '\n'. The payload is raw; embedded newlines and zero bytes are
// data, not structure.
func parseBinaryValue(s []byte) ([]byte, int, error) {
	const headerLen = 1 + 8
	if len(s) < headerLen {
		return nil, 0, needMore{headerLen - len(s)}
	}
	length := binary.LittleEndian.Uint64(s[1:headerLen])

	// A declared payload that cannot fit under the buffer limit will
	// never complete; fail as runaway input before buffering toward it.
	if length >= MaxBuffer {
		return nil, 0, ErrBufferLimit
	}

	total := headerLen + int(length) + 1
	if len(s) < total {
		return nil, 0, needMore{total - len(s)}
	}
	if s[total-1] != sepNewline {
		return nil, 0, errBadTerm
	}
	return s[headerLen : total-1], total, nil
}

// parseField decodes one complete field from the head of s, returning
// the field and the number of bytes consumed. The field's slices alias
// s; callers that outlive the buffer must copy.
func parseField(s []byte) (Field, int, error) {
	nameLen, err := parseName(s)
	if err != nil {
		return Field{}, 0, err
	}
	value, n, err := parseValue(s[nameLen:])
	if err != nil {
		return Field{}, 0, err
	}
	return Field{Name: s[:nameLen], Value: value}, nameLen + n, nil
}
