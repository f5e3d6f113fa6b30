package export

import "fmt"

// OutputMode selects the line layout used when rendering entries. The
// set mirrors journalctl's --output values. Only the default layout
// (short-iso) is implemented; every other recognized mode renders as
// ErrModeNotImplemented so a typo or an unported mode never silently
// falls back to a different layout.
type OutputMode string

const (
	ModeDefault         OutputMode = ""
	ModeShort           OutputMode = "short"
	ModeShortPrecise    OutputMode = "short-precise"
	ModeShortISO        OutputMode = "short-iso"
	ModeShortISOPrecise OutputMode = "short-iso-precise"
	ModeShortFull       OutputMode = "short-full"
	ModeShortMonotonic  OutputMode = "short-monotonic"
	ModeShortUnix       OutputMode = "short-unix"
	ModeVerbose         OutputMode = "verbose"
	ModeExport          OutputMode = "export"
	ModeJSON            OutputMode = "json"
	ModeJSONPretty      OutputMode = "json-pretty"
	ModeJSONSSE         OutputMode = "json-sse"
	ModeJSONSeq         OutputMode = "json-seq"
	ModeCat             OutputMode = "cat"
	ModeWithUnit        OutputMode = "with-unit"
)

var allModes = []OutputMode{
	ModeShort, ModeShortPrecise, ModeShortISO, ModeShortISOPrecise,
	ModeShortFull, ModeShortMonotonic, ModeShortUnix, ModeVerbose,
	ModeExport, ModeJSON, ModeJSONPretty, ModeJSONSSE, ModeJSONSeq,
	ModeCat, ModeWithUnit,
}

// Modes lists every recognized output mode name, for CLI help text.
func Modes() []string {
	names := make([]string, len(allModes))
	for i, m := range allModes {
		names[i] = string(m)
	}
	return names
}

// ParseOutputMode validates a user-supplied mode name. The empty
// string selects the default layout.
func ParseOutputMode(s string) (OutputMode, error) {
	if s == "" {
		return ModeDefault, nil
	}
	for _, m := range allModes {
		if OutputMode(s) == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("export: unknown output mode %q", s)
}

// Implemented reports whether the mode has a rendering. Surrounding
// layers use it to reject a mode before any output is produced.
func (m OutputMode) Implemented() bool {
	switch m {
	case ModeDefault, ModeShortISO:
		return true
	}
	return false
}

// isoLayout is ISO 8601 with up to microsecond precision. Entries are
// always rendered in UTC, so the offset is fixed.
const isoLayout = "2006-01-02T15:04:05.999999+00:00"

// Render formats one entry as a single line in the given mode.
func Render(e *Entry, mode OutputMode) (string, error) {
	switch mode {
	case ModeDefault, ModeShortISO:
		return renderShortISO(e), nil
	default:
		if _, err := ParseOutputMode(string(mode)); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %s", ErrModeNotImplemented, mode)
	}
}

// renderShortISO renders "<timestamp> <host> <comm>[<pid>]: <message>"
// with absent components rendered as empty strings.
func renderShortISO(e *Entry) string {
	var ts string
	if t, ok := e.Realtime(); ok {
		ts = t.Format(isoLayout)
	}
	msg, _ := e.Message()
	return fmt.Sprintf("%s %s %s[%s]: %s\n", ts, e.Hostname(), e.Comm(), e.PID(), msg)
}
