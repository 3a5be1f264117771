package iconset

import "fmt"

// Kind classifies export and packing failures so callers can pick the
// right remediation message. A Kind is itself an error, usable as an
// errors.Is target: errors.Is(err, iconset.ToolUnavailable).
type Kind int

const (
	// IO: the manifest directory or one of its files could not be written.
	IO Kind = iota + 1
	// ToolUnavailable: the external converter could not be located or
	// started. Distinct from a non-zero exit so callers can suggest
	// installing the required tooling.
	ToolUnavailable
	// ConversionFailed: the converter ran and exited non-zero.
	ConversionFailed
	// PostconditionFailed: the converter claimed success but the expected
	// container file does not exist.
	PostconditionFailed
)

func (k Kind) Error() string {
	switch k {
	case IO:
		return "manifest write failed"
	case ToolUnavailable:
		return "converter unavailable"
	case ConversionFailed:
		return "conversion failed"
	case PostconditionFailed:
		return "converter produced no output"
	default:
		return "unknown error"
	}
}

// Error is a classified export/packing failure. ExitCode and Output are
// populated only for ConversionFailed.
type Error struct {
	Kind     Kind
	Op       string // short description of the failing step
	Err      error  // underlying cause, may be nil
	ExitCode int    // converter exit code (ConversionFailed)
	Output   string // captured converter stdout+stderr (ConversionFailed)
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Kind == ConversionFailed && e.Output != "" {
		msg = fmt.Sprintf("%s (exit %d)\n%s", msg, e.ExitCode, e.Output)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches against a Kind target.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}
