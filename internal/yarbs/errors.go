package yarbs

import "fmt"

// MalformedInputError is returned when an input file cannot be parsed:
// a truncated PAF row, a coordinate row with garbage in a numeric column,
// an edits file that is not valid JSON. It is fatal, nothing is written.
type MalformedInputError struct {
	// Path of the file being parsed
	Path string

	// Line number (1-based) where parsing failed, 0 if not line oriented
	Line int

	// Reason parsing failed
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Path, e.Reason)
}

// MissingReferenceError is returned when an edit or group names a contig
// that is not in the input assembly. It is a warning, not fatal: the
// entity is skipped and the error's text lands in the report.
type MissingReferenceError struct {
	// Kind of entity that was missing, ex: "contig"
	Kind string

	// ID is the name that could not be resolved
	ID string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s %s not found in input sequences, skipping", e.Kind, e.ID)
}

// ExternalToolFailure is returned when a subprocess (minimap2) exits
// non-zero. Output holds the tool's stderr verbatim.
type ExternalToolFailure struct {
	// Tool is the name of the executable that failed
	Tool string

	// Err is the error from os/exec
	Err error

	// Output is the tool's combined output, passed through untouched
	Output string
}

func (e *ExternalToolFailure) Error() string {
	return fmt.Sprintf("failed to execute %s: %v: %s", e.Tool, e.Err, e.Output)
}

func (e *ExternalToolFailure) Unwrap() error { return e.Err }

// ConfigurationError is returned before any processing starts when a
// setting is out of range, ex: a gap length below 1.
type ConfigurationError struct {
	// Reason the settings were rejected
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}
