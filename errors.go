package formtree

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType = "invalid_type"
	CodeParseError  = "parse_error"
	// Tree construction and variant switching
	CodeUnknownKind       = "unknown_kind"
	CodeUnknownVariant    = "unknown_variant"
	CodeReferenceNotFound = "reference_not_found"
	CodeFactoryFailure    = "factory_failure"
)

// Issue represents a single entry reported while building a tree or moving
// values through it.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/amount).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, offending token, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"variant":"card"}) for
	// i18n and observability.
	Params map[string]any
}

// Issues is a collection of errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unknown_variant at /payment
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssuesFromErr converts an error into Issues, wrapping non-Issues values
// with CodeParseError at the given path.
func IssuesFromErr(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if i2, ok := AsIssues(err); ok {
		return i2
	}
	return Issues{Issue{Path: path, Code: CodeParseError, Message: err.Error(), Cause: err}}
}
