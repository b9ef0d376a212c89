package goavsc

import (
	"errors"
	"fmt"
	"strings"
)

// Codes carried by ParseError.Code. They are stable and safe to match on.
const (
	CodeUnknownType    = "unknown_type"
	CodeInvalidSchema  = "invalid_schema"
	CodeInvalidValue   = "invalid_value"
	CodeRequired       = "required"
	CodeNestedUnion    = "nested_union"
	CodeDuplicateKind  = "duplicate_union_kind"
	CodeDuplicateField = "duplicate_field"
	CodeDuplicateName  = "duplicate_name"
	CodeReservedName   = "reserved_name"
	CodeDuplicateKey   = "duplicate_key"
	CodeDecode         = "decode_error"
)

var (
	// ErrSchemaParse matches every error produced while building a schema tree,
	// including *DuplicateNameError.
	ErrSchemaParse = errors.New("avsc: schema parse error")
	// ErrMultipleMatch matches *MultipleMatchError.
	ErrMultipleMatch = errors.New("avsc: multiple matches for path")
)

// ParseError reports a grammar violation in an AVSC document.
type ParseError struct {
	Path    string // JSON Pointer into the source document (for example: /fields/2/type).
	Code    string // One of the Code* constants.
	Message string
	Cause   error // Optional: the nested failure this error wraps.
}

func (e *ParseError) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "avsc: %s at %s: %s", e.Code, e.pointer(), e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ParseError) pointer() string {
	if e.Path == "" {
		return "/"
	}
	return e.Path
}

func (e *ParseError) Unwrap() error { return e.Cause }

func (e *ParseError) Is(target error) bool { return target == ErrSchemaParse }

// DuplicateNameError is raised when a named type's full name is already
// registered or is a reserved type keyword. It is a parse error.
type DuplicateNameError struct {
	Fullname string
	Reserved bool
}

func (e *DuplicateNameError) Error() string {
	if e.Reserved {
		return fmt.Sprintf("avsc: %s is a reserved type name", e.Fullname)
	}
	return fmt.Sprintf("avsc: the name %s is already in use", e.Fullname)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrSchemaParse }

// MultipleMatchError is raised by Lookup when several fields of one record
// claim the same fullpath.
type MultipleMatchError struct {
	Path    string
	Matches int
}

func (e *MultipleMatchError) Error() string {
	return fmt.Sprintf("avsc: %d fields have the fullpath %q, unknown which one should be returned", e.Matches, e.Path)
}

func (e *MultipleMatchError) Is(target error) bool { return target == ErrMultipleMatch }

// AsParseError extracts the outermost *ParseError using errors.As internally.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func parseErrorf(path, code, format string, a ...any) *ParseError {
	return &ParseError{Path: path, Code: code, Message: fmt.Sprintf(format, a...)}
}

// wrapParseError adds context to a nested failure without losing it.
func wrapParseError(path, code string, cause error, format string, a ...any) *ParseError {
	return &ParseError{Path: path, Code: code, Message: fmt.Sprintf(format, a...), Cause: cause}
}
