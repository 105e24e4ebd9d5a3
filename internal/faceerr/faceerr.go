// Package faceerr defines the typed errors raised at stage boundaries of the
// face styling pipeline.
package faceerr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind uint8

// Error kinds.
const (
	KindUnknown Kind = iota
	KindInsufficientLandmarks
	KindLandmarkOutOfRange
	KindMeshGenerationFailed
	KindMeshOptimizationFailed
	KindThemeStyleFailed
	KindTextureSynthesisFailed
	KindInvalidOptions
	KindValidationFailed
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindInsufficientLandmarks:
		return "InsufficientLandmarks"
	case KindLandmarkOutOfRange:
		return "LandmarkOutOfRange"
	case KindMeshGenerationFailed:
		return "MeshGenerationFailed"
	case KindMeshOptimizationFailed:
		return "MeshOptimizationFailed"
	case KindThemeStyleFailed:
		return "ThemeStyleFailed"
	case KindTextureSynthesisFailed:
		return "TextureSynthesisFailed"
	case KindInvalidOptions:
		return "InvalidOptions"
	case KindValidationFailed:
		return "ValidationFailed"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Sentinels for errors.Is matching by kind.
var (
	ErrInsufficientLandmarks  = &Error{Kind: KindInsufficientLandmarks}
	ErrLandmarkOutOfRange     = &Error{Kind: KindLandmarkOutOfRange}
	ErrMeshGenerationFailed   = &Error{Kind: KindMeshGenerationFailed}
	ErrMeshOptimizationFailed = &Error{Kind: KindMeshOptimizationFailed}
	ErrThemeStyleFailed       = &Error{Kind: KindThemeStyleFailed}
	ErrTextureSynthesisFailed = &Error{Kind: KindTextureSynthesisFailed}
	ErrInvalidOptions         = &Error{Kind: KindInvalidOptions}
	ErrValidationFailed       = &Error{Kind: KindValidationFailed}
)

// Error is a stage failure carrying its kind and originating cause.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "facemesh.Build"
	Err  error  // underlying cause, may be nil
}

// New returns an error of the given kind with a formatted cause.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap returns an error of the given kind wrapping cause.
func Wrap(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
