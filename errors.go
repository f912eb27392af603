package audiox

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Code identifies a class of error in the audiox error taxonomy (spec.md §7).
// Every error audiox returns across package boundaries is classifiable with
// one of these codes via errors.Is/errors.As against a *CodeError.
type Code uint8

const (
	// CodeInvalidContainer reports a magic-byte mismatch or an impossible
	// header field (reserved MPEG version, layer 0 on AAC, missing fmt/data
	// chunk, etc). Fatal for the call that encountered it.
	CodeInvalidContainer Code = iota + 1
	// CodeTruncatedInput reports a read that returned fewer bytes than
	// required.
	CodeTruncatedInput
	// CodeUnsupportedFormat reports that format detection found nothing, or
	// an output extension is not in the registry.
	CodeUnsupportedFormat
	// CodeUnknownTrack reports an operation on a track id the demuxer never
	// produced, or that was never added to a muxer.
	CodeUnknownTrack
	// CodeNonSeekable reports a seek on a Stream source, or a reposition on
	// a forward-only writer.
	CodeNonSeekable
	// CodeMuxerState reports a packet written after finalize, or finalize
	// called twice.
	CodeMuxerState
	// CodeInvalidCode reports a bit-stream decode that ran off the end of a
	// valid code length (Exp-Golomb, unary with more than 32 leading
	// zeros).
	CodeInvalidCode
	// CodeIO reports a backing-storage failure, propagated verbatim from
	// the underlying Source/Target.
	CodeIO
)

// String returns the taxonomy name for the code, e.g. "InvalidContainer".
func (c Code) String() string {
	switch c {
	case CodeInvalidContainer:
		return "InvalidContainer"
	case CodeTruncatedInput:
		return "TruncatedInput"
	case CodeUnsupportedFormat:
		return "UnsupportedFormat"
	case CodeUnknownTrack:
		return "UnknownTrack"
	case CodeNonSeekable:
		return "NonSeekable"
	case CodeMuxerState:
		return "MuxerStateError"
	case CodeInvalidCode:
		return "InvalidCode"
	case CodeIO:
		return "IoError"
	default:
		return "Unknown"
	}
}

// CodeError is an audiox error tagged with a stable, user-reportable Code.
type CodeError struct {
	Code Code
	Msg  string
	Err  error // optional wrapped cause
}

func (e *CodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audiox: %s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("audiox: %s: %s", e.Code, e.Msg)
}

func (e *CodeError) Unwrap() error { return e.Err }

// Is reports whether target is a *CodeError with the same Code, so that
// errors.Is(err, &CodeError{Code: CodeUnknownTrack}) works without callers
// needing to compare messages.
func (e *CodeError) Is(target error) bool {
	t, ok := target.(*CodeError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// newErr builds a *CodeError, formatting Msg like fmt.Sprintf.
func newErr(code Code, format string, args ...interface{}) error {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// wrapErr builds a *CodeError around an existing error, preserving it for
// errors.Unwrap/errors.As while still being classifiable by Code. The cause
// is wrapped with pkg/errors first so a stack trace survives for CodeIO
// failures that bubble up from the Source/Target layer.
func wrapErr(code Code, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...), Err: pkgerrors.WithStack(err)}
}

// ErrInvalidContainer builds a CodeInvalidContainer error.
func ErrInvalidContainer(format string, args ...interface{}) error {
	return newErr(CodeInvalidContainer, format, args...)
}

// ErrTruncatedInput builds a CodeTruncatedInput error.
func ErrTruncatedInput(format string, args ...interface{}) error {
	return newErr(CodeTruncatedInput, format, args...)
}

// ErrUnsupportedFormat builds a CodeUnsupportedFormat error.
func ErrUnsupportedFormat(format string, args ...interface{}) error {
	return newErr(CodeUnsupportedFormat, format, args...)
}

// ErrUnknownTrack builds a CodeUnknownTrack error.
func ErrUnknownTrack(trackID int) error {
	return newErr(CodeUnknownTrack, "unknown track id %d", trackID)
}

// ErrNonSeekable builds a CodeNonSeekable error.
func ErrNonSeekable(format string, args ...interface{}) error {
	return newErr(CodeNonSeekable, format, args...)
}

// ErrMuxerState builds a CodeMuxerState error.
func ErrMuxerState(format string, args ...interface{}) error {
	return newErr(CodeMuxerState, format, args...)
}

// ErrInvalidCode builds a CodeInvalidCode error.
func ErrInvalidCode(format string, args ...interface{}) error {
	return newErr(CodeInvalidCode, format, args...)
}

// ErrIO wraps a backing-storage error as CodeIO.
func ErrIO(err error, format string, args ...interface{}) error {
	return wrapErr(CodeIO, err, format, args...)
}
