// Package ugiterr defines the error-kind taxonomy shared by every core
// component (object store, reference store, codecs, resolver, merge
// planner). Callers distinguish kinds with errors.Is against the sentinel
// variables; the wrapped cause, when present, is reachable via errors.Unwrap.
package ugiterr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of core failure. See spec §7.
type Kind string

const (
	NotFound    Kind = "NotFound"
	BadType     Kind = "BadType"
	Corrupt     Kind = "Corrupt"
	BadRef      Kind = "BadRef"
	BadCommit   Kind = "BadCommit"
	BadTree     Kind = "BadTree"
	BadName     Kind = "BadName"
	UnknownName Kind = "UnknownName"
	EmptyValue  Kind = "EmptyValue"
	IOError     Kind = "IOError"
	ToolError   Kind = "ToolError"
)

// sentinels, one per kind, so callers can do errors.Is(err, ugiterr.ErrNotFound).
var (
	ErrNotFound    = errors.New(string(NotFound))
	ErrBadType     = errors.New(string(BadType))
	ErrCorrupt     = errors.New(string(Corrupt))
	ErrBadRef      = errors.New(string(BadRef))
	ErrBadCommit   = errors.New(string(BadCommit))
	ErrBadTree     = errors.New(string(BadTree))
	ErrBadName     = errors.New(string(BadName))
	ErrUnknownName = errors.New(string(UnknownName))
	ErrEmptyValue  = errors.New(string(EmptyValue))
	ErrIOError     = errors.New(string(IOError))
	ErrToolError   = errors.New(string(ToolError))
)

var sentinels = map[Kind]error{
	NotFound:    ErrNotFound,
	BadType:     ErrBadType,
	Corrupt:     ErrCorrupt,
	BadRef:      ErrBadRef,
	BadCommit:   ErrBadCommit,
	BadTree:     ErrBadTree,
	BadName:     ErrBadName,
	UnknownName: ErrUnknownName,
	EmptyValue:  ErrEmptyValue,
	IOError:     ErrIOError,
	ToolError:   ErrToolError,
}

// Error is a core error tagged with a Kind, optionally wrapping a cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return sentinels[e.Kind]
}

// Is lets errors.Is(err, ugiterr.ErrNotFound) succeed for any *Error of
// matching Kind, regardless of message or cause.
func (e *Error) Is(target error) bool {
	return target == sentinels[e.Kind]
}

// New builds a tagged error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a tagged error around an underlying cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the Kind of err if it (or something it wraps) is a
// *Error; ok is false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
