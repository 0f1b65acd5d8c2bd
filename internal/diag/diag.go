// Package diag implements the structured error taxonomy shared by every
// NexusLink subsystem. It is deliberately small: a Kind plus a bag of
// context fields, wrapped with github.com/pkg/errors when a caller adds a
// layer of its own context.
package diag

import (
	"fmt"
)

// Kind enumerates the error taxonomy. These are kinds, not Go types -
// callers branch on Kind via KindOf (or errors.As and the K field), never
// on the concrete constructor that produced the value.
type Kind uint8

const (
	_ Kind = iota
	InvalidInput
	DuplicateID
	UnknownReference
	Unresolved
	KindMismatch
	VersionConflict
	PassFailed
	OutOfResources
	Cancelled
	Internal
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case DuplicateID:
		return "DuplicateID"
	case UnknownReference:
		return "UnknownReference"
	case Unresolved:
		return "Unresolved"
	case KindMismatch:
		return "KindMismatch"
	case VersionConflict:
		return "VersionConflict"
	case PassFailed:
		return "PassFailed"
	case OutOfResources:
		return "OutOfResources"
	case Cancelled:
		return "Cancelled"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the structured payload described in spec §7: a kind, a
// one-line human message, and context fields a caller can inspect without
// parsing the message string.
type Error struct {
	K       Kind
	Message string
	Fields  map[string]interface{}
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.K, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.K, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// KindOf reports err's taxonomy kind when err is itself a *Error; it
// returns 0 (the zero Kind, which has no named case) for nil or any other
// error, including one that only wraps a *Error.
func KindOf(err error) Kind {
	if de, ok := err.(*Error); ok {
		return de.K
	}
	return 0
}

// New builds a diag.Error with the given kind, message, and fields. Pass
// fields as alternating key/value pairs, the same calling convention
// zap.SugaredLogger uses for its With/Infow family.
func New(k Kind, msg string, kv ...interface{}) *Error {
	return &Error{K: k, Message: msg, Fields: pairs(kv)}
}

// Wrap attaches a diag.Error on top of an existing cause, preserving the
// cause for errors.Unwrap / errors.Is chains.
func Wrap(k Kind, cause error, msg string, kv ...interface{}) *Error {
	return &Error{K: k, Message: msg, Fields: pairs(kv), Cause: cause}
}

func pairs(kv []interface{}) map[string]interface{} {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		m[key] = kv[i+1]
	}
	return m
}
