package storage

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Storage is the key-value contract the persistence engine writes to.
// Values are text. Read operations return the value along with a flag
// telling whether the key was found. All operations return a *Error (or an
// error wrapping one) on failure.
type Storage interface {
	// GetItem returns the value for a key. The boolean return value indicates whether a value for the key was found.
	GetItem(key string) (value string, ok bool, err error)
	// SetItem inserts or updates a key–value pair.
	SetItem(key string, value string) (err error)
	// RemoveItem deletes a key–value pair. Removing a missing key is not an error.
	RemoveItem(key string) (err error)
}

// SyncReader is implemented by backends whose GetItem may complete
// asynchronously but which also offer a blocking accessor. The restore path
// prefers GetItemSync when it is available.
type SyncReader interface {
	// GetItemSync returns the value for a key once every write issued before the call has been applied.
	GetItemSync(key string) (value string, ok bool, err error)
}

// Lister is implemented by backends that can enumerate their keys.
type Lister interface {
	// Keys returns all keys starting with prefix in sorted order.
	Keys(prefix string) (keys []string, err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code  RetCode // The return code
	Msg   string  // The error message.
	Cause error   // Optional underlying error.
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("StorageError (code %s): %s: %v", e.Code, e.Msg, e.Cause)
	}
	return fmt.Sprintf("StorageError (code %s): %s", e.Code, e.Msg)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new storage Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// WrapError creates a new storage Error around cause.
func WrapError(code RetCode, msg string, cause error) *Error {
	return &Error{
		Code:  code,
		Msg:   msg,
		Cause: cause,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                       // 1: Operation failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the backend.
	RetCClosed                              // 3: The backend has been closed.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
