package persist

import "fmt"

// --------------------------------------------------------------------------
// Error Type
// --------------------------------------------------------------------------

// Error wraps a return code (of type RetCode), a message and an optional cause.
type Error struct {
	Code  RetCode // The return code
	Msg   string  // The error message.
	Cause error   // Optional underlying error.
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("PersistError (code %s): %s: %v", e.Code, e.Msg, e.Cause)
	}
	return fmt.Sprintf("PersistError (code %s): %s", e.Code, e.Msg)
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// WrapError creates a new error with the given code and message that wraps cause.
func WrapError(code RetCode, msg string, cause error) *Error {
	return &Error{Code: code, Msg: msg, Cause: cause}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCInvalidConfig RetCode = iota + 1 // 1: The configuration is rejected.
	RetCSerialize                        // 2: A snapshot could not be encoded or decoded.
	RetCStorage                          // 3: The storage backend failed.
)

func (c RetCode) String() string {
	switch c {
	case RetCInvalidConfig:
		return "InvalidConfig"
	case RetCSerialize:
		return "Serialize"
	case RetCStorage:
		return "Storage"
	default:
		return "Unknown"
	}
}
