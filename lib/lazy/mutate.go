package lazy

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

// ErrUnsupportedOperation is returned by mutating accessors in strict mode.
var ErrUnsupportedOperation = errors.New("lazy: unsupported operation")

// OperationError names the rejected mutation.
type OperationError struct {
	Op    string
	Field string
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("lazy: %s %q is not supported", e.Op, e.Field)
}

// Unwrap allows errors.Is(err, ErrUnsupportedOperation).
func (e *OperationError) Unwrap() error {
	return ErrUnsupportedOperation
}

// strict mirrors a development build: rejected mutations return an error
// instead of failing silently.
var strict atomic.Bool

func init() {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("DPERSIST_ENV")))
	strict.Store(env == "development" || env == "dev")
}

// SetStrict toggles strict mode and returns the previous setting.
func SetStrict(enabled bool) (previous bool) {
	return strict.Swap(enabled)
}

// Strict reports whether strict mode is enabled.
func Strict() bool {
	return strict.Load()
}

// Set never writes. It reports false, and in strict mode an
// *OperationError.
func (v *View) Set(name string, _ any) (bool, error) {
	return reject("set", name)
}

// Delete never deletes. See Set.
func (v *View) Delete(name string) (bool, error) {
	return reject("delete", name)
}

// Define never defines a field. See Set.
func (v *View) Define(name string, _ any) (bool, error) {
	return reject("define", name)
}

func reject(op, field string) (bool, error) {
	if strict.Load() {
		return false, &OperationError{Op: op, Field: field}
	}
	return false, nil
}
