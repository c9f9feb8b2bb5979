// Package lazy provides the deferred materialization container used by the
// persistence engine: a value-shaped View that stands in for a value which does
// not exist yet (typically "the state once it has been restored from storage").
//
// A View is a tagged variant. It is either resolved (it wraps a value that is
// already known) or deferred (it wraps a Supplier that is only invoked when the
// view is observed). Code holding a View knows it holds one and reads through
// the accessor methods:
//
//   - Field(name):   read one field, recursing into the resolved value
//   - Fields():      enumerate the field names of the resolved value
//   - Has(name):     own-field test against the resolved value
//   - Coerce(hint):  numeric, string or boolean coercion of a primitive value
//   - Value():       force resolution and return the real value
//
// Views are read-only. Set, Delete and Define never mutate anything; in strict
// (development) mode they return ErrUnsupportedOperation, otherwise they report
// failure silently.
//
// Helpers such as ValueOf, Materialize, ToNumber and ToString accept either a
// View or a plain value, which keeps reducer code indifferent to whether the
// state it was handed is still deferred.
package lazy
