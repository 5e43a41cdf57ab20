// Package errors provides the structured error type returned by the
// container and its collaborators. Every failure carries a machine-readable
// code (NOT_FOUND, TYPE_MISMATCH, CYCLIC_PARENT_CHAIN, ...), optional details
// and the underlying cause, and can be matched with the standard library's
// errors.Is and errors.As.
package errors
