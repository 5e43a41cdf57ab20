package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Lookup errors
const (
	// ErrCodeNotFound indicates a name unresolvable in a container and all of its parents.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTypeMismatch indicates a resolved instance is incompatible with the required type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeExpectedFactory indicates a dereference request against a non-factory component.
	ErrCodeExpectedFactory ErrorCode = "EXPECTED_FACTORY_COMPONENT"
)

// Configuration errors
const (
	// ErrCodeCyclicParentChain indicates a descriptor inheritance cycle.
	ErrCodeCyclicParentChain ErrorCode = "CYCLIC_PARENT_CHAIN"
	// ErrCodeAlreadyExists indicates a duplicate descriptor, alias or binder.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeInvalidInput indicates a malformed descriptor or argument.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Construction errors
const (
	// ErrCodePropertyResolution indicates a property value could not be resolved or applied.
	ErrCodePropertyResolution ErrorCode = "PROPERTY_RESOLUTION_FAILED"
	// ErrCodeConstruction indicates a component could not be constructed.
	ErrCodeConstruction ErrorCode = "CONSTRUCTION_FAILED"
	// ErrCodeHook indicates a lifecycle hook returned an error.
	ErrCodeHook ErrorCode = "HOOK_FAILED"
	// ErrCodeInternal indicates an unexpected container failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// A failed construction leaves no cached state behind, so asking again
// rebuilds from scratch.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeConstruction:       true,
	ErrCodePropertyResolution: true,
	ErrCodeHook:               true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
