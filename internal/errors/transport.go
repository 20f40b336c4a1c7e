package errors

import (
	"errors"
	"fmt"
)

// Gateway operation names used in TransportError.Op.
const (
	OpFetchAll = "fetch all"
	OpCreate   = "create"
	OpReplace  = "replace"
	OpRemove   = "remove"
)

// TransportError is a generic gateway failure. The store only needs to know
// that an operation failed; Err carries the cause for logging.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("gateway %s failed", e.Op)
	}
	return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err as a failure of the named gateway operation.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// IsTransportError reports whether err is a TransportError (even when wrapped).
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
