package gateway

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by a factory when the requested provider or
// carrier name is not present in its registry.
var ErrUnsupported = errors.New("unsupported gateway")

// Error wraps a failure reported by an external provider or carrier network.
type Error struct {
	Gateway string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s gateway: %v", e.Gateway, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func Wrap(gateway string, err error) error {
	return &Error{Gateway: gateway, Err: err}
}

// Is reports whether err carries a gateway failure.
func Is(err error) bool {
	var ge *Error
	return errors.As(err, &ge)
}
