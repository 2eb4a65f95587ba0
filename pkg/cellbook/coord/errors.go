package coord

import (
	"errors"
	"fmt"
)

// ErrInvalidAddress is matched by every AddressError.
var ErrInvalidAddress = errors.New("invalid cell address")

// AddressError reports a malformed or out-of-range coordinate notation.
type AddressError struct {
	Input  string
	Reason string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("invalid cell address %q: %s", e.Input, e.Reason)
}

// Is lets errors.Is match ErrInvalidAddress.
func (e *AddressError) Is(target error) bool {
	return target == ErrInvalidAddress
}
