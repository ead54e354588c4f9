package planning

import "fmt"

// ErrInvalidQuantity indicates a negative or non-numeric request
type ErrInvalidQuantity struct {
	Quantity float64
}

func (e *ErrInvalidQuantity) Error() string {
	return fmt.Sprintf("invalid quantity %v: must be a number >= 0", e.Quantity)
}

// ErrInvalidYieldMode indicates a yield mode outside SAFE, AVERAGE and OPTIMISTIC
type ErrInvalidYieldMode struct {
	Mode string
	Err  error
}

func (e *ErrInvalidYieldMode) Error() string {
	return fmt.Sprintf("invalid yield mode %q: %v", e.Mode, e.Err)
}

func (e *ErrInvalidYieldMode) Unwrap() error {
	return e.Err
}
