package metrics

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every error the engine returns. Empty or
// zero-valued input is not an error; it yields a zero result.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
