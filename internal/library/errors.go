package library

import "errors"

// Custom library service errors
var (
	// ErrLimitExceeded indicates the user is at the saved-item cap for this kind
	ErrLimitExceeded = errors.New("library size limit exceeded")

	// ErrItemNotFound indicates no requested item could be resolved or removed
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidInput indicates malformed or missing parameters
	ErrInvalidInput = errors.New("invalid input")
)

// IsLimitExceeded checks if the error is a library cap violation
func IsLimitExceeded(err error) bool {
	return errors.Is(err, ErrLimitExceeded)
}

// IsItemNotFound checks if the error is an item not found error
func IsItemNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}
