package bean

import "errors"

// Sentinel errors shared by all Storer implementations
var (
	// ErrInvalidKind is returned when a kind name is not a safe identifier
	ErrInvalidKind = errors.New("invalid bean kind")

	// ErrRecordNotFound is returned when a bean cannot be located by id
	ErrRecordNotFound = errors.New("record not found")

	// ErrNilBean is returned when a nil bean is passed to a store operation
	ErrNilBean = errors.New("bean cannot be nil")

	// ErrStoreClosed is returned when operating on a closed store
	ErrStoreClosed = errors.New("store is closed")
)

// IsInvalidKind checks if an error is ErrInvalidKind
func IsInvalidKind(err error) bool {
	return errors.Is(err, ErrInvalidKind)
}

// IsNotFound checks if an error is ErrRecordNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
