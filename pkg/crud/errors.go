package crud

import (
	"errors"
	"fmt"
)

// ErrNotAssociative is returned when a data mapping has no named keys
// (list-like input coerced into a map).
var ErrNotAssociative = errors.New("data mapping must have at least one named key")

// Operation names used in CrudError
const (
	OpRead = "read"
)

// CrudError reports a failed facade operation on a specific bean
type CrudError struct {
	Op   string
	Kind string
	ID   int64
	Err  error
}

func (e *CrudError) Error() string {
	return fmt.Sprintf("%s %s#%d: %v", e.Op, e.Kind, e.ID, e.Err)
}

func (e *CrudError) Unwrap() error {
	return e.Err
}

// RelationError reports a relation conflict or an invalid relation kind
type RelationError struct {
	Rel Kind
}

func (e *RelationError) Error() string {
	if e.Rel == KindUnknown {
		return "unknown relation kind"
	}
	return fmt.Sprintf("conflicting %s relation already exists", e.Rel)
}

// Rule identifies the validation rule that failed
type Rule int

const (
	// RuleIncomplete means a required field is missing or empty
	RuleIncomplete Rule = iota
	// RuleUnique means another bean already holds the field value
	RuleUnique
)

func (r Rule) String() string {
	switch r {
	case RuleUnique:
		return "unique"
	default:
		return "incomplete"
	}
}

// ValidationError reports a business-rule violation on a single field
type ValidationError struct {
	Rule  Rule
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): field %q", e.Rule, e.Field)
}

// IsRelationConflict checks if an error is a RelationError for a known
// relation kind
func IsRelationConflict(err error) bool {
	var relErr *RelationError
	return errors.As(err, &relErr) && relErr.Rel != KindUnknown
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
