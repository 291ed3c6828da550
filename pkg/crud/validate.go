package crud

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ammar0144/bean4go/pkg/bean"
	"github.com/ammar0144/bean4go/pkg/filter"
)

// fieldPattern restricts field names used in uniqueness queries, since
// they end up as column identifiers in the where clause.
var fieldPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// CheckComplete verifies that every required field is present and
// non-empty on the bean, failing with a ValidationError naming the first
// offending field. Emptiness follows the validator's "required" rule:
// zero values and empty strings fail.
func (c *Client) CheckComplete(b *bean.Bean, required ...string) error {
	if b == nil {
		return bean.ErrNilBean
	}

	exported := b.Export()
	for _, key := range required {
		v, ok := exported[key]
		if !ok || v == nil {
			return &ValidationError{Rule: RuleIncomplete, Field: key}
		}
		if err := c.validate.Var(v, "required"); err != nil {
			return &ValidationError{Rule: RuleIncomplete, Field: key}
		}
	}
	return nil
}

// CheckUnique verifies that no other bean of the same kind already holds
// any of the bean's values for the given fields, failing with a
// ValidationError naming the first field with a pre-existing match. A
// match with the bean's own id does not count.
func (c *Client) CheckUnique(ctx context.Context, b *bean.Bean, unique ...string) error {
	if b == nil {
		return bean.ErrNilBean
	}

	exported := filter.Strip(b.Export(), unique...)
	for _, key := range unique {
		v, ok := exported[key]
		if !ok {
			continue
		}
		if !fieldPattern.MatchString(key) {
			return fmt.Errorf("check unique %s: invalid field name %q", b, key)
		}

		existing, err := c.store.FindOne(ctx, b.Kind(), key+" = ?", v)
		if err != nil {
			return fmt.Errorf("check unique %s.%s: %w", b, key, err)
		}
		if existing != nil && existing.ID() != b.ID() {
			return &ValidationError{Rule: RuleUnique, Field: key}
		}
	}
	return nil
}
