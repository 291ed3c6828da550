package crud

import (
	"context"
	"fmt"

	"github.com/ammar0144/bean4go/pkg/bean"
)

// Associate wires a relationship of the given kind between a and b,
// failing with a RelationError when an equivalent relation is already
// observable. After a conflict-free dispatch, each operand is persisted
// individually iff it is dirty at that point.
//
// The check-then-act sequence is not transactional; with a shared store
// and concurrent callers the existence check can race. See DESIGN.md.
func (c *Client) Associate(ctx context.Context, a, b *bean.Bean, kind Kind) error {
	if a == nil || b == nil {
		return bean.ErrNilBean
	}

	switch kind {
	case OneToOne:
		if err := c.associateOneToOne(ctx, a, b); err != nil {
			return err
		}
	case OneToMany:
		if a.Owns(b) {
			return &RelationError{Rel: OneToMany}
		}
		a.AddOwned(b)
	case ManyToMany:
		related, err := c.store.AreRelated(ctx, a, b)
		if err != nil {
			return fmt.Errorf("associate %s %s/%s: %w", kind, a, b, err)
		}
		if related {
			return &RelationError{Rel: ManyToMany}
		}
		if err := c.store.Associate(ctx, a, b); err != nil {
			return fmt.Errorf("associate %s %s/%s: %w", kind, a, b, err)
		}
	case BelongsTo:
		if a.HasParentRef(b.Kind()) || b.Owns(a) {
			return &RelationError{Rel: BelongsTo}
		}
		b.AddOwned(a)
		a.SetParent(b)
	default:
		return &RelationError{Rel: KindUnknown}
	}

	c.log.Debug().Stringer("kind", kind).Stringer("a", a).Stringer("b", b).Msg("relation dispatched")

	if a.IsDirty() {
		if err := c.store.Store(ctx, a); err != nil {
			return fmt.Errorf("persist %s after %s dispatch: %w", a, kind, err)
		}
	}
	if b.IsDirty() {
		if err := c.store.Store(ctx, b); err != nil {
			return fmt.Errorf("persist %s after %s dispatch: %w", b, kind, err)
		}
	}
	return nil
}

// associateOneToOne fails when either side already has a one-to-one
// counterpart of the other's kind, then links the pair.
func (c *Client) associateOneToOne(ctx context.Context, a, b *bean.Bean) error {
	existing, err := c.store.RelatedOne(ctx, a, b.Kind())
	if err != nil {
		return fmt.Errorf("associate one-to-one %s/%s: %w", a, b, err)
	}
	if existing == nil {
		existing, err = c.store.RelatedOne(ctx, b, a.Kind())
		if err != nil {
			return fmt.Errorf("associate one-to-one %s/%s: %w", a, b, err)
		}
	}
	if existing != nil {
		return &RelationError{Rel: OneToOne}
	}

	if err := c.store.Associate(ctx, a, b); err != nil {
		return fmt.Errorf("associate one-to-one %s/%s: %w", a, b, err)
	}
	return nil
}
