package bean

import "context"

// Storer is the capability interface a persistence backend must provide.
// The CRUD facade and the association dispatcher are written entirely
// against this interface, so a fake implementation can stand in for the
// real database in tests.
type Storer interface {
	// Dispense creates a new unsaved bean of the given kind.
	// Fails with ErrInvalidKind for malformed kind names.
	Dispense(kind string) (*Bean, error)

	// Load fetches a bean by id. A missing row is not an error: the
	// returned bean has id 0 and no fields. Callers that need a hard
	// failure on absence should check ID() (the CRUD facade does).
	Load(ctx context.Context, kind string, id int64) (*Bean, error)

	// Store persists the bean, assigning an id on first write and
	// clearing the dirty flag. Owned collections are serialized too:
	// each child receives a "<ownerKind>_id" foreign key and is stored.
	Store(ctx context.Context, b *Bean) error

	// FindOne returns the first bean of the kind matching the where
	// clause ("name = ?" style, '?' placeholders), or nil when nothing
	// matches.
	FindOne(ctx context.Context, kind, where string, args ...any) (*Bean, error)

	// RelatedOne returns the single bean of the given kind linked to b
	// through the pair's link table, or nil when none is linked.
	RelatedOne(ctx context.Context, b *Bean, kind string) (*Bean, error)

	// AreRelated reports whether a link-table row connects the two beans.
	AreRelated(ctx context.Context, a, b *Bean) (bool, error)

	// Associate records a bidirectional link between the two beans,
	// storing either one first if it has no id yet. Linking an already
	// linked pair is a no-op at this level; conflict detection belongs
	// to the association dispatcher.
	Associate(ctx context.Context, a, b *Bean) error
}

// LinkTable returns the canonical link-table name for two kinds: the
// kind names sorted and joined with an underscore, so the table is the
// same whichever operand comes first.
func LinkTable(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}
