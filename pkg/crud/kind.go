// Package crud is the convenience facade for working with beans: input
// filtering, create/read/update, relationship wiring with conflict
// detection, and business-rule validation. Everything is written against
// the bean.Storer capability interface, so any store implementation
// works, including the in-memory one in tests.
package crud

// Kind identifies the cardinality and direction of a relationship
// between two bean kinds.
type Kind int

const (
	// KindUnknown is the zero value; dispatching it always fails
	KindUnknown Kind = iota
	// OneToOne links exactly one bean of each kind via the link table
	OneToOne
	// OneToMany appends the related bean into the record's owned collection
	OneToMany
	// ManyToMany links the two beans via the link table
	ManyToMany
	// BelongsTo appends the record into the related bean's owned collection
	BelongsTo
)

func (k Kind) String() string {
	switch k {
	case OneToOne:
		return "one-to-one"
	case OneToMany:
		return "one-to-many"
	case ManyToMany:
		return "many-to-many"
	case BelongsTo:
		return "belongs-to"
	default:
		return "unknown"
	}
}
