// Package bean defines the schemaless record abstraction and the Storer
// capability interface that persistence backends implement.
//
// A Bean is one row of a named kind ("user", "order", ...) carried as a
// field mapping instead of a struct. Related beans are held in explicit
// owned collections and parent references keyed by kind name, so no
// naming-convention magic is involved.
package bean

import (
	"fmt"
	"regexp"
	"sort"
)

// kindPattern restricts kind names to safe SQL identifiers. Kind names
// become table names, so anything outside this set is rejected up front.
var kindPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidKind reports whether kind is an acceptable bean kind name.
func ValidKind(kind string) bool {
	return kindPattern.MatchString(kind)
}

// Bean is a single record of a named kind. The zero value is not usable;
// obtain beans through a Storer's Dispense or Load.
type Bean struct {
	kind   string
	id     int64
	fields map[string]any
	meta   map[string]any
	owned  map[string][]*Bean
	parent map[string]*Bean
	dirty  bool
}

// New creates an unsaved bean of the given kind. It fails with
// ErrInvalidKind if the kind is not a valid identifier.
func New(kind string) (*Bean, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return &Bean{
		kind:   kind,
		fields: make(map[string]any),
		meta:   make(map[string]any),
		owned:  make(map[string][]*Bean),
		parent: make(map[string]*Bean),
	}, nil
}

// Kind returns the bean's kind (table) name.
func (b *Bean) Kind() string { return b.kind }

// ID returns the bean's numeric identity, 0 until persisted.
func (b *Bean) ID() int64 { return b.id }

// IsDirty reports whether the bean has unsaved field changes.
func (b *Bean) IsDirty() bool { return b.dirty }

// Get returns the value of a field and whether it is set.
func (b *Bean) Get(key string) (any, bool) {
	v, ok := b.fields[key]
	return v, ok
}

// Set assigns a field value and marks the bean dirty.
func (b *Bean) Set(key string, value any) {
	b.fields[key] = value
	b.dirty = true
}

// Unset removes a field and marks the bean dirty if it was present.
func (b *Bean) Unset(key string) {
	if _, ok := b.fields[key]; ok {
		delete(b.fields, key)
		b.dirty = true
	}
}

// Import bulk-assigns fields from the mapping, marking the bean dirty
// when the mapping is non-empty. The "id" key is ignored; identity is
// assigned by the store only.
func (b *Bean) Import(data map[string]any) {
	for k, v := range data {
		if k == "id" {
			continue
		}
		b.fields[k] = v
		b.dirty = true
	}
}

// Export returns a copy of the bean's field mapping. Persisted beans
// include their id under the "id" key. Mutating the returned map does
// not affect the bean.
func (b *Bean) Export() map[string]any {
	out := make(map[string]any, len(b.fields)+1)
	for k, v := range b.fields {
		out[k] = v
	}
	if b.id != 0 {
		out["id"] = b.id
	}
	return out
}

// FieldNames returns the bean's field names in sorted order.
func (b *Bean) FieldNames() []string {
	names := make([]string, 0, len(b.fields))
	for k := range b.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Meta returns a metadata value. Metadata never touches storage and does
// not affect the dirty flag.
func (b *Bean) Meta(key string) (any, bool) {
	v, ok := b.meta[key]
	return v, ok
}

// SetMeta stores a metadata value.
func (b *Bean) SetMeta(key string, value any) {
	b.meta[key] = value
}

// Owned returns the owned collection for the given child kind. The
// returned slice is the live collection; callers must treat it as
// read-only and use AddOwned to modify it.
func (b *Bean) Owned(kind string) []*Bean {
	return b.owned[kind]
}

// OwnsAny reports whether the bean has a non-empty owned collection for
// the given child kind.
func (b *Bean) OwnsAny(kind string) bool {
	return len(b.owned[kind]) > 0
}

// Owns reports whether child is already present in the owned collection
// for its kind. Presence is by pointer identity or, for persisted beans,
// by matching id.
func (b *Bean) Owns(child *Bean) bool {
	for _, c := range b.owned[child.kind] {
		if c == child {
			return true
		}
		if c.id != 0 && c.id == child.id {
			return true
		}
	}
	return false
}

// AddOwned appends child to the owned collection for its kind and marks
// the owner dirty. Duplicate checking is the caller's concern.
func (b *Bean) AddOwned(child *Bean) {
	b.owned[child.kind] = append(b.owned[child.kind], child)
	b.dirty = true
}

// OwnedKinds returns the kinds with non-empty owned collections, sorted.
func (b *Bean) OwnedKinds() []string {
	kinds := make([]string, 0, len(b.owned))
	for k, list := range b.owned {
		if len(list) > 0 {
			kinds = append(kinds, k)
		}
	}
	sort.Strings(kinds)
	return kinds
}

// Parent returns the parent reference of the given kind, nil when unset.
func (b *Bean) Parent(kind string) *Bean {
	return b.parent[kind]
}

// SetParent records a parent reference and the matching foreign key
// field, marking the bean dirty.
func (b *Bean) SetParent(p *Bean) {
	b.parent[p.kind] = p
	if p.id != 0 {
		b.fields[p.kind+"_id"] = p.id
	}
	b.dirty = true
}

// HasParentRef reports whether the bean already references a parent of
// the given kind, either as an explicit parent reference or through a
// non-empty "<kind>_id" foreign key field.
func (b *Bean) HasParentRef(kind string) bool {
	if b.parent[kind] != nil {
		return true
	}
	v, ok := b.fields[kind+"_id"]
	return ok && v != nil && v != int64(0) && v != 0
}

// MarkStored assigns the bean's identity and clears the dirty flag.
// Intended for Storer implementations after a successful write.
func (b *Bean) MarkStored(id int64) {
	if id != 0 {
		b.id = id
		b.fields["id"] = id
	}
	b.dirty = false
}

// Hydrate replaces the bean's fields with a row loaded from storage and
// leaves it clean. Intended for Storer implementations.
func (b *Bean) Hydrate(id int64, row map[string]any) {
	b.id = id
	b.fields = make(map[string]any, len(row))
	for k, v := range row {
		b.fields[k] = v
	}
	if id != 0 {
		b.fields["id"] = id
	}
	b.dirty = false
}

func (b *Bean) String() string {
	return fmt.Sprintf("%s#%d", b.kind, b.id)
}
