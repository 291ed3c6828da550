package store

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/ammar0144/bean4go/pkg/bean"
)

// whereEquality is the only clause shape the in-memory store evaluates.
// That covers everything the facade itself issues (uniqueness checks).
var whereEquality = regexp.MustCompile(`^\s*([a-z][a-z0-9_]*)\s*=\s*\?\s*$`)

// Memory is an in-memory Storer. It backs tests as the substitute for
// the database-backed store and is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]map[int64]map[string]any
	nextID map[string]int64
	links  map[string]map[[2]int64]struct{}
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		tables: make(map[string]map[int64]map[string]any),
		nextID: make(map[string]int64),
		links:  make(map[string]map[[2]int64]struct{}),
	}
}

// Dispense creates a new unsaved bean of the given kind
func (s *Memory) Dispense(kind string) (*bean.Bean, error) {
	return bean.New(kind)
}

// Load fetches a bean by id; a missing row yields an empty bean with id 0
func (s *Memory) Load(ctx context.Context, kind string, id int64) (*bean.Bean, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := bean.New(kind)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	row, ok := s.tables[kind][id]
	if ok {
		row = copyRow(row)
	}
	s.mu.RUnlock()

	if ok {
		b.Hydrate(id, row)
	}
	return b, nil
}

// Store persists the bean and serializes its owned collections
func (s *Memory) Store(ctx context.Context, b *bean.Bean) error {
	if b == nil {
		return bean.ErrNilBean
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if b.ID() == 0 {
		s.nextID[b.Kind()]++
		b.MarkStored(s.nextID[b.Kind()])
	} else {
		b.MarkStored(b.ID())
	}
	if s.tables[b.Kind()] == nil {
		s.tables[b.Kind()] = make(map[int64]map[string]any)
	}
	s.tables[b.Kind()][b.ID()] = copyRow(b.Export())
	s.mu.Unlock()

	fk := b.Kind() + "_id"
	for _, kind := range b.OwnedKinds() {
		for _, child := range b.Owned(kind) {
			if v, ok := child.Get(fk); !ok || toInt64(v) != b.ID() {
				child.Set(fk, b.ID())
			}
			if child.ID() == 0 || child.IsDirty() {
				if err := s.Store(ctx, child); err != nil {
					return fmt.Errorf("store owned %s of %s: %w", kind, b, err)
				}
			}
		}
	}
	return nil
}

// FindOne returns the first bean matching a single-column equality
// clause ("name = ?"), nil when nothing matches. Rows are scanned in id
// order so results are deterministic.
func (s *Memory) FindOne(ctx context.Context, kind, where string, args ...any) (*bean.Bean, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !bean.ValidKind(kind) {
		return nil, fmt.Errorf("%w: %q", bean.ErrInvalidKind, kind)
	}

	m := whereEquality.FindStringSubmatch(where)
	if m == nil {
		return nil, fmt.Errorf("memory store: unsupported where clause %q", where)
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("memory store: expected 1 argument for %q, got %d", where, len(args))
	}
	col, want := m[1], args[0]

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.tables[kind]
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if valuesEqual(rows[id][col], want) {
			b, err := bean.New(kind)
			if err != nil {
				return nil, err
			}
			b.Hydrate(id, copyRow(rows[id]))
			return b, nil
		}
	}
	return nil, nil
}

// RelatedOne returns the bean of the given kind linked to b, nil when
// none is linked.
func (s *Memory) RelatedOne(ctx context.Context, b *bean.Bean, kind string) (*bean.Bean, error) {
	if b == nil {
		return nil, bean.ErrNilBean
	}
	if !bean.ValidKind(kind) {
		return nil, fmt.Errorf("%w: %q", bean.ErrInvalidKind, kind)
	}
	if b.ID() == 0 {
		return nil, nil
	}

	table := bean.LinkTable(b.Kind(), kind)
	first := b.Kind() <= kind

	s.mu.RLock()
	var relatedID int64
	for pair := range s.links[table] {
		if first && pair[0] == b.ID() {
			relatedID = pair[1]
			break
		}
		if !first && pair[1] == b.ID() {
			relatedID = pair[0]
			break
		}
		if b.Kind() == kind && pair[1] == b.ID() {
			relatedID = pair[0]
			break
		}
	}
	s.mu.RUnlock()

	if relatedID == 0 {
		return nil, nil
	}
	related, err := s.Load(ctx, kind, relatedID)
	if err != nil {
		return nil, err
	}
	if related.ID() == 0 {
		return nil, nil
	}
	return related, nil
}

// AreRelated reports whether the two beans are linked
func (s *Memory) AreRelated(ctx context.Context, a, b *bean.Bean) (bool, error) {
	if a == nil || b == nil {
		return false, bean.ErrNilBean
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a.ID() == 0 || b.ID() == 0 {
		return false, nil
	}

	table := bean.LinkTable(a.Kind(), b.Kind())
	pair := orientPair(a, b)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.links[table][pair]; ok {
		return true, nil
	}
	if a.Kind() == b.Kind() {
		_, ok := s.links[table][[2]int64{pair[1], pair[0]}]
		return ok, nil
	}
	return false, nil
}

// Associate records a bidirectional link, storing unsaved operands first
func (s *Memory) Associate(ctx context.Context, a, b *bean.Bean) error {
	if a == nil || b == nil {
		return bean.ErrNilBean
	}

	if a.ID() == 0 {
		if err := s.Store(ctx, a); err != nil {
			return err
		}
	}
	if b.ID() == 0 {
		if err := s.Store(ctx, b); err != nil {
			return err
		}
	}

	table := bean.LinkTable(a.Kind(), b.Kind())
	pair := orientPair(a, b)

	s.mu.Lock()
	if s.links[table] == nil {
		s.links[table] = make(map[[2]int64]struct{})
	}
	s.links[table][pair] = struct{}{}
	s.mu.Unlock()
	return nil
}

// orientPair orders the two ids to match the link table's column order:
// the id of the lexically smaller kind comes first.
func orientPair(a, b *bean.Bean) [2]int64 {
	if a.Kind() <= b.Kind() {
		return [2]int64{a.ID(), b.ID()}
	}
	return [2]int64{b.ID(), a.ID()}
}

func copyRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// valuesEqual compares a stored value with a query argument, tolerating
// the int width mismatches that come from literal test data.
func valuesEqual(stored, want any) bool {
	if stored == want {
		return true
	}
	si, wi := toInt64(stored), toInt64(want)
	if si != 0 || wi != 0 {
		return si == wi
	}
	return fmt.Sprintf("%v", stored) == fmt.Sprintf("%v", want)
}
