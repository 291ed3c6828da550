// Package store contains the Storer implementations: the GORM/MySQL
// backed store, a mutex-guarded in-memory store for tests and embedding,
// and a Redis read-through caching decorator.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ammar0144/bean4go/pkg/bean"
	"github.com/ammar0144/bean4go/pkg/db"
)

// mysqlTableMissing is MySQL error 1146 (ER_NO_SUCH_TABLE). Link tables
// are created lazily, so a missing one just means "never related".
const mysqlTableMissing = 1146

// GORM is the database-backed Storer. Reads go through GORM's map
// scanning; writes go through the SQL builder against the raw sql.DB so
// MySQL's LastInsertId backfills bean identities.
type GORM struct {
	manager *db.Manager
	db      *gorm.DB
	log     zerolog.Logger
}

// NewGORM creates a Storer backed by the given database manager
func NewGORM(manager *db.Manager) *GORM {
	return &GORM{
		manager: manager,
		db:      manager.DB(),
		log:     zerolog.Nop(),
	}
}

// WithLogger returns a copy of the store using the given logger
func (s *GORM) WithLogger(log zerolog.Logger) *GORM {
	out := *s
	out.log = log
	return &out
}

// withQueryTimeout wraps a context with the configured query timeout
func (s *GORM) withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.manager != nil && s.manager.Config() != nil {
		if timeout := s.manager.Config().QueryTimeout; timeout > 0 {
			return context.WithTimeout(ctx, timeout)
		}
	}
	return ctx, func() {}
}

// Dispense creates a new unsaved bean of the given kind
func (s *GORM) Dispense(kind string) (*bean.Bean, error) {
	return bean.New(kind)
}

// Load fetches a bean by id. A missing row yields an empty bean with
// id 0, not an error.
func (s *GORM) Load(ctx context.Context, kind string, id int64) (*bean.Bean, error) {
	b, err := bean.New(kind)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	var row map[string]any
	result := s.db.WithContext(ctx).Table(kind).Where("id = ?", id).Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return b, nil
		}
		return nil, fmt.Errorf("load %s#%d: %w", kind, id, result.Error)
	}

	b.Hydrate(rowID(row), row)
	return b, nil
}

// Store persists the bean and serializes its owned collections: every
// child receives the owner's foreign key and is stored in turn.
func (s *GORM) Store(ctx context.Context, b *bean.Bean) error {
	if b == nil {
		return bean.ErrNilBean
	}

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	builder, err := db.NewBuilder(b.Kind())
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	sqlDB, err := s.manager.SqlDB()
	if err != nil {
		return fmt.Errorf("store %s: %w", b.Kind(), err)
	}

	if b.ID() == 0 {
		query, args, err := builder.BuildInsert(b.Export())
		if err != nil {
			return fmt.Errorf("store %s: %w", b.Kind(), err)
		}
		result, err := sqlDB.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("store %s: %w", b.Kind(), err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("store %s: %w", b.Kind(), err)
		}
		b.MarkStored(id)
		s.log.Debug().Str("kind", b.Kind()).Int64("id", id).Msg("bean inserted")
	} else if b.IsDirty() {
		query, args, err := builder.BuildUpdate(b.Export(), b.ID())
		if err != nil {
			return fmt.Errorf("store %s#%d: %w", b.Kind(), b.ID(), err)
		}
		if _, err := sqlDB.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("store %s#%d: %w", b.Kind(), b.ID(), err)
		}
		b.MarkStored(b.ID())
		s.log.Debug().Str("kind", b.Kind()).Int64("id", b.ID()).Msg("bean updated")
	}

	return s.storeOwned(ctx, b)
}

// storeOwned persists the bean's owned collections, wiring the owner's
// foreign key into each child first.
func (s *GORM) storeOwned(ctx context.Context, owner *bean.Bean) error {
	fk := owner.Kind() + "_id"
	for _, kind := range owner.OwnedKinds() {
		for _, child := range owner.Owned(kind) {
			if v, ok := child.Get(fk); !ok || toInt64(v) != owner.ID() {
				child.Set(fk, owner.ID())
			}
			if child.ID() == 0 || child.IsDirty() {
				if err := s.Store(ctx, child); err != nil {
					return fmt.Errorf("store owned %s of %s: %w", kind, owner, err)
				}
			}
		}
	}
	return nil
}

// FindOne returns the first bean matching the where clause, nil when
// nothing matches.
func (s *GORM) FindOne(ctx context.Context, kind, where string, args ...any) (*bean.Bean, error) {
	if !bean.ValidKind(kind) {
		return nil, fmt.Errorf("%w: %q", bean.ErrInvalidKind, kind)
	}

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	var row map[string]any
	result := s.db.WithContext(ctx).Table(kind).Where(where, args...).Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) || isTableMissing(result.Error) {
			return nil, nil
		}
		return nil, fmt.Errorf("find one %s: %w", kind, result.Error)
	}

	b, err := bean.New(kind)
	if err != nil {
		return nil, err
	}
	b.Hydrate(rowID(row), row)
	return b, nil
}

// RelatedOne returns the bean of the given kind linked to b through the
// pair's link table, nil when none is linked.
func (s *GORM) RelatedOne(ctx context.Context, b *bean.Bean, kind string) (*bean.Bean, error) {
	if b == nil {
		return nil, bean.ErrNilBean
	}
	if !bean.ValidKind(kind) {
		return nil, fmt.Errorf("%w: %q", bean.ErrInvalidKind, kind)
	}
	if b.ID() == 0 {
		return nil, nil
	}

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	table, ownCol, otherCol := linkColumns(b.Kind(), kind)

	id, ok, err := s.linkCounterpart(ctx, table, ownCol, otherCol, b.ID())
	if err != nil {
		return nil, err
	}
	if !ok && b.Kind() == kind {
		// Same-kind links may be stored in the opposite orientation
		id, ok, err = s.linkCounterpart(ctx, table, otherCol, ownCol, b.ID())
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, nil
	}

	related, err := s.Load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if related.ID() == 0 {
		return nil, nil
	}
	return related, nil
}

func (s *GORM) linkCounterpart(ctx context.Context, table, matchCol, wantCol string, id int64) (int64, bool, error) {
	var row map[string]any
	result := s.db.WithContext(ctx).Table(table).Where(matchCol+" = ?", id).Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) || isTableMissing(result.Error) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("link lookup %s: %w", table, result.Error)
	}
	return toInt64(row[wantCol]), true, nil
}

// AreRelated reports whether a link-table row connects the two beans
func (s *GORM) AreRelated(ctx context.Context, a, b *bean.Bean) (bool, error) {
	if a == nil || b == nil {
		return false, bean.ErrNilBean
	}
	if a.ID() == 0 || b.ID() == 0 {
		return false, nil
	}

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	table, aCol, bCol := linkColumns(a.Kind(), b.Kind())

	var count int64
	result := s.db.WithContext(ctx).Table(table).
		Where(aCol+" = ? AND "+bCol+" = ?", a.ID(), b.ID()).
		Count(&count)
	if result.Error != nil {
		if isTableMissing(result.Error) {
			return false, nil
		}
		return false, fmt.Errorf("are related %s: %w", table, result.Error)
	}
	if count > 0 {
		return true, nil
	}

	if a.Kind() == b.Kind() {
		result = s.db.WithContext(ctx).Table(table).
			Where(aCol+" = ? AND "+bCol+" = ?", b.ID(), a.ID()).
			Count(&count)
		if result.Error != nil {
			return false, fmt.Errorf("are related %s: %w", table, result.Error)
		}
		return count > 0, nil
	}

	return false, nil
}

// Associate records a bidirectional link between the two beans, creating
// the link table on first use and storing unsaved operands first.
func (s *GORM) Associate(ctx context.Context, a, b *bean.Bean) error {
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

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	table, aCol, bCol := linkColumns(a.Kind(), b.Kind())

	ddl, err := db.BuildLinkDDL(table, aCol, bCol)
	if err != nil {
		return fmt.Errorf("associate: %w", err)
	}

	sqlDB, err := s.manager.SqlDB()
	if err != nil {
		return fmt.Errorf("associate %s: %w", table, err)
	}
	if _, err := sqlDB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("associate %s: %w", table, err)
	}

	// Idempotent at the row level via the link table's unique key
	insert := fmt.Sprintf("INSERT IGNORE INTO %s (%s, %s) VALUES (?, ?)", table, aCol, bCol)
	if _, err := sqlDB.ExecContext(ctx, insert, a.ID(), b.ID()); err != nil {
		return fmt.Errorf("associate %s: %w", table, err)
	}

	s.log.Debug().Str("link", table).Int64("a", a.ID()).Int64("b", b.ID()).Msg("beans associated")
	return nil
}

// linkColumns returns the link table and the foreign key columns holding
// the first and second operand's id respectively. Same-kind pairs use a
// "2" suffix on the second column.
func linkColumns(aKind, bKind string) (table, aCol, bCol string) {
	table = bean.LinkTable(aKind, bKind)
	aCol = aKind + "_id"
	bCol = bKind + "_id"
	if aKind == bKind {
		bCol = bKind + "2_id"
	}
	return table, aCol, bCol
}

// isTableMissing reports whether err is MySQL's "table doesn't exist"
func isTableMissing(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlTableMissing
}

// rowID extracts the numeric id from a scanned row
func rowID(row map[string]any) int64 {
	return toInt64(row["id"])
}

// toInt64 normalizes the numeric types MySQL scanning can produce
func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	case uint32:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		parsed, _ := strconv.ParseInt(n, 10, 64)
		return parsed
	case []byte:
		parsed, _ := strconv.ParseInt(string(n), 10, 64)
		return parsed
	default:
		return 0
	}
}
