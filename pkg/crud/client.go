package crud

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ammar0144/bean4go/pkg/bean"
	"github.com/ammar0144/bean4go/pkg/filter"
)

// Client is the facade entry point. It holds the Storer it operates on
// so a fake store can stand in during tests; there is no global state.
type Client struct {
	store    bean.Storer
	log      zerolog.Logger
	validate *validator.Validate
}

// NewClient creates a facade over the given store
func NewClient(store bean.Storer) *Client {
	return NewClientWithLogger(store, zerolog.Nop())
}

// NewClientWithLogger creates a facade over the given store using the
// given logger for debug output
func NewClientWithLogger(store bean.Storer, log zerolog.Logger) *Client {
	return &Client{
		store:    store,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Store exposes the underlying Storer for callers that need direct
// access (persisting a bean the facade handed out, for example).
func (c *Client) Store() bean.Storer {
	return c.store
}

// Create dispenses a new bean of the given kind and imports data into
// it. Fields named in drop are excluded first. The bean is returned
// unsaved; persistence is the caller's explicit step.
//
// Fails with ErrNotAssociative when data has no named keys.
func (c *Client) Create(kind string, data map[string]any, drop ...string) (*bean.Bean, error) {
	if !filter.IsAssociative(data) {
		return nil, fmt.Errorf("create %s: %w", kind, ErrNotAssociative)
	}
	if len(drop) > 0 {
		data = filter.Exclude(data, drop...)
	}

	b, err := c.store.Dispense(kind)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	b.Import(data)
	return b, nil
}

// Read loads a bean by id. A missing row fails with a CrudError wrapping
// bean.ErrRecordNotFound.
func (c *Client) Read(ctx context.Context, kind string, id int64) (*bean.Bean, error) {
	b, err := c.store.Load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if b.ID() == 0 {
		return nil, &CrudError{Op: OpRead, Kind: kind, ID: id, Err: bean.ErrRecordNotFound}
	}
	return b, nil
}

// Update imports data into an already-loaded bean, applying the same
// filtering as Create. The bean is not persisted; the caller stores it
// explicitly.
func (c *Client) Update(b *bean.Bean, data map[string]any, drop ...string) (*bean.Bean, error) {
	if b == nil {
		return nil, bean.ErrNilBean
	}
	if !filter.IsAssociative(data) {
		return nil, fmt.Errorf("update %s: %w", b, ErrNotAssociative)
	}
	if len(drop) > 0 {
		data = filter.Exclude(data, drop...)
	}
	b.Import(data)
	return b, nil
}

// Relate resolves and wires relationships named in rels, which maps a
// related kind name to a relation kind. For each entry whose "<kind>_id"
// key is present in data, the related bean is loaded by that id and
// dispatched through Associate. Loader and dispatcher failures
// propagate.
func (c *Client) Relate(ctx context.Context, b *bean.Bean, data map[string]any, rels map[string]Kind) error {
	if b == nil {
		return bean.ErrNilBean
	}
	if !filter.IsAssociative(data) {
		return fmt.Errorf("relate %s: %w", b, ErrNotAssociative)
	}

	// Deterministic dispatch order
	names := make([]string, 0, len(rels))
	for name := range rels {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw, ok := data[name+"_id"]
		if !ok {
			continue
		}
		id, err := toID(raw)
		if err != nil {
			return fmt.Errorf("relate %s to %s: %w", b, name, err)
		}
		related, err := c.Read(ctx, name, id)
		if err != nil {
			return err
		}
		if err := c.Associate(ctx, b, related, rels[name]); err != nil {
			return err
		}
	}
	return nil
}

// toID coerces the id value shapes that arrive in raw data mappings
func toID(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed id %q", n)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("unsupported id type %T", v)
	}
}
