// Package bean4go is a convenience layer for schemaless "bean" records
// on top of GORM: create/read/update with input filtering, relationship
// wiring with conflict detection, validation helpers, and optional
// Redis read-through caching.
package bean4go

import (
	"github.com/rs/zerolog"

	"github.com/ammar0144/bean4go/pkg/bean"
	"github.com/ammar0144/bean4go/pkg/config"
	"github.com/ammar0144/bean4go/pkg/crud"
	"github.com/ammar0144/bean4go/pkg/db"
	"github.com/ammar0144/bean4go/pkg/redis"
	"github.com/ammar0144/bean4go/pkg/store"
)

// Bean is a single schemaless record of a named kind
type Bean = bean.Bean

// Storer is the persistence capability interface
type Storer = bean.Storer

// Client is the CRUD and relationship facade
type Client = crud.Client

// Kind identifies a relationship's cardinality and direction
type Kind = crud.Kind

// Relation kinds accepted by Client.Associate
const (
	OneToOne   = crud.OneToOne
	OneToMany  = crud.OneToMany
	ManyToMany = crud.ManyToMany
	BelongsTo  = crud.BelongsTo
)

// Config is the root configuration object
type Config = config.Config

// DBConfig represents database configuration
type DBConfig = db.Config

// RedisConfig represents Redis cache configuration
type RedisConfig = redis.Config

// LoadConfig loads configuration from a YAML file and the environment
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// NewManager creates a new database manager
func NewManager(cfg *DBConfig) (*db.Manager, error) {
	return db.NewManager(cfg)
}

// NewRedisManager creates a new Redis cache manager
func NewRedisManager(cfg *RedisConfig) (*redis.Manager, error) {
	return redis.NewManager(cfg)
}

// NewGORMStore creates the database-backed bean store
func NewGORMStore(manager *db.Manager) *store.GORM {
	return store.NewGORM(manager)
}

// NewMemoryStore creates an in-memory bean store, useful for tests
func NewMemoryStore() *store.Memory {
	return store.NewMemory()
}

// NewCachedStore wraps another store with a Redis read-through cache
func NewCachedStore(inner Storer, cache *redis.Manager) *store.Cached {
	return store.NewCached(inner, cache)
}

// NewClient creates the facade over the given store
func NewClient(s Storer) *Client {
	return crud.NewClient(s)
}

// NewClientWithLogger creates the facade with debug logging
func NewClientWithLogger(s Storer, log zerolog.Logger) *Client {
	return crud.NewClientWithLogger(s, log)
}
