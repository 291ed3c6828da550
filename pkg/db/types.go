package db

import (
	"time"

	"gorm.io/gorm"
)

// Config holds MySQL/GORM database configuration
type Config struct {
	// Connection Settings
	Host     string `json:"host" yaml:"host" koanf:"host" validate:"required"`
	Port     int    `json:"port" yaml:"port" koanf:"port"`
	Database string `json:"database" yaml:"database" koanf:"database" validate:"required"`
	Username string `json:"username" yaml:"username" koanf:"username" validate:"required"`
	Password string `json:"password" yaml:"password" koanf:"password"`

	// Connection Pool Settings
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns" koanf:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns" koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime" koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" yaml:"conn_max_idle_time" koanf:"conn_max_idle_time"`

	// MySQL Specific Settings
	Charset   string `json:"charset" yaml:"charset" koanf:"charset"`       // Default: utf8mb4
	Collation string `json:"collation" yaml:"collation" koanf:"collation"` // Default: utf8mb4_unicode_ci
	TimeZone  string `json:"timezone" yaml:"timezone" koanf:"timezone"`    // Default: UTC

	// GORM Settings
	SkipDefaultTransaction bool          `json:"skip_default_transaction" yaml:"skip_default_transaction" koanf:"skip_default_transaction"`
	PrepareStmt            bool          `json:"prepare_stmt" yaml:"prepare_stmt" koanf:"prepare_stmt"`
	QueryTimeout           time.Duration `json:"query_timeout" yaml:"query_timeout" koanf:"query_timeout"`

	// TLS mode passed through to the MySQL driver: "", "true",
	// "skip-verify" or "preferred"
	TLSMode string `json:"tls_mode" yaml:"tls_mode" koanf:"tls_mode"`

	// Logging Configuration
	LogLevel string `json:"log_level" yaml:"log_level" koanf:"log_level"` // silent, error, warn, info
}

// Manager manages the database connection
type Manager struct {
	config *Config
	db     *gorm.DB
}
