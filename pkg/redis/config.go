package redis

import (
	"fmt"
	"time"
)

// Config holds Redis cache configuration
type Config struct {
	Enabled  bool   `json:"enabled" yaml:"enabled" koanf:"enabled"`
	Host     string `json:"host" yaml:"host" koanf:"host"`
	Port     int    `json:"port" yaml:"port" koanf:"port"`
	Password string `json:"password" yaml:"password" koanf:"password"`
	Database int    `json:"database" yaml:"database" koanf:"database"`

	// Connection Pool Settings
	PoolSize     int           `json:"pool_size" yaml:"pool_size" koanf:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns" yaml:"min_idle_conns" koanf:"min_idle_conns"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout" koanf:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" koanf:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" koanf:"write_timeout"`

	// TTL applied to cached entries; 0 means no expiry
	TTL time.Duration `json:"ttl" yaml:"ttl" koanf:"ttl"`
}

// Validate checks if the Redis configuration is valid
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("redis host is required when cache is enabled")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("redis port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Database < 0 || c.Database > 15 {
		return fmt.Errorf("redis database must be between 0 and 15, got %d", c.Database)
	}
	return nil
}

// ApplyDefaults fills in zero-valued optional settings
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
}

// GetAddr returns the Redis address in host:port format
func (c *Config) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
