package db

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	c := &Config{
		Host:     "localhost",
		Database: "beans",
		Username: "root",
		Password: "secret",
	}
	c.ApplyDefaults()
	return c
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	c := validConfig()
	c.Host = ""
	assert.Error(t, c.Validate())

	c = validConfig()
	c.Port = 70000
	assert.Error(t, c.Validate())

	c = validConfig()
	c.MaxIdleConns = c.MaxOpenConns + 1
	assert.Error(t, c.Validate())

	c = validConfig()
	c.TLSMode = "bogus"
	assert.Error(t, c.Validate())
}

func TestApplyDefaults(t *testing.T) {
	c := &Config{Host: "localhost", Database: "beans", Username: "root"}
	c.ApplyDefaults()

	assert.Equal(t, 3306, c.Port)
	assert.Equal(t, "utf8mb4", c.Charset)
	assert.Equal(t, "UTC", c.TimeZone)
	assert.Equal(t, 25, c.MaxOpenConns)
	assert.Equal(t, 30*time.Second, c.QueryTimeout)
}

func TestGetDSN(t *testing.T) {
	c := validConfig()
	dsn := c.GetDSN()

	assert.True(t, strings.HasPrefix(dsn, "root:secret@tcp(localhost:3306)/beans"), dsn)
	assert.Contains(t, dsn, "parseTime=true")

	c.TLSMode = "skip-verify"
	assert.Contains(t, c.GetDSN(), "tls=skip-verify")
}
