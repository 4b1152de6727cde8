package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeout(t *testing.T) {
	assert.Equal(t, 10*time.Second, parseTimeout(""))
	assert.Equal(t, 10*time.Second, parseTimeout("garbage"))
	assert.Equal(t, 10*time.Second, parseTimeout("-5s"))
	assert.Equal(t, 3*time.Second, parseTimeout("3s"))
	assert.Equal(t, 1500*time.Millisecond, parseTimeout("1.5s"))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "tokoria")
	t.Setenv("GATEWAY_TIMEOUT", "2s")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "tokoria", cfg.DBName)
	assert.Equal(t, 2*time.Second, cfg.GatewayTimeout)
}
