package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a"}, CSV("a"))
	assert.Equal(t, []string{"a", "b"}, CSV("a, b"))
	assert.Equal(t, []string{"a", "b"}, CSV(" a ,, b ,"))
}

func TestEnvDefault(t *testing.T) {
	t.Setenv("FAAXIS_TEST_ENV", "set")

	assert.Equal(t, "set", EnvDefault("FAAXIS_TEST_ENV", "fallback"))
	assert.Equal(t, "fallback", EnvDefault("FAAXIS_TEST_ENV_MISSING", "fallback"))
}

func TestLoad_CookieSecureDefaultsOn(t *testing.T) {
	t.Setenv("COOKIE_SECURE", "")
	cfg := Load()
	assert.True(t, cfg.CookieSecure)

	t.Setenv("COOKIE_SECURE", "false")
	cfg = Load()
	assert.False(t, cfg.CookieSecure)
}
