package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"port too low", func(c *Config) { c.port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.port = 70000 }, "invalid port"},
		{"tls cert only", func(c *Config) { c.tlsCert = "cert.pem" }, "--tls-cert and --tls-key"},
		{"no categories", func(c *Config) { c.categories = 0 }, "invalid category count"},
		{"no clues", func(c *Config) { c.clues = 0 }, "invalid clue count"},
		{"no timeout", func(c *Config) { c.apiTimeout = 0 }, "invalid api timeout"},
		{"relative api url", func(c *Config) { c.apiURL = "jservice.io/api" }, "must be absolute"},
		{"bad api url", func(c *Config) { c.apiURL = "http://[::1" }, "invalid api url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)

			err := cfg.validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCommandDefaults(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)

	assert.Equal(t, "jeopardy", cmd.Use)
	assert.Equal(t, 6, cfg.categories)
	assert.Equal(t, 5, cfg.clues)
	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, 10*time.Second, cfg.apiTimeout)
	assert.Equal(t, 60*time.Minute, cfg.sessionTimeout)

	board, _, err := cmd.Find([]string{"board"})
	require.NoError(t, err)
	assert.Equal(t, "board", board.Name())

	format := board.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "f", format.Shorthand)
	assert.Equal(t, "text", format.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("api-url"))
	require.NotNil(t, cmd.Flags().Lookup("port"))
}

func TestCommandReadsEnvironment(t *testing.T) {
	t.Setenv("JEOPARDY_CATEGORIES", "4")
	t.Setenv("JEOPARDY_API_URL", "http://localhost:3000")
	t.Setenv("JEOPARDY_SESSION_TIMEOUT", "5m")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 4, cfg.categories)
	assert.Equal(t, "http://localhost:3000", cfg.apiURL)
	assert.Equal(t, 5*time.Minute, cfg.sessionTimeout)
}

func TestCommandFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("JEOPARDY_CLUES", "3")

	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"--clues", "7"}))

	assert.Equal(t, 7, cfg.clues)
}
