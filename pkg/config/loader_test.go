package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/portalsso/pkg/config"
)

type sample struct {
	Name    string        `env:"NAME" envDefault:"portalsso"`
	TTL     time.Duration `env:"TTL" envDefault:"5m"`
	Origins []string      `env:"ORIGINS" envSeparator:","`
	Nested  nested        `envPrefix:"NESTED_"`
}

type nested struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
}

type required struct {
	Secret string `env:"SECRET,required"`
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	var cfg sample
	require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{})))
	assert.Equal(t, "portalsso", cfg.Name)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
	assert.Empty(t, cfg.Origins)
	assert.False(t, cfg.Nested.Enabled)
}

func TestLoad_Values(t *testing.T) {
	t.Parallel()

	var cfg sample
	err := config.Load(&cfg, config.WithEnvironment(map[string]string{
		"NAME":           "custom",
		"TTL":            "0s",
		"ORIGINS":        "https://a.example,https://b.example",
		"NESTED_ENABLED": "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Name)
	assert.Zero(t, cfg.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
	assert.True(t, cfg.Nested.Enabled)
}

func TestLoad_Prefix(t *testing.T) {
	t.Parallel()

	var cfg sample
	err := config.Load(&cfg,
		config.WithPrefix("APP_"),
		config.WithEnvironment(map[string]string{"APP_NAME": "prefixed", "NAME": "ignored"}),
	)
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Name)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	var req required
	err := config.Load(&req, config.WithEnvironment(map[string]string{}))
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	var bad sample
	err = config.Load(&bad, config.WithEnvironment(map[string]string{"TTL": "soon"}))
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	assert.ErrorIs(t, config.Load[sample](nil), config.ErrNilPointer)
	assert.Panics(t, func() { config.MustLoad(&req, config.WithEnvironment(map[string]string{})) })
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORTALSSO_TEST_SECRET=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("PORTALSSO_TEST_SECRET") })

	var cfg struct {
		Secret string `env:"PORTALSSO_TEST_SECRET,required"`
	}
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles(filepath.Join(dir, "missing.env"), path)))
	assert.Equal(t, "from-file", cfg.Secret)
}

func TestLoad_EnvFileDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORTALSSO_TEST_NAME=from-file\n"), 0o600))
	t.Setenv("PORTALSSO_TEST_NAME", "from-process")

	var cfg struct {
		Name string `env:"PORTALSSO_TEST_NAME"`
	}
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles(path)))
	assert.Equal(t, "from-process", cfg.Name)
}
