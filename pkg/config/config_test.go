package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `yaml:"name"`
	Dir   string `yaml:"dir"`
	Limit int    `yaml:"limit"`
}

func (s *sample) Validate() error {
	if s.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o644))
	return p
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("TYPEGEN_TEST_DIR", "/tmp/out")
	p := writeFile(t, "dir: ${TYPEGEN_TEST_DIR}\nlimit: 3\n")

	cfg := sample{Name: "default"}
	require.NoError(t, Load(p, &cfg))
	assert.Equal(t, sample{Name: "default", Dir: "/tmp/out", Limit: 3}, cfg)
}

func TestLoad_Errors(t *testing.T) {
	var cfg sample
	assert.Error(t, Load(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))
	assert.Error(t, Load(writeFile(t, "limit: [1"), &cfg))

	err := Load(writeFile(t, "limit: -1\n"), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadOptional(t *testing.T) {
	cfg := sample{Name: "default"}
	found, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), &cfg)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "default", cfg.Name)

	found, err = LoadOptional(writeFile(t, "name: custom\n"), &cfg)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "custom", cfg.Name)

	bad := sample{Limit: -1}
	_, err = LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), &bad)
	assert.Error(t, err)
}
