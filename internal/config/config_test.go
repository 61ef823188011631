package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2024, cfg.Analysis.Year)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  driver: sqlite
  url: "file:camara.db"
analysis:
  year: 2023
server:
  port: "9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:camara.db", cfg.Database.URL)
	assert.Equal(t, 2023, cfg.Analysis.Year)
	assert.Equal(t, "9090", cfg.Server.Port)
	// untouched sections keep their defaults
	assert.Equal(t, 100, cfg.Server.MaxPerPage)
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"DATABASE_URL":  "postgres://other",
		"PORT":          "3000",
		"ANALYSIS_YEAR": "2022",
	}
	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "postgres://other", cfg.Database.URL)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 2022, cfg.Analysis.Year)
}

func TestApplyEnvRejectsBadYear(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.applyEnv(func(k string) string {
		if k == "ANALYSIS_YEAR" {
			return "last-year"
		}
		return ""
	})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Analysis.Year = 1800
	assert.Error(t, cfg.Validate())
}
