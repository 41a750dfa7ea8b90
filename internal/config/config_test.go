package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2019, cfg.Analysis.CutoffYear)
	assert.Equal(t, 2000, cfg.Analysis.BaseYear)
	assert.Equal(t, 2030, cfg.Analysis.HorizonYear)
	assert.Equal(t, 5, cfg.Analysis.ForecastEntities)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "figures", cfg.Paths.FiguresDir)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greenpulse.yaml")
	body := `
analysis:
  cutoff_year: 2018
  base_year: 2001
server:
  port: 9000
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 2018, cfg.Analysis.CutoffYear)
	assert.Equal(t, 2001, cfg.Analysis.BaseYear)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 2030, cfg.Analysis.HorizonYear, "untouched fields keep defaults")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"base year after cutoff", func(c *Config) { c.Analysis.BaseYear = 2025 }, true},
		{"horizon before cutoff", func(c *Config) { c.Analysis.HorizonYear = 2010 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 0 }, true},
		{"zero forecast entities", func(c *Config) { c.Analysis.ForecastEntities = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
