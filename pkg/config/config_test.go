package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stderr", cfg.Log.File)
	assert.False(t, cfg.Log.JSON)
	assert.True(t, cfg.Read.Mmap)
	assert.Equal(t, runtime.NumCPU(), cfg.Scan.Workers)
	assert.Equal(t, 5, cfg.Scan.MaxErrors)
	assert.NoError(t, cfg.Validate())
}

// chdir moves to an empty directory so a cifatom.yaml lying around
// does not change the answers.
func chdir(t *testing.T) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(old) })
	t.Setenv("HOME", t.TempDir())
}

func TestLoadNoFile(t *testing.T) {
	chdir(t)
	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, *DefaultConfig(), *cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	chdir(t)
	fname := filepath.Join(t.TempDir(), "my.yaml")
	yml := "log:\n  level: debug\n  json: true\nscan:\n  workers: 2\n  max_files: 10\n"
	require.NoError(t, os.WriteFile(fname, []byte(yml), 0o644))
	t.Setenv("CIFATOM_SCAN_WORKERS", "7")
	t.Setenv("CIFATOM_READ_MMAP", "false")

	cfg, err := Load(New(), fname)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 7, cfg.Scan.Workers, "environment beats file")
	assert.Equal(t, 10, cfg.Scan.MaxFiles)
	assert.False(t, cfg.Read.Mmap)
	assert.Equal(t, "stderr", cfg.Log.File, "default kept")
}

func TestLoadSearchPath(t *testing.T) {
	chdir(t)
	require.NoError(t, os.WriteFile("cifatom.yaml", []byte("scan:\n  max_errors: 3\n"), 0o644))
	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scan.MaxErrors)
}

func TestLoadErrors(t *testing.T) {
	chdir(t)
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit file must exist")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("scan: [1, 2\n"), 0o644))
	_, err = Load(New(), bad)
	assert.Error(t, err)

	zero := filepath.Join(t.TempDir(), "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("scan:\n  workers: 0\n"), 0o644))
	_, err = Load(New(), zero)
	assert.ErrorContains(t, err, "scan.workers")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		change func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"no workers", func(c *Config) { c.Scan.Workers = 0 }, "scan.workers"},
		{"negative files", func(c *Config) { c.Scan.MaxFiles = -1 }, "scan.max_files"},
		{"no errors allowed", func(c *Config) { c.Scan.MaxErrors = 0 }, "scan.max_errors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.change(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errMsg)
			}
		})
	}
}
