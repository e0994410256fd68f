package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfig(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.Same(t, cfg, GetGlobalConfig())

	ResetGlobalConfigForTest()
	assert.NotSame(t, cfg, GetGlobalConfig())

	custom := Default()
	custom.Logging.Level = "debug"
	SetGlobalConfig(custom)
	assert.Equal(t, "debug", GetLoggingConfig().Level)
}

func TestGetConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)

	t.Setenv(EnvHome, "")
	t.Setenv("HOME", home)
	dir, err = GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".combstruct"), dir)
}

func TestEnsureConfigDir(t *testing.T) {
	home := filepath.Join(t.TempDir(), "cfg")
	t.Setenv(EnvHome, home)

	require.NoError(t, EnsureConfigDir())
	assert.DirExists(t, home)
}

func TestEnsureLogDir(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "combstruct.log")
	SetGlobalConfig(cfg)

	require.NoError(t, EnsureLogDir())
	assert.DirExists(t, filepath.Dir(cfg.Logging.File))

	cfg.Logging.File = ""
	assert.NoError(t, EnsureLogDir())
}

func TestLoggingConfig_ToLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "warn", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, "stderr", got.Output)
	assert.Equal(t, "warn", got.Level)

	lc.File = "/tmp/combstruct.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, "file", got.Output)
	assert.Equal(t, "/tmp/combstruct.log", got.File)
}
