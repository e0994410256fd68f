package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	globalConfig   *Config      //nolint:gochecknoglobals // Process-wide configuration singleton.
	globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Guards globalConfig.
)

// GetGlobalConfig returns the process configuration, loading it on first use.
func GetGlobalConfig() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		globalConfig = New()
	}
	return globalConfig
}

// SetGlobalConfig replaces the process configuration.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalConfigForTest drops the cached configuration.
func ResetGlobalConfigForTest() {
	SetGlobalConfig(nil)
}

// GetConfigDir returns $COMBSTRUCT_HOME or ~/.combstruct.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".combstruct"), nil
}

// EnsureConfigDir creates the configuration directory.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// EnsureLogDir creates the parent directory of the configured log file.
func EnsureLogDir() error {
	file := GetGlobalConfig().Logging.File
	if file == "" {
		return nil
	}
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}
	return nil
}
