package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/combstruct/combstruct/internal/cli"
	"github.com/combstruct/combstruct/internal/config"
)

// setupCLITest isolates configuration and quiets logging for one test.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvLogFormat, "")
	t.Setenv(config.EnvLocale, "")
	t.Setenv(config.EnvAddr, "")
	t.Setenv(config.EnvStrict, "")
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// executeCmd runs the root command with args and returns its stdout.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := executeCmdStreams(t, args...)
	return stdout, err
}

// executeCmdStreams runs the root command with args and returns stdout and
// stderr separately.
func executeCmdStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeFile writes content under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
