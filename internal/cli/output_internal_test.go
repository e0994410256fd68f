package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combstruct/combstruct/internal/config"
)

func TestFormatModifier(t *testing.T) {
	assert.Equal(t, "+0%", formatModifier(0))
	assert.Equal(t, "+8%", formatModifier(0.08))
	assert.Equal(t, "-20%", formatModifier(-0.20))
	assert.Equal(t, "+40%", formatModifier(0.40))
}

func TestResolveFormat(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	config.SetGlobalConfig(config.Default())
	t.Cleanup(config.ResetGlobalConfigForTest)

	got, err := resolveFormat("")
	require.NoError(t, err)
	assert.Equal(t, outputFormatTable, got)

	got, err = resolveFormat("ndjson")
	require.NoError(t, err)
	assert.Equal(t, outputFormatNDJSON, got)

	_, err = resolveFormat("yaml")
	assert.Error(t, err)
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, []string{"A", "B"}, [][]string{{"one", "two"}}))
	assert.Contains(t, buf.String(), "one")
	assert.Contains(t, buf.String(), "B")
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeNDJSON(&buf, []int{1, 2, 3}))
	assert.Equal(t, "1\n2\n3\n", buf.String())
}
