package static

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstall(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "babytimer")

	require.NoError(t, Install(dir))

	assert.Equal(t, []string{"icon.svg"}, Files())
	assert.FileExists(t, filepath.Join(dir, "icon.svg"))
}

func TestInstallKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	icon := filepath.Join(dir, "icon.svg")

	require.NoError(t, os.WriteFile(icon, []byte("custom"), 0o600))
	require.NoError(t, Install(dir))

	b, err := os.ReadFile(icon)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(b))
}
