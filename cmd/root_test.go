package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigHonorsExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: http://agent.test:9999/rpc\n"), 0o644))

	viper.Reset()
	t.Cleanup(viper.Reset)

	require.NoError(t, loadConfig(path))
	assert.Equal(t, "http://agent.test:9999/rpc", viper.GetString("endpoint"))
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Error(t, loadConfig(filepath.Join(t.TempDir(), "absent.yml")))
}
