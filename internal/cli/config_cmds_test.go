package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telste/gridview/internal/config"
)

func TestConfigInitCmd(t *testing.T) {
	t.Run("writes defaults to custom path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gridview.yaml")

		cmd := NewConfigInitCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"--path", path})
		require.NoError(t, cmd.Execute())

		assert.Contains(t, out.String(), path)

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, config.CurrentSchemaVersion, cfg.SchemaVersion)
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gridview.yaml")
		require.NoError(t, os.WriteFile(path, []byte("schema_version: \"1.0.0\"\n"), 0o600))

		cmd := NewConfigInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--path", path})
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("force overwrites", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gridview.yaml")
		require.NoError(t, os.WriteFile(path, []byte("pagination:\n  page_size: 3\n"), 0o600))

		cmd := NewConfigInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--path", path, "--force"})
		require.NoError(t, cmd.Execute())

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, config.Default().Pagination.PageSize, cfg.Pagination.PageSize)
	})
}

func TestConfigValidateCmd(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gridview.yaml")
		require.NoError(t, config.Default().Write(path))

		cmd := NewConfigValidateCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"--path", path})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "Configuration is valid")
	})

	t.Run("wrong schema major version", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gridview.yaml")
		require.NoError(t, os.WriteFile(path, []byte("schema_version: \"9.0.0\"\n"), 0o600))

		cmd := NewConfigValidateCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--path", path})
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is invalid")
	})

	t.Run("bad selection type", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gridview.yaml")
		require.NoError(t, os.WriteFile(path, []byte("selection:\n  type: lasso\n"), 0o600))

		cmd := NewConfigValidateCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--path", path})
		assert.Error(t, cmd.Execute())
	})
}

func TestRootCmd(t *testing.T) {
	t.Run("has expected subcommands", func(t *testing.T) {
		root := NewRootCmd("1.2.3")
		require.NotNil(t, root)
		assert.Equal(t, "gridview", root.Use)

		names := map[string]bool{}
		for _, sub := range root.Commands() {
			names[sub.Name()] = true
		}
		assert.True(t, names["view"])
		assert.True(t, names["query"])
		assert.True(t, names["config"])
	})

	t.Run("version flag prints version", func(t *testing.T) {
		root := NewRootCmd("1.2.3")
		out := &bytes.Buffer{}
		root.SetOut(out)
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"--version"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "1.2.3")
	})
}
