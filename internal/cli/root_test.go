package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio-terminal/internal/checkout"
	"github.com/Zachkp/portfolio-terminal/internal/config"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	term, _, err := root.Find([]string{"term"})
	require.NoError(t, err)
	assert.Equal(t, "terminal", term.Name())

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("env-file"))
	assert.NotNil(t, root.Flags().Lookup("port"))
}

func TestMissingConfigFileFails(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "serve"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestMissingEnvFileFails(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env"), "terminal"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")
}

func TestNewTrackerUsesConfiguredCadence(t *testing.T) {
	cfg := config.Default()
	cfg.Terminal.OpenBrowser = false

	tr := newTracker(cfg, nil)
	defer tr.Close()

	assert.Equal(t, checkout.StatusIdle, tr.Session().Status)
	assert.False(t, tr.Polling())
}
