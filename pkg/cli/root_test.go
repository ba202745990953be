package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand("test", env(nil))

	assert.Equal(t, "promptflow", cmd.Use)
	assert.Equal(t, "test", cmd.Version)

	for _, name := range []string{"serve", "tui", "layout"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	cmd := NewRootCommand("test", env(nil))

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "", configFlag.DefValue)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "false", verboseFlag.DefValue)
}

func TestRootCommand_MissingConfig(t *testing.T) {
	cmd := NewRootCommand("test", env(nil))
	cmd.SetIn(bytes.NewBufferString("a\n"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"layout", "--config", filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestServeCommand_Flags(t *testing.T) {
	cmd := NewRootCommand("test", env(nil))
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	addr := serve.Flags().Lookup("addr")
	require.NotNil(t, addr)
	assert.Equal(t, "", addr.DefValue)
}

func TestServeCommand_StopsOnCancel(t *testing.T) {
	cmd := NewRootCommand("test", env(map[string]string{"LOG_LEVEL": "error"}))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--addr", "127.0.0.1:0"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after context cancellation")
	}
}

func TestServeCommand_BadAddr(t *testing.T) {
	cmd := NewRootCommand("test", env(map[string]string{"LOG_LEVEL": "error"}))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--addr", "256.0.0.1:bad"})

	assert.Error(t, cmd.Execute())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(os.ErrNotExist))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := WrapExitError(ExitFailure, "read", os.ErrClosed)
	assert.ErrorIs(t, wrapped, os.ErrClosed)
	assert.Equal(t, "read: "+os.ErrClosed.Error(), wrapped.Error())
}
