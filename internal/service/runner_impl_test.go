package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExecCommandRunner_Run(t *testing.T) {
	runner := NewCommandRunner(zap.NewNop())
	t.Run("Should run a plain command", func(t *testing.T) {
		err := runner.Run(context.Background(), "true", t.TempDir(), false)
		assert.NoError(t, err)
	})
	t.Run("Should report a non-zero exit as an error", func(t *testing.T) {
		err := runner.Run(context.Background(), "false", t.TempDir(), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed")
	})
	t.Run("Should split arguments on whitespace without a shell", func(t *testing.T) {
		dir := t.TempDir()
		err := runner.Run(context.Background(), "touch marker.txt", dir, false)
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "marker.txt"))
		assert.NoError(t, err)
	})
	t.Run("Should interpret shell syntax only with the shell enabled", func(t *testing.T) {
		dir := t.TempDir()
		require.Error(t, runner.Run(context.Background(), "exit 0", dir, false))
		assert.NoError(t, runner.Run(context.Background(), "exit 0", dir, true))
	})
	t.Run("Should run inside the given directory", func(t *testing.T) {
		dir := t.TempDir()
		err := runner.Run(context.Background(), "pwd > out.txt", dir, true)
		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(dir, "out.txt"))
		require.NoError(t, err)
		assert.Contains(t, string(content), filepath.Base(dir))
	})
	t.Run("Should reject an empty command", func(t *testing.T) {
		err := runner.Run(context.Background(), "   ", t.TempDir(), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty command")
	})
}
