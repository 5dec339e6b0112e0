package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// execCommandRunner runs commands as child processes with stdout and stderr
// streamed through, so long-running per-tag work stays visible.
type execCommandRunner struct {
	logger *zap.Logger
}

// NewCommandRunner creates a CommandRunner.
func NewCommandRunner(logger *zap.Logger) CommandRunner {
	return &execCommandRunner{logger: logger}
}

// Run executes command in dir. With useShell the whole line goes through
// sh -c; otherwise it is split on whitespace and executed directly, so
// quoting is not interpreted.
func (r *execCommandRunner) Run(ctx context.Context, command, dir string, useShell bool) error {
	var cmd *exec.Cmd
	if useShell {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	} else {
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return errors.New("empty command")
		}
		cmd = exec.CommandContext(ctx, fields[0], fields[1:]...)
	}
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	r.logger.Info("running command",
		zap.String("command", command),
		zap.String("dir", dir),
		zap.Bool("use_shell", useShell))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %q failed: %w", command, err)
	}
	return nil
}
