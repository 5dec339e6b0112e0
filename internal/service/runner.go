package service

import "context"

// CommandRunner executes a fully rendered command line inside a working
// directory and reports whether it exited successfully.

type CommandRunner interface {
	Run(ctx context.Context, command, dir string, useShell bool) error
}
