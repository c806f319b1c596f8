// Package appshell wires a command's run function to the process: signals,
// arguments, standard streams and the exit status.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ExitInterrupted is returned when SIGINT or SIGTERM cancelled the run.
const ExitInterrupted = 130

// Main runs run with a context cancelled on SIGINT/SIGTERM and exits with
// its code. No arguments means "-h".
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	os.Exit(Exec(context.Background(), os.Args[1:], os.Stdout, os.Stderr, run))
}

// Exec is Main without os.Exit, for tests.
func Exec(parent context.Context, argv []string, stdout, stderr io.Writer, run func(context.Context, []string, io.Writer, io.Writer) int) int {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	code := run(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = ExitInterrupted
	}
	return code
}
