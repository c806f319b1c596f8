// Package app implements the genoparse command line.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"genoparse/internal/formats"
	"genoparse/internal/logging"
	"genoparse/internal/version"
	"genoparse/internal/writers"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1 // parse or input I/O failure
	ExitUsage       = 2
	ExitOutput      = 3
	ExitInterrupted = 130
)

// CLI is the kong grammar.
type CLI struct {
	Format        string           `short:"f" placeholder:"FMT" help:"Input format (fasta, fastq, gtf). Inferred from the file name when empty; required for stdin."`
	StrictQuality bool             `name:"strict-quality" help:"Reject FASTQ records whose quality line length differs from the sequence."`
	LogLevel      string           `name:"log-level" env:"GENOPARSE_LOG_LEVEL" enum:"debug,info,warn,error" default:"warn" help:"Log level (${enum})."`
	LogFormat     string           `name:"log-format" env:"GENOPARSE_LOG_FORMAT" enum:"text,json" default:"text" help:"Log format (${enum})."`
	Quiet         bool             `short:"q" help:"Suppress all log output."`
	Version       kong.VersionFlag `help:"Print version and exit."`

	Stats  StatsCmd  `cmd:"" help:"Summarise records per input."`
	View   ViewCmd   `cmd:"" help:"Print parsed records as TSV or JSON Lines."`
	Digest DigestCmd `cmd:"" help:"BLAKE3 fingerprint of each input's parsed records."`
	Load   LoadCmd   `cmd:"" help:"Load records into a SQLite database."`
}

// runEnv is bound into every command's Run method.
type runEnv struct {
	ctx    context.Context
	out    *bufio.Writer
	stderr io.Writer
	log    *slog.Logger
	format formats.Format
	opts   formats.Options
}

type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

type outputError struct{ err error }

func (e *outputError) Error() string { return "write output: " + e.err.Error() }
func (e *outputError) Unwrap() error { return e.err }

type exitPanic int

// RunContext parses argv, runs the selected command and returns its exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) (code int) {
	outw := bufio.NewWriter(stdout)
	defer func() {
		if err := outw.Flush(); err != nil && !writers.IsBrokenPipe(err) && code == ExitOK {
			_, _ = fmt.Fprintln(stderr, err)
			code = ExitOutput
		}
	}()

	// kong calls Exit after --help and --version; unwind instead of exiting.
	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitPanic)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("genoparse"),
		kong.Description("Streaming FASTA, FASTQ and GTF parser."),
		kong.Writers(outw, stderr),
		kong.Exit(func(c int) { panic(exitPanic(c)) }),
		kong.Vars{"version": "genoparse version " + version.Version},
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitFailure
	}
	kctx, err := parser.Parse(argv)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "genoparse: %v (see genoparse --help)\n", err)
		return ExitUsage
	}

	env, err := cli.env(parent, outw, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "genoparse: %v\n", err)
		return ExitUsage
	}
	env.log.Debug("run_started", "command", kctx.Command())

	if err := kctx.Run(env); err != nil {
		code = exitCode(err)
		if code != ExitInterrupted {
			_, _ = fmt.Fprintf(stderr, "genoparse: %v\n", err)
		}
		return code
	}
	return ExitOK
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func (c *CLI) env(parent context.Context, outw *bufio.Writer, stderr io.Writer) (*runEnv, error) {
	f, err := formats.Parse(c.Format)
	if err != nil {
		return nil, err
	}
	lvl, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	lf, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return nil, err
	}
	ctx := logging.WithRunID(parent, logging.NewRunID())
	base := logging.New(stderr, lvl, lf)
	if c.Quiet {
		base = logging.Discard()
	}
	return &runEnv{
		ctx:    ctx,
		out:    outw,
		stderr: stderr,
		log:    logging.FromContext(ctx, base),
		format: f,
		opts:   formats.Options{StrictQuality: c.StrictQuality},
	}, nil
}

func exitCode(err error) int {
	var ue *usageError
	var oe *outputError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &ue):
		return ExitUsage
	case errors.As(err, &oe):
		return ExitOutput
	}
	return ExitFailure
}
