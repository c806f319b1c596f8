package app

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"genoparse/core/record"
	"genoparse/core/source"
	"genoparse/internal/cliutil"
	"genoparse/internal/digest"
	"genoparse/internal/formats"
	"genoparse/internal/logging"
	"genoparse/internal/sqlitesink"
	"genoparse/internal/writers"
)

// input is one resolved command-line argument.
type input struct {
	src    source.Source
	format formats.Format
}

func (e *runEnv) inputs(args []string) ([]input, error) {
	expanded, err := cliutil.ExpandPositionals(args)
	if err != nil {
		return nil, &usageError{err}
	}
	if cliutil.CountStdin(expanded) > 1 {
		return nil, &usageError{errors.New("stdin ('-') can be read only once")}
	}
	ins := make([]input, 0, len(expanded))
	for _, a := range expanded {
		src := source.FromArg(a)
		f, err := formats.Resolve(src, e.format)
		if err != nil {
			return nil, &usageError{err}
		}
		ins = append(ins, input{src: src, format: f})
	}
	return ins, nil
}

// walk parses one input, logging its outcome.
func (e *runEnv) walk(in input, fn func(rec any) error) (formats.Result, error) {
	start := time.Now()
	res, err := formats.Walk(e.ctx, in.src, in.format, e.opts, fn)
	name := in.src.Name()
	if res.Dangling > 0 {
		e.log.Warn("fastq_truncated", "path", name, "dangling_lines", res.Dangling)
	}
	if err != nil && !errors.Is(err, errStop) {
		logging.InputFailed(e.log, name, string(in.format), err)
		return res, err
	}
	logging.InputParsed(e.log, name, string(in.format), res.Records, time.Since(start))
	return res, nil
}

// errStop ends a walk early without failing it.
var errStop = errors.New("stop")

// StatsCmd summarises each input.
type StatsCmd struct {
	Files []string `arg:"" name:"file" help:"Input files; '-' reads stdin."`
	Human bool     `help:"Print counts with thousands separators."`
}

type stats struct {
	records int
	bases   int
	gcBases float64
	genes   map[string]struct{}
}

func (s *stats) add(rec any) error {
	switch r := rec.(type) {
	case record.Sequence:
		s.bases += r.Length
		s.gcBases += r.GC * float64(r.Length)
	case record.Fastq:
		s.bases += r.Length
		s.gcBases += r.GC * float64(r.Length)
	case record.Annotation:
		if s.genes == nil {
			s.genes = map[string]struct{}{}
		}
		s.genes[r.GeneID] = struct{}{}
	}
	s.records++
	return nil
}

func (c *StatsCmd) Run(env *runEnv) error {
	ins, err := env.inputs(c.Files)
	if err != nil {
		return err
	}
	count := func(n int) string {
		if c.Human {
			return humanize.Comma(int64(n))
		}
		return strconv.Itoa(n)
	}
	fmt.Fprintln(env.out, "file\tformat\trecords\tbases\tgc\tgenes")
	for _, in := range ins {
		var s stats
		if _, err := env.walk(in, s.add); err != nil {
			return fmt.Errorf("stats %s: %w", in.src.Name(), err)
		}
		bases, gc, genes := "-", "-", "-"
		if in.format == formats.GTF {
			genes = count(len(s.genes))
		} else {
			bases = count(s.bases)
			gc = "0.0000"
			if s.bases > 0 {
				gc = strconv.FormatFloat(s.gcBases/float64(s.bases), 'f', 4, 64)
			}
		}
		fmt.Fprintf(env.out, "%s\t%s\t%s\t%s\t%s\t%s\n", in.src.Name(), in.format, count(s.records), bases, gc, genes)
	}
	return nil
}

// ViewCmd prints the records of one input.
type ViewCmd struct {
	File     string `arg:"" name:"file" help:"Input file; '-' reads stdin."`
	Output   string `short:"o" enum:"tsv,jsonl,fastq" default:"tsv" help:"Output format (${enum})."`
	Limit    int    `short:"n" help:"Stop after N records (0 = all)."`
	NoHeader bool   `name:"no-header" help:"Omit the TSV column header."`
}

func (c *ViewCmd) Run(env *runEnv) error {
	if c.Limit < 0 {
		return &usageError{fmt.Errorf("--limit must be >= 0, got %d", c.Limit)}
	}
	ins, err := env.inputs([]string{c.File})
	if err != nil {
		return err
	}
	if len(ins) != 1 {
		return &usageError{fmt.Errorf("view takes one input, %q matched %d", c.File, len(ins))}
	}
	in := ins[0]
	if c.Output == "fastq" && in.format != formats.FASTQ {
		return &usageError{fmt.Errorf("--output fastq needs FASTQ input, got %s", in.format)}
	}

	sink, done, err := writers.Start(env.out, c.Output, !c.NoHeader, 256)
	if err != nil {
		return &usageError{err}
	}
	n := 0
	_, walkErr := env.walk(in, func(rec any) error {
		sink <- rec
		n++
		if c.Limit > 0 && n == c.Limit {
			return errStop
		}
		return nil
	})
	close(sink)
	if err := <-done; err != nil {
		return &outputError{err}
	}
	if walkErr != nil {
		return fmt.Errorf("view %s: %w", in.src.Name(), walkErr)
	}
	return nil
}

// DigestCmd prints "<hex>  <file>" per input, like sha256sum.
type DigestCmd struct {
	Files []string `arg:"" name:"file" help:"Input files; '-' reads stdin."`
}

func (c *DigestCmd) Run(env *runEnv) error {
	ins, err := env.inputs(c.Files)
	if err != nil {
		return err
	}
	for _, in := range ins {
		d := digest.New()
		if _, err := env.walk(in, d.Add); err != nil {
			return fmt.Errorf("digest %s: %w", in.src.Name(), err)
		}
		fmt.Fprintf(env.out, "%s  %s\n", d.Sum(), in.src.Name())
	}
	return nil
}

// LoadCmd inserts records into SQLite, one transaction per input.
type LoadCmd struct {
	Files []string `arg:"" name:"file" help:"Input files; '-' reads stdin."`
	DB    string   `name:"db" required:"" type:"path" help:"SQLite database path (created if missing)."`
}

func (c *LoadCmd) Run(env *runEnv) error {
	ins, err := env.inputs(c.Files)
	if err != nil {
		return err
	}
	sink, err := sqlitesink.Open(c.DB)
	if err != nil {
		return &outputError{err}
	}
	defer sink.Close()
	env.log.Debug("sqlite_opened", "path", c.DB, "driver", sqlitesink.DriverType())

	for _, in := range ins {
		name := in.src.Name()
		before := sink.Rows()
		var addErr error
		_, err := env.walk(in, func(rec any) error {
			if err := sink.Add(name, rec); err != nil {
				addErr = err
				return err
			}
			return nil
		})
		if addErr != nil {
			return &outputError{addErr}
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		if err := sink.Commit(); err != nil {
			return &outputError{err}
		}
		fmt.Fprintf(env.out, "%s\t%d rows\n", name, sink.Rows()-before)
	}
	return nil
}
