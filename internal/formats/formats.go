// Package formats picks a parser for an input and drives it.
package formats

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"genoparse/core/fasta"
	"genoparse/core/fastq"
	"genoparse/core/gtf"
	"genoparse/core/pull"
	"genoparse/core/record"
	"genoparse/core/source"
)

// Format names one of the supported file formats.
type Format string

const (
	FASTA Format = "fasta"
	FASTQ Format = "fastq"
	GTF   Format = "gtf"
)

var extensions = map[string]Format{
	".fa":    FASTA,
	".fasta": FASTA,
	".fna":   FASTA,
	".ffn":   FASTA,
	".faa":   FASTA,
	".fas":   FASTA,
	".fq":    FASTQ,
	".fastq": FASTQ,
	".gtf":   GTF,
	".gff":   GTF,
	".gff2":  GTF,
	".gff3":  GTF,
}

// Parse validates a user-supplied format name. "" means auto-detect.
func Parse(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FASTA, FASTQ, GTF, "":
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want fasta, fastq or gtf)", s)
}

// Detect infers the format from a file name, ignoring a compression suffix.
func Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(source.TrimCompression(path)))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("cannot infer format of %q; pass --format", path)
}

// Resolve returns override when set, else the detected format of src.
func Resolve(src source.Source, override Format) (Format, error) {
	if override != "" {
		return override, nil
	}
	if !src.IsPath() {
		return "", fmt.Errorf("cannot infer format of stdin; pass --format")
	}
	return Detect(src.Name())
}

// Options tune the parsers.
type Options struct {
	StrictQuality bool
}

// Result summarises one Walk.
type Result struct {
	Records  int
	Dangling int // FASTQ lines dropped from an incomplete final block
}

// Walk parses src as f and calls fn with each record, which is a
// record.Sequence, record.Fastq or record.Annotation depending on f.
func Walk(ctx context.Context, src source.Source, f Format, opts Options, fn func(rec any) error) (Result, error) {
	var res Result
	count := func(rec any) error {
		if err := fn(rec); err != nil {
			return err
		}
		res.Records++
		return nil
	}
	switch f {
	case FASTA:
		r, err := fasta.NewReader(src)
		if err != nil {
			return res, err
		}
		return res, pull.ForEach[record.Sequence](ctx, r, func(s record.Sequence) error { return count(s) })
	case FASTQ:
		r, err := fastq.NewReader(src)
		if err != nil {
			return res, err
		}
		r.StrictQuality = opts.StrictQuality
		err = pull.ForEach[record.Fastq](ctx, r, func(q record.Fastq) error { return count(q) })
		res.Dangling = r.Dangling()
		return res, err
	case GTF:
		r, err := gtf.NewReader(src)
		if err != nil {
			return res, err
		}
		return res, pull.ForEach[record.Annotation](ctx, r, func(a record.Annotation) error { return count(a) })
	}
	return res, fmt.Errorf("unsupported format %q", f)
}
