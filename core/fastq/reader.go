// Package fastq parses FASTQ files in strict 4-line blocks.
//
// Each block is header, sequence, separator and quality. The separator
// line is not inspected. Headers must follow the Illumina grammar parsed by
// record.ParseIlluminaHeader; a header that does not is a hard error and the
// reader does not try to resynchronise on the next block. A trailing block
// with fewer than four lines is dropped without error.
package fastq

import (
	"errors"
	"fmt"
	"io"
	"iter"

	perr "genoparse/core/errors"
	"genoparse/core/pull"
	"genoparse/core/record"
	"genoparse/core/source"
)

// Reader parses FASTQ records from a line stream.
type Reader struct {
	// StrictQuality rejects blocks whose quality line length differs from
	// the sequence length. Off by default.
	StrictQuality bool

	st       *source.Stream
	ln       int       // 1-based line counter within the stream
	block    [3]string // header, sequence, separator
	dangling int
	err      error // sticky
}

// NewReader opens src and returns a Reader that owns the resulting stream.
func NewReader(src source.Source) (*Reader, error) {
	st, err := src.Open()
	if err != nil {
		return nil, err
	}
	return NewStreamReader(st), nil
}

// NewStreamReader parses an already-open stream. The Reader takes over
// closing it.
func NewStreamReader(st *source.Stream) *Reader {
	return &Reader{st: st, ln: 1}
}

// Next returns the next record. It returns io.EOF once the input is
// exhausted and closes the stream at that point. After a parse error every
// further call returns the same error.
func (r *Reader) Next() (record.Fastq, error) {
	if r.err != nil {
		return record.Fastq{}, r.err
	}
	for {
		line, err := r.st.ReadLine()
		if errors.Is(err, io.EOF) {
			r.dangling = (r.ln - 1) % 4
			r.err = io.EOF
			if cerr := r.st.Close(); cerr != nil {
				r.err = cerr
			}
			return record.Fastq{}, r.err
		}
		if err != nil {
			r.err = err
			return record.Fastq{}, err
		}
		pos := r.ln % 4
		r.ln++
		if pos != 0 {
			r.block[pos-1] = line
			continue
		}
		rec, err := r.build(line)
		if err != nil {
			r.err = err
			return record.Fastq{}, err
		}
		return rec, nil
	}
}

func (r *Reader) build(qual string) (record.Fastq, error) {
	header, seq := r.block[0], r.block[1]
	r.block = [3]string{}
	headerLine := r.st.Line() - 3
	if r.StrictQuality && len(qual) != len(seq) {
		return record.Fastq{}, &perr.ParseError{
			Format:  "fastq",
			Path:    r.st.Path(),
			Line:    r.st.Line(),
			Message: fmt.Sprintf("quality has %d characters, sequence has %d", len(qual), len(seq)),
			Err:     perr.ErrQualityLength,
		}
	}
	rec, err := record.NewFastq(header, seq, qual)
	if err != nil {
		return record.Fastq{}, perr.Locate(err, "fastq", r.st.Path(), headerLine)
	}
	return rec, nil
}

// Dangling reports how many lines of an incomplete final block were
// dropped. It is only meaningful once Next has returned io.EOF.
func (r *Reader) Dangling() int { return r.dangling }

// Close releases the underlying stream.
func (r *Reader) Close() error {
	if r.err == nil {
		r.err = io.EOF
	}
	return r.st.Close()
}

// All iterates the remaining records; the stream is closed when the loop
// ends, including on break.
func (r *Reader) All() iter.Seq2[record.Fastq, error] {
	return pull.All[record.Fastq](r)
}

// ReadAll parses every record of src.
func ReadAll(src source.Source) ([]record.Fastq, error) {
	r, err := NewReader(src)
	if err != nil {
		return nil, err
	}
	return pull.Collect[record.Fastq](r)
}
