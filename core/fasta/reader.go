// Package fasta parses FASTA files into record.Sequence values.
package fasta

import (
	"errors"
	"io"
	"iter"
	"strings"

	"genoparse/core/pull"
	"genoparse/core/record"
	"genoparse/core/source"
)

type state int

const (
	seekStart state = iota // before the first '>' header
	inRecord               // header seen, buffering sequence lines
	done
)

// Reader parses FASTA records from a line stream.
//
// Lines before the first header are discarded. Inside a record, lines
// starting with '#' are comments; every other line is appended verbatim to
// the sequence. There are no malformed-record errors for this format.
type Reader struct {
	st     *source.Stream
	state  state
	header string
	seq    strings.Builder
	err    error // sticky: io.EOF after exhaustion, or the first read error
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
	return &Reader{st: st}
}

// Next returns the next record, or io.EOF when the input is exhausted. The
// stream is closed on exhaustion.
func (r *Reader) Next() (record.Sequence, error) {
	if r.err != nil {
		return record.Sequence{}, r.err
	}
	for {
		line, err := r.st.ReadLine()
		if errors.Is(err, io.EOF) {
			return r.finish()
		}
		if err != nil {
			r.err = err
			return record.Sequence{}, err
		}
		switch r.state {
		case seekStart:
			if strings.HasPrefix(line, ">") {
				r.header = line
				r.state = inRecord
			}
		case inRecord:
			switch {
			case strings.HasPrefix(line, "#"):
			case strings.HasPrefix(line, ">"):
				rec := r.flush()
				r.header = line
				return rec, nil
			default:
				r.seq.WriteString(line)
			}
		}
	}
}

func (r *Reader) flush() record.Sequence {
	rec := record.NewSequence(r.header, r.seq.String())
	r.seq.Reset()
	return rec
}

func (r *Reader) finish() (record.Sequence, error) {
	pending := r.state == inRecord
	var rec record.Sequence
	if pending {
		rec = r.flush()
	}
	r.state = done
	r.err = io.EOF
	if err := r.st.Close(); err != nil {
		r.err = err
	}
	if pending {
		return rec, nil
	}
	return record.Sequence{}, r.err
}

// Close releases the underlying stream. Records not yet pulled are lost.
func (r *Reader) Close() error {
	if r.err == nil {
		r.err = io.EOF
	}
	r.state = done
	return r.st.Close()
}

// All iterates the remaining records; the stream is closed when the loop
// ends, including on break.
func (r *Reader) All() iter.Seq2[record.Sequence, error] {
	return pull.All[record.Sequence](r)
}
