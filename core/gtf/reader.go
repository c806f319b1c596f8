// Package gtf parses GTF/GFF annotation files one line at a time.
//
// Lines starting with '#' and blank lines are skipped. Every other line must
// have at least nine tab-separated columns; the ninth holds ';'-separated
// attributes whose first entry is the gene id. A transcript_id attribute, if
// present, becomes the entry's transcript id; otherwise the gene id is used.
package gtf

import (
	"errors"
	"io"
	"iter"
	"strings"

	perr "genoparse/core/errors"
	"genoparse/core/pull"
	"genoparse/core/record"
	"genoparse/core/source"
)

// Reader parses annotation entries from a line stream.
type Reader struct {
	st  *source.Stream
	err error // sticky
}

// NewReader opens src and returns a Reader that owns the resulting stream.
// Plain, gzip, xz and bzip2 paths are all handled by the source layer.
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

// Next returns the next entry, or io.EOF at the end of input. A malformed
// line is returned as a *errors.ParseError carrying its line number, and
// every later call returns the same error.
func (r *Reader) Next() (record.Annotation, error) {
	if r.err != nil {
		return record.Annotation{}, r.err
	}
	for {
		line, err := r.st.ReadLine()
		if errors.Is(err, io.EOF) {
			r.err = io.EOF
			if cerr := r.st.Close(); cerr != nil {
				r.err = cerr
			}
			return record.Annotation{}, r.err
		}
		if err != nil {
			r.err = err
			return record.Annotation{}, err
		}
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		a, err := ParseLine(line)
		if err != nil {
			r.err = perr.Locate(err, "gtf", r.st.Path(), r.st.Line())
			return record.Annotation{}, r.err
		}
		return a, nil
	}
}

// Close releases the underlying stream.
func (r *Reader) Close() error {
	if r.err == nil {
		r.err = io.EOF
	}
	return r.st.Close()
}

// All iterates the remaining entries; the stream is closed when the loop
// ends, including on break.
func (r *Reader) All() iter.Seq2[record.Annotation, error] {
	return pull.All[record.Annotation](r)
}

// ReadAll parses every entry of src.
func ReadAll(src source.Source) ([]record.Annotation, error) {
	r, err := NewReader(src)
	if err != nil {
		return nil, err
	}
	return pull.Collect[record.Annotation](r)
}
