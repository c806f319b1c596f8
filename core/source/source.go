// Package source resolves an input designator into a line stream.
//
// A Source is either a filesystem path, which the stream opens, decompresses
// and later closes, or a caller-supplied io.Reader, which is read as-is and
// left open. The parsers in core/fasta, core/fastq and core/gtf each take one
// Source and own the resulting Stream for their lifetime.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"

	perr "genoparse/core/errors"
)

// maxLine allows very long single-line sequences (64 MiB).
const maxLine = 64 * 1024 * 1024

type kind int

const (
	kindPath kind = iota + 1
	kindReader
)

// Source is a tagged input designator. The zero value is invalid.
type Source struct {
	kind kind
	path string
	r    io.Reader
}

// Path designates a file on disk. Compression is inferred from its extension.
func Path(p string) Source { return Source{kind: kindPath, path: p} }

// Reader designates an already-open stream. It is never sniffed for
// compression and never closed by a Stream.
func Reader(r io.Reader) Source { return Source{kind: kindReader, r: r} }

// FromArg maps a command-line argument to a Source; "-" means stdin.
func FromArg(arg string) Source {
	if arg == "-" {
		return Reader(os.Stdin)
	}
	return Path(arg)
}

// IsPath reports whether s designates a file.
func (s Source) IsPath() bool { return s.kind == kindPath }

// Name returns the path, or "-" for reader sources.
func (s Source) Name() string {
	if s.kind == kindPath {
		return s.path
	}
	return "-"
}

func (s Source) String() string { return s.Name() }

// Open resolves s into a Stream. Path sources fail here, not on first read,
// when the file is missing or unreadable.
func (s Source) Open() (*Stream, error) {
	switch s.kind {
	case kindPath:
		rc, err := openPath(s.path)
		if err != nil {
			return nil, err
		}
		return newStream(rc, rc, s.path), nil
	case kindReader:
		if s.r == nil {
			return nil, &perr.IOError{Op: "open", Err: fmt.Errorf("nil reader")}
		}
		return newStream(s.r, nil, ""), nil
	}
	return nil, &perr.IOError{Op: "open", Err: fmt.Errorf("empty source")}
}

// Stream reads an input one line at a time.
type Stream struct {
	sc     *bufio.Scanner
	closer io.Closer // nil for caller-owned readers
	path   string
	line   int
	closed bool
}

func newStream(r io.Reader, closer io.Closer, path string) *Stream {
	sc := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)
	return &Stream{sc: sc, closer: closer, path: path}
}

// ReadLine returns the next line with its line terminator ("\n" or "\r\n")
// removed. It returns io.EOF once the input is exhausted.
func (s *Stream) ReadLine() (string, error) {
	if s.closed {
		return "", io.EOF
	}
	if s.sc.Scan() {
		s.line++
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", &perr.IOError{Op: "read", Path: s.path, Err: err}
	}
	return "", io.EOF
}

// Line returns the 1-based number of the last line returned by ReadLine.
func (s *Stream) Line() int { return s.line }

// Path returns the file path, or "" for caller-supplied readers.
func (s *Stream) Path() string { return s.path }

// Owned reports whether Close releases an underlying file.
func (s *Stream) Owned() bool { return s.closer != nil }

// Close releases the file the stream opened. It is idempotent, and a no-op
// on caller-owned readers apart from ending the stream.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
