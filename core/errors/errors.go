// Package errors defines the error taxonomy shared by the format parsers.
//
// Parse failures are reported as *ParseError values that wrap one of the
// sentinel errors below, so callers can test them with errors.Is.
// Failures to open or read an input are reported as *IOError.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ParseError.
var (
	// ErrHeader indicates a FASTQ header that does not follow the Illumina grammar.
	ErrHeader = errors.New("malformed header")
	// ErrFieldCount indicates a line with too few tab-delimited columns.
	ErrFieldCount = errors.New("wrong number of fields")
	// ErrAttribute indicates a GTF attribute column without a usable gene_id.
	ErrAttribute = errors.New("malformed attribute")
	// ErrCoordinate indicates a non-integer or inverted start/end pair.
	ErrCoordinate = errors.New("invalid coordinate")
	// ErrStrand indicates a strand column outside {+, -, .}.
	ErrStrand = errors.New("invalid strand")
	// ErrQualityLength indicates a FASTQ quality line whose length differs from its sequence.
	ErrQualityLength = errors.New("quality length does not match sequence length")
)

// ParseError represents a record that could not be parsed.
type ParseError struct {
	Format  string // "fasta", "fastq", "gtf"
	Path    string // input path, empty for caller-supplied readers
	Line    int    // 1-based line number, 0 when unknown
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	where := e.Format
	if e.Path != "" {
		where += " " + e.Path
	}
	if e.Line > 0 {
		where += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", where, e.Message, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", where, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents a failure to open or read an input.
type IOError struct {
	Op   string // "open", "read", "decompress"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Locate fills in Path and Line on a *ParseError that lacks them and returns
// err unchanged otherwise. Record constructors do not know where their input
// came from; the parsers call Locate before handing the error to the caller.
func Locate(err error, format, path string, line int) error {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return err
	}
	if pe.Format == "" {
		pe.Format = format
	}
	if pe.Path == "" {
		pe.Path = path
	}
	if pe.Line == 0 {
		pe.Line = line
	}
	return err
}

// Is, As and New re-export the standard library helpers so packages that
// import this one under the name "errors" keep access to them.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func New(text string) error { return errors.New(text) }
