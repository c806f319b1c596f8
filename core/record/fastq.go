package record

import (
	"fmt"
	"io"
	"strings"

	perr "genoparse/core/errors"
)

// IlluminaHeader is the decomposed Casava 1.8+ read header:
//
//	@<instrument>:<run>:<flowcell>:<lane>:<tile>:<x>:<y> <pair>:<filtered>:<control>:<index1>+<index2>
//
// Fields are kept as the literal tokens found in the header.
type IlluminaHeader struct {
	Instrument  string
	RunID       string
	FlowcellID  string
	Lane        string
	Tile        string
	X           string
	Y           string
	Pair        string
	Filtered    string
	ControlBits string
	Index1      string
	Index2      string
}

// ParseIlluminaHeader splits a FASTQ header into its twelve fields. Any
// deviation from the expected token counts is a *ParseError wrapping
// ErrHeader; no partially filled header is returned.
func ParseIlluminaHeader(h string) (IlluminaHeader, error) {
	groups := strings.Split(h, " ")
	if len(groups) != 2 {
		return IlluminaHeader{}, headerError(h, "want 2 space-separated groups, got %d", len(groups))
	}
	loc := strings.Split(groups[0], ":")
	if len(loc) != 7 {
		return IlluminaHeader{}, headerError(h, "want 7 location fields, got %d", len(loc))
	}
	meta := strings.Split(groups[1], ":")
	if len(meta) != 4 {
		return IlluminaHeader{}, headerError(h, "want 4 read fields, got %d", len(meta))
	}
	idx := strings.Split(meta[3], "+")
	if len(idx) != 2 {
		return IlluminaHeader{}, headerError(h, "want 2 '+'-separated indices, got %d", len(idx))
	}
	return IlluminaHeader{
		Instrument:  loc[0],
		RunID:       loc[1],
		FlowcellID:  loc[2],
		Lane:        loc[3],
		Tile:        loc[4],
		X:           loc[5],
		Y:           loc[6],
		Pair:        meta[0],
		Filtered:    meta[1],
		ControlBits: meta[2],
		Index1:      idx[0],
		Index2:      idx[1],
	}, nil
}

func headerError(h, format string, a ...any) error {
	return &perr.ParseError{
		Format:  "fastq",
		Message: fmt.Sprintf("header %q: "+format, append([]any{h}, a...)...),
		Err:     perr.ErrHeader,
	}
}

// Fastq is a sequence with per-base qualities and a decomposed header.
type Fastq struct {
	Sequence
	Quality string
	Header  IlluminaHeader
}

// NewFastq builds a Fastq record. The header is taken verbatim (a leading
// '@' is kept in ID and in Header.Instrument) and must parse as an Illumina
// header. The quality line is not checked against the sequence length.
func NewFastq(header, seq, qual string) (Fastq, error) {
	h, err := ParseIlluminaHeader(header)
	if err != nil {
		return Fastq{}, err
	}
	return Fastq{Sequence: newSequence(header, seq), Quality: qual, Header: h}, nil
}

// Format renders the record as a 4-line FASTQ block.
func (r Fastq) Format() string {
	return r.ID + "\n" + r.Seq + "\n+\n" + r.Quality + "\n"
}

// WriteTo writes the 4-line block to w.
func (r Fastq) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.Format())
	return int64(n), err
}
