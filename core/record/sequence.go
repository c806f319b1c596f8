// Package record holds the value types produced by the format parsers.
//
// Records are plain values: they are built once per record, never refer
// back to the parser that produced them, and are owned by whoever received
// them.
package record

import "strings"

// Sequence is one FASTA record (and the sequence half of a FASTQ record).
type Sequence struct {
	ID     string  // header text, leading '>' and line terminator removed
	Seq    string  // residues as read, case preserved
	Length int     // len(Seq)
	GC     float64 // fraction of G/C/g/c in Seq; 0 for an empty sequence
}

// NewSequence builds a Sequence from a raw header line and its concatenated
// sequence lines.
func NewSequence(header, seq string) Sequence {
	id := strings.TrimRight(header, "\r\n")
	id = strings.TrimPrefix(id, ">")
	return newSequence(id, seq)
}

func newSequence(id, seq string) Sequence {
	return Sequence{ID: id, Seq: seq, Length: len(seq), GC: GCContent(seq)}
}

// Name returns the ID up to the first space or tab.
func (s Sequence) Name() string {
	if i := strings.IndexAny(s.ID, " \t"); i >= 0 {
		return s.ID[:i]
	}
	return s.ID
}

// GCContent returns the fraction of seq made of G or C, case-insensitively.
// An empty sequence has a GC content of 0.
func GCContent(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	gc := 0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C', 'g', 'c':
			gc++
		}
	}
	return float64(gc) / float64(len(seq))
}
