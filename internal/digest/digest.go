// Package digest fingerprints a parsed record stream with BLAKE3.
//
// The digest covers record content, not file bytes, so a plain file and its
// gzip or xz encoding hash identically.
package digest

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/zeebo/blake3"

	"genoparse/core/record"
)

// Digest accumulates records into a BLAKE3 hash.
type Digest struct {
	h   *blake3.Hasher
	n   int
	buf []byte
}

func New() *Digest {
	return &Digest{h: blake3.New()}
}

// Add hashes one record. Fields are NUL-separated and each record ends in a
// newline, so field boundaries cannot be shifted without changing the sum.
func (d *Digest) Add(rec any) error {
	b := d.buf[:0]
	switch r := rec.(type) {
	case record.Sequence:
		b = appendFields(b, "fasta", r.ID, r.Seq)
	case record.Fastq:
		b = appendFields(b, "fastq", r.ID, r.Seq, r.Quality)
	case record.Annotation:
		b = appendFields(b, "gtf", r.Contig, r.Source, r.Feature,
			strconv.Itoa(r.Start), strconv.Itoa(r.End), r.Score, r.Strand.String(), r.Frame,
			r.GeneID, r.TranscriptID)
		for k, v := range r.Attributes.All() {
			b = appendFields(append(b, 0), k, v)
		}
	default:
		return fmt.Errorf("digest: unsupported record type %T", rec)
	}
	b = append(b, '\n')
	d.buf = b
	_, _ = d.h.Write(b)
	d.n++
	return nil
}

func appendFields(b []byte, fields ...string) []byte {
	for i, f := range fields {
		if i > 0 {
			b = append(b, 0)
		}
		b = append(b, f...)
	}
	return b
}

// Records returns how many records were added.
func (d *Digest) Records() int { return d.n }

// Sum returns the hex-encoded 256-bit digest.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
