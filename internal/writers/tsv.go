package writers

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"genoparse/core/record"
)

var (
	sequenceColumns   = []string{"id", "length", "gc", "sequence"}
	fastqColumns      = []string{"id", "length", "gc", "sequence", "quality", "lane", "tile", "pair", "index1", "index2"}
	annotationColumns = []string{"contig", "source", "feature", "start", "end", "length", "strand", "gene_id", "transcript_id", "attributes"}
)

func init() { Register("tsv", StartTSVWriter) }

// StartTSVWriter writes one tab-separated row per record. With header set, a
// column header is written before the first record and again whenever the
// record type changes.
func StartTSVWriter(out io.Writer, header bool, bufSize int) (chan<- any, <-chan error) {
	var last string
	return startText(out, bufSize, func(bw *bufio.Writer, rec any) error {
		var kind string
		var cols, row []string
		switch r := rec.(type) {
		case record.Sequence:
			kind, cols = "fasta", sequenceColumns
			row = []string{r.ID, strconv.Itoa(r.Length), formatGC(r.GC), r.Seq}
		case record.Fastq:
			kind, cols = "fastq", fastqColumns
			h := r.Header
			row = []string{r.ID, strconv.Itoa(r.Length), formatGC(r.GC), r.Seq, r.Quality,
				h.Lane, h.Tile, h.Pair, h.Index1, h.Index2}
		case record.Annotation:
			kind, cols = "gtf", annotationColumns
			row = []string{r.Contig, r.Source, r.Feature, strconv.Itoa(r.Start), strconv.Itoa(r.End),
				strconv.Itoa(r.Length()), r.Strand.String(), r.GeneID, r.TranscriptID, joinAttributes(r.Attributes)}
		default:
			return unsupported("tsv", rec)
		}
		if header && kind != last {
			if err := writeRow(bw, cols); err != nil {
				return err
			}
		}
		last = kind
		return writeRow(bw, row)
	})
}

func writeRow(bw *bufio.Writer, fields []string) error {
	_, err := bw.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

func formatGC(gc float64) string { return strconv.FormatFloat(gc, 'f', 4, 64) }

// joinAttributes renders attributes as key=value pairs separated by ';'.
func joinAttributes(a record.Attributes) string {
	var sb strings.Builder
	for k, v := range a.All() {
		if sb.Len() > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(v)
	}
	return sb.String()
}
