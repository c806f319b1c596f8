package writers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"genoparse/core/record"
)

func run(t *testing.T, format string, header bool, recs ...any) (string, error) {
	t.Helper()
	var b bytes.Buffer
	in, done, err := Start(&b, format, header, 1)
	if err != nil {
		t.Fatalf("start %s: %v", format, err)
	}
	for _, r := range recs {
		in <- r
	}
	close(in)
	return b.String(), <-done
}

func mustFastq(t *testing.T) record.Fastq {
	t.Helper()
	q, err := record.NewFastq("@M1:7:FC1:1:1101:15589:1331 1:N:0:ACGT+TTGA", "GGCA", "IIHH")
	if err != nil {
		t.Fatalf("fastq: %v", err)
	}
	return q
}

func annotation() record.Annotation {
	a := record.Annotation{Contig: "1", Source: "havana", Feature: "exon", Start: 11869, End: 12227,
		Score: ".", Strand: record.StrandForward, Frame: ".", GeneID: "ENSG1", TranscriptID: "ENST1",
		Attributes: record.NewAttributes(
			record.Attribute{Key: "gene_id", Value: "ENSG1"},
			record.Attribute{Key: "exon_number", Value: "1"},
		)}
	return a
}

func TestTSVSequences(t *testing.T) {
	out, err := run(t, "tsv", true, record.NewSequence(">seq1 chr", "GGCA"), record.NewSequence(">seq2", ""))
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	want := "id\tlength\tgc\tsequence\n" +
		"seq1 chr\t4\t0.7500\tGGCA\n" +
		"seq2\t0\t0.0000\t\n"
	if out != want {
		t.Fatalf("got\n%q\nwant\n%q", out, want)
	}
}

func TestTSVHeaderPerRecordType(t *testing.T) {
	out, err := run(t, "tsv", true, record.NewSequence(">a", "A"), annotation())
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 lines, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], "contig\tsource") {
		t.Fatalf("missing annotation header: %q", lines[2])
	}
	if lines[3] != "1\thavana\texon\t11869\t12227\t358\t+\tENSG1\tENST1\tgene_id=ENSG1;exon_number=1" {
		t.Fatalf("annotation row = %q", lines[3])
	}
}

func TestTSVNoHeader(t *testing.T) {
	out, err := run(t, "tsv", false, mustFastq(t))
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	want := "@M1:7:FC1:1:1101:15589:1331 1:N:0:ACGT+TTGA\t4\t0.7500\tGGCA\tIIHH\t1\t1101\t1\tACGT\tTTGA\n"
	if out != want {
		t.Fatalf("got %q", out)
	}
}

func TestTSVUnsupportedType(t *testing.T) {
	if _, err := run(t, "tsv", true, 42, record.NewSequence(">a", "A")); err == nil {
		t.Fatalf("expected error for int record")
	}
}

func TestJSONLAnnotationKeepsAttributeOrder(t *testing.T) {
	out, err := run(t, "jsonl", false, annotation(), record.NewSequence(">s", "GC"))
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %q", out)
	}
	var a annotationJSON
	if err := json.Unmarshal([]byte(lines[0]), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Type != "gtf" || a.Strand != "+" || len(a.Attributes) != 2 || a.Attributes[1].Key != "exon_number" {
		t.Fatalf("decoded %+v", a)
	}
	var s sequenceJSON
	if err := json.Unmarshal([]byte(lines[1]), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Type != "fasta" || s.GC != 1 || s.Length != 2 {
		t.Fatalf("decoded %+v", s)
	}
}

func TestJSONLFastqHeader(t *testing.T) {
	out, err := run(t, "jsonl", false, mustFastq(t))
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	var q fastqJSON
	if err := json.Unmarshal([]byte(out), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.Quality != "IIHH" || q.Header.Tile != "1101" || q.Header.Index2 != "TTGA" {
		t.Fatalf("decoded %+v", q)
	}
}

func TestFASTQRoundTrip(t *testing.T) {
	q := mustFastq(t)
	out, err := run(t, "fastq", false, q)
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	if out != q.Format() {
		t.Fatalf("got %q want %q", out, q.Format())
	}
	if _, err := run(t, "fastq", false, record.NewSequence(">a", "A")); err == nil {
		t.Fatalf("fastq writer must reject FASTA records")
	}
}
