package source

import (
	"compress/gzip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	perr "genoparse/core/errors"
)

const plain = ">seq1\nACGT\r\n>seq2\nNNnn"

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func writeGz(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("tmp: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func writeXz(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("tmp: %v", err)
	}
	xw, err := xz.NewWriter(fh)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	if _, err := xw.Write([]byte(data)); err != nil {
		t.Fatalf("write xz: %v", err)
	}
	if err := xw.Close(); err != nil {
		t.Fatalf("close xz: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func readAll(t *testing.T, src Source) []string {
	t.Helper()
	st, err := src.Open()
	if err != nil {
		t.Fatalf("open %s: %v", src, err)
	}
	defer st.Close()
	var lines []string
	for {
		line, err := st.ReadLine()
		if err == io.EOF {
			return lines
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		lines = append(lines, line)
	}
}

func TestReadLineStripsTerminators(t *testing.T) {
	got := readAll(t, Reader(strings.NewReader(plain)))
	want := []string{">seq1", "ACGT", ">seq2", "NNnn"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("lines = %q, want %q", got, want)
	}
}

func TestCompressedPathsMatchPlain(t *testing.T) {
	want := readAll(t, Path(writeFile(t, "x.fa", plain)))
	for name, path := range map[string]string{
		"gzip":          writeGz(t, "x.fa.gz", plain),
		"gzip-upper":    writeGz(t, "x.FA.GZ", plain),
		"xz":            writeXz(t, "x.fa.xz", plain),
		"gzip-sniffed":  writeGz(t, "x.fa", plain),
		"xz-sniffed":    writeXz(t, "x.fasta", plain),
	} {
		got := readAll(t, Path(path))
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Fatalf("%s: lines = %q, want %q", name, got, want)
		}
	}
}

func TestTwoCharacterSuffixIsNotCompression(t *testing.T) {
	// "x.tgz"-style ambiguity: a plain file whose name merely ends in "gz"
	// or ".z" must be read as text.
	for _, name := range []string{"reads.fagz", "reads.z"} {
		path := writeFile(t, name, plain)
		if c := CompressionFor(path); c != None {
			t.Fatalf("%s: compression = %v", name, c)
		}
		if got := readAll(t, Path(path)); len(got) != 4 {
			t.Fatalf("%s: got %d lines", name, len(got))
		}
	}
}

func TestCompressionFor(t *testing.T) {
	cases := map[string]Compression{
		"a.fa":       None,
		"a.fa.gz":    Gzip,
		"a.gtf.bgz":  Gzip,
		"a.fq.xz":    Xz,
		"a.fq.bz2":   Bzip2,
		"a.fq.BZ2":   Bzip2,
		"dir.gz/a":   None,
	}
	for path, want := range cases {
		if got := CompressionFor(path); got != want {
			t.Fatalf("CompressionFor(%q) = %v, want %v", path, got, want)
		}
	}
	if got := TrimCompression("a.gtf.gz"); got != "a.gtf" {
		t.Fatalf("TrimCompression = %q", got)
	}
	if got := TrimCompression("a.gtf"); got != "a.gtf" {
		t.Fatalf("TrimCompression = %q", got)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Path(filepath.Join(t.TempDir(), "missing.fa")).Open()
	if err == nil {
		t.Fatalf("expected error")
	}
	var ioe *perr.IOError
	if !errors.As(err, &ioe) || ioe.Op != "open" {
		t.Fatalf("expected open IOError, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestOpenDirectoryFailsAtOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "genome.fa")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	st, err := Path(dir).Open()
	if err == nil {
		_ = st.Close()
		t.Fatalf("expected error opening a directory")
	}
	var ioe *perr.IOError
	if !errors.As(err, &ioe) || ioe.Op != "open" || ioe.Path != dir {
		t.Fatalf("expected open IOError for %s, got %v", dir, err)
	}
}

func TestOpenEmptyFile(t *testing.T) {
	st, err := Path(writeFile(t, "empty.fa", "")).Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	if _, err := st.ReadLine(); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestCorruptGzipFailsAtOpen(t *testing.T) {
	path := writeFile(t, "bad.fa.gz", "not gzip at all")
	_, err := Path(path).Open()
	var ioe *perr.IOError
	if !errors.As(err, &ioe) || ioe.Op != "decompress" {
		t.Fatalf("expected decompress IOError, got %v", err)
	}
}

type trackingReader struct {
	io.Reader
	closed bool
}

func (r *trackingReader) Close() error { r.closed = true; return nil }

func TestCallerOwnedReaderIsNotClosed(t *testing.T) {
	tr := &trackingReader{Reader: strings.NewReader(plain)}
	st, err := Reader(tr).Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if st.Owned() {
		t.Fatalf("reader stream must not be owned")
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if tr.closed {
		t.Fatalf("caller-owned reader was closed")
	}
	if _, err := st.ReadLine(); err != io.EOF {
		t.Fatalf("closed stream should report EOF, got %v", err)
	}
}

func TestStreamCloseIsIdempotent(t *testing.T) {
	st, err := Path(writeGz(t, "x.fa.gz", plain)).Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !st.Owned() {
		t.Fatalf("path stream must be owned")
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestLineNumbers(t *testing.T) {
	st, _ := Reader(strings.NewReader("a\nb\nc\n")).Open()
	for i := 1; i <= 3; i++ {
		if _, err := st.ReadLine(); err != nil {
			t.Fatalf("read: %v", err)
		}
		if st.Line() != i {
			t.Fatalf("Line() = %d, want %d", st.Line(), i)
		}
	}
}

func TestFromArg(t *testing.T) {
	if FromArg("-").IsPath() {
		t.Fatalf("- must map to stdin")
	}
	if s := FromArg("a.fa"); !s.IsPath() || s.Name() != "a.fa" {
		t.Fatalf("unexpected source %v", s)
	}
	if _, err := (Source{}).Open(); err == nil {
		t.Fatalf("zero Source must not open")
	}
}
