package source

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	perr "genoparse/core/errors"
)

// Compression identifies the codec wrapped around an input file.
type Compression int

const (
	None Compression = iota
	Gzip
	Xz
	Bzip2
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Xz:
		return "xz"
	case Bzip2:
		return "bzip2"
	}
	return "none"
}

var suffixes = map[string]Compression{
	".gz":  Gzip,
	".bgz": Gzip,
	".xz":  Xz,
	".bz2": Bzip2,
}

var magics = []struct {
	sig []byte
	c   Compression
}{
	{[]byte{0x1f, 0x8b}, Gzip},
	{[]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, Xz},
	{[]byte("BZh"), Bzip2},
}

// CompressionFor reports the codec implied by the file extension of path.
func CompressionFor(path string) Compression {
	return suffixes[strings.ToLower(filepath.Ext(path))]
}

// TrimCompression strips a recognised compression extension, so "x.fa.gz"
// becomes "x.fa".
func TrimCompression(path string) string {
	if CompressionFor(path) == None {
		return path
	}
	return path[:len(path)-len(filepath.Ext(path))]
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// openPath opens path and layers a decompressor on top when the extension
// names one. Files without a known extension are sniffed by magic number.
func openPath(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &perr.IOError{Op: "open", Path: path, Err: err}
	}
	br := bufio.NewReaderSize(fh, 64*1024)
	// Directories and other unreadable handles open fine; fail them here.
	if _, err := br.Peek(1); err != nil && !errors.Is(err, io.EOF) {
		_ = fh.Close()
		return nil, &perr.IOError{Op: "open", Path: path, Err: err}
	}
	c := CompressionFor(path)
	if c == None {
		c = sniff(br)
	}
	r, closer, err := decompress(c, br)
	if err != nil {
		_ = fh.Close()
		return nil, &perr.IOError{Op: "decompress", Path: path, Err: err}
	}
	closers := []io.Closer{fh}
	if closer != nil {
		closers = []io.Closer{closer, fh}
	}
	return &multiReadCloser{Reader: r, closers: closers}, nil
}

func sniff(br *bufio.Reader) Compression {
	for _, m := range magics {
		sig, _ := br.Peek(len(m.sig))
		if bytes.Equal(sig, m.sig) {
			return m.c
		}
	}
	return None
}

func decompress(c Compression, r io.Reader) (io.Reader, io.Closer, error) {
	switch c {
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gr, gr, nil
	case Xz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, nil, nil // xz reader doesn't need closing
	case Bzip2:
		return bzip2.NewReader(r), nil, nil
	}
	return r, nil, nil
}
