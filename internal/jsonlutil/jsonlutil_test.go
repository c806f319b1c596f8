package jsonlutil

import (
	"encoding/json"
	"errors"
	"strings"
	"syscall"
	"testing"
)

type point struct {
	X int `json:"x"`
}

func encodePoint(enc *json.Encoder, p point) error { return enc.Encode(p) }

func TestStartWritesLines(t *testing.T) {
	var b strings.Builder
	in, done := Start[point](&b, 0, encodePoint, nil)
	for i := 1; i <= 3; i++ {
		in <- point{X: i}
	}
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("done: %v", err)
	}
	want := "{\"x\":1}\n{\"x\":2}\n{\"x\":3}\n"
	if b.String() != want {
		t.Fatalf("got %q want %q", b.String(), want)
	}
}

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestBrokenPipeIsQuiet(t *testing.T) {
	isBroken := func(err error) bool { return errors.Is(err, syscall.EPIPE) }
	in, done := Start[point](failWriter{syscall.EPIPE}, 1, encodePoint, isBroken)
	in <- point{X: 1}
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("broken pipe should be suppressed, got %v", err)
	}
}

func TestEncodeErrorDrainsInput(t *testing.T) {
	boom := errors.New("boom")
	in, done := Start[point](&strings.Builder{}, 1, func(*json.Encoder, point) error { return boom }, nil)
	// More sends than the buffer holds; none may block after the first failure.
	for i := 0; i < 10; i++ {
		in <- point{X: i}
	}
	close(in)
	if err := <-done; !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}
