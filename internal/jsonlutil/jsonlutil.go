// Package jsonlutil runs JSON Lines encoders on their own goroutine.
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// 64 KiB buffered writers are pooled across encoders.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// Start spins up an encoder goroutine for values of type T.
//   - encode: converts one value to its wire type and calls enc.Encode
//   - isBroken: recognizes closed-pipe errors, which end output quietly
//
// The returned error channel yields exactly one value after in is closed.
// Once an encode fails the goroutine keeps draining in, so senders never block.
func Start[T any](out io.Writer, bufSize int, encode func(*json.Encoder, T) error, isBroken func(error) bool) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		done <- Encode(bw, in, encode, isBroken)
	}()

	return in, done
}

// Encode consumes in until it is closed, writing one JSON document per line
// to bw and flushing at the end. It is the synchronous body of Start.
func Encode[T any](bw *bufio.Writer, in <-chan T, encode func(*json.Encoder, T) error, isBroken func(error) bool) error {
	enc := json.NewEncoder(bw)
	var err error
	for v := range in {
		if err != nil {
			continue
		}
		err = encode(enc, v)
	}
	if err == nil {
		err = bw.Flush()
	}
	if err != nil && isBroken != nil && isBroken(err) {
		return nil
	}
	return err
}
