package writers

import (
	"bufio"
	"io"
	"sync"
)

var textPool = sync.Pool{
	New: func() any { return bufio.NewWriterSize(io.Discard, 64<<10) },
}

// startText runs write for every record on a pooled buffered writer. After
// the first error the remaining records are drained and dropped.
func startText(out io.Writer, bufSize int, write func(*bufio.Writer, any) error) (chan<- any, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan any, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := textPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			textPool.Put(bw)
		}()

		var err error
		for rec := range in {
			if err != nil {
				continue
			}
			err = write(bw, rec)
		}
		if err == nil {
			err = bw.Flush()
		}
		if err != nil && IsBrokenPipe(err) {
			err = nil
		}
		done <- err
	}()

	return in, done
}
