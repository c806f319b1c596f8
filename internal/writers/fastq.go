package writers

import (
	"bufio"
	"io"

	"genoparse/core/record"
)

func init() { Register("fastq", StartFASTQWriter) }

// StartFASTQWriter re-emits FASTQ records as 4-line blocks. Other record
// types are an error. header is ignored.
func StartFASTQWriter(out io.Writer, _ bool, bufSize int) (chan<- any, <-chan error) {
	return startText(out, bufSize, func(bw *bufio.Writer, rec any) error {
		r, ok := rec.(record.Fastq)
		if !ok {
			return unsupported("fastq", rec)
		}
		_, err := r.WriteTo(bw)
		return err
	})
}
