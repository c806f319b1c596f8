package writers

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"syscall"
)

// Factory starts a writer goroutine. Records are sent on the returned
// channel; after the caller closes it the error channel yields exactly once.
type Factory func(out io.Writer, header bool, bufSize int) (chan<- any, <-chan error)

// RecordWriters maps an output format name to its factory.
var RecordWriters = map[string]Factory{}

// Register adds or replaces a format (last wins).
func Register(format string, f Factory) { RecordWriters[format] = f }

// Formats lists the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(RecordWriters))
	for k := range RecordWriters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Start dispatches to the factory registered for format.
func Start(out io.Writer, format string, header bool, bufSize int) (chan<- any, <-chan error, error) {
	f, ok := RecordWriters[format]
	if !ok {
		return nil, nil, fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	in, done := f(out, header, bufSize)
	return in, done, nil
}

// IsBrokenPipe reports whether err comes from writing to a closed pipe, as
// when output is piped into head.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}

func unsupported(format string, rec any) error {
	return fmt.Errorf("%s writer: unsupported record type %T", format, rec)
}
