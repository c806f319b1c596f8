// Package pull defines the iteration contract shared by the format readers.
//
// A Puller returns one record per Next call and io.EOF once exhausted. The
// helpers here turn a Puller into a range-over-func sequence or a
// context-aware callback loop; both always Close the Puller when they
// return, however iteration ends.
package pull

import (
	"context"
	"errors"
	"io"
	"iter"
)

// Puller produces records of type T one at a time.
type Puller[T any] interface {
	Next() (T, error)
	Close() error
}

// All adapts p to a single-pass sequence. io.EOF ends the sequence without
// being yielded; any other error is yielded once and ends it. p is closed
// when the loop finishes, including when the consumer breaks out early.
func All[T any](p Puller[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer p.Close()
		for {
			rec, err := p.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// ForEach calls fn for every record of p. Cancellation via ctx is checked
// between records. A non-nil error from fn stops the loop and is returned.
func ForEach[T any](ctx context.Context, p Puller[T], fn func(T) error) error {
	defer p.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		rec, err := p.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// Collect drains p into a slice. On error the records read so far are
// returned alongside it.
func Collect[T any](p Puller[T]) ([]T, error) {
	var out []T
	for rec, err := range All(p) {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}
