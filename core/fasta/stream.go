package fasta

import (
	"context"

	"genoparse/core/pull"
	"genoparse/core/record"
	"genoparse/core/source"
)

// StreamCtx parses FASTA from src and calls emit for every record.
// Cancellation via ctx is honored between records. Return a non-nil error
// from emit to stop early; the input is closed either way.
func StreamCtx(ctx context.Context, src source.Source, emit func(record.Sequence) error) error {
	r, err := NewReader(src)
	if err != nil {
		return err
	}
	return pull.ForEach[record.Sequence](ctx, r, emit)
}

// ReadAll parses every record of src.
func ReadAll(src source.Source) ([]record.Sequence, error) {
	r, err := NewReader(src)
	if err != nil {
		return nil, err
	}
	return pull.Collect[record.Sequence](r)
}
