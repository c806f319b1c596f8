package appshell

import (
	"context"
	"io"
	"testing"
)

func TestExecDefaultsToHelp(t *testing.T) {
	var got []string
	code := Exec(context.Background(), nil, io.Discard, io.Discard, func(_ context.Context, argv []string, _, _ io.Writer) int {
		got = argv
		return 0
	})
	if code != 0 || len(got) != 1 || got[0] != "-h" {
		t.Fatalf("code=%d argv=%v", code, got)
	}
}

func TestExecCancelledRunExits130(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cancel()
	code := Exec(parent, []string{"stats"}, io.Discard, io.Discard, func(context.Context, []string, io.Writer, io.Writer) int {
		return 0
	})
	if code != ExitInterrupted {
		t.Fatalf("code = %d, want %d", code, ExitInterrupted)
	}
}

func TestExecKeepsFailureCode(t *testing.T) {
	code := Exec(context.Background(), []string{"x"}, io.Discard, io.Discard, func(context.Context, []string, io.Writer, io.Writer) int {
		return 2
	})
	if code != 2 {
		t.Fatalf("code = %d", code)
	}
}
