package foldpipe

import (
	"context"
	"errors"
	"testing"
)

func TestEffect(t *testing.T) {
	t.Run("Data Passes Through Unchanged", func(t *testing.T) {
		var seen string
		audit := Effect("audit", func(_ context.Context, s string) error {
			seen = s
			return nil
		})

		result, err := audit.Process(context.Background(), "payload")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "payload" {
			t.Errorf("effect must not modify data, got %q", result)
		}
		if seen != "payload" {
			t.Errorf("effect should observe the value, saw %q", seen)
		}
	})

	t.Run("Error Halts With Context", func(t *testing.T) {
		reject := Effect("non_empty", func(_ context.Context, s string) error {
			if s == "" {
				return errors.New("empty input")
			}
			return nil
		})

		_, err := reject.Process(context.Background(), "")
		var pipeErr *Error[string]
		if !errors.As(err, &pipeErr) {
			t.Fatalf("expected *Error[string], got %T", err)
		}
		if len(pipeErr.Path) != 1 || pipeErr.Path[0] != "non_empty" {
			t.Errorf("expected path [non_empty], got %v", pipeErr.Path)
		}
	})
}
