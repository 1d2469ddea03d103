package foldpipe

import (
	"context"
	"errors"
	"testing"
)

func TestHandle(t *testing.T) {
	t.Run("Success Skips Observer", func(t *testing.T) {
		observed := false
		h := NewHandle("observed", upperProc(),
			Effect("collect", func(_ context.Context, e *Error[string]) error {
				observed = true
				return nil
			}),
		)

		out, err := h.Process(context.Background(), "ok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "OK" {
			t.Errorf("expected OK, got %q", out)
		}
		if observed {
			t.Error("observer must not run on success")
		}
	})

	t.Run("Observer Sees Error And Original Propagates", func(t *testing.T) {
		boom := errors.New("stage failure")
		var seen *Error[string]
		h := NewHandle("observed",
			Apply(failName, func(_ context.Context, s string) (string, error) {
				return "", boom
			}),
			Effect("collect", func(_ context.Context, e *Error[string]) error {
				seen = e
				return nil
			}),
		)

		_, err := h.Process(context.Background(), "payload")
		if !errors.Is(err, boom) {
			t.Fatalf("original error must propagate, got %v", err)
		}
		if seen == nil {
			t.Fatal("observer never ran")
		}
		if seen.InputData != "payload" {
			t.Errorf("observer should see the input, got %q", seen.InputData)
		}
		if len(seen.Path) == 0 || seen.Path[0] != "observed" {
			t.Errorf("path should start with the handle name, got %v", seen.Path)
		}
	})

	t.Run("Observer Failure Never Replaces The Error", func(t *testing.T) {
		boom := errors.New("stage failure")
		h := NewHandle("observed",
			Apply(failName, func(_ context.Context, s string) (string, error) {
				return "", boom
			}),
			Effect("collect", func(_ context.Context, e *Error[string]) error {
				return errors.New("observer broke too")
			}),
		)

		_, err := h.Process(context.Background(), "x")
		if !errors.Is(err, boom) {
			t.Errorf("expected the stage error, got %v", err)
		}
		if got := h.Metrics().Counter(HandleObserverErrors).Value(); got != 1 {
			t.Errorf("expected observer failure counted, got %v", got)
		}
	})

	t.Run("Name", func(t *testing.T) {
		h := NewHandle[string]("observed", upperProc(), Effect("collect",
			func(_ context.Context, e *Error[string]) error { return nil }))
		if h.Name() != "observed" {
			t.Errorf("expected observed, got %s", h.Name())
		}
		if err := h.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
}
