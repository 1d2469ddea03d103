package foldpipe

import (
	"context"
	"reflect"
	"testing"
)

func TestMatrixTranspose(t *testing.T) {
	p, err := NewMatrixTranspose(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Cells Swap Axes", func(t *testing.T) {
		out, err := p.Process(context.Background(), Matrix{{1, 2, 3}, {4, 5, 6}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Matrix{{1, 4}, {2, 5}, {3, 6}}
		if !reflect.DeepEqual(out, want) {
			t.Errorf("expected %v, got %v", want, out)
		}
	})

	t.Run("Involution", func(t *testing.T) {
		m := Matrix{{1, 2}, {3, 4}, {5, 6}}
		once, err := p.Process(context.Background(), m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		twice, err := p.Process(context.Background(), once)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(twice, m) {
			t.Errorf("transposing twice must restore the original, got %v", twice)
		}
	})

	t.Run("Empty Matrix", func(t *testing.T) {
		out, err := p.Process(context.Background(), Matrix{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.(Matrix)) != 0 {
			t.Errorf("expected empty matrix, got %v", out)
		}
	})

	t.Run("Input Unchanged", func(t *testing.T) {
		m := Matrix{{1, 2}}
		if _, err := p.Process(context.Background(), m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(m, Matrix{{1, 2}}) {
			t.Error("input matrix must not be mutated")
		}
	})
}
