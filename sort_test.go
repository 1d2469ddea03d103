package foldpipe

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMatrixSort(t *testing.T) {
	t.Run("Ascending By Default", func(t *testing.T) {
		p, err := NewMatrixSort(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := p.Process(context.Background(), Matrix{{3}, {1}, {2}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Matrix{{1}, {2}, {3}}
		if !reflect.DeepEqual(out, want) {
			t.Errorf("expected %v, got %v", want, out)
		}
	})

	t.Run("Stability Preserves Tie Order", func(t *testing.T) {
		p, _ := NewMatrixSort(Params{"column_index": 0})
		in := Matrix{{2, "b"}, {1, "a"}, {2, "a"}}
		out, err := p.Process(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Matrix{{1, "a"}, {2, "b"}, {2, "a"}}
		if !reflect.DeepEqual(out, want) {
			t.Errorf("expected %v, got %v", want, out)
		}
	})

	t.Run("Descending", func(t *testing.T) {
		p, _ := NewMatrixSort(Params{"ascending": false})
		out, err := p.Process(context.Background(), Matrix{{1}, {3}, {2}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Matrix{{3}, {2}, {1}}
		if !reflect.DeepEqual(out, want) {
			t.Errorf("expected %v, got %v", want, out)
		}
	})

	t.Run("Sort Key Applied Before Comparison", func(t *testing.T) {
		p, err := NewMatrixSort(Params{
			"key": func(cell any) any {
				if n, ok := cell.(int); ok {
					return -n
				}
				return cell
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := p.Process(context.Background(), Matrix{{1}, {3}, {2}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Matrix{{3}, {2}, {1}}
		if !reflect.DeepEqual(out, want) {
			t.Errorf("expected %v, got %v", want, out)
		}
	})

	t.Run("Column Out Of Bounds", func(t *testing.T) {
		p, _ := NewMatrixSort(Params{"column_index": 5})
		_, err := p.Process(context.Background(), Matrix{{1}, {2}})
		if !errors.Is(err, ErrIndexOutOfBounds) {
			t.Errorf("expected ErrIndexOutOfBounds, got %v", err)
		}
	})

	t.Run("Short Matrices Return A Clone", func(t *testing.T) {
		p, _ := NewMatrixSort(Params{"column_index": 99})
		in := Matrix{{1}}
		out, err := p.Process(context.Background(), in)
		if err != nil {
			t.Fatalf("single-row matrices skip bounds checks, got %v", err)
		}
		got := out.(Matrix)
		got[0][0] = 2
		if in[0][0] != 1 {
			t.Error("result must not alias the input")
		}
	})

	t.Run("Input Unchanged", func(t *testing.T) {
		p, _ := NewMatrixSort(nil)
		in := Matrix{{2}, {1}}
		if _, err := p.Process(context.Background(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(in, Matrix{{2}, {1}}) {
			t.Error("input matrix must not be mutated")
		}
	})
}
