package foldpipe

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMatrixRow(t *testing.T) {
	base := Matrix{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}

	t.Run("Unknown Operation Rejected At Construction", func(t *testing.T) {
		_, err := NewMatrixRow(Params{"operation": "explode"})
		if !errors.Is(err, ErrParameter) {
			t.Errorf("expected ErrParameter, got %v", err)
		}
		_, err = NewMatrixRow(nil)
		if !errors.Is(err, ErrParameter) {
			t.Errorf("missing operation: expected ErrParameter, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		p, err := NewMatrixRow(Params{"operation": OpGet, "index": 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(out, []any{4, 5, 6}) {
			t.Errorf("expected [4 5 6], got %v", out)
		}
	})

	t.Run("Get Out Of Bounds", func(t *testing.T) {
		p, _ := NewMatrixRow(Params{"operation": OpGet, "index": 3})
		_, err := p.Process(context.Background(), base)
		if !errors.Is(err, ErrIndexOutOfBounds) {
			t.Errorf("expected ErrIndexOutOfBounds, got %v", err)
		}
	})

	t.Run("Get Missing Index Parameter", func(t *testing.T) {
		p, _ := NewMatrixRow(Params{"operation": OpGet})
		_, err := p.Process(context.Background(), base)
		if !errors.Is(err, ErrParameter) {
			t.Errorf("expected ErrParameter, got %v", err)
		}
	})

	t.Run("Add Returns New Matrix", func(t *testing.T) {
		p, _ := NewMatrixRow(Params{"operation": OpAdd, "row": []any{10, 11, 12}})
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.(Matrix)
		if got.Rows() != 4 || !reflect.DeepEqual(got[3], []any{10, 11, 12}) {
			t.Errorf("unexpected result %v", got)
		}
		if base.Rows() != 3 {
			t.Error("input matrix must not be mutated")
		}
	})

	t.Run("Add Dimension Mismatch", func(t *testing.T) {
		p, _ := NewMatrixRow(Params{"operation": OpAdd, "row": []any{10, 11}})
		_, err := p.Process(context.Background(), base)
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("expected ErrDimensionMismatch, got %v", err)
		}
	})

	t.Run("Add To Empty Fixes Shape", func(t *testing.T) {
		p, _ := NewMatrixRow(Params{"operation": OpAdd, "row": []any{1, 2}})
		out, err := p.Process(context.Background(), Matrix{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(out, Matrix{{1, 2}}) {
			t.Errorf("unexpected result %v", out)
		}
	})

	t.Run("Update", func(t *testing.T) {
		p, _ := NewMatrixRow(Params{"operation": OpUpdate, "index": 0, "row": []any{9, 9, 9}})
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.(Matrix)
		if !reflect.DeepEqual(got[0], []any{9, 9, 9}) {
			t.Errorf("unexpected result %v", got)
		}
		if base[0][0] != 1 {
			t.Error("input matrix must not be mutated")
		}
	})

	t.Run("Delete Renumbers", func(t *testing.T) {
		p, _ := NewMatrixRow(Params{"operation": OpDelete, "index": 1})
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Matrix{{1, 2, 3}, {7, 8, 9}}
		if !reflect.DeepEqual(out, want) {
			t.Errorf("expected %v, got %v", want, out)
		}
	})

	t.Run("Typed Row Parameter Converts", func(t *testing.T) {
		p, _ := NewMatrixRow(Params{"operation": OpAdd, "row": []int{10, 11, 12}})
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.(Matrix).Rows() != 4 {
			t.Errorf("unexpected result %v", out)
		}
	})

	t.Run("Ragged Input Rejected", func(t *testing.T) {
		p, _ := NewMatrixRow(Params{"operation": OpGet, "index": 0})
		_, err := p.Process(context.Background(), Matrix{{1, 2}, {3}})
		if !errors.Is(err, ErrMatrixValidation) {
			t.Errorf("expected ErrMatrixValidation, got %v", err)
		}
	})
}
