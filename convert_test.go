package foldpipe

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMatrixConvert(t *testing.T) {
	base := Matrix{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}

	t.Run("Unknown Format Rejected", func(t *testing.T) {
		_, err := NewMatrixConvert(Params{"output_format": "xml"})
		if !errors.Is(err, ErrParameter) {
			t.Errorf("expected ErrParameter, got %v", err)
		}
	})

	t.Run("List Is A Deep Copy", func(t *testing.T) {
		p, err := NewMatrixConvert(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.(Matrix)
		if !reflect.DeepEqual(got, base) {
			t.Errorf("expected copy of input, got %v", got)
		}
		got[0][0] = 99
		if base[0][0] != 1 {
			t.Error("list output must not alias the input")
		}
	})

	t.Run("Dict Maps First Cell To Row", func(t *testing.T) {
		p, _ := NewMatrixConvert(Params{"output_format": FormatDict})
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.(map[any][]any)
		if !reflect.DeepEqual(got[4], []any{4, 5, 6}) {
			t.Errorf("unexpected dict %v", got)
		}
	})

	t.Run("Dict Later Duplicates Overwrite", func(t *testing.T) {
		p, _ := NewMatrixConvert(Params{"output_format": FormatDict})
		out, err := p.Process(context.Background(), Matrix{{"k", 1}, {"k", 2}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.(map[any][]any)
		if !reflect.DeepEqual(got["k"], []any{"k", 2}) {
			t.Errorf("expected later row to win, got %v", got["k"])
		}
	})

	t.Run("Dict Rejects Non Comparable Keys", func(t *testing.T) {
		p, _ := NewMatrixConvert(Params{"output_format": FormatDict})
		_, err := p.Process(context.Background(), Matrix{{[]any{1, 2}, "x"}})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for a slice key cell, got %v", err)
		}
	})

	t.Run("JSON Keys Keep First Occurrence Order", func(t *testing.T) {
		p, _ := NewMatrixConvert(Params{"output_format": FormatJSON})
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"1": [1, 2, 3], "4": [4, 5, 6], "7": [7, 8, 9]}`
		if out != want {
			t.Errorf("expected %s, got %s", want, out)
		}
	})

	t.Run("JSON Quotes String Cells", func(t *testing.T) {
		p, _ := NewMatrixConvert(Params{"output_format": FormatJSON})
		out, err := p.Process(context.Background(), Matrix{{"a", "b"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a": ["a", "b"]}`
		if out != want {
			t.Errorf("expected %s, got %s", want, out)
		}
	})

	t.Run("CSV Quotes Only When Needed", func(t *testing.T) {
		p, _ := NewMatrixConvert(Params{"output_format": FormatCSV})
		out, err := p.Process(context.Background(), Matrix{
			{"plain", `say "hi"`},
			{"a,b", "line\nbreak"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "plain,\"say \"\"hi\"\"\"\n\"a,b\",\"line\nbreak\""
		if out != want {
			t.Errorf("expected %q, got %q", want, out)
		}
	})

	t.Run("Text With Custom Separators", func(t *testing.T) {
		p, _ := NewMatrixConvert(Params{
			"output_format": FormatText,
			"row_separator": "|",
			"col_separator": ",",
		})
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "1,2,3|4,5,6|7,8,9"
		if out != want {
			t.Errorf("expected %q, got %q", want, out)
		}
	})

	t.Run("Text Default Separators", func(t *testing.T) {
		p, _ := NewMatrixConvert(Params{"output_format": FormatText})
		out, err := p.Process(context.Background(), Matrix{{1, 2}, {3, 4}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "1\t2\n3\t4"
		if out != want {
			t.Errorf("expected %q, got %q", want, out)
		}
	})
}
