package foldpipe

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMatrixFilter(t *testing.T) {
	base := Matrix{
		{"alice", 30},
		{"bob", 25},
		{"carol", 35},
	}

	t.Run("Requires A Filtering Method", func(t *testing.T) {
		_, err := NewMatrixFilter(nil)
		if !errors.Is(err, ErrParameter) {
			t.Errorf("expected ErrParameter, got %v", err)
		}
	})

	t.Run("Unknown Condition Rejected", func(t *testing.T) {
		_, err := NewMatrixFilter(Params{"filter_condition": "matches_regex"})
		if !errors.Is(err, ErrParameter) {
			t.Errorf("expected ErrParameter, got %v", err)
		}
	})

	t.Run("Equals Is Existential Over Cells", func(t *testing.T) {
		p, err := NewMatrixFilter(Params{"filter_condition": FilterEquals, "filter_value": 25})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Matrix{{"bob", 25}}
		if !reflect.DeepEqual(out, want) {
			t.Errorf("expected %v, got %v", want, out)
		}
	})

	t.Run("Equals Crosses Numeric Widths", func(t *testing.T) {
		p, _ := NewMatrixFilter(Params{"filter_condition": FilterEquals, "filter_value": 25.0})
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.(Matrix)) != 1 {
			t.Errorf("expected one row, got %v", out)
		}
	})

	t.Run("Contains Uses String Forms", func(t *testing.T) {
		p, _ := NewMatrixFilter(Params{"filter_condition": FilterContains, "filter_value": "aro"})
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Matrix{{"carol", 35}}
		if !reflect.DeepEqual(out, want) {
			t.Errorf("expected %v, got %v", want, out)
		}
	})

	t.Run("Greater And Less", func(t *testing.T) {
		greater, _ := NewMatrixFilter(Params{"filter_condition": FilterGreater, "filter_value": 900})
		out, err := greater.Process(context.Background(), Matrix{{100}, {1000}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(out, Matrix{{1000}}) {
			t.Errorf("greater: got %v", out)
		}

		less, _ := NewMatrixFilter(Params{"filter_condition": FilterLess, "filter_value": 900})
		out, err = less.Process(context.Background(), Matrix{{100}, {1000}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(out, Matrix{{100}}) {
			t.Errorf("less: got %v", out)
		}
	})

	t.Run("Predicate Overrides Presets", func(t *testing.T) {
		p, err := NewMatrixFilter(Params{
			"predicate": func(row []any) bool {
				age, _ := row[1].(int)
				return age >= 30
			},
			"filter_condition": FilterEquals,
			"filter_value":     25,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.(Matrix)) != 2 {
			t.Errorf("predicate should override the preset, got %v", out)
		}
	})

	t.Run("Result Rows Do Not Alias Input", func(t *testing.T) {
		p, _ := NewMatrixFilter(Params{"filter_condition": FilterEquals, "filter_value": "alice"})
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.(Matrix)
		got[0][0] = "mallory"
		if base[0][0] != "alice" {
			t.Error("filter result must deep-copy kept rows")
		}
	})

	t.Run("No Matches Yields Empty Matrix", func(t *testing.T) {
		p, _ := NewMatrixFilter(Params{"filter_condition": FilterEquals, "filter_value": "nobody"})
		out, err := p.Process(context.Background(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.(Matrix)) != 0 {
			t.Errorf("expected empty result, got %v", out)
		}
	})
}
