package foldpipe

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateMatrix(t *testing.T) {
	t.Run("Rectangular Passes", func(t *testing.T) {
		m := Matrix{{1, 2}, {3, 4}}
		if err := ValidateMatrix("test", m); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Empty Passes", func(t *testing.T) {
		if err := ValidateMatrix("test", Matrix{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Ragged Fails With Offending Row", func(t *testing.T) {
		m := Matrix{{1, 2}, {3}, {4, 5}}
		err := ValidateMatrix("test", m)
		if !errors.Is(err, ErrMatrixValidation) {
			t.Fatalf("expected ErrMatrixValidation, got %v", err)
		}

		var vErr *MatrixValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected *MatrixValidationError, got %T", err)
		}
		if vErr.Row != 1 {
			t.Errorf("expected offending row 1, got %d", vErr.Row)
		}
	})
}

func TestValidateIndices(t *testing.T) {
	m := Matrix{{1, 2, 3}, {4, 5, 6}}

	t.Run("Row Bounds", func(t *testing.T) {
		if err := ValidateRowIndex("test", m, 1); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		for _, i := range []int{-1, 2} {
			err := ValidateRowIndex("test", m, i)
			if !errors.Is(err, ErrIndexOutOfBounds) {
				t.Errorf("index %d: expected ErrIndexOutOfBounds, got %v", i, err)
			}
			var oob *IndexOutOfBoundsError
			if !errors.As(err, &oob) || oob.Dimension != DimRow || oob.Size != 2 {
				t.Errorf("index %d: unexpected payload %+v", i, oob)
			}
		}
	})

	t.Run("Column Bounds", func(t *testing.T) {
		if err := ValidateColumnIndex("test", m, 2); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		err := ValidateColumnIndex("test", m, 3)
		var oob *IndexOutOfBoundsError
		if !errors.As(err, &oob) || oob.Dimension != DimColumn || oob.Size != 3 {
			t.Errorf("unexpected payload %+v", oob)
		}
	})

	t.Run("Column Bounds Vacuous On Empty", func(t *testing.T) {
		if err := ValidateColumnIndex("test", Matrix{}, 99); err != nil {
			t.Errorf("empty matrix has no column bounds, got %v", err)
		}
	})

	t.Run("Element Checks Row Then Column", func(t *testing.T) {
		err := ValidateElementIndex("test", m, 5, 5)
		var oob *IndexOutOfBoundsError
		if !errors.As(err, &oob) || oob.Dimension != DimRow {
			t.Errorf("row violation should be reported first, got %+v", oob)
		}
	})
}

func TestValidateLengths(t *testing.T) {
	m := Matrix{{1, 2, 3}, {4, 5, 6}}

	t.Run("Row Length Mismatch", func(t *testing.T) {
		err := ValidateRowLength("test", m, []any{1, 2})
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Fatalf("expected ErrDimensionMismatch, got %v", err)
		}
		var dim *DimensionMismatchError
		if !errors.As(err, &dim) || dim.Expected != 3 || dim.Actual != 2 {
			t.Errorf("unexpected payload %+v", dim)
		}
	})

	t.Run("Column Length Mismatch", func(t *testing.T) {
		err := ValidateColumnLength("test", m, []any{1})
		var dim *DimensionMismatchError
		if !errors.As(err, &dim) || dim.Expected != 2 || dim.Actual != 1 {
			t.Errorf("unexpected payload %+v", dim)
		}
	})

	t.Run("Skipped On Empty Matrix", func(t *testing.T) {
		if err := ValidateRowLength("test", Matrix{}, []any{1, 2, 3, 4}); err != nil {
			t.Errorf("first row fixes the shape, got %v", err)
		}
		if err := ValidateColumnLength("test", Matrix{}, []any{1}); err != nil {
			t.Errorf("first column fixes the shape, got %v", err)
		}
	})
}

func TestMatrixClone(t *testing.T) {
	m := Matrix{{1, 2}, {3, 4}}
	c := m.Clone()
	c[0][0] = 99

	if m[0][0] != 1 {
		t.Error("clone must not alias the original rows")
	}
	if m.Rows() != 2 || m.Cols() != 2 {
		t.Errorf("unexpected shape %dx%d", m.Rows(), m.Cols())
	}
	if (Matrix{}).Cols() != 0 {
		t.Error("empty matrix has zero columns")
	}
}

func TestCompareCells(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want int
	}{
		{"Ints", 1, 2, -1},
		{"Int Float Cross", 2, 1.5, 1},
		{"Equal Numerics", int64(3), 3.0, 0},
		{"Strings", "apple", "banana", -1},
		{"Numeric String Lexical Fallback", 10, "5", -1},
		{"Bools Fall Back To Sprint", false, true, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := compareCells(tc.a, tc.b)
			switch {
			case tc.want < 0 && got >= 0:
				t.Errorf("compareCells(%v, %v) = %d, want negative", tc.a, tc.b, got)
			case tc.want == 0 && got != 0:
				t.Errorf("compareCells(%v, %v) = %d, want zero", tc.a, tc.b, got)
			case tc.want > 0 && got <= 0:
				t.Errorf("compareCells(%v, %v) = %d, want positive", tc.a, tc.b, got)
			}
		})
	}
}

func TestCellsEqual(t *testing.T) {
	if !cellsEqual(2, 2.0) {
		t.Error("numerically equal cells of different widths should match")
	}
	if cellsEqual(2, "2") {
		t.Error("a number never equals a string")
	}
	if !cellsEqual("a", "a") {
		t.Error("identical strings should match")
	}
}

func TestAsMatrix(t *testing.T) {
	t.Run("String Rows Convert", func(t *testing.T) {
		m, err := asMatrix("test", [][]string{{"a", "b"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(m, Matrix{{"a", "b"}}) {
			t.Errorf("unexpected conversion %v", m)
		}
	})

	t.Run("Non Matrix Rejected", func(t *testing.T) {
		_, err := asMatrix("test", "not a matrix")
		if !errors.Is(err, ErrMatrixValidation) {
			t.Errorf("expected ErrMatrixValidation, got %v", err)
		}
		_, err = asMatrix("test", nil)
		if !errors.Is(err, ErrMatrixValidation) {
			t.Errorf("nil input: expected ErrMatrixValidation, got %v", err)
		}
	})
}
