package foldpipe

import (
	"fmt"
	"strings"
)

// Matrix is a rectangular table represented as an ordered sequence of ordered
// rows. Cells are arbitrary values; columns are expected to hold meaningfully
// comparable values when filtered or sorted. An empty Matrix (zero rows) is
// valid and has no defined column count.
//
// Operators receive a Matrix by reference but never mutate it: every mutating
// operation allocates and returns a new Matrix, so the input stays valid for
// reuse and concurrent reads of a shared Matrix are always safe.
type Matrix [][]any

// Clone returns a deep row copy. Cell values themselves are copied by
// assignment; rows never alias the original.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]any(nil), row...)
	}
	return out
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the column count, defined by the first row. Zero for an empty
// Matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// asMatrix coerces a pipeline value into a Matrix. Accepts Matrix, [][]any
// and [][]string (the shape CSV readers produce). The coercion shares rows
// where possible; operators copy before mutating anyway.
func asMatrix(op string, v any) (Matrix, error) {
	switch t := v.(type) {
	case Matrix:
		return t, nil
	case [][]any:
		return Matrix(t), nil
	case [][]string:
		out := make(Matrix, len(t))
		for i, row := range t {
			cells := make([]any, len(row))
			for j, cell := range row {
				cells[j] = cell
			}
			out[i] = cells
		}
		return out, nil
	case nil:
		return nil, &MatrixValidationError{Op: op, Reason: "input is nil, not a matrix", Row: -1}
	default:
		return nil, &MatrixValidationError{Op: op, Reason: fmt.Sprintf("input of type %T is not a matrix", v), Row: -1}
	}
}

// asRow coerces a parameter value into a row ([]any).
func asRow(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out, true
	case []int:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out, true
	case []int64:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out, true
	case []float64:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out, true
	}
	return nil, false
}

// formatCell renders a cell for text, CSV and dict-key purposes.
func formatCell(v any) string {
	return fmt.Sprint(v)
}

// compareCells imposes a total, deterministic order over cell values:
// numbers compare numerically (ints and floats cross-compare), strings
// lexically, and anything else falls back to comparing string forms. Returns
// a negative value, zero, or a positive value.
func compareCells(a, b any) int {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}

	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs)
	}

	return strings.Compare(formatCell(a), formatCell(b))
}

// cellsEqual reports value equality for the filter's equals condition,
// treating numerically equal cells of different widths as equal.
func cellsEqual(a, b any) bool {
	if an, ok := asNumber(a); ok {
		if bn, ok := asNumber(b); ok {
			return an == bn
		}
		return false
	}
	return a == b
}

// asNumber widens any built-in numeric cell to float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
