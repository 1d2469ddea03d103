package foldpipe

import (
	"context"
	"sort"
)

// SortKey derives the sort key from the designated column's value.
type SortKey func(cell any) any

// MatrixSort returns a new Matrix with the rows stably sorted by the value in
// a designated column, ascending by default. Ties preserve the original
// relative row order. An optional SortKey is applied to the column value
// before comparison.
type MatrixSort struct {
	columnIndex int
	ascending   bool
	key         SortKey
}

// NewMatrixSort builds a sort operator from params. Recognized keys:
// "column_index" (default 0), "ascending" (default true) and "key" (SortKey).
func NewMatrixSort(params Params) (*MatrixSort, error) {
	p := &MatrixSort{ascending: true}

	if idx, ok := params.Int("column_index"); ok {
		p.columnIndex = idx
	} else if params.Has("column_index") {
		return nil, &ParameterError{
			Processor: "matrix_sort",
			Parameter: "column_index",
			Value:     params["column_index"],
			Expected:  "a column index",
		}
	}

	if asc, ok := params.Bool("ascending"); ok {
		p.ascending = asc
	}

	if raw, ok := params["key"]; ok {
		key, ok := raw.(SortKey)
		if !ok {
			if fn, isFn := raw.(func(cell any) any); isFn {
				key = fn
			} else {
				return nil, &ParameterError{
					Processor: "matrix_sort",
					Parameter: "key",
					Value:     raw,
					Expected:  "a SortKey",
				}
			}
		}
		p.key = key
	}
	return p, nil
}

// Name implements the Chainable interface.
func (p *MatrixSort) Name() Name { return "matrix_sort" }

// Process implements the Chainable interface.
func (p *MatrixSort) Process(_ context.Context, input any) (any, error) {
	m, err := asMatrix("matrix_sort", input)
	if err != nil {
		return nil, err
	}
	if err := ValidateMatrix("matrix_sort", m); err != nil {
		return nil, err
	}

	if len(m) <= 1 {
		return m.Clone(), nil
	}
	if err := ValidateColumnIndex("matrix_sort", m, p.columnIndex); err != nil {
		return nil, err
	}

	out := m.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		a := out[i][p.columnIndex]
		b := out[j][p.columnIndex]
		if p.key != nil {
			a = p.key(a)
			b = p.key(b)
		}
		if p.ascending {
			return compareCells(a, b) < 0
		}
		return compareCells(a, b) > 0
	})
	return out, nil
}
