package foldpipe

import (
	"context"
	"strings"
)

var columnOperations = []string{OpGet, OpAdd, OpUpdate, OpDelete}

// MatrixColumn performs column-level operations on a Matrix, symmetric to
// MatrixRow across the second dimension:
//
//   - get: returns the column at index as a freshly built slice.
//   - add: appends a cell from the supplied column to every row, returning a
//     new Matrix. On an empty matrix it synthesizes one single-cell row per
//     supplied value.
//   - update: replaces the column at index, returning a new Matrix.
//   - delete: removes the column at index from every row, returning a new
//     Matrix.
type MatrixColumn struct {
	operation string
	index     int
	hasIndex  bool
	column    []any
	hasColumn bool
}

// NewMatrixColumn builds a column operator from params. Recognized keys:
// "operation" (required), "index" (get/update/delete), "column" (add/update).
func NewMatrixColumn(params Params) (*MatrixColumn, error) {
	op, ok := params.String("operation")
	if !ok || !contains(columnOperations, op) {
		return nil, &ParameterError{
			Processor: "matrix_col",
			Parameter: "operation",
			Value:     params["operation"],
			Expected:  "one of " + strings.Join(columnOperations, ", "),
		}
	}

	p := &MatrixColumn{operation: op}
	if idx, ok := params.Int("index"); ok {
		p.index = idx
		p.hasIndex = true
	}
	if raw, ok := params["column"]; ok {
		col, ok := asRow(raw)
		if !ok {
			return nil, &ParameterError{
				Processor: "matrix_col",
				Parameter: "column",
				Value:     raw,
				Expected:  "a sequence of cells",
			}
		}
		p.column = col
		p.hasColumn = true
	}
	return p, nil
}

// Name implements the Chainable interface.
func (p *MatrixColumn) Name() Name { return "matrix_col" }

// Process implements the Chainable interface.
func (p *MatrixColumn) Process(_ context.Context, input any) (any, error) {
	m, err := asMatrix("matrix_col", input)
	if err != nil {
		return nil, err
	}
	if err := ValidateMatrix("matrix_col", m); err != nil {
		return nil, err
	}

	switch p.operation {
	case OpGet:
		return p.get(m)
	case OpAdd:
		return p.add(m)
	case OpUpdate:
		return p.update(m)
	default:
		return p.delete(m)
	}
}

func (p *MatrixColumn) requireIndex() error {
	if !p.hasIndex {
		return &ParameterError{
			Processor: "matrix_col",
			Parameter: "index",
			Value:     nil,
			Expected:  "an index for the " + p.operation + " operation",
		}
	}
	return nil
}

func (p *MatrixColumn) requireColumn() error {
	if !p.hasColumn {
		return &ParameterError{
			Processor: "matrix_col",
			Parameter: "column",
			Value:     nil,
			Expected:  "column data for the " + p.operation + " operation",
		}
	}
	return nil
}

func (p *MatrixColumn) get(m Matrix) (any, error) {
	if err := p.requireIndex(); err != nil {
		return nil, err
	}
	if err := ValidateColumnIndex("matrix_col.get", m, p.index); err != nil {
		return nil, err
	}

	column := make([]any, len(m))
	for i, row := range m {
		column[i] = row[p.index]
	}
	return column, nil
}

func (p *MatrixColumn) add(m Matrix) (any, error) {
	if err := p.requireColumn(); err != nil {
		return nil, err
	}
	if err := ValidateColumnLength("matrix_col.add", m, p.column); err != nil {
		return nil, err
	}

	// Empty matrix: one single-cell row per supplied value.
	if len(m) == 0 {
		out := make(Matrix, len(p.column))
		for i, v := range p.column {
			out[i] = []any{v}
		}
		return out, nil
	}

	out := make(Matrix, len(m))
	for i, row := range m {
		newRow := make([]any, 0, len(row)+1)
		newRow = append(newRow, row...)
		newRow = append(newRow, p.column[i])
		out[i] = newRow
	}
	return out, nil
}

func (p *MatrixColumn) update(m Matrix) (any, error) {
	if err := p.requireIndex(); err != nil {
		return nil, err
	}
	if err := p.requireColumn(); err != nil {
		return nil, err
	}
	if err := ValidateColumnIndex("matrix_col.update", m, p.index); err != nil {
		return nil, err
	}
	if err := ValidateColumnLength("matrix_col.update", m, p.column); err != nil {
		return nil, err
	}

	out := m.Clone()
	for i := range out {
		out[i][p.index] = p.column[i]
	}
	return out, nil
}

func (p *MatrixColumn) delete(m Matrix) (any, error) {
	if err := p.requireIndex(); err != nil {
		return nil, err
	}
	if err := ValidateColumnIndex("matrix_col.delete", m, p.index); err != nil {
		return nil, err
	}

	out := make(Matrix, len(m))
	for i, row := range m {
		newRow := make([]any, 0, len(row)-1)
		for j, cell := range row {
			if j == p.index {
				continue
			}
			newRow = append(newRow, cell)
		}
		out[i] = newRow
	}
	return out, nil
}
