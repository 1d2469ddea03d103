package foldpipe

import (
	"context"
	"strings"
)

// Operation kinds shared by the row, column and element operators.
const (
	OpGet    = "get"
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
)

var rowOperations = []string{OpGet, OpAdd, OpUpdate, OpDelete}

// MatrixRow performs row-level operations on a Matrix:
//
//   - get: returns the row at index. The row is a read-only view into the
//     input matrix; callers must not mutate it.
//   - add: appends a length-matching row, returning a new Matrix.
//   - update: replaces the row at index, returning a new Matrix.
//   - delete: removes the row at index, returning a new Matrix with the
//     remaining rows renumbered.
//
// The operation kind is validated at construction; index and row parameters
// are validated at Process time against the matrix actually supplied.
type MatrixRow struct {
	operation string
	index     int
	hasIndex  bool
	row       []any
	hasRow    bool
}

// NewMatrixRow builds a row operator from params. Recognized keys:
// "operation" (required), "index" (get/update/delete), "row" (add/update).
func NewMatrixRow(params Params) (*MatrixRow, error) {
	op, ok := params.String("operation")
	if !ok || !contains(rowOperations, op) {
		return nil, &ParameterError{
			Processor: "matrix_row",
			Parameter: "operation",
			Value:     params["operation"],
			Expected:  "one of " + strings.Join(rowOperations, ", "),
		}
	}

	p := &MatrixRow{operation: op}
	if idx, ok := params.Int("index"); ok {
		p.index = idx
		p.hasIndex = true
	}
	if raw, ok := params["row"]; ok {
		row, ok := asRow(raw)
		if !ok {
			return nil, &ParameterError{
				Processor: "matrix_row",
				Parameter: "row",
				Value:     raw,
				Expected:  "a sequence of cells",
			}
		}
		p.row = row
		p.hasRow = true
	}
	return p, nil
}

// Name implements the Chainable interface.
func (p *MatrixRow) Name() Name { return "matrix_row" }

// Process implements the Chainable interface.
func (p *MatrixRow) Process(_ context.Context, input any) (any, error) {
	m, err := asMatrix("matrix_row", input)
	if err != nil {
		return nil, err
	}
	if err := ValidateMatrix("matrix_row", m); err != nil {
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

func (p *MatrixRow) requireIndex() error {
	if !p.hasIndex {
		return &ParameterError{
			Processor: "matrix_row",
			Parameter: "index",
			Value:     nil,
			Expected:  "an index for the " + p.operation + " operation",
		}
	}
	return nil
}

func (p *MatrixRow) requireRow() error {
	if !p.hasRow {
		return &ParameterError{
			Processor: "matrix_row",
			Parameter: "row",
			Value:     nil,
			Expected:  "row data for the " + p.operation + " operation",
		}
	}
	return nil
}

func (p *MatrixRow) get(m Matrix) (any, error) {
	if err := p.requireIndex(); err != nil {
		return nil, err
	}
	if err := ValidateRowIndex("matrix_row.get", m, p.index); err != nil {
		return nil, err
	}
	return m[p.index], nil
}

func (p *MatrixRow) add(m Matrix) (any, error) {
	if err := p.requireRow(); err != nil {
		return nil, err
	}
	if err := ValidateRowLength("matrix_row.add", m, p.row); err != nil {
		return nil, err
	}

	out := m.Clone()
	out = append(out, append([]any(nil), p.row...))
	return out, nil
}

func (p *MatrixRow) update(m Matrix) (any, error) {
	if err := p.requireIndex(); err != nil {
		return nil, err
	}
	if err := p.requireRow(); err != nil {
		return nil, err
	}
	if err := ValidateRowIndex("matrix_row.update", m, p.index); err != nil {
		return nil, err
	}
	if err := ValidateRowLength("matrix_row.update", m, p.row); err != nil {
		return nil, err
	}

	out := m.Clone()
	out[p.index] = append([]any(nil), p.row...)
	return out, nil
}

func (p *MatrixRow) delete(m Matrix) (any, error) {
	if err := p.requireIndex(); err != nil {
		return nil, err
	}
	if err := ValidateRowIndex("matrix_row.delete", m, p.index); err != nil {
		return nil, err
	}

	out := make(Matrix, 0, len(m)-1)
	for i, row := range m {
		if i == p.index {
			continue
		}
		out = append(out, append([]any(nil), row...))
	}
	return out, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
