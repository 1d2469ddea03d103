package foldpipe

import (
	"context"
	"strings"
)

var elementOperations = []string{OpGet, OpUpdate}

// MatrixElement performs cell-level operations on a Matrix:
//
//   - get: returns the cell at (row, column).
//   - update: returns a new Matrix with the cell at (row, column) replaced.
type MatrixElement struct {
	operation string
	row       int
	column    int
	value     any
	hasValue  bool
}

// NewMatrixElement builds an element operator from params. Recognized keys:
// "operation" (required), "row", "column" (both required), "value" (update).
func NewMatrixElement(params Params) (*MatrixElement, error) {
	op, ok := params.String("operation")
	if !ok || !contains(elementOperations, op) {
		return nil, &ParameterError{
			Processor: "matrix_element",
			Parameter: "operation",
			Value:     params["operation"],
			Expected:  "one of " + strings.Join(elementOperations, ", "),
		}
	}

	row, ok := params.Int("row")
	if !ok {
		return nil, &ParameterError{
			Processor: "matrix_element",
			Parameter: "row",
			Value:     params["row"],
			Expected:  "a row index",
		}
	}
	column, ok := params.Int("column")
	if !ok {
		return nil, &ParameterError{
			Processor: "matrix_element",
			Parameter: "column",
			Value:     params["column"],
			Expected:  "a column index",
		}
	}

	p := &MatrixElement{operation: op, row: row, column: column}
	if v, ok := params["value"]; ok {
		p.value = v
		p.hasValue = true
	}
	return p, nil
}

// Name implements the Chainable interface.
func (p *MatrixElement) Name() Name { return "matrix_element" }

// Process implements the Chainable interface.
func (p *MatrixElement) Process(_ context.Context, input any) (any, error) {
	m, err := asMatrix("matrix_element", input)
	if err != nil {
		return nil, err
	}
	if err := ValidateMatrix("matrix_element", m); err != nil {
		return nil, err
	}

	if p.operation == OpGet {
		if err := ValidateElementIndex("matrix_element.get", m, p.row, p.column); err != nil {
			return nil, err
		}
		return m[p.row][p.column], nil
	}

	if !p.hasValue {
		return nil, &ParameterError{
			Processor: "matrix_element",
			Parameter: "value",
			Value:     nil,
			Expected:  "a value for the update operation",
		}
	}
	if err := ValidateElementIndex("matrix_element.update", m, p.row, p.column); err != nil {
		return nil, err
	}

	out := m.Clone()
	out[p.row][p.column] = p.value
	return out, nil
}
