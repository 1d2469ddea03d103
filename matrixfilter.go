package foldpipe

import (
	"context"
	"strings"
)

// Preset filter conditions for MatrixFilter.
const (
	FilterEquals   = "equals"
	FilterContains = "contains"
	FilterGreater  = "greater"
	FilterLess     = "less"
)

var filterConditions = []string{FilterEquals, FilterContains, FilterGreater, FilterLess}

// RowPredicate decides whether a row belongs in the filtered result.
type RowPredicate func(row []any) bool

// MatrixFilter returns a new Matrix containing only the rows that satisfy
// the configured condition. Quantification is existential: a row is kept when
// ANY of its cells satisfies the condition, not when all do.
//
// Preset conditions:
//   - equals: a cell equals the filter value (numeric cells compare by value)
//   - contains: a cell's string form contains the filter value's string form
//   - greater / less: a cell orders above/below the filter value
//
// A caller-supplied RowPredicate (params key "predicate") overrides the
// preset conditions and receives the whole row.
type MatrixFilter struct {
	predicate RowPredicate
	condition string
	value     any
}

// NewMatrixFilter builds a filter operator from params. Recognized keys:
// "predicate" (RowPredicate), "filter_condition" and "filter_value". At
// least one filtering method is required, and presets outside the closed set
// are rejected.
func NewMatrixFilter(params Params) (*MatrixFilter, error) {
	p := &MatrixFilter{}

	if raw, ok := params["predicate"]; ok {
		pred, ok := raw.(RowPredicate)
		if !ok {
			if fn, isFn := raw.(func(row []any) bool); isFn {
				pred = fn
			} else {
				return nil, &ParameterError{
					Processor: "matrix_filter",
					Parameter: "predicate",
					Value:     raw,
					Expected:  "a RowPredicate",
				}
			}
		}
		p.predicate = pred
	}

	if cond, ok := params.String("filter_condition"); ok {
		if !contains(filterConditions, cond) {
			return nil, &ParameterError{
				Processor: "matrix_filter",
				Parameter: "filter_condition",
				Value:     cond,
				Expected:  "one of " + strings.Join(filterConditions, ", "),
			}
		}
		p.condition = cond
		p.value = params["filter_value"]
	}

	if p.predicate == nil && p.condition == "" {
		return nil, &ParameterError{
			Processor: "matrix_filter",
			Parameter: "predicate or filter_condition",
			Value:     nil,
			Expected:  "at least one filtering method",
		}
	}
	return p, nil
}

// Name implements the Chainable interface.
func (p *MatrixFilter) Name() Name { return "matrix_filter" }

// Process implements the Chainable interface.
func (p *MatrixFilter) Process(_ context.Context, input any) (any, error) {
	m, err := asMatrix("matrix_filter", input)
	if err != nil {
		return nil, err
	}
	if err := ValidateMatrix("matrix_filter", m); err != nil {
		return nil, err
	}

	out := make(Matrix, 0, len(m))
	for _, row := range m {
		if p.includes(row) {
			out = append(out, append([]any(nil), row...))
		}
	}
	return out, nil
}

func (p *MatrixFilter) includes(row []any) bool {
	if p.predicate != nil {
		return p.predicate(row)
	}

	for _, cell := range row {
		switch p.condition {
		case FilterEquals:
			if cellsEqual(cell, p.value) {
				return true
			}
		case FilterContains:
			if strings.Contains(formatCell(cell), formatCell(p.value)) {
				return true
			}
		case FilterGreater:
			if compareCells(cell, p.value) > 0 {
				return true
			}
		case FilterLess:
			if compareCells(cell, p.value) < 0 {
				return true
			}
		}
	}
	return false
}
