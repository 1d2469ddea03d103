package foldpipe

import "context"

// MatrixTranspose returns a new Matrix in which cell (i, j) becomes cell
// (j, i). The empty matrix maps to the empty matrix, and applying the
// operator twice is the identity.
type MatrixTranspose struct{}

// NewMatrixTranspose builds a transpose operator. It takes no parameters.
func NewMatrixTranspose(Params) (*MatrixTranspose, error) {
	return &MatrixTranspose{}, nil
}

// Name implements the Chainable interface.
func (p *MatrixTranspose) Name() Name { return "matrix_transpose" }

// Process implements the Chainable interface.
func (p *MatrixTranspose) Process(_ context.Context, input any) (any, error) {
	m, err := asMatrix("matrix_transpose", input)
	if err != nil {
		return nil, err
	}
	if err := ValidateMatrix("matrix_transpose", m); err != nil {
		return nil, err
	}

	if len(m) == 0 {
		return Matrix{}, nil
	}

	rows, cols := len(m), len(m[0])
	out := make(Matrix, cols)
	for i := 0; i < cols; i++ {
		row := make([]any, rows)
		for j := 0; j < rows; j++ {
			row[j] = m[j][i]
		}
		out[i] = row
	}
	return out, nil
}
