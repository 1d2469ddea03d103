package foldpipe

import "fmt"

// Stateless shape checks shared by every matrix operator. Each is pure and
// side-effect-free; operators call the relevant subset at the start of
// Process, so malformed input is rejected before any allocation.

// ValidateMatrix fails with a *MatrixValidationError unless every row has the
// same length as row 0. An empty matrix trivially passes.
func ValidateMatrix(op string, m Matrix) error {
	if len(m) == 0 {
		return nil
	}
	want := len(m[0])
	for i, row := range m[1:] {
		if len(row) != want {
			return &MatrixValidationError{
				Op:     op,
				Reason: fmt.Sprintf("row length %d differs from first row length %d", len(row), want),
				Row:    i + 1,
			}
		}
	}
	return nil
}

// ValidateRowIndex fails with an *IndexOutOfBoundsError when i is negative or
// beyond the row count.
func ValidateRowIndex(op string, m Matrix, i int) error {
	if i < 0 || i >= len(m) {
		return &IndexOutOfBoundsError{Op: op, Index: i, Size: len(m), Dimension: DimRow}
	}
	return nil
}

// ValidateColumnIndex fails with an *IndexOutOfBoundsError when i is negative
// or beyond the first row's length. Vacuously valid on an empty matrix, which
// has no defined column count.
func ValidateColumnIndex(op string, m Matrix, i int) error {
	if len(m) == 0 {
		return nil
	}
	if i < 0 || i >= len(m[0]) {
		return &IndexOutOfBoundsError{Op: op, Index: i, Size: len(m[0]), Dimension: DimColumn}
	}
	return nil
}

// ValidateElementIndex checks the row index, then the column index.
func ValidateElementIndex(op string, m Matrix, row, col int) error {
	if err := ValidateRowIndex(op, m, row); err != nil {
		return err
	}
	return ValidateColumnIndex(op, m, col)
}

// ValidateRowLength fails with a *DimensionMismatchError when the candidate
// row's length differs from the matrix's column count. Skipped entirely on an
// empty matrix - there is no shape to match against.
func ValidateRowLength(op string, m Matrix, row []any) error {
	if len(m) == 0 {
		return nil
	}
	if len(row) != len(m[0]) {
		return &DimensionMismatchError{Op: op, Expected: len(m[0]), Actual: len(row), Dimension: DimColumn}
	}
	return nil
}

// ValidateColumnLength fails with a *DimensionMismatchError when the
// candidate column's length differs from the matrix's row count. Skipped on
// an empty matrix.
func ValidateColumnLength(op string, m Matrix, col []any) error {
	if len(m) == 0 {
		return nil
	}
	if len(col) != len(m) {
		return &DimensionMismatchError{Op: op, Expected: len(m), Actual: len(col), Dimension: DimRow}
	}
	return nil
}
