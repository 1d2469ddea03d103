package foldpipe

import (
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
)

// Step is one entry of a pipeline specification: a registered processor name
// plus the named parameters its builder consumes. Params may be nil for
// processors that take none.
type Step struct {
	Name   Name
	Params Params
}

// Pipeline instantiates each step through the registry and composes the
// results into a Sequence, in step order. When cfg is non-nil every stage is
// wrapped in a Trace decorator; whether the decorators actually emit records
// is governed by cfg's enabled switch at call time.
func (r *Registry) Pipeline(name Name, cfg *LogConfig, steps ...Step) (*Sequence[any], error) {
	seq := NewSequence[any](name)
	for _, step := range steps {
		proc, err := r.Create(step.Name, step.Params)
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			seq.Register(NewTrace(proc, cfg))
		} else {
			seq.Register(proc)
		}
	}
	return seq, nil
}

// ProcessText builds a pipeline from steps and runs it on text.
func ProcessText(ctx context.Context, reg *Registry, cfg *LogConfig, text string, steps ...Step) (any, error) {
	pipe, err := reg.Pipeline("process_text", cfg, steps...)
	if err != nil {
		return nil, err
	}
	return pipe.Process(ctx, text)
}

// ProcessMatrix validates the matrix, builds a pipeline from steps, and runs
// it on the matrix.
func ProcessMatrix(ctx context.Context, reg *Registry, cfg *LogConfig, m Matrix, steps ...Step) (any, error) {
	if err := ValidateMatrix("process_matrix", m); err != nil {
		return nil, err
	}
	pipe, err := reg.Pipeline("process_matrix", cfg, steps...)
	if err != nil {
		return nil, err
	}
	return pipe.Process(ctx, m)
}

// File types accepted by ProcessFile. FileTypeAuto detects from the path's
// extension, falling back to sniffing the content.
const (
	FileTypeAuto = ""
	FileTypeText = "text"
	FileTypeCSV  = "csv"
)

// ProcessFile builds a pipeline that starts with the appropriate read stage
// and runs it on path. The caller-supplied steps always receive the file's
// already-read content (a string for text files, a Matrix for CSV), never the
// raw path.
func ProcessFile(ctx context.Context, reg *Registry, cfg *LogConfig, path, fileType string, steps ...Step) (any, error) {
	if path == "" {
		return nil, &InvalidInputError{Processor: "process_file", Expected: "a non-empty file path", Value: path}
	}

	if fileType == FileTypeAuto {
		fileType = detectFileType(path)
	}

	var read Step
	switch fileType {
	case FileTypeCSV:
		read = Step{Name: NameCSVFile}
	case FileTypeText:
		read = Step{Name: NameTextFile}
	default:
		return nil, &ParameterError{
			Processor: "process_file",
			Parameter: "file_type",
			Value:     fileType,
			Expected:  `"text", "csv", or empty for auto-detection`,
		}
	}

	full := append([]Step{read}, steps...)
	pipe, err := reg.Pipeline("process_file", cfg, full...)
	if err != nil {
		return nil, err
	}
	return pipe.Process(ctx, path)
}

// detectFileType maps a path to text or csv. Known extensions decide
// directly; anything else is sniffed - content with both a comma and a
// newline in its first kilobyte reads as CSV.
func detectFileType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".csv":
		return FileTypeCSV
	case contains(textExtensions, ext):
		return FileTypeText
	}

	content, err := readFile(path, nil)
	if err != nil {
		return FileTypeText
	}
	if len(content) > 1024 {
		content = content[:1024]
	}
	if strings.Contains(content, ",") && strings.Contains(content, "\n") {
		return FileTypeCSV
	}
	return FileTypeText
}

// MatrixToCSV renders a matrix as a CSV document with the given delimiter.
// Rows terminate with \r\n, the conventional line ending for CSV emitted at
// a system boundary.
func MatrixToCSV(m Matrix, delimiter rune) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Comma = delimiter
	w.UseCRLF = true

	for _, row := range m {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Single-operation matrix helpers, routed through the registry pipeline path
// like any other caller.

// GetRow returns row i of m.
func GetRow(ctx context.Context, reg *Registry, m Matrix, i int) ([]any, error) {
	out, err := ProcessMatrix(ctx, reg, nil, m,
		Step{Name: NameMatrixRow, Params: Params{"operation": OpGet, "index": i}})
	if err != nil {
		return nil, err
	}
	return out.([]any), nil
}

// AddRow appends row to m, returning a new matrix.
func AddRow(ctx context.Context, reg *Registry, m Matrix, row []any) (Matrix, error) {
	out, err := ProcessMatrix(ctx, reg, nil, m,
		Step{Name: NameMatrixRow, Params: Params{"operation": OpAdd, "row": row}})
	if err != nil {
		return nil, err
	}
	return out.(Matrix), nil
}

// UpdateRow replaces row i of m, returning a new matrix.
func UpdateRow(ctx context.Context, reg *Registry, m Matrix, i int, row []any) (Matrix, error) {
	out, err := ProcessMatrix(ctx, reg, nil, m,
		Step{Name: NameMatrixRow, Params: Params{"operation": OpUpdate, "index": i, "row": row}})
	if err != nil {
		return nil, err
	}
	return out.(Matrix), nil
}

// DeleteRow removes row i of m, returning a new matrix.
func DeleteRow(ctx context.Context, reg *Registry, m Matrix, i int) (Matrix, error) {
	out, err := ProcessMatrix(ctx, reg, nil, m,
		Step{Name: NameMatrixRow, Params: Params{"operation": OpDelete, "index": i}})
	if err != nil {
		return nil, err
	}
	return out.(Matrix), nil
}

// GetColumn returns column i of m.
func GetColumn(ctx context.Context, reg *Registry, m Matrix, i int) ([]any, error) {
	out, err := ProcessMatrix(ctx, reg, nil, m,
		Step{Name: NameMatrixCol, Params: Params{"operation": OpGet, "index": i}})
	if err != nil {
		return nil, err
	}
	return out.([]any), nil
}

// AddColumn appends column to m, returning a new matrix.
func AddColumn(ctx context.Context, reg *Registry, m Matrix, column []any) (Matrix, error) {
	out, err := ProcessMatrix(ctx, reg, nil, m,
		Step{Name: NameMatrixCol, Params: Params{"operation": OpAdd, "column": column}})
	if err != nil {
		return nil, err
	}
	return out.(Matrix), nil
}

// UpdateColumn replaces column i of m, returning a new matrix.
func UpdateColumn(ctx context.Context, reg *Registry, m Matrix, i int, column []any) (Matrix, error) {
	out, err := ProcessMatrix(ctx, reg, nil, m,
		Step{Name: NameMatrixCol, Params: Params{"operation": OpUpdate, "index": i, "column": column}})
	if err != nil {
		return nil, err
	}
	return out.(Matrix), nil
}

// DeleteColumn removes column i of m, returning a new matrix.
func DeleteColumn(ctx context.Context, reg *Registry, m Matrix, i int) (Matrix, error) {
	out, err := ProcessMatrix(ctx, reg, nil, m,
		Step{Name: NameMatrixCol, Params: Params{"operation": OpDelete, "index": i}})
	if err != nil {
		return nil, err
	}
	return out.(Matrix), nil
}

// GetElement returns the cell at (row, col) of m.
func GetElement(ctx context.Context, reg *Registry, m Matrix, row, col int) (any, error) {
	return ProcessMatrix(ctx, reg, nil, m,
		Step{Name: NameMatrixElement, Params: Params{"operation": OpGet, "row": row, "column": col}})
}

// UpdateElement replaces the cell at (row, col) of m, returning a new matrix.
func UpdateElement(ctx context.Context, reg *Registry, m Matrix, row, col int, value any) (Matrix, error) {
	out, err := ProcessMatrix(ctx, reg, nil, m,
		Step{Name: NameMatrixElement, Params: Params{"operation": OpUpdate, "row": row, "column": col, "value": value}})
	if err != nil {
		return nil, err
	}
	return out.(Matrix), nil
}
