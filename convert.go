package foldpipe

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
)

// Output formats for MatrixConvert.
const (
	FormatList = "list"
	FormatDict = "dict"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatText = "text"
)

var convertFormats = []string{FormatList, FormatDict, FormatJSON, FormatCSV, FormatText}

// Default separators for the text format.
const (
	defaultRowSeparator = "\n"
	defaultColSeparator = "\t"
)

// MatrixConvert renders a Matrix into another representation:
//
//   - list: a deep copy of the matrix.
//   - dict: first-column value → full row; later duplicate keys overwrite
//     earlier ones.
//   - json: the dict form encoded as a JSON object with string-quoted keys in
//     first-occurrence order, e.g. {"1": [1, 2, 3], "4": [4, 5, 6]}.
//   - csv: comma-joined cells, newline-joined rows; cells containing a comma,
//     quote or newline are quoted with internal quotes doubled.
//   - text: rows joined by a configurable row separator, cells within a row
//     joined by a configurable column separator.
type MatrixConvert struct {
	format       string
	rowSeparator string
	colSeparator string
}

// NewMatrixConvert builds a conversion operator from params. Recognized keys:
// "output_format" (default "list"), "row_separator" and "col_separator"
// (text format, default "\n" and "\t").
func NewMatrixConvert(params Params) (*MatrixConvert, error) {
	p := &MatrixConvert{
		format:       FormatList,
		rowSeparator: defaultRowSeparator,
		colSeparator: defaultColSeparator,
	}

	if format, ok := params.String("output_format"); ok {
		if !contains(convertFormats, format) {
			return nil, &ParameterError{
				Processor: "matrix_convert",
				Parameter: "output_format",
				Value:     format,
				Expected:  "one of " + strings.Join(convertFormats, ", "),
			}
		}
		p.format = format
	} else if params.Has("output_format") {
		return nil, &ParameterError{
			Processor: "matrix_convert",
			Parameter: "output_format",
			Value:     params["output_format"],
			Expected:  "a format name",
		}
	}

	if sep, ok := params.String("row_separator"); ok {
		p.rowSeparator = sep
	}
	if sep, ok := params.String("col_separator"); ok {
		p.colSeparator = sep
	}
	return p, nil
}

// Name implements the Chainable interface.
func (p *MatrixConvert) Name() Name { return "matrix_convert" }

// Process implements the Chainable interface.
func (p *MatrixConvert) Process(_ context.Context, input any) (any, error) {
	m, err := asMatrix("matrix_convert", input)
	if err != nil {
		return nil, err
	}
	if err := ValidateMatrix("matrix_convert", m); err != nil {
		return nil, err
	}

	switch p.format {
	case FormatList:
		return m.Clone(), nil
	case FormatDict:
		return p.toDict(m)
	case FormatJSON:
		return p.toJSON(m)
	case FormatCSV:
		return p.toCSV(m), nil
	default:
		return p.toText(m), nil
	}
}

// toDict maps each row's first cell to the full row. Later duplicates
// overwrite earlier ones. First cells must be comparable; a slice or map key
// cell would panic the map write.
func (p *MatrixConvert) toDict(m Matrix) (map[any][]any, error) {
	out := make(map[any][]any, len(m))
	for _, row := range m {
		if len(row) == 0 {
			continue
		}
		key := row[0]
		if kt := reflect.TypeOf(key); kt != nil && !kt.Comparable() {
			return nil, &InvalidInputError{
				Processor: "matrix_convert",
				Expected:  "a comparable first cell in every row",
				Value:     key,
			}
		}
		out[key] = append([]any(nil), row...)
	}
	return out, nil
}

// toJSON hand-assembles the object so keys keep first-occurrence order and
// the ": "/", " separators stay exact; encoding/json would sort map keys and
// drop the spaces.
func (p *MatrixConvert) toJSON(m Matrix) (string, error) {
	type entry struct {
		key string
		row []any
	}
	order := make([]string, 0, len(m))
	entries := make(map[string]entry, len(m))

	for _, row := range m {
		if len(row) == 0 {
			continue
		}
		key := formatCell(row[0])
		if _, seen := entries[key]; !seen {
			order = append(order, key)
		}
		entries[key] = entry{key: key, row: row}
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, key := range order {
		if i > 0 {
			b.WriteString(", ")
		}
		quoted, err := json.Marshal(key)
		if err != nil {
			return "", err
		}
		b.Write(quoted)
		b.WriteString(": [")
		for j, cell := range entries[key].row {
			if j > 0 {
				b.WriteString(", ")
			}
			encoded, err := json.Marshal(cell)
			if err != nil {
				return "", err
			}
			b.Write(encoded)
		}
		b.WriteByte(']')
	}
	b.WriteByte('}')
	return b.String(), nil
}

func (p *MatrixConvert) toCSV(m Matrix) string {
	rows := make([]string, len(m))
	for i, row := range m {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = escapeCSVCell(cell)
		}
		rows[i] = strings.Join(cells, ",")
	}
	return strings.Join(rows, "\n")
}

func (p *MatrixConvert) toText(m Matrix) string {
	rows := make([]string, len(m))
	for i, row := range m {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = formatCell(cell)
		}
		rows[i] = strings.Join(cells, p.colSeparator)
	}
	return strings.Join(rows, p.rowSeparator)
}

// escapeCSVCell quotes a cell only when its string form contains a comma,
// quote or newline, doubling internal quotes (RFC 4180 style).
func escapeCSVCell(cell any) string {
	s := formatCell(cell)
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
