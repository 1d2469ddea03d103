package foldpipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File-domain processors. Each takes a path (or directory) as its input value
// and produces a string, Matrix, or metadata map. Any failure surfaces as a
// *FileReadError so pipeline callers can match the whole layer with
// errors.Is(err, ErrFileRead).

var (
	textExtensions     = []string{".txt", ".md", ".log", ".json", ".xml", ".yml", ".yaml"}
	readableExtensions = []string{".txt", ".md", ".log", ".csv", ".json", ".xml", ".yml", ".yaml"}
	csvExtensions      = []string{".csv"}
)

// readFile validates the extension against allowed (empty list allows
// everything), then reads the file.
func readFile(path string, allowed []string) (string, error) {
	if len(allowed) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		if !contains(allowed, ext) {
			return "", &FileReadError{
				Path: path,
				Err:  fmt.Errorf("unsupported file type %q (supported: %s)", ext, strings.Join(allowed, ", ")),
			}
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", &FileReadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &FileReadError{Path: path, Err: fmt.Errorf("path is a directory, not a file")}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &FileReadError{Path: path, Err: err}
	}
	return string(data), nil
}

// TextFile reads a text file's content as a string. Only text-like
// extensions are accepted.
type TextFile struct{}

// NewTextFile builds a text file reader. It takes no parameters.
func NewTextFile(Params) (*TextFile, error) {
	return &TextFile{}, nil
}

// Name implements the Chainable interface.
func (p *TextFile) Name() Name { return "text_file" }

// Process implements the Chainable interface.
func (p *TextFile) Process(_ context.Context, input any) (any, error) {
	path, ok := input.(string)
	if !ok {
		return nil, &InvalidInputError{Processor: "text_file", Expected: "a file path", Value: input}
	}
	return readFile(path, textExtensions)
}

// FileToText reads any known text-like file (including CSV) as a string.
type FileToText struct{}

// NewFileToText builds a content reader. It takes no parameters.
func NewFileToText(Params) (*FileToText, error) {
	return &FileToText{}, nil
}

// Name implements the Chainable interface.
func (p *FileToText) Name() Name { return "file_to_text" }

// Process implements the Chainable interface.
func (p *FileToText) Process(_ context.Context, input any) (any, error) {
	path, ok := input.(string)
	if !ok {
		return nil, &InvalidInputError{Processor: "file_to_text", Expected: "a file path", Value: input}
	}
	return readFile(path, readableExtensions)
}

// CSVFile reads a CSV file into a Matrix.
type CSVFile struct {
	delimiter rune
	hasHeader bool
}

// NewCSVFile builds a CSV file reader from params. Recognized keys:
// "delimiter" (single-character string, default ",") and "has_header"
// (default false).
func NewCSVFile(params Params) (*CSVFile, error) {
	delim, err := delimiterParam("csv_file", params)
	if err != nil {
		return nil, err
	}
	hasHeader, _ := params.Bool("has_header")
	return &CSVFile{delimiter: delim, hasHeader: hasHeader}, nil
}

// Name implements the Chainable interface.
func (p *CSVFile) Name() Name { return "csv_file" }

// Process implements the Chainable interface.
func (p *CSVFile) Process(_ context.Context, input any) (any, error) {
	path, ok := input.(string)
	if !ok {
		return nil, &InvalidInputError{Processor: "csv_file", Expected: "a file path", Value: input}
	}

	content, err := readFile(path, csvExtensions)
	if err != nil {
		return nil, err
	}
	m, err := parseCSVContent(content, p.delimiter, p.hasHeader, 0)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	return m, nil
}

// CSVToMatrixFile reads a CSV file into a Matrix, optionally skipping leading
// rows before the header.
type CSVToMatrixFile struct {
	delimiter rune
	hasHeader bool
	skipRows  int
}

// NewCSVToMatrixFile builds the reader from params. Recognized keys:
// "delimiter", "has_header", "skip_rows".
func NewCSVToMatrixFile(params Params) (*CSVToMatrixFile, error) {
	delim, err := delimiterParam("csv_to_matrix_file", params)
	if err != nil {
		return nil, err
	}
	hasHeader, _ := params.Bool("has_header")
	skip, _ := params.Int("skip_rows")
	if skip < 0 {
		return nil, &ParameterError{
			Processor: "csv_to_matrix_file",
			Parameter: "skip_rows",
			Value:     skip,
			Expected:  "a non-negative count",
		}
	}
	return &CSVToMatrixFile{delimiter: delim, hasHeader: hasHeader, skipRows: skip}, nil
}

// Name implements the Chainable interface.
func (p *CSVToMatrixFile) Name() Name { return "csv_to_matrix_file" }

// Process implements the Chainable interface.
func (p *CSVToMatrixFile) Process(_ context.Context, input any) (any, error) {
	path, ok := input.(string)
	if !ok {
		return nil, &InvalidInputError{Processor: "csv_to_matrix_file", Expected: "a file path", Value: input}
	}

	content, err := readFile(path, csvExtensions)
	if err != nil {
		return nil, err
	}
	m, err := parseCSVContent(content, p.delimiter, p.hasHeader, p.skipRows)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	return m, nil
}

// CSVExtract reads one column from a CSV file, as space-joined text or as a
// list of cell strings.
type CSVExtract struct {
	columnIndex int
	delimiter   rune
	hasHeader   bool
	format      string
}

// NewCSVExtract builds a column extractor from params. Recognized keys:
// "column_index" (default 0), "delimiter", "has_header" and "output_format"
// ("text" or "list", default "text").
func NewCSVExtract(params Params) (*CSVExtract, error) {
	delim, err := delimiterParam("csv_extract", params)
	if err != nil {
		return nil, err
	}

	p := &CSVExtract{delimiter: delim, format: "text"}
	if idx, ok := params.Int("column_index"); ok {
		p.columnIndex = idx
	}
	p.hasHeader, _ = params.Bool("has_header")

	if format, ok := params.String("output_format"); ok {
		if format != "text" && format != "list" {
			return nil, &ParameterError{
				Processor: "csv_extract",
				Parameter: "output_format",
				Value:     format,
				Expected:  `"text" or "list"`,
			}
		}
		p.format = format
	}
	return p, nil
}

// Name implements the Chainable interface.
func (p *CSVExtract) Name() Name { return "csv_extract" }

// Process implements the Chainable interface.
func (p *CSVExtract) Process(_ context.Context, input any) (any, error) {
	path, ok := input.(string)
	if !ok {
		return nil, &InvalidInputError{Processor: "csv_extract", Expected: "a file path", Value: input}
	}

	content, err := readFile(path, csvExtensions)
	if err != nil {
		return nil, err
	}
	rows, err := parseCSVContent(content, p.delimiter, p.hasHeader, 0)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}

	column := make([]string, 0, len(rows))
	for _, row := range rows {
		if p.columnIndex < len(row) {
			column = append(column, formatCell(row[p.columnIndex]))
		}
	}

	if p.format == "text" {
		return strings.Join(column, " "), nil
	}
	return column, nil
}

// MultiColumnCSV reads selected columns from a CSV file into a Matrix.
// Columns are chosen by index or, when the file has a header, by name.
// With neither configured, every column is kept.
type MultiColumnCSV struct {
	columns     []int
	columnNames []string
	delimiter   rune
	hasHeader   bool
}

// NewMultiColumnCSV builds the reader from params. Recognized keys:
// "columns" (index list), "column_names" (header names), "delimiter" and
// "has_header" (default true).
func NewMultiColumnCSV(params Params) (*MultiColumnCSV, error) {
	delim, err := delimiterParam("multi_column_csv", params)
	if err != nil {
		return nil, err
	}

	p := &MultiColumnCSV{delimiter: delim, hasHeader: true}
	if h, ok := params.Bool("has_header"); ok {
		p.hasHeader = h
	}

	if raw, ok := params.Slice("columns"); ok {
		for _, e := range raw {
			idx, ok := Params{"i": e}.Int("i")
			if !ok {
				return nil, &ParameterError{
					Processor: "multi_column_csv",
					Parameter: "columns",
					Value:     raw,
					Expected:  "a list of column indexes",
				}
			}
			p.columns = append(p.columns, idx)
		}
	}
	if raw, ok := params.Slice("column_names"); ok {
		for _, e := range raw {
			s, ok := e.(string)
			if !ok {
				return nil, &ParameterError{
					Processor: "multi_column_csv",
					Parameter: "column_names",
					Value:     raw,
					Expected:  "a list of header names",
				}
			}
			p.columnNames = append(p.columnNames, s)
		}
	}
	return p, nil
}

// Name implements the Chainable interface.
func (p *MultiColumnCSV) Name() Name { return "multi_column_csv" }

// Process implements the Chainable interface.
func (p *MultiColumnCSV) Process(_ context.Context, input any) (any, error) {
	path, ok := input.(string)
	if !ok {
		return nil, &InvalidInputError{Processor: "multi_column_csv", Expected: "a file path", Value: input}
	}

	content, err := readFile(path, csvExtensions)
	if err != nil {
		return nil, err
	}
	rows, header, err := parseCSVWithHeader(content, p.delimiter, p.hasHeader)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}

	indices, err := p.targetIndices(header)
	if err != nil {
		return nil, err
	}

	out := make(Matrix, 0, len(rows))
	for _, row := range rows {
		if len(indices) == 0 {
			out = append(out, append([]any(nil), row...))
			continue
		}
		selected := make([]any, 0, len(indices))
		for _, i := range indices {
			if i < len(row) {
				selected = append(selected, row[i])
			}
		}
		out = append(out, selected)
	}
	return out, nil
}

func (p *MultiColumnCSV) targetIndices(header []string) ([]int, error) {
	if len(p.columns) > 0 {
		return p.columns, nil
	}
	if len(p.columnNames) == 0 {
		return nil, nil
	}

	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[name] = i
	}
	indices := make([]int, 0, len(p.columnNames))
	for _, name := range p.columnNames {
		i, ok := byName[name]
		if !ok {
			return nil, &InvalidInputError{
				Processor: "multi_column_csv",
				Expected:  fmt.Sprintf("header containing column %q", name),
				Value:     header,
			}
		}
		indices = append(indices, i)
	}
	return indices, nil
}

// Metadata fields FileMetadata can extract.
const (
	MetaSize      = "size"
	MetaModified  = "modified"
	MetaCreated   = "created"
	MetaExtension = "extension"
	MetaType      = "type"
)

// FileMetadata extracts filesystem metadata for a path into a map. Unknown
// requested fields map to nil.
type FileMetadata struct {
	fields []string
}

// NewFileMetadata builds a metadata extractor from params. Recognized key:
// "metadata_fields" (default: size, modified).
func NewFileMetadata(params Params) (*FileMetadata, error) {
	p := &FileMetadata{fields: []string{MetaSize, MetaModified}}
	if raw, ok := params.Slice("metadata_fields"); ok {
		p.fields = p.fields[:0]
		for _, e := range raw {
			s, ok := e.(string)
			if !ok {
				return nil, &ParameterError{
					Processor: "file_metadata",
					Parameter: "metadata_fields",
					Value:     raw,
					Expected:  "a list of field names",
				}
			}
			p.fields = append(p.fields, s)
		}
	}
	return p, nil
}

// Name implements the Chainable interface.
func (p *FileMetadata) Name() Name { return "file_metadata" }

// Process implements the Chainable interface.
func (p *FileMetadata) Process(_ context.Context, input any) (any, error) {
	path, ok := input.(string)
	if !ok {
		return nil, &InvalidInputError{Processor: "file_metadata", Expected: "a file path", Value: input}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}

	metadata := make(map[string]any, len(p.fields))
	for _, field := range p.fields {
		switch field {
		case MetaSize:
			metadata[MetaSize] = info.Size()
		case MetaModified:
			metadata[MetaModified] = info.ModTime()
		case MetaCreated:
			// os.FileInfo carries no portable creation time.
			metadata[MetaCreated] = info.ModTime()
		case MetaExtension:
			metadata[MetaExtension] = filepath.Ext(path)
		case MetaType:
			if info.IsDir() {
				metadata[MetaType] = "directory"
			} else {
				metadata[MetaType] = "file"
			}
		default:
			metadata[field] = nil
		}
	}
	return metadata, nil
}

// FileFilter decides whether a directory entry participates in a batch run.
type FileFilter func(path string) bool

// BatchFiles applies a content processor to every regular file in a
// directory, returning a map from path to result. Per-file failures are
// recorded in the map as errors rather than aborting the batch; only a
// failure to read the directory itself is fatal.
type BatchFiles struct {
	processor Chainable[any]
	filter    FileFilter
}

// NewBatchFiles builds a batch processor from params. Recognized keys:
// "processor" (Chainable[any] applied to each file's content; optional) and
// "filter" (FileFilter; optional).
func NewBatchFiles(params Params) (*BatchFiles, error) {
	p := &BatchFiles{}

	if raw, ok := params["processor"]; ok {
		proc, ok := raw.(Chainable[any])
		if !ok {
			return nil, &ParameterError{
				Processor: "batch_processor",
				Parameter: "processor",
				Value:     raw,
				Expected:  "a Chainable[any] content processor",
			}
		}
		p.processor = proc
	}
	if raw, ok := params["filter"]; ok {
		filter, ok := raw.(FileFilter)
		if !ok {
			if fn, isFn := raw.(func(path string) bool); isFn {
				filter = fn
			} else {
				return nil, &ParameterError{
					Processor: "batch_processor",
					Parameter: "filter",
					Value:     raw,
					Expected:  "a FileFilter",
				}
			}
		}
		p.filter = filter
	}
	return p, nil
}

// Name implements the Chainable interface.
func (p *BatchFiles) Name() Name { return "batch_processor" }

// Process implements the Chainable interface.
func (p *BatchFiles) Process(ctx context.Context, input any) (any, error) {
	dir, ok := input.(string)
	if !ok {
		return nil, &InvalidInputError{Processor: "batch_processor", Expected: "a directory path", Value: input}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &FileReadError{Path: dir, Err: err}
	}

	results := make(map[string]any)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if p.filter != nil && !p.filter(path) {
			continue
		}
		if p.processor == nil {
			results[path] = nil
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			results[path] = &FileReadError{Path: path, Err: err}
			continue
		}
		processed, err := p.processor.Process(ctx, string(data))
		if err != nil {
			results[path] = err
			continue
		}
		results[path] = processed
	}
	return results, nil
}

// delimiterParam reads the optional single-character "delimiter" key.
func delimiterParam(processor Name, params Params) (rune, error) {
	s, ok := params.String("delimiter")
	if !ok {
		if params.Has("delimiter") {
			return 0, &ParameterError{
				Processor: processor,
				Parameter: "delimiter",
				Value:     params["delimiter"],
				Expected:  "a single-character string",
			}
		}
		return ',', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, &ParameterError{
			Processor: processor,
			Parameter: "delimiter",
			Value:     s,
			Expected:  "a single-character string",
		}
	}
	return runes[0], nil
}
