package foldpipe

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVContent parses an already-read CSV string into a Matrix. It is the
// boundary between the file layer (which produces strings) and the matrix
// operators (which consume tables).
type CSVContent struct {
	delimiter rune
	hasHeader bool
}

// NewCSVContent builds a content parser from params. Recognized keys:
// "delimiter" (default ",") and "has_header" (default false).
func NewCSVContent(params Params) (*CSVContent, error) {
	delim, err := delimiterParam("csv_content_to_matrix", params)
	if err != nil {
		return nil, err
	}
	hasHeader, _ := params.Bool("has_header")
	return &CSVContent{delimiter: delim, hasHeader: hasHeader}, nil
}

// Name implements the Chainable interface.
func (p *CSVContent) Name() Name { return "csv_content_to_matrix" }

// Process implements the Chainable interface.
func (p *CSVContent) Process(_ context.Context, input any) (any, error) {
	content, ok := input.(string)
	if !ok {
		return nil, &InvalidInputError{Processor: "csv_content_to_matrix", Expected: "a CSV string", Value: input}
	}
	return parseCSVContent(content, p.delimiter, p.hasHeader, 0)
}

// parseCSVContent parses CSV text into a Matrix of string cells. Rows may
// have varying field counts; rectangularity is the matrix validator's
// concern, not the parser's.
func parseCSVContent(content string, delimiter rune, hasHeader bool, skipRows int) (Matrix, error) {
	records, err := readCSVRecords(content, delimiter)
	if err != nil {
		return nil, err
	}

	if skipRows > len(records) {
		skipRows = len(records)
	}
	records = records[skipRows:]
	if hasHeader && len(records) > 0 {
		records = records[1:]
	}

	out := make(Matrix, len(records))
	for i, record := range records {
		row := make([]any, len(record))
		for j, field := range record {
			row[j] = field
		}
		out[i] = row
	}
	return out, nil
}

// parseCSVWithHeader parses CSV text, returning the data rows and, when
// hasHeader is set, the header record.
func parseCSVWithHeader(content string, delimiter rune, hasHeader bool) (Matrix, []string, error) {
	records, err := readCSVRecords(content, delimiter)
	if err != nil {
		return nil, nil, err
	}

	var header []string
	if hasHeader && len(records) > 0 {
		header = records[0]
		records = records[1:]
	}

	out := make(Matrix, len(records))
	for i, record := range records {
		row := make([]any, len(record))
		for j, field := range record {
			row[j] = field
		}
		out[i] = row
	}
	return out, header, nil
}

func readCSVRecords(content string, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}
