package foldpipe

// adapt lifts a concrete constructor into the Builder signature the registry
// stores.
func adapt[C Chainable[any]](fn func(Params) (C, error)) Builder {
	return func(p Params) (Chainable[any], error) {
		proc, err := fn(p)
		if err != nil {
			return nil, err
		}
		return proc, nil
	}
}

// Names under which the default processors register.
const (
	NameClean              Name = "clean"
	NameTokenize           Name = "tokenize"
	NameWordCount          Name = "word_count"
	NameKeywords           Name = "keywords"
	NameMatrixRow          Name = "matrix_row"
	NameMatrixCol          Name = "matrix_col"
	NameMatrixElement      Name = "matrix_element"
	NameMatrixTranspose    Name = "matrix_transpose"
	NameMatrixFilter       Name = "matrix_filter"
	NameMatrixSort         Name = "matrix_sort"
	NameMatrixConvert      Name = "matrix_convert"
	NameTextFile           Name = "text_file"
	NameCSVFile            Name = "csv_file"
	NameCSVExtract         Name = "csv_extract"
	NameMultiColumnCSV     Name = "multi_column_csv"
	NameFileToText         Name = "file_to_text"
	NameCSVToMatrixFile    Name = "csv_to_matrix_file"
	NameFileMetadata       Name = "file_metadata"
	NameCSVContentToMatrix Name = "csv_content_to_matrix"
	NameBatchProcessor     Name = "batch_processor"
)

// NewDefault returns a registry preloaded with every built-in processor.
// Text and matrix processors register eagerly; the file-touching ones
// register lazily so a registry used purely for in-memory work never pays
// for them.
func NewDefault() *Registry {
	r := New()

	r.Register(NameClean, adapt(NewTextClean))
	r.Register(NameTokenize, adapt(NewTextTokenize))
	r.Register(NameWordCount, adapt(NewWordCount))
	r.Register(NameKeywords, adapt(NewKeywords))

	r.Register(NameMatrixRow, adapt(NewMatrixRow))
	r.Register(NameMatrixCol, adapt(NewMatrixColumn))
	r.Register(NameMatrixElement, adapt(NewMatrixElement))
	r.Register(NameMatrixTranspose, adapt(NewMatrixTranspose))
	r.Register(NameMatrixFilter, adapt(NewMatrixFilter))
	r.Register(NameMatrixSort, adapt(NewMatrixSort))
	r.Register(NameMatrixConvert, adapt(NewMatrixConvert))

	r.LazyRegister(NameTextFile, adapt(NewTextFile))
	r.LazyRegister(NameCSVFile, adapt(NewCSVFile))
	r.LazyRegister(NameCSVExtract, adapt(NewCSVExtract))
	r.LazyRegister(NameMultiColumnCSV, adapt(NewMultiColumnCSV))
	r.LazyRegister(NameFileToText, adapt(NewFileToText))
	r.LazyRegister(NameCSVToMatrixFile, adapt(NewCSVToMatrixFile))
	r.LazyRegister(NameFileMetadata, adapt(NewFileMetadata))
	r.LazyRegister(NameCSVContentToMatrix, adapt(NewCSVContent))
	r.LazyRegister(NameBatchProcessor, adapt(NewBatchFiles))

	return r
}
