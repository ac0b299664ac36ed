// Package report renders structured report content into word-processor documents.
package report

// Document is the renderer-neutral content of a report.
type Document struct {
	Title   string
	Summary []string
	Table   Table
}

// Table is a header row followed by data rows. Rows shorter than the header are padded.
type Table struct {
	Header []string
	Rows   [][]string
}
