// Package dataset holds the in-memory tabular representation of the
// radiology case records and the operations the pipeline performs on it.
//
// A Table is column-oriented: each Column carries one of four kinds
// (string, float64, bool, datetime) plus a missing-value flag per row.
// Columns are added over the pipeline's lifetime as derived values are
// computed, but every column always shares the table's single row count.
//
// Loading infers column kinds from the file contents, so the same code
// path serves CSV exports and Excel workbooks:
//
//	table, err := dataset.Load("data/radiology.csv")
//	rows, cols := table.Shape()
package dataset
