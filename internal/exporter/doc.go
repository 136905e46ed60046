// Package exporter writes the cleaned dataset back out as a CSV file so
// downstream tooling can pick up the table the analysis actually ran on,
// with derived columns included.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(logger)
//	err := writer.WriteTable("out/clean.csv", table, exporter.WriteOptions{BOMPrefix: true})
package exporter
