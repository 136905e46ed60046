package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "radpulse/internal/errors"
)

// missingTokens are the cell values treated as missing on load.
var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"na":   true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
}

// Load reads the dataset file at path into a table. CSV and Excel files
// are supported, selected by extension. Column kinds are inferred: a
// column is bool if every non-missing cell is true/false, float if every
// non-missing cell is numeric, and string otherwise.
func Load(path string) (*Table, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		header, rows, err = readCSV(path)
	case ".xlsx", ".xlsm", ".xls":
		header, rows, err = readExcel(path)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"unsupported dataset format %q", filepath.Ext(path)))
	}
	if err != nil {
		return nil, err
	}

	return fromRecords(header, rows)
}

// readCSV reads the header and data rows of a CSV file.
func readCSV(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.NewStorageError(fmt.Sprintf("failed to open dataset %q", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, apperrors.NewParsingError(fmt.Sprintf("failed to read dataset %q", path), err)
	}
	if len(records) == 0 {
		return nil, nil, apperrors.NewParsingError(fmt.Sprintf("dataset %q has no header row", path), nil)
	}

	return records[0], records[1:], nil
}

// readExcel reads the header and data rows of the first sheet of an
// Excel workbook.
func readExcel(path string) ([]string, [][]string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, apperrors.NewStorageError(fmt.Sprintf("failed to open dataset %q", path), err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, apperrors.NewParsingError(fmt.Sprintf("dataset %q has no sheets", path), nil)
	}

	records, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, nil, apperrors.NewParsingError(fmt.Sprintf(
			"failed to read sheet %q of %q", sheets[0], path), err)
	}
	if len(records) == 0 {
		return nil, nil, apperrors.NewParsingError(fmt.Sprintf("dataset %q has no header row", path), nil)
	}

	return records[0], records[1:], nil
}

// fromRecords builds a table from a header and data rows, inferring each
// column's kind. Short rows (Excel trims trailing empties) pad as missing.
func fromRecords(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, apperrors.NewParsingError("dataset header row is empty", nil)
	}

	t := New()
	for j, name := range header {
		cells := make([]string, len(rows))
		missing := make([]bool, len(rows))
		for i, row := range rows {
			var cell string
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			cells[i] = cell
			missing[i] = missingTokens[cell]
		}
		if err := t.addColumn(inferColumn(name, cells, missing)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// inferColumn picks the narrowest kind that fits every non-missing cell.
func inferColumn(name string, cells []string, missing []bool) *Column {
	if vals, ok := parseBools(cells, missing); ok {
		return &Column{name: name, kind: KindBool, bools: vals, missing: missing}
	}
	if vals, ok := parseFloats(cells, missing); ok {
		return &Column{name: name, kind: KindFloat, floats: vals, missing: missing}
	}
	return &Column{name: name, kind: KindString, strs: cells, missing: missing}
}

// parseBools parses every non-missing cell as true/false. Numeric 0/1 is
// deliberately not accepted so count columns stay numeric.
func parseBools(cells []string, missing []bool) ([]bool, bool) {
	vals := make([]bool, len(cells))
	any := false
	for i, cell := range cells {
		if missing[i] {
			continue
		}
		switch strings.ToLower(cell) {
		case "true":
			vals[i] = true
		case "false":
			vals[i] = false
		default:
			return nil, false
		}
		any = true
	}
	return vals, any
}

// parseFloats parses every non-missing cell as a float64.
func parseFloats(cells []string, missing []bool) ([]float64, bool) {
	vals := make([]float64, len(cells))
	any := false
	for i, cell := range cells {
		if missing[i] {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
		any = true
	}
	return vals, any
}
