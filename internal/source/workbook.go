package source

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ivlev/table2video/internal/config"
)

// LoadWorkbook reads a table from an XLSX sheet (the first sheet when sheet
// is empty). The first non-empty row holds the column labels; the sheet name
// becomes the title.
func LoadWorkbook(path, sheet string) (*Project, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	table := TableData{Title: sheet}
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if table.Columns == nil {
			table.Columns = trimCells(row)
			continue
		}
		table.Data = append(table.Data, fitRow(trimCells(row), len(table.Columns)))
	}

	return &Project{Table: table, Animation: config.DefaultAnimation()}, nil
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

// fitRow pads or truncates a row to n cells. GetRows drops trailing empty
// cells, so short rows are expected.
func fitRow(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
