package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetKind classifies an attendance-sheet artifact by how the renderer
// should handle it.
type SheetKind int

const (
	SheetImage SheetKind = iota // embedded as a picture
	SheetCSV                    // parsed and tabulated inline
	SheetXLSX                   // parsed and tabulated inline
	SheetOther                  // referenced by filename only
)

// maxSheetRows caps how many data rows of a tabular sheet are inlined into
// the document (the header row is kept on top of that).
const maxSheetRows = 50

// KindOf classifies a sheet artifact by file extension.
func KindOf(name string) SheetKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return SheetImage
	case ".csv":
		return SheetCSV
	case ".xlsx":
		return SheetXLSX
	default:
		return SheetOther
	}
}

// ReadSheetRows parses a tabular sheet artifact (CSV or XLSX) and returns
// its rows capped at a header plus maxSheetRows data rows, with truncated
// set when the source held more.
func ReadSheetRows(path string) (rows [][]string, truncated bool, err error) {
	switch KindOf(path) {
	case SheetCSV:
		rows, err = readCSVRows(path)
	case SheetXLSX:
		rows, err = readXLSXRows(path)
	default:
		return nil, false, fmt.Errorf("not a tabular sheet: %s", filepath.Base(path))
	}
	if err != nil {
		return nil, false, err
	}
	if len(rows) > maxSheetRows+1 {
		return rows[:maxSheetRows+1], true, nil
	}
	return rows, false, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets: %s", filepath.Base(path))
	}
	return f.GetRows(sheet)
}
