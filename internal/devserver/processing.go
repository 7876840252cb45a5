// processing.go
package devserver

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	errInvalidFileType = errors.New("invalid file type")
	errEmptySheet      = errors.New("empty sheet")
	errNoSheets        = errors.New("no sheets")
)

// acceptedExtensions lists the file types readSheet understands.
var acceptedExtensions = []string{".csv", ".xlsx", ".xls"}

// readSheet parses file according to the extension of name.
func readSheet(file io.Reader, name string) (Sheet, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(acceptedExtensions, ext) {
		return Sheet{}, fmt.Errorf("%w: %q", errInvalidFileType, ext)
	}

	if ext == ".csv" {
		sheet, err := processCSV(file)
		if err != nil {
			return Sheet{}, fmt.Errorf("CSV error: %w", err)
		}

		return sheet, nil
	}

	sheet, err := processExcel(file)
	if err != nil {
		return Sheet{}, fmt.Errorf("Excel error: %w", err)
	}

	return sheet, nil
}

func processCSV(file io.Reader) (Sheet, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return Sheet{}, err
	}

	return newSheet(rows)
}

func processExcel(file io.Reader) (Sheet, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return Sheet{}, err
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return Sheet{}, errNoSheets
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return Sheet{}, err
	}

	return newSheet(rows)
}

// newSheet splits rows into headers and data. Blank headers become Column_N.
func newSheet(rows [][]string) (Sheet, error) {
	if len(rows) == 0 {
		return Sheet{}, errEmptySheet
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}

		headers[i] = h
	}

	return Sheet{Headers: headers, Rows: rows[1:]}, nil
}
