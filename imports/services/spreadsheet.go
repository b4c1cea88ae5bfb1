package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type SheetFormat string

const (
	FormatXLSX SheetFormat = "xlsx"
	FormatXLS  SheetFormat = "xls"
	FormatCSV  SheetFormat = "csv"
)

// DetectFormat picks the reader from the file extension.
func DetectFormat(fileName string) (SheetFormat, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, filepath.Ext(fileName))
	}
}

// ReadRows returns every row of the first worksheet as cell strings. Rows
// may be ragged; callers treat a missing cell as "".
func ReadRows(fileName string, r io.Reader) ([][]string, error) {
	format, err := DetectFormat(fileName)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return readCSVRows(r)
	case FormatXLS:
		return readXLSRows(r)
	default:
		return readExcelRows(r)
	}
}

func readExcelRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return rows, nil
}

// readXLSRows reads the first sheet of a BIFF (Excel 97-2003) workbook.
func readXLSRows(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel 97-2003 file: %w", err)
	}

	wb, err := xls.OpenReader(bytes.NewReader(raw), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel 97-2003 file: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoWorksheet
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoWorksheet
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, trimTrailingEmpty(cells))
	}
	return trimTrailingEmptyRows(rows), nil
}

// trimTrailingEmpty drops blank cells after the last value, matching the
// ragged rows excelize returns.
func trimTrailingEmpty(cells []string) []string {
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && len(rows[end-1]) == 0 {
		end--
	}
	return rows[:end]
}

func readCSVRows(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	raw, err = decodeCSV(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode CSV file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV row: %w", err)
	}
	return rows, nil
}

// decodeCSV normalises a CSV payload to UTF-8 without a byte order mark.
// UTF-16 is recognised by its BOM; anything else that is not valid UTF-8 is
// read as Windows-1252, which older desktop exports use. Text never holds a
// NUL once decoded, so one means the file is binary.
func decodeCSV(raw []byte) ([]byte, error) {
	var (
		decoded []byte
		err     error
	)
	hasUTF16BOM := bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) || bytes.HasPrefix(raw, []byte{0xFE, 0xFF})
	if hasUTF16BOM || utf8.Valid(raw) {
		decoded, _, err = transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	} else {
		decoded, err = charmap.Windows1252.NewDecoder().Bytes(raw)
	}
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(decoded, 0) >= 0 {
		return nil, ErrBinaryContent
	}
	return decoded, nil
}
