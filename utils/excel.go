package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"hardware-distribution-backend/config"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ReportsDir is where generated spreadsheets are written. It is served under /public/files.
const ReportsDir = "./public/files"

// EnsureDirectoryExists ensures the specified directory exists before file saving
func EnsureDirectoryExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	return nil
}

// GenerateExcel writes a slice of structs to a new workbook in dirPath. Each
// header names the struct field rendered in that column. It returns the
// public path of the saved file.
func GenerateExcel(dirPath string, data interface{}, taskName string, headers []string) (string, error) {
	if err := EnsureDirectoryExists(dirPath); err != nil {
		return "", err
	}

	dataSlice := reflect.ValueOf(data)
	if dataSlice.Kind() != reflect.Slice {
		return "", fmt.Errorf("expected data to be a slice, got %v", dataSlice.Kind())
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	index, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return "", fmt.Errorf("error locating sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return "", fmt.Errorf("error setting header %s: %w", header, err)
		}
	}

	for row := 0; row < dataSlice.Len(); row++ {
		item := reflect.Indirect(dataSlice.Index(row))
		for col, header := range headers {
			field := item.FieldByName(header)
			if !field.IsValid() {
				config.Logger.Debug("Field not found for report row",
					zap.String("field", header), zap.Int("row", row+2))
				continue
			}
			if field.Kind() == reflect.Ptr && field.IsNil() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(field)); err != nil {
				return "", fmt.Errorf("error setting value for field %s (row %d): %w", header, row+2, err)
			}
		}
	}

	f.SetActiveSheet(index)

	now := time.Now()
	fileName := fmt.Sprintf("%s_%s.xlsx", CleanStringForFilename(taskName), now.Format("2006-01-02_150405"))
	diskPath := filepath.Join(dirPath, fileName)

	if err := f.SaveAs(diskPath); err != nil {
		config.Logger.Error("Error saving Excel file", zap.String("path", diskPath), zap.Error(err))
		return "", err
	}

	config.Logger.Info("Excel report written", zap.String("path", diskPath), zap.Int("rows", dataSlice.Len()))
	return "/public/files/" + fileName, nil
}

func cellValue(field reflect.Value) interface{} {
	if field.Kind() == reflect.Ptr {
		return field.Elem().Interface()
	}
	if s, ok := field.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return field.Interface()
}
