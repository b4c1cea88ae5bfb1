package services

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var templateHeader = []string{"Store Name", "Province", "Address", "City", "Contact Person", "Phone", "Email"}

// buildWorkbook renders rows into an .xlsx payload. The first row is the header.
func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// storeRows returns n complete template rows with predictable store names.
func storeRows(n int) [][]string {
	rows := [][]string{templateHeader}
	for i := 1; i <= n; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("Hardware Depot %d", i),
			"Gauteng",
			gofakeit.Street(),
			"Pretoria",
			gofakeit.FirstName() + " " + gofakeit.LastName(),
			gofakeit.Phone(),
			gofakeit.Email(),
		})
	}
	return rows
}
