package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		file    string
		want    SheetFormat
		wantErr error
	}{
		{"stores.xlsx", FormatXLSX, nil},
		{"STORES.XLSM", FormatXLSX, nil},
		{"legacy.xls", FormatXLS, nil},
		{"Legacy.XLS", FormatXLS, nil},
		{"stores.csv", FormatCSV, nil},
		{"notes.txt", "", ErrUnsupportedFileType},
		{"no-extension", "", ErrUnsupportedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := DetectFormat(tt.file)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadRowsCorruptXLSIsAFileError(t *testing.T) {
	_, err := ReadRows("legacy.xls", bytes.NewReader([]byte("Store Name,Province\n")))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFileType)
	assert.Contains(t, err.Error(), "Excel 97-2003")
}

func TestDecodeCSV(t *testing.T) {
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("Store Name\nDepot\n")
	require.NoError(t, err)

	tests := []struct {
		name    string
		raw     []byte
		want    string
		wantErr error
	}{
		{"plain utf-8", []byte("Store Name\nDepot\n"), "Store Name\nDepot\n", nil},
		{"utf-8 bom", []byte("\xef\xbb\xbfStore Name\n"), "Store Name\n", nil},
		{"utf-16 with bom", []byte(utf16), "Store Name\nDepot\n", nil},
		{"windows-1252", []byte("Caf\xe9\n"), "Café\n", nil},
		{"nul in utf-8", []byte("Store\x00Name\n"), "", ErrBinaryContent},
		{"binary payload", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00, 0x00}, "", ErrBinaryContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCSV(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestTrimTrailingEmpty(t *testing.T) {
	assert.Equal(t, []string{"Depot", "", "Gauteng"}, trimTrailingEmpty([]string{"Depot", "", "Gauteng", " ", ""}))
	assert.Empty(t, trimTrailingEmpty([]string{"", ""}))

	rows := trimTrailingEmptyRows([][]string{{"Store Name"}, nil, {"Depot"}, {}, nil})
	assert.Equal(t, [][]string{{"Store Name"}, nil, {"Depot"}}, rows)
}
