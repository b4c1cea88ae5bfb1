package services

import "errors"

var (
	ErrNoFiles             = errors.New("no files were uploaded")
	ErrTooManyFiles        = errors.New("too many files in one batch")
	ErrFileTooLarge        = errors.New("file exceeds the upload size limit")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrNoWorksheet         = errors.New("workbook has no worksheets")
	ErrBinaryContent       = errors.New("file is not a text spreadsheet")
	ErrSessionNotPersisted = errors.New("import session could not be created")
)
