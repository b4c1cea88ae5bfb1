package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type FileStorage interface {
	UploadFileFromReader(src io.Reader, fileName string) (string, error)
	DownloadFile(filePath string) (io.ReadCloser, error)
	DeleteFile(filePath string) error
	FileExists(filePath string) (bool, error)
}

type LocalFileStorage struct {
	uploadPath string
}

func NewLocalFileStorage(uploadPath string) *LocalFileStorage {
	return &LocalFileStorage{uploadPath: uploadPath}
}

// UploadFileFromReader copies src into the storage directory and returns the
// name it was stored under.
func (s *LocalFileStorage) UploadFileFromReader(src io.Reader, fileName string) (string, error) {
	if err := EnsureDirectoryExists(s.uploadPath); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileName = filepath.Base(fileName)
	filePath := filepath.Join(s.uploadPath, fileName)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}

	return fileName, nil
}

// DownloadFile retrieves a file for reading
func (s *LocalFileStorage) DownloadFile(filePath string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.uploadPath, filepath.Base(filePath)))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// DeleteFile removes a file from storage
func (s *LocalFileStorage) DeleteFile(filePath string) error {
	fullPath := filepath.Join(s.uploadPath, filepath.Base(filePath))
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// FileExists checks if a file exists in storage
func (s *LocalFileStorage) FileExists(filePath string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.uploadPath, filepath.Base(filePath)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}
