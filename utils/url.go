package utils

import (
	"os"
	"strings"
)

// GenerateDownloadLink turns a public file path into an absolute URL.
func GenerateDownloadLink(filePath string) string {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		baseURL = "http://localhost:" + port
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(filePath, "/")
}
