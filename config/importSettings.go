package config

import (
	"os"
	"strings"
)

const (
	DefaultImportMaxFiles     = 50
	DefaultImportMaxFileBytes = 10 * 1024 * 1024
	DefaultImportPreviewLimit = 5
)

// DefaultHeaderKeywords are the first-cell substrings that mark a repeated
// header row inside a sheet.
var DefaultHeaderKeywords = []string{"store", "name", "company"}

// ImportSettings controls the bulk store import.
type ImportSettings struct {
	MaxFiles     int
	MaxFileBytes int64
	PreviewLimit int
	// HeaderKeywords disables the repeated-header skip when empty.
	HeaderKeywords []string
	// DetectHeaders maps columns by header name instead of by position.
	DetectHeaders bool
}

func DefaultImportSettings() ImportSettings {
	return ImportSettings{
		MaxFiles:       DefaultImportMaxFiles,
		MaxFileBytes:   DefaultImportMaxFileBytes,
		PreviewLimit:   DefaultImportPreviewLimit,
		HeaderKeywords: append([]string(nil), DefaultHeaderKeywords...),
		DetectHeaders:  true,
	}
}

// LoadImportSettings reads IMPORT_* variables on top of the defaults.
func LoadImportSettings() ImportSettings {
	settings := DefaultImportSettings()
	settings.MaxFiles = GetEnvInt("IMPORT_MAX_FILES", settings.MaxFiles)
	settings.MaxFileBytes = int64(GetEnvInt("IMPORT_MAX_FILE_BYTES", int(settings.MaxFileBytes)))
	settings.PreviewLimit = GetEnvInt("IMPORT_PREVIEW_LIMIT", settings.PreviewLimit)
	settings.DetectHeaders = GetEnvBool("IMPORT_DETECT_HEADERS", settings.DetectHeaders)

	// Set but empty means the heuristic is switched off.
	if raw, ok := os.LookupEnv("IMPORT_HEADER_KEYWORDS"); ok {
		settings.HeaderKeywords = ParseKeywords(raw)
	}
	return settings
}

func ParseKeywords(raw string) []string {
	keywords := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			keywords = append(keywords, part)
		}
	}
	return keywords
}
