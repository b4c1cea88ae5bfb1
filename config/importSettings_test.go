package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadImportSettingsDefaults(t *testing.T) {
	settings := LoadImportSettings()

	assert.Equal(t, 50, settings.MaxFiles)
	assert.Equal(t, int64(10*1024*1024), settings.MaxFileBytes)
	assert.Equal(t, 5, settings.PreviewLimit)
	assert.Equal(t, []string{"store", "name", "company"}, settings.HeaderKeywords)
	assert.True(t, settings.DetectHeaders)
}

func TestLoadImportSettingsFromEnv(t *testing.T) {
	t.Setenv("IMPORT_MAX_FILES", "10")
	t.Setenv("IMPORT_PREVIEW_LIMIT", "3")
	t.Setenv("IMPORT_DETECT_HEADERS", "false")
	t.Setenv("IMPORT_HEADER_KEYWORDS", " Outlet , ,HEADER")

	settings := LoadImportSettings()

	assert.Equal(t, 10, settings.MaxFiles)
	assert.Equal(t, 3, settings.PreviewLimit)
	assert.False(t, settings.DetectHeaders)
	assert.Equal(t, []string{"outlet", "header"}, settings.HeaderKeywords)
}

func TestEmptyHeaderKeywordsDisableHeuristic(t *testing.T) {
	t.Setenv("IMPORT_HEADER_KEYWORDS", "")

	assert.Empty(t, LoadImportSettings().HeaderKeywords)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("IMPORT_MAX_FILES", "many")
	t.Setenv("IMPORT_DETECT_HEADERS", "sometimes")

	settings := LoadImportSettings()

	assert.Equal(t, DefaultImportMaxFiles, settings.MaxFiles)
	assert.True(t, settings.DetectHeaders)
}
