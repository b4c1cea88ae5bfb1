package utils

import (
	"regexp"
	"strings"
)

var repeatedUnderscores = regexp.MustCompile(`_+`)

// CleanStringForFilename cleans a string for safe use in filenames
func CleanStringForFilename(input string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-':
			return '_'
		case r == '.':
			return '.'
		default:
			return -1
		}
	}, input)

	clean = repeatedUnderscores.ReplaceAllString(clean, "_")
	clean = strings.Trim(clean, "_")

	if clean == "" {
		clean = "file"
	}
	if len(clean) > 100 {
		clean = clean[:100]
	}
	return clean
}
