package constants

import "strings"

// MinExtractableChars is the minimum count of cleaned (whitespace-collapsed)
// characters a decoded document must yield before extraction is attempted.
// Anything shorter is treated as a likely scanned image.
const MinExtractableChars = 50

// AllowedExtensions holds the allowed file extensions for contract uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether the extension (with or without dot) is accepted.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
