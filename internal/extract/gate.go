package extract

import (
	"regexp"
	"strings"

	"github.com/helpdesk-core/renewals-tracker/constants"
)

const previewLen = 120

var whitespaceRun = regexp.MustCompile(`\s+`)

// ValidationResult classifies decoded text before extraction is attempted.
// Both failure classes (too little text, unreadable file) surface the same
// shape so callers present them uniformly and may force past either.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	CharCount int    `json:"char_count"`
	Preview   string `json:"preview"`
	Message   string `json:"message,omitempty"`
}

// CleanText collapses all whitespace runs to single spaces and trims.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// ValidateText gates raw decoded text. Fewer than MinExtractableChars
// cleaned characters means the PDF is most likely a scanned image; the
// system refuses to guess rather than attempt recognition.
func ValidateText(raw string) ValidationResult {
	cleaned := CleanText(raw)
	count := len([]rune(cleaned))
	res := ValidationResult{
		CharCount: count,
		Preview:   preview(cleaned),
	}
	if count < constants.MinExtractableChars {
		res.Message = "document yielded too little text and is likely a scanned image; re-upload with force to proceed without extraction"
		return res
	}
	res.Valid = true
	return res
}

// UnreadableResult reports a decode failure (corrupt or encrypted file).
// A different failure class from "readable but too short", surfaced the
// same way.
func UnreadableResult(err error) ValidationResult {
	msg := "file could not be read; it may be corrupt or encrypted"
	if err != nil {
		msg += ": " + err.Error()
	}
	return ValidationResult{
		Valid:     false,
		CharCount: 0,
		Message:   msg,
	}
}

func preview(cleaned string) string {
	r := []rune(cleaned)
	if len(r) <= previewLen {
		return cleaned
	}
	return string(r[:previewLen])
}
