package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Shared parsing helpers for strategies. Everything here is best-effort:
// a failed parse yields nil, never an error.

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

var moneyPattern = regexp.MustCompile(`(?:[$€£]|USD|EUR|GBP)\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

func parseMoney(s string) *float64 {
	m := moneyPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

// firstGroup returns the first capture group of re in text, trimmed, or "".
func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func clampConfidence(c float32) float32 {
	if c > 1 {
		return 1
	}
	if c < 0 {
		return 0
	}
	return c
}
