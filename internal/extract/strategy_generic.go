package extract

import (
	"regexp"
	"time"
)

// GenericStrategy is the last-resort fallback: loose patterns over any text
// that shows contract-ish signals. Its results are deliberately scored low
// so reviewers know to double-check them.
type GenericStrategy struct{}

var (
	genPO    = regexp.MustCompile(`(?i)\bP\.?O\.?\s*(?:Number|No\.?|#)?\s*[:#]?\s*([A-Z0-9][A-Z0-9/-]{3,})`)
	genDate  = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4}|(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4})\b`)
	genMoney = moneyPattern
)

func (s *GenericStrategy) Name() string { return "GENERIC" }

// Applicable wants at least one date and one other contract signal; without
// that, even loose extraction is pure noise and NONE is more honest.
func (s *GenericStrategy) Applicable(text string) bool {
	if !genDate.MatchString(text) {
		return false
	}
	return genPO.MatchString(text) || genMoney.MatchString(text)
}

func (s *GenericStrategy) Extract(text string) Result {
	f := Fields{
		PONumber: firstGroup(genPO, text),
	}

	// First date in document order is taken as the start, the latest as the
	// expiry. A single date is assumed to be the expiry.
	var dates []time.Time
	for _, m := range genDate.FindAllStringSubmatch(text, 8) {
		if d := parseDate(m[1]); d != nil {
			dates = append(dates, *d)
		}
	}
	switch {
	case len(dates) == 1:
		f.EndDate = &dates[0]
	case len(dates) > 1:
		start, end := dates[0], dates[0]
		for _, d := range dates[1:] {
			if d.Before(start) {
				start = d
			}
			if d.After(end) {
				end = d
			}
		}
		f.StartDate, f.EndDate = &start, &end
	}

	f.Value = parseMoney(text)

	conf := float32(0.2)
	if f.PONumber != "" {
		conf += 0.1
	}
	if f.EndDate != nil {
		conf += 0.15
	}
	if f.Value != nil {
		conf += 0.1
	}
	if conf > 0.6 {
		conf = 0.6
	}
	return Result{Fields: f, Confidence: conf}
}
