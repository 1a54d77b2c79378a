package extract

import "regexp"

// ServiceAgreementStrategy recognizes prose service agreements ("This
// Service Agreement is entered into between ..."), pulling the vendor from
// the parties clause and the term from the commencing/until sentence.
type ServiceAgreementStrategy struct{}

var (
	saMarker  = regexp.MustCompile(`(?i)\b(?:MASTER\s+)?SERVICE AGREEMENT\b`)
	saParties = regexp.MustCompile(`(?i)between\s+(?:.{2,60}?\s+and\s+)?([A-Z][A-Za-z0-9&., -]{2,60}?)\s*\((?:the\s+)?["“]?(?:Vendor|Supplier|Provider|Contractor)["”]?\)`)
	saTerm    = regexp.MustCompile(`(?i)commencing\s+on\s+` + dateToken + `\s+(?:and\s+)?(?:continuing\s+)?until\s+` + dateToken)
	saValue   = regexp.MustCompile(`(?i)total\s+(?:contract\s+)?value\s+of\s+((?:[$€£]|USD|EUR|GBP)\s*[0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	saPO      = regexp.MustCompile(`(?i)purchase\s+order\s+(?:number\s+)?([A-Z0-9][A-Z0-9/-]{2,})`)
	saSubject = regexp.MustCompile(`(?i)for\s+the\s+provision\s+of\s+([a-z0-9 ,&-]{4,120}?)(?:[.,;]|$)`)
)

func (s *ServiceAgreementStrategy) Name() string { return "SERVICE_AGREEMENT" }

func (s *ServiceAgreementStrategy) Applicable(text string) bool {
	return saMarker.MatchString(text) && saParties.MatchString(text)
}

func (s *ServiceAgreementStrategy) Extract(text string) Result {
	f := Fields{
		VendorName:  firstGroup(saParties, text),
		PONumber:    firstGroup(saPO, text),
		Description: firstGroup(saSubject, text),
	}
	if m := saTerm.FindStringSubmatch(text); len(m) == 3 {
		f.StartDate = parseDate(m[1])
		f.EndDate = parseDate(m[2])
	}
	if raw := firstGroup(saValue, text); raw != "" {
		f.Value = parseMoney(raw)
	}

	conf := float32(0.5)
	if f.EndDate != nil {
		conf += 0.15
	}
	if f.StartDate != nil {
		conf += 0.05
	}
	if f.Value != nil {
		conf += 0.1
	}
	if f.PONumber != "" {
		conf += 0.05
	}
	return Result{Fields: f, Confidence: clampConfidence(conf)}
}
