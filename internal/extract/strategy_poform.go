package extract

import "regexp"

// dateToken matches the date shapes our templates emit, without eating the
// following label (text reaching strategies is whitespace-collapsed, so
// captures cannot rely on line breaks).
const dateToken = `(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4}|[A-Za-z]+ \d{1,2}, \d{4}|\d{1,2} [A-Za-z]+ \d{4})`

// poFormLabel terminates free-text captures at the next known form label.
const poFormLabel = `(?:PO Number|PO No\.?|Vendor|Supplier|Description|Contract Value|Total Value|Order Value|Start Date|Effective Date|Commencement Date|End Date|Expiry Date|Expiration Date|Renewal Date)\s*:`

// POFormStrategy recognizes the labeled purchase-order form our procurement
// templates produce: a "PURCHASE ORDER" banner with "Label: value" pairs.
// Tight patterns, so it self-reports high confidence.
type POFormStrategy struct{}

var (
	poFormMarker = regexp.MustCompile(`(?i)\bPURCHASE ORDER\b`)
	poFormNumber = regexp.MustCompile(`(?i)PO\s*(?:Number|No\.?|#)\s*[:#]?\s*([A-Z0-9][A-Z0-9/-]{2,})`)
	poFormVendor = regexp.MustCompile(`(?i)(?:Vendor|Supplier)\s*(?:Name)?\s*:\s*([^:]{2,80}?)\s*(?:` + poFormLabel + `|$)`)
	poFormValue  = regexp.MustCompile(`(?i)(?:Contract|Total|Order)\s*Value\s*:\s*((?:[$€£]|USD|EUR|GBP)\s*[0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	poFormStart  = regexp.MustCompile(`(?i)(?:Start|Effective|Commencement)\s*Date\s*:\s*` + dateToken)
	poFormEnd    = regexp.MustCompile(`(?i)(?:End|Expiry|Expiration|Renewal)\s*Date\s*:\s*` + dateToken)
	poFormDesc   = regexp.MustCompile(`(?i)Description\s*:\s*([^:]{2,140}?)\s*(?:` + poFormLabel + `|$)`)
)

func (s *POFormStrategy) Name() string { return "PO_FORM" }

func (s *POFormStrategy) Applicable(text string) bool {
	return poFormMarker.MatchString(text) && poFormNumber.MatchString(text)
}

func (s *POFormStrategy) Extract(text string) Result {
	f := Fields{
		PONumber:    firstGroup(poFormNumber, text),
		VendorName:  firstGroup(poFormVendor, text),
		Description: firstGroup(poFormDesc, text),
	}
	if raw := firstGroup(poFormValue, text); raw != "" {
		f.Value = parseMoney(raw)
	}
	if raw := firstGroup(poFormStart, text); raw != "" {
		f.StartDate = parseDate(raw)
	}
	if raw := firstGroup(poFormEnd, text); raw != "" {
		f.EndDate = parseDate(raw)
	}

	// Applicability guarantees a PO number; the rest raise confidence as
	// they are found.
	conf := float32(0.55)
	if f.VendorName != "" {
		conf += 0.1
	}
	if f.EndDate != nil {
		conf += 0.15
	}
	if f.StartDate != nil {
		conf += 0.05
	}
	if f.Value != nil {
		conf += 0.1
	}
	return Result{Fields: f, Confidence: clampConfidence(conf)}
}
