package extract

import (
	"encoding/json"
	"time"

	"github.com/helpdesk-core/renewals-tracker/constants"
)

// Fields is the structured metadata a strategy pulls out of contract text.
// Absent fields stay nil/empty; the consumer decides how much to trust them
// from the accompanying confidence.
type Fields struct {
	PONumber    string
	VendorName  string
	Description string
	Value       *float64
	StartDate   *time.Time
	EndDate     *time.Time
}

// Result is a single strategy's output: its fields, its self-reported
// confidence in [0,1], and the strategy name for provenance.
type Result struct {
	Fields     Fields
	Confidence float32
	Strategy   string
}

// NoneResult is the sentinel returned when no strategy claims the text.
func NoneResult() Result {
	return Result{Strategy: constants.StrategyNone}
}

// PayloadJSON renders the result as the raw structured extraction payload
// stored on the contract for audit and debugging.
func (r Result) PayloadJSON() ([]byte, error) {
	payload := map[string]any{
		"strategy":   r.Strategy,
		"confidence": r.Confidence,
	}
	if r.Fields.PONumber != "" {
		payload["po_number"] = r.Fields.PONumber
	}
	if r.Fields.VendorName != "" {
		payload["vendor_name"] = r.Fields.VendorName
	}
	if r.Fields.Description != "" {
		payload["description"] = r.Fields.Description
	}
	if r.Fields.Value != nil {
		payload["value"] = *r.Fields.Value
	}
	if r.Fields.StartDate != nil {
		payload["start_date"] = r.Fields.StartDate.Format("2006-01-02")
	}
	if r.Fields.EndDate != nil {
		payload["end_date"] = r.Fields.EndDate.Format("2006-01-02")
	}
	return json.Marshal(payload)
}

// BuildPayloadJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map, used to validate extraction payloads before they are
// persisted as provenance.
func BuildPayloadJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"strategy":    map[string]any{"type": "string", "minLength": 1},
			"confidence":  map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"po_number":   map[string]any{"type": "string", "minLength": 1},
			"vendor_name": map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"value":       map[string]any{"type": "number"},
			"start_date":  map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"end_date":    map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		},
		"required": []string{"strategy", "confidence"},
	}
}
