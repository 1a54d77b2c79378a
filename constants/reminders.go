package constants

// ReminderThresholds are the lead times (days before expiry) at which a
// reminder fires, processed in this descending order. Not configurable
// per contract.
var ReminderThresholds = []int{60, 30, 7, 1}

// ExpiringSoonDays is the upper bound (inclusive) for EXPIRING_SOON.
const ExpiringSoonDays = 30

// UrgencyForThreshold maps a lead-time threshold to the label carried in
// notification payloads. 1-day is the most urgent, 60-day an early notice.
func UrgencyForThreshold(days int) string {
	switch {
	case days <= 1:
		return "CRITICAL"
	case days <= 7:
		return "HIGH"
	case days <= 30:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
