// Package lifecycle derives a contract's status from its expiry date.
package lifecycle

import (
	"time"

	"github.com/helpdesk-core/renewals-tracker/constants"
)

// Midnight truncates t to midnight UTC of its civil date. Time-of-day and
// zone offset never participate in status decisions; only the calendar date
// each side observes does.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysRemaining returns the whole calendar days from referenceDate until
// endDate, after normalizing both to midnight. Negative when endDate has
// passed.
func DaysRemaining(endDate, referenceDate time.Time) int {
	return int(Midnight(endDate).Sub(Midnight(referenceDate)).Hours() / 24)
}

// CalculateStatus is a pure function from expiry date and reference date to
// lifecycle status. A nil end date is handled by callers (mapped to DRAFT);
// this function always receives a concrete date.
func CalculateStatus(endDate, referenceDate time.Time) constants.ContractStatus {
	days := DaysRemaining(endDate, referenceDate)
	switch {
	case days < 0:
		return constants.StatusExpired
	case days <= constants.ExpiringSoonDays:
		return constants.StatusExpiringSoon
	default:
		return constants.StatusActive
	}
}

// StatusFor maps an optional end date to a status, treating nil as DRAFT.
func StatusFor(endDate *time.Time, referenceDate time.Time) constants.ContractStatus {
	if endDate == nil {
		return constants.StatusDraft
	}
	return CalculateStatus(*endDate, referenceDate)
}
