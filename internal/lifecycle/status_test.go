package lifecycle

import (
	"testing"
	"time"

	"github.com/helpdesk-core/renewals-tracker/constants"
)

var today = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func TestCalculateStatusBoundaries(t *testing.T) {
	cases := []struct {
		name string
		end  time.Time
		want constants.ContractStatus
	}{
		{"yesterday is expired", today.AddDate(0, 0, -1), constants.StatusExpired},
		{"today is expiring soon", today, constants.StatusExpiringSoon},
		{"30 days out is expiring soon", today.AddDate(0, 0, 30), constants.StatusExpiringSoon},
		{"31 days out is active", today.AddDate(0, 0, 31), constants.StatusActive},
		{"far future is active", today.AddDate(2, 0, 0), constants.StatusActive},
		{"long expired", today.AddDate(-1, 0, 0), constants.StatusExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CalculateStatus(tc.end, today); got != tc.want {
				t.Fatalf("CalculateStatus(%s) = %s, want %s", tc.end.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestCalculateStatusIgnoresTimeOfDay(t *testing.T) {
	lateTonight := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)
	endMorning := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	if got := CalculateStatus(endMorning, lateTonight); got != constants.StatusExpiringSoon {
		t.Fatalf("same-day expiry with later clock time = %s, want EXPIRING_SOON", got)
	}
}

func TestCalculateStatusAcrossZones(t *testing.T) {
	// The same civil dates must produce the same status regardless of the
	// zone the reference instant is expressed in.
	nairobi, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	refUTC := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	refEAT := time.Date(2025, 6, 15, 12, 0, 0, 0, nairobi)
	end := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	if a, b := CalculateStatus(end, refUTC), CalculateStatus(end, refEAT); a != b {
		t.Fatalf("status differs across zones: %s vs %s", a, b)
	}
}

func TestCalculateStatusDeterministic(t *testing.T) {
	end := today.AddDate(0, 0, 12)
	first := CalculateStatus(end, today)
	for i := 0; i < 3; i++ {
		if got := CalculateStatus(end, today); got != first {
			t.Fatalf("repeated call returned %s, first returned %s", got, first)
		}
	}
}

func TestStatusForNilEndDate(t *testing.T) {
	if got := StatusFor(nil, today); got != constants.StatusDraft {
		t.Fatalf("StatusFor(nil) = %s, want DRAFT", got)
	}
	end := today.AddDate(0, 0, 5)
	if got := StatusFor(&end, today); got != constants.StatusExpiringSoon {
		t.Fatalf("StatusFor(+5d) = %s, want EXPIRING_SOON", got)
	}
}

func TestDaysRemaining(t *testing.T) {
	if d := DaysRemaining(today.AddDate(0, 0, 7), today); d != 7 {
		t.Fatalf("DaysRemaining(+7d) = %d, want 7", d)
	}
	if d := DaysRemaining(today.AddDate(0, 0, -3), today); d != -3 {
		t.Fatalf("DaysRemaining(-3d) = %d, want -3", d)
	}
	if d := DaysRemaining(today, today); d != 0 {
		t.Fatalf("DaysRemaining(today) = %d, want 0", d)
	}
}
