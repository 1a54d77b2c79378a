package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestCleanTextCollapsesWhitespace(t *testing.T) {
	in := "  PO\tNumber:\n\nPO-123   Vendor:\tAcme  "
	want := "PO Number: PO-123 Vendor: Acme"
	if got := CleanText(in); got != want {
		t.Fatalf("CleanText = %q, want %q", got, want)
	}
}

func TestValidateTextBoundary(t *testing.T) {
	// 49 cleaned characters -> rejected, 50 -> accepted.
	text49 := strings.Repeat("a", 49)
	res := ValidateText(text49)
	if res.Valid {
		t.Fatalf("49 chars should be rejected")
	}
	if res.CharCount != 49 {
		t.Fatalf("CharCount = %d, want 49", res.CharCount)
	}
	if res.Message == "" {
		t.Fatalf("rejection must carry a warning message")
	}

	text50 := strings.Repeat("a", 50)
	res = ValidateText(text50)
	if !res.Valid {
		t.Fatalf("50 chars should be accepted: %+v", res)
	}
	if res.Message != "" {
		t.Fatalf("accepted text should carry no warning, got %q", res.Message)
	}
}

func TestValidateTextCountsCleanedNotRaw(t *testing.T) {
	// 100 raw characters that collapse below the threshold.
	raw := strings.Repeat("ab \n\t ", 10) // cleans to "ab ab ... ab" = 29 chars
	res := ValidateText(raw)
	if res.Valid {
		t.Fatalf("whitespace-padded text must be counted after cleaning, got %+v", res)
	}
	if res.CharCount != 29 {
		t.Fatalf("CharCount = %d, want 29", res.CharCount)
	}
}

func TestValidateTextPreview(t *testing.T) {
	long := strings.Repeat("x", 500)
	res := ValidateText(long)
	if len(res.Preview) != previewLen {
		t.Fatalf("preview length = %d, want %d", len(res.Preview), previewLen)
	}
}

func TestUnreadableResult(t *testing.T) {
	res := UnreadableResult(errors.New("encrypted document"))
	if res.Valid {
		t.Fatalf("unreadable file must be invalid")
	}
	if res.CharCount != 0 {
		t.Fatalf("CharCount = %d, want 0", res.CharCount)
	}
	if !strings.Contains(res.Message, "corrupt or encrypted") {
		t.Fatalf("message should name the failure class, got %q", res.Message)
	}
	// Distinct from the scanned-image message.
	short := ValidateText("abc")
	if res.Message == short.Message {
		t.Fatalf("unreadable and too-short must carry distinct messages")
	}
}
