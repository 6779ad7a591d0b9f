package phone

import "testing"

func TestNormalizeE164_LocalIndianNumber(t *testing.T) {
	if got := NormalizeE164("098765 43210"); got != "+919876543210" {
		t.Fatalf("expected +919876543210, got %q", got)
	}
}

func TestNormalizeE164_AlreadyE164(t *testing.T) {
	if got := NormalizeE164("+919876543210"); got != "+919876543210" {
		t.Fatalf("expected unchanged, got %q", got)
	}
}

func TestNormalizeE164_ForeignNumberKeepsCountry(t *testing.T) {
	if got := NormalizeE164("+1 650-253-0000"); got != "+16502530000" {
		t.Fatalf("expected +16502530000, got %q", got)
	}
}

func TestNormalizeE164_InvalidReturnsTrimmedInput(t *testing.T) {
	if got := NormalizeE164("  123  "); got != "123" {
		t.Fatalf("expected trimmed input, got %q", got)
	}
}

func TestNormalizeE164_Empty(t *testing.T) {
	if got := NormalizeE164("   "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
