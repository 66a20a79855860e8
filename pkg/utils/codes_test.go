package utils

import (
	"regexp"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Pain Relief":         "pain-relief",
		"  Anti-Allergic  ":   "anti-allergic",
		"Vitamins & Minerals": "vitamins-minerals",
		"--Eye  Drops--":      "eye-drops",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	cases := map[string]string{
		"a1":          "A1",
		" shelf b 2 ": "SHELF-B-2",
		"r#3!":        "R3",
	}
	for in, want := range cases {
		if got := NormalizeCode(in); got != want {
			t.Fatalf("NormalizeCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateDocumentNo(t *testing.T) {
	at := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	got := GenerateDocumentNo("INV", at)
	if !regexp.MustCompile(`^INV-20260309-[0-9A-F]{8}$`).MatchString(got) {
		t.Fatalf("unexpected document number %q", got)
	}
	if GenerateDocumentNo("INV", at) == got {
		t.Fatalf("expected unique document numbers")
	}
}
