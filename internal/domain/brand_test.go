package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestBrandRequestValidate(t *testing.T) {
	for _, title := range []string{"", " ", "\t\n  "} {
		err := BrandRequest{Title: title}.Validate()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Validate(%q) = %v, want ValidationError", title, err)
		}
		if !errors.Is(err, ErrInvalidBrand) {
			t.Fatalf("Validate(%q) should wrap ErrInvalidBrand", title)
		}
	}
	if err := (BrandRequest{Title: "Lumen"}).Validate(); err != nil {
		t.Fatalf("Validate returned error for valid title: %v", err)
	}
}

func TestValidateTitleLength(t *testing.T) {
	atLimit := strings.Repeat("ñ", MaxTitleLength)
	if err := ValidateTitle("  " + atLimit + "  "); err != nil {
		t.Fatalf("ValidateTitle at limit: %v", err)
	}
	err := ValidateTitle(atLimit + "x")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ValidateTitle over limit = %v, want ValidationError", err)
	}
	if verr.Message != "Title must be at most 200 characters" {
		t.Fatalf("message = %q", verr.Message)
	}
}

func TestParseAge(t *testing.T) {
	tests := map[string]int{
		"":      DefaultAudienceAge,
		"abc":   DefaultAudienceAge,
		"25-34": DefaultAudienceAge,
		"-4":    DefaultAudienceAge,
		"0":     DefaultAudienceAge,
		" 42 ":  42,
		"18":    18,
	}
	for in, want := range tests {
		if got := ParseAge(in); got != want {
			t.Fatalf("ParseAge(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseGender(t *testing.T) {
	tests := map[string]Gender{
		"Female": GenderFemale,
		"MUJER":  GenderFemale,
		"m":      GenderMale,
		"other":  GenderUnspecified,
		"":       GenderUnspecified,
	}
	for in, want := range tests {
		if got := ParseGender(in); got != want {
			t.Fatalf("ParseGender(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAudienceDescribe(t *testing.T) {
	got := Audience{Gender: GenderFemale, Age: 30}.Describe()
	if got != "women around 30 years old" {
		t.Fatalf("Describe() = %q", got)
	}
	if got := (Audience{}).Describe(); got != "people around 30 years old" {
		t.Fatalf("Describe() zero = %q", got)
	}
}

func TestClassifyTransport(t *testing.T) {
	timeout := ClassifyTransport("openai", fmt.Errorf("call: %w", context.DeadlineExceeded))
	if timeout.Kind != ProviderKindTimeout {
		t.Fatalf("Kind = %q, want timeout", timeout.Kind)
	}
	transport := ClassifyTransport("openai", errors.New("connection refused"))
	if transport.Kind != ProviderKindTransport {
		t.Fatalf("Kind = %q, want transport", transport.Kind)
	}
	if !errors.Is(transport, ErrProviderFailure) {
		t.Fatal("ProviderError should match ErrProviderFailure")
	}
	original := StatusError("gemini", 503, "unavailable")
	if got := ClassifyTransport("other", original); got != original {
		t.Fatal("existing ProviderError should pass through")
	}
	if original.Error() != "gemini: status (http 503): unavailable" {
		t.Fatalf("Error() = %q", original.Error())
	}
}
