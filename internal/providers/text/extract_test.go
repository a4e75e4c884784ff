package text

import (
	"errors"
	"testing"

	"logoforge/internal/domain"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare",
			raw:  `{"insight":"glow","marketing_strategy":{"tone":"warm"}}`,
			want: `{"insight":"glow","marketing_strategy":{"tone":"warm"}}`,
		},
		{
			name: "commentary",
			raw:  "Sure! Here is the strategy you asked for:\n{\"insight\": \"glow\", \"n\": 1}\nLet me know if you need more.",
			want: `{"insight": "glow", "n": 1}`,
		},
		{
			name: "code_fence",
			raw:  "```json\n{\"insight\":\"fenced\"}\n```",
			want: `{"insight":"fenced"}`,
		},
		{
			name: "skips_broken_braces",
			raw:  `I think {this is not json} but {"insight":"second"} is`,
			want: `{"insight":"second"}`,
		},
		{
			name: "first_of_two",
			raw:  `{"a":1} and {"b":2}`,
			want: `{"a":1}`,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSONObject("openai", tc.raw)
			if err != nil {
				t.Fatalf("ExtractJSONObject returned error: %v", err)
			}
			if string(got) != tc.want {
				t.Fatalf("ExtractJSONObject = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestExtractJSONObjectMalformed(t *testing.T) {
	for _, raw := range []string{"", "no json here", "[1,2,3]", `{"unterminated": "value"`} {
		_, err := ExtractJSONObject("gemini", raw)
		var pe *domain.ProviderError
		if !errors.As(err, &pe) {
			t.Fatalf("ExtractJSONObject(%q) error = %v, want ProviderError", raw, err)
		}
		if pe.Kind != domain.ProviderKindMalformedJSON {
			t.Fatalf("Kind = %q, want %q", pe.Kind, domain.ProviderKindMalformedJSON)
		}
		if !errors.Is(err, ErrNoJSONObject) {
			t.Fatalf("error should wrap ErrNoJSONObject: %v", err)
		}
	}
}

func TestDecodeJSONObjectTypeMismatch(t *testing.T) {
	_, err := DecodeJSONObject[domain.Strategy]("openai", `{"insight": 42}`)
	var pe *domain.ProviderError
	if !errors.As(err, &pe) || pe.Kind != domain.ProviderKindMalformedJSON {
		t.Fatalf("error = %v, want malformed_json ProviderError", err)
	}
}
